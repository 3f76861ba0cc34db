package git_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/randalmurphal/mergetrain/git"
	"github.com/randalmurphal/mergetrain/testutil"
)

func newMockedContext(t *testing.T) (*git.Context, *git.MockRunner) {
	t.Helper()

	repo := testutil.SetupTestRepo(t)
	runner := &git.MockRunner{}
	ctx, err := git.NewContext(repo, git.WithRunner(runner))
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx, runner
}

func TestNewContext_NotARepo(t *testing.T) {
	_, err := git.NewContext(t.TempDir())
	if !errors.Is(err, git.ErrNotGitRepo) {
		t.Errorf("err = %v, want ErrNotGitRepo", err)
	}
}

func TestNewContext_MissingPath(t *testing.T) {
	_, err := git.NewContext("/nonexistent/path/for/mergetrain")
	if err == nil {
		t.Fatal("expected error for missing path")
	}
	if errors.Is(err, git.ErrNotGitRepo) {
		t.Error("missing path should fail before repository check")
	}
}

func TestMergeNoFF_CommandLine(t *testing.T) {
	ctx, runner := newMockedContext(t)

	if err := ctx.MergeNoFF("origin/feature-a", "Merge PR #12"); err != nil {
		t.Fatalf("MergeNoFF: %v", err)
	}

	want := []string{"merge", "--no-ff", "-m", "Merge PR #12", "origin/feature-a"}
	if got := runner.Calls[len(runner.Calls)-1].Args; !reflect.DeepEqual(got, want) {
		t.Errorf("merge args = %v, want %v", got, want)
	}
}

func TestMergeNoFF_Conflict(t *testing.T) {
	ctx, runner := newMockedContext(t)

	runner.RunFunc = func(dir, name string, args ...string) (string, error) {
		switch args[0] {
		case "merge":
			return "CONFLICT (content): Merge conflict in main.go", fmt.Errorf("exit status 1")
		case "diff":
			return "main.go", nil
		}
		return "", nil
	}

	err := ctx.MergeNoFF("origin/feature-a", "")
	if !errors.Is(err, git.ErrMergeConflict) {
		t.Fatalf("err = %v, want ErrMergeConflict", err)
	}

	var gitErr *git.Error
	if !errors.As(err, &gitErr) {
		t.Fatalf("error should be *git.Error, got %T", err)
	}
	if gitErr.Output == "" {
		t.Error("conflict error should carry captured output")
	}
}

func TestMergeNoFF_NonConflictFailure(t *testing.T) {
	ctx, runner := newMockedContext(t)

	runner.RunFunc = func(dir, name string, args ...string) (string, error) {
		if args[0] == "merge" {
			return "fatal: refusing to merge unrelated histories", fmt.Errorf("exit status 128")
		}
		return "", nil
	}

	err := ctx.MergeNoFF("origin/feature-a", "")
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, git.ErrMergeConflict) {
		t.Error("failure without unmerged files must not be a conflict")
	}
}

func TestCheckoutTrack_CommandLine(t *testing.T) {
	ctx, runner := newMockedContext(t)

	if err := ctx.CheckoutTrack("origin", "release-1.4"); err != nil {
		t.Fatalf("CheckoutTrack: %v", err)
	}

	want := []string{"checkout", "--track", "origin/release-1.4"}
	if got := runner.Calls[len(runner.Calls)-1].Args; !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestFetch_CommandLine(t *testing.T) {
	ctx, runner := newMockedContext(t)

	if err := ctx.Fetch("origin", "feature-a"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	want := []string{"fetch", "origin", "feature-a"}
	if got := runner.Calls[len(runner.Calls)-1].Args; !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestPush_SetUpstream(t *testing.T) {
	ctx, runner := newMockedContext(t)

	if err := ctx.Push("origin", "release-1.4", true); err != nil {
		t.Fatalf("Push: %v", err)
	}

	want := []string{"push", "-u", "origin", "release-1.4"}
	if got := runner.Calls[len(runner.Calls)-1].Args; !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestBranchExists_RealRepo(t *testing.T) {
	repo := testutil.SetupTestRepo(t)
	ctx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	if !ctx.BranchExists("main") {
		t.Error("main should exist")
	}
	if ctx.BranchExists("release-9.9") {
		t.Error("release-9.9 should not exist")
	}
}

func TestRemoteBranchExists_RealRepo(t *testing.T) {
	repo := testutil.SetupTestRepo(t)
	testutil.SetupRemote(t, repo)

	ctx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	if !ctx.RemoteBranchExists("origin", "main") {
		t.Error("origin/main should exist")
	}
	if ctx.RemoteBranchExists("origin", "release-9.9") {
		t.Error("origin/release-9.9 should not exist")
	}
}

func TestMergeNoFF_RealConflict(t *testing.T) {
	repo := testutil.SetupTestRepo(t)

	testutil.CreateBranch(t, repo, "feature-a")
	testutil.CommitFile(t, repo, "shared.txt", "feature content\n", "Feature change")
	testutil.SwitchBranch(t, repo, "main")
	testutil.CommitFile(t, repo, "shared.txt", "main content\n", "Main change")

	ctx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	err = ctx.MergeNoFF("feature-a", "Merge feature-a")
	if !errors.Is(err, git.ErrMergeConflict) {
		t.Fatalf("err = %v, want ErrMergeConflict", err)
	}

	files, err := ctx.ConflictFiles()
	if err != nil {
		t.Fatalf("ConflictFiles: %v", err)
	}
	if len(files) != 1 || files[0] != "shared.txt" {
		t.Errorf("conflict files = %v, want [shared.txt]", files)
	}
}

func TestMergeNoFF_CreatesMergeCommit(t *testing.T) {
	repo := testutil.SetupTestRepo(t)

	testutil.CreateBranch(t, repo, "feature-a")
	testutil.CommitFile(t, repo, "a.txt", "a\n", "Add a")
	testutil.SwitchBranch(t, repo, "main")

	ctx, err := git.NewContext(repo)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	// Fast-forward would be possible; --no-ff must still create a merge commit.
	if err := ctx.MergeNoFF("feature-a", "Merge feature-a"); err != nil {
		t.Fatalf("MergeNoFF: %v", err)
	}

	if got := testutil.CountMergeCommits(t, repo); got != 1 {
		t.Errorf("merge commits = %d, want 1", got)
	}
}
