package pr

import (
	"testing"
	"time"

	"github.com/google/go-github/v57/github"
	"github.com/xanzy/go-gitlab"
)

func TestDetectProvider(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://github.com/owner/repo.git", "github", false},
		{"git@github.com:owner/repo.git", "github", false},
		{"https://gitlab.com/group/project.git", "gitlab", false},
		{"https://gitlab.example.com/group/project.git", "gitlab", false},
		{"https://example.com/owner/repo.git", "", true},
	}

	for _, tt := range tests {
		got, err := DetectProvider(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("DetectProvider(%q): expected error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("DetectProvider(%q): %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("DetectProvider(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestParseRepoFromURL(t *testing.T) {
	tests := []struct {
		url       string
		owner     string
		repo      string
		wantErr   bool
	}{
		{"https://github.com/acme/widgets.git", "acme", "widgets", false},
		{"https://github.com/acme/widgets", "acme", "widgets", false},
		{"git@github.com:acme/widgets.git", "acme", "widgets", false},
		{"not-a-url", "", "", true},
	}

	for _, tt := range tests {
		owner, repo, err := ParseRepoFromURL(tt.url)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepoFromURL(%q): expected error", tt.url)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepoFromURL(%q): %v", tt.url, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRepoFromURL(%q) = %q/%q, want %q/%q",
				tt.url, owner, repo, tt.owner, tt.repo)
		}
	}
}

func TestPRFromGitHub(t *testing.T) {
	merged := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("open PR with author", func(t *testing.T) {
		pull := &github.PullRequest{
			Number:  github.Int(20362),
			State:   github.String("open"),
			Title:   github.String("Fix session timeout"),
			Body:    github.String("see ENI-1542"),
			HTMLURL: github.String("https://github.com/acme/widgets/pull/20362"),
			Head:    &github.PullRequestBranch{Ref: github.String("fix/session")},
			Base:    &github.PullRequestBranch{Ref: github.String("main")},
			User: &github.User{
				ID:    github.Int64(99),
				Login: github.String("bob"),
			},
		}

		got := prFromGitHub(pull)
		if got.Number != 20362 {
			t.Errorf("Number = %d, want 20362", got.Number)
		}
		if got.State != StateOpen {
			t.Errorf("State = %q, want open", got.State)
		}
		if got.Head != "fix/session" {
			t.Errorf("Head = %q, want fix/session", got.Head)
		}
		if got.Author.Login != "bob" || got.Author.ID != "99" {
			t.Errorf("Author = %+v", got.Author)
		}
		if got.Author.Name != "bob" {
			t.Errorf("Name should fall back to login, got %q", got.Author.Name)
		}
	})

	t.Run("merged PR", func(t *testing.T) {
		pull := &github.PullRequest{
			Number:   github.Int(7),
			State:    github.String("closed"),
			MergedAt: &github.Timestamp{Time: merged},
		}

		if got := prFromGitHub(pull); got.State != StateMerged {
			t.Errorf("State = %q, want merged", got.State)
		}
	})

	t.Run("closed PR", func(t *testing.T) {
		pull := &github.PullRequest{
			Number: github.Int(8),
			State:  github.String("closed"),
		}

		if got := prFromGitHub(pull); got.State != StateClosed {
			t.Errorf("State = %q, want closed", got.State)
		}
	})
}

func TestPRFromGitLab(t *testing.T) {
	mr := &gitlab.MergeRequest{
		IID:          42,
		State:        "opened",
		Title:        "Add metrics",
		Description:  "PROJ-9",
		WebURL:       "https://gitlab.com/acme/widgets/-/merge_requests/42",
		SourceBranch: "feat/metrics",
		TargetBranch: "main",
		Author: &gitlab.BasicUser{
			ID:       7,
			Username: "amy",
			Name:     "Amy A.",
		},
	}

	got := prFromGitLab(mr)
	if got.Number != 42 {
		t.Errorf("Number = %d, want 42", got.Number)
	}
	if got.State != StateOpen {
		t.Errorf("State = %q, want open", got.State)
	}
	if got.Author.Login != "amy" || got.Author.Name != "Amy A." {
		t.Errorf("Author = %+v", got.Author)
	}
}

func TestGitlabState(t *testing.T) {
	if got := gitlabState(StateOpen); got != "opened" {
		t.Errorf("gitlabState(open) = %q, want opened", got)
	}
	if got := gitlabState(StateMerged); got != "merged" {
		t.Errorf("gitlabState(merged) = %q, want merged", got)
	}
}
