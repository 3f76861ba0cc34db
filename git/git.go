package git

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Context manages git operations for a repository checkout.
type Context struct {
	repoPath string        // Absolute path to the repository
	runner   CommandRunner // Command runner (defaults to ExecRunner)
}

// Option configures Context.
type Option func(*Context)

// NewContext creates a new git context for the repository.
// It validates that the path exists and is a git repository.
func NewContext(repoPath string, opts ...Option) (*Context, error) {
	absPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, fmt.Errorf("repository path %q: %w", repoPath, err)
	}

	// Verify it's a git repository
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = absPath
	if err := cmd.Run(); err != nil {
		return nil, ErrNotGitRepo
	}

	g := &Context{
		repoPath: absPath,
		runner:   NewExecRunner(),
	}

	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

// WithRunner sets a custom command runner for git operations.
// This is primarily used for testing to inject mock command execution.
func WithRunner(runner CommandRunner) Option {
	return func(g *Context) {
		g.runner = runner
	}
}

// RepoPath returns the absolute path to the repository.
func (g *Context) RepoPath() string {
	return g.repoPath
}

// CurrentBranch returns the current branch name.
func (g *Context) CurrentBranch() (string, error) {
	branch, err := g.runGit("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", &Error{Op: "get current branch", Err: err}
	}
	return branch, nil
}

// Checkout switches to the specified ref (branch, tag, or commit).
func (g *Context) Checkout(ref string) error {
	if _, err := g.runGit("checkout", ref); err != nil {
		return &Error{Op: "checkout", Err: err}
	}
	return nil
}

// CheckoutNew creates a new branch at HEAD and checks it out.
func (g *Context) CheckoutNew(name string) error {
	if _, err := g.runGit("checkout", "-b", name); err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return ErrBranchExists
		}
		return &Error{Op: "create branch", Err: err}
	}
	return nil
}

// CheckoutTrack creates a local branch tracking the remote branch of the
// same name and checks it out.
func (g *Context) CheckoutTrack(remote, branch string) error {
	if _, err := g.runGit("checkout", "--track", remote+"/"+branch); err != nil {
		return &Error{Op: "checkout tracking branch", Err: err}
	}
	return nil
}

// BranchExists checks if a local branch exists.
func (g *Context) BranchExists(name string) bool {
	_, err := g.runGit("rev-parse", "--verify", "refs/heads/"+name)
	return err == nil
}

// RemoteBranchExists checks if the branch exists on the remote.
// It queries the remote directly rather than relying on local tracking refs.
func (g *Context) RemoteBranchExists(remote, name string) bool {
	out, err := g.runGit("ls-remote", "--heads", remote, "refs/heads/"+name)
	return err == nil && out != ""
}

// Pull pulls changes from the remote.
func (g *Context) Pull(remote, branch string) error {
	if _, err := g.runGit("pull", remote, branch); err != nil {
		return &Error{Op: "pull", Err: err}
	}
	return nil
}

// Fetch fetches a ref from the remote.
func (g *Context) Fetch(remote, ref string) error {
	if _, err := g.runGit("fetch", remote, ref); err != nil {
		return &Error{Op: "fetch", Err: err}
	}
	return nil
}

// MergeNoFF merges ref into the current branch, always creating a merge
// commit. Returns an Error wrapping ErrMergeConflict when the merge stopped
// on content conflicts; the working tree is left mid-merge for manual
// resolution.
func (g *Context) MergeNoFF(ref, message string) error {
	args := []string{"merge", "--no-ff"}
	if message != "" {
		args = append(args, "-m", message)
	}
	args = append(args, ref)

	output, err := g.runGit(args...)
	if err == nil {
		return nil
	}

	if conflicts, detectErr := g.ConflictFiles(); detectErr == nil && len(conflicts) > 0 {
		return &Error{Op: "merge", Output: output, Err: ErrMergeConflict}
	}
	return &Error{Op: "merge", Output: output, Err: err}
}

// ConflictFiles returns the paths of unmerged files in the working tree.
// An empty result means no merge is in progress or it has no conflicts.
func (g *Context) ConflictFiles() ([]string, error) {
	output, err := g.runGit("diff", "--name-only", "--diff-filter=U")
	if err != nil {
		return nil, &Error{Op: "list conflicts", Err: err}
	}
	if output == "" {
		return nil, nil
	}

	var files []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}

// Push pushes the branch to the remote.
// If setUpstream is true, uses -u to set upstream tracking.
func (g *Context) Push(remote, branch string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, branch)

	if _, err := g.runGit(args...); err != nil {
		return &Error{Op: "push", Err: err}
	}
	return nil
}

// IsBranchPushed checks if the branch has a remote tracking counterpart.
func (g *Context) IsBranchPushed(remote, branch string) bool {
	_, err := g.runGit("rev-parse", "--verify", remote+"/"+branch)
	return err == nil
}

// HeadCommit returns the current HEAD commit SHA.
func (g *Context) HeadCommit() (string, error) {
	sha, err := g.runGit("rev-parse", "HEAD")
	if err != nil {
		return "", &Error{Op: "get HEAD commit", Err: err}
	}
	return sha, nil
}

// GetRemoteURL returns the URL of the specified remote.
func (g *Context) GetRemoteURL(remote string) (string, error) {
	url, err := g.runGit("remote", "get-url", remote)
	if err != nil {
		return "", &Error{Op: "get remote URL", Err: err}
	}
	return url, nil
}

// runGit executes a git command and returns stdout.
func (g *Context) runGit(args ...string) (string, error) {
	return g.runner.Run(g.repoPath, "git", args...)
}
