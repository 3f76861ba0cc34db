package pr

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// State represents the lifecycle state of a pull request.
type State string

const (
	StateOpen   State = "open"
	StateClosed State = "closed"
	StateMerged State = "merged"
)

// Provider is the code-hosting backend for integration runs.
// Implementations exist for GitHub and GitLab.
type Provider interface {
	// GetPR retrieves a pull request by number.
	GetPR(ctx context.Context, number int) (*PullRequest, error)

	// ListPRs lists pull requests matching the filter.
	ListPRs(ctx context.Context, filter Filter) ([]*PullRequest, error)

	// CreatePR creates a new pull request.
	CreatePR(ctx context.Context, opts Options) (*PullRequest, error)

	// UpdatePR updates an existing pull request.
	UpdatePR(ctx context.Context, number int, opts UpdateOptions) (*PullRequest, error)
}

// Options configures pull request creation.
type Options struct {
	Title string // PR title (required)
	Body  string // PR description (markdown)
	Base  string // Target branch (default: "main")
	Head  string // Source branch
	Draft bool   // Create as draft
}

// UpdateOptions configures pull request updates.
type UpdateOptions struct {
	Title *string // New title (nil = no change)
	Body  *string // New body (nil = no change)
}

// Filter configures pull request listing.
type Filter struct {
	State State  // Filter by state (empty = all)
	Base  string // Filter by base branch
	Head  string // Filter by head branch
}

// Author identifies the user who opened a pull request.
type Author struct {
	ID    string // Provider-specific user ID
	Login string // Username
	Name  string // Display name (falls back to login when unset)
}

// PullRequest is the immutable record of a sub-PR, fetched once per run.
type PullRequest struct {
	Number    int       // PR number (unique key)
	URL       string    // Web URL
	Title     string    // PR title
	Body      string    // PR description
	State     State     // Lifecycle state
	Draft     bool      // Whether it's a draft
	Head      string    // Source branch
	Base      string    // Target branch
	Author    Author    // Who opened it
	CreatedAt time.Time // Creation time
	UpdatedAt time.Time // Last update time
}

// DetectProvider attempts to detect the PR provider from a remote URL.
func DetectProvider(remoteURL string) (string, error) {
	remoteURL = strings.ToLower(remoteURL)

	if strings.Contains(remoteURL, "github.com") {
		return "github", nil
	}
	if strings.Contains(remoteURL, "gitlab.com") || strings.Contains(remoteURL, "gitlab") {
		return "gitlab", nil
	}

	return "", ErrUnknownProvider
}

// ParseRepoFromURL extracts owner and repo from a git remote URL.
func ParseRepoFromURL(remoteURL string) (owner, repo string, err error) {
	// Handle SSH URLs: git@github.com:owner/repo.git
	if strings.HasPrefix(remoteURL, "git@") {
		parts := strings.Split(remoteURL, ":")
		if len(parts) != 2 {
			return "", "", fmt.Errorf("invalid SSH URL format")
		}
		path := strings.TrimSuffix(parts[1], ".git")
		pathParts := strings.Split(path, "/")
		if len(pathParts) != 2 {
			return "", "", fmt.Errorf("invalid repository path")
		}
		return pathParts[0], pathParts[1], nil
	}

	// Handle HTTPS URLs: https://github.com/owner/repo.git
	remoteURL = strings.TrimPrefix(remoteURL, "https://")
	remoteURL = strings.TrimPrefix(remoteURL, "http://")
	remoteURL = strings.TrimSuffix(remoteURL, ".git")

	parts := strings.Split(remoteURL, "/")
	if len(parts) < 3 {
		return "", "", fmt.Errorf("invalid URL format")
	}

	return parts[len(parts)-2], parts[len(parts)-1], nil
}
