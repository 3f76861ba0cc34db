// Package git provides the version-control backend for integration runs:
// branch existence checks, checkout, pull, fetch, non-fast-forward merges,
// and push, all executed against a local repository checkout.
//
// Core types:
//   - Context: repository handle with branch and merge operations
//   - CommandRunner: interface for executing git commands (MockRunner for tests)
//
// Example usage:
//
//	ctx, err := git.NewContext("/path/to/repo")
//	if err := ctx.MergeNoFF("origin/feature-x", "Merge PR #42"); err != nil {
//	    if errors.Is(err, git.ErrMergeConflict) {
//	        // leave the tree mid-merge for manual resolution
//	    }
//	}
package git
