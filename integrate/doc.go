// Package integrate drives the end-to-end integration run: it validates
// the configured sub pull requests, prepares the release branch, merges
// each sub-PR head into it with ordinary (non-fast-forward) merge commits,
// and creates or refreshes the aggregated integration pull request.
//
// Progress is persisted through a state.Store after every merge attempt,
// so a run that pauses on a merge conflict can be resumed after manual
// resolution and picks up exactly where it stopped.
package integrate
