// Package pr provides the code-hosting backend: fetching sub-PR records,
// listing pull requests by head and base, and creating or editing the
// integration PR.
//
// Core types:
//   - Provider: interface implemented for GitHub and GitLab
//   - PullRequest: the immutable sub-PR record (number, state, head, author)
//   - MockProvider: mock implementation for tests
//
// Providers are usually constructed from the repository's remote URL:
//
//	remoteURL, _ := gitCtx.GetRemoteURL("origin")
//	provider, err := pr.ProviderFromEnv(remoteURL)
package pr
