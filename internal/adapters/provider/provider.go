// Package provider defines the hosting service contract the verification
// pipeline fetches from. Adapters translate host specific responses into the
// canonical vcs records and the platform error taxonomy:
// not found (404, including private repos), rate limited (429/403 with rate
// headers, carrying retry-after), unavailable (5xx/network after bounded
// retries), and upstream schema for responses that do not match the documented
// provider shape
package provider

import (
	"context"

	"repocred/internal/core/gitref"
	"repocred/internal/core/vcs"
)

// DefaultMaxCommits bounds the commit sample when the caller does not
const DefaultMaxCommits = 100

// Provider fetches repository metadata and a bounded recent commit sample
type Provider interface {
	// Name returns the provider key matching gitref refs, e.g. "github"
	Name() string

	// Metadata fetches the repository snapshot
	Metadata(ctx context.Context, ref gitref.Ref) (vcs.RepoMetadata, error)

	// Commits fetches up to limit most recent commits, paginating as needed
	// limit <= 0 falls back to DefaultMaxCommits
	Commits(ctx context.Context, ref gitref.Ref, limit int) ([]vcs.Commit, error)
}
