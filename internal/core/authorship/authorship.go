// Package authorship partitions a commit sample into owner authored and other
package authorship

import (
	"strings"

	"repocred/internal/core/vcs"
)

// Resolver decides whether a single commit belongs to the claimed identity
// stronger resolution (linked accounts, alias sets) plugs in here without
// touching detection thresholds
type Resolver interface {
	Owns(c vcs.Commit, id vcs.OwnerIdentity) bool
}

// EmailResolver is the default heuristic: the commit email equals the claimed
// email case insensitively, or the commit handle equals the claimed handle
// (when supplied) or the claimed email's local part
type EmailResolver struct{}

// Owns implements Resolver
func (EmailResolver) Owns(c vcs.Commit, id vcs.OwnerIdentity) bool {
	if id.ClaimedEmail != "" && strings.EqualFold(c.AuthorEmail, id.ClaimedEmail) {
		return true
	}
	if c.AuthorHandle == "" {
		return false
	}
	if id.ClaimedHandle != "" && c.AuthorHandle == id.ClaimedHandle {
		return true
	}
	if local, _, ok := strings.Cut(id.ClaimedEmail, "@"); ok && local != "" {
		return c.AuthorHandle == local
	}
	return false
}

// Classifier applies a Resolver over a sample
type Classifier struct {
	resolver Resolver
}

// New builds a Classifier; a nil resolver falls back to EmailResolver
func New(r Resolver) *Classifier {
	if r == nil {
		r = EmailResolver{}
	}
	return &Classifier{resolver: r}
}

// Classify returns the owner authored commits and their ratio of the sample
// an empty sample yields ratio exactly 0, never NaN
func (cl *Classifier) Classify(sample []vcs.Commit, id vcs.OwnerIdentity) (owned []vcs.Commit, ratio float64) {
	if len(sample) == 0 {
		return nil, 0
	}
	for _, c := range sample {
		if cl.resolver.Owns(c, id) {
			owned = append(owned, c)
		}
	}
	return owned, float64(len(owned)) / float64(len(sample))
}
