// Package gitref parses user supplied repository URLs into canonical references
package gitref

import (
	"regexp"
	"strings"

	perr "repocred/internal/platform/errors"
)

// Ref is a canonical repository reference
// Name never carries a trailing .git
type Ref struct {
	Provider     string `json:"provider"`
	Owner        string `json:"owner"`
	Name         string `json:"name"`
	CanonicalURL string `json:"canonical_url"`
}

// Matcher recognizes one hosting provider's URL grammar
type Matcher interface {
	// Provider returns the provider key, e.g. "github"
	Provider() string
	// Match parses raw and reports whether it belongs to this provider
	Match(raw string) (Ref, bool)
}

// Registry tries matchers in registration order
type Registry struct {
	matchers []Matcher
}

// NewRegistry builds a registry from the given matchers
func NewRegistry(ms ...Matcher) *Registry {
	return &Registry{matchers: append([]Matcher(nil), ms...)}
}

// Default returns a registry with all built in providers
func Default() *Registry { return NewRegistry(GitHub()) }

// Register appends a matcher; later registrations lose to earlier ones on overlap
func (r *Registry) Register(m Matcher) {
	if m != nil {
		r.matchers = append(r.matchers, m)
	}
}

// Parse resolves raw into a Ref or fails with an invalid argument error
func (r *Registry) Parse(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ref{}, perr.InvalidArgf("repository url is empty")
	}
	for _, m := range r.matchers {
		if ref, ok := m.Match(raw); ok {
			return ref, nil
		}
	}
	return Ref{}, perr.InvalidArgf("unrecognized repository url %q", raw)
}

// githubMatcher parses github.com URLs in any common shape
// (https, http, no scheme, trailing path segments)
type githubMatcher struct {
	re *regexp.Regexp
}

// GitHub returns the github.com matcher
func GitHub() Matcher {
	return &githubMatcher{
		re: regexp.MustCompile(`github\.com/([^/\s]+)/([^/\s?#]+)`),
	}
}

func (g *githubMatcher) Provider() string { return "github" }

func (g *githubMatcher) Match(raw string) (Ref, bool) {
	m := g.re.FindStringSubmatch(raw)
	if m == nil {
		return Ref{}, false
	}
	owner, name := m[1], strings.TrimSuffix(m[2], ".git")
	if owner == "" || name == "" {
		return Ref{}, false
	}
	return Ref{
		Provider:     "github",
		Owner:        owner,
		Name:         name,
		CanonicalURL: "https://github.com/" + owner + "/" + name,
	}, true
}
