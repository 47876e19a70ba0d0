// Package vcs holds canonical commit and repository records shared by the
// verification pipeline; provider adapters translate host specific JSON into
// these shapes so downstream stages stay provider agnostic
package vcs

import "time"

// Commit is one sampled commit, immutable once fetched
type Commit struct {
	SHA          string    `json:"sha"`
	AuthorName   string    `json:"author_name"`
	AuthorEmail  string    `json:"author_email"`
	AuthorHandle string    `json:"author_handle,omitempty"`
	Message      string    `json:"message"`
	AuthoredAt   time.Time `json:"authored_at"`
}

// RepoMetadata is the repository snapshot taken at verification time
type RepoMetadata struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Language    string    `json:"language,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PushedAt    time.Time `json:"pushed_at"`
	Size        int       `json:"size"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	Topics      []string  `json:"topics,omitempty"`
}

// OwnerIdentity is the identity the claimant asserts, supplied by the caller
type OwnerIdentity struct {
	ClaimedEmail  string `json:"claimed_email"`
	ClaimedHandle string `json:"claimed_handle,omitempty"`
}

// Span returns the time between the oldest and newest commit in sample
// zero when the sample has fewer than two commits
func Span(sample []Commit) time.Duration {
	if len(sample) < 2 {
		return 0
	}
	min, max := sample[0].AuthoredAt, sample[0].AuthoredAt
	for _, c := range sample[1:] {
		if c.AuthoredAt.Before(min) {
			min = c.AuthoredAt
		}
		if c.AuthoredAt.After(max) {
			max = c.AuthoredAt
		}
	}
	return max.Sub(min)
}

// Bounds returns the oldest and newest authored times in sample
// ok is false for an empty sample
func Bounds(sample []Commit) (first, last time.Time, ok bool) {
	if len(sample) == 0 {
		return time.Time{}, time.Time{}, false
	}
	first, last = sample[0].AuthoredAt, sample[0].AuthoredAt
	for _, c := range sample[1:] {
		if c.AuthoredAt.Before(first) {
			first = c.AuthoredAt
		}
		if c.AuthoredAt.After(last) {
			last = c.AuthoredAt
		}
	}
	return first, last, true
}
