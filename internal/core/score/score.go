// Package score aggregates classifier and detector output into the final report
package score

import (
	"time"

	"repocred/internal/core/patterns"
	"repocred/internal/core/vcs"
	ptime "repocred/internal/platform/time"
)

// Clock supplies the report timestamp; injected so identical samples score to
// byte identical reports
type Clock func() time.Time

// Snapshot captures repository state at verification time
type Snapshot struct {
	Language  string    `json:"language,omitempty"`
	Stars     int       `json:"stars"`
	Forks     int       `json:"forks"`
	Topics    []string  `json:"topics"`
	PushedAt  time.Time `json:"pushed_at"`
	AgeInDays int       `json:"age_in_days"`
}

// Report is the immutable verification verdict
type Report struct {
	TotalCommits          int             `json:"total_commits"`
	OwnerCommits          int             `json:"owner_commits"`
	OwnerCommitRatio      float64         `json:"owner_commit_ratio"`
	FirstCommitAt         *time.Time      `json:"first_commit_at,omitempty"`
	LastCommitAt          *time.Time      `json:"last_commit_at,omitempty"`
	CommitFrequencyPerDay float64         `json:"commit_frequency_per_day"`
	Flags                 []patterns.Flag `json:"flags"`
	Verified              bool            `json:"verified"`
	VerifiedAt            time.Time       `json:"verified_at"`
	SourceRepoSnapshot    Snapshot        `json:"source_repo_snapshot"`
}

// Scorer builds reports
type Scorer struct {
	now Clock
}

// New builds a Scorer; a nil clock falls back to time.Now
func New(now Clock) *Scorer {
	if now == nil {
		now = time.Now
	}
	return &Scorer{now: now}
}

// Score produces the full report from the pipeline stages
// verified holds exactly when no flag triggered and the owner authored at
// least one commit
func (s *Scorer) Score(meta vcs.RepoMetadata, sample []vcs.Commit, ownerCommits int, ratio float64, flags []patterns.Flag) Report {
	total := len(sample)
	now := s.now().UTC()

	r := Report{
		TotalCommits:          total,
		OwnerCommits:          ownerCommits,
		OwnerCommitRatio:      ratio,
		CommitFrequencyPerDay: frequencyPerDay(sample),
		Flags:                 orEmpty(flags),
		Verified:              len(flags) == 0 && ownerCommits > 0,
		VerifiedAt:            now,
		SourceRepoSnapshot: Snapshot{
			Language:  meta.Language,
			Stars:     meta.Stars,
			Forks:     meta.Forks,
			Topics:    orEmpty(meta.Topics),
			PushedAt:  meta.PushedAt,
			AgeInDays: ageInDays(meta.CreatedAt, now),
		},
	}

	first, last, _ := vcs.Bounds(sample)
	r.FirstCommitAt, r.LastCommitAt = ptime.Ptr(first), ptime.Ptr(last)
	return r
}

// frequencyPerDay is totalCommits over the sampled day range
// with one commit or a zero span the range is 0, so report the count itself
func frequencyPerDay(sample []vcs.Commit) float64 {
	total := len(sample)
	days := vcs.Span(sample).Hours() / 24
	if days > 0 {
		return float64(total) / days
	}
	return float64(total)
}

func ageInDays(createdAt, now time.Time) int {
	if createdAt.IsZero() || createdAt.After(now) {
		return 0
	}
	return int(now.Sub(createdAt).Hours() / 24)
}

// orEmpty keeps persisted array shapes stable: [] not null
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
