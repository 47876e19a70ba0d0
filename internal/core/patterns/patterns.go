// Package patterns evaluates independent fraud heuristics over a commit sample
package patterns

import (
	"fmt"
	"regexp"
	"time"

	"repocred/internal/core/msgnorm"
	"repocred/internal/core/vcs"
)

// Kind names one heuristic
type Kind string

// Heuristic kinds, stable strings for the persisted report
const (
	KindBulkImport      Kind = "bulk_import"
	KindLowContribution Kind = "low_contribution"
	KindNoOwnerCommits  Kind = "no_owner_commits"
	KindGenericMessages Kind = "generic_messages"
	KindEmptyRepository Kind = "empty_repository"
)

// Severity grades a flag
type Severity string

const (
	// SeverityInfo marks flags that lower confidence without implying fraud
	SeverityInfo Severity = "info"
	// SeverityWarning marks flags that strongly suggest an inauthentic history
	SeverityWarning Severity = "warning"
)

// Flag is one triggered heuristic with its measured value in the description
type Flag struct {
	Kind        Kind     `json:"kind"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
}

// Thresholds tunes heuristic sensitivity; all comparisons stay strict so
// boundary values never trigger
type Thresholds struct {
	// BulkImportMinCommits triggers on totalCommits strictly above it
	BulkImportMinCommits int
	// BulkImportMaxSpan triggers on sample spans strictly below it
	BulkImportMaxSpan time.Duration
	// LowContributionMinCommits triggers on totalCommits strictly above it
	LowContributionMinCommits int
	// LowContributionMaxRatio triggers on ratios strictly below it
	LowContributionMaxRatio float64
	// GenericMessagesMaxFraction triggers on fractions strictly above it
	GenericMessagesMaxFraction float64
}

// DefaultThresholds returns the documented defaults
func DefaultThresholds() Thresholds {
	return Thresholds{
		BulkImportMinCommits:       50,
		BulkImportMaxSpan:          24 * time.Hour,
		LowContributionMinCommits:  20,
		LowContributionMaxRatio:    0.10,
		GenericMessagesMaxFraction: 0.80,
	}
}

// genericMessage matches boilerplate or contentless messages after folding
var genericMessage = regexp.MustCompile(`^(update|fix|init|initial commit|.{1,5})$`)

// Detector runs the fixed heuristics table
type Detector struct {
	th   Thresholds
	norm *msgnorm.Normalizer
}

// New builds a Detector with the given thresholds
func New(th Thresholds) *Detector {
	return &Detector{th: th, norm: msgnorm.New()}
}

// Detect evaluates every heuristic over sample and returns triggered flags
// ownerCommits and ratio come from the authorship classifier
func (d *Detector) Detect(sample []vcs.Commit, ownerCommits int, ratio float64) []Flag {
	total := len(sample)
	if total == 0 {
		return []Flag{{
			Kind:        KindEmptyRepository,
			Severity:    SeverityInfo,
			Description: "repository has no commits",
		}}
	}

	var flags []Flag

	if total > d.th.BulkImportMinCommits {
		if span := vcs.Span(sample); span < d.th.BulkImportMaxSpan {
			flags = append(flags, Flag{
				Kind:     KindBulkImport,
				Severity: SeverityWarning,
				Description: fmt.Sprintf("all %d commits made within %s (possible bulk import)",
					total, span.Round(time.Minute)),
			})
		}
	}

	if total > d.th.LowContributionMinCommits && ratio < d.th.LowContributionMaxRatio {
		flags = append(flags, Flag{
			Kind:        KindLowContribution,
			Severity:    SeverityWarning,
			Description: fmt.Sprintf("owner contributed only %.1f%% of commits", ratio*100),
		})
	}

	if ownerCommits == 0 {
		flags = append(flags, Flag{
			Kind:        KindNoOwnerCommits,
			Severity:    SeverityWarning,
			Description: "no commits matched the owner identity",
		})
	}

	if frac := d.genericFraction(sample); frac > d.th.GenericMessagesMaxFraction {
		flags = append(flags, Flag{
			Kind:        KindGenericMessages,
			Severity:    SeverityInfo,
			Description: fmt.Sprintf("%.0f%% of commit messages are generic", frac*100),
		})
	}

	return flags
}

// genericFraction counts messages matching the boilerplate grammar after
// unicode folding, so lookalike characters cannot dodge the match
func (d *Detector) genericFraction(sample []vcs.Commit) float64 {
	generic := 0
	for _, c := range sample {
		if genericMessage.MatchString(d.norm.Normalize(c.Message)) {
			generic++
		}
	}
	return float64(generic) / float64(len(sample))
}
