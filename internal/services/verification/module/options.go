package module

import (
	"time"

	"repocred/internal/core/patterns"
	"repocred/internal/platform/config"
)

// Options controls the verification pipeline
type Options struct {
	TokensCSV    string
	MaxCommits   int
	SaveAttempts int
	FetchRetries int
	FetchTimeout time.Duration

	Thresholds patterns.Thresholds
}

// FromConfig reads with VERIFY_ prefix
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("VERIFY_")
	th := patterns.DefaultThresholds()
	return Options{
		TokensCSV:    c.MayString("GH_TOKENS", ""),
		MaxCommits:   c.MayInt("MAX_COMMITS", 100),
		SaveAttempts: c.MayInt("SAVE_ATTEMPTS", 3),
		FetchRetries: c.MayInt("FETCH_RETRIES", 3),
		FetchTimeout: c.MayDuration("FETCH_TIMEOUT", 10*time.Second),
		Thresholds: patterns.Thresholds{
			BulkImportMinCommits:       c.MayInt("BULK_IMPORT_MIN_COMMITS", th.BulkImportMinCommits),
			BulkImportMaxSpan:          c.MayDuration("BULK_IMPORT_MAX_SPAN", th.BulkImportMaxSpan),
			LowContributionMinCommits:  c.MayInt("LOW_CONTRIB_MIN_COMMITS", th.LowContributionMinCommits),
			LowContributionMaxRatio:    c.MayFloat64("LOW_CONTRIB_MAX_RATIO", th.LowContributionMaxRatio),
			GenericMessagesMaxFraction: c.MayFloat64("GENERIC_MSG_MAX_FRACTION", th.GenericMessagesMaxFraction),
		},
	}
}
