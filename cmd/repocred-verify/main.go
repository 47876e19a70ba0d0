// repocred-verify runs a single verification from the command line
// useful for operators and CI checks without the HTTP surface
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"

	"repocred/internal/platform/config"
	"repocred/internal/platform/logger"
	"repocred/internal/platform/store"

	"repocred/internal/adapters/provider/github"
	verifdom "repocred/internal/services/verification/domain"
	verifmod "repocred/internal/services/verification/module"
	verifrepo "repocred/internal/services/verification/repo"
	verifsvc "repocred/internal/services/verification/service"
)

func main() {
	root := config.New()
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")

	l := logger.Get()

	var (
		fProject = flag.String("project", "", "project id to verify")
		fRepo    = flag.String("repo", "", "repository url, e.g. https://github.com/alice/widget")
		fEmail   = flag.String("email", "", "claimed owner email")
		fHandle  = flag.String("handle", "", "claimed owner handle (optional)")
		fNoCH    = flag.Bool("no-ch", false, "skip the clickhouse telemetry mirror")
	)
	flag.Parse()

	if *fProject == "" || *fRepo == "" || *fEmail == "" {
		l.Panic().Msg("must provide -project, -repo and -email")
	}

	chEnabled := !*fNoCH
	chURL := ""
	if chEnabled {
		chURL = chCfg.MustString("DBURL")
	}

	st, err := store.Open(context.Background(), store.Config{
		PG: store.PGConfig{
			Enabled:     true,
			URL:         pgCfg.MustString("DBURL"),
			MaxConns:    int32(pgCfg.MayInt("MAX_CONNS", 2)),
			SlowQueryMs: pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:      pgCfg.MayBool("LOG_SQL", false),
		},
		CH: store.CHConfig{
			Enabled: chEnabled,
			URL:     chURL,
			Role:    "verify",
			Tag:     "repocred",
		},
	}, store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	o := verifmod.FromConfig(root)

	pv := github.NewClient(github.Options{
		TokensCSV:  o.TokensCSV,
		Timeout:    o.FetchTimeout,
		MaxRetries: o.FetchRetries,
	})
	reports := verifrepo.NewStore(st.PG, o.SaveAttempts)
	telemetry := verifrepo.NewTelemetry(st.PG, st.CH)

	svc := verifsvc.New(pv, reports, telemetry, verifsvc.Config{
		MaxCommits: o.MaxCommits,
		Thresholds: o.Thresholds,
	})

	out, err := svc.Verify(context.Background(), verifdom.VerifyInput{
		ProjectID:     *fProject,
		RepositoryURL: *fRepo,
		ClaimedEmail:  *fEmail,
		ClaimedHandle: *fHandle,
	})
	if err != nil {
		l.Panic().Err(err).Str("project_id", *fProject).Msg("verification failed")
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		l.Panic().Err(err).Msg("encode report failed")
	}
}
