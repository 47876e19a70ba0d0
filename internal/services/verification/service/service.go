// Package service contains the verification pipeline
package service

import (
	"context"

	"repocred/internal/adapters/provider"
	"repocred/internal/core/authorship"
	"repocred/internal/core/gitref"
	"repocred/internal/core/patterns"
	"repocred/internal/core/score"
	"repocred/internal/core/vcs"
	"repocred/internal/platform/logger"
	"repocred/internal/services/verification/domain"
)

// Service defines the verification service contract
type Service interface {
	domain.ServicePort
}

// Config tunes the pipeline
type Config struct {
	// MaxCommits bounds the fetched sample, 0 means the provider default
	MaxCommits int
	// Thresholds feed the pattern detector
	Thresholds patterns.Thresholds
}

// Svc implements the verification service
type Svc struct {
	cfg Config

	refs       *gitref.Registry
	provider   provider.Provider
	classifier *authorship.Classifier
	detector   *patterns.Detector
	scorer     *score.Scorer

	reports   domain.ReportStorePort
	telemetry domain.TelemetryPort

	log logger.Logger
}

// New constructs a verification service
func New(pv provider.Provider, reports domain.ReportStorePort, telemetry domain.TelemetryPort, cfg Config) *Svc {
	if pv == nil {
		panic("verification.Service requires a non nil provider")
	}
	if reports == nil {
		panic("verification.Service requires a non nil report store")
	}
	return &Svc{
		cfg:        cfg,
		refs:       gitref.Default(),
		provider:   pv,
		classifier: authorship.New(nil),
		detector:   patterns.New(cfg.Thresholds),
		scorer:     score.New(nil),
		reports:    reports,
		telemetry:  telemetry,
		log:        *logger.Named("verification"),
	}
}

// Verify runs the full pipeline for one project
// nothing is persisted unless every stage before persistence succeeded
func (s *Svc) Verify(ctx context.Context, in domain.VerifyInput) (domain.VerifyOutput, error) {
	ref, err := s.refs.Parse(in.RepositoryURL)
	if err != nil {
		return domain.VerifyOutput{}, err
	}

	meta, sample, err := s.fetch(ctx, ref)
	if err != nil {
		s.log.Warn().Err(err).
			Str("project_id", in.ProjectID).
			Str("repo", ref.CanonicalURL).
			Msg("verification fetch failed")
		return domain.VerifyOutput{}, err
	}

	identity := vcs.OwnerIdentity{ClaimedEmail: in.ClaimedEmail, ClaimedHandle: in.ClaimedHandle}
	owned, ratio := s.classifier.Classify(sample, identity)
	flags := s.detector.Detect(sample, len(owned), ratio)
	rep := s.scorer.Score(meta, sample, len(owned), ratio, flags)

	if err := s.reports.Save(ctx, in.ProjectID, rep); err != nil {
		s.log.Error().Err(err).
			Str("project_id", in.ProjectID).
			Str("repo", ref.CanonicalURL).
			Msg("verification persist failed")
		return domain.VerifyOutput{}, err
	}

	if s.telemetry != nil {
		s.telemetry.Emit(ctx, in.ProjectID, rep)
	}

	s.log.Info().
		Str("project_id", in.ProjectID).
		Str("repo", ref.CanonicalURL).
		Bool("verified", rep.Verified).
		Int("total_commits", rep.TotalCommits).
		Int("flags", len(rep.Flags)).
		Msg("verification complete")

	return domain.VerifyOutput{
		ProjectID:  in.ProjectID,
		Repository: ref.CanonicalURL,
		Report:     rep,
	}, nil
}

// Report returns the stored report for projectID
func (s *Svc) Report(ctx context.Context, projectID string) (score.Report, error) {
	return s.reports.Load(ctx, projectID)
}

// fetch pulls metadata and the commit sample concurrently
// either failure fails the whole call, metadata errors win ties
func (s *Svc) fetch(ctx context.Context, ref gitref.Ref) (vcs.RepoMetadata, []vcs.Commit, error) {
	type metaRes struct {
		meta vcs.RepoMetadata
		err  error
	}
	type commitsRes struct {
		sample []vcs.Commit
		err    error
	}

	metaCh := make(chan metaRes, 1)
	commitsCh := make(chan commitsRes, 1)

	go func() {
		m, err := s.provider.Metadata(ctx, ref)
		metaCh <- metaRes{meta: m, err: err}
	}()
	go func() {
		cs, err := s.provider.Commits(ctx, ref, s.cfg.MaxCommits)
		commitsCh <- commitsRes{sample: cs, err: err}
	}()

	m, c := <-metaCh, <-commitsCh
	if m.err != nil {
		return vcs.RepoMetadata{}, nil, m.err
	}
	if c.err != nil {
		return vcs.RepoMetadata{}, nil, c.err
	}
	return m.meta, c.sample, nil
}
