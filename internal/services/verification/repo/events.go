package repo

import (
	"context"
	"time"

	"repocred/internal/core/score"
	"repocred/internal/modkit/repokit"
	"repocred/internal/platform/logger"
	"repocred/internal/platform/store"

	"github.com/google/uuid"
)

// chEventsTable mirrors the postgres table for analytics queries
const chEventsTable = "verification_events"

// Telemetry records verification outcomes, postgres is the system of record
// and clickhouse gets a best-effort mirror; neither failure reaches callers
type Telemetry struct {
	db     repokit.TxRunner
	binder repokit.Binder[Storage]
	ch     store.Clickhouse
	log    logger.Logger
	now    func() time.Time
}

// NewTelemetry constructs an emitter; ch may be nil when the mirror is off
func NewTelemetry(db repokit.TxRunner, ch store.Clickhouse) *Telemetry {
	if db == nil {
		panic("verification.Telemetry requires a non nil TxRunner")
	}
	return &Telemetry{
		db:     db,
		binder: NewPG(),
		ch:     ch,
		log:    *logger.Named("verification.telemetry"),
		now:    time.Now,
	}
}

// Emit writes one event for a finished verification
// failures are logged and swallowed so a flaky sink never fails the pipeline
func (t *Telemetry) Emit(ctx context.Context, projectID string, rep score.Report) {
	ev := Event{
		EventID:      uuid.New(),
		ProjectID:    projectID,
		Verified:     rep.Verified,
		OwnerRatio:   rep.OwnerCommitRatio,
		TotalCommits: rep.TotalCommits,
		CreatedAt:    t.now().UTC(),
	}

	if err := t.binder.Bind(t.db).InsertEvent(ctx, ev); err != nil {
		t.log.Warn().Err(err).Str("project_id", projectID).Msg("telemetry pg insert failed")
	}

	if t.ch == nil {
		return
	}
	rows := [][]any{{
		ev.EventID.String(), ev.ProjectID, ev.Verified, ev.OwnerRatio, ev.TotalCommits, ev.CreatedAt,
	}}
	if err := t.ch.Insert(ctx, chEventsTable, rows); err != nil {
		t.log.Warn().Err(err).Str("project_id", projectID).Msg("telemetry ch mirror failed")
	}
}
