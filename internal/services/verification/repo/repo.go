// Package repo provides postgres and clickhouse access for verification
package repo

import (
	"context"
	"errors"
	"time"

	"repocred/internal/modkit/repokit"
	perr "repocred/internal/platform/errors"
	"repocred/internal/platform/store"

	"github.com/google/uuid"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG returns a binder that can bind the repo to a Queryer or TxRunner
func NewPG() repokit.Binder[Storage] { return binder{} }

// Bind wires a Queryer to the repo
func (binder) Bind(q repokit.Queryer) Storage { return &pg{q: q} }

// Storage is the minimal persistence surface for verification
// the optimistic write cycle composes these inside a transaction
type Storage interface {
	GetDoc(ctx context.Context, projectID string) (data []byte, version int64, found bool, err error)
	InsertDoc(ctx context.Context, projectID string, data []byte) (inserted bool, err error)
	UpdateDoc(ctx context.Context, projectID string, data []byte, version int64) (updated bool, err error)
	InsertEvent(ctx context.Context, ev Event) error
}

// Event is one append-only telemetry record
type Event struct {
	EventID      uuid.UUID
	ProjectID    string
	Verified     bool
	OwnerRatio   float64
	TotalCommits int
	CreatedAt    time.Time
}

// docSnapshot is the row shape of one insights read
type docSnapshot struct {
	data    []byte
	version int64
}

// GetDoc reads the shared insights document and its version
func (r *pg) GetDoc(ctx context.Context, projectID string) ([]byte, int64, bool, error) {
	const sql = `
select data, version
from project_insights
where project_id = $1
`
	doc, err := store.One(ctx, r.q, func(row store.Row) (docSnapshot, error) {
		var d docSnapshot
		err := row.Scan(&d.data, &d.version)
		return d, err
	}, sql, projectID)
	if errors.Is(err, perr.ErrNotFound) {
		return nil, 0, false, nil
	}
	if err != nil {
		return nil, 0, false, err
	}
	return doc.data, doc.version, true, nil
}

// InsertDoc creates the first insights document for a project
// loses gracefully when a concurrent writer created it first
func (r *pg) InsertDoc(ctx context.Context, projectID string, data []byte) (bool, error) {
	const sql = `
insert into project_insights (project_id, data, version)
values ($1, $2, 1)
on conflict (project_id) do nothing
`
	ct, err := r.q.Exec(ctx, sql, projectID, data)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// UpdateDoc replaces the document only when version still matches
func (r *pg) UpdateDoc(ctx context.Context, projectID string, data []byte, version int64) (bool, error) {
	const sql = `
update project_insights
set data = $2, version = version + 1
where project_id = $1 and version = $3
`
	ct, err := r.q.Exec(ctx, sql, projectID, data, version)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}

// InsertEvent appends one telemetry row; anything but a single insert is an error
func (r *pg) InsertEvent(ctx context.Context, ev Event) error {
	const sql = `
insert into verification_events
(event_id, project_id, verified, owner_ratio, total_commits, created_at)
values ($1, $2, $3, $4, $5, $6)
`
	return store.ExecOne(ctx, r.q, sql,
		ev.EventID, ev.ProjectID, ev.Verified, ev.OwnerRatio, ev.TotalCommits, ev.CreatedAt)
}
