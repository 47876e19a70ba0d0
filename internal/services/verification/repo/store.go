package repo

import (
	"context"
	"encoding/json"

	"repocred/internal/core/score"
	"repocred/internal/modkit/repokit"
	perr "repocred/internal/platform/errors"
)

// insightsKey is the namespace this service owns inside project_insights.data
// other services keep their own keys; we never touch theirs
const insightsKey = "verification"

// DefaultSaveAttempts bounds the optimistic write cycle
const DefaultSaveAttempts = 3

// Store persists reports into the shared per-project insights document using
// optimistic concurrency, each attempt re-reads the document so sibling
// namespaces written by racing services survive byte for byte
type Store struct {
	db       repokit.TxRunner
	binder   repokit.Binder[Storage]
	attempts int
}

// NewStore constructs a report store
func NewStore(db repokit.TxRunner, attempts int) *Store {
	if db == nil {
		panic("verification.Store requires a non nil TxRunner")
	}
	if attempts <= 0 {
		attempts = DefaultSaveAttempts
	}
	return &Store{db: db, binder: NewPG(), attempts: attempts}
}

// Save writes rep under the verification key, creating the document on first
// write; after exhausting its bounded attempts it surfaces a conflict
func (s *Store) Save(ctx context.Context, projectID string, rep score.Report) error {
	payload, err := json.Marshal(rep)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "marshal verification report")
	}

	for range s.attempts {
		var done bool
		err := s.db.Tx(ctx, func(q repokit.Queryer) error {
			r := s.binder.Bind(q)

			data, version, found, err := r.GetDoc(ctx, projectID)
			if err != nil {
				return err
			}
			merged, err := mergeKey(data, insightsKey, payload)
			if err != nil {
				return err
			}
			if !found {
				done, err = r.InsertDoc(ctx, projectID, merged)
				return err
			}
			done, err = r.UpdateDoc(ctx, projectID, merged, version)
			return err
		})
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		// lost the version race; re-read and merge again
	}
	return perr.Conflictf("insights write for project %s kept losing the version race", projectID)
}

// Load returns the stored report for projectID
func (s *Store) Load(ctx context.Context, projectID string) (score.Report, error) {
	r := s.binder.Bind(s.db)

	data, _, found, err := r.GetDoc(ctx, projectID)
	if err != nil {
		return score.Report{}, err
	}
	if !found {
		return score.Report{}, perr.NotFoundf("no insights for project %s", projectID)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return score.Report{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "insights document corrupt for project %s", projectID)
	}
	raw, ok := doc[insightsKey]
	if !ok {
		return score.Report{}, perr.NotFoundf("no verification report for project %s", projectID)
	}
	var rep score.Report
	if err := json.Unmarshal(raw, &rep); err != nil {
		return score.Report{}, perr.Wrapf(err, perr.ErrorCodeUnknown, "verification report corrupt for project %s", projectID)
	}
	return rep, nil
}

// mergeKey replaces key in doc while carrying every other namespace through
// as raw bytes, a nil doc starts a fresh document
func mergeKey(doc []byte, key string, val json.RawMessage) ([]byte, error) {
	out := map[string]json.RawMessage{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &out); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "insights document corrupt")
		}
	}
	out[key] = val
	return json.Marshal(out)
}
