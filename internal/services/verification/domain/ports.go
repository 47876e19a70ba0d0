package domain

import (
	"context"

	"repocred/internal/core/score"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Verify(ctx context.Context, in VerifyInput) (VerifyOutput, error)
	Report(ctx context.Context, projectID string) (score.Report, error)
}

// ReportStorePort persists and loads reports
type ReportStorePort interface {
	Save(ctx context.Context, projectID string, rep score.Report) error
	Load(ctx context.Context, projectID string) (score.Report, error)
}

// TelemetryPort records verification outcomes, emit must never fail a caller
type TelemetryPort interface {
	Emit(ctx context.Context, projectID string, rep score.Report)
}
