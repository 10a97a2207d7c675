package port

import (
	"context"

	"github.com/google/uuid"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/pkg/events"
)

// AnalysisRepository defines the persistence port for analyses. Analyses are
// written once and never updated.
type AnalysisRepository interface {
	// Save persists a new analysis.
	Save(ctx context.Context, analysis *model.Analysis) error

	// FindByID retrieves an analysis by its unique identifier. It returns
	// nil, nil when no analysis exists.
	FindByID(ctx context.Context, id uuid.UUID) (*model.Analysis, error)

	// FindLatest retrieves the most recent analysis of a company/fiscal year,
	// or nil when there is none.
	FindLatest(ctx context.Context, companyID string, fiscalYear int) (*model.Analysis, error)
}

// CaseRepository is the append-only store of historical fraud cases.
type CaseRepository interface {
	// Append adds a case. A duplicate case id fails with errs.ErrAlreadyExists.
	Append(ctx context.Context, c model.HistoricalCase) error

	// List returns a snapshot of the whole corpus.
	List(ctx context.Context) ([]model.HistoricalCase, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish sends one or more domain events to the messaging infrastructure.
	Publish(ctx context.Context, evts ...events.DomainEvent) error
}
