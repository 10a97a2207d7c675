package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/akashent3/redflags-sub002/internal/domain/event"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
	"github.com/akashent3/redflags-sub002/pkg/events"
)

// Analysis is the aggregate root for one company/fiscal-year fraud-risk
// analysis. It is immutable once created.
type Analysis struct {
	createdAt  time.Time
	companyID  string
	results    []FlagResult
	assessment RiskAssessment
	collector  events.EventCollector
	fiscalYear int
	id         uuid.UUID
}

// NewAnalysis creates a scored analysis and records its domain events.
// results must hold at most one entry per flag id.
func NewAnalysis(
	companyID string,
	fiscalYear int,
	results []FlagResult,
	assessment RiskAssessment,
) (*Analysis, error) {
	if companyID == "" {
		return nil, fmt.Errorf("company ID is required")
	}
	if fiscalYear <= 0 {
		return nil, fmt.Errorf("fiscal year must be positive, got %d", fiscalYear)
	}
	if !(assessment.CompositeScore >= 0 && assessment.CompositeScore <= 100) {
		return nil, fmt.Errorf("composite score must be between 0 and 100, got %v", assessment.CompositeScore)
	}
	if assessment.RiskLevel.IsZero() {
		return nil, fmt.Errorf("risk level is required")
	}
	seen := make(map[int]struct{}, len(results))
	for _, r := range results {
		if _, dup := seen[r.FlagID]; dup {
			return nil, fmt.Errorf("duplicate result for flag %d", r.FlagID)
		}
		seen[r.FlagID] = struct{}{}
	}

	a := &Analysis{
		id:         uuid.New(),
		companyID:  companyID,
		fiscalYear: fiscalYear,
		results:    results,
		assessment: assessment,
		createdAt:  time.Now().UTC(),
	}

	triggered := a.TriggeredFlagIDs()
	partial := make([]string, 0, len(assessment.PartialCategories))
	for _, c := range assessment.PartialCategories {
		partial = append(partial, c.String())
	}

	a.collector.Record(event.NewAnalysisCompleted(
		a.id, a.companyID, a.fiscalYear,
		assessment.CompositeScore, assessment.RiskLevel.String(),
		triggered, partial, a.createdAt,
	))

	if assessment.RiskLevel.Equal(valueobject.RiskLevelCritical) {
		a.collector.Record(event.NewHighRiskDetected(
			a.id, a.companyID, a.fiscalYear,
			assessment.CompositeScore, triggered, a.createdAt,
		))
	}

	return a, nil
}

// ReconstructAnalysis rebuilds an Analysis from persisted data (no validation, no events).
func ReconstructAnalysis(
	id uuid.UUID,
	companyID string,
	fiscalYear int,
	results []FlagResult,
	assessment RiskAssessment,
	createdAt time.Time,
) *Analysis {
	return &Analysis{
		id:         id,
		companyID:  companyID,
		fiscalYear: fiscalYear,
		results:    results,
		assessment: assessment,
		createdAt:  createdAt,
	}
}

func (a *Analysis) ID() uuid.UUID              { return a.id }
func (a *Analysis) CompanyID() string          { return a.companyID }
func (a *Analysis) FiscalYear() int            { return a.fiscalYear }
func (a *Analysis) Results() []FlagResult      { return a.results }
func (a *Analysis) Assessment() RiskAssessment { return a.assessment }
func (a *Analysis) CreatedAt() time.Time       { return a.createdAt }

// TriggeredFlagIDs returns the ids of evaluated, triggered flags in ascending order.
func (a *Analysis) TriggeredFlagIDs() []int {
	ids := make([]int, 0)
	for _, r := range a.results {
		if r.Fires() {
			ids = append(ids, r.FlagID)
		}
	}
	return NormalizeFlagSet(ids)
}

// DomainEvents returns all accumulated domain events and clears them.
func (a *Analysis) DomainEvents() []events.DomainEvent {
	return a.collector.Drain()
}
