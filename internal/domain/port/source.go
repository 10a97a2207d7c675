package port

import (
	"context"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
)

// FinancialFeed is the numeric-feed collaborator.
type FinancialFeed interface {
	// Fetch returns the multi-period record of a company up to the fiscal year.
	Fetch(ctx context.Context, companyID string, fiscalYear int) (*model.FinancialRecord, error)
}

// NarrativeSource is the document-understanding collaborator. A payload it
// could not decode is reported as an error wrapping errs.ErrMalformedInput.
type NarrativeSource interface {
	Judgments(ctx context.Context, companyID string, fiscalYear int) ([]model.NarrativeJudgment, error)
}

// AnalysisMetrics records engine outcomes. Implementations must be safe for
// concurrent use.
type AnalysisMetrics interface {
	ObserveAnalysis(ctx context.Context, riskLevel string, compositeScore float64, partial bool)
	ObserveSource(ctx context.Context, source, status string)
}
