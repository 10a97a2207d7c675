package event

import (
	"time"

	"github.com/google/uuid"

	"github.com/akashent3/redflags-sub002/pkg/events"
)

const (
	// AggregateTypeAnalysis is the aggregate type carried by every analysis event.
	AggregateTypeAnalysis = "Analysis"

	// EventTypeAnalysisCompleted is emitted when a company analysis has been scored.
	EventTypeAnalysisCompleted = "redflags.analysis.completed"

	// EventTypeHighRiskDetected is emitted when the composite risk level is CRITICAL.
	EventTypeHighRiskDetected = "redflags.high_risk.detected"
)

// AnalysisCompleted is published when an analysis has been scored and stored.
type AnalysisCompleted struct {
	events.BaseEvent
	CompletedAt       time.Time `json:"completed_at"`
	CompanyID         string    `json:"company_id"`
	RiskLevel         string    `json:"risk_level"`
	TriggeredFlagIDs  []int     `json:"triggered_flag_ids"`
	PartialCategories []string  `json:"partial_categories"`
	CompositeScore    float64   `json:"composite_score"`
	FiscalYear        int       `json:"fiscal_year"`
	AnalysisID        uuid.UUID `json:"analysis_id"`
}

// NewAnalysisCompleted creates an AnalysisCompleted event.
func NewAnalysisCompleted(
	analysisID uuid.UUID,
	companyID string,
	fiscalYear int,
	compositeScore float64,
	riskLevel string,
	triggered []int,
	partial []string,
	completedAt time.Time,
) AnalysisCompleted {
	return AnalysisCompleted{
		BaseEvent:         events.NewBaseEvent(EventTypeAnalysisCompleted, analysisID, AggregateTypeAnalysis, completedAt),
		AnalysisID:        analysisID,
		CompanyID:         companyID,
		FiscalYear:        fiscalYear,
		CompositeScore:    compositeScore,
		RiskLevel:         riskLevel,
		TriggeredFlagIDs:  triggered,
		PartialCategories: partial,
		CompletedAt:       completedAt,
	}
}

// HighRiskDetected is published when an analysis lands in the CRITICAL bucket,
// so downstream reviewers can be alerted.
type HighRiskDetected struct {
	events.BaseEvent
	DetectedAt       time.Time `json:"detected_at"`
	CompanyID        string    `json:"company_id"`
	TriggeredFlagIDs []int     `json:"triggered_flag_ids"`
	CompositeScore   float64   `json:"composite_score"`
	FiscalYear       int       `json:"fiscal_year"`
	AnalysisID       uuid.UUID `json:"analysis_id"`
}

// NewHighRiskDetected creates a HighRiskDetected event.
func NewHighRiskDetected(
	analysisID uuid.UUID,
	companyID string,
	fiscalYear int,
	compositeScore float64,
	triggered []int,
	detectedAt time.Time,
) HighRiskDetected {
	return HighRiskDetected{
		BaseEvent:        events.NewBaseEvent(EventTypeHighRiskDetected, analysisID, AggregateTypeAnalysis, detectedAt),
		AnalysisID:       analysisID,
		CompanyID:        companyID,
		FiscalYear:       fiscalYear,
		CompositeScore:   compositeScore,
		TriggeredFlagIDs: triggered,
		DetectedAt:       detectedAt,
	}
}
