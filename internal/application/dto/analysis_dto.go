package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
)

// Flag result statuses.
const (
	FlagTriggered    = "TRIGGERED"
	FlagClear        = "CLEAR"
	FlagNotEvaluated = "NOT_EVALUATED"
)

// AnalyzeCompanyRequest is the input DTO for the AnalyzeCompany use case.
type AnalyzeCompanyRequest struct {
	CompanyID  string `json:"company_id"`
	FiscalYear int    `json:"fiscal_year"`
}

// GetAnalysisRequest is the input DTO for retrieving an analysis.
type GetAnalysisRequest struct {
	AnalysisID uuid.UUID `json:"analysis_id"`
}

// FlagResultResponse is one flag outcome enriched with its catalog entry.
type FlagResultResponse struct {
	NumericInputs  map[string]string `json:"numeric_inputs,omitempty"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Severity       string            `json:"severity"`
	Source         string            `json:"source"`
	Status         string            `json:"status"`
	Evidence       string            `json:"evidence"`
	PageReferences []int             `json:"page_references,omitempty"`
	Confidence     float64           `json:"confidence"`
	FlagID         int               `json:"flag_id"`
}

// CategoryScoreResponse is the per-category breakdown of an analysis.
type CategoryScoreResponse struct {
	Category       string  `json:"category"`
	RawScore       float64 `json:"raw_score"`
	Weight         float64 `json:"weight"`
	FlagsTotal     int     `json:"flags_total"`
	FlagsEvaluated int     `json:"flags_evaluated"`
	FlagsTriggered int     `json:"flags_triggered"`
	Partial        bool    `json:"partial"`
	Excluded       bool    `json:"excluded"`
}

// SourceStateResponse reports how one evidence source resolved.
type SourceStateResponse struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// AnalysisResponse is the output DTO of a scored analysis.
type AnalysisResponse struct {
	CreatedAt           time.Time               `json:"created_at"`
	CompanyID           string                  `json:"company_id"`
	RiskLevel           string                  `json:"risk_level"`
	Flags               []FlagResultResponse    `json:"flags"`
	CategoryScores      []CategoryScoreResponse `json:"category_scores"`
	PartialCategories   []string                `json:"partial_categories"`
	Sources             []SourceStateResponse   `json:"sources"`
	TriggeredFlagIDs    []int                   `json:"triggered_flag_ids"`
	CompositeScore      float64                 `json:"composite_score"`
	FiscalYear          int                     `json:"fiscal_year"`
	FlagsTriggeredCount int                     `json:"flags_triggered_count"`
	TotalFlagsEvaluated int                     `json:"total_flags_evaluated"`
	ID                  uuid.UUID               `json:"id"`
	Partial             bool                    `json:"partial"`
}

// FromAnalysis maps an analysis to the response DTO. Flag names and
// categories come from cat; ids the catalog no longer knows keep only the
// stored fields.
func FromAnalysis(a *model.Analysis, cat *catalog.Catalog) AnalysisResponse {
	assessment := a.Assessment()
	resp := AnalysisResponse{
		ID:                  a.ID(),
		CompanyID:           a.CompanyID(),
		FiscalYear:          a.FiscalYear(),
		CompositeScore:      assessment.CompositeScore,
		RiskLevel:           assessment.RiskLevel.String(),
		Partial:             assessment.Partial(),
		FlagsTriggeredCount: assessment.FlagsTriggeredCount,
		TotalFlagsEvaluated: assessment.TotalFlagsEvaluated,
		TriggeredFlagIDs:    a.TriggeredFlagIDs(),
		CreatedAt:           a.CreatedAt(),
	}
	for _, r := range a.Results() {
		resp.Flags = append(resp.Flags, FromFlagResult(r, cat))
	}
	resp.CategoryScores, resp.PartialCategories, resp.Sources = fromAssessment(assessment)
	return resp
}

// FromAssessment maps a stand-alone assessment, as produced by the CLI, to
// the response DTO.
func FromAssessment(results []model.FlagResult, assessment model.RiskAssessment, cat *catalog.Catalog) AnalysisResponse {
	resp := AnalysisResponse{
		CompositeScore:      assessment.CompositeScore,
		RiskLevel:           assessment.RiskLevel.String(),
		Partial:             assessment.Partial(),
		FlagsTriggeredCount: assessment.FlagsTriggeredCount,
		TotalFlagsEvaluated: assessment.TotalFlagsEvaluated,
	}
	for _, r := range results {
		resp.Flags = append(resp.Flags, FromFlagResult(r, cat))
		if r.Fires() {
			resp.TriggeredFlagIDs = append(resp.TriggeredFlagIDs, r.FlagID)
		}
	}
	resp.CategoryScores, resp.PartialCategories, resp.Sources = fromAssessment(assessment)
	return resp
}

func fromAssessment(a model.RiskAssessment) ([]CategoryScoreResponse, []string, []SourceStateResponse) {
	scores := make([]CategoryScoreResponse, 0, len(a.CategoryScores))
	for _, cs := range a.CategoryScores {
		scores = append(scores, CategoryScoreResponse{
			Category:       cs.Category.String(),
			RawScore:       cs.RawScore,
			Weight:         cs.Weight,
			FlagsTotal:     cs.FlagsTotal,
			FlagsEvaluated: cs.FlagsEvaluated,
			FlagsTriggered: cs.FlagsTriggered,
			Partial:        cs.Partial,
			Excluded:       cs.Excluded(),
		})
	}
	partial := make([]string, 0, len(a.PartialCategories))
	for _, c := range a.PartialCategories {
		partial = append(partial, c.String())
	}
	sources := make([]SourceStateResponse, 0, len(a.Sources))
	for _, s := range a.Sources {
		sources = append(sources, SourceStateResponse{
			Source: s.Source.String(),
			Status: s.Status.String(),
			Reason: s.Reason,
		})
	}
	return scores, partial, sources
}

// FromFlagResult maps one flag result to its response DTO.
func FromFlagResult(r model.FlagResult, cat *catalog.Catalog) FlagResultResponse {
	out := FlagResultResponse{
		FlagID:         r.FlagID,
		Source:         r.Source.String(),
		Evidence:       r.Evidence,
		Confidence:     r.Confidence,
		PageReferences: r.PageReferences,
	}
	switch {
	case !r.Evaluated:
		out.Status = FlagNotEvaluated
	case r.Triggered:
		out.Status = FlagTriggered
	default:
		out.Status = FlagClear
	}
	if len(r.NumericInputs) > 0 {
		out.NumericInputs = make(map[string]string, len(r.NumericInputs))
		for k, v := range r.NumericInputs {
			out.NumericInputs[k] = v.String()
		}
	}
	if cat != nil {
		if def, err := cat.Lookup(r.FlagID); err == nil {
			out.Name = def.Name
			out.Category = def.Category.String()
			out.Severity = def.Severity.String()
		}
	}
	return out
}
