package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
)

// MatchPatternsRequest is the input DTO for the MatchPatterns use case. When
// AnalysisID is set the triggered flags of that analysis are matched and
// FlagIDs is ignored.
type MatchPatternsRequest struct {
	FlagIDs    []int     `json:"flag_ids"`
	AnalysisID uuid.UUID `json:"analysis_id"`
}

// PatternMatchResponse is one ranked historical case.
type PatternMatchResponse struct {
	DetectedAt      time.Time `json:"detected_at"`
	CaseID          string    `json:"case_id"`
	CompanyName     string    `json:"company_name"`
	Outcome         string    `json:"outcome"`
	Lessons         string    `json:"lessons"`
	RiskLevel       string    `json:"risk_level"`
	MatchingFlagIDs []int     `json:"matching_flag_ids"`
	Similarity      float64   `json:"similarity_score"`
}

// PatternReportResponse is the output DTO of pattern matching.
type PatternReportResponse struct {
	RiskLevel     string                 `json:"risk_level"`
	Summary       string                 `json:"summary"`
	TargetFlagIDs []int                  `json:"target_flag_ids"`
	Matches       []PatternMatchResponse `json:"matches"`
	CasesCompared int                    `json:"cases_compared"`
}

// FromPatternReport maps a pattern report to the response DTO.
func FromPatternReport(target []int, r model.PatternReport) PatternReportResponse {
	resp := PatternReportResponse{
		RiskLevel:     r.Level.String(),
		Summary:       r.Summary,
		TargetFlagIDs: target,
		CasesCompared: r.CasesCompared,
		Matches:       make([]PatternMatchResponse, 0, len(r.Matches)),
	}
	for _, m := range r.Matches {
		resp.Matches = append(resp.Matches, PatternMatchResponse{
			CaseID:          m.CaseID,
			CompanyName:     m.CompanyName,
			Similarity:      m.Similarity,
			RiskLevel:       m.Level.String(),
			MatchingFlagIDs: m.MatchingFlagIDs,
			Outcome:         m.Outcome,
			Lessons:         m.Lessons,
			DetectedAt:      m.DetectedAt,
		})
	}
	return resp
}

// RecordCaseRequest is the input DTO for appending a historical case.
type RecordCaseRequest struct {
	DetectedAt  time.Time `json:"detected_at"`
	CaseID      string    `json:"case_id"`
	CompanyName string    `json:"company_name"`
	Outcome     string    `json:"outcome"`
	Lessons     string    `json:"lessons"`
	FlagIDs     []int     `json:"flag_ids"`
}

// CaseResponse is the output DTO of a stored historical case.
type CaseResponse struct {
	DetectedAt  time.Time `json:"detected_at"`
	CreatedAt   time.Time `json:"created_at"`
	CaseID      string    `json:"case_id"`
	CompanyName string    `json:"company_name"`
	Outcome     string    `json:"outcome"`
	Lessons     string    `json:"lessons"`
	FlagIDs     []int     `json:"flag_ids"`
}

// FromCase maps a historical case to the response DTO.
func FromCase(c model.HistoricalCase) CaseResponse {
	return CaseResponse{
		CaseID:      c.CaseID,
		CompanyName: c.CompanyName,
		FlagIDs:     c.FlagIDs,
		Outcome:     c.Outcome,
		Lessons:     c.Lessons,
		DetectedAt:  c.DetectedAt,
		CreatedAt:   c.CreatedAt,
	}
}
