package model

import (
	"time"

	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// NoSignificantPattern is the summary of a report with no surviving match.
const NoSignificantPattern = "no significant pattern"

// PatternMatch is one historical case that resembles the target flag set.
type PatternMatch struct {
	DetectedAt      time.Time              `json:"detected_at"`
	CaseID          string                 `json:"case_id"`
	CompanyName     string                 `json:"company_name"`
	Outcome         string                 `json:"outcome"`
	Lessons         string                 `json:"lessons"`
	Level           valueobject.MatchLevel `json:"risk_level"`
	MatchingFlagIDs []int                  `json:"matching_flag_ids"`
	Similarity      float64                `json:"similarity_score"`
}

// PatternReport is the ranked result of comparing one flag set to the corpus.
type PatternReport struct {
	Level         valueobject.MatchLevel `json:"risk_level"`
	Summary       string                 `json:"summary"`
	Matches       []PatternMatch         `json:"matches"`
	CasesCompared int                    `json:"cases_compared"`
}

// Significant reports whether at least one case cleared the similarity floor.
func (r PatternReport) Significant() bool {
	return len(r.Matches) > 0
}
