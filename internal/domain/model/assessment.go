package model

import (
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// SourceState records how one evidence source resolved. Reason is empty when
// the source was available.
type SourceState struct {
	Source valueobject.FlagSource   `json:"source"`
	Status valueobject.SourceStatus `json:"status"`
	Reason string                   `json:"reason,omitempty"`
}

// SourceOutput is what an evaluator hands to the aggregator: its results plus
// the state of the source they came from. Results is empty unless the source
// was available.
type SourceOutput struct {
	State   SourceState
	Results []FlagResult
}

// UnavailableOutput builds the empty output of a source that could not be used.
func UnavailableOutput(src valueobject.FlagSource, status valueobject.SourceStatus, reason string) SourceOutput {
	return SourceOutput{State: SourceState{Source: src, Status: status, Reason: reason}}
}

// CategoryScore is the derived score of one category.
type CategoryScore struct {
	Category       valueobject.Category `json:"category"`
	RawScore       float64              `json:"raw_score"`
	Weight         float64              `json:"weight"`
	FlagsTotal     int                  `json:"flags_total"`
	FlagsEvaluated int                  `json:"flags_evaluated"`
	FlagsTriggered int                  `json:"flags_triggered"`
	Partial        bool                 `json:"partial"`
}

// Excluded reports whether the category carries no weight in the composite.
func (c CategoryScore) Excluded() bool {
	return c.FlagsEvaluated == 0
}

// RiskAssessment is the scored outcome of one analysis.
type RiskAssessment struct {
	RiskLevel           valueobject.RiskLevel  `json:"risk_level"`
	CategoryScores      []CategoryScore        `json:"category_scores"`
	PartialCategories   []valueobject.Category `json:"partial_categories"`
	Sources             []SourceState          `json:"sources"`
	CompositeScore      float64                `json:"composite_score"`
	FlagsTriggeredCount int                    `json:"flags_triggered_count"`
	TotalFlagsEvaluated int                    `json:"total_flags_evaluated"`
}

// Partial reports whether the score rests on incomplete evidence.
func (a RiskAssessment) Partial() bool {
	return len(a.PartialCategories) > 0
}

// CategoryScore returns the score of one category.
func (a RiskAssessment) CategoryScore(c valueobject.Category) (CategoryScore, bool) {
	for _, cs := range a.CategoryScores {
		if cs.Category.Equal(c) {
			return cs, true
		}
	}
	return CategoryScore{}, false
}
