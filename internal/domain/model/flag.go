package model

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// FlagDefinition describes one fraud indicator in the catalog.
type FlagDefinition struct {
	Name        string
	Description string
	Category    valueobject.Category
	Severity    valueobject.Severity
	Source      valueobject.FlagSource
	ID          int
}

// FlagResult is the outcome of checking one flag for one analysis. Source is
// the discriminator that says which evaluator produced it. A result with
// Evaluated=false counts as NOT EVALUATED and is left out of every denominator.
type FlagResult struct {
	NumericInputs  map[string]decimal.Decimal `json:"numeric_inputs,omitempty"`
	Evidence       string                     `json:"evidence"`
	PageReferences []int                      `json:"page_references,omitempty"`
	Source         valueobject.FlagSource     `json:"source"`
	Confidence     float64                    `json:"confidence"`
	FlagID         int                        `json:"flag_id"`
	Evaluated      bool                       `json:"evaluated"`
	Triggered      bool                       `json:"is_triggered"`
}

// NotEvaluated returns a placeholder result for a flag that could not be checked.
func NotEvaluated(def FlagDefinition, reason string) FlagResult {
	return FlagResult{
		FlagID:   def.ID,
		Source:   def.Source,
		Evidence: reason,
	}
}

// ClampConfidence bounds a confidence value to [0,100]. NaN counts as 0.
func ClampConfidence(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	return math.Max(0, math.Min(100, c))
}

// Fires reports whether the result is an evaluated, triggered flag.
func (r FlagResult) Fires() bool {
	return r.Evaluated && r.Triggered
}
