package service

import (
	"math"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// RiskScorer is a domain service that turns aggregated flags into category
// scores, a composite score and a risk level. It is pure: identical input
// always yields identical output.
type RiskScorer struct {
	catalog    *catalog.Catalog
	thresholds valueobject.RiskThresholds
}

// NewRiskScorer creates a new RiskScorer instance.
func NewRiskScorer(cat *catalog.Catalog, thresholds valueobject.RiskThresholds) *RiskScorer {
	return &RiskScorer{catalog: cat, thresholds: thresholds}
}

// Score evaluates an aggregation.
//
// A category's raw score is the confidence-weighted severity points of its
// triggered flags over the points of its evaluated flags, scaled to 0-100.
// Unevaluated flags are left out of that denominator, and a category with no
// evaluated flag is left out of the composite weighting entirely.
func (s *RiskScorer) Score(agg Aggregation) model.RiskAssessment {
	type tally struct {
		earned    float64
		possible  float64
		total     int
		evaluated int
		triggered int
	}
	tallies := make(map[valueobject.Category]*tally)
	for _, c := range s.catalog.Categories() {
		tallies[c] = &tally{}
	}

	for _, r := range agg.Results {
		def, err := s.catalog.Lookup(r.FlagID)
		if err != nil {
			continue
		}
		t := tallies[def.Category]
		t.total++
		if !r.Evaluated {
			continue
		}
		points := float64(def.Severity.Points())
		t.evaluated++
		t.possible += points
		if r.Triggered {
			t.triggered++
			t.earned += points * model.ClampConfidence(r.Confidence) / 100
		}
	}

	assessment := model.RiskAssessment{
		CategoryScores:    make([]model.CategoryScore, 0, len(tallies)),
		PartialCategories: make([]valueobject.Category, 0),
		Sources:           agg.Sources,
	}

	var weighted, weightSum float64
	for _, c := range s.catalog.Categories() {
		t := tallies[c]
		cs := model.CategoryScore{
			Category:       c,
			Weight:         s.catalog.Weight(c),
			FlagsTotal:     t.total,
			FlagsEvaluated: t.evaluated,
			FlagsTriggered: t.triggered,
			Partial:        t.evaluated < t.total || t.total == 0,
		}
		if t.possible > 0 {
			cs.RawScore = round2(t.earned / t.possible * 100)
			weighted += cs.Weight * (t.earned / t.possible * 100)
			weightSum += cs.Weight
		}
		if cs.Partial {
			assessment.PartialCategories = append(assessment.PartialCategories, c)
		}
		assessment.CategoryScores = append(assessment.CategoryScores, cs)
		assessment.FlagsTriggeredCount += t.triggered
		assessment.TotalFlagsEvaluated += t.evaluated
	}

	composite := 0.0
	if weightSum > 0 {
		composite = weighted / weightSum
	}
	assessment.CompositeScore = round2(math.Max(0, math.Min(100, composite)))
	assessment.RiskLevel = valueobject.RiskLevelFromScore(assessment.CompositeScore, s.thresholds)

	return assessment
}

// round2 rounds half away from zero to two decimals.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
