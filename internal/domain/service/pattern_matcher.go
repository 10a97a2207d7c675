package service

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// PatternMatcher compares a triggered-flag set with the historical fraud-case
// corpus by Jaccard similarity. It works on the snapshot it is given and has
// no side effects.
type PatternMatcher struct {
	thresholds valueobject.MatchThresholds
	topN       int
}

// NewPatternMatcher creates a PatternMatcher returning at most topN matches.
func NewPatternMatcher(thresholds valueobject.MatchThresholds, topN int) *PatternMatcher {
	return &PatternMatcher{thresholds: thresholds, topN: topN}
}

// Similarity returns 100*|a∩b|/|a∪b| rounded to two decimals, and the sorted
// intersection. Two empty sets have similarity 0.
func Similarity(a, b []int) (float64, []int) {
	setA := make(map[int]struct{}, len(a))
	for _, id := range a {
		setA[id] = struct{}{}
	}
	union := make(map[int]struct{}, len(a)+len(b))
	for id := range setA {
		union[id] = struct{}{}
	}

	shared := make([]int, 0)
	for _, id := range model.NormalizeFlagSet(b) {
		if _, ok := setA[id]; ok {
			shared = append(shared, id)
		}
		union[id] = struct{}{}
	}
	if len(union) == 0 {
		return 0, shared
	}
	return round2(float64(len(shared)) * 100 / float64(len(union))), shared
}

// Match ranks the corpus against the target set. Matches below the floor are
// dropped; the rest are sorted by similarity, then most recent detection,
// then case id.
func (m *PatternMatcher) Match(target []int, corpus []model.HistoricalCase) model.PatternReport {
	matches := make([]model.PatternMatch, 0)
	for _, c := range corpus {
		sim, shared := Similarity(target, c.FlagIDs)
		if sim < m.thresholds.Floor {
			continue
		}
		matches = append(matches, model.PatternMatch{
			CaseID:          c.CaseID,
			CompanyName:     c.CompanyName,
			Outcome:         c.Outcome,
			Lessons:         c.Lessons,
			DetectedAt:      c.DetectedAt,
			Similarity:      sim,
			MatchingFlagIDs: shared,
			Level:           valueobject.MatchLevelFromSimilarity(sim, m.thresholds),
		})
	}

	slices.SortStableFunc(matches, func(a, b model.PatternMatch) int {
		if a.Similarity != b.Similarity {
			return cmp.Compare(b.Similarity, a.Similarity)
		}
		if !a.DetectedAt.Equal(b.DetectedAt) {
			return b.DetectedAt.Compare(a.DetectedAt)
		}
		return cmp.Compare(a.CaseID, b.CaseID)
	})

	report := model.PatternReport{
		Level:         valueobject.MatchLevelLow,
		Summary:       model.NoSignificantPattern,
		Matches:       matches,
		CasesCompared: len(corpus),
	}
	if len(matches) == 0 {
		return report
	}

	if m.topN > 0 && len(report.Matches) > m.topN {
		report.Matches = report.Matches[:m.topN]
	}
	report.Level = matches[0].Level
	report.Summary = fmt.Sprintf("closest match %s at %.2f%% similarity", matches[0].CaseID, matches[0].Similarity)
	return report
}
