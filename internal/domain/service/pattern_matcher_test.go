package service_test

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

func historicalCase(t *testing.T, id string, detected time.Time, flags ...int) model.HistoricalCase {
	t.Helper()
	c, err := model.NewHistoricalCase(id, "Company "+id, flags, "fraud confirmed", "watch cash", detected)
	require.NoError(t, err)
	return c
}

func defaultMatcher() *service.PatternMatcher {
	return service.NewPatternMatcher(valueobject.DefaultMatchThresholds(), 5)
}

var detected = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

func TestPatternMatcher_SubsetScenario(t *testing.T) {
	corpus := []model.HistoricalCase{historicalCase(t, "CASE-1", detected, 1, 3, 5, 7, 9)}

	report := defaultMatcher().Match([]int{1, 3, 5}, corpus)

	require.Len(t, report.Matches, 1)
	m := report.Matches[0]
	assert.Equal(t, 60.0, m.Similarity)
	assert.True(t, m.Level.Equal(valueobject.MatchLevelHigh))
	if diff := cmp.Diff([]int{1, 3, 5}, m.MatchingFlagIDs); diff != "" {
		t.Errorf("matching flags mismatch (-want +got):\n%s", diff)
	}
	assert.True(t, report.Level.Equal(valueobject.MatchLevelHigh))
	assert.True(t, report.Significant())
	assert.Equal(t, "Company CASE-1", m.CompanyName)
	assert.Equal(t, "fraud confirmed", m.Outcome)
}

func TestPatternMatcher_IdenticalSet(t *testing.T) {
	corpus := []model.HistoricalCase{historicalCase(t, "CASE-1", detected, 2, 9, 21, 35)}

	report := defaultMatcher().Match([]int{35, 21, 9, 2}, corpus)

	require.Len(t, report.Matches, 1)
	assert.Equal(t, 100.0, report.Matches[0].Similarity)
	assert.True(t, report.Matches[0].Level.Equal(valueobject.MatchLevelCritical))
	assert.True(t, report.Level.Equal(valueobject.MatchLevelCritical))
}

func TestPatternMatcher_EmptyTarget(t *testing.T) {
	corpus := []model.HistoricalCase{
		historicalCase(t, "CASE-1", detected, 1, 2),
		historicalCase(t, "CASE-2", detected, 3),
	}
	for _, c := range corpus {
		sim, shared := service.Similarity(nil, c.FlagIDs)
		assert.Equal(t, 0.0, sim)
		assert.Empty(t, shared)
	}

	report := defaultMatcher().Match(nil, corpus)

	assert.Empty(t, report.Matches)
	assert.False(t, report.Significant())
	assert.True(t, report.Level.Equal(valueobject.MatchLevelLow))
	assert.Equal(t, model.NoSignificantPattern, report.Summary)
	assert.Equal(t, 2, report.CasesCompared)
}

func TestPatternMatcher_EmptyCorpus(t *testing.T) {
	report := defaultMatcher().Match([]int{1, 2, 3}, nil)

	assert.Empty(t, report.Matches)
	assert.True(t, report.Level.Equal(valueobject.MatchLevelLow))
	assert.Equal(t, model.NoSignificantPattern, report.Summary)
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name   string
		a, b   []int
		want   float64
		shared []int
	}{
		{name: "both empty", want: 0, shared: []int{}},
		{name: "disjoint", a: []int{1, 2}, b: []int{3, 4}, want: 0, shared: []int{}},
		{name: "one third", a: []int{1, 2}, b: []int{2, 3}, want: 33.33, shared: []int{2}},
		{name: "two thirds", a: []int{1, 2, 3}, b: []int{1, 2}, want: 66.67, shared: []int{1, 2}},
		{name: "duplicates ignored", a: []int{1, 1, 2}, b: []int{2, 2, 1}, want: 100, shared: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, shared := service.Similarity(tt.a, tt.b)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.shared, shared)
		})
	}
}

func TestSimilarity_Symmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	randomSet := func() []int {
		n := rng.Intn(12)
		out := make([]int, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, rng.Intn(49)+1)
		}
		return out
	}

	for i := 0; i < 1000; i++ {
		a, b := randomSet(), randomSet()
		ab, sharedAB := service.Similarity(a, b)
		ba, sharedBA := service.Similarity(b, a)
		require.Equal(t, ab, ba, "a=%v b=%v", a, b)
		require.Equal(t, sharedAB, sharedBA)
		require.GreaterOrEqual(t, ab, 0.0)
		require.LessOrEqual(t, ab, 100.0)
	}
}

func TestPatternMatcher_Floor(t *testing.T) {
	corpus := []model.HistoricalCase{
		historicalCase(t, "AT-FLOOR", detected, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10),
		historicalCase(t, "BELOW", detected, 1, 2, 11, 12, 13, 14),
	}

	report := defaultMatcher().Match([]int{1, 2, 3}, corpus)

	require.Len(t, report.Matches, 1, "3/10 = 30 survives, 2/7 = 28.57 is dropped")
	assert.Equal(t, "AT-FLOOR", report.Matches[0].CaseID)
	assert.Equal(t, 30.0, report.Matches[0].Similarity)
	assert.True(t, report.Level.Equal(valueobject.MatchLevelMedium))
}

func TestPatternMatcher_Ordering(t *testing.T) {
	older := time.Date(2012, 5, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2019, 5, 1, 0, 0, 0, 0, time.UTC)
	corpus := []model.HistoricalCase{
		historicalCase(t, "B-OLD", older, 1, 2, 3, 4),
		historicalCase(t, "TOP", older, 1, 2, 3),
		historicalCase(t, "C-NEW", newer, 1, 2, 3, 5),
		historicalCase(t, "A-OLD", older, 1, 2, 3, 6),
	}

	report := defaultMatcher().Match([]int{1, 2, 3}, corpus)

	got := make([]string, 0, len(report.Matches))
	for _, m := range report.Matches {
		got = append(got, m.CaseID)
	}
	if diff := cmp.Diff([]string{"TOP", "C-NEW", "A-OLD", "B-OLD"}, got); diff != "" {
		t.Errorf("ordering mismatch (-want +got):\n%s", diff)
	}
	assert.Contains(t, report.Summary, "TOP")
}

func TestPatternMatcher_TopN(t *testing.T) {
	corpus := make([]model.HistoricalCase, 0, 7)
	for i := 0; i < 7; i++ {
		corpus = append(corpus, historicalCase(t, fmt.Sprintf("CASE-%d", i), detected.AddDate(i, 0, 0), 1, 2))
	}

	report := defaultMatcher().Match([]int{1, 2}, corpus)
	require.Len(t, report.Matches, 5)
	assert.Equal(t, "CASE-6", report.Matches[0].CaseID, "most recent first on ties")
	assert.Equal(t, 7, report.CasesCompared)

	custom := service.NewPatternMatcher(valueobject.MatchThresholds{Floor: 20, High: 40, Critical: 90}, 2)
	report = custom.Match([]int{1, 2}, corpus)
	assert.Len(t, report.Matches, 2)
	assert.True(t, report.Level.Equal(valueobject.MatchLevelCritical))
}

func TestPatternMatcher_DoesNotMutateCorpus(t *testing.T) {
	corpus := []model.HistoricalCase{
		historicalCase(t, "Z", detected, 1, 2),
		historicalCase(t, "A", detected, 1, 2, 3),
	}
	snapshot := append([]model.HistoricalCase(nil), corpus...)

	defaultMatcher().Match([]int{1, 2, 3}, corpus)

	assert.Equal(t, snapshot, corpus)
}
