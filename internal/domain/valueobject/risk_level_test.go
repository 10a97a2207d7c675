package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

func TestRiskLevel_String(t *testing.T) {
	assert.Equal(t, "LOW", valueobject.RiskLevelLow.String())
	assert.Equal(t, "MODERATE", valueobject.RiskLevelModerate.String())
	assert.Equal(t, "ELEVATED", valueobject.RiskLevelElevated.String())
	assert.Equal(t, "HIGH", valueobject.RiskLevelHigh.String())
	assert.Equal(t, "CRITICAL", valueobject.RiskLevelCritical.String())
}

func TestRiskLevel_FromString(t *testing.T) {
	tests := []struct {
		input    string
		expected valueobject.RiskLevel
		wantErr  bool
	}{
		{"LOW", valueobject.RiskLevelLow, false},
		{"MODERATE", valueobject.RiskLevelModerate, false},
		{"ELEVATED", valueobject.RiskLevelElevated, false},
		{"HIGH", valueobject.RiskLevelHigh, false},
		{"CRITICAL", valueobject.RiskLevelCritical, false},
		{"MEDIUM", valueobject.RiskLevel{}, true},
		{"", valueobject.RiskLevel{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result, err := valueobject.RiskLevelFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, tt.expected.Equal(result))
			}
		})
	}
}

func TestRiskLevel_FromScore(t *testing.T) {
	th := valueobject.DefaultRiskThresholds()
	tests := []struct {
		name     string
		expected valueobject.RiskLevel
		score    float64
	}{
		{name: "score 0 is LOW", expected: valueobject.RiskLevelLow, score: 0},
		{name: "score 19.99 is LOW", expected: valueobject.RiskLevelLow, score: 19.99},
		{name: "score 20 is MODERATE", expected: valueobject.RiskLevelModerate, score: 20},
		{name: "score 39.99 is MODERATE", expected: valueobject.RiskLevelModerate, score: 39.99},
		{name: "score 40 is ELEVATED", expected: valueobject.RiskLevelElevated, score: 40},
		{name: "score 59.99 is ELEVATED", expected: valueobject.RiskLevelElevated, score: 59.99},
		{name: "score 60 is HIGH", expected: valueobject.RiskLevelHigh, score: 60},
		{name: "score 79.99 is HIGH", expected: valueobject.RiskLevelHigh, score: 79.99},
		{name: "score 80 is CRITICAL", expected: valueobject.RiskLevelCritical, score: 80},
		{name: "score 100 is CRITICAL", expected: valueobject.RiskLevelCritical, score: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := valueobject.RiskLevelFromScore(tt.score, th)
			assert.True(t, tt.expected.Equal(result),
				"expected %s for score %v, got %s", tt.expected.String(), tt.score, result.String())
		})
	}
}

func TestRiskLevel_FromScoreIsMonotonic(t *testing.T) {
	th := valueobject.DefaultRiskThresholds()
	prev := 0
	for score := 0.0; score <= 100; score += 0.25 {
		rank := valueobject.RiskLevelFromScore(score, th).Rank()
		require.GreaterOrEqual(t, rank, prev, "rank dropped at score %v", score)
		prev = rank
	}
}

func TestRiskThresholds_Validate(t *testing.T) {
	require.NoError(t, valueobject.DefaultRiskThresholds().Validate())
	assert.Error(t, valueobject.RiskThresholds{Moderate: 40, Elevated: 20, High: 60, Critical: 80}.Validate())
	assert.Error(t, valueobject.RiskThresholds{Moderate: 0, Elevated: 40, High: 60, Critical: 80}.Validate())
	assert.Error(t, valueobject.RiskThresholds{Moderate: 20, Elevated: 40, High: 60, Critical: 101}.Validate())
}

func TestRiskLevel_Equal(t *testing.T) {
	assert.True(t, valueobject.RiskLevelLow.Equal(valueobject.RiskLevelLow))
	assert.False(t, valueobject.RiskLevelLow.Equal(valueobject.RiskLevelHigh))
}

func TestRiskLevel_IsZero(t *testing.T) {
	var zero valueobject.RiskLevel
	assert.True(t, zero.IsZero())
	assert.False(t, valueobject.RiskLevelLow.IsZero())
}

func TestRiskLevel_TextRoundTrip(t *testing.T) {
	var level valueobject.RiskLevel
	require.NoError(t, level.UnmarshalText([]byte("ELEVATED")))
	assert.True(t, level.Equal(valueobject.RiskLevelElevated))
	assert.Error(t, level.UnmarshalText([]byte("SEVERE")))
}
