package valueobject

import "fmt"

// RiskLevel is an immutable value object representing the composite risk classification.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow      = RiskLevel{value: "LOW"}
	RiskLevelModerate = RiskLevel{value: "MODERATE"}
	RiskLevelElevated = RiskLevel{value: "ELEVATED"}
	RiskLevelHigh     = RiskLevel{value: "HIGH"}
	RiskLevelCritical = RiskLevel{value: "CRITICAL"}
)

// RiskThresholds holds the lower bound of each bucket above LOW. A score equal
// to a bound belongs to the higher bucket.
type RiskThresholds struct {
	Moderate float64
	Elevated float64
	High     float64
	Critical float64
}

// DefaultRiskThresholds returns the 20/40/60/80 cut-offs.
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{Moderate: 20, Elevated: 40, High: 60, Critical: 80}
}

// Validate checks that the bounds are strictly ascending within (0,100].
func (t RiskThresholds) Validate() error {
	bounds := []float64{t.Moderate, t.Elevated, t.High, t.Critical}
	prev := 0.0
	for _, b := range bounds {
		if b <= prev || b > 100 {
			return fmt.Errorf("risk thresholds must ascend within (0,100], got %v", bounds)
		}
		prev = b
	}
	return nil
}

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "LOW":
		return RiskLevelLow, nil
	case "MODERATE":
		return RiskLevelModerate, nil
	case "ELEVATED":
		return RiskLevelElevated, nil
	case "HIGH":
		return RiskLevelHigh, nil
	case "CRITICAL":
		return RiskLevelCritical, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromScore derives the RiskLevel for a composite score (0-100).
func RiskLevelFromScore(score float64, t RiskThresholds) RiskLevel {
	switch {
	case score >= t.Critical:
		return RiskLevelCritical
	case score >= t.High:
		return RiskLevelHigh
	case score >= t.Elevated:
		return RiskLevelElevated
	case score >= t.Moderate:
		return RiskLevelModerate
	default:
		return RiskLevelLow
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// Rank orders levels from LOW=1 to CRITICAL=5; the zero value ranks 0.
func (r RiskLevel) Rank() int {
	switch r.value {
	case "LOW":
		return 1
	case "MODERATE":
		return 2
	case "ELEVATED":
		return 3
	case "HIGH":
		return 4
	case "CRITICAL":
		return 5
	default:
		return 0
	}
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}

func (r RiskLevel) MarshalText() ([]byte, error) { return []byte(r.value), nil }

func (r *RiskLevel) UnmarshalText(b []byte) error {
	v, err := RiskLevelFromString(string(b))
	if err != nil {
		return err
	}
	*r = v
	return nil
}
