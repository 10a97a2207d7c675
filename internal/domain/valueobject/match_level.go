package valueobject

import "fmt"

// MatchLevel classifies how closely a flag set resembles past fraud cases.
type MatchLevel struct {
	value string
}

var (
	MatchLevelLow      = MatchLevel{value: "LOW"}
	MatchLevelMedium   = MatchLevel{value: "MEDIUM"}
	MatchLevelHigh     = MatchLevel{value: "HIGH"}
	MatchLevelCritical = MatchLevel{value: "CRITICAL"}
)

// MatchThresholds are the similarity cut-offs, in percent. Floor is the
// minimum similarity a match needs to be reported at all.
type MatchThresholds struct {
	Floor    float64
	High     float64
	Critical float64
}

// DefaultMatchThresholds returns the 30/50/70 cut-offs.
func DefaultMatchThresholds() MatchThresholds {
	return MatchThresholds{Floor: 30, High: 50, Critical: 70}
}

// Validate checks 0 < Floor < High < Critical <= 100.
func (t MatchThresholds) Validate() error {
	if t.Floor <= 0 || t.Floor >= t.High || t.High >= t.Critical || t.Critical > 100 {
		return fmt.Errorf("match thresholds must satisfy 0 < floor < high < critical <= 100, got %v/%v/%v",
			t.Floor, t.High, t.Critical)
	}
	return nil
}

// MatchLevelFromString reconstructs a MatchLevel from its string representation.
func MatchLevelFromString(s string) (MatchLevel, error) {
	switch s {
	case "LOW":
		return MatchLevelLow, nil
	case "MEDIUM":
		return MatchLevelMedium, nil
	case "HIGH":
		return MatchLevelHigh, nil
	case "CRITICAL":
		return MatchLevelCritical, nil
	default:
		return MatchLevel{}, fmt.Errorf("invalid match level: %s", s)
	}
}

// MatchLevelFromSimilarity derives the level of a similarity score (0-100).
// Anything below the floor is LOW.
func MatchLevelFromSimilarity(similarity float64, t MatchThresholds) MatchLevel {
	switch {
	case similarity >= t.Critical:
		return MatchLevelCritical
	case similarity >= t.High:
		return MatchLevelHigh
	case similarity >= t.Floor:
		return MatchLevelMedium
	default:
		return MatchLevelLow
	}
}

func (m MatchLevel) String() string              { return m.value }
func (m MatchLevel) IsZero() bool                { return m.value == "" }
func (m MatchLevel) Equal(other MatchLevel) bool { return m.value == other.value }

func (m MatchLevel) MarshalText() ([]byte, error) { return []byte(m.value), nil }

func (m *MatchLevel) UnmarshalText(b []byte) error {
	v, err := MatchLevelFromString(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
