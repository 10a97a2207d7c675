package valueobject

import "fmt"

// Severity is the fixed importance tier of a flag.
type Severity struct {
	value string
}

var (
	SeverityLow      = Severity{value: "LOW"}
	SeverityMedium   = Severity{value: "MEDIUM"}
	SeverityHigh     = Severity{value: "HIGH"}
	SeverityCritical = Severity{value: "CRITICAL"}
)

// SeverityFromString reconstructs a Severity from its string representation.
func SeverityFromString(s string) (Severity, error) {
	switch s {
	case "LOW":
		return SeverityLow, nil
	case "MEDIUM":
		return SeverityMedium, nil
	case "HIGH":
		return SeverityHigh, nil
	case "CRITICAL":
		return SeverityCritical, nil
	default:
		return Severity{}, fmt.Errorf("invalid severity: %q", s)
	}
}

// Points returns the scoring weight of the tier.
// CRITICAL=25, HIGH=15, MEDIUM=8, LOW=3.
func (s Severity) Points() int {
	switch s.value {
	case "CRITICAL":
		return 25
	case "HIGH":
		return 15
	case "MEDIUM":
		return 8
	case "LOW":
		return 3
	default:
		return 0
	}
}

func (s Severity) String() string            { return s.value }
func (s Severity) IsZero() bool              { return s.value == "" }
func (s Severity) Equal(other Severity) bool { return s.value == other.value }

func (s Severity) MarshalText() ([]byte, error) { return []byte(s.value), nil }

func (s *Severity) UnmarshalText(b []byte) error {
	v, err := SeverityFromString(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
