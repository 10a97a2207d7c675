package valueobject

import "fmt"

// SourceStatus records how an evidence source resolved for one analysis.
type SourceStatus struct {
	value string
}

var (
	SourceAvailable   = SourceStatus{value: "AVAILABLE"}
	SourceUnavailable = SourceStatus{value: "UNAVAILABLE"}
	SourceMalformed   = SourceStatus{value: "MALFORMED"}
)

// SourceStatusFromString reconstructs a SourceStatus from its string representation.
func SourceStatusFromString(s string) (SourceStatus, error) {
	switch s {
	case "AVAILABLE":
		return SourceAvailable, nil
	case "UNAVAILABLE":
		return SourceUnavailable, nil
	case "MALFORMED":
		return SourceMalformed, nil
	default:
		return SourceStatus{}, fmt.Errorf("invalid source status: %q", s)
	}
}

// IsAvailable reports whether results from the source may be used.
func (s SourceStatus) IsAvailable() bool { return s.value == "AVAILABLE" }

func (s SourceStatus) String() string                { return s.value }
func (s SourceStatus) IsZero() bool                  { return s.value == "" }
func (s SourceStatus) Equal(other SourceStatus) bool { return s.value == other.value }

func (s SourceStatus) MarshalText() ([]byte, error) { return []byte(s.value), nil }

func (s *SourceStatus) UnmarshalText(b []byte) error {
	v, err := SourceStatusFromString(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
