package valueobject

import "fmt"

// FlagSource names the evaluator that owns a flag. Every flag belongs to
// exactly one source.
type FlagSource struct {
	value string
}

var (
	SourceStructured = FlagSource{value: "STRUCTURED"}
	SourceNarrative  = FlagSource{value: "NARRATIVE"}
)

// FlagSourceFromString reconstructs a FlagSource from its string representation.
func FlagSourceFromString(s string) (FlagSource, error) {
	switch s {
	case "STRUCTURED":
		return SourceStructured, nil
	case "NARRATIVE":
		return SourceNarrative, nil
	default:
		return FlagSource{}, fmt.Errorf("invalid flag source: %q", s)
	}
}

func (s FlagSource) String() string              { return s.value }
func (s FlagSource) IsZero() bool                { return s.value == "" }
func (s FlagSource) Equal(other FlagSource) bool { return s.value == other.value }

func (s FlagSource) MarshalText() ([]byte, error) { return []byte(s.value), nil }

func (s *FlagSource) UnmarshalText(b []byte) error {
	v, err := FlagSourceFromString(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
