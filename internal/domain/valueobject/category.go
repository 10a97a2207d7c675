package valueobject

import "fmt"

// Category is a weighted grouping of related flags.
type Category struct {
	value string
}

var (
	CategoryAuditor        = Category{value: "AUDITOR"}
	CategoryCashFlow       = Category{value: "CASH_FLOW"}
	CategoryRelatedParty   = Category{value: "RELATED_PARTY"}
	CategoryPromoter       = Category{value: "PROMOTER"}
	CategoryGovernance     = Category{value: "GOVERNANCE"}
	CategoryBalanceSheet   = Category{value: "BALANCE_SHEET"}
	CategoryRevenueQuality = Category{value: "REVENUE_QUALITY"}
	CategoryTextual        = Category{value: "TEXTUAL"}
)

// Categories returns every category in reporting order.
func Categories() []Category {
	return []Category{
		CategoryAuditor,
		CategoryCashFlow,
		CategoryRelatedParty,
		CategoryPromoter,
		CategoryGovernance,
		CategoryBalanceSheet,
		CategoryRevenueQuality,
		CategoryTextual,
	}
}

// CategoryFromString reconstructs a Category from its string representation.
func CategoryFromString(s string) (Category, error) {
	for _, c := range Categories() {
		if c.value == s {
			return c, nil
		}
	}
	return Category{}, fmt.Errorf("invalid category: %q", s)
}

func (c Category) String() string            { return c.value }
func (c Category) IsZero() bool              { return c.value == "" }
func (c Category) Equal(other Category) bool { return c.value == other.value }

func (c Category) MarshalText() ([]byte, error) { return []byte(c.value), nil }

func (c *Category) UnmarshalText(b []byte) error {
	v, err := CategoryFromString(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}
