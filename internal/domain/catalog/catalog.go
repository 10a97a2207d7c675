// Package catalog is the read-only registry of every supported red flag and
// the category weight table used for scoring.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// WeightTolerance is how far the weight table may drift from 100.
const WeightTolerance = 0.01

// Catalog maps flag ids to definitions. It is immutable after construction
// and safe for concurrent use.
type Catalog struct {
	byID    map[int]model.FlagDefinition
	weights map[valueobject.Category]float64
	ordered []model.FlagDefinition
}

// New validates the definitions and weights and builds a Catalog. Every
// problem found is reported; each is a *errs.ConfigurationError.
func New(defs []model.FlagDefinition, weights map[valueobject.Category]float64) (*Catalog, error) {
	var problems []error
	fail := func(field, format string, args ...any) {
		problems = append(problems, errs.NewConfigurationError(field, format, args...))
	}

	if len(defs) == 0 {
		fail("flags", "catalog defines no flags")
	}

	byID := make(map[int]model.FlagDefinition, len(defs))
	flagsPerCategory := make(map[valueobject.Category]int)
	for _, d := range defs {
		field := fmt.Sprintf("flags.%d", d.ID)
		if d.ID <= 0 {
			fail(field, "flag id must be positive")
			continue
		}
		if _, dup := byID[d.ID]; dup {
			fail(field, "duplicate flag id")
			continue
		}
		if d.Name == "" {
			fail(field, "name is required")
		}
		if d.Category.IsZero() {
			fail(field, "category is required")
		} else if _, ok := weights[d.Category]; !ok {
			fail(field, "category %s has no weight", d.Category)
		}
		if d.Severity.IsZero() {
			fail(field, "severity is required")
		}
		if d.Source.IsZero() {
			fail(field, "source is required")
		}
		byID[d.ID] = d
		flagsPerCategory[d.Category]++
	}

	sum := 0.0
	for _, c := range valueobject.Categories() {
		w, ok := weights[c]
		if !ok {
			continue
		}
		if w < 0 {
			fail("weights."+c.String(), "weight must not be negative, got %v", w)
		}
		if w > 0 && flagsPerCategory[c] == 0 {
			fail("weights."+c.String(), "weighted category has no flags")
		}
		sum += w
	}
	if math.Abs(sum-100) > WeightTolerance {
		fail("weights", "category weights sum to %.4f, want 100", sum)
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}

	ordered := make([]model.FlagDefinition, 0, len(byID))
	for _, d := range byID {
		ordered = append(ordered, d)
	}
	slices.SortFunc(ordered, func(a, b model.FlagDefinition) int { return a.ID - b.ID })

	w := make(map[valueobject.Category]float64, len(weights))
	for c, v := range weights {
		w[c] = v
	}

	return &Catalog{byID: byID, weights: w, ordered: ordered}, nil
}

// Lookup returns the definition of a flag. Unknown ids fail with *errs.UnknownFlagError.
func (c *Catalog) Lookup(id int) (model.FlagDefinition, error) {
	d, ok := c.byID[id]
	if !ok {
		return model.FlagDefinition{}, &errs.UnknownFlagError{ID: id}
	}
	return d, nil
}

// All returns every definition ordered by id.
func (c *Catalog) All() []model.FlagDefinition {
	return slices.Clone(c.ordered)
}

// Len returns the number of flags.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// BySource returns the flags owned by one evaluator, ordered by id.
func (c *Catalog) BySource(src valueobject.FlagSource) []model.FlagDefinition {
	return c.filter(func(d model.FlagDefinition) bool { return d.Source.Equal(src) })
}

// ByCategory returns the flags of one category, ordered by id.
func (c *Catalog) ByCategory(cat valueobject.Category) []model.FlagDefinition {
	return c.filter(func(d model.FlagDefinition) bool { return d.Category.Equal(cat) })
}

// Categories returns the weighted categories in reporting order.
func (c *Catalog) Categories() []valueobject.Category {
	out := make([]valueobject.Category, 0, len(c.weights))
	for _, cat := range valueobject.Categories() {
		if _, ok := c.weights[cat]; ok {
			out = append(out, cat)
		}
	}
	return out
}

// Weight returns the weight of a category, zero if it is not weighted.
func (c *Catalog) Weight(cat valueobject.Category) float64 {
	return c.weights[cat]
}

func (c *Catalog) filter(keep func(model.FlagDefinition) bool) []model.FlagDefinition {
	out := make([]model.FlagDefinition, 0)
	for _, d := range c.ordered {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}
