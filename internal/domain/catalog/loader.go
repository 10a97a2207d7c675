package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// FlagOverride reassigns a flag. Empty fields keep the catalog value.
type FlagOverride struct {
	Category string `yaml:"category" mapstructure:"category"`
	Severity string `yaml:"severity" mapstructure:"severity"`
	Source   string `yaml:"source" mapstructure:"source"`
}

// Overrides adjusts a catalog at load time. A non-empty Weights table
// replaces the catalog's table entirely.
type Overrides struct {
	Weights map[string]float64
	Flags   map[int]FlagOverride
}

type document struct {
	Weights map[string]float64 `yaml:"weights"`
	Flags   []flagEntry        `yaml:"flags"`
}

type flagEntry struct {
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Severity    string `yaml:"severity"`
	Source      string `yaml:"source"`
	Description string `yaml:"description"`
	ID          int    `yaml:"id"`
}

// Default loads the embedded catalog with the given overrides applied.
func Default(ov Overrides) (*Catalog, error) {
	return Load(defaultCatalog, ov)
}

// Load parses a YAML catalog, applies overrides and validates the result.
func Load(data []byte, ov Overrides) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errs.NewConfigurationError("catalog", "parse: %v", err)
	}

	if len(ov.Weights) > 0 {
		doc.Weights = ov.Weights
	}
	if err := applyFlagOverrides(doc.Flags, ov.Flags); err != nil {
		return nil, err
	}

	weights, err := parseWeights(doc.Weights)
	if err != nil {
		return nil, err
	}
	defs, err := parseFlags(doc.Flags)
	if err != nil {
		return nil, err
	}
	return New(defs, weights)
}

func applyFlagOverrides(entries []flagEntry, overrides map[int]FlagOverride) error {
	index := make(map[int]int, len(entries))
	for i, e := range entries {
		index[e.ID] = i
	}

	ids := make([]int, 0, len(overrides))
	for id := range overrides {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var problems []error
	for _, id := range ids {
		i, ok := index[id]
		if !ok {
			problems = append(problems, errs.NewConfigurationError(
				fmt.Sprintf("flag_overrides.%d", id), "flag is not in the catalog"))
			continue
		}
		o := overrides[id]
		if o.Category != "" {
			entries[i].Category = o.Category
		}
		if o.Severity != "" {
			entries[i].Severity = o.Severity
		}
		if o.Source != "" {
			entries[i].Source = o.Source
		}
	}
	return errors.Join(problems...)
}

func parseWeights(raw map[string]float64) (map[valueobject.Category]float64, error) {
	out := make(map[valueobject.Category]float64, len(raw))
	var problems []error
	for name, w := range raw {
		c, err := valueobject.CategoryFromString(name)
		if err != nil {
			problems = append(problems, errs.NewConfigurationError("weights."+name, "%v", err))
			continue
		}
		out[c] = w
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return out, nil
}

func parseFlags(entries []flagEntry) ([]model.FlagDefinition, error) {
	defs := make([]model.FlagDefinition, 0, len(entries))
	var problems []error
	for _, e := range entries {
		field := fmt.Sprintf("flags.%d", e.ID)
		d := model.FlagDefinition{ID: e.ID, Name: e.Name, Description: e.Description}

		// Missing values stay zero so New reports them as required.
		if e.Category != "" {
			c, err := valueobject.CategoryFromString(e.Category)
			if err != nil {
				problems = append(problems, errs.NewConfigurationError(field, "%v", err))
			}
			d.Category = c
		}
		if e.Severity != "" {
			s, err := valueobject.SeverityFromString(e.Severity)
			if err != nil {
				problems = append(problems, errs.NewConfigurationError(field, "%v", err))
			}
			d.Severity = s
		}
		if e.Source != "" {
			s, err := valueobject.FlagSourceFromString(e.Source)
			if err != nil {
				problems = append(problems, errs.NewConfigurationError(field, "%v", err))
			}
			d.Source = s
		}
		defs = append(defs, d)
	}
	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return defs, nil
}
