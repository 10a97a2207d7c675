package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
)

type corpusFile struct {
	Cases []caseEntry `yaml:"cases"`
}

type caseEntry struct {
	CaseID      string `yaml:"case_id"`
	CompanyName string `yaml:"company_name"`
	Outcome     string `yaml:"outcome"`
	Lessons     string `yaml:"lessons"`
	DetectedAt  string `yaml:"detected_at"`
	FlagIDs     []int  `yaml:"flag_ids"`
}

// loadCorpus reads a YAML case corpus. Every case must reference catalog
// flags only; all problems are reported together.
func loadCorpus(path string, cat *catalog.Catalog) ([]model.HistoricalCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read case corpus: %w", err)
	}

	var doc corpusFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: case corpus %s: %v", errs.ErrMalformedInput, path, err)
	}

	cases := make([]model.HistoricalCase, 0, len(doc.Cases))
	seen := make(map[string]struct{}, len(doc.Cases))
	var problems []error
	for _, e := range doc.Cases {
		detectedAt, err := time.Parse(time.DateOnly, e.DetectedAt)
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: case %s detected_at: %v", errs.ErrMalformedInput, e.CaseID, err))
			continue
		}
		c, err := model.NewHistoricalCase(e.CaseID, e.CompanyName, e.FlagIDs, e.Outcome, e.Lessons, detectedAt)
		if err != nil {
			problems = append(problems, fmt.Errorf("%w: %v", errs.ErrMalformedInput, err))
			continue
		}
		if _, dup := seen[c.CaseID]; dup {
			problems = append(problems, fmt.Errorf("%w: duplicate case %s", errs.ErrMalformedInput, c.CaseID))
			continue
		}
		seen[c.CaseID] = struct{}{}
		for _, id := range c.FlagIDs {
			if _, err := cat.Lookup(id); err != nil {
				problems = append(problems, fmt.Errorf("case %s: %w", c.CaseID, err))
			}
		}
		cases = append(cases, c)
	}

	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return cases, nil
}
