package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
)

func (c *CLI) newMatchCmd() *cobra.Command {
	var flagIDs []int
	var casesPath string

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Rank historical fraud cases against a flag set",
		Long: `Compare a triggered-flag set with every case of a YAML corpus and list the
closest cases by similarity.

Examples:
  redflags match --flags 1,3,5 --cases cases.yaml
  redflags match --flags 1,2,3,4 --cases cases.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if len(flagIDs) == 0 {
				return fmt.Errorf("%w: --flags must name at least one flag", errs.ErrMalformedInput)
			}
			var problems []error
			for _, id := range flagIDs {
				if _, err := c.engine.Catalog.Lookup(id); err != nil {
					problems = append(problems, err)
				}
			}
			if err := errors.Join(problems...); err != nil {
				return err
			}

			corpus, err := loadCorpus(casesPath, c.engine.Catalog)
			if err != nil {
				return err
			}

			target := model.NormalizeFlagSet(flagIDs)
			report := dto.FromPatternReport(target, c.engine.Matcher.Match(target, corpus))
			if c.jsonOutput {
				return c.printJSON(report)
			}
			c.printReport(report)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&flagIDs, "flags", nil, "comma-separated triggered flag ids")
	cmd.Flags().StringVar(&casesPath, "cases", "", "historical case corpus YAML file")
	_ = cmd.MarkFlagRequired("cases")

	return cmd
}

func (c *CLI) printReport(r dto.PatternReportResponse) {
	c.printf("Pattern risk: %s (%d cases compared)\n", r.RiskLevel, r.CasesCompared)
	c.printf("%s\n", r.Summary)
	for _, m := range r.Matches {
		c.printf("  %-12s %6.2f%%  %-8s %s  shared flags %v\n",
			m.CaseID, m.Similarity, m.RiskLevel, m.CompanyName, m.MatchingFlagIDs)
	}
}
