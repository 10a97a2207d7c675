package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// ScoreOutput is the JSON output of the score command. Patterns is set only
// when a case corpus was given.
type ScoreOutput struct {
	Patterns *dto.PatternReportResponse `json:"patterns,omitempty"`
	Analysis dto.AnalysisResponse       `json:"analysis"`
}

func (c *CLI) newScoreCmd() *cobra.Command {
	var financialsPath, narrativePath, casesPath, companyID string
	var fiscalYear int

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score financial and narrative evidence files",
		Long: `Evaluate the structured flags on a financial record and adapt narrative
judgments, then aggregate and score them exactly as the service does.

An omitted input is treated as an unavailable source and the analysis is
reported as partial. An input that cannot be decoded is reported as a
malformed source.

Examples:
  redflags score --financials acme.json --narrative acme-judgments.json --fiscal-year 2024
  redflags score --narrative acme-judgments.json --fiscal-year 2024 --cases cases.yaml`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if fiscalYear <= 0 {
				return fmt.Errorf("%w: --fiscal-year must be positive", errs.ErrMalformedInput)
			}

			structured, err := c.structuredOutput(financialsPath, fiscalYear)
			if err != nil {
				return err
			}
			narrative, err := c.narrativeOutput(narrativePath)
			if err != nil {
				return err
			}

			agg, assessment := c.engine.Assess(structured, narrative)
			out := ScoreOutput{Analysis: dto.FromAssessment(agg.Results, assessment, c.engine.Catalog)}
			out.Analysis.CompanyID = companyID
			out.Analysis.FiscalYear = fiscalYear

			if casesPath != "" {
				corpus, err := loadCorpus(casesPath, c.engine.Catalog)
				if err != nil {
					return err
				}
				report := c.engine.Matcher.Match(out.Analysis.TriggeredFlagIDs, corpus)
				patterns := dto.FromPatternReport(out.Analysis.TriggeredFlagIDs, report)
				out.Patterns = &patterns
			}

			if c.jsonOutput {
				return c.printJSON(out)
			}
			c.printScore(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&financialsPath, "financials", "", "financial record JSON file")
	cmd.Flags().StringVar(&narrativePath, "narrative", "", "narrative judgments JSON file")
	cmd.Flags().StringVar(&casesPath, "cases", "", "historical case corpus YAML file")
	cmd.Flags().StringVar(&companyID, "company", "", "company identifier to report")
	cmd.Flags().IntVar(&fiscalYear, "fiscal-year", 0, "fiscal year to analyze")
	_ = cmd.MarkFlagRequired("fiscal-year")

	return cmd
}

func (c *CLI) structuredOutput(path string, fiscalYear int) (model.SourceOutput, error) {
	if path == "" {
		return c.engine.Structured.Unavailable(fmt.Errorf("%w: no financial record supplied", errs.ErrSourceUnavailable)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SourceOutput{}, fmt.Errorf("failed to read financial record: %w", err)
	}

	var record model.FinancialRecord
	if err := json.Unmarshal(data, &record); err != nil {
		c.logger.Warn("malformed financial record", "path", path, "error", err)
		return model.UnavailableOutput(valueobject.SourceStructured, valueobject.SourceMalformed,
			fmt.Sprintf("%v: %v", errs.ErrMalformedInput, err)), nil
	}
	return c.engine.Structured.Evaluate(&record, fiscalYear), nil
}

func (c *CLI) narrativeOutput(path string) (model.SourceOutput, error) {
	if path == "" {
		return c.engine.Narrative.Unavailable(fmt.Errorf("%w: no narrative judgments supplied", errs.ErrSourceUnavailable)), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.SourceOutput{}, fmt.Errorf("failed to read narrative judgments: %w", err)
	}
	return c.engine.Narrative.FromPayload(data), nil
}

func (c *CLI) printScore(out ScoreOutput) {
	a := out.Analysis
	c.printf("Composite score: %.2f (%s)\n", a.CompositeScore, a.RiskLevel)
	c.printf("Flags triggered: %d of %d evaluated\n", a.FlagsTriggeredCount, a.TotalFlagsEvaluated)
	if a.Partial {
		c.printf("Partial analysis, categories: %v\n", a.PartialCategories)
	}
	for _, s := range a.Sources {
		c.printf("Source %s: %s %s\n", s.Source, s.Status, s.Reason)
	}
	for _, f := range a.Flags {
		if f.Status == dto.FlagTriggered {
			c.printf("  [%d] %s (%s, %s): %s\n", f.FlagID, f.Name, f.Category, f.Severity, f.Evidence)
		}
	}
	if out.Patterns != nil {
		c.printf("Pattern risk: %s, %s\n", out.Patterns.RiskLevel, out.Patterns.Summary)
	}
}
