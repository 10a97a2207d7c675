package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// CatalogEntry is the JSON form of one catalog flag.
type CatalogEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Source      string `json:"source"`
	ID          int    `json:"flag_id"`
}

// CatalogListing is the JSON output of the catalog command.
type CatalogListing struct {
	Weights map[string]float64 `json:"weights"`
	Flags   []CatalogEntry     `json:"flags"`
}

func (c *CLI) newCatalogCmd() *cobra.Command {
	var category, source string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the flag catalog and category weights",
		Long: `List every flag of the effective catalog, after configuration overrides.

Examples:
  redflags catalog
  redflags catalog --category AUDITOR
  redflags catalog --source NARRATIVE --json`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			flags := c.engine.Catalog.All()
			if category != "" {
				cat, err := valueobject.CategoryFromString(category)
				if err != nil {
					return fmt.Errorf("%w: %v", errs.ErrMalformedInput, err)
				}
				flags = c.engine.Catalog.ByCategory(cat)
			}
			if source != "" {
				src, err := valueobject.FlagSourceFromString(source)
				if err != nil {
					return fmt.Errorf("%w: %v", errs.ErrMalformedInput, err)
				}
				flags = filterSource(flags, src)
			}
			return c.printCatalog(flags)
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "only list flags of this category")
	cmd.Flags().StringVar(&source, "source", "", "only list flags of this source (STRUCTURED or NARRATIVE)")

	return cmd
}

func filterSource(defs []model.FlagDefinition, src valueobject.FlagSource) []model.FlagDefinition {
	out := defs[:0:0]
	for _, d := range defs {
		if d.Source.Equal(src) {
			out = append(out, d)
		}
	}
	return out
}

func (c *CLI) printCatalog(flags []model.FlagDefinition) error {
	cat := c.engine.Catalog
	if c.jsonOutput {
		listing := CatalogListing{
			Weights: make(map[string]float64),
			Flags:   make([]CatalogEntry, 0, len(flags)),
		}
		for _, category := range cat.Categories() {
			listing.Weights[category.String()] = cat.Weight(category)
		}
		for _, d := range flags {
			listing.Flags = append(listing.Flags, CatalogEntry{
				ID:          d.ID,
				Name:        d.Name,
				Description: d.Description,
				Category:    d.Category.String(),
				Severity:    d.Severity.String(),
				Source:      d.Source.String(),
			})
		}
		return c.printJSON(listing)
	}

	w := tabwriter.NewWriter(c.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tWEIGHT")
	for _, category := range cat.Categories() {
		fmt.Fprintf(w, "%s\t%.2f\n", category, cat.Weight(category))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tSEVERITY\tSOURCE")
	for _, d := range flags {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.Name, d.Category, d.Severity, d.Source)
	}
	return w.Flush()
}

func (c *CLI) newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and the effective catalog",
		Long: `Load configuration, apply weight and flag overrides, and build the engine.
Any configuration error is reported and the command exits with status 1.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Loading already happened in the pre-run hook.
			cfg := c.engine.Config()
			c.printf("configuration OK: %d flags in %d categories, top_n=%d, source_timeout=%s\n",
				c.engine.Catalog.Len(), len(c.engine.Catalog.Categories()), cfg.TopN, cfg.SourceTimeout)
			return nil
		},
	}
}
