package service

import (
	"log/slog"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// CategoryCoverage counts how much of a category was evaluated.
type CategoryCoverage struct {
	Category  valueobject.Category
	Total     int
	Evaluated int
	Triggered int
}

// Partial reports whether any flag of the category went unevaluated.
func (c CategoryCoverage) Partial() bool {
	return c.Evaluated < c.Total
}

// Aggregation is the merged evidence of one analysis. Results holds exactly
// one entry per catalog flag, ordered by id.
type Aggregation struct {
	Results  []model.FlagResult
	Coverage []CategoryCoverage
	Sources  []model.SourceState
}

// PartialCategories lists the categories with unevaluated flags in reporting order.
func (a Aggregation) PartialCategories() []valueobject.Category {
	out := make([]valueobject.Category, 0)
	for _, c := range a.Coverage {
		if c.Partial() {
			out = append(out, c.Category)
		}
	}
	return out
}

// FlagAggregator merges structured and narrative outputs. Every flag belongs
// to exactly one source, so the merge is a disjoint union and never has to
// resolve conflicts.
type FlagAggregator struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewFlagAggregator creates a FlagAggregator.
func NewFlagAggregator(cat *catalog.Catalog, logger *slog.Logger) *FlagAggregator {
	return &FlagAggregator{catalog: cat, logger: logger}
}

// Aggregate merges the outputs of both sources. Results from a source that is
// not available are ignored; flags no source reported get NOT EVALUATED
// placeholders. It never fails.
func (g *FlagAggregator) Aggregate(outputs ...model.SourceOutput) Aggregation {
	accepted := make(map[int]model.FlagResult)
	reasons := make(map[valueobject.FlagSource]string)
	sources := make([]model.SourceState, 0, len(outputs))

	for _, out := range outputs {
		sources = append(sources, out.State)
		if !out.State.Status.IsAvailable() {
			reasons[out.State.Source] = "source " + out.State.Status.String() + ": " + out.State.Reason
			continue
		}
		for _, r := range out.Results {
			def, err := g.catalog.Lookup(r.FlagID)
			if err != nil {
				g.logger.Warn("discarding result for unknown flag", "flag_id", r.FlagID)
				continue
			}
			if !def.Source.Equal(out.State.Source) || !r.Source.Equal(def.Source) {
				g.logger.Warn("discarding result with mismatched source",
					"flag_id", r.FlagID, "want", def.Source.String(), "got", r.Source.String())
				continue
			}
			if _, dup := accepted[r.FlagID]; dup {
				g.logger.Warn("discarding repeated result", "flag_id", r.FlagID)
				continue
			}
			r.Confidence = model.ClampConfidence(r.Confidence)
			accepted[r.FlagID] = r
		}
	}

	defs := g.catalog.All()
	results := make([]model.FlagResult, 0, len(defs))
	coverage := make(map[valueobject.Category]*CategoryCoverage)
	for _, c := range g.catalog.Categories() {
		coverage[c] = &CategoryCoverage{Category: c}
	}

	for _, def := range defs {
		r, ok := accepted[def.ID]
		if !ok {
			reason, down := reasons[def.Source]
			if !down {
				reason = "not reported"
			}
			r = model.NotEvaluated(def, reason)
		}
		results = append(results, r)

		cov := coverage[def.Category]
		cov.Total++
		if r.Evaluated {
			cov.Evaluated++
		}
		if r.Fires() {
			cov.Triggered++
		}
	}

	ordered := make([]CategoryCoverage, 0, len(coverage))
	for _, c := range g.catalog.Categories() {
		ordered = append(ordered, *coverage[c])
	}

	return Aggregation{Results: results, Coverage: ordered, Sources: sources}
}
