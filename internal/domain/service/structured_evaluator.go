package service

import (
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// StructuredFlagEvaluator checks the STRUCTURED flags of the catalog against a
// company's numeric feed. It never fails: problems with the feed are reported
// in the output's SourceState.
type StructuredFlagEvaluator struct {
	catalog *catalog.Catalog
	rules   map[int]structuredRule
	logger  *slog.Logger
}

// NewStructuredFlagEvaluator creates an evaluator with the built-in rule set.
func NewStructuredFlagEvaluator(cat *catalog.Catalog, logger *slog.Logger) *StructuredFlagEvaluator {
	return &StructuredFlagEvaluator{
		catalog: cat,
		rules:   defaultRules(),
		logger:  logger,
	}
}

// Unavailable builds the output for a feed that could not be fetched.
func (e *StructuredFlagEvaluator) Unavailable(cause error) model.SourceOutput {
	e.logger.Warn("structured source unavailable", "error", cause)
	return model.UnavailableOutput(valueobject.SourceStructured, valueobject.SourceUnavailable, cause.Error())
}

// Evaluate checks every STRUCTURED flag for the fiscal year. Flags whose
// inputs are missing or would divide by zero come back NOT EVALUATED.
func (e *StructuredFlagEvaluator) Evaluate(record *model.FinancialRecord, fiscalYear int) model.SourceOutput {
	if record == nil {
		return e.Unavailable(fmt.Errorf("%w: no financial record", errs.ErrSourceUnavailable))
	}
	if err := ValidateRecord(record); err != nil {
		e.logger.Warn("malformed financial record", "company_id", record.CompanyID, "error", err)
		return model.UnavailableOutput(valueobject.SourceStructured, valueobject.SourceMalformed, err.Error())
	}

	periods := make(map[int]model.FinancialPeriod, len(record.Periods))
	for _, p := range record.Periods {
		periods[p.FiscalYear] = p
	}

	defs := e.catalog.BySource(valueobject.SourceStructured)
	results := make([]model.FlagResult, 0, len(defs))
	for _, def := range defs {
		rule, ok := e.rules[def.ID]
		if !ok {
			results = append(results, model.NotEvaluated(def, "no rule registered"))
			continue
		}
		results = append(results, toResult(def, rule(newWindow(periods, fiscalYear))))
	}

	return model.SourceOutput{
		State:   model.SourceState{Source: valueobject.SourceStructured, Status: valueobject.SourceAvailable},
		Results: results,
	}
}

func toResult(def model.FlagDefinition, o outcome) model.FlagResult {
	var inputs map[string]decimal.Decimal
	if len(o.inputs) > 0 {
		inputs = o.inputs
	}
	if o.skip != "" {
		r := model.NotEvaluated(def, o.skip)
		r.NumericInputs = inputs
		return r
	}
	return model.FlagResult{
		FlagID:        def.ID,
		Source:        valueobject.SourceStructured,
		Evaluated:     true,
		Triggered:     o.triggered,
		Confidence:    100,
		Evidence:      o.evidence,
		NumericInputs: inputs,
	}
}

// ValidateRecord applies the schema checks of the numeric feed. Failures wrap
// errs.ErrMalformedInput.
func ValidateRecord(record *model.FinancialRecord) error {
	if record.CompanyID == "" {
		return fmt.Errorf("%w: company ID is required", errs.ErrMalformedInput)
	}
	if len(record.Periods) == 0 {
		return fmt.Errorf("%w: record has no periods", errs.ErrMalformedInput)
	}

	seen := make(map[int]struct{}, len(record.Periods))
	for _, p := range record.Periods {
		if p.FiscalYear <= 0 {
			return fmt.Errorf("%w: fiscal year must be positive, got %d", errs.ErrMalformedInput, p.FiscalYear)
		}
		if _, dup := seen[p.FiscalYear]; dup {
			return fmt.Errorf("%w: duplicate fiscal year %d", errs.ErrMalformedInput, p.FiscalYear)
		}
		seen[p.FiscalYear] = struct{}{}

		for item, v := range p.Items {
			switch {
			case (item == model.Revenue || item == model.TotalAssets) && v.IsNegative():
				return fmt.Errorf("%w: %s FY%d is negative", errs.ErrMalformedInput, item, p.FiscalYear)
			case item.IsPercentage() && (v.IsNegative() || v.GreaterThan(hundred)):
				return fmt.Errorf("%w: %s FY%d is outside 0-100", errs.ErrMalformedInput, item, p.FiscalYear)
			}
		}
	}
	return nil
}
