package service_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

func TestStructuredFlagEvaluator_HealthyRecord(t *testing.T) {
	ev := service.NewStructuredFlagEvaluator(defaultCatalog(t), discardLogger())

	out := ev.Evaluate(healthyRecord(), 2024)

	assert.True(t, out.State.Status.Equal(valueobject.SourceAvailable))
	require.Len(t, out.Results, 24)
	for _, r := range out.Results {
		assert.True(t, r.Evaluated, "flag %d not evaluated: %s", r.FlagID, r.Evidence)
		assert.False(t, r.Triggered, "flag %d triggered: %s", r.FlagID, r.Evidence)
		assert.Equal(t, 100.0, r.Confidence)
		assert.True(t, r.Source.Equal(valueobject.SourceStructured))
		assert.NotEmpty(t, r.NumericInputs, "flag %d has no numeric inputs", r.FlagID)
	}
}

func TestStructuredFlagEvaluator_Rules(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(rec *model.FinancialRecord)
		wantEvidence  string
		flagID        int
		wantEvaluated bool
		wantTriggered bool
	}{
		{
			name:          "profit without cash",
			mutate:        func(rec *model.FinancialRecord) { set(rec, 2024, model.OperatingCashFlow, 40) },
			flagID:        9,
			wantEvaluated: true,
			wantTriggered: true,
			wantEvidence:  "33.3% of net profit",
		},
		{
			name: "negative cash while profitable in two years",
			mutate: func(rec *model.FinancialRecord) {
				set(rec, 2023, model.OperatingCashFlow, -10)
				set(rec, 2024, model.OperatingCashFlow, -20)
			},
			flagID:        10,
			wantEvaluated: true,
			wantTriggered: true,
			wantEvidence:  "2 of 3 years",
		},
		{
			name: "high pledge",
			mutate: func(rec *model.FinancialRecord) {
				set(rec, 2024, model.PromoterPledgePct, 60)
			},
			flagID:        21,
			wantEvaluated: true,
			wantTriggered: true,
		},
		{
			name:          "rising pledge",
			mutate:        func(rec *model.FinancialRecord) { set(rec, 2024, model.PromoterPledgePct, 15) },
			flagID:        22,
			wantEvaluated: true,
			wantTriggered: true,
			wantEvidence:  "from 5% to 15%",
		},
		{
			name:          "negative equity triggers leverage",
			mutate:        func(rec *model.FinancialRecord) { set(rec, 2024, model.Equity, -10) },
			flagID:        35,
			wantEvaluated: true,
			wantTriggered: true,
			wantEvidence:  "equity is negative",
		},
		{
			name:          "negative equity leaves contingent liabilities unevaluated",
			mutate:        func(rec *model.FinancialRecord) { set(rec, 2024, model.Equity, -10) },
			flagID:        32,
			wantEvaluated: false,
			wantEvidence:  "equity -10 is not positive",
		},
		{
			name:          "zero interest expense is a division by zero",
			mutate:        func(rec *model.FinancialRecord) { set(rec, 2024, model.InterestExpense, 0) },
			flagID:        36,
			wantEvaluated: false,
			wantEvidence:  "interest expense is zero",
		},
		{
			name:          "receivables outpace revenue",
			mutate:        func(rec *model.FinancialRecord) { set(rec, 2024, model.Receivables, 250) },
			flagID:        33,
			wantEvaluated: true,
			wantTriggered: true,
		},
		{
			name:          "missing line item is not a false negative",
			mutate:        func(rec *model.FinancialRecord) { unset(rec, 2024, model.AuditFees) },
			flagID:        6,
			wantEvaluated: false,
			wantEvidence:  "missing audit_fees FY2024",
		},
		{
			name: "missing earliest period leaves three-year rules unevaluated",
			mutate: func(rec *model.FinancialRecord) {
				rec.Periods = rec.Periods[1:]
			},
			flagID:        11,
			wantEvaluated: false,
			wantEvidence:  "FY2022",
		},
		{
			name:          "prior revenue of zero is a division by zero",
			mutate:        func(rec *model.FinancialRecord) { set(rec, 2023, model.Revenue, 0) },
			flagID:        41,
			wantEvaluated: false,
			wantEvidence:  "prior revenue is zero",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := healthyRecord()
			tt.mutate(rec)
			ev := service.NewStructuredFlagEvaluator(defaultCatalog(t), discardLogger())

			out := ev.Evaluate(rec, 2024)
			require.True(t, out.State.Status.IsAvailable())

			r := resultFor(t, out.Results, tt.flagID)
			assert.Equal(t, tt.wantEvaluated, r.Evaluated, r.Evidence)
			assert.Equal(t, tt.wantTriggered, r.Triggered, r.Evidence)
			assert.Contains(t, r.Evidence, tt.wantEvidence)
		})
	}
}

func TestStructuredFlagEvaluator_RecordsNumericInputs(t *testing.T) {
	ev := service.NewStructuredFlagEvaluator(defaultCatalog(t), discardLogger())

	r := resultFor(t, ev.Evaluate(healthyRecord(), 2024).Results, 42)

	require.Len(t, r.NumericInputs, 4)
	assert.True(t, r.NumericInputs["revenue_fy2024"].Equal(decimal.NewFromInt(1200)))
	assert.True(t, r.NumericInputs["operating_cash_flow_fy2023"].Equal(decimal.NewFromInt(130)))
}

func TestStructuredFlagEvaluator_FiscalYearNotReported(t *testing.T) {
	ev := service.NewStructuredFlagEvaluator(defaultCatalog(t), discardLogger())

	out := ev.Evaluate(healthyRecord(), 2026)

	assert.True(t, out.State.Status.IsAvailable())
	for _, r := range out.Results {
		assert.False(t, r.Evaluated, "flag %d", r.FlagID)
		assert.Contains(t, r.Evidence, "FY2026")
	}
}

func TestStructuredFlagEvaluator_NoRuleRegistered(t *testing.T) {
	cat, err := catalog.Default(catalog.Overrides{Flags: map[int]catalog.FlagOverride{
		8: {Source: "STRUCTURED"},
	}})
	require.NoError(t, err)
	ev := service.NewStructuredFlagEvaluator(cat, discardLogger())

	r := resultFor(t, ev.Evaluate(healthyRecord(), 2024).Results, 8)

	assert.False(t, r.Evaluated)
	assert.Equal(t, "no rule registered", r.Evidence)
}

func TestStructuredFlagEvaluator_Unavailable(t *testing.T) {
	ev := service.NewStructuredFlagEvaluator(defaultCatalog(t), discardLogger())

	t.Run("nil record", func(t *testing.T) {
		out := ev.Evaluate(nil, 2024)
		assert.True(t, out.State.Status.Equal(valueobject.SourceUnavailable))
		assert.Empty(t, out.Results)
	})

	t.Run("fetch failure", func(t *testing.T) {
		out := ev.Unavailable(errors.New("feed timed out"))
		assert.True(t, out.State.Status.Equal(valueobject.SourceUnavailable))
		assert.Equal(t, "feed timed out", out.State.Reason)
		assert.Empty(t, out.Results)
	})
}

func TestStructuredFlagEvaluator_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(rec *model.FinancialRecord)
		wantErr string
	}{
		{"missing company", func(rec *model.FinancialRecord) { rec.CompanyID = "" }, "company ID is required"},
		{"no periods", func(rec *model.FinancialRecord) { rec.Periods = nil }, "no periods"},
		{"non-positive year", func(rec *model.FinancialRecord) { rec.Periods[0].FiscalYear = 0 }, "fiscal year must be positive"},
		{"duplicate year", func(rec *model.FinancialRecord) { rec.Periods[0].FiscalYear = 2023 }, "duplicate fiscal year 2023"},
		{"negative revenue", func(rec *model.FinancialRecord) { set(rec, 2023, model.Revenue, -1) }, "revenue FY2023 is negative"},
		{"negative total assets", func(rec *model.FinancialRecord) { set(rec, 2024, model.TotalAssets, -1) }, "total_assets FY2024 is negative"},
		{"pledge above 100", func(rec *model.FinancialRecord) { set(rec, 2024, model.PromoterPledgePct, 101) }, "outside 0-100"},
		{"negative holding", func(rec *model.FinancialRecord) { set(rec, 2024, model.PromoterHoldingPct, -2) }, "outside 0-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := healthyRecord()
			tt.mutate(rec)

			err := service.ValidateRecord(rec)
			require.ErrorIs(t, err, errs.ErrMalformedInput)
			assert.Contains(t, err.Error(), tt.wantErr)

			logger, buf := bufferLogger()
			out := service.NewStructuredFlagEvaluator(defaultCatalog(t), logger).Evaluate(rec, 2024)
			assert.True(t, out.State.Status.Equal(valueobject.SourceMalformed))
			assert.Empty(t, out.Results)
			assert.Contains(t, buf.String(), "malformed financial record")
		})
	}
}
