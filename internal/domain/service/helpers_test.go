package service_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, nil)), &buf
}

func defaultCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Default(catalog.Overrides{})
	require.NoError(t, err)
	return c
}

// flag is shorthand for building small test catalogs.
func flag(id int, cat valueobject.Category, sev valueobject.Severity, src valueobject.FlagSource) model.FlagDefinition {
	return model.FlagDefinition{ID: id, Name: "flag", Category: cat, Severity: sev, Source: src}
}

func newCatalog(t *testing.T, weights map[valueobject.Category]float64, defs ...model.FlagDefinition) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(defs, weights)
	require.NoError(t, err)
	return c
}

func evaluated(id int, src valueobject.FlagSource, triggered bool, confidence float64) model.FlagResult {
	return model.FlagResult{FlagID: id, Source: src, Evaluated: true, Triggered: triggered, Confidence: confidence}
}

func notEvaluated(id int, src valueobject.FlagSource) model.FlagResult {
	return model.FlagResult{FlagID: id, Source: src, Evidence: "missing"}
}

var healthyFigures = map[model.LineItem][3]float64{
	model.Revenue:                  {1000, 1100, 1200},
	model.NetProfit:                {100, 110, 120},
	model.OperatingCashFlow:        {120, 130, 140},
	model.Capex:                    {50, 60, 70},
	model.Receivables:              {150, 160, 170},
	model.Inventory:                {100, 105, 110},
	model.CostOfGoodsSold:          {600, 650, 700},
	model.Cash:                     {50, 55, 60},
	model.CurrentAssets:            {400, 420, 450},
	model.CurrentLiabilities:       {300, 310, 320},
	model.TotalAssets:              {1500, 1600, 1700},
	model.IntangibleAssets:         {100, 100, 100},
	model.TotalDebt:                {300, 310, 320},
	model.Equity:                   {800, 850, 900},
	model.InterestExpense:          {20, 20, 20},
	model.OtherIncome:              {10, 10, 10},
	model.ContingentLiabilities:    {50, 50, 50},
	model.RelatedPartyTransactions: {50, 52, 55},
	model.AuditFees:                {5, 5, 5.5},
	model.NonAuditFees:             {1, 1, 1},
	model.PromoterHoldingPct:       {55, 55, 54},
	model.PromoterPledgePct:        {5, 5, 5},
}

// healthyRecord returns FY2022-FY2024 figures that trigger no structured flag.
func healthyRecord() *model.FinancialRecord {
	rec := &model.FinancialRecord{CompanyID: "INE001"}
	for i, year := range []int{2022, 2023, 2024} {
		items := make(map[model.LineItem]decimal.Decimal, len(healthyFigures))
		for item, values := range healthyFigures {
			items[item] = decimal.NewFromFloat(values[i])
		}
		rec.Periods = append(rec.Periods, model.FinancialPeriod{FiscalYear: year, Items: items})
	}
	return rec
}

func set(rec *model.FinancialRecord, year int, item model.LineItem, v float64) {
	for _, p := range rec.Periods {
		if p.FiscalYear == year {
			p.Items[item] = decimal.NewFromFloat(v)
		}
	}
}

func unset(rec *model.FinancialRecord, year int, item model.LineItem) {
	for _, p := range rec.Periods {
		if p.FiscalYear == year {
			delete(p.Items, item)
		}
	}
}

func resultFor(t *testing.T, results []model.FlagResult, id int) model.FlagResult {
	t.Helper()
	for _, r := range results {
		if r.FlagID == id {
			return r
		}
	}
	t.Fatalf("no result for flag %d", id)
	return model.FlagResult{}
}
