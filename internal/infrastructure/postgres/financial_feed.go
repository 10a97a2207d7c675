package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	pgutil "github.com/akashent3/redflags-sub002/pkg/postgres"
)

// FinancialFeed implements port.FinancialFeed over the line items ingested
// into PostgreSQL.
type FinancialFeed struct {
	pool *pgxpool.Pool
}

// NewFinancialFeed creates a new PostgreSQL-backed financial feed.
func NewFinancialFeed(pool *pgxpool.Pool) *FinancialFeed {
	return &FinancialFeed{pool: pool}
}

// Fetch loads every period of a company up to and including fiscalYear.
// A company with no figures is reported as an unavailable source.
func (f *FinancialFeed) Fetch(ctx context.Context, companyID string, fiscalYear int) (*model.FinancialRecord, error) {
	rows, err := f.pool.Query(ctx, `
		SELECT fiscal_year, line_item, value
		FROM financial_line_items
		WHERE company_id = $1 AND fiscal_year <= $2
		ORDER BY fiscal_year, line_item
	`, companyID, fiscalYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query line items: %w", err)
	}
	defer rows.Close()

	record := &model.FinancialRecord{CompanyID: companyID}
	index := make(map[int]int)
	for rows.Next() {
		var (
			year  int
			item  string
			value decimal.Decimal
		)
		if err := rows.Scan(&year, &item, &value); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		i, ok := index[year]
		if !ok {
			i = len(record.Periods)
			index[year] = i
			record.Periods = append(record.Periods, model.FinancialPeriod{
				FiscalYear: year,
				Items:      make(map[model.LineItem]decimal.Decimal),
			})
		}
		record.Periods[i].Items[model.LineItem(item)] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line items: %w", err)
	}

	if len(record.Periods) == 0 {
		return nil, fmt.Errorf("%w: no financial data for %s up to FY%d", errs.ErrSourceUnavailable, companyID, fiscalYear)
	}
	return record, nil
}

// Store upserts every line item of a record.
func (f *FinancialFeed) Store(ctx context.Context, record *model.FinancialRecord) error {
	return pgutil.WithTransaction(ctx, f.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range record.Periods {
			for item, value := range p.Items {
				batch.Queue(`
					INSERT INTO financial_line_items (company_id, fiscal_year, line_item, value)
					VALUES ($1, $2, $3, $4)
					ON CONFLICT (company_id, fiscal_year, line_item) DO UPDATE SET value = EXCLUDED.value
				`, record.CompanyID, p.FiscalYear, string(item), value)
			}
		}
		if err := pgutil.ExecBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("failed to store line items: %w", err)
		}
		return nil
	})
}
