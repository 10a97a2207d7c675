package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	pgutil "github.com/akashent3/redflags-sub002/pkg/postgres"
)

// CaseRepository implements port.CaseRepository using PostgreSQL.
type CaseRepository struct {
	pool *pgxpool.Pool
}

// NewCaseRepository creates a new PostgreSQL-backed case repository.
func NewCaseRepository(pool *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{pool: pool}
}

// Append inserts a case. Existing cases are never updated.
func (r *CaseRepository) Append(ctx context.Context, c model.HistoricalCase) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO historical_cases (
			case_id, company_name, flag_ids, outcome, lessons, detected_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, c.CaseID, c.CompanyName, c.FlagIDs, c.Outcome, c.Lessons, c.DetectedAt, c.CreatedAt)
	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return fmt.Errorf("case %s: %w", c.CaseID, errs.ErrAlreadyExists)
		}
		return fmt.Errorf("failed to append case: %w", err)
	}
	return nil
}

// List returns every case ordered by case id.
func (r *CaseRepository) List(ctx context.Context) ([]model.HistoricalCase, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT case_id, company_name, flag_ids, outcome, lessons, detected_at, created_at
		FROM historical_cases
		ORDER BY case_id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cases: %w", err)
	}
	defer rows.Close()

	cases := make([]model.HistoricalCase, 0)
	for rows.Next() {
		var c model.HistoricalCase
		if err := rows.Scan(&c.CaseID, &c.CompanyName, &c.FlagIDs, &c.Outcome, &c.Lessons, &c.DetectedAt, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan case: %w", err)
		}
		c.FlagIDs = model.NormalizeFlagSet(c.FlagIDs)
		c.DetectedAt = c.DetectedAt.UTC()
		c.CreatedAt = c.CreatedAt.UTC()
		cases = append(cases, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}

	return cases, nil
}
