package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
)

// NarrativeStore implements port.NarrativeSource over the judgment payloads
// the document-understanding collaborator delivered.
type NarrativeStore struct {
	pool *pgxpool.Pool
}

// NewNarrativeStore creates a new PostgreSQL-backed narrative source.
func NewNarrativeStore(pool *pgxpool.Pool) *NarrativeStore {
	return &NarrativeStore{pool: pool}
}

// Judgments decodes the stored payload of a company/fiscal year. A missing
// payload is an unavailable source; an undecodable one is malformed input.
func (s *NarrativeStore) Judgments(ctx context.Context, companyID string, fiscalYear int) ([]model.NarrativeJudgment, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx, `
		SELECT payload FROM narrative_payloads
		WHERE company_id = $1 AND fiscal_year = $2
	`, companyID, fiscalYear).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no narrative judgments for %s FY%d", errs.ErrSourceUnavailable, companyID, fiscalYear)
		}
		return nil, fmt.Errorf("failed to load narrative payload: %w", err)
	}

	return service.ParseJudgments(payload)
}

// Store upserts the raw payload of a company/fiscal year.
func (s *NarrativeStore) Store(ctx context.Context, companyID string, fiscalYear int, payload []byte) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO narrative_payloads (company_id, fiscal_year, payload, received_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (company_id, fiscal_year) DO UPDATE
			SET payload = EXCLUDED.payload, received_at = EXCLUDED.received_at
	`, companyID, fiscalYear, payload)
	if err != nil {
		return fmt.Errorf("failed to store narrative payload: %w", err)
	}
	return nil
}
