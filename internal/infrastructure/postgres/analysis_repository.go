package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
	pgutil "github.com/akashent3/redflags-sub002/pkg/postgres"
)

const analysisColumns = `id, company_id, fiscal_year, assessment, created_at`

// AnalysisRepository implements port.AnalysisRepository using PostgreSQL.
// Analyses are immutable: Save only ever inserts.
type AnalysisRepository struct {
	pool *pgxpool.Pool
}

// NewAnalysisRepository creates a new PostgreSQL-backed analysis repository.
func NewAnalysisRepository(pool *pgxpool.Pool) *AnalysisRepository {
	return &AnalysisRepository{pool: pool}
}

// Save persists an analysis and its flag results in one transaction.
func (r *AnalysisRepository) Save(ctx context.Context, analysis *model.Analysis) error {
	assessment := analysis.Assessment()
	assessmentJSON, err := json.Marshal(assessment)
	if err != nil {
		return fmt.Errorf("failed to encode assessment: %w", err)
	}

	return pgutil.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO analyses (
				id, company_id, fiscal_year,
				composite_score, risk_level,
				flags_triggered, flags_evaluated, partial,
				assessment, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`,
			analysis.ID(),
			analysis.CompanyID(),
			analysis.FiscalYear(),
			decimal.NewFromFloat(assessment.CompositeScore),
			assessment.RiskLevel.String(),
			assessment.FlagsTriggeredCount,
			assessment.TotalFlagsEvaluated,
			assessment.Partial(),
			assessmentJSON,
			analysis.CreatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to save analysis: %w", err)
		}

		batch := &pgx.Batch{}
		for _, res := range analysis.Results() {
			inputs, err := encodeInputs(res.NumericInputs)
			if err != nil {
				return err
			}
			pages := res.PageReferences
			if pages == nil {
				pages = []int{}
			}
			batch.Queue(`
				INSERT INTO flag_results (
					analysis_id, flag_id, source, evaluated, triggered,
					confidence, evidence, page_references, numeric_inputs
				) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`,
				analysis.ID(), res.FlagID, res.Source.String(), res.Evaluated, res.Triggered,
				res.Confidence, res.Evidence, pages, inputs,
			)
		}
		if err := pgutil.ExecBatch(ctx, tx, batch); err != nil {
			return fmt.Errorf("failed to save flag results: %w", err)
		}
		return nil
	})
}

// FindByID retrieves an analysis by its unique identifier.
func (r *AnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Analysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`
	return r.scanAnalysis(ctx, r.pool.QueryRow(ctx, query, id))
}

// FindLatest retrieves the most recent analysis of a company/fiscal year.
func (r *AnalysisRepository) FindLatest(ctx context.Context, companyID string, fiscalYear int) (*model.Analysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM analyses
		WHERE company_id = $1 AND fiscal_year = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanAnalysis(ctx, r.pool.QueryRow(ctx, query, companyID, fiscalYear))
}

func (r *AnalysisRepository) scanAnalysis(ctx context.Context, row pgx.Row) (*model.Analysis, error) {
	var (
		id             uuid.UUID
		companyID      string
		fiscalYear     int
		assessmentJSON []byte
		createdAt      time.Time
	)

	err := row.Scan(&id, &companyID, &fiscalYear, &assessmentJSON, &createdAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan analysis: %w", err)
	}

	var assessment model.RiskAssessment
	if err := json.Unmarshal(assessmentJSON, &assessment); err != nil {
		return nil, fmt.Errorf("failed to decode assessment: %w", err)
	}

	results, err := r.loadResults(ctx, id)
	if err != nil {
		return nil, err
	}

	return model.ReconstructAnalysis(id, companyID, fiscalYear, results, assessment, createdAt), nil
}

func (r *AnalysisRepository) loadResults(ctx context.Context, analysisID uuid.UUID) ([]model.FlagResult, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT flag_id, source, evaluated, triggered, confidence,
			evidence, page_references, numeric_inputs
		FROM flag_results
		WHERE analysis_id = $1
		ORDER BY flag_id
	`, analysisID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flag results: %w", err)
	}
	defer rows.Close()

	results := make([]model.FlagResult, 0)
	for rows.Next() {
		var (
			res       model.FlagResult
			sourceStr string
			inputs    []byte
		)
		if err := rows.Scan(
			&res.FlagID, &sourceStr, &res.Evaluated, &res.Triggered, &res.Confidence,
			&res.Evidence, &res.PageReferences, &inputs,
		); err != nil {
			return nil, fmt.Errorf("failed to scan flag result: %w", err)
		}

		res.Source, err = valueobject.FlagSourceFromString(sourceStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse flag source: %w", err)
		}
		if len(res.PageReferences) == 0 {
			res.PageReferences = nil
		}
		if len(inputs) > 0 {
			if err := json.Unmarshal(inputs, &res.NumericInputs); err != nil {
				return nil, fmt.Errorf("failed to decode numeric inputs: %w", err)
			}
		}
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read flag results: %w", err)
	}

	return results, nil
}

func encodeInputs(inputs map[string]decimal.Decimal) ([]byte, error) {
	if len(inputs) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(inputs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode numeric inputs: %w", err)
	}
	return b, nil
}
