package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/port"
)

// RecordCase is the use case for appending a confirmed fraud case to the
// reference corpus.
type RecordCase struct {
	cases   port.CaseRepository
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewRecordCase creates a new RecordCase use case.
func NewRecordCase(cases port.CaseRepository, cat *catalog.Catalog, logger *slog.Logger) *RecordCase {
	return &RecordCase{cases: cases, catalog: cat, logger: logger}
}

// Execute validates the case against the catalog and appends it.
func (uc *RecordCase) Execute(ctx context.Context, req dto.RecordCaseRequest) (dto.CaseResponse, error) {
	c, err := model.NewHistoricalCase(req.CaseID, req.CompanyName, req.FlagIDs, req.Outcome, req.Lessons, req.DetectedAt)
	if err != nil {
		return dto.CaseResponse{}, fmt.Errorf("%w: %v", errs.ErrMalformedInput, err)
	}

	var problems []error
	for _, id := range c.FlagIDs {
		if _, err := uc.catalog.Lookup(id); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(problems...); err != nil {
		return dto.CaseResponse{}, err
	}

	if err := uc.cases.Append(ctx, c); err != nil {
		return dto.CaseResponse{}, fmt.Errorf("failed to append case: %w", err)
	}

	uc.logger.InfoContext(ctx, "historical case recorded",
		"case_id", c.CaseID, "flags", len(c.FlagIDs))

	return dto.FromCase(c), nil
}
