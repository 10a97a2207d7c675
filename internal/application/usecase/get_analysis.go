package usecase

import (
	"context"
	"fmt"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/port"
)

// GetAnalysis is the use case for retrieving an existing analysis.
type GetAnalysis struct {
	repo    port.AnalysisRepository
	catalog *catalog.Catalog
}

// NewGetAnalysis creates a new GetAnalysis use case.
func NewGetAnalysis(repo port.AnalysisRepository, cat *catalog.Catalog) *GetAnalysis {
	return &GetAnalysis{repo: repo, catalog: cat}
}

// Execute retrieves an analysis by ID.
func (uc *GetAnalysis) Execute(ctx context.Context, req dto.GetAnalysisRequest) (dto.AnalysisResponse, error) {
	analysis, err := uc.repo.FindByID(ctx, req.AnalysisID)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("failed to find analysis: %w", err)
	}
	if analysis == nil {
		return dto.AnalysisResponse{}, fmt.Errorf("analysis %s: %w", req.AnalysisID, errs.ErrNotFound)
	}

	return dto.FromAnalysis(analysis, uc.catalog), nil
}
