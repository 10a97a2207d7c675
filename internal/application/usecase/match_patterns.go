package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/port"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
)

// MatchPatterns is the use case for comparing a triggered-flag set against
// the historical case corpus.
type MatchPatterns struct {
	analyses port.AnalysisRepository
	cases    port.CaseRepository
	engine   *service.Engine
}

// NewMatchPatterns creates a new MatchPatterns use case.
func NewMatchPatterns(analyses port.AnalysisRepository, cases port.CaseRepository, engine *service.Engine) *MatchPatterns {
	return &MatchPatterns{analyses: analyses, cases: cases, engine: engine}
}

// Execute ranks the corpus against the target set. The corpus is read once;
// cases appended during matching are not seen.
func (uc *MatchPatterns) Execute(ctx context.Context, req dto.MatchPatternsRequest) (dto.PatternReportResponse, error) {
	target, err := uc.target(ctx, req)
	if err != nil {
		return dto.PatternReportResponse{}, err
	}

	corpus, err := uc.cases.List(ctx)
	if err != nil {
		return dto.PatternReportResponse{}, fmt.Errorf("failed to list cases: %w", err)
	}

	report := uc.engine.Matcher.Match(target, corpus)
	return dto.FromPatternReport(target, report), nil
}

func (uc *MatchPatterns) target(ctx context.Context, req dto.MatchPatternsRequest) ([]int, error) {
	if req.AnalysisID != uuid.Nil {
		analysis, err := uc.analyses.FindByID(ctx, req.AnalysisID)
		if err != nil {
			return nil, fmt.Errorf("failed to find analysis: %w", err)
		}
		if analysis == nil {
			return nil, fmt.Errorf("analysis %s: %w", req.AnalysisID, errs.ErrNotFound)
		}
		return analysis.TriggeredFlagIDs(), nil
	}

	var problems []error
	for _, id := range req.FlagIDs {
		if _, err := uc.engine.Catalog.Lookup(id); err != nil {
			problems = append(problems, err)
		}
	}
	if err := errors.Join(problems...); err != nil {
		return nil, err
	}
	return model.NormalizeFlagSet(req.FlagIDs), nil
}
