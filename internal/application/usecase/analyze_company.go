package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/port"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

var tracer = otel.Tracer("github.com/akashent3/redflags-sub002/internal/application/usecase")

// AnalyzeCompany is the use case for scoring one company/fiscal year.
type AnalyzeCompany struct {
	engine    *service.Engine
	feed      port.FinancialFeed
	narrative port.NarrativeSource
	repo      port.AnalysisRepository
	publisher port.EventPublisher
	metrics   port.AnalysisMetrics
	logger    *slog.Logger
}

// NewAnalyzeCompany creates a new AnalyzeCompany use case. metrics may be nil.
func NewAnalyzeCompany(
	engine *service.Engine,
	feed port.FinancialFeed,
	narrative port.NarrativeSource,
	repo port.AnalysisRepository,
	publisher port.EventPublisher,
	metrics port.AnalysisMetrics,
	logger *slog.Logger,
) *AnalyzeCompany {
	return &AnalyzeCompany{
		engine:    engine,
		feed:      feed,
		narrative: narrative,
		repo:      repo,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
	}
}

// Execute fetches both evidence sources, scores them, persists the analysis
// and publishes its events. A failed or late source degrades the analysis to
// partial; it never fails the request.
func (uc *AnalyzeCompany) Execute(ctx context.Context, req dto.AnalyzeCompanyRequest) (_ dto.AnalysisResponse, err error) {
	ctx, span := tracer.Start(ctx, "AnalyzeCompany", trace.WithAttributes(
		attribute.String("company_id", req.CompanyID),
		attribute.Int("fiscal_year", req.FiscalYear),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if req.CompanyID == "" {
		return dto.AnalysisResponse{}, fmt.Errorf("%w: company ID is required", errs.ErrMalformedInput)
	}
	if req.FiscalYear <= 0 {
		return dto.AnalysisResponse{}, fmt.Errorf("%w: fiscal year must be positive", errs.ErrMalformedInput)
	}

	// 1. Fetch both sources concurrently. Failures are captured as outputs.
	structured, narrative := uc.collect(ctx, req.CompanyID, req.FiscalYear)
	uc.observeSource(ctx, structured.State)
	uc.observeSource(ctx, narrative.State)

	// 2. Aggregate and score.
	agg, assessment := uc.engine.Assess(structured, narrative)

	// 3. Build the aggregate.
	span.SetAttributes(
		attribute.Float64("composite_score", assessment.CompositeScore),
		attribute.String("risk_level", assessment.RiskLevel.String()),
		attribute.Bool("partial", assessment.Partial()),
	)
	analysis, err := model.NewAnalysis(req.CompanyID, req.FiscalYear, agg.Results, assessment)
	if err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("failed to create analysis: %w", err)
	}

	// 4. Persist the analysis.
	if err := uc.repo.Save(ctx, analysis); err != nil {
		return dto.AnalysisResponse{}, fmt.Errorf("failed to save analysis: %w", err)
	}

	// 5. Publish domain events.
	evts := analysis.DomainEvents()
	if len(evts) > 0 {
		if err := uc.publisher.Publish(ctx, evts...); err != nil {
			return dto.AnalysisResponse{}, fmt.Errorf("failed to publish events: %w", err)
		}
	}

	if uc.metrics != nil {
		uc.metrics.ObserveAnalysis(ctx, assessment.RiskLevel.String(), assessment.CompositeScore, assessment.Partial())
	}
	uc.logger.InfoContext(ctx, "analysis completed",
		"analysis_id", analysis.ID(),
		"company_id", req.CompanyID,
		"fiscal_year", req.FiscalYear,
		"composite_score", assessment.CompositeScore,
		"risk_level", assessment.RiskLevel.String(),
		"partial", assessment.Partial(),
	)

	return dto.FromAnalysis(analysis, uc.engine.Catalog), nil
}

func (uc *AnalyzeCompany) collect(ctx context.Context, companyID string, fiscalYear int) (model.SourceOutput, model.SourceOutput) {
	timeout := uc.engine.Config().SourceTimeout
	var structured, narrative model.SourceOutput

	var g errgroup.Group
	g.Go(func() error {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		fetchCtx, span := tracer.Start(fetchCtx, "FinancialFeed.Fetch")
		defer span.End()
		record, err := within(fetchCtx, func(ctx context.Context) (*model.FinancialRecord, error) {
			return uc.feed.Fetch(ctx, companyID, fiscalYear)
		})
		if err != nil {
			span.RecordError(err)
			structured = uc.engine.Structured.Unavailable(err)
			return nil
		}
		structured = uc.engine.Structured.Evaluate(record, fiscalYear)
		return nil
	})
	g.Go(func() error {
		fetchCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		fetchCtx, span := tracer.Start(fetchCtx, "NarrativeSource.Judgments")
		defer span.End()
		judgments, err := within(fetchCtx, func(ctx context.Context) ([]model.NarrativeJudgment, error) {
			return uc.narrative.Judgments(ctx, companyID, fiscalYear)
		})
		if err != nil {
			span.RecordError(err)
		}
		switch {
		case errors.Is(err, errs.ErrMalformedInput):
			uc.logger.WarnContext(ctx, "narrative payload malformed",
				"company_id", companyID, "fiscal_year", fiscalYear, "error", err)
			narrative = model.UnavailableOutput(valueobject.SourceNarrative, valueobject.SourceMalformed, err.Error())
		case err != nil:
			narrative = uc.engine.Narrative.Unavailable(err)
		default:
			narrative = uc.engine.Narrative.Adapt(judgments)
		}
		return nil
	})
	_ = g.Wait()

	return structured, narrative
}

// within runs fetch and waits for it until ctx is done. A result that arrives
// after that is discarded; the fetch goroutine is left to finish on its own.
func within[T any](ctx context.Context, fetch func(context.Context) (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fetch(ctx)
		done <- result{val: v, err: err}
	}()

	select {
	case r := <-done:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

func (uc *AnalyzeCompany) observeSource(ctx context.Context, s model.SourceState) {
	if uc.metrics != nil {
		uc.metrics.ObserveSource(ctx, s.Source.String(), s.Status.String())
	}
}
