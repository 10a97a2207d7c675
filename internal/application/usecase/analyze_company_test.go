package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/application/usecase"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/event"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
	"github.com/akashent3/redflags-sub002/pkg/events"
)

func failingFeed(err error) *mockFinancialFeed {
	return &mockFinancialFeed{
		fetchFunc: func(_ context.Context, _ string, _ int) (*model.FinancialRecord, error) {
			return nil, err
		},
	}
}

func judgments(js ...model.NarrativeJudgment) *mockNarrativeSource {
	return &mockNarrativeSource{
		judgmentsFunc: func(_ context.Context, _ string, _ int) ([]model.NarrativeJudgment, error) {
			return js, nil
		},
	}
}

func TestAnalyzeCompany_Execute(t *testing.T) {
	t.Run("scores narrative evidence when the feed is down", func(t *testing.T) {
		var saved *model.Analysis
		var published []events.DomainEvent
		metrics := &recordingMetrics{}

		uc := usecase.NewAnalyzeCompany(
			testEngine(t),
			failingFeed(errors.New("feed offline")),
			judgments(model.NarrativeJudgment{FlagID: 1, IsTriggered: true, Confidence: 100, Evidence: "auditor resigned", PageReferences: []int{12}}),
			&mockAnalysisRepository{saveFunc: func(_ context.Context, a *model.Analysis) error {
				saved = a
				return nil
			}},
			&mockEventPublisher{publishFunc: func(_ context.Context, evts ...events.DomainEvent) error {
				published = append(published, evts...)
				return nil
			}},
			metrics,
			discardLogger(),
		)

		resp, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.NoError(t, err)
		require.NotNil(t, saved)

		assert.Equal(t, saved.ID(), resp.ID)
		assert.Equal(t, "ACME", resp.CompanyID)
		assert.Equal(t, 2024, resp.FiscalYear)
		assert.InDelta(t, 100.0, resp.CompositeScore, 0.001)
		assert.Equal(t, "CRITICAL", resp.RiskLevel)
		assert.True(t, resp.Partial)
		assert.Equal(t, 1, resp.FlagsTriggeredCount)
		assert.Equal(t, 1, resp.TotalFlagsEvaluated)
		assert.Equal(t, []int{1}, resp.TriggeredFlagIDs)
		assert.Len(t, resp.Flags, 49)

		require.Len(t, resp.Sources, 2)
		for _, s := range resp.Sources {
			if s.Source == "STRUCTURED" {
				assert.Equal(t, "UNAVAILABLE", s.Status)
				assert.Contains(t, s.Reason, "feed offline")
			} else {
				assert.Equal(t, "AVAILABLE", s.Status)
			}
		}

		require.Len(t, published, 2)
		assert.Equal(t, event.EventTypeAnalysisCompleted, published[0].EventType())
		assert.Equal(t, event.EventTypeHighRiskDetected, published[1].EventType())

		assert.Equal(t, []string{"CRITICAL"}, metrics.levels)
		assert.Equal(t, []bool{true}, metrics.partials)
		assert.Equal(t, "UNAVAILABLE", metrics.sources["STRUCTURED"])
		assert.Equal(t, "AVAILABLE", metrics.sources["NARRATIVE"])
	})

	t.Run("both sources down yields a LOW partial analysis", func(t *testing.T) {
		uc := usecase.NewAnalyzeCompany(
			testEngine(t),
			failingFeed(errors.New("feed offline")),
			&mockNarrativeSource{judgmentsFunc: func(_ context.Context, _ string, _ int) ([]model.NarrativeJudgment, error) {
				return nil, context.DeadlineExceeded
			}},
			&mockAnalysisRepository{},
			&mockEventPublisher{},
			nil,
			discardLogger(),
		)

		resp, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.NoError(t, err)
		assert.Zero(t, resp.CompositeScore)
		assert.Equal(t, "LOW", resp.RiskLevel)
		assert.Zero(t, resp.TotalFlagsEvaluated)
		assert.Len(t, resp.PartialCategories, 8)
		for _, f := range resp.Flags {
			assert.Equal(t, dto.FlagNotEvaluated, f.Status, "flag %d", f.FlagID)
		}
	})

	t.Run("malformed narrative payload is reported as MALFORMED", func(t *testing.T) {
		uc := usecase.NewAnalyzeCompany(
			testEngine(t),
			failingFeed(errors.New("feed offline")),
			&mockNarrativeSource{judgmentsFunc: func(_ context.Context, _ string, _ int) ([]model.NarrativeJudgment, error) {
				return nil, errs.ErrMalformedInput
			}},
			&mockAnalysisRepository{},
			&mockEventPublisher{},
			nil,
			discardLogger(),
		)

		resp, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.NoError(t, err)
		for _, s := range resp.Sources {
			if s.Source == "NARRATIVE" {
				assert.Equal(t, "MALFORMED", s.Status)
			}
		}
	})

	t.Run("slow source is cut off by the source timeout", func(t *testing.T) {
		cfg := service.DefaultEngineConfig()
		cfg.SourceTimeout = 20 * time.Millisecond
		engine, err := service.NewEngine(cfg, discardLogger())
		require.NoError(t, err)

		slow := &mockFinancialFeed{fetchFunc: func(ctx context.Context, _ string, _ int) (*model.FinancialRecord, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		}}
		uc := usecase.NewAnalyzeCompany(engine, slow, judgments(), &mockAnalysisRepository{}, &mockEventPublisher{}, nil, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.NoError(t, err)
		for _, s := range resp.Sources {
			if s.Source == "STRUCTURED" {
				assert.Equal(t, "UNAVAILABLE", s.Status)
				assert.Contains(t, s.Reason, "deadline exceeded")
			}
		}
	})

	t.Run("late result from a feed that ignores its context is discarded", func(t *testing.T) {
		cfg := service.DefaultEngineConfig()
		cfg.SourceTimeout = 20 * time.Millisecond
		engine, err := service.NewEngine(cfg, discardLogger())
		require.NoError(t, err)

		release := make(chan struct{})
		defer close(release)
		stubborn := &mockFinancialFeed{fetchFunc: func(_ context.Context, companyID string, _ int) (*model.FinancialRecord, error) {
			<-release
			return &model.FinancialRecord{
				CompanyID: companyID,
				Periods: []model.FinancialPeriod{{
					FiscalYear: 2024,
					Items: map[model.LineItem]decimal.Decimal{
						model.PromoterPledgePct: decimal.NewFromInt(60),
					},
				}},
			}, nil
		}}
		uc := usecase.NewAnalyzeCompany(engine, stubborn, judgments(), &mockAnalysisRepository{}, &mockEventPublisher{}, nil, discardLogger())

		start := time.Now()
		resp, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)

		var seen bool
		for _, s := range resp.Sources {
			if s.Source == "STRUCTURED" {
				seen = true
				assert.Equal(t, "UNAVAILABLE", s.Status)
				assert.Contains(t, s.Reason, "deadline exceeded")
			}
		}
		assert.True(t, seen)
	})

	t.Run("evaluates the structured feed", func(t *testing.T) {
		feed := &mockFinancialFeed{fetchFunc: func(_ context.Context, companyID string, fiscalYear int) (*model.FinancialRecord, error) {
			assert.Equal(t, "ACME", companyID)
			assert.Equal(t, 2024, fiscalYear)
			return &model.FinancialRecord{
				CompanyID: companyID,
				Periods: []model.FinancialPeriod{{
					FiscalYear: 2024,
					Items: map[model.LineItem]decimal.Decimal{
						model.PromoterPledgePct: decimal.NewFromInt(60),
					},
				}},
			}, nil
		}}
		uc := usecase.NewAnalyzeCompany(testEngine(t), feed, judgments(), &mockAnalysisRepository{}, &mockEventPublisher{}, nil, discardLogger())

		resp, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.NoError(t, err)
		for _, s := range resp.Sources {
			assert.Equal(t, "AVAILABLE", s.Status, s.Source)
		}
	})

	t.Run("rejects an empty company id", func(t *testing.T) {
		uc := usecase.NewAnalyzeCompany(testEngine(t), failingFeed(nil), judgments(), &mockAnalysisRepository{}, &mockEventPublisher{}, nil, discardLogger())

		_, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{FiscalYear: 2024})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrMalformedInput)
	})

	t.Run("rejects a non-positive fiscal year", func(t *testing.T) {
		uc := usecase.NewAnalyzeCompany(testEngine(t), failingFeed(nil), judgments(), &mockAnalysisRepository{}, &mockEventPublisher{}, nil, discardLogger())

		_, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME"})
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrMalformedInput)
	})

	t.Run("save failure", func(t *testing.T) {
		publishCalled := false
		uc := usecase.NewAnalyzeCompany(
			testEngine(t),
			failingFeed(errors.New("feed offline")),
			judgments(),
			&mockAnalysisRepository{saveFunc: func(_ context.Context, _ *model.Analysis) error {
				return errors.New("db error")
			}},
			&mockEventPublisher{publishFunc: func(_ context.Context, _ ...events.DomainEvent) error {
				publishCalled = true
				return nil
			}},
			nil,
			discardLogger(),
		)

		_, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to save analysis")
		assert.False(t, publishCalled)
	})

	t.Run("publish failure", func(t *testing.T) {
		uc := usecase.NewAnalyzeCompany(
			testEngine(t),
			failingFeed(errors.New("feed offline")),
			judgments(),
			&mockAnalysisRepository{},
			&mockEventPublisher{publishFunc: func(_ context.Context, _ ...events.DomainEvent) error {
				return errors.New("broker down")
			}},
			nil,
			discardLogger(),
		)

		_, err := uc.Execute(context.Background(), dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to publish events")
	})
}
