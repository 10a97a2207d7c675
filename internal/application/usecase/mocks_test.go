package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/service"
	"github.com/akashent3/redflags-sub002/pkg/events"
)

// --- Mock implementations ---

type mockAnalysisRepository struct {
	saveFunc       func(ctx context.Context, a *model.Analysis) error
	findByIDFunc   func(ctx context.Context, id uuid.UUID) (*model.Analysis, error)
	findLatestFunc func(ctx context.Context, companyID string, fiscalYear int) (*model.Analysis, error)
}

func (m *mockAnalysisRepository) Save(ctx context.Context, a *model.Analysis) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	return nil
}

func (m *mockAnalysisRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Analysis, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockAnalysisRepository) FindLatest(ctx context.Context, companyID string, fiscalYear int) (*model.Analysis, error) {
	if m.findLatestFunc != nil {
		return m.findLatestFunc(ctx, companyID, fiscalYear)
	}
	return nil, nil
}

type mockCaseRepository struct {
	appendFunc func(ctx context.Context, c model.HistoricalCase) error
	listFunc   func(ctx context.Context) ([]model.HistoricalCase, error)
}

func (m *mockCaseRepository) Append(ctx context.Context, c model.HistoricalCase) error {
	if m.appendFunc != nil {
		return m.appendFunc(ctx, c)
	}
	return nil
}

func (m *mockCaseRepository) List(ctx context.Context) ([]model.HistoricalCase, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}

type mockEventPublisher struct {
	publishFunc func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	return nil
}

type mockFinancialFeed struct {
	fetchFunc func(ctx context.Context, companyID string, fiscalYear int) (*model.FinancialRecord, error)
}

func (m *mockFinancialFeed) Fetch(ctx context.Context, companyID string, fiscalYear int) (*model.FinancialRecord, error) {
	return m.fetchFunc(ctx, companyID, fiscalYear)
}

type mockNarrativeSource struct {
	judgmentsFunc func(ctx context.Context, companyID string, fiscalYear int) ([]model.NarrativeJudgment, error)
}

func (m *mockNarrativeSource) Judgments(ctx context.Context, companyID string, fiscalYear int) ([]model.NarrativeJudgment, error) {
	return m.judgmentsFunc(ctx, companyID, fiscalYear)
}

type recordingMetrics struct {
	mu       sync.Mutex
	levels   []string
	sources  map[string]string
	partials []bool
}

func (m *recordingMetrics) ObserveAnalysis(_ context.Context, riskLevel string, _ float64, partial bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels = append(m.levels, riskLevel)
	m.partials = append(m.partials, partial)
}

func (m *recordingMetrics) ObserveSource(_ context.Context, source, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sources == nil {
		m.sources = make(map[string]string)
	}
	m.sources[source] = status
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEngine(t *testing.T) *service.Engine {
	t.Helper()
	engine, err := service.NewEngine(service.DefaultEngineConfig(), discardLogger())
	require.NoError(t, err)
	return engine
}
