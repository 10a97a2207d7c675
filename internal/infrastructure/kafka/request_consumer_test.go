package kafka_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/infrastructure/kafka"
	pkgkafka "github.com/akashent3/redflags-sub002/pkg/kafka"
	"github.com/akashent3/redflags-sub002/pkg/testutil"
)

type fakeAnalyzer struct {
	requests []dto.AnalyzeCompanyRequest
	err      error
}

func (f *fakeAnalyzer) Execute(_ context.Context, req dto.AnalyzeCompanyRequest) (dto.AnalysisResponse, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return dto.AnalysisResponse{}, f.err
	}
	return dto.AnalysisResponse{ID: uuid.New(), CompanyID: req.CompanyID, RiskLevel: "LOW"}, nil
}

func TestAnalysisRequestConsumer_Handle(t *testing.T) {
	msg := pkgkafka.Message{Value: []byte(`{"company_id": "ACME", "fiscal_year": 2024}`)}

	t.Run("runs the analysis", func(t *testing.T) {
		analyzer := &fakeAnalyzer{}
		c := kafka.NewAnalysisRequestConsumer(analyzer, discardLogger())

		require.NoError(t, c.Handle(context.Background(), msg))
		require.Len(t, analyzer.requests, 1)
		assert.Equal(t, dto.AnalyzeCompanyRequest{CompanyID: "ACME", FiscalYear: 2024}, analyzer.requests[0])
	})

	t.Run("undecodable message is acknowledged", func(t *testing.T) {
		analyzer := &fakeAnalyzer{}
		c := kafka.NewAnalysisRequestConsumer(analyzer, discardLogger())

		require.NoError(t, c.Handle(context.Background(), pkgkafka.Message{Value: []byte("not json")}))
		assert.Empty(t, analyzer.requests)
	})

	t.Run("invalid request is acknowledged", func(t *testing.T) {
		analyzer := &fakeAnalyzer{err: fmt.Errorf("%w: company ID is required", errs.ErrMalformedInput)}
		c := kafka.NewAnalysisRequestConsumer(analyzer, discardLogger())

		assert.NoError(t, c.Handle(context.Background(), msg))
	})

	t.Run("infrastructure failure is returned", func(t *testing.T) {
		analyzer := &fakeAnalyzer{err: errors.New("failed to save analysis: db down")}
		c := kafka.NewAnalysisRequestConsumer(analyzer, discardLogger())

		testutil.AssertErrorContains(t, c.Handle(context.Background(), msg), "failed to analyze ACME FY2024")
	})
}
