package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	pkgkafka "github.com/akashent3/redflags-sub002/pkg/kafka"
)

// Analyzer runs one analysis. *usecase.AnalyzeCompany satisfies it.
type Analyzer interface {
	Execute(ctx context.Context, req dto.AnalyzeCompanyRequest) (dto.AnalysisResponse, error)
}

// AnalysisRequestConsumer turns messages on the requests topic into
// AnalyzeCompany executions.
type AnalysisRequestConsumer struct {
	analyzer Analyzer
	logger   *slog.Logger
}

// NewAnalysisRequestConsumer creates a consumer handler.
func NewAnalysisRequestConsumer(analyzer Analyzer, logger *slog.Logger) *AnalysisRequestConsumer {
	return &AnalysisRequestConsumer{analyzer: analyzer, logger: logger}
}

// Handle processes one message. Requests that can never succeed are logged
// and acknowledged; infrastructure failures are returned so the message is
// not committed.
func (c *AnalysisRequestConsumer) Handle(ctx context.Context, msg pkgkafka.Message) error {
	var req dto.AnalyzeCompanyRequest
	if err := json.Unmarshal(msg.Value, &req); err != nil {
		c.logger.WarnContext(ctx, "discarding undecodable analysis request", "error", err)
		return nil
	}

	resp, err := c.analyzer.Execute(ctx, req)
	if err != nil {
		if errors.Is(err, errs.ErrMalformedInput) {
			c.logger.WarnContext(ctx, "discarding invalid analysis request",
				"company_id", req.CompanyID, "fiscal_year", req.FiscalYear, "error", err)
			return nil
		}
		return fmt.Errorf("failed to analyze %s FY%d: %w", req.CompanyID, req.FiscalYear, err)
	}

	c.logger.InfoContext(ctx, "analysis request processed",
		"analysis_id", resp.ID, "company_id", resp.CompanyID, "risk_level", resp.RiskLevel)
	return nil
}
