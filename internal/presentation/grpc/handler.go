package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/akashent3/redflags-sub002/internal/application/dto"
	"github.com/akashent3/redflags-sub002/internal/application/usecase"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
)

// Compile-time assertion that RedFlagsHandler implements RedFlagsServiceServer.
var _ RedFlagsServiceServer = (*RedFlagsHandler)(nil)

// RedFlagsHandler implements the gRPC RedFlagsServiceServer interface.
type RedFlagsHandler struct {
	UnimplementedRedFlagsServiceServer
	analyzeCompany *usecase.AnalyzeCompany
	getAnalysis    *usecase.GetAnalysis
	matchPatterns  *usecase.MatchPatterns
	recordCase     *usecase.RecordCase
	logger         *slog.Logger
}

// NewRedFlagsHandler creates a new gRPC handler.
func NewRedFlagsHandler(
	analyzeCompany *usecase.AnalyzeCompany,
	getAnalysis *usecase.GetAnalysis,
	matchPatterns *usecase.MatchPatterns,
	recordCase *usecase.RecordCase,
	logger *slog.Logger,
) *RedFlagsHandler {
	return &RedFlagsHandler{
		analyzeCompany: analyzeCompany,
		getAnalysis:    getAnalysis,
		matchPatterns:  matchPatterns,
		recordCase:     recordCase,
		logger:         logger,
	}
}

// Proto-aligned request/response message types.

// AnalyzeCompanyRequest represents the proto AnalyzeCompanyRequest message.
type AnalyzeCompanyRequest struct {
	CompanyID  string `json:"company_id"`
	FiscalYear int32  `json:"fiscal_year"`
}

// AnalyzeCompanyResponse represents the proto AnalyzeCompanyResponse message.
type AnalyzeCompanyResponse struct {
	Analysis *dto.AnalysisResponse `json:"analysis"`
}

// GetAnalysisRequest represents the proto GetAnalysisRequest message.
type GetAnalysisRequest struct {
	ID string `json:"id"`
}

// GetAnalysisResponse represents the proto GetAnalysisResponse message.
type GetAnalysisResponse struct {
	Analysis *dto.AnalysisResponse `json:"analysis"`
}

// MatchPatternsRequest represents the proto MatchPatternsRequest message.
// A non-empty AnalysisID takes precedence over FlagIDs.
type MatchPatternsRequest struct {
	AnalysisID string  `json:"analysis_id"`
	FlagIDs    []int32 `json:"flag_ids"`
}

// MatchPatternsResponse represents the proto MatchPatternsResponse message.
type MatchPatternsResponse struct {
	Report *dto.PatternReportResponse `json:"report"`
}

// RecordCaseRequest represents the proto RecordCaseRequest message.
// DetectedAt accepts RFC 3339 or a plain 2006-01-02 date.
type RecordCaseRequest struct {
	CaseID      string  `json:"case_id"`
	CompanyName string  `json:"company_name"`
	Outcome     string  `json:"outcome"`
	Lessons     string  `json:"lessons"`
	DetectedAt  string  `json:"detected_at"`
	FlagIDs     []int32 `json:"flag_ids"`
}

// RecordCaseResponse represents the proto RecordCaseResponse message.
type RecordCaseResponse struct {
	Case *dto.CaseResponse `json:"case"`
}

// AnalyzeCompany runs a full red-flag analysis for one company and fiscal year.
func (h *RedFlagsHandler) AnalyzeCompany(ctx context.Context, req *AnalyzeCompanyRequest) (*AnalyzeCompanyResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	h.logger.Info("analyzing company",
		slog.String("company_id", req.CompanyID),
		slog.Int("fiscal_year", int(req.FiscalYear)),
	)

	result, err := h.analyzeCompany.Execute(ctx, dto.AnalyzeCompanyRequest{
		CompanyID:  req.CompanyID,
		FiscalYear: int(req.FiscalYear),
	})
	if err != nil {
		return nil, h.toStatus("analyze company", err)
	}
	return &AnalyzeCompanyResponse{Analysis: &result}, nil
}

// GetAnalysis returns a stored analysis.
func (h *RedFlagsHandler) GetAnalysis(ctx context.Context, req *GetAnalysisRequest) (*GetAnalysisResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	analysisID, err := uuid.Parse(req.ID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid id: %v", err)
	}

	result, err := h.getAnalysis.Execute(ctx, dto.GetAnalysisRequest{AnalysisID: analysisID})
	if err != nil {
		return nil, h.toStatus("get analysis", err)
	}
	return &GetAnalysisResponse{Analysis: &result}, nil
}

// MatchPatterns ranks historical cases against a flag set.
func (h *RedFlagsHandler) MatchPatterns(ctx context.Context, req *MatchPatternsRequest) (*MatchPatternsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	in := dto.MatchPatternsRequest{FlagIDs: toInts(req.FlagIDs)}
	if req.AnalysisID != "" {
		id, err := uuid.Parse(req.AnalysisID)
		if err != nil {
			return nil, status.Errorf(codes.InvalidArgument, "invalid analysis_id: %v", err)
		}
		in.AnalysisID = id
	}

	result, err := h.matchPatterns.Execute(ctx, in)
	if err != nil {
		return nil, h.toStatus("match patterns", err)
	}
	return &MatchPatternsResponse{Report: &result}, nil
}

// RecordCase appends a confirmed case to the historical corpus.
func (h *RedFlagsHandler) RecordCase(ctx context.Context, req *RecordCaseRequest) (*RecordCaseResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	detectedAt, err := parseDetectedAt(req.DetectedAt)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid detected_at: %v", err)
	}

	result, err := h.recordCase.Execute(ctx, dto.RecordCaseRequest{
		CaseID:      req.CaseID,
		CompanyName: req.CompanyName,
		FlagIDs:     toInts(req.FlagIDs),
		Outcome:     req.Outcome,
		Lessons:     req.Lessons,
		DetectedAt:  detectedAt,
	})
	if err != nil {
		return nil, h.toStatus("record case", err)
	}
	return &RecordCaseResponse{Case: &result}, nil
}

// toStatus maps domain errors onto gRPC codes. Unexpected errors are logged
// and hidden behind a generic message.
func (h *RedFlagsHandler) toStatus(op string, err error) error {
	switch {
	case errors.Is(err, errs.ErrMalformedInput), errors.Is(err, errs.ErrUnknownFlag):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	}
	h.logger.Error("failed to "+op, slog.String("error", err.Error()))
	return status.Error(codes.Internal, "internal error")
}

func parseDetectedAt(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(time.DateOnly, s)
}

func toInts(ids []int32) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, len(ids))
	for i, id := range ids {
		out[i] = int(id)
	}
	return out
}
