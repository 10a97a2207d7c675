package service

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"

	"github.com/akashent3/redflags-sub002/internal/domain/catalog"
	"github.com/akashent3/redflags-sub002/internal/domain/errs"
	"github.com/akashent3/redflags-sub002/internal/domain/model"
	"github.com/akashent3/redflags-sub002/internal/domain/valueobject"
)

// NarrativeFlagAdapter normalises judgments from the document-understanding
// collaborator into NARRATIVE flag results. It never fabricates results for
// flags the collaborator did not mention.
type NarrativeFlagAdapter struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewNarrativeFlagAdapter creates a NarrativeFlagAdapter.
func NewNarrativeFlagAdapter(cat *catalog.Catalog, logger *slog.Logger) *NarrativeFlagAdapter {
	return &NarrativeFlagAdapter{catalog: cat, logger: logger}
}

// ParseJudgments decodes a raw collaborator payload. Decode failures wrap
// errs.ErrMalformedInput.
func ParseJudgments(data []byte) ([]model.NarrativeJudgment, error) {
	var judgments []model.NarrativeJudgment
	if err := json.Unmarshal(data, &judgments); err != nil {
		return nil, fmt.Errorf("%w: failed to decode narrative judgments: %v", errs.ErrMalformedInput, err)
	}
	return judgments, nil
}

// Unavailable builds the output for a collaborator call that failed or timed out.
func (a *NarrativeFlagAdapter) Unavailable(cause error) model.SourceOutput {
	a.logger.Warn("narrative source unavailable", "error", cause)
	return model.UnavailableOutput(valueobject.SourceNarrative, valueobject.SourceUnavailable, cause.Error())
}

// FromPayload decodes and adapts a raw payload. A payload that cannot be
// decoded yields an empty MALFORMED output.
func (a *NarrativeFlagAdapter) FromPayload(data []byte) model.SourceOutput {
	judgments, err := ParseJudgments(data)
	if err != nil {
		a.logger.Warn("malformed narrative payload", "error", err)
		return model.UnavailableOutput(valueobject.SourceNarrative, valueobject.SourceMalformed, err.Error())
	}
	return a.Adapt(judgments)
}

// Adapt validates judgments and converts them to flag results. Unknown ids,
// judgments on STRUCTURED flags, repeated ids and NaN confidences are dropped
// with a warning; confidence is clamped to [0,100].
func (a *NarrativeFlagAdapter) Adapt(judgments []model.NarrativeJudgment) model.SourceOutput {
	results := make([]model.FlagResult, 0, len(judgments))
	seen := make(map[int]struct{}, len(judgments))

	for _, j := range judgments {
		def, err := a.catalog.Lookup(j.FlagID)
		if err != nil {
			a.logger.Warn("dropping narrative judgment", "flag_id", j.FlagID, "error", err)
			continue
		}
		if !def.Source.Equal(valueobject.SourceNarrative) {
			a.logger.Warn("dropping narrative judgment for non-narrative flag",
				"flag_id", j.FlagID, "source", def.Source.String())
			continue
		}
		if _, dup := seen[j.FlagID]; dup {
			a.logger.Warn("dropping repeated narrative judgment", "flag_id", j.FlagID)
			continue
		}
		if math.IsNaN(j.Confidence) {
			a.logger.Warn("dropping narrative judgment with NaN confidence", "flag_id", j.FlagID)
			continue
		}
		seen[j.FlagID] = struct{}{}

		results = append(results, model.FlagResult{
			FlagID:         j.FlagID,
			Source:         valueobject.SourceNarrative,
			Evaluated:      true,
			Triggered:      j.IsTriggered,
			Confidence:     model.ClampConfidence(j.Confidence),
			Evidence:       j.Evidence,
			PageReferences: j.PageReferences,
		})
	}

	return model.SourceOutput{
		State:   model.SourceState{Source: valueobject.SourceNarrative, Status: valueobject.SourceAvailable},
		Results: results,
	}
}
