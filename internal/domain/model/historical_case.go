package model

import (
	"fmt"
	"slices"
	"time"
)

// HistoricalCase is a past fraud case in the append-only reference corpus.
// FlagIDs is the triggered-flag set snapshotted when the case was recorded,
// sorted and free of duplicates.
type HistoricalCase struct {
	DetectedAt  time.Time `json:"detected_at"`
	CreatedAt   time.Time `json:"created_at"`
	CaseID      string    `json:"case_id"`
	CompanyName string    `json:"company_name"`
	Outcome     string    `json:"outcome"`
	Lessons     string    `json:"lessons"`
	FlagIDs     []int     `json:"flag_ids"`
}

// NewHistoricalCase validates and normalises a case for the corpus.
func NewHistoricalCase(
	caseID string,
	companyName string,
	flagIDs []int,
	outcome string,
	lessons string,
	detectedAt time.Time,
) (HistoricalCase, error) {
	if caseID == "" {
		return HistoricalCase{}, fmt.Errorf("case ID is required")
	}
	if len(flagIDs) == 0 {
		return HistoricalCase{}, fmt.Errorf("case %s must record at least one triggered flag", caseID)
	}
	for _, id := range flagIDs {
		if id <= 0 {
			return HistoricalCase{}, fmt.Errorf("case %s has invalid flag id %d", caseID, id)
		}
	}
	if detectedAt.IsZero() {
		return HistoricalCase{}, fmt.Errorf("case %s detection date is required", caseID)
	}

	return HistoricalCase{
		CaseID:      caseID,
		CompanyName: companyName,
		FlagIDs:     NormalizeFlagSet(flagIDs),
		Outcome:     outcome,
		Lessons:     lessons,
		DetectedAt:  detectedAt.UTC(),
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// NormalizeFlagSet returns a sorted copy of ids with duplicates removed.
func NormalizeFlagSet(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
