package model

// NarrativeJudgment is one qualitative verdict reported by the
// document-understanding collaborator.
type NarrativeJudgment struct {
	Evidence       string  `json:"evidence"`
	PageReferences []int   `json:"page_references,omitempty"`
	Confidence     float64 `json:"confidence"`
	FlagID         int     `json:"flag_id"`
	IsTriggered    bool    `json:"is_triggered"`
}
