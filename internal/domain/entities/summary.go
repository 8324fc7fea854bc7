package entities

// SummaryRecord is the structured result of summarizing a transcript
type SummaryRecord struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	KeyPoints    []string `json:"key_points"`
	ActionItems  []string `json:"action_items"`
	Summary      string   `json:"summary"`
}
