package session

import "time"

// SummaryResponse is the structured summary of a session
type SummaryResponse struct {
	Title        string   `json:"title"`
	Participants []string `json:"participants"`
	KeyPoints    []string `json:"key_points"`
	ActionItems  []string `json:"action_items"`
	Summary      string   `json:"summary"`
}

// SessionResponse represents a session in API responses
type SessionResponse struct {
	SessionID  string           `json:"session_id"`
	CaseID     *string          `json:"case_id"`
	CreatedAt  time.Time        `json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	AudioPath  string           `json:"audio_path"`
	FileSize   int64            `json:"file_size"`
	Duration   *float64         `json:"duration"`
	Status     string           `json:"status"`
	Transcript *string          `json:"transcript"`
	Summary    *SummaryResponse `json:"summary"`
}

// OperationResponse reports the mutation currently holding a session
type OperationResponse struct {
	SessionID  string     `json:"session_id"`
	Busy       bool       `json:"busy"`
	Operation  string     `json:"operation,omitempty"`
	AcquiredAt *time.Time `json:"acquired_at,omitempty"`
}

// CallRecordResponse is one recorded collaborator call
type CallRecordResponse struct {
	ID         string                 `json:"id"`
	Operation  string                 `json:"operation"`
	PromptID   string                 `json:"prompt_id,omitempty"`
	Provider   string                 `json:"provider"`
	Model      string                 `json:"model"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
	DurationMS int64                  `json:"duration_ms"`
	Error      string                 `json:"error,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
