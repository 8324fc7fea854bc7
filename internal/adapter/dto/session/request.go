package session

// CreateSessionRequest represents the request to create a session
type CreateSessionRequest struct {
	CaseID *string `json:"case_id,omitempty"`
}

// ListSessionsRequest represents query parameters for listing sessions
type ListSessionsRequest struct {
	CaseID string `query:"case_id"`
}

// SetTranscriptRequest replaces the session transcript. An empty string is allowed.
type SetTranscriptRequest struct {
	Transcript *string `json:"transcript" validate:"required"`
}
