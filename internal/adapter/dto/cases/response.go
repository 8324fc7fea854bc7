package cases

import (
	"time"

	"github.com/johnquangdev/zyquraflow/internal/adapter/dto/session"
)

// CaseResponse represents a case in API responses
type CaseResponse struct {
	CaseID       string    `json:"case_id"`
	Alias        string    `json:"alias"`
	CreatedAt    time.Time `json:"created_at"`
	SessionCount int64     `json:"session_count"`
}

// CaseDetailResponse is a case together with its linked sessions
type CaseDetailResponse struct {
	CaseResponse
	Sessions []*session.SessionResponse `json:"sessions"`
}
