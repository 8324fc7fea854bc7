package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionStatus is the lifecycle state of a recorded session
type SessionStatus string

const (
	SessionStatusDraft      SessionStatus = "draft"
	SessionStatusUploaded   SessionStatus = "uploaded"
	SessionStatusSummarized SessionStatus = "summarized"
)

// Session is one recorded interaction moving through audio attachment,
// transcription and summarization.
type Session struct {
	SessionID  string         `json:"session_id" gorm:"column:session_id;primaryKey"`
	CaseID     *string        `json:"case_id" gorm:"column:case_id;index"`
	CreatedAt  time.Time      `json:"created_at" gorm:"column:created_at"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"column:updated_at"`
	AudioPath  string         `json:"audio_path" gorm:"column:audio_path"`
	FileSize   int64          `json:"file_size" gorm:"column:file_size"`
	Duration   *float64       `json:"duration" gorm:"column:duration"`
	Status     SessionStatus  `json:"status" gorm:"column:status"`
	Transcript *string        `json:"transcript" gorm:"column:transcript"`
	Summary    *SummaryRecord `json:"summary" gorm:"column:summary;serializer:json"`
}

func (Session) TableName() string { return "sessions" }

// NewSessionID returns a SESSION-<hex> identifier
func NewSessionID() string {
	return "SESSION-" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewSession creates a draft session, optionally linked to a case
func NewSession(caseID *string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID: NewSessionID(),
		CaseID:    caseID,
		CreatedAt: now,
		UpdatedAt: now,
		Status:    SessionStatusDraft,
	}
}

// HasTranscript reports whether a non-blank transcript is present
func (s *Session) HasTranscript() bool {
	return s.Transcript != nil && strings.TrimSpace(*s.Transcript) != ""
}

// HasAudio reports whether audio has been attached
func (s *Session) HasAudio() bool {
	return s.AudioPath != ""
}

// Validate checks the lifecycle invariants of the row
func (s *Session) Validate() error {
	switch s.Status {
	case SessionStatusDraft:
		if s.HasAudio() || s.Transcript != nil || s.Summary != nil {
			return fmt.Errorf("draft session %s carries audio, transcript or summary: %w", s.SessionID, ErrInvalidState)
		}
	case SessionStatusUploaded:
		if !s.HasAudio() {
			return fmt.Errorf("uploaded session %s has no audio: %w", s.SessionID, ErrInvalidState)
		}
	case SessionStatusSummarized:
		if !s.HasAudio() || s.Transcript == nil || s.Summary == nil {
			return fmt.Errorf("summarized session %s is incomplete: %w", s.SessionID, ErrInvalidState)
		}
	default:
		return fmt.Errorf("unknown status %q: %w", s.Status, ErrInvalidState)
	}
	return nil
}
