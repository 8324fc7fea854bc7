package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
)

// sessionRepository implements the SessionRepository interface using GORM
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a new session repository
func NewSessionRepository(db *gorm.DB) repositories.SessionRepository {
	return &sessionRepository{db: db}
}

// Create creates a new session
func (r *sessionRepository) Create(ctx context.Context, session *entities.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID finds a session by ID
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*entities.Session, error) {
	return findSession(r.db.WithContext(ctx), id)
}

func findSession(db *gorm.DB, id string) (*entities.Session, error) {
	var session entities.Session
	if err := db.Where("session_id = ?", id).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, entities.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find session by ID: %w", err)
	}
	return &session, nil
}

// List returns sessions newest first
func (r *sessionRepository) List(ctx context.Context, caseID *string) ([]*entities.Session, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC").Order("session_id DESC")
	if caseID != nil {
		q = q.Where("case_id = ?", *caseID)
	}

	sessions := make([]*entities.Session, 0)
	if err := q.Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	return sessions, nil
}

// UpdateAudio replaces audio metadata; only draft and uploaded sessions accept audio
func (r *sessionRepository) UpdateAudio(ctx context.Context, id, audioPath string, fileSize int64, duration *float64) (*entities.Session, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("session_id = ? AND status IN ?", id, []entities.SessionStatus{entities.SessionStatusDraft, entities.SessionStatusUploaded}).
		Updates(map[string]interface{}{
			"audio_path": audioPath,
			"file_size":  fileSize,
			"duration":   duration,
			"status":     entities.SessionStatusUploaded,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update audio: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, r.rejected(ctx, id, "attach audio")
	}
	return r.FindByID(ctx, id)
}

// UpdateTranscript overwrites the transcript; draft sessions are rejected
func (r *sessionRepository) UpdateTranscript(ctx context.Context, id, transcript string) (*entities.Session, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("session_id = ? AND status IN ?", id, []entities.SessionStatus{entities.SessionStatusUploaded, entities.SessionStatusSummarized}).
		Updates(map[string]interface{}{
			"transcript": transcript,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update transcript: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, r.rejected(ctx, id, "set transcript")
	}
	return r.FindByID(ctx, id)
}

// UpdateSummary writes summary and status in one statement guarded by the transcript precondition
func (r *sessionRepository) UpdateSummary(ctx context.Context, id string, summary *entities.SummaryRecord) (*entities.Session, error) {
	if summary == nil {
		return nil, fmt.Errorf("summary is required: %w", entities.ErrInvalidInput)
	}
	payload, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode summary: %w", err)
	}

	res := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("session_id = ? AND audio_path <> '' AND transcript IS NOT NULL AND TRIM(transcript) <> ''", id).
		Updates(map[string]interface{}{
			"summary":    string(payload),
			"status":     entities.SessionStatusSummarized,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update summary: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, r.rejected(ctx, id, "summarize")
	}
	return r.FindByID(ctx, id)
}

// LinkCase verifies both rows and updates the reference in one transaction
func (r *sessionRepository) LinkCase(ctx context.Context, id, caseID string) (*entities.Session, error) {
	var linked *entities.Session
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findSession(tx, id); err != nil {
			return err
		}

		var n int64
		if err := tx.Model(&entities.Case{}).Where("case_id = ?", caseID).Count(&n).Error; err != nil {
			return fmt.Errorf("failed to check case: %w", err)
		}
		if n == 0 {
			return fmt.Errorf("case %s: %w", caseID, entities.ErrNotFound)
		}

		if err := tx.Model(&entities.Session{}).
			Where("session_id = ?", id).
			Updates(map[string]interface{}{
				"case_id":    caseID,
				"updated_at": time.Now().UTC(),
			}).Error; err != nil {
			return fmt.Errorf("failed to link session: %w", err)
		}

		s, err := findSession(tx, id)
		linked = s
		return err
	})
	if err != nil {
		return nil, err
	}
	return linked, nil
}

// UnlinkCase clears case_id; an already unlinked session is returned unchanged
func (r *sessionRepository) UnlinkCase(ctx context.Context, id string) (*entities.Session, error) {
	res := r.db.WithContext(ctx).
		Model(&entities.Session{}).
		Where("session_id = ? AND case_id IS NOT NULL", id).
		Updates(map[string]interface{}{
			"case_id":    nil,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to unlink session: %w", res.Error)
	}
	return r.FindByID(ctx, id)
}

// rejected explains why a conditional update touched no row
func (r *sessionRepository) rejected(ctx context.Context, id, op string) error {
	s, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if op == "summarize" && !s.HasTranscript() {
		return fmt.Errorf("cannot summarize session %s without a transcript: %w", id, entities.ErrInvalidState)
	}
	return fmt.Errorf("cannot %s session %s in status %s: %w", op, id, s.Status, entities.ErrInvalidState)
}
