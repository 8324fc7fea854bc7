package repositories

import (
	"context"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// SessionRepository defines the interface for session data access.
// Every update is a single conditional statement so readers never observe a
// half-applied transition.
type SessionRepository interface {
	// Create inserts a new session
	Create(ctx context.Context, session *entities.Session) error

	// FindByID finds a session by ID
	FindByID(ctx context.Context, id string) (*entities.Session, error)

	// List returns sessions newest first, filtered by case when caseID is set
	List(ctx context.Context, caseID *string) ([]*entities.Session, error)

	// UpdateAudio records new audio metadata and moves a draft to uploaded
	UpdateAudio(ctx context.Context, id, audioPath string, fileSize int64, duration *float64) (*entities.Session, error)

	// UpdateTranscript replaces the transcript of an uploaded or summarized session
	UpdateTranscript(ctx context.Context, id, transcript string) (*entities.Session, error)

	// UpdateSummary stores the summary and marks the session summarized
	UpdateSummary(ctx context.Context, id string, summary *entities.SummaryRecord) (*entities.Session, error)

	// LinkCase points the session at an existing case inside one transaction
	LinkCase(ctx context.Context, id, caseID string) (*entities.Session, error)

	// UnlinkCase clears the case reference
	UnlinkCase(ctx context.Context, id string) (*entities.Session, error)
}
