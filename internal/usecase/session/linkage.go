package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
)

// Linkage keeps each session attached to at most one case. It shares the
// per-session exclusion with the store and the pipeline.
type Linkage struct {
	store *Store
}

func NewLinkage(store *Store) *Linkage {
	return &Linkage{store: store}
}

// Link points the session at caseID, replacing any previous case
func (l *Linkage) Link(ctx context.Context, sessionID, caseID string) (*entities.Session, error) {
	caseID = strings.TrimSpace(caseID)
	if caseID == "" {
		return nil, fmt.Errorf("case id is required: %w", entities.ErrInvalidInput)
	}

	lease, err := l.store.acquire(ctx, sessionID, opLink)
	if err != nil {
		return nil, err
	}
	defer l.store.release(ctx, lease)

	sess, err := l.store.sessions.LinkCase(ctx, sessionID, caseID)
	if err != nil {
		return nil, err
	}

	if l.store.logger != nil {
		l.store.logger.Info("session linked", zap.String("session_id", sessionID), zap.String("case_id", caseID))
	}
	return sess, nil
}

// Unlink clears the session's case. Unlinking an unlinked session is a no-op.
func (l *Linkage) Unlink(ctx context.Context, sessionID string) (*entities.Session, error) {
	lease, err := l.store.acquire(ctx, sessionID, opUnlink)
	if err != nil {
		return nil, err
	}
	defer l.store.release(ctx, lease)

	return l.store.sessions.UnlinkCase(ctx, sessionID)
}
