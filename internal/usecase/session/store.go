package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/lock"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/storage"
	"github.com/johnquangdev/zyquraflow/pkg/audio"
)

// Operation names used as lock holders
const (
	opAttachAudio   = "attach_audio"
	opSetTranscript = "set_transcript"
	opLink          = "link"
	opUnlink        = "unlink"
)

const releaseTimeout = 5 * time.Second

// Store owns sessions and their lifecycle. Every mutation holds the session's
// exclusion; a second mutation while one is outstanding fails with ErrConflict.
type Store struct {
	sessions repositories.SessionRepository
	cases    CaseChecker
	audio    AudioStorage
	locker   lock.Locker
	logger   *zap.Logger
}

// NewStore creates a new session store
func NewStore(sessions repositories.SessionRepository, cases CaseChecker, audioStorage AudioStorage, locker lock.Locker, logger *zap.Logger) *Store {
	return &Store{
		sessions: sessions,
		cases:    cases,
		audio:    audioStorage,
		locker:   locker,
		logger:   logger,
	}
}

// acquire takes the per-session exclusion without waiting
func (s *Store) acquire(ctx context.Context, id, op string) (*lock.Lease, error) {
	lease, err := s.locker.TryAcquire(ctx, id, op)
	if err != nil {
		if errors.Is(err, lock.ErrHeld) {
			return nil, fmt.Errorf("%w: %w", entities.ErrConflict, err)
		}
		return nil, err
	}
	return lease, nil
}

// release frees the exclusion even when ctx has been cancelled
func (s *Store) release(ctx context.Context, lease *lock.Lease) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.locker.Release(rctx, lease); err != nil && s.logger != nil {
		s.logger.Error("failed to release session lock",
			zap.String("session_id", lease.Key),
			zap.String("operation", lease.Operation),
			zap.Error(err),
		)
	}
}

// Create allocates a draft session, optionally linked to an existing case
func (s *Store) Create(ctx context.Context, caseID *string) (*entities.Session, error) {
	if caseID != nil {
		trimmed := strings.TrimSpace(*caseID)
		if trimmed == "" {
			caseID = nil
		} else {
			ok, err := s.cases.Exists(ctx, trimmed)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("case %s: %w", trimmed, entities.ErrNotFound)
			}
			caseID = &trimmed
		}
	}

	sess := entities.NewSession(caseID)
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("session created", zap.String("session_id", sess.SessionID))
	}
	return sess, nil
}

// Get returns one session
func (s *Store) Get(ctx context.Context, id string) (*entities.Session, error) {
	return s.sessions.FindByID(ctx, id)
}

// List returns sessions newest first, filtered by case when caseID is set
func (s *Store) List(ctx context.Context, caseID *string) ([]*entities.Session, error) {
	return s.sessions.List(ctx, caseID)
}

// AttachAudio stores the upload and records its metadata. Draft sessions move to
// uploaded; re-uploading replaces the previous audio. The new file is written
// under its own key and the old one is removed only after the row points at
// the new one, so a failed update leaves the session and its audio as they were.
func (s *Store) AttachAudio(ctx context.Context, id string, upload AudioUpload) (*entities.Session, error) {
	if len(upload.Data) == 0 {
		return nil, fmt.Errorf("audio file is empty: %w", entities.ErrInvalidInput)
	}

	lease, err := s.acquire(ctx, id, opAttachAudio)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Status == entities.SessionStatusSummarized {
		return nil, fmt.Errorf("cannot replace audio of summarized session %s: %w", id, entities.ErrInvalidState)
	}

	meta := audio.Probe(upload.Data)
	key := storage.AudioKey(id, upload.Filename)
	if err := s.audio.Put(ctx, key, bytes.NewReader(upload.Data), meta.FileSize, audio.ContentType(upload.Filename)); err != nil {
		return nil, &entities.StorageError{Op: "put", Err: err}
	}

	updated, err := s.sessions.UpdateAudio(ctx, id, key, meta.FileSize, meta.Duration)
	if err != nil {
		s.removeAudio(ctx, id, key)
		return nil, err
	}
	if sess.AudioPath != "" && sess.AudioPath != key {
		s.removeAudio(ctx, id, sess.AudioPath)
	}

	if s.logger != nil {
		s.logger.Info("audio attached",
			zap.String("session_id", id),
			zap.String("audio_path", key),
			zap.Int64("file_size", meta.FileSize),
		)
	}
	return updated, nil
}

// removeAudio deletes an audio file no session row points at; failures are logged only
func (s *Store) removeAudio(ctx context.Context, id, key string) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()

	if err := s.audio.Delete(dctx, key); err != nil && s.logger != nil {
		s.logger.Warn("failed to remove unreferenced audio",
			zap.String("session_id", id),
			zap.String("audio_path", key),
			zap.Error(err),
		)
	}
}

// SetTranscript replaces the transcript; status does not change
func (s *Store) SetTranscript(ctx context.Context, id, text string) (*entities.Session, error) {
	lease, err := s.acquire(ctx, id, opSetTranscript)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	return s.setTranscriptLocked(ctx, id, text)
}

// Summarize stores a summary and marks the session summarized
func (s *Store) Summarize(ctx context.Context, id string, record *entities.SummaryRecord) (*entities.Session, error) {
	lease, err := s.acquire(ctx, id, entities.OperationSummarize)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, lease)

	sess, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasTranscript() {
		return nil, fmt.Errorf("session %s has no transcript to summarize: %w", id, entities.ErrInvalidState)
	}
	return s.applySummaryLocked(ctx, id, record)
}

// setTranscriptLocked expects the caller to hold the session's exclusion
func (s *Store) setTranscriptLocked(ctx context.Context, id, text string) (*entities.Session, error) {
	return s.sessions.UpdateTranscript(ctx, id, text)
}

// applySummaryLocked expects the caller to hold the session's exclusion
func (s *Store) applySummaryLocked(ctx context.Context, id string, record *entities.SummaryRecord) (*entities.Session, error) {
	return s.sessions.UpdateSummary(ctx, id, record)
}
