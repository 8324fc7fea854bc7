package session

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/lock"
	usecaseai "github.com/johnquangdev/zyquraflow/internal/usecase/ai"
	"github.com/johnquangdev/zyquraflow/pkg/jobcontext"
)

// PipelineOptions bounds each collaborator call. Zero means no timeout.
type PipelineOptions struct {
	TranscribeTimeout time.Duration
	SummarizeTimeout  time.Duration
}

// Pipeline runs transcription and summarization against a session.
// Collaborator failures leave the session untouched and are safe to retry.
type Pipeline struct {
	store      *Store
	stt        SpeechToText
	summarizer Summarizer
	config     ConfigSource
	calls      repositories.CallRecordRepository
	opts       PipelineOptions
	logger     *zap.Logger
}

// NewPipeline creates a new session pipeline
func NewPipeline(
	store *Store,
	stt SpeechToText,
	summarizer Summarizer,
	config ConfigSource,
	calls repositories.CallRecordRepository,
	opts PipelineOptions,
	logger *zap.Logger,
) *Pipeline {
	return &Pipeline{
		store:      store,
		stt:        stt,
		summarizer: summarizer,
		config:     config,
		calls:      calls,
		opts:       opts,
		logger:     logger,
	}
}

// Transcribe runs speech-to-text on the session's audio and stores the text
func (p *Pipeline) Transcribe(ctx context.Context, id string) (*entities.Session, error) {
	lease, err := p.store.acquire(ctx, id, entities.OperationTranscribe)
	if err != nil {
		return nil, err
	}
	defer p.store.release(ctx, lease)

	sess, err := p.store.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasAudio() {
		return nil, fmt.Errorf("session %s has no audio: %w", id, entities.ErrInvalidState)
	}

	cfg := p.config.Get()

	data, err := p.store.audio.Get(ctx, sess.AudioPath)
	if err != nil {
		return nil, &entities.StorageError{Op: "get", Err: err}
	}

	jobCtx, cancel := jobcontext.JobBegin(ctx, uuid.NewString(), id, entities.OperationTranscribe, p.opts.TranscribeTimeout)
	defer cancel()

	if p.logger != nil {
		p.logger.Info("🎙️ Starting transcription",
			zap.String("session_id", id),
			zap.String("backend", p.stt.Name()),
			zap.String("whisper_model", cfg.WhisperModel),
		)
	}

	var text string
	start := time.Now()
	callErr := jobcontext.JobEnd(jobCtx, func(c context.Context) error {
		var err error
		text, err = p.stt.Transcribe(c, data, path.Base(sess.AudioPath), cfg.WhisperModel)
		return err
	})

	if cfg.Debug {
		p.record(ctx, &entities.CallRecord{
			SessionID:  id,
			Operation:  entities.OperationTranscribe,
			PromptID:   sttPromptID(p.stt),
			Provider:   p.stt.Name(),
			Model:      cfg.WhisperModel,
			Parameters: map[string]interface{}{"bytes": len(data), "filename": path.Base(sess.AudioPath)},
			DurationMS: time.Since(start).Milliseconds(),
			Error:      errString(callErr),
		})
	}

	if callErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("transcribe %s aborted: %w", id, err)
		}
		if p.logger != nil {
			p.logger.Error("❌ Transcription failed", zap.String("session_id", id), zap.Error(callErr))
		}
		return nil, entities.NewTranscriptionError(callErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("transcribe %s aborted: %w", id, err)
	}

	updated, err := p.store.setTranscriptLocked(ctx, id, text)
	if err != nil {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Info("✅ Transcription stored",
			zap.String("session_id", id),
			zap.Int("chars", len(text)),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return updated, nil
}

// Summarize asks the configured language model for a summary of the transcript
func (p *Pipeline) Summarize(ctx context.Context, id string) (*entities.Session, error) {
	lease, err := p.store.acquire(ctx, id, entities.OperationSummarize)
	if err != nil {
		return nil, err
	}
	defer p.store.release(ctx, lease)

	sess, err := p.store.sessions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.HasTranscript() {
		return nil, fmt.Errorf("session %s has no transcript to summarize: %w", id, entities.ErrInvalidState)
	}

	cfg := p.config.Get()

	jobCtx, cancel := jobcontext.JobBegin(ctx, uuid.NewString(), id, entities.OperationSummarize, p.opts.SummarizeTimeout)
	defer cancel()

	if p.logger != nil {
		p.logger.Info("📝 Starting summarization",
			zap.String("session_id", id),
			zap.String("provider", cfg.Provider),
			zap.String("model", cfg.Model),
		)
	}

	var result *usecaseai.SummaryResult
	start := time.Now()
	callErr := jobcontext.JobEnd(jobCtx, func(c context.Context) error {
		var err error
		result, err = p.summarizer.Summarize(c, *sess.Transcript, cfg.Provider, cfg.Model)
		return err
	})

	if cfg.Debug && result != nil {
		for _, call := range result.Calls {
			p.record(ctx, &entities.CallRecord{
				SessionID:  id,
				Operation:  entities.OperationSummarize,
				PromptID:   call.PromptID,
				Provider:   call.Provider,
				Model:      call.Model,
				Parameters: call.Parameters,
				DurationMS: call.Duration.Milliseconds(),
				Error:      errString(call.Err),
			})
		}
	}

	if callErr == nil && (result == nil || result.Record == nil) {
		callErr = fmt.Errorf("summarizer returned no summary")
	}
	if callErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("summarize %s aborted: %w", id, err)
		}
		if p.logger != nil {
			p.logger.Error("❌ Summarization failed", zap.String("session_id", id), zap.Error(callErr))
		}
		return nil, entities.NewSummarizationError(callErr)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("summarize %s aborted: %w", id, err)
	}

	updated, err := p.store.applySummaryLocked(ctx, id, result.Record)
	if err != nil {
		return nil, err
	}

	if p.logger != nil {
		p.logger.Info("✅ Summary stored",
			zap.String("session_id", id),
			zap.Duration("duration", time.Since(start)),
		)
	}
	return updated, nil
}

// InFlight returns the lease of the operation currently holding the session, or nil
func (p *Pipeline) InFlight(ctx context.Context, id string) (*lock.Lease, error) {
	if _, err := p.store.sessions.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return p.store.locker.Holder(ctx, id)
}

// Calls lists debug call records of a session in the order they were made
func (p *Pipeline) Calls(ctx context.Context, id string) ([]*entities.CallRecord, error) {
	if _, err := p.store.sessions.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return p.calls.ListBySession(ctx, id)
}

// record persists a debug call record; failures are logged only
func (p *Pipeline) record(ctx context.Context, rec *entities.CallRecord) {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()

	if p.logger != nil {
		p.logger.Info("LLM call",
			zap.String("session_id", rec.SessionID),
			zap.String("operation", rec.Operation),
			zap.String("prompt_id", rec.PromptID),
			zap.String("provider", rec.Provider),
			zap.String("model", rec.Model),
			zap.Any("parameters", rec.Parameters),
			zap.Int64("duration_ms", rec.DurationMS),
		)
	}
	if p.calls == nil {
		return
	}

	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), releaseTimeout)
	defer cancel()
	if err := p.calls.Create(rctx, rec); err != nil && p.logger != nil {
		p.logger.Warn("failed to persist call record", zap.String("session_id", rec.SessionID), zap.Error(err))
	}
}

// sttPromptID names speech-to-text calls in debug records, e.g. stt.whisper
func sttPromptID(stt SpeechToText) string {
	return "stt." + stt.Name()
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
