package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	usecaseai "github.com/johnquangdev/zyquraflow/internal/usecase/ai"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestLifecycleSmithVsJones(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	c, err := h.cases.Create(ctx, "Smith vs. Jones")
	require.NoError(t, err)
	assert.Regexp(t, `^CASE-\d{4}-0001$`, c.CaseID)

	s, err := h.store.Create(ctx, &c.CaseID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusDraft, s.Status)

	s, err = h.store.AttachAudio(ctx, s.SessionID, AudioUpload{Filename: "hearing.wav", Data: wavBytes(16000, 32000)})
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusUploaded, s.Status)

	s, err = h.pipeline.Transcribe(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "machine transcript", *s.Transcript)
	assert.Equal(t, entities.SessionStatusUploaded, s.Status)

	s, err = h.store.SetTranscript(ctx, s.SessionID, "Smith: hello. Jones: hi.")
	require.NoError(t, err)

	h.summarizer.title = "Hearing"
	s, err = h.pipeline.Summarize(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusSummarized, s.Status)
	require.NotNil(t, s.Summary)
	assert.Equal(t, "Hearing", s.Summary.Title)
	assert.Equal(t, []string{"Smith: hello. Jones: hi."}, h.summarizer.inputs, "the edited transcript is summarized")

	stored, err := h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.NoError(t, stored.Validate())
	assert.Equal(t, []string{"Smith", "Jones"}, stored.Summary.Participants)

	detail, err := h.cases.Get(ctx, c.CaseID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, detail.SessionCount)
}

func TestTranscribeWithoutAudio(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	s, err := h.store.Create(ctx, nil)
	require.NoError(t, err)

	_, err = h.pipeline.Transcribe(ctx, s.SessionID)
	assert.ErrorIs(t, err, entities.ErrInvalidState)
	assert.Empty(t, h.stt.models, "speech-to-text is never called")

	_, err = h.pipeline.Transcribe(ctx, "SESSION-missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}

func TestSummarizeDraftRejected(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	s, err := h.store.Create(ctx, nil)
	require.NoError(t, err)

	_, err = h.pipeline.Summarize(ctx, s.SessionID)
	assert.ErrorIs(t, err, entities.ErrInvalidState)
	assert.Empty(t, h.summarizer.inputs)

	got, err := h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusDraft, got.Status)
	assert.Nil(t, got.Summary)
}

func TestSummarizeTwiceLastWins(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	s := h.uploaded(t)

	_, err := h.pipeline.Transcribe(ctx, s.SessionID)
	require.NoError(t, err)

	_, err = h.pipeline.Summarize(ctx, s.SessionID)
	require.NoError(t, err)

	h.summarizer.title = "second"
	s, err = h.pipeline.Summarize(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "second", s.Summary.Title)
	assert.Equal(t, entities.SessionStatusSummarized, s.Status)
}

func TestTranscribeFailureLeavesSessionUnchanged(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	s := h.uploaded(t)

	h.stt.set("", errors.New("whisper returned status 503"))
	_, err := h.pipeline.Transcribe(ctx, s.SessionID)
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrTranscriptionFailed)

	var perr *entities.ProcessingError
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Retryable)

	got, err := h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got.Transcript)
	assert.Equal(t, entities.SessionStatusUploaded, got.Status)

	// the lock was released, so a retry goes through
	h.stt.set("recovered", nil)
	got, err = h.pipeline.Transcribe(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "recovered", *got.Transcript)
}

func TestSummarizeFailureLeavesSessionUnchanged(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	s := h.uploaded(t)

	_, err := h.store.SetTranscript(ctx, s.SessionID, "text")
	require.NoError(t, err)

	h.summarizer.err = errors.New("ollama returned status 500")
	_, err = h.pipeline.Summarize(ctx, s.SessionID)
	assert.ErrorIs(t, err, entities.ErrSummarizationFailed)

	got, err := h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got.Summary)
	assert.Equal(t, entities.SessionStatusUploaded, got.Status)
}

func TestTranscribeTimeout(t *testing.T) {
	h := newHarness(t, PipelineOptions{TranscribeTimeout: 50 * time.Millisecond})
	ctx := context.Background()
	s := h.uploaded(t)
	h.stt.gate(s.SessionID)

	_, err := h.pipeline.Transcribe(ctx, s.SessionID)
	assert.ErrorIs(t, err, entities.ErrTranscriptionFailed)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	lease, err := h.pipeline.InFlight(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, lease)
}

func TestTranscribeCancelled(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	s := h.uploaded(t)
	gate := h.stt.gate(s.SessionID)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := h.pipeline.Transcribe(ctx, s.SessionID)
		done <- err
	}()
	waitStarted(t, h, s.SessionID)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("transcribe did not observe cancellation")
	}

	got, err := h.store.Get(context.Background(), s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got.Transcript)

	close(gate)
	_, err = h.pipeline.Transcribe(context.Background(), s.SessionID)
	assert.NoError(t, err, "the exclusion is released after cancellation")
}

func TestTranscribeMissingAudioFile(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	s := h.uploaded(t)
	require.NoError(t, h.audio.Delete(ctx, s.AudioPath))

	_, err := h.pipeline.Transcribe(ctx, s.SessionID)
	var serr *entities.StorageError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "get", serr.Op)
	assert.NotErrorIs(t, err, entities.ErrTranscriptionFailed)
}

func TestConcurrentMutationsConflict(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()

	c, err := h.cases.Create(ctx, "A")
	require.NoError(t, err)
	s := h.uploaded(t)
	gate := h.stt.gate(s.SessionID)

	done := make(chan error, 1)
	go func() {
		_, err := h.pipeline.Transcribe(ctx, s.SessionID)
		done <- err
	}()
	waitStarted(t, h, s.SessionID)

	_, err = h.pipeline.Transcribe(ctx, s.SessionID)
	assert.ErrorIs(t, err, entities.ErrConflict)
	_, err = h.pipeline.Summarize(ctx, s.SessionID)
	assert.ErrorIs(t, err, entities.ErrConflict)
	_, err = h.store.SetTranscript(ctx, s.SessionID, "manual")
	assert.ErrorIs(t, err, entities.ErrConflict)
	_, err = h.store.AttachAudio(ctx, s.SessionID, AudioUpload{Filename: "b.wav", Data: []byte("x")})
	assert.ErrorIs(t, err, entities.ErrConflict)
	_, err = h.linkage.Link(ctx, s.SessionID, c.CaseID)
	assert.ErrorIs(t, err, entities.ErrConflict)

	lease, err := h.pipeline.InFlight(ctx, s.SessionID)
	require.NoError(t, err)
	require.NotNil(t, lease)
	assert.Equal(t, entities.OperationTranscribe, lease.Operation)

	// reads are never blocked
	got, err := h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Nil(t, got.Transcript)

	close(gate)
	require.NoError(t, <-done)

	got, err = h.store.Get(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "machine transcript", *got.Transcript)
	assert.Len(t, h.stt.models, 1)
}

func TestDistinctSessionsRunInParallel(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	a := h.uploaded(t)
	b := h.uploaded(t)
	gateA := h.stt.gate(a.SessionID)
	gateB := h.stt.gate(b.SessionID)

	done := make(chan error, 2)
	for _, id := range []string{a.SessionID, b.SessionID} {
		go func(id string) {
			_, err := h.pipeline.Transcribe(ctx, id)
			done <- err
		}(id)
	}

	started := map[string]bool{}
	for len(started) < 2 {
		select {
		case id := <-h.stt.started:
			started[id] = true
		case <-time.After(5 * time.Second):
			t.Fatal("both transcriptions should be in flight at once")
		}
	}

	close(gateA)
	close(gateB)
	require.NoError(t, <-done)
	require.NoError(t, <-done)
}

func TestConfigReadAtInvocation(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	s := h.uploaded(t)

	_, err := h.pipeline.Transcribe(ctx, s.SessionID)
	require.NoError(t, err)

	_, err = h.config.Update(ctx, entities.ConfigPatch{WhisperModel: strPtr("small")})
	require.NoError(t, err)
	_, err = h.pipeline.Transcribe(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "small"}, h.stt.models)

	_, err = h.config.Update(ctx, entities.ConfigPatch{Provider: strPtr("groq"), Model: strPtr("llama-3.1-8b-instant")})
	require.NoError(t, err)
	_, err = h.pipeline.Summarize(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"groq/llama-3.1-8b-instant"}, h.summarizer.models)
}

func TestDebugCallRecords(t *testing.T) {
	h := newHarness(t, PipelineOptions{})
	ctx := context.Background()
	s := h.uploaded(t)

	// nothing is recorded while debug is off
	_, err := h.pipeline.Transcribe(ctx, s.SessionID)
	require.NoError(t, err)
	calls, err := h.pipeline.Calls(ctx, s.SessionID)
	require.NoError(t, err)
	assert.Empty(t, calls)

	_, err = h.config.Update(ctx, entities.ConfigPatch{Debug: boolPtr(true)})
	require.NoError(t, err)

	_, err = h.pipeline.Transcribe(ctx, s.SessionID)
	require.NoError(t, err)
	h.summarizer.err = errors.New("ollama returned status 500")
	_, err = h.pipeline.Summarize(ctx, s.SessionID)
	require.Error(t, err)
	h.summarizer.err = nil
	_, err = h.pipeline.Summarize(ctx, s.SessionID)
	require.NoError(t, err)

	calls, err = h.pipeline.Calls(ctx, s.SessionID)
	require.NoError(t, err)
	require.Len(t, calls, 3)

	assert.Equal(t, entities.OperationTranscribe, calls[0].Operation)
	assert.Equal(t, "stt.whisper", calls[0].PromptID)
	assert.Equal(t, "whisper", calls[0].Provider)
	assert.Equal(t, "base", calls[0].Model)
	assert.Empty(t, calls[0].Error)

	assert.Equal(t, entities.OperationSummarize, calls[1].Operation)
	assert.Equal(t, usecaseai.PromptSummary, calls[1].PromptID)
	assert.Equal(t, "ollama", calls[1].Provider)
	assert.Equal(t, "llama3.2", calls[1].Model)
	assert.Contains(t, calls[1].Error, "status 500")

	assert.Empty(t, calls[2].Error)
	assert.EqualValues(t, 0.2, calls[2].Parameters["temperature"])

	_, err = h.pipeline.Calls(ctx, "SESSION-missing")
	assert.ErrorIs(t, err, entities.ErrNotFound)
}
