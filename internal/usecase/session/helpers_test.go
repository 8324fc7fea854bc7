package session

import (
	"bytes"
	"context"
	"encoding/binary"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/zyquraflow/internal/adapter/repository"
	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	"github.com/johnquangdev/zyquraflow/internal/domain/repositories"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/database/dbtest"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/lock"
	"github.com/johnquangdev/zyquraflow/internal/infrastructure/storage"
	usecaseai "github.com/johnquangdev/zyquraflow/internal/usecase/ai"
	"github.com/johnquangdev/zyquraflow/internal/usecase/cases"
	"github.com/johnquangdev/zyquraflow/internal/usecase/system"
	"github.com/johnquangdev/zyquraflow/pkg/jobcontext"
)

// fakeSTT returns a fixed transcript. Calls for a session with a gate block
// until the gate is closed or the context ends.
type fakeSTT struct {
	mu      sync.Mutex
	text    string
	err     error
	models  []string
	gates   map[string]chan struct{}
	started chan string
}

func (f *fakeSTT) Name() string { return "whisper" }

func (f *fakeSTT) Transcribe(ctx context.Context, _ []byte, _ string, model string) (string, error) {
	sessionID, _ := jobcontext.GetSessionID(ctx)

	f.mu.Lock()
	f.models = append(f.models, model)
	gate := f.gates[sessionID]
	text, err := f.text, f.err
	f.mu.Unlock()

	if f.started != nil {
		f.started <- sessionID
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return text, err
}

func (f *fakeSTT) set(text string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text, f.err = text, err
}

func (f *fakeSTT) gate(sessionID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gates == nil {
		f.gates = map[string]chan struct{}{}
	}
	ch := make(chan struct{})
	f.gates[sessionID] = ch
	return ch
}

// fakeSummarizer returns a summary titled after the configured title
type fakeSummarizer struct {
	mu     sync.Mutex
	title  string
	err    error
	inputs []string
	models []string
}

func (f *fakeSummarizer) Summarize(ctx context.Context, text, provider, model string) (*usecaseai.SummaryResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, text)
	f.models = append(f.models, provider+"/"+model)

	res := &usecaseai.SummaryResult{
		Calls: []usecaseai.LLMCall{{
			PromptID:   usecaseai.PromptSummary,
			Provider:   provider,
			Model:      model,
			Parameters: map[string]interface{}{"temperature": 0.2},
			Duration:   3 * time.Millisecond,
			Err:        f.err,
		}},
	}
	if f.err != nil {
		return res, f.err
	}
	res.Record = &entities.SummaryRecord{
		Title:        f.title,
		Participants: []string{"Smith", "Jones"},
		KeyPoints:    []string{"point"},
		ActionItems:  []string{},
		Summary:      "summary of " + text,
	}
	return res, nil
}

type harness struct {
	sessions   repositories.SessionRepository
	audio      *storage.LocalStore
	audioRoot  string
	store      *Store
	linkage    *Linkage
	pipeline   *Pipeline
	cases      *cases.Service
	config     *system.ConfigStore
	calls      repositories.CallRecordRepository
	stt        *fakeSTT
	summarizer *fakeSummarizer
}

func newHarness(t *testing.T, opts PipelineOptions) *harness {
	t.Helper()
	ctx := context.Background()
	db := dbtest.New(t)

	sessionRepo := repository.NewSessionRepository(db)
	caseSvc := cases.NewService(repository.NewCaseRepository(db), sessionRepo, nil)

	audioRoot := t.TempDir()
	audioStore, err := storage.NewLocalStore(audioRoot)
	require.NoError(t, err)

	cfg, err := system.NewConfigStore(ctx, system.DefaultCatalog(), repository.NewConfigRepository(db), nil)
	require.NoError(t, err)

	h := &harness{
		sessions:   sessionRepo,
		audio:      audioStore,
		audioRoot:  audioRoot,
		cases:      caseSvc,
		config:     cfg,
		calls:      repository.NewCallRecordRepository(db),
		stt:        &fakeSTT{text: "machine transcript", started: make(chan string, 16)},
		summarizer: &fakeSummarizer{title: "first"},
	}
	h.store = NewStore(sessionRepo, caseSvc, audioStore, lock.NewMemoryLocker(), nil)
	h.linkage = NewLinkage(h.store)
	h.pipeline = NewPipeline(h.store, h.stt, h.summarizer, cfg, h.calls, opts, nil)
	return h
}

// uploaded returns a session that already has audio attached
func (h *harness) uploaded(t *testing.T) *entities.Session {
	t.Helper()
	s, err := h.store.Create(context.Background(), nil)
	require.NoError(t, err)
	s, err = h.store.AttachAudio(context.Background(), s.SessionID, AudioUpload{Filename: "rec.wav", Data: wavBytes(8000, 8000)})
	require.NoError(t, err)
	return s
}

func wavBytes(sampleRate uint32, samples int) []byte {
	var buf bytes.Buffer
	dataSize := uint32(samples * 2)
	buf.WriteString("RIFF")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(36)+dataSize)
	buf.WriteString("WAVEfmt ")
	_ = binary.Write(&buf, binary.LittleEndian, uint32(16))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(1))
	_ = binary.Write(&buf, binary.LittleEndian, sampleRate)
	_ = binary.Write(&buf, binary.LittleEndian, sampleRate*2)
	_ = binary.Write(&buf, binary.LittleEndian, uint16(2))
	_ = binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	_ = binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, dataSize))
	return buf.Bytes()
}

func waitStarted(t *testing.T, h *harness, sessionID string) {
	t.Helper()
	select {
	case id := <-h.stt.started:
		require.Equal(t, sessionID, id)
	case <-time.After(5 * time.Second):
		t.Fatal("transcription never started")
	}
}
