package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/johnquangdev/zyquraflow/pkg/config"
	"github.com/johnquangdev/zyquraflow/pkg/jobcontext"
)

func testConfig(url string) *config.AIConfig {
	return &config.AIConfig{
		WhisperURL:      url,
		OllamaURL:       url,
		GroqURL:         url,
		GroqAPIKey:      "gsk_test",
		HTTPTimeout:     5 * time.Second,
		RetryMaxElapsed: 2 * time.Second,
	}
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/generate", r.URL.Path)
		var req ollamaGenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.2", req.Model)
		assert.False(t, req.Stream)
		assert.Equal(t, "hello", req.Prompt)
		_ = json.NewEncoder(w).Encode(map[string]string{"response": `{"title":"x"}`})
	}))
	defer srv.Close()

	resp, err := NewOllamaClient(testConfig(srv.URL), nil).Complete(context.Background(), "hello", "llama3.2", "summary.v0.1")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"x"}`, resp.Text)
	assert.Equal(t, "llama3.2", resp.Model)
	assert.Equal(t, "summary.v0.1", resp.PromptID)
	assert.Contains(t, resp.Parameters, "temperature")
}

func TestOllamaRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer srv.Close()

	resp, err := NewOllamaClient(testConfig(srv.URL), nil).Complete(context.Background(), "p", "mistral", "summary.v0.1")
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestOllamaDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaClient(testConfig(srv.URL), nil).Complete(context.Background(), "p", "missing", "summary.v0.1")
	require.Error(t, err)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestOllamaMockFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MockFallback = true
	client := NewOllamaClient(cfg, nil)

	resp, err := client.Complete(context.Background(), "p", "llama3.2", "summary.v0.1")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Mock Summary")

	resp, err = client.Complete(context.Background(), "p", "llama3.2", "fix_json.v0.1")
	require.NoError(t, err)
	assert.Contains(t, resp.Text, "Corrected Summary")
}

func TestOllamaFallbackLogsJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	core, logs := observer.New(zap.DebugLevel)
	cfg := testConfig(srv.URL)
	cfg.MockFallback = true
	client := NewOllamaClient(cfg, zap.New(core))

	ctx, cancel := jobcontext.JobBegin(context.Background(), "job-1", "SESSION-a", "summarize", time.Minute)
	defer cancel()
	_, err := client.Complete(ctx, "p", "llama3.2", "summary.v0.1")
	require.NoError(t, err)

	entries := logs.FilterMessage("ollama unavailable, returning mock response").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "job-1", fields["job_id"])
	assert.Equal(t, "SESSION-a", fields["session_id"])
	assert.Equal(t, "summarize", fields["operation"])
	assert.Equal(t, "summary.v0.1", fields["prompt_id"])
	assert.Equal(t, time.Minute, fields["timeout"])

	_, err = client.Complete(context.Background(), "p", "llama3.2", "summary.v0.1")
	require.NoError(t, err)
	entries = logs.FilterMessage("ollama unavailable, returning mock response").All()
	require.Len(t, entries, 2)
	assert.NotContains(t, entries[1].ContextMap(), "job_id")
}

func TestOllamaAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	client := NewOllamaClient(testConfig(srv.URL), nil)
	assert.True(t, client.Available(context.Background()))

	srv.Close()
	assert.False(t, client.Available(context.Background()))
}

func TestGroqComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/openai/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.1-8b-instant", req.Model)
		require.Len(t, req.Messages, 1)
		assert.Equal(t, "user", req.Messages[0].Role)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"title\":\"t\"}"}}]}`))
	}))
	defer srv.Close()

	resp, err := NewGroqClient(testConfig(srv.URL)).Complete(context.Background(), "prompt", "llama-3.1-8b-instant", "summary.v0.1")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"t"}`, resp.Text)
}

func TestGroqRequiresKey(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.GroqAPIKey = ""
	_, err := NewGroqClient(cfg).Complete(context.Background(), "p", "m", "summary.v0.1")
	assert.Error(t, err)
}

func TestWhisperTranscribe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "small", r.FormValue("model"))

		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "audio.wav", hdr.Filename)

		_, _ = w.Write([]byte(`{"text":"  hello world \n"}`))
	}))
	defer srv.Close()

	text, err := NewWhisperClient(testConfig(srv.URL)).Transcribe(context.Background(), []byte("RIFF"), "audio.wav", "small")
	require.NoError(t, err)
	assert.Equal(t, "hello world", text)
}

func TestWhisperHonoursCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	cfg := testConfig(srv.URL)
	cfg.RetryMaxElapsed = 0
	_, err := NewWhisperClient(cfg).Transcribe(ctx, []byte("x"), "a.wav", "base")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
