package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/johnquangdev/zyquraflow/pkg/config"
)

// Transcriber converts stored audio into text
type Transcriber interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, filename, model string) (string, error)
}

// WhisperClient posts audio to an OpenAI-compatible transcription server
// (faster-whisper-server, whisper.cpp server, LocalAI).
type WhisperClient struct {
	baseURL         string
	client          *http.Client
	retryMaxElapsed time.Duration
}

func NewWhisperClient(cfg *config.AIConfig) *WhisperClient {
	return &WhisperClient{
		baseURL:         strings.TrimRight(cfg.WhisperURL, "/"),
		client:          &http.Client{Timeout: cfg.HTTPTimeout},
		retryMaxElapsed: cfg.RetryMaxElapsed,
	}
}

func (w *WhisperClient) Name() string { return "whisper" }

type whisperResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio as multipart form data and returns the recognized text
func (w *WhisperClient) Transcribe(ctx context.Context, audio []byte, filename, model string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(audio); err != nil {
		return "", err
	}
	_ = mw.WriteField("model", model)
	_ = mw.WriteField("response_format", "json")
	if err := mw.Close(); err != nil {
		return "", err
	}
	payload := body.Bytes()

	var out whisperResponse
	err = withRetry(ctx, w.retryMaxElapsed, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+"/v1/audio/transcriptions", bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())

		resp, err := w.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if err := checkStatus("whisper", resp); err != nil {
			return err
		}
		return json.NewDecoder(resp.Body).Decode(&out)
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}
	return strings.TrimSpace(out.Text), nil
}
