package ai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/zyquraflow/pkg/config"
)

// AssemblyAITranscriber uploads audio to AssemblyAI and waits for the transcript.
// The whisper model name is not forwarded; AssemblyAI picks its own model.
type AssemblyAITranscriber struct {
	client          *aai.Client
	retryMaxElapsed time.Duration
}

func NewAssemblyAITranscriber(cfg *config.AIConfig) *AssemblyAITranscriber {
	return &AssemblyAITranscriber{
		client:          aai.NewClient(cfg.AssemblyAIAPIKey),
		retryMaxElapsed: cfg.RetryMaxElapsed,
	}
}

func (t *AssemblyAITranscriber) Name() string { return "assemblyai" }

func (t *AssemblyAITranscriber) Transcribe(ctx context.Context, audio []byte, filename, model string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		LanguageDetection: aai.Bool(true),
		SpeakerLabels:     aai.Bool(true),
	}

	var transcript aai.Transcript
	err := withRetry(ctx, t.retryMaxElapsed, func() error {
		var err error
		transcript, err = t.client.Transcripts.TranscribeFromReader(ctx, bytes.NewReader(audio), params)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription: %w", err)
	}

	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai error: %s", msg)
	}
	if transcript.Text == nil {
		return "", errors.New("assemblyai returned no text")
	}
	return *transcript.Text, nil
}
