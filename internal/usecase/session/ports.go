package session

import (
	"context"
	"io"

	"github.com/johnquangdev/zyquraflow/internal/domain/entities"
	usecaseai "github.com/johnquangdev/zyquraflow/internal/usecase/ai"
)

// SpeechToText converts stored audio into text using the configured speech model
type SpeechToText interface {
	Name() string
	Transcribe(ctx context.Context, audio []byte, filename, whisperModel string) (string, error)
}

// Summarizer turns a transcript into a structured summary with the configured provider/model
type Summarizer interface {
	Summarize(ctx context.Context, text, provider, model string) (*usecaseai.SummaryResult, error)
}

// ConfigSource returns the configuration in effect right now
type ConfigSource interface {
	Get() entities.SystemConfig
}

// CaseChecker answers whether a case id exists
type CaseChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// AudioStorage stores and loads raw session audio
type AudioStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// AudioUpload is a raw uploaded file
type AudioUpload struct {
	Filename string
	Data     []byte
}
