package entities

import (
	"errors"
	"fmt"
)

// Domain errors
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidState = errors.New("invalid state")
	ErrConflict     = errors.New("conflict")
	ErrDuplicate    = errors.New("already exists")

	// Collaborator failures; always safe to retry
	ErrTranscriptionFailed = errors.New("transcription failed")
	ErrSummarizationFailed = errors.New("summarization failed")
)

// ProcessingError wraps a failed external collaborator call.
// The session is left exactly as it was before the call.
type ProcessingError struct {
	Kind      error // ErrTranscriptionFailed or ErrSummarizationFailed
	Retryable bool
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *ProcessingError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// NewTranscriptionError wraps a speech-to-text failure
func NewTranscriptionError(err error) *ProcessingError {
	return &ProcessingError{Kind: ErrTranscriptionFailed, Retryable: true, Err: err}
}

// NewSummarizationError wraps a summarization failure
func NewSummarizationError(err error) *ProcessingError {
	return &ProcessingError{Kind: ErrSummarizationFailed, Retryable: true, Err: err}
}

// StorageError wraps a failed audio storage call
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("audio storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
