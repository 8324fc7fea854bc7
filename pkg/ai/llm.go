package ai

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/zyquraflow/pkg/jobcontext"
)

// LLM is a language-model backend addressed by provider id
type LLM interface {
	// Name returns the provider id as listed in the provider catalog
	Name() string
	// Complete sends a single prompt and returns the raw model output
	Complete(ctx context.Context, prompt, model, promptID string) (*LLMResponse, error)
}

// LLMResponse is the raw output of one completion call
type LLMResponse struct {
	Text       string
	Model      string
	PromptID   string
	Parameters map[string]interface{}
	Duration   time.Duration
}

// StatusError is returned when a backend answers with a non-2xx status
type StatusError struct {
	Service string
	Code    int
	Body    string
}

func (e *StatusError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("%s returned status %d: %s", e.Service, e.Code, e.Body)
	}
	return fmt.Sprintf("%s returned status %d", e.Service, e.Code)
}

// jobFields describes the pipeline job carried by ctx for log lines.
// Calls made outside a job get no extra fields.
func jobFields(ctx context.Context) []zap.Field {
	meta := jobcontext.GetJobMetadata(ctx)
	if meta.JobID == "" {
		return nil
	}
	fields := []zap.Field{
		zap.String("job_id", meta.JobID),
		zap.String("session_id", meta.SessionID),
		zap.String("operation", meta.Operation),
	}
	if !meta.StartTime.IsZero() {
		fields = append(fields, zap.Duration("elapsed", time.Since(meta.StartTime)))
	}
	if meta.Timeout > 0 {
		fields = append(fields, zap.Duration("timeout", meta.Timeout))
	}
	return fields
}
