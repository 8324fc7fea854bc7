package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

type KeyContext string

var (
	keyJobID        KeyContext = "job_id"
	keySessionID    KeyContext = "session_id"
	keyOperation    KeyContext = "operation"
	keyJobStartTime KeyContext = "job_start_time"
	keyTimeout      KeyContext = "timeout"
)

// JobMetadata holds metadata for a pipeline job execution
type JobMetadata struct {
	JobID     string
	SessionID string
	Operation string
	StartTime time.Time
	Timeout   time.Duration
}

// JobBegin derives a job context for a long-running operation on one session.
// A zero timeout leaves the parent deadline in charge.
func JobBegin(parentCtx context.Context, jobID, sessionID, operation string, timeout time.Duration) (context.Context, context.CancelFunc) {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parentCtx, timeout)
	} else {
		ctx, cancel = context.WithCancel(parentCtx)
	}

	ctx = context.WithValue(ctx, keyJobID, jobID)
	ctx = context.WithValue(ctx, keySessionID, sessionID)
	ctx = context.WithValue(ctx, keyOperation, operation)
	ctx = context.WithValue(ctx, keyJobStartTime, time.Now())
	ctx = context.WithValue(ctx, keyTimeout, timeout)

	return ctx, cancel
}

// JobEnd runs the job function once with panic recovery.
// Retrying is left to the caller.
func JobEnd(ctx context.Context, jobFunc func(context.Context) error) (err error) {
	if ctx.Err() != nil {
		return fmt.Errorf("context cancelled before job execution: %w", ctx.Err())
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic recovered: %v", p)
		}
	}()

	return jobFunc(ctx)
}

// GetJobID extracts job ID from context
func GetJobID(ctx context.Context) (string, bool) {
	jobID, ok := ctx.Value(keyJobID).(string)
	return jobID, ok
}

// GetSessionID extracts the session ID from context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(keySessionID).(string)
	return sessionID, ok
}

// GetOperation extracts the operation name from context
func GetOperation(ctx context.Context) (string, bool) {
	op, ok := ctx.Value(keyOperation).(string)
	return op, ok
}

// GetJobStartTime extracts job start time from context
func GetJobStartTime(ctx context.Context) (time.Time, bool) {
	startTime, ok := ctx.Value(keyJobStartTime).(time.Time)
	return startTime, ok
}

// GetJobMetadata extracts all job metadata from context
func GetJobMetadata(ctx context.Context) *JobMetadata {
	jobID, _ := GetJobID(ctx)
	sessionID, _ := GetSessionID(ctx)
	op, _ := GetOperation(ctx)
	startTime, _ := GetJobStartTime(ctx)
	timeout, _ := ctx.Value(keyTimeout).(time.Duration)

	return &JobMetadata{
		JobID:     jobID,
		SessionID: sessionID,
		Operation: op,
		StartTime: startTime,
		Timeout:   timeout,
	}
}

// IsRetryableError checks if an error is transient.
// Retryable errors include: network errors, timeouts, rate limits, 5xx responses
func IsRetryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	errStr := strings.ToLower(err.Error())

	// Network errors
	if strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "network unreachable") ||
		strings.Contains(errStr, "no such host") ||
		strings.Contains(errStr, "i/o timeout") ||
		strings.Contains(errStr, "eof") {
		return true
	}

	// API rate limiting
	if strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests") ||
		strings.Contains(errStr, "status 429") {
		return true
	}

	// Server errors (5xx)
	if strings.Contains(errStr, "status 5") ||
		strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "service unavailable") ||
		strings.Contains(errStr, "bad gateway") {
		return true
	}

	// Temporary failures
	if strings.Contains(errStr, "temporary failure") ||
		strings.Contains(errStr, "try again") {
		return true
	}

	return false
}
