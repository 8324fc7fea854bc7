package jobcontext

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobBeginCarriesMetadata(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "job-1", "SESSION-abc", "transcribe", time.Minute)
	defer cancel()

	meta := GetJobMetadata(ctx)
	assert.Equal(t, "job-1", meta.JobID)
	assert.Equal(t, "SESSION-abc", meta.SessionID)
	assert.Equal(t, "transcribe", meta.Operation)
	assert.Equal(t, time.Minute, meta.Timeout)
	assert.False(t, meta.StartTime.IsZero())

	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestJobBeginZeroTimeoutHasNoDeadline(t *testing.T) {
	ctx, cancel := JobBegin(context.Background(), "job-1", "s", "summarize", 0)
	defer cancel()

	_, hasDeadline := ctx.Deadline()
	assert.False(t, hasDeadline)

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestJobEndRecoversPanic(t *testing.T) {
	err := JobEnd(context.Background(), func(context.Context) error {
		panic("boom")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic recovered: boom")
}

func TestJobEndRunsOnce(t *testing.T) {
	calls := 0
	err := JobEnd(context.Background(), func(context.Context) error {
		calls++
		return errors.New("status 503")
	})
	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestJobEndSkipsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := JobEnd(ctx, func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestIsRetryableError(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{context.Canceled, false},
		{fmt.Errorf("wrapped: %w", context.DeadlineExceeded), true},
		{errors.New("dial tcp: connection refused"), true},
		{errors.New("groq returned status 503"), true},
		{errors.New("groq returned status 429"), true},
		{errors.New("groq returned status 401"), false},
		{errors.New("invalid model"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, IsRetryableError(tc.err), "%v", tc.err)
	}
}
