package ai

import (
	"context"
	"io"
	"net/http"
	"time"

	backoff "github.com/cenkalti/backoff/v4"

	"github.com/johnquangdev/zyquraflow/pkg/jobcontext"
)

// withRetry retries transient transport failures with exponential backoff.
// Non-transient errors stop immediately. maxElapsed <= 0 disables retries.
func withRetry(ctx context.Context, maxElapsed time.Duration, op func() error) error {
	if maxElapsed <= 0 {
		return op()
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 250 * time.Millisecond
	bo.MaxInterval = 5 * time.Second
	bo.MaxElapsedTime = maxElapsed

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !jobcontext.IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(bo, ctx))
}

// checkStatus turns a non-2xx response into a StatusError
func checkStatus(service string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &StatusError{Service: service, Code: resp.StatusCode, Body: string(body)}
}
