package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/zyquraflow/pkg/audio"
)

// AudioStorage persists uploaded session audio under slash-separated keys
type AudioStorage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the object; a missing key is not an error
	Delete(ctx context.Context, key string) error
	// Ping verifies the backend is reachable
	Ping(ctx context.Context) error
}

// AudioKey returns a fresh storage key for one upload of a session's audio.
// Every upload gets its own key so the previous file stays intact until the
// session row points at the new one.
func AudioKey(sessionID, filename string) string {
	name := "audio-" + strings.ReplaceAll(uuid.NewString(), "-", "") + audio.Extension(filename)
	return path.Join("sessions", sessionID, name)
}

func validateKey(key string) error {
	clean := path.Clean(key)
	if key == "" || clean != key || path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}
