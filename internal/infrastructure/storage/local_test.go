package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePutGet(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStore(root)
	require.NoError(t, err)
	ctx := context.Background()

	key := AudioKey("SESSION-1", "memo.WAV")
	assert.True(t, strings.HasPrefix(key, "sessions/SESSION-1/audio-"), key)
	assert.True(t, strings.HasSuffix(key, ".wav"), key)

	require.NoError(t, s.Put(ctx, key, bytes.NewReader([]byte("first")), 5, "audio/wav"))
	require.NoError(t, s.Put(ctx, key, bytes.NewReader([]byte("second")), 6, "audio/wav"))

	data, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))

	entries, err := os.ReadDir(filepath.Join(root, "sessions", "SESSION-1"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are cleaned up")

	assert.NoError(t, s.Ping(ctx))
}

func TestLocalStoreRejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../x", "/etc/passwd", "a/../../b"} {
		err := s.Put(context.Background(), key, bytes.NewReader(nil), 0, "")
		assert.Error(t, err, key)
	}
}

func TestLocalStoreGetMissing(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "sessions/none/audio.wav")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAudioKeyIsUniquePerUpload(t *testing.T) {
	a := AudioKey("SESSION-1", "a.ogg")
	b := AudioKey("SESSION-1", "a.ogg")
	assert.NotEqual(t, a, b)
	assert.NoError(t, validateKey(a))
}

func TestLocalStoreDelete(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	key := AudioKey("SESSION-1", "a.wav")
	require.NoError(t, s.Put(ctx, key, bytes.NewReader([]byte("x")), 1, "audio/wav"))
	require.NoError(t, s.Delete(ctx, key))

	_, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.NoError(t, s.Delete(ctx, key), "deleting a missing key is a no-op")
	assert.Error(t, s.Delete(ctx, "../escape"))
}
