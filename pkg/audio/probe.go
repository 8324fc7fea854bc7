// Package audio extracts metadata from uploaded recordings.
package audio

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
)

// Metadata is what ingestion learns about an uploaded file
type Metadata struct {
	FileSize int64
	Duration *float64 // seconds; nil when the container is not understood
}

// Probe returns size and, for PCM WAV files, the duration.
func Probe(data []byte) Metadata {
	meta := Metadata{FileSize: int64(len(data))}
	if d, ok := wavDuration(data); ok {
		meta.Duration = &d
	}
	return meta
}

// Extension returns a normalized, safe file extension for storage keys
func Extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) < 2 || len(ext) > 6 {
		return ".bin"
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return ".bin"
		}
	}
	return ext
}

// ContentType guesses a MIME type from the extension
func ContentType(filename string) string {
	switch Extension(filename) {
	case ".wav":
		return "audio/wav"
	case ".mp3":
		return "audio/mpeg"
	case ".ogg", ".oga":
		return "audio/ogg"
	case ".m4a", ".mp4":
		return "audio/mp4"
	case ".webm":
		return "audio/webm"
	case ".flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}

// wavDuration walks RIFF chunks looking for "fmt " and "data".
func wavDuration(data []byte) (float64, bool) {
	if len(data) < 12 || !bytes.Equal(data[0:4], []byte("RIFF")) || !bytes.Equal(data[8:12], []byte("WAVE")) {
		return 0, false
	}

	var byteRate uint32
	pos := 12
	for pos+8 <= len(data) {
		id := data[pos : pos+4]
		size := int(binary.LittleEndian.Uint32(data[pos+4 : pos+8]))
		body := pos + 8

		switch {
		case bytes.Equal(id, []byte("fmt ")):
			if body+16 > len(data) {
				return 0, false
			}
			byteRate = binary.LittleEndian.Uint32(data[body+8 : body+12])
		case bytes.Equal(id, []byte("data")):
			if byteRate == 0 {
				return 0, false
			}
			// Streams written before the final size is known leave size as 0 or oversized.
			if size == 0 || body+size > len(data) {
				size = len(data) - body
			}
			return float64(size) / float64(byteRate), true
		}

		next := body + size
		if size%2 == 1 {
			next++
		}
		if next <= pos {
			return 0, false
		}
		pos = next
	}
	return 0, false
}
