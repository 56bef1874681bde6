package filesystem

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var audioExtensions = map[string]string{
	"audio/mpeg":   ".mp3",
	"audio/mp3":    ".mp3",
	"audio/wav":    ".wav",
	"audio/x-wav":  ".wav",
	"audio/wave":   ".wav",
	"audio/ogg":    ".ogg",
	"audio/opus":   ".opus",
	"audio/aac":    ".aac",
	"audio/flac":   ".flac",
	"audio/webm":   ".webm",
	"audio/mp4":    ".m4a",
	"audio/x-m4a":  ".m4a",
	"audio/basic":  ".au",
	"audio/l16":    ".pcm",
	"audio/x-aiff": ".aiff",
}

// AudioStore writes generated audio into the directory served as static
// content. Files are never cleaned up.
type AudioStore struct {
	dir    string
	prefix string
	log    *zap.Logger
}

// NewAudioStore creates dir if needed. prefix is the URL path dir is served
// under, e.g. "/static".
func NewAudioStore(dir, prefix string, log *zap.Logger) (*AudioStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create audio dir: %w", err)
	}
	return &AudioStore{
		dir:    dir,
		prefix: "/" + strings.Trim(prefix, "/"),
		log:    log,
	}, nil
}

// Save writes data under a random name and returns that name.
func (s *AudioStore) Save(ctx context.Context, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	name := "story_" + uuid.NewString() + extensionFor(contentType)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write audio file: %w", err)
	}

	s.log.Info("Audio file saved",
		zap.String("file", name),
		zap.Int("bytes", len(data)),
	)
	return name, nil
}

// PublicURL maps a stored file name to the URL it is served at.
func (s *AudioStore) PublicURL(name string) string {
	if s.prefix == "/" {
		return "/" + name
	}
	return s.prefix + "/" + name
}

// Dir returns the directory files are written to.
func (s *AudioStore) Dir() string {
	return s.dir
}

func extensionFor(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	if ext, ok := audioExtensions[strings.ToLower(mediaType)]; ok {
		return ext
	}
	return ".mp3"
}
