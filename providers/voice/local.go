package voice

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"shortform/audio"
)

const (
	wordsPerSecond = 2.5
	minDuration    = 1.0
	maxDuration    = 300.0
)

// Local is the always-available voice backend. It writes silent WAV files
// sized by an estimated speaking rate, so downstream timing still works when
// no TTS credentials are configured.
type Local struct {
	outputDir string
}

// NewLocal creates the local backend. An empty dir defaults to a temp
// subdirectory.
func NewLocal(dir string) *Local {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "shortform_voice")
	}
	return &Local{outputDir: dir}
}

func (l *Local) Name() string    { return "local" }
func (l *Local) Available() bool { return true }

func (l *Local) Synthesize(_ context.Context, text, _ string) (Speech, error) {
	if err := os.MkdirAll(l.outputDir, 0o755); err != nil {
		return Speech{}, fmt.Errorf("voice: create output dir: %w", err)
	}
	path := filepath.Join(l.outputDir, uuid.New().String()[:8]+".wav")
	if err := audio.WriteSilent(path, estimateDuration(text), 44100); err != nil {
		return Speech{}, fmt.Errorf("voice: write wav: %w", err)
	}
	return Speech{Path: path, Provider: l.Name()}, nil
}

// estimateDuration maps word count to seconds at 2.5 words per second,
// clamped to [1s, 300s].
func estimateDuration(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return minDuration
	}
	d := float64(len(strings.Fields(text))) / wordsPerSecond
	if d < minDuration {
		return minDuration
	}
	if d > maxDuration {
		return maxDuration
	}
	return d
}
