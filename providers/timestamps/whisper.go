package timestamps

import (
	"context"
	"os"

	"shortform/providers"
)

// Whisper is the OpenAI Whisper transcription backend.
type Whisper struct {
	apiKey string
}

// NewWhisper creates the backend. An empty key falls back to the
// OPENAI_API_KEY environment variable.
func NewWhisper(apiKey string) *Whisper {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return &Whisper{apiKey: apiKey}
}

func (w *Whisper) Name() string    { return "whisper" }
func (w *Whisper) Available() bool { return w.apiKey != "" }

func (w *Whisper) Extract(_ context.Context, _, _ string) ([]Segment, error) {
	if w.apiKey == "" {
		return nil, providers.Unavailable(w.Name(), "OPENAI_API_KEY not set")
	}
	return nil, providers.Errorf(w.Name(), "transcription endpoint not configured")
}
