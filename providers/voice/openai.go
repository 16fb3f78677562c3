package voice

import (
	"context"
	"os"

	"shortform/providers"
)

// OpenAI is the OpenAI TTS backend.
type OpenAI struct {
	apiKey string
}

// NewOpenAI creates the backend. An empty key falls back to the
// OPENAI_API_KEY environment variable.
func NewOpenAI(apiKey string) *OpenAI {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	return &OpenAI{apiKey: apiKey}
}

func (o *OpenAI) Name() string    { return "openai" }
func (o *OpenAI) Available() bool { return o.apiKey != "" }

func (o *OpenAI) Synthesize(_ context.Context, _, _ string) (Speech, error) {
	if o.apiKey == "" {
		return Speech{}, providers.Unavailable(o.Name(), "OPENAI_API_KEY not set")
	}
	return Speech{}, providers.Errorf(o.Name(), "synthesis endpoint not configured")
}
