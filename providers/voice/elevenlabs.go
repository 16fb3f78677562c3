package voice

import (
	"context"
	"os"

	"shortform/providers"
)

// ElevenLabs is the ElevenLabs TTS backend. Availability is a credential
// probe; synthesis without the upstream integration reports unavailable so
// the fallback wrapper degrades instead of failing the request.
type ElevenLabs struct {
	apiKey string
}

// NewElevenLabs creates the backend. An empty key falls back to the
// ELEVENLABS_API_KEY environment variable.
func NewElevenLabs(apiKey string) *ElevenLabs {
	if apiKey == "" {
		apiKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	return &ElevenLabs{apiKey: apiKey}
}

func (e *ElevenLabs) Name() string    { return "elevenlabs" }
func (e *ElevenLabs) Available() bool { return e.apiKey != "" }

func (e *ElevenLabs) Synthesize(_ context.Context, _, _ string) (Speech, error) {
	if e.apiKey == "" {
		return Speech{}, providers.Unavailable(e.Name(), "ELEVENLABS_API_KEY not set")
	}
	return Speech{}, providers.Errorf(e.Name(), "synthesis endpoint not configured")
}
