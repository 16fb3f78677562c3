// Package voice synthesizes speech audio from text. Backends are selected by
// a factory and composed with a fallback wrapper so callers never hard-fail
// on an external TTS outage.
package voice

import (
	"context"
	"log"
)

// Speech is the result of a synthesis call.
type Speech struct {
	// Path points at the generated audio file (WAV).
	Path string
	// Provider names the backend that produced the audio.
	Provider string
	// Degraded is true when the fallback backend served the request.
	Degraded bool
}

// Provider is the voice/TTS capability contract.
type Provider interface {
	// Name is the provider's string identity.
	Name() string
	// Available reports whether the backend can serve requests,
	// typically credential presence.
	Available() bool
	// Synthesize turns text into a speech audio file.
	Synthesize(ctx context.Context, text, lang string) (Speech, error)
}

// autoOrder is the probe order for "auto" resolution.
var autoOrder = []string{"openai", "elevenlabs"}

// New resolves a provider name to a concrete backend. "auto" probes backends
// in priority order and falls back to the local backend; unknown names also
// resolve to local.
func New(name string) Provider {
	switch name {
	case "auto":
		return newAuto()
	case "openai":
		return NewOpenAI("")
	case "elevenlabs":
		return NewElevenLabs("")
	default:
		return NewLocal("")
	}
}

func newAuto() Provider {
	for _, name := range autoOrder {
		var p Provider
		switch name {
		case "openai":
			p = NewOpenAI("")
		case "elevenlabs":
			p = NewElevenLabs("")
		}
		if p != nil && p.Available() {
			return p
		}
	}
	return NewLocal("")
}

// WithFallback wraps the named provider so synthesis always succeeds,
// degrading to the local backend on error.
func WithFallback(name string) Provider {
	return &fallback{primary: New(name), local: NewLocal("")}
}

var (
	_ Provider = (*Local)(nil)
	_ Provider = (*OpenAI)(nil)
	_ Provider = (*ElevenLabs)(nil)
	_ Provider = (*fallback)(nil)
)

type fallback struct {
	primary Provider
	local   *Local
}

func (f *fallback) Name() string    { return f.primary.Name() + "+fallback" }
func (f *fallback) Available() bool { return true }

func (f *fallback) Synthesize(ctx context.Context, text, lang string) (Speech, error) {
	if f.primary.Available() {
		sp, err := f.primary.Synthesize(ctx, text, lang)
		if err == nil && sp.Path != "" {
			return sp, nil
		}
		if err != nil {
			log.Printf("voice: %s failed, degrading to local: %v", f.primary.Name(), err)
		}
	}
	sp, err := f.local.Synthesize(ctx, text, lang)
	if err != nil {
		return Speech{}, err
	}
	sp.Degraded = true
	return sp, nil
}
