// Package timestamps aligns script text with speech audio, producing timed
// sentence segments. The whisper backend needs credentials; the heuristic
// backend is always available and allocates time proportionally to text
// length.
package timestamps

import (
	"context"
	"log"
)

// Segment is one timed span of transcript text. Start and End are seconds
// from the beginning of the audio.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Provider is the transcript-alignment capability contract.
type Provider interface {
	Name() string
	Available() bool
	// Extract aligns text with the audio file and returns timed segments.
	Extract(ctx context.Context, audioPath, text string) ([]Segment, error)
}

// New resolves a provider name. "auto" probes whisper and falls back to
// heuristic; unknown names resolve to heuristic.
func New(name string) Provider {
	switch name {
	case "auto":
		if w := NewWhisper(""); w.Available() {
			return w
		}
		return NewHeuristic()
	case "whisper":
		return NewWhisper("")
	default:
		return NewHeuristic()
	}
}

// WithFallback wraps the named provider so extraction always succeeds,
// degrading to the heuristic backend on error or empty results.
func WithFallback(name string) Provider {
	return &fallback{primary: New(name), heuristic: NewHeuristic()}
}

var (
	_ Provider = (*Heuristic)(nil)
	_ Provider = (*Whisper)(nil)
	_ Provider = (*fallback)(nil)
)

type fallback struct {
	primary   Provider
	heuristic *Heuristic
}

func (f *fallback) Name() string    { return f.primary.Name() + "+fallback" }
func (f *fallback) Available() bool { return true }

func (f *fallback) Extract(ctx context.Context, audioPath, text string) ([]Segment, error) {
	if f.primary.Available() {
		segs, err := f.primary.Extract(ctx, audioPath, text)
		if err == nil && len(segs) > 0 {
			return segs, nil
		}
		if err != nil {
			log.Printf("timestamps: %s failed, degrading to heuristic: %v", f.primary.Name(), err)
		}
	}
	return f.heuristic.Extract(ctx, audioPath, text)
}
