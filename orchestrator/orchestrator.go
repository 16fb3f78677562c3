// Package orchestrator maps inbound mode requests to pipeline invocations.
// Each orchestrator validates its mode's fields, builds the pipeline config
// from request options, runs prepare, and wraps the result in a uniform
// envelope. Credits, idempotency, and queuing stay in the HTTP layer.
package orchestrator

import (
	"errors"
	"fmt"

	"shortform/pipeline"
)

// Mode identifies a video generation workflow.
type Mode string

const (
	ModeText  Mode = "text"
	ModeMusic Mode = "music"
	ModeAudio Mode = "audio"
	ModeLong  Mode = "long"
)

// ParseMode resolves a mode string to a known Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeText, ModeMusic, ModeAudio, ModeLong:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown orchestration mode: %s", s)
}

// DisplayName is the human-readable mode name.
func (m Mode) DisplayName() string {
	switch m {
	case ModeText:
		return "Text to Video"
	case ModeMusic:
		return "Music to Clip"
	case ModeAudio:
		return "Audio to Video"
	case ModeLong:
		return "Long to Shorts"
	}
	return string(m)
}

// ErrValidation marks request validation failures; the HTTP layer maps it to
// a 400 response.
var ErrValidation = errors.New("invalid request")

func validationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrValidation}, args...)...)
}

// Result is the uniform orchestration envelope handed to the submission
// layer.
type Result struct {
	Mode                     Mode           `json:"mode"`
	RenderJob                any            `json:"render_job"`
	Metadata                 map[string]any `json:"metadata"`
	EstimatedDurationSeconds float64        `json:"estimated_duration_seconds"`
	EstimatedCostCredits     int            `json:"estimated_cost_credits"`

	// Jobs carries the concrete queue payloads: one for single-output
	// modes, one per clip for long mode.
	Jobs []pipeline.RenderJob `json:"-"`
}

// Resolution overrides the output frame size.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SubtitleOptions control subtitle rendering.
type SubtitleOptions struct {
	Enabled *bool  `json:"enabled,omitempty"`
	Size    string `json:"size,omitempty"`
}

// fontSize maps a subtitle size name to a pixel size; unknown names get the
// medium size.
func (s *SubtitleOptions) fontSize() int {
	if s == nil {
		return 70
	}
	switch s.Size {
	case "small":
		return 50
	case "large":
		return 90
	default:
		return 70
	}
}

func (s *SubtitleOptions) enabled() bool {
	if s == nil || s.Enabled == nil {
		return true
	}
	return *s.Enabled
}

func resolutionOrDefault(r *Resolution) (int, int) {
	width, height := 1080, 1920
	if r != nil {
		if r.Width > 0 {
			width = r.Width
		}
		if r.Height > 0 {
			height = r.Height
		}
	}
	return width, height
}

func resolutionString(width, height int) string {
	return fmt.Sprintf("%dx%d", width, height)
}

func fpsOrDefault(fps int) int {
	if fps <= 0 {
		return 30
	}
	return fps
}
