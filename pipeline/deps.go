package pipeline

import (
	"shortform/analysis"
	"shortform/mediatool"
	"shortform/providers/assets"
	"shortform/providers/timestamps"
	"shortform/providers/voice"
)

// Deps carries the external collaborators every pipeline draws on. Tests
// substitute fakes; production wiring comes from DefaultDeps.
type Deps struct {
	Voice      voice.Provider
	Assets     assets.Provider
	Timestamps timestamps.Provider
	Media      mediatool.Tool
	Beats      *analysis.BeatDetector
	Silence    *analysis.SilenceDetector
}

// DefaultDeps builds the production dependency set: fallback-wrapped auto
// providers, the ffmpeg media tool, and standard detectors.
func DefaultDeps() Deps {
	media := mediatool.NewFFmpeg("")
	beats := analysis.NewBeatDetector()
	beats.Transcoder = media
	return Deps{
		Voice:      voice.WithFallback("auto"),
		Assets:     assets.WithFallback("auto"),
		Timestamps: timestamps.WithFallback("auto"),
		Media:      media,
		Beats:      beats,
		Silence:    analysis.NewSilenceDetector(),
	}
}
