package analysis

import (
	"math"

	"shortform/audio"
)

// SilenceDetector finds pauses in speech audio. A pause is a run of low-RMS
// windows lasting at least MinDuration; its midpoint becomes a cut candidate.
type SilenceDetector struct {
	Threshold   float64
	MinDuration float64
}

// NewSilenceDetector creates a detector with the standard thresholds:
// amplitude 0.02, minimum pause 0.3s.
func NewSilenceDetector() *SilenceDetector {
	return &SilenceDetector{Threshold: 0.02, MinDuration: 0.3}
}

// DetectSilencePoints returns timestamps at the midpoint of each qualifying
// silence run. Decode failures degrade to no points; callers fall back to
// fixed-window segmentation.
func (d *SilenceDetector) DetectSilencePoints(audioPath string) []float64 {
	track, err := audio.Decode(audioPath)
	if err != nil || len(track.Samples) == 0 || track.SampleRate == 0 {
		return nil
	}

	windowSize := int(float64(track.SampleRate) * 0.05)
	hopSize := int(float64(track.SampleRate) * 0.02)
	if windowSize == 0 || hopSize == 0 {
		return nil
	}

	var points []float64
	inSilence := false
	silenceStart := 0.0

	for i := 0; i+windowSize <= len(track.Samples); i += hopSize {
		var sum float64
		for _, s := range track.Samples[i : i+windowSize] {
			sum += s * s
		}
		rms := math.Sqrt(sum / float64(windowSize))
		t := float64(i) / float64(track.SampleRate)

		if rms < d.Threshold {
			if !inSilence {
				inSilence = true
				silenceStart = t
			}
			continue
		}
		if inSilence {
			if run := t - silenceStart; run >= d.MinDuration {
				points = append(points, silenceStart+run/2)
			}
			inSilence = false
		}
	}
	return points
}
