package analysis

import (
	"math"
	"path/filepath"
	"testing"

	"shortform/audio"
)

func toneThenGapSamples(sampleRate int) []float64 {
	// 2s tone, 1s silence, 2s tone.
	n := 5 * sampleRate
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		if t < 2.0 || t >= 3.0 {
			samples[i] = 0.5 * math.Sin(2*math.Pi*440*t)
		}
	}
	return samples
}

func TestDetectSilencePoints(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gap.wav")
	if err := audio.WriteMono(path, toneThenGapSamples(22050), 22050); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	d := NewSilenceDetector()
	points := d.DetectSilencePoints(path)

	if len(points) != 1 {
		t.Fatalf("got %d silence points %v, want 1", len(points), points)
	}
	// The gap spans [2s, 3s]; the cut point is its midpoint.
	if points[0] < 2.2 || points[0] > 2.8 {
		t.Errorf("silence point at %v, want near 2.5", points[0])
	}
}

func TestDetectSilencePointsNoSilence(t *testing.T) {
	n := 3 * 22050
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/22050)
	}
	path := filepath.Join(t.TempDir(), "tone.wav")
	if err := audio.WriteMono(path, samples, 22050); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	d := NewSilenceDetector()
	if points := d.DetectSilencePoints(path); len(points) != 0 {
		t.Errorf("got %v, want no silence points", points)
	}
}

func TestDetectSilencePointsMissingFile(t *testing.T) {
	d := NewSilenceDetector()
	if points := d.DetectSilencePoints("/nonexistent/audio.wav"); points != nil {
		t.Errorf("got %v, want nil for unreadable file", points)
	}
}

func TestDetectSilencePointsShortPausesIgnored(t *testing.T) {
	// 0.1s gaps are below the 0.3s minimum.
	sampleRate := 22050
	n := 3 * sampleRate
	samples := make([]float64, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(sampleRate)
		if math.Mod(t, 1.0) > 0.1 {
			samples[i] = 0.5 * math.Sin(2*math.Pi*440*t)
		}
	}
	path := filepath.Join(t.TempDir(), "choppy.wav")
	if err := audio.WriteMono(path, samples, sampleRate); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	d := NewSilenceDetector()
	if points := d.DetectSilencePoints(path); len(points) != 0 {
		t.Errorf("got %v, want no points for sub-threshold pauses", points)
	}
}
