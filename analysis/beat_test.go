package analysis

import (
	"context"
	"math"
	"path/filepath"
	"testing"

	"shortform/audio"
)

// pulsedSamples is a quiet track with a 50ms burst every interval seconds.
func pulsedSamples(duration, interval float64, sampleRate int) []float64 {
	n := int(duration * float64(sampleRate))
	samples := make([]float64, n)
	burst := int(0.05 * float64(sampleRate))
	step := int(interval * float64(sampleRate))
	for start := 0; start < n; start += step {
		for i := 0; i < burst && start+i < n; i++ {
			samples[start+i] = 0.8 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate))
		}
	}
	return samples
}

func TestDetectFindsPulseGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "beats.wav")
	if err := audio.WriteMono(path, pulsedSamples(12.0, 0.5, 22050), 22050); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	d := NewBeatDetector()
	info := d.Detect(context.Background(), path, 0, 10)

	if info.TotalDuration != 10.0 {
		t.Errorf("TotalDuration = %v, want 10", info.TotalDuration)
	}
	if len(info.Timestamps) < 10 {
		t.Fatalf("detected %d beats, want at least 10", len(info.Timestamps))
	}
	// Pulses every 0.5s mean roughly 120 BPM.
	if info.TempoBPM < 100 || info.TempoBPM > 140 {
		t.Errorf("TempoBPM = %v, want near 120", info.TempoBPM)
	}
	for i := 1; i < len(info.Timestamps); i++ {
		if info.Timestamps[i] <= info.Timestamps[i-1] {
			t.Fatalf("beats not increasing at %d: %v", i, info.Timestamps)
		}
	}
}

func TestDetectMissingFileFallsBack(t *testing.T) {
	d := NewBeatDetector()
	info := d.Detect(context.Background(), "/nonexistent/audio.mp3", 0, 10)

	if info.TempoBPM != 75.0 {
		t.Errorf("TempoBPM = %v, want 75 (60/0.8 grid)", info.TempoBPM)
	}
	// Grid at 0.8s over 10s: t = 0, 0.8, ..., 9.6.
	if len(info.Timestamps) != 13 {
		t.Errorf("got %d grid beats, want 13", len(info.Timestamps))
	}
	for i := 1; i < len(info.Timestamps); i++ {
		gap := info.Timestamps[i] - info.Timestamps[i-1]
		if math.Abs(gap-0.8) > 0.001 {
			t.Errorf("grid gap at %d = %v, want 0.8", i, gap)
		}
	}
	if info.BeatInterval != 0.8 {
		t.Errorf("BeatInterval = %v, want 0.8", info.BeatInterval)
	}
}

func TestDetectSilentAudioUsesGrid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.wav")
	if err := audio.WriteSilent(path, 10.0, 22050); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	d := NewBeatDetector()
	info := d.Detect(context.Background(), path, 0, 10)

	if info.TempoBPM != 75.0 {
		t.Errorf("TempoBPM = %v, want 75 for flat signal", info.TempoBPM)
	}
	if len(info.Timestamps) != 13 {
		t.Errorf("got %d beats, want 13", len(info.Timestamps))
	}
}

func TestDetectClipWindowDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "long.wav")
	if err := audio.WriteSilent(path, 30.0, 22050); err != nil {
		t.Fatalf("write wav: %v", err)
	}

	d := NewBeatDetector()
	info := d.Detect(context.Background(), path, 0, 0)

	// Non-positive clip duration caps at 15s.
	if info.TotalDuration != 15.0 {
		t.Errorf("TotalDuration = %v, want 15", info.TotalDuration)
	}
}
