package audio

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteMonoDecode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	samples := make([]float64, 22050)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/22050)
	}
	if err := WriteMono(path, samples, 22050); err != nil {
		t.Fatalf("WriteMono: %v", err)
	}

	track, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if track.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", track.SampleRate)
	}
	if len(track.Samples) != len(samples) {
		t.Fatalf("got %d samples, want %d", len(track.Samples), len(samples))
	}
	if math.Abs(track.Duration-1.0) > 0.001 {
		t.Errorf("Duration = %v, want 1.0", track.Duration)
	}
	// 16-bit quantization error stays below one part in ~32k.
	for i := 0; i < len(samples); i += 1000 {
		if math.Abs(track.Samples[i]-samples[i]) > 0.001 {
			t.Fatalf("sample %d = %v, want %v", i, track.Samples[i], samples[i])
		}
	}
}

func TestProbeDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "silent.wav")
	if err := WriteSilent(path, 3.5, 22050); err != nil {
		t.Fatalf("WriteSilent: %v", err)
	}
	d, err := ProbeDuration(path)
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if math.Abs(d-3.5) > 0.001 {
		t.Errorf("duration = %v, want 3.5", d)
	}
}

func TestProbeDurationNotWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notwav.mp3")
	if err := os.WriteFile(path, []byte("ID3 definitely not a riff header"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ProbeDuration(path); !errors.Is(err, ErrNotWAV) {
		t.Errorf("err = %v, want ErrNotWAV", err)
	}
}

func TestProbeDurationMissingFile(t *testing.T) {
	if _, err := ProbeDuration("/nonexistent/audio.wav"); err == nil {
		t.Error("ProbeDuration succeeded for missing file")
	}
}

func TestDecodeClampsOutOfRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")
	if err := WriteMono(path, []float64{2.0, -2.0, 0}, 22050); err != nil {
		t.Fatalf("WriteMono: %v", err)
	}
	track, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if track.Samples[0] < 0.99 || track.Samples[0] > 1.0 {
		t.Errorf("clipped sample = %v, want ~1.0", track.Samples[0])
	}
	if track.Samples[1] > -0.99 {
		t.Errorf("clipped sample = %v, want ~-1.0", track.Samples[1])
	}
}

func TestWriteSilentZeroSampleRateDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.wav")
	if err := WriteSilent(path, 1.0, 0); err != nil {
		t.Fatalf("WriteSilent: %v", err)
	}
	track, err := Decode(path)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if track.SampleRate != 44100 {
		t.Errorf("SampleRate = %d, want 44100 default", track.SampleRate)
	}
}
