package pipeline

import (
	"context"
	"path/filepath"
	"testing"

	"shortform/audio"
)

func writeSilentWAV(t *testing.T, duration float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "track.wav")
	if err := audio.WriteSilent(path, duration, 22050); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func musicTestDeps(t *testing.T) (Deps, *fakeMedia) {
	t.Helper()
	media := &fakeMedia{probeDuration: 10}
	return Deps{
		Assets:     newFakeAssets(3),
		Timestamps: &fakeTimestamps{},
		Media:      media,
	}, media
}

func TestMusicPrepareFallbackGrid(t *testing.T) {
	path := writeSilentWAV(t, 30.0)
	deps, media := musicTestDeps(t)
	cfg := DefaultMusicConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewMusic(cfg, deps).Prepare(context.Background(), path, "", "cinematic", 10, 0)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	// A flat track yields the fixed 0.8s grid: 13 beats over 10s at 75 BPM.
	if result.BeatsCount != 13 {
		t.Errorf("BeatsCount = %d, want 13", result.BeatsCount)
	}
	if result.TempoBPM != 75.0 {
		t.Errorf("TempoBPM = %v, want 75", result.TempoBPM)
	}
	if result.TotalDuration != 10.0 {
		t.Errorf("TotalDuration = %v, want 10", result.TotalDuration)
	}

	// 13 beats grouped two per scene gives six intervals.
	if result.ScenesCount != 6 {
		t.Errorf("ScenesCount = %d, want 6", result.ScenesCount)
	}

	if result.Job.GenerateSRT {
		t.Error("music mode must not generate subtitles")
	}
	if len(result.Job.Timing.Words) != 0 {
		t.Errorf("music mode timing has %d words, want 0", len(result.Job.Timing.Words))
	}

	if len(media.trimCalls) != 1 {
		t.Fatalf("trim called %d times, want 1", len(media.trimCalls))
	}
	if media.trimCalls[0].start != 0 || media.trimCalls[0].duration != 10 {
		t.Errorf("trim window = %+v, want {0 10}", media.trimCalls[0])
	}
}

func TestMusicPrepareSceneEffects(t *testing.T) {
	path := writeSilentWAV(t, 30.0)
	deps, _ := musicTestDeps(t)
	cfg := DefaultMusicConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewMusic(cfg, deps).Prepare(context.Background(), path, "", "dark", 10, 0)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	scenes := result.Job.Script.Scenes
	for i, sc := range scenes {
		hasZoom := false
		hasFlash := false
		for _, e := range sc.Effects {
			switch e.Type {
			case "zoom":
				hasZoom = true
			case "flash":
				hasFlash = true
			}
		}
		if (i%2 == 0) != hasZoom {
			t.Errorf("scene %d zoom = %v, want %v", i, hasZoom, i%2 == 0)
		}
		if (i%4 == 0) != hasFlash {
			t.Errorf("scene %d flash = %v, want %v", i, hasFlash, i%4 == 0)
		}
		if i > 0 && sc.TransitionIn != "crossfade" {
			t.Errorf("scene %d missing crossfade", i)
		}
	}
}

func TestMusicPrepareMissingFile(t *testing.T) {
	deps, _ := musicTestDeps(t)
	cfg := DefaultMusicConfig()
	cfg.OutputDir = t.TempDir()

	if _, err := NewMusic(cfg, deps).Prepare(context.Background(), "/nonexistent/track.mp3", "", "cinematic", 10, 0); err == nil {
		t.Fatal("Prepare succeeded for missing audio file")
	}
}

func TestMusicPrepareTrimFailureDegrades(t *testing.T) {
	path := writeSilentWAV(t, 30.0)
	deps, media := musicTestDeps(t)
	media.trimErr = context.DeadlineExceeded
	cfg := DefaultMusicConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewMusic(cfg, deps).Prepare(context.Background(), path, "", "cinematic", 10, 0)
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	// Trim failure falls back to the untrimmed source.
	if result.AudioPath != path {
		t.Errorf("AudioPath = %q, want source %q", result.AudioPath, path)
	}
}
