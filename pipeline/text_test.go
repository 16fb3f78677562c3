package pipeline

import (
	"context"
	"strings"
	"testing"

	timestamps "shortform/providers/timestamps"
)

func textTestDeps(t *testing.T) (Deps, *fakeAssets) {
	t.Helper()
	assets := newFakeAssets(2)
	return Deps{
		Voice:      &fakeVoice{dir: t.TempDir(), duration: 8.0},
		Assets:     assets,
		Timestamps: timestamps.NewHeuristic(),
		Media:      &fakeMedia{},
	}, assets
}

func TestTextPrepare(t *testing.T) {
	deps, _ := textTestDeps(t)
	cfg := DefaultTextConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewText(cfg, deps).Prepare(context.Background(),
		"Hello world. This is a test of video generation.", "", "cinematic", "en")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if !strings.HasPrefix(result.JobID, "text_") {
		t.Errorf("JobID = %q, want text_ prefix", result.JobID)
	}
	if result.TotalDuration != 8.0 {
		t.Errorf("TotalDuration = %v, want 8 (speech length)", result.TotalDuration)
	}
	if result.ScenesCount < 3 || result.ScenesCount > 6 {
		t.Errorf("ScenesCount = %d, want 3..6", result.ScenesCount)
	}
	if result.WordsCount == 0 {
		t.Error("no words in timing")
	}

	scenes := result.Job.Script.Scenes
	if len(scenes) != result.ScenesCount {
		t.Fatalf("script has %d scenes, result says %d", len(scenes), result.ScenesCount)
	}
	// Scenes tile the full duration: increasing, contiguous, last ends at total.
	if scenes[0].StartTime != 0 {
		t.Errorf("first scene starts at %v, want 0", scenes[0].StartTime)
	}
	for i := 1; i < len(scenes); i++ {
		if scenes[i].StartTime != scenes[i-1].EndTime {
			t.Errorf("scene %d not contiguous: %v != %v", i, scenes[i].StartTime, scenes[i-1].EndTime)
		}
		if scenes[i].TransitionIn != "crossfade" {
			t.Errorf("scene %d missing crossfade", i)
		}
	}
	if last := scenes[len(scenes)-1]; last.EndTime != 8.0 {
		t.Errorf("last scene ends at %v, want 8", last.EndTime)
	}
	for i, sc := range scenes {
		if sc.BackgroundPath == "" {
			t.Errorf("scene %d has no background", i)
		}
	}

	if result.Job.GenerateSRT != true {
		t.Error("text mode defaults to subtitle generation")
	}
	if result.Job.BGMVolumeDB != -20.0 {
		t.Errorf("BGMVolumeDB = %v, want -20", result.Job.BGMVolumeDB)
	}
}

func TestTextPrepareNoAssets(t *testing.T) {
	deps, assets := textTestDeps(t)
	assets.empty = true
	cfg := DefaultTextConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewText(cfg, deps).Prepare(context.Background(),
		"A script without any stock footage available.", "", "cinematic", "en")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	// Scenes still exist even with no assets to draw on.
	if result.ScenesCount < 3 {
		t.Errorf("ScenesCount = %d, want at least 3", result.ScenesCount)
	}
}

func TestTextPrepareKeepsJobID(t *testing.T) {
	deps, _ := textTestDeps(t)
	cfg := DefaultTextConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewText(cfg, deps).Prepare(context.Background(),
		"Keep the caller's identifier intact.", "job_42", "cinematic", "en")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if result.JobID != "job_42" {
		t.Errorf("JobID = %q, want job_42", result.JobID)
	}
	if result.Job.JobID != "job_42" {
		t.Errorf("Job.JobID = %q, want job_42", result.Job.JobID)
	}
}

func TestTextPrepareDegradedVoice(t *testing.T) {
	assets := newFakeAssets(2)
	deps := Deps{
		Voice:      &fakeVoice{dir: t.TempDir(), duration: 6.0, degraded: true},
		Assets:     assets,
		Timestamps: timestamps.NewHeuristic(),
		Media:      &fakeMedia{},
	}
	cfg := DefaultTextConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewText(cfg, deps).Prepare(context.Background(),
		"The placeholder voice still yields a job.", "", "cinematic", "en")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if !result.VoiceDegraded {
		t.Error("VoiceDegraded = false, want true")
	}
}
