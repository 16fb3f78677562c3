package pipeline

import (
	"context"
	"strings"
	"testing"

	timestamps "shortform/providers/timestamps"
)

func TestAudioPrepare(t *testing.T) {
	path := writeSilentWAV(t, 20.0)
	deps := Deps{
		Assets:     newFakeAssets(3),
		Timestamps: timestamps.NewHeuristic(),
		Media:      &fakeMedia{},
	}
	cfg := DefaultAudioConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewAudio(cfg, deps).Prepare(context.Background(), path, "", "podcast", "")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if !strings.HasPrefix(result.JobID, "audio_") {
		t.Errorf("JobID = %q, want audio_ prefix", result.JobID)
	}
	if result.TotalDuration != 20.0 {
		t.Errorf("TotalDuration = %v, want 20 (WAV header)", result.TotalDuration)
	}
	if result.ScenesCount == 0 {
		t.Fatal("no scenes built")
	}
	// Placeholder transcript produces words to time against.
	if result.WordsCount == 0 {
		t.Error("no words in timing")
	}

	scenes := result.Job.Script.Scenes
	if scenes[0].StartTime != 0 {
		t.Errorf("first scene starts at %v, want 0", scenes[0].StartTime)
	}
	if last := scenes[len(scenes)-1]; last.EndTime != 20.0 {
		t.Errorf("last scene ends at %v, want 20", last.EndTime)
	}
	for i, sc := range scenes {
		length := sc.EndTime - sc.StartTime
		// The final scene is stretched to the total and may exceed the
		// window; every other scene respects the 3..8s bounds.
		if i < len(scenes)-1 && (length < cfg.SceneDurationMin-0.001 || length > cfg.SceneDurationMax+0.001) {
			t.Errorf("scene %d length %v outside [%v, %v]", i, length, cfg.SceneDurationMin, cfg.SceneDurationMax)
		}
	}

	if result.Job.AudioPath != path {
		t.Errorf("AudioPath = %q, want source %q", result.Job.AudioPath, path)
	}
}

func TestAudioPrepareWithTranscript(t *testing.T) {
	path := writeSilentWAV(t, 12.0)
	deps := Deps{
		Assets:     newFakeAssets(3),
		Timestamps: timestamps.NewHeuristic(),
		Media:      &fakeMedia{},
	}
	cfg := DefaultAudioConfig()
	cfg.OutputDir = t.TempDir()

	result, err := NewAudio(cfg, deps).Prepare(context.Background(), path, "", "news",
		"Breaking news from the studio. More details follow shortly.")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	// Nine transcript words drive the timing.
	if result.WordsCount != 9 {
		t.Errorf("WordsCount = %d, want 9", result.WordsCount)
	}
}

func TestAudioPrepareMissingFile(t *testing.T) {
	deps := Deps{
		Assets:     newFakeAssets(3),
		Timestamps: timestamps.NewHeuristic(),
		Media:      &fakeMedia{},
	}
	cfg := DefaultAudioConfig()
	cfg.OutputDir = t.TempDir()

	if _, err := NewAudio(cfg, deps).Prepare(context.Background(), "/nonexistent/audio.mp3", "", "podcast", ""); err == nil {
		t.Fatal("Prepare succeeded for missing audio file")
	}
}

func TestPlaceholderTranscript(t *testing.T) {
	got := placeholderTranscript(20.0, 5.0, "Segment %d of the audio content.")
	if !strings.Contains(got, "Segment 1 of the audio content.") ||
		!strings.Contains(got, "Segment 4 of the audio content.") {
		t.Errorf("unexpected transcript: %q", got)
	}

	// Short audio still gets three sentences.
	short := placeholderTranscript(2.0, 5.0, "Part %d.")
	if strings.Count(short, ".") != 3 {
		t.Errorf("short transcript = %q, want 3 sentences", short)
	}
}
