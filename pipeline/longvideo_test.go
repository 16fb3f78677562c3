package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shortform/analysis"
	timestamps "shortform/providers/timestamps"
)

func longTestDeps(t *testing.T, sourceDuration float64) (Deps, *fakeMedia) {
	t.Helper()
	media := &fakeMedia{probeDuration: sourceDuration}
	return Deps{
		Assets:     newFakeAssets(2),
		Timestamps: timestamps.NewHeuristic(),
		Media:      media,
		Silence:    analysis.NewSilenceDetector(),
	}, media
}

func longTestConfig(t *testing.T) LongVideoConfig {
	t.Helper()
	cfg := DefaultLongVideoConfig()
	cfg.OutputDir = t.TempDir()
	cfg.WorkDir = t.TempDir()
	return cfg
}

func writeFakeVideo(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "source.mp4")
	if err := os.WriteFile(path, []byte("video"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}
	return path
}

func TestLongVideoPrepareFixedWindows(t *testing.T) {
	video := writeFakeVideo(t)
	deps, _ := longTestDeps(t, 90)
	cfg := longTestConfig(t)

	result, err := NewLongVideo(cfg, deps).Prepare(context.Background(), video, "", "education")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}

	if result.SourceDuration != 90 {
		t.Errorf("SourceDuration = %v, want 90", result.SourceDuration)
	}
	// Silent source audio has no silence-exit points, so the segmenter
	// slides fixed windows capped at MaxClips.
	if result.ClipsCount < 1 || result.ClipsCount > cfg.MaxClips {
		t.Fatalf("ClipsCount = %d, want 1..%d", result.ClipsCount, cfg.MaxClips)
	}
	if len(result.Clips) != result.ClipsCount {
		t.Fatalf("Clips len %d != ClipsCount %d", len(result.Clips), result.ClipsCount)
	}

	for i, clip := range result.Clips {
		if clip.ClipIndex != i {
			t.Errorf("clip %d has index %d", i, clip.ClipIndex)
		}
		wantID := fmt.Sprintf("%s_clip_%02d", result.BatchID, i)
		if clip.ClipID != wantID {
			t.Errorf("clip %d ID = %q, want %q", i, clip.ClipID, wantID)
		}
		length := clip.End - clip.Start
		if length < cfg.MinClipLength-0.001 || length > cfg.MaxClipLength+0.001 {
			t.Errorf("clip %d length %v outside [%v, %v]", i, length, cfg.MinClipLength, cfg.MaxClipLength)
		}

		// Each clip renders as a single full-span scene over the crop.
		scenes := clip.Job.Script.Scenes
		if len(scenes) != 1 {
			t.Fatalf("clip %d has %d scenes, want 1", i, len(scenes))
		}
		if scenes[0].StartTime != 0 || scenes[0].EndTime != round3(length) {
			t.Errorf("clip %d scene = [%v, %v], want [0, %v]", i, scenes[0].StartTime, scenes[0].EndTime, round3(length))
		}
		if scenes[0].BackgroundPath != clip.CroppedVideoPath {
			t.Errorf("clip %d scene background %q != cropped path %q", i, scenes[0].BackgroundPath, clip.CroppedVideoPath)
		}

		if len(clip.Subtitles) == 0 {
			t.Errorf("clip %d has no subtitles", i)
		}
		if clip.SRTPath == "" {
			t.Errorf("clip %d has no SRT path", i)
		} else if _, err := os.Stat(clip.SRTPath); err != nil {
			t.Errorf("clip %d SRT not written: %v", i, err)
		}
		if !strings.HasSuffix(clip.Job.OutputFilename, fmt.Sprintf("clip_%02d.mp4", i)) {
			t.Errorf("clip %d output filename = %q", i, clip.Job.OutputFilename)
		}
	}
}

func TestLongVideoPrepareTooShort(t *testing.T) {
	video := writeFakeVideo(t)
	deps, _ := longTestDeps(t, 5)
	cfg := longTestConfig(t)

	if _, err := NewLongVideo(cfg, deps).Prepare(context.Background(), video, "", "education"); err == nil {
		t.Fatal("Prepare succeeded for a 5s source")
	}
}

func TestLongVideoPrepareExtractFailureFatal(t *testing.T) {
	video := writeFakeVideo(t)
	deps, media := longTestDeps(t, 90)
	media.extractErr = os.ErrPermission
	cfg := longTestConfig(t)

	if _, err := NewLongVideo(cfg, deps).Prepare(context.Background(), video, "", "education"); err == nil {
		t.Fatal("Prepare succeeded despite audio extraction failure")
	}
}

func TestLongVideoPrepareKeepsBatchID(t *testing.T) {
	video := writeFakeVideo(t)
	deps, _ := longTestDeps(t, 60)
	cfg := longTestConfig(t)
	cfg.MaxClips = 2

	result, err := NewLongVideo(cfg, deps).Prepare(context.Background(), video, "batch_7", "education")
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if result.BatchID != "batch_7" {
		t.Errorf("BatchID = %q, want batch_7", result.BatchID)
	}
	if result.ClipsCount > 2 {
		t.Errorf("ClipsCount = %d, want at most 2", result.ClipsCount)
	}
	for _, clip := range result.Clips {
		if !strings.HasPrefix(clip.ClipID, "batch_7_clip_") {
			t.Errorf("clip ID = %q, want batch_7_clip_ prefix", clip.ClipID)
		}
	}
}
