package assets

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalSearchVideosFromDirectory(t *testing.T) {
	dir := t.TempDir()
	videos := filepath.Join(dir, "videos")
	if err := os.MkdirAll(videos, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"beach.mp4", "city.mov", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(videos, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	clips, err := NewLocal(dir).SearchVideos(context.Background(), "ocean", 10)
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("got %d clips, want 2 (txt filtered)", len(clips))
	}
	// Directory listing is sorted for determinism.
	if clips[0].ID != "beach" || clips[1].ID != "city" {
		t.Errorf("clip IDs = %q, %q", clips[0].ID, clips[1].ID)
	}
	for _, c := range clips {
		if c.Source != "local" {
			t.Errorf("Source = %q, want local", c.Source)
		}
		if c.LocalPath == "" {
			t.Error("clip has no local path")
		}
	}
}

func TestLocalSearchVideosGeneratesPlaceholder(t *testing.T) {
	clips, err := NewLocal(t.TempDir()).SearchVideos(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(clips) != 1 {
		t.Fatalf("got %d clips, want 1 placeholder", len(clips))
	}
	info, err := os.Stat(clips[0].LocalPath)
	if err != nil {
		t.Fatalf("placeholder not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("placeholder file is empty")
	}
}

func TestLocalSearchImagesGeneratesPlaceholder(t *testing.T) {
	clips, err := NewLocal(t.TempDir()).SearchImages(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("SearchImages: %v", err)
	}
	if len(clips) != 1 {
		t.Fatalf("got %d clips, want 1 placeholder", len(clips))
	}
	if _, err := os.Stat(clips[0].LocalPath); err != nil {
		t.Errorf("placeholder not written: %v", err)
	}
}

func TestLocalSearchVideosRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	videos := filepath.Join(dir, "videos")
	if err := os.MkdirAll(videos, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.mp4", "b.mp4", "c.mp4"} {
		if err := os.WriteFile(filepath.Join(videos, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	clips, err := NewLocal(dir).SearchVideos(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(clips) != 2 {
		t.Errorf("got %d clips, want limit 2", len(clips))
	}
}

func TestFallbackNeverEmpty(t *testing.T) {
	t.Setenv("PEXELS_API_KEY", "")
	t.Setenv("PIXABAY_API_KEY", "")
	t.Setenv("ASSETS_DIR", t.TempDir())

	p := WithFallback("auto")
	if !p.Available() {
		t.Fatal("fallback-wrapped provider reports unavailable")
	}
	clips, err := p.SearchVideos(context.Background(), "sunset", 3)
	if err != nil {
		t.Fatalf("SearchVideos: %v", err)
	}
	if len(clips) == 0 {
		t.Fatal("fallback search returned no clips")
	}
}
