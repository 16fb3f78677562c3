package assets

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	videoExts = []string{".mp4", ".mov", ".avi", ".webm"}
	imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}
)

// minimalMP4 is a structurally valid empty MP4 container (ftyp + free +
// empty mdat). Enough for downstream tooling to recognize the file type.
var minimalMP4 = []byte{
	0x00, 0x00, 0x00, 0x1C, 0x66, 0x74, 0x79, 0x70,
	0x69, 0x73, 0x6F, 0x6D, 0x00, 0x00, 0x02, 0x00,
	0x69, 0x73, 0x6F, 0x6D, 0x69, 0x73, 0x6F, 0x32,
	0x6D, 0x70, 0x34, 0x31,
	0x00, 0x00, 0x00, 0x08, 0x66, 0x72, 0x65, 0x65,
	0x00, 0x00, 0x00, 0x00, 0x6D, 0x64, 0x61, 0x74,
}

// Local serves media from a filesystem directory and generates placeholder
// files when the directory is empty. Always available.
type Local struct {
	videosDir string
	imagesDir string
}

// NewLocal creates the local backend rooted at dir. An empty dir defaults to
// ASSETS_DIR or a temp subdirectory.
func NewLocal(dir string) *Local {
	if dir == "" {
		dir = os.Getenv("ASSETS_DIR")
	}
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "shortform_assets")
	}
	return &Local{
		videosDir: filepath.Join(dir, "videos"),
		imagesDir: filepath.Join(dir, "images"),
	}
}

func (l *Local) Name() string    { return "local" }
func (l *Local) Available() bool { return true }

func (l *Local) SearchVideos(_ context.Context, query string, limit int) ([]Clip, error) {
	paths := findMediaFiles(l.videosDir, videoExts)
	if len(paths) == 0 {
		placeholder, err := l.placeholderVideo()
		if err != nil {
			return nil, err
		}
		paths = []string{placeholder}
	}
	return l.toClips(paths, query, limit), nil
}

func (l *Local) SearchImages(_ context.Context, query string, limit int) ([]Clip, error) {
	paths := findMediaFiles(l.imagesDir, imageExts)
	if len(paths) == 0 {
		placeholder, err := l.placeholderImage()
		if err != nil {
			return nil, err
		}
		paths = []string{placeholder}
	}
	return l.toClips(paths, query, limit), nil
}

func (l *Local) toClips(paths []string, query string, limit int) []Clip {
	if limit > 0 && len(paths) > limit {
		paths = paths[:limit]
	}
	clips := make([]Clip, 0, len(paths))
	for _, p := range paths {
		clips = append(clips, Clip{
			ID:        strings.TrimSuffix(filepath.Base(p), filepath.Ext(p)),
			Source:    l.Name(),
			Keywords:  []string{query},
			LocalPath: p,
		})
	}
	return clips
}

func findMediaFiles(dir string, exts []string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range exts {
			if ext == want {
				paths = append(paths, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	sort.Strings(paths)
	return paths
}

func (l *Local) placeholderVideo() (string, error) {
	path := filepath.Join(l.videosDir, "placeholder.mp4")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(l.videosDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, minimalMP4, 0o644); err != nil {
		return "", fmt.Errorf("assets: write placeholder video: %w", err)
	}
	return path, nil
}

func (l *Local) placeholderImage() (string, error) {
	path := filepath.Join(l.imagesDir, "placeholder.png")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}
	if err := os.MkdirAll(l.imagesDir, 0o755); err != nil {
		return "", err
	}

	img := image.NewRGBA(image.Rect(0, 0, 1080, 1920))
	dark := color.RGBA{R: 0x1A, G: 0x1A, B: 0x1A, A: 0xFF}
	for y := 0; y < 1920; y++ {
		for x := 0; x < 1080; x++ {
			img.SetRGBA(x, y, dark)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return "", fmt.Errorf("assets: write placeholder image: %w", err)
	}
	return path, nil
}
