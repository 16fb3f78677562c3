// Package assets finds stock media for b-roll. Backends search external
// libraries by keyword; the local backend serves bundled or generated
// placeholder files so a render can always proceed offline.
package assets

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
)

// Clip describes one stock media result.
type Clip struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	PreviewURL string   `json:"preview_url,omitempty"`
	Width      int      `json:"width"`
	Height     int      `json:"height"`
	Duration   float64  `json:"duration"`
	Source     string   `json:"source"`
	Keywords   []string `json:"keywords,omitempty"`
	LocalPath  string   `json:"local_path,omitempty"`
}

// Provider is the stock-media capability contract.
type Provider interface {
	Name() string
	Available() bool
	// SearchVideos returns up to limit video clips matching the query.
	SearchVideos(ctx context.Context, query string, limit int) ([]Clip, error)
	// SearchImages returns up to limit still images matching the query.
	SearchImages(ctx context.Context, query string, limit int) ([]Clip, error)
}

var autoOrder = []string{"pexels", "pixabay"}

// New resolves a provider name. "auto" probes pexels then pixabay and falls
// back to local; unknown names resolve to local.
func New(name string) Provider {
	switch name {
	case "auto":
		return newAuto()
	case "pexels":
		return NewPexels("")
	case "pixabay":
		return NewPixabay("")
	default:
		return NewLocal("")
	}
}

func newAuto() Provider {
	for _, name := range autoOrder {
		var p Provider
		switch name {
		case "pexels":
			p = NewPexels("")
		case "pixabay":
			p = NewPixabay("")
		}
		if p != nil && p.Available() {
			return p
		}
	}
	return NewLocal("")
}

// WithFallback wraps the named provider so searches always return at least
// one clip, degrading to the local backend on error or empty results.
func WithFallback(name string) Provider {
	return &fallback{primary: New(name), local: NewLocal("")}
}

var (
	_ Provider = (*Local)(nil)
	_ Provider = (*Pexels)(nil)
	_ Provider = (*Pixabay)(nil)
	_ Provider = (*fallback)(nil)
)

type fallback struct {
	primary Provider
	local   *Local
}

func (f *fallback) Name() string    { return f.primary.Name() + "+fallback" }
func (f *fallback) Available() bool { return true }

func (f *fallback) SearchVideos(ctx context.Context, query string, limit int) ([]Clip, error) {
	if f.primary.Available() {
		clips, err := f.primary.SearchVideos(ctx, query, limit)
		if err == nil && len(clips) > 0 {
			return clips, nil
		}
		if err != nil {
			log.Printf("assets: %s video search failed, degrading to local: %v", f.primary.Name(), err)
		}
	}
	return f.local.SearchVideos(ctx, query, limit)
}

func (f *fallback) SearchImages(ctx context.Context, query string, limit int) ([]Clip, error) {
	if f.primary.Available() {
		clips, err := f.primary.SearchImages(ctx, query, limit)
		if err == nil && len(clips) > 0 {
			return clips, nil
		}
		if err != nil {
			log.Printf("assets: %s image search failed, degrading to local: %v", f.primary.Name(), err)
		}
	}
	return f.local.SearchImages(ctx, query, limit)
}

// Materialize downloads a clip's media file into dir and returns the clip
// with LocalPath set. Clips that already have a local path pass through.
func Materialize(ctx context.Context, client *http.Client, clip Clip, dir string) (Clip, error) {
	if clip.LocalPath != "" {
		return clip, nil
	}
	if clip.URL == "" {
		return clip, fmt.Errorf("assets: clip %s has no URL", clip.ID)
	}
	if client == nil {
		client = http.DefaultClient
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return clip, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, clip.URL, nil)
	if err != nil {
		return clip, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return clip, fmt.Errorf("assets: download %s: %w", clip.ID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return clip, fmt.Errorf("assets: download %s: status %d", clip.ID, resp.StatusCode)
	}

	ext := filepath.Ext(clip.URL)
	if ext == "" || len(ext) > 5 {
		ext = ".mp4"
	}
	path := filepath.Join(dir, clip.Source+"_"+clip.ID+ext)
	out, err := os.Create(path)
	if err != nil {
		return clip, err
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		os.Remove(path)
		return clip, fmt.Errorf("assets: write %s: %w", path, err)
	}
	clip.LocalPath = path
	return clip, nil
}
