package assets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"shortform/providers"
)

const (
	pixabayVideoURL = "https://pixabay.com/api/videos/"
	pixabayImageURL = "https://pixabay.com/api/"
)

// Pixabay searches the Pixabay stock library.
type Pixabay struct {
	apiKey string
	client *http.Client
}

// NewPixabay creates the backend. An empty key falls back to the
// PIXABAY_API_KEY environment variable.
func NewPixabay(apiKey string) *Pixabay {
	if apiKey == "" {
		apiKey = os.Getenv("PIXABAY_API_KEY")
	}
	return &Pixabay{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Pixabay) Name() string    { return "pixabay" }
func (p *Pixabay) Available() bool { return p.apiKey != "" }

type pixabayVariant struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type pixabayVideoHit struct {
	ID           int64   `json:"id"`
	Duration     float64 `json:"duration"`
	Tags         string  `json:"tags"`
	UserImageURL string  `json:"userImageURL"`
	Videos       struct {
		Large  pixabayVariant `json:"large"`
		Medium pixabayVariant `json:"medium"`
	} `json:"videos"`
}

type pixabayImageHit struct {
	ID            int64  `json:"id"`
	Tags          string `json:"tags"`
	ImageWidth    int    `json:"imageWidth"`
	ImageHeight   int    `json:"imageHeight"`
	LargeImageURL string `json:"largeImageURL"`
	PreviewURL    string `json:"previewURL"`
}

func (p *Pixabay) SearchVideos(ctx context.Context, query string, limit int) ([]Clip, error) {
	if !p.Available() {
		return nil, providers.Unavailable(p.Name(), "PIXABAY_API_KEY not set")
	}
	var body struct {
		Hits []pixabayVideoHit `json:"hits"`
	}
	params := url.Values{
		"key":        {p.apiKey},
		"q":          {query},
		"video_type": {"all"},
		"per_page":   {strconv.Itoa(limit)},
	}
	if err := p.get(ctx, pixabayVideoURL, params, &body); err != nil {
		return nil, err
	}

	clips := make([]Clip, 0, len(body.Hits))
	for _, h := range body.Hits {
		variant := h.Videos.Large
		if variant.URL == "" {
			variant = h.Videos.Medium
		}
		if variant.URL == "" {
			continue
		}
		clips = append(clips, Clip{
			ID:         fmt.Sprintf("pixabay_%d", h.ID),
			URL:        variant.URL,
			PreviewURL: h.UserImageURL,
			Width:      variant.Width,
			Height:     variant.Height,
			Duration:   h.Duration,
			Source:     p.Name(),
			Keywords:   splitTags(h.Tags),
		})
	}
	return clips, nil
}

func (p *Pixabay) SearchImages(ctx context.Context, query string, limit int) ([]Clip, error) {
	if !p.Available() {
		return nil, providers.Unavailable(p.Name(), "PIXABAY_API_KEY not set")
	}
	var body struct {
		Hits []pixabayImageHit `json:"hits"`
	}
	params := url.Values{
		"key":      {p.apiKey},
		"q":        {query},
		"per_page": {strconv.Itoa(limit)},
	}
	if err := p.get(ctx, pixabayImageURL, params, &body); err != nil {
		return nil, err
	}

	clips := make([]Clip, 0, len(body.Hits))
	for _, h := range body.Hits {
		if h.LargeImageURL == "" {
			continue
		}
		clips = append(clips, Clip{
			ID:         fmt.Sprintf("pixabay_%d", h.ID),
			URL:        h.LargeImageURL,
			PreviewURL: h.PreviewURL,
			Width:      h.ImageWidth,
			Height:     h.ImageHeight,
			Source:     p.Name(),
			Keywords:   splitTags(h.Tags),
		})
	}
	return clips, nil
}

func (p *Pixabay) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return &providers.Error{Provider: p.Name(), Message: "request failed", Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return providers.Errorf(p.Name(), "status %d from %s", resp.StatusCode, endpoint)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &providers.Error{Provider: p.Name(), Message: "decode response", Err: err}
	}
	return nil
}

func splitTags(tags string) []string {
	parts := strings.Split(tags, ",")
	out := make([]string, 0, len(parts))
	for _, t := range parts {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
