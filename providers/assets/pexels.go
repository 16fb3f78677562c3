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
	pexelsVideoURL = "https://api.pexels.com/videos/search"
	pexelsPhotoURL = "https://api.pexels.com/v1/search"
)

// Pexels searches the Pexels stock library.
type Pexels struct {
	apiKey string
	client *http.Client
}

// NewPexels creates the backend. An empty key falls back to the
// PEXELS_API_KEY environment variable.
func NewPexels(apiKey string) *Pexels {
	if apiKey == "" {
		apiKey = os.Getenv("PEXELS_API_KEY")
	}
	return &Pexels{
		apiKey: apiKey,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *Pexels) Name() string    { return "pexels" }
func (p *Pexels) Available() bool { return p.apiKey != "" }

type pexelsVideoFile struct {
	Link   string `json:"link"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type pexelsVideo struct {
	ID         int64             `json:"id"`
	Image      string            `json:"image"`
	Duration   float64           `json:"duration"`
	VideoFiles []pexelsVideoFile `json:"video_files"`
}

type pexelsPhoto struct {
	ID     int64 `json:"id"`
	Width  int   `json:"width"`
	Height int   `json:"height"`
	Src    struct {
		Large2x string `json:"large2x"`
		Medium  string `json:"medium"`
	} `json:"src"`
}

func (p *Pexels) SearchVideos(ctx context.Context, query string, limit int) ([]Clip, error) {
	if !p.Available() {
		return nil, providers.Unavailable(p.Name(), "PEXELS_API_KEY not set")
	}
	var body struct {
		Videos []pexelsVideo `json:"videos"`
	}
	params := url.Values{
		"query":       {query},
		"orientation": {"portrait"},
		"per_page":    {strconv.Itoa(limit)},
	}
	if err := p.get(ctx, pexelsVideoURL, params, &body); err != nil {
		return nil, err
	}

	clips := make([]Clip, 0, len(body.Videos))
	for _, v := range body.Videos {
		best, ok := bestVideoFile(v.VideoFiles)
		if !ok {
			continue
		}
		clips = append(clips, Clip{
			ID:         fmt.Sprintf("pexels_%d", v.ID),
			URL:        best.Link,
			PreviewURL: v.Image,
			Width:      best.Width,
			Height:     best.Height,
			Duration:   v.Duration,
			Source:     p.Name(),
			Keywords:   strings.Fields(query),
		})
	}
	return clips, nil
}

func (p *Pexels) SearchImages(ctx context.Context, query string, limit int) ([]Clip, error) {
	if !p.Available() {
		return nil, providers.Unavailable(p.Name(), "PEXELS_API_KEY not set")
	}
	var body struct {
		Photos []pexelsPhoto `json:"photos"`
	}
	params := url.Values{
		"query":       {query},
		"orientation": {"portrait"},
		"per_page":    {strconv.Itoa(limit)},
	}
	if err := p.get(ctx, pexelsPhotoURL, params, &body); err != nil {
		return nil, err
	}

	clips := make([]Clip, 0, len(body.Photos))
	for _, ph := range body.Photos {
		u := ph.Src.Large2x
		if u == "" {
			u = ph.Src.Medium
		}
		if u == "" {
			continue
		}
		clips = append(clips, Clip{
			ID:         fmt.Sprintf("pexels_%d", ph.ID),
			URL:        u,
			PreviewURL: ph.Src.Medium,
			Width:      ph.Width,
			Height:     ph.Height,
			Source:     p.Name(),
			Keywords:   strings.Fields(query),
		})
	}
	return clips, nil
}

func (p *Pexels) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", p.apiKey)

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

// bestVideoFile prefers vertical files, then picks the highest resolution
// that is not beyond 4K.
func bestVideoFile(files []pexelsVideoFile) (pexelsVideoFile, bool) {
	if len(files) == 0 {
		return pexelsVideoFile{}, false
	}
	vertical := make([]pexelsVideoFile, 0, len(files))
	for _, f := range files {
		if f.Height > f.Width {
			vertical = append(vertical, f)
		}
	}
	if len(vertical) > 0 {
		files = vertical
	}

	best := files[0]
	for _, f := range files[1:] {
		if f.Width*f.Height > best.Width*best.Height {
			best = f
		}
	}
	if best.Width > 3840 || best.Height > 2160 {
		capped := pexelsVideoFile{}
		for _, f := range files {
			if f.Width <= 3840 && f.Height <= 2160 && f.Width*f.Height > capped.Width*capped.Height {
				capped = f
			}
		}
		if capped.Link != "" {
			best = capped
		}
	}
	return best, true
}
