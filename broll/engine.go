package broll

import (
	"container/list"
	"context"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"shortform/config"
	"shortform/providers/assets"
	"shortform/providers/timestamps"
)

const queryCacheCap = 128

// Segment is one transcript span under consideration for footage.
type Segment struct {
	Text     string
	Start    float64
	End      float64
	Keywords []string
	Clip     *assets.Clip
}

// Composition is the matched footage plan for one transcript.
type Composition struct {
	Segments      []Segment
	Clips         []assets.Clip
	TotalDuration float64
	// Coverage is the fraction of segments that received a clip.
	Coverage float64
}

// Engine matches transcript segments to stock clips through an assets
// provider, caching search results per query.
type Engine struct {
	provider assets.Provider
	ranker   *KeywordRanker
	client   *http.Client

	mu    sync.Mutex
	cache map[string]*list.Element
	order *list.List
}

type cacheEntry struct {
	query string
	clips []assets.Clip
}

// NewEngine creates an engine over the given provider. A nil ranker disables
// semantic keyword reordering.
func NewEngine(provider assets.Provider, ranker *KeywordRanker) *Engine {
	return &Engine{
		provider: provider,
		ranker:   ranker,
		client:   &http.Client{Timeout: 120 * time.Second},
		cache:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

// ProcessTranscript groups timed subtitle lines into segments, keywords each
// one, and searches for a matching clip per segment.
func (e *Engine) ProcessTranscript(ctx context.Context, subtitles []timestamps.Segment, minSegmentDuration float64, maxClipsPerSegment int) Composition {
	segments := groupSegments(subtitles, minSegmentDuration)

	transcript := joinTexts(subtitles)
	for i := range segments {
		keywords := SegmentKeywords(segments[i].Text)
		segments[i].Keywords = e.ranker.Rank(ctx, transcript, keywords)
	}

	var allClips []assets.Clip
	matched := 0
	seen := make(map[string]struct{})

	for i := range segments {
		seg := &segments[i]
		if len(seg.Keywords) == 0 {
			continue
		}
		n := len(seg.Keywords)
		if n > 3 {
			n = 3
		}
		query := strings.Join(seg.Keywords[:n], " ")

		clips := e.search(ctx, query, maxClipsPerSegment)
		if len(clips) == 0 {
			continue
		}
		best := selectBestClip(clips, seg.End-seg.Start)
		seg.Clip = &best
		matched++
		if _, dup := seen[best.ID]; !dup {
			seen[best.ID] = struct{}{}
			allClips = append(allClips, best)
		}
	}

	var totalDuration float64
	for _, s := range segments {
		totalDuration += s.End - s.Start
	}
	coverage := 0.0
	if len(segments) > 0 {
		coverage = float64(matched) / float64(len(segments))
	}

	return Composition{
		Segments:      segments,
		Clips:         allClips,
		TotalDuration: totalDuration,
		Coverage:      coverage,
	}
}

// search consults the bounded LRU query cache before hitting the provider.
func (e *Engine) search(ctx context.Context, query string, limit int) []assets.Clip {
	e.mu.Lock()
	if elem, ok := e.cache[query]; ok {
		e.order.MoveToFront(elem)
		clips := elem.Value.(*cacheEntry).clips
		e.mu.Unlock()
		return clips
	}
	e.mu.Unlock()

	clips, err := e.provider.SearchVideos(ctx, query, limit)
	if err != nil {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if elem, ok := e.cache[query]; ok {
		e.order.MoveToFront(elem)
		return elem.Value.(*cacheEntry).clips
	}
	elem := e.order.PushFront(&cacheEntry{query: query, clips: clips})
	e.cache[query] = elem
	for e.order.Len() > queryCacheCap {
		oldest := e.order.Back()
		e.order.Remove(oldest)
		delete(e.cache, oldest.Value.(*cacheEntry).query)
	}
	return clips
}

// DownloadAll materializes every clip in the composition into the work
// directory and returns how many succeeded.
func (e *Engine) DownloadAll(ctx context.Context, comp *Composition) int {
	dir := config.WorkDir()
	downloaded := 0
	for i, clip := range comp.Clips {
		if clip.LocalPath != "" {
			if _, err := os.Stat(clip.LocalPath); err == nil {
				downloaded++
				continue
			}
		}
		got, err := assets.Materialize(ctx, e.client, clip, dir)
		if err != nil {
			continue
		}
		comp.Clips[i] = got
		downloaded++
	}
	return downloaded
}

// groupSegments merges subtitles separated by less than half a second and
// drops spans shorter than minDuration.
func groupSegments(subtitles []timestamps.Segment, minDuration float64) []Segment {
	var segments []Segment
	var text string
	start, end := 0.0, 0.0
	open := false

	flush := func() {
		if open && end-start >= minDuration {
			segments = append(segments, Segment{
				Text:  strings.TrimSpace(text),
				Start: start,
				End:   end,
			})
		}
	}

	for _, sub := range subtitles {
		if !open {
			start, end, text = sub.Start, sub.End, sub.Text
			open = true
			continue
		}
		if sub.Start-end < 0.5 {
			text += " " + sub.Text
			end = sub.End
			continue
		}
		flush()
		start, end, text = sub.Start, sub.End, sub.Text
	}
	flush()
	return segments
}

// selectBestClip scores clips on duration match, resolution, and vertical
// orientation.
func selectBestClip(clips []assets.Clip, segmentDuration float64) assets.Clip {
	best := clips[0]
	bestScore := -1.0
	for _, c := range clips {
		if s := scoreClip(c, segmentDuration); s > bestScore {
			bestScore = s
			best = c
		}
	}
	return best
}

func scoreClip(c assets.Clip, segmentDuration float64) float64 {
	score := 0.0

	if c.Duration > 0 {
		diff := c.Duration - segmentDuration
		if diff < 0 {
			diff = -diff
		}
		if ds := 40 - diff*5; ds > 0 {
			score += ds
		}
	}

	if c.Width > 0 && c.Height > 0 {
		quality := float64(c.Width*c.Height) / 100000
		if quality > 30 {
			quality = 30
		}
		score += quality
	}

	if c.Height > c.Width {
		score += 30
	} else if c.Width > 0 {
		score += float64(c.Height) / float64(c.Width) * 20
	}

	return score
}

func joinTexts(subtitles []timestamps.Segment) string {
	texts := make([]string, 0, len(subtitles))
	for _, s := range subtitles {
		texts = append(texts, s.Text)
	}
	return strings.Join(texts, " ")
}
