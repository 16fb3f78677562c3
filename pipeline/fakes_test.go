package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"shortform/audio"
	"shortform/providers/assets"
	timestamps "shortform/providers/timestamps"
	"shortform/providers/voice"
)

// fakeVoice writes a silent WAV of fixed duration for every request.
type fakeVoice struct {
	dir      string
	duration float64
	degraded bool
	err      error
}

func (f *fakeVoice) Name() string    { return "fake" }
func (f *fakeVoice) Available() bool { return true }

func (f *fakeVoice) Synthesize(_ context.Context, text, lang string) (voice.Speech, error) {
	if f.err != nil {
		return voice.Speech{}, f.err
	}
	path := filepath.Join(f.dir, "speech.wav")
	if err := audio.WriteSilent(path, f.duration, 22050); err != nil {
		return voice.Speech{}, err
	}
	return voice.Speech{Path: path, Provider: "fake", Degraded: f.degraded}, nil
}

// fakeAssets serves deterministic clip URLs and counts searches per query.
type fakeAssets struct {
	perQuery int
	searches map[string]int
	empty    bool
}

func newFakeAssets(perQuery int) *fakeAssets {
	return &fakeAssets{perQuery: perQuery, searches: make(map[string]int)}
}

func (f *fakeAssets) Name() string    { return "fake" }
func (f *fakeAssets) Available() bool { return true }

func (f *fakeAssets) SearchVideos(_ context.Context, query string, limit int) ([]assets.Clip, error) {
	f.searches[query]++
	if f.empty {
		return nil, nil
	}
	n := f.perQuery
	if n > limit {
		n = limit
	}
	clips := make([]assets.Clip, 0, n)
	for i := 0; i < n; i++ {
		clips = append(clips, assets.Clip{
			ID:       fmt.Sprintf("%s-%d", query, i),
			URL:      fmt.Sprintf("https://clips.test/%s_%d.mp4", query, i),
			Width:    1080,
			Height:   1920,
			Duration: 12,
			Source:   "fake",
		})
	}
	return clips, nil
}

func (f *fakeAssets) SearchImages(ctx context.Context, query string, limit int) ([]assets.Clip, error) {
	return f.SearchVideos(ctx, query, limit)
}

// fakeTimestamps returns preset segments, or an even split when unset.
type fakeTimestamps struct {
	segs []timestamps.Segment
}

func (f *fakeTimestamps) Name() string    { return "fake" }
func (f *fakeTimestamps) Available() bool { return true }

func (f *fakeTimestamps) Extract(_ context.Context, audioPath, text string) ([]timestamps.Segment, error) {
	if f.segs != nil {
		return f.segs, nil
	}
	d, err := audio.ProbeDuration(audioPath)
	if err != nil || d <= 0 {
		d = 10.0
	}
	return []timestamps.Segment{{Start: 0, End: d, Text: text}}, nil
}

// fakeMedia satisfies the media tool by writing silent WAVs and empty video
// files. Failures are switchable per operation.
type fakeMedia struct {
	probeDuration float64
	probeErr      error
	extractErr    error
	trimErr       error
	cropErr       error

	trimCalls []trimCall
}

type trimCall struct {
	start    float64
	duration float64
}

func (f *fakeMedia) ProbeDuration(_ context.Context, path string) (float64, error) {
	if f.probeErr != nil {
		return 0, f.probeErr
	}
	return f.probeDuration, nil
}

func (f *fakeMedia) ExtractAudio(_ context.Context, videoPath, outPath string) error {
	if f.extractErr != nil {
		return f.extractErr
	}
	return audio.WriteSilent(outPath, f.probeDuration, 22050)
}

func (f *fakeMedia) ExtractAudioSegment(_ context.Context, videoPath, outPath string, start, duration float64) error {
	return audio.WriteSilent(outPath, duration, 22050)
}

func (f *fakeMedia) TrimAudio(_ context.Context, audioPath, outPath string, start, duration float64) error {
	if f.trimErr != nil {
		return f.trimErr
	}
	f.trimCalls = append(f.trimCalls, trimCall{start: start, duration: duration})
	return audio.WriteSilent(outPath, duration, 22050)
}

func (f *fakeMedia) CropVertical(_ context.Context, videoPath, outPath string, start, duration float64, width, height int) error {
	if f.cropErr != nil {
		return f.cropErr
	}
	return os.WriteFile(outPath, []byte("video"), 0o644)
}

func (f *fakeMedia) TranscodeToWAV(_ context.Context, src string) (string, error) {
	return src, nil
}
