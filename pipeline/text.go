package pipeline

import (
	"context"
	"fmt"

	"shortform/audio"
	"shortform/broll"
	"shortform/config"
	"shortform/providers/assets"
	timestamps "shortform/providers/timestamps"
)

// TextConfig tunes the text-to-video pipeline.
type TextConfig struct {
	Width               int
	Height              int
	FPS                 int
	ClipsPerVideo       int
	OutputDir           string
	Lang                string
	GenerateSRT         bool
	VideoBitrate        string
	Preset              string
	SubtitleFontSize    int
	SubtitleColor       string
	SubtitleActiveColor string
}

// DefaultTextConfig returns the standard vertical-video settings.
func DefaultTextConfig() TextConfig {
	return TextConfig{
		Width:               config.VideoWidth,
		Height:              config.VideoHeight,
		FPS:                 config.VideoFPS,
		ClipsPerVideo:       config.ClipsPerVideo,
		OutputDir:           config.OutputDir(),
		Lang:                "ru",
		GenerateSRT:         true,
		VideoBitrate:        config.VideoBitrate,
		Preset:              config.VideoPreset,
		SubtitleFontSize:    config.SubtitleFontSize,
		SubtitleColor:       config.SubtitleColor,
		SubtitleActiveColor: config.SubtitleActiveColor,
	}
}

// TextResult is the prepared render job for one text request.
type TextResult struct {
	JobID         string
	Job           RenderJob
	AudioPath     string
	TotalDuration float64
	ScenesCount   int
	WordsCount    int
	// VoiceDegraded is true when TTS fell back to the placeholder voice.
	VoiceDegraded bool
}

// TextPipeline converts script text into a render job: voice, timestamps,
// keyword-driven assets, scenes, word timing.
type TextPipeline struct {
	cfg  TextConfig
	deps Deps
}

// NewText creates the pipeline.
func NewText(cfg TextConfig, deps Deps) *TextPipeline {
	return &TextPipeline{cfg: cfg, deps: deps}
}

// Prepare runs the full text flow. Provider failures degrade through the
// fallback wrappers; only filesystem-level surprises surface as errors.
func (p *TextPipeline) Prepare(ctx context.Context, text, jobID, style, lang string) (*TextResult, error) {
	if jobID == "" {
		jobID = newJobID("text")
	}
	if lang == "" {
		lang = p.cfg.Lang
	}

	speech, err := p.deps.Voice.Synthesize(ctx, text, lang)
	if err != nil {
		return nil, fmt.Errorf("text pipeline: synthesize voice: %w", err)
	}

	segs, err := p.deps.Timestamps.Extract(ctx, speech.Path, text)
	if err != nil {
		return nil, fmt.Errorf("text pipeline: extract timestamps: %w", err)
	}
	segs = normalizeSegments(segs)

	totalDuration := p.audioDuration(speech.Path, segs)

	keywords := broll.ExtractKeywords(text, style)
	assetPaths := p.gatherAssets(ctx, keywords)

	scenes := p.buildScenes(ctx, assetPaths, totalDuration, segs)
	timing := BuildTiming(segs, totalDuration)

	job := RenderJob{
		JobID:               jobID,
		Script:              buildScript(jobID, "Video "+jobID, scenes, totalDuration),
		AudioPath:           speech.Path,
		Timing:              timing,
		OutputDir:           p.cfg.OutputDir,
		OutputFilename:      config.OutputFilename,
		GenerateSRT:         p.cfg.GenerateSRT,
		VideoWidth:          p.cfg.Width,
		VideoHeight:         p.cfg.Height,
		FPS:                 p.cfg.FPS,
		VideoBitrate:        p.cfg.VideoBitrate,
		Preset:              p.cfg.Preset,
		BGMVolumeDB:         -20.0,
		SubtitleFontSize:    p.cfg.SubtitleFontSize,
		SubtitleColor:       p.cfg.SubtitleColor,
		SubtitleActiveColor: p.cfg.SubtitleActiveColor,
	}

	return &TextResult{
		JobID:         jobID,
		Job:           job,
		AudioPath:     speech.Path,
		TotalDuration: totalDuration,
		ScenesCount:   len(scenes),
		WordsCount:    len(timing.Words),
		VoiceDegraded: speech.Degraded,
	}, nil
}

// audioDuration prefers the timestamp grid's last end, then the WAV header.
func (p *TextPipeline) audioDuration(audioPath string, segs []timestamps.Segment) float64 {
	if len(segs) > 0 {
		max := segs[0].End
		for _, s := range segs[1:] {
			if s.End > max {
				max = s.End
			}
		}
		return max
	}
	if d, err := audio.ProbeDuration(audioPath); err == nil && d > 0 {
		return d
	}
	return 10.0
}

// gatherAssets searches two clips per keyword, short-circuiting once enough
// are collected.
func (p *TextPipeline) gatherAssets(ctx context.Context, keywords []string) []string {
	needed := p.cfg.ClipsPerVideo
	var paths []string
	seen := make(map[string]struct{})

	add := func(clips []assets.Clip) {
		for _, c := range clips {
			path := clipPath(c)
			if path == "" {
				continue
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
			if len(paths) >= needed {
				return
			}
		}
	}

	for _, kw := range keywords {
		if len(paths) >= needed {
			break
		}
		clips, err := p.deps.Assets.SearchVideos(ctx, kw, 2)
		if err != nil {
			continue
		}
		add(clips)
	}

	if len(paths) == 0 {
		if clips, err := p.deps.Assets.SearchVideos(ctx, "background", needed); err == nil {
			add(clips)
		}
	}
	if len(paths) > needed {
		paths = paths[:needed]
	}
	return paths
}

// buildScenes splits the duration into 3..6 even scenes and cycles assets
// across them.
func (p *TextPipeline) buildScenes(ctx context.Context, assetPaths []string, totalDuration float64, segs []timestamps.Segment) []Scene {
	if len(assetPaths) == 0 {
		if clips, err := p.deps.Assets.SearchVideos(ctx, "placeholder", 1); err == nil && len(clips) > 0 {
			assetPaths = []string{clipPath(clips[0])}
		} else {
			assetPaths = []string{""}
		}
	}

	sceneCount := int(totalDuration / 2.0)
	if sceneCount < 3 {
		sceneCount = 3
	}
	if sceneCount > 6 {
		sceneCount = 6
	}
	baseDuration := totalDuration / float64(sceneCount)

	scenes := make([]Scene, 0, sceneCount)
	current := 0.0
	for i := 0; i < sceneCount; i++ {
		end := current + baseDuration
		if i == sceneCount-1 || end > totalDuration {
			end = totalDuration
		}

		scene := Scene{
			SceneID:            fmt.Sprintf("scene_%d", i+1),
			SceneType:          "video",
			BackgroundPath:     assetPaths[i%len(assetPaths)],
			StartTime:          round3(current),
			EndTime:            round3(end),
			Text:               sceneText(segs, current, end),
			TransitionDuration: 0.3,
		}
		if i > 0 {
			scene.TransitionIn = "crossfade"
		}
		scenes = append(scenes, scene)
		current = end
	}
	return scenes
}

func clipPath(c assets.Clip) string {
	if c.LocalPath != "" {
		return c.LocalPath
	}
	return c.URL
}
