package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"

	"shortform/audio"
	"shortform/config"
	timestamps "shortform/providers/timestamps"
)

// AudioConfig tunes the audio-to-video pipeline.
type AudioConfig struct {
	Width               int
	Height              int
	FPS                 int
	OutputDir           string
	Style               string
	GenerateSRT         bool
	SubtitleFontSize    int
	SubtitleColor       string
	SubtitleActiveColor string
	VideoBitrate        string
	Preset              string
	SceneDurationMin    float64
	SceneDurationMax    float64
}

// DefaultAudioConfig returns the standard podcast-style settings.
func DefaultAudioConfig() AudioConfig {
	return AudioConfig{
		Width:               config.VideoWidth,
		Height:              config.VideoHeight,
		FPS:                 config.VideoFPS,
		OutputDir:           config.OutputDir(),
		Style:               "podcast",
		GenerateSRT:         true,
		SubtitleFontSize:    config.SubtitleFontSize,
		SubtitleColor:       config.SubtitleColor,
		SubtitleActiveColor: config.SubtitleActiveColor,
		VideoBitrate:        config.VideoBitrate,
		Preset:              config.VideoPreset,
		SceneDurationMin:    3.0,
		SceneDurationMax:    8.0,
	}
}

// AudioResult is the prepared render job for one audio request.
type AudioResult struct {
	JobID         string
	Job           RenderJob
	AudioPath     string
	TotalDuration float64
	ScenesCount   int
	WordsCount    int
}

// audioStyleKeywords maps a visual style to asset search queries.
var audioStyleKeywords = map[string][]string{
	"podcast":    {"studio", "microphone", "podcast", "interview"},
	"motivation": {"success", "achievement", "inspiration", "sunrise"},
	"news":       {"city", "office", "business", "professional"},
	"education":  {"book", "study", "classroom", "learning"},
	"story":      {"nature", "landscape", "journey", "adventure"},
	"random":     {"background", "abstract", "motion", "video"},
}

// AudioPipeline converts an existing audio file into a subtitled video
// render job.
type AudioPipeline struct {
	cfg  AudioConfig
	deps Deps
}

// NewAudio creates the pipeline.
func NewAudio(cfg AudioConfig, deps Deps) *AudioPipeline {
	return &AudioPipeline{cfg: cfg, deps: deps}
}

// Prepare runs the full audio flow. When no transcript is given, a
// placeholder one is generated so scene and subtitle timing still work.
func (p *AudioPipeline) Prepare(ctx context.Context, audioPath, jobID, style, transcript string) (*AudioResult, error) {
	if jobID == "" {
		jobID = newJobID("audio")
	}
	if style == "" {
		style = p.cfg.Style
	}

	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("audio pipeline: audio file not found: %s", audioPath)
	}

	duration := p.audioDuration(ctx, audioPath)
	if transcript == "" {
		transcript = placeholderTranscript(duration, 5.0, "Segment %d of the audio content.")
	}

	segs, err := p.deps.Timestamps.Extract(ctx, audioPath, transcript)
	if err != nil {
		return nil, fmt.Errorf("audio pipeline: extract timestamps: %w", err)
	}
	segs = normalizeSegments(segs)

	assetPaths := p.gatherAssets(ctx, style, duration)
	scenes := p.buildScenes(ctx, assetPaths, duration, segs)
	timing := BuildTiming(segs, duration)

	job := RenderJob{
		JobID:               jobID,
		Script:              buildScript(jobID, "Audio Video "+jobID, scenes, duration),
		AudioPath:           audioPath,
		Timing:              timing,
		OutputDir:           p.cfg.OutputDir,
		OutputFilename:      config.OutputFilename,
		GenerateSRT:         p.cfg.GenerateSRT,
		VideoWidth:          p.cfg.Width,
		VideoHeight:         p.cfg.Height,
		FPS:                 p.cfg.FPS,
		VideoBitrate:        p.cfg.VideoBitrate,
		Preset:              p.cfg.Preset,
		SubtitleFontSize:    p.cfg.SubtitleFontSize,
		SubtitleColor:       p.cfg.SubtitleColor,
		SubtitleActiveColor: p.cfg.SubtitleActiveColor,
	}

	return &AudioResult{
		JobID:         jobID,
		Job:           job,
		AudioPath:     audioPath,
		TotalDuration: duration,
		ScenesCount:   len(scenes),
		WordsCount:    len(timing.Words),
	}, nil
}

// audioDuration tries the WAV header, then the media tool probe, then a
// fixed default.
func (p *AudioPipeline) audioDuration(ctx context.Context, audioPath string) float64 {
	if strings.HasSuffix(strings.ToLower(audioPath), ".wav") {
		if d, err := audio.ProbeDuration(audioPath); err == nil && d > 0 {
			return d
		}
	}
	if p.deps.Media != nil {
		if d, err := p.deps.Media.ProbeDuration(ctx, audioPath); err == nil && d > 0 {
			return d
		}
	}
	return 30.0
}

// placeholderTranscript fabricates numbered sentences, one per
// secondsPerSentence of audio, at least three.
func placeholderTranscript(duration, secondsPerSentence float64, format string) string {
	count := int(duration / secondsPerSentence)
	if count < 3 {
		count = 3
	}
	sentences := make([]string, count)
	for i := range sentences {
		sentences[i] = fmt.Sprintf(format, i+1)
	}
	return strings.Join(sentences, " ")
}

func (p *AudioPipeline) gatherAssets(ctx context.Context, style string, duration float64) []string {
	keywords, ok := audioStyleKeywords[style]
	if !ok {
		keywords = audioStyleKeywords["random"]
	}

	needed := int(duration / 5)
	if needed < 3 {
		needed = 3
	}

	var paths []string
	seen := make(map[string]struct{})
	for _, kw := range keywords {
		if len(paths) >= needed {
			break
		}
		clips, err := p.deps.Assets.SearchVideos(ctx, kw, 3)
		if err != nil {
			continue
		}
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
		}
	}

	if len(paths) == 0 {
		if clips, err := p.deps.Assets.SearchVideos(ctx, "background", needed); err == nil {
			for _, c := range clips {
				if path := clipPath(c); path != "" {
					paths = append(paths, path)
				}
			}
		}
	}
	return paths
}

func (p *AudioPipeline) buildScenes(ctx context.Context, assetPaths []string, totalDuration float64, segs []timestamps.Segment) []Scene {
	if len(assetPaths) == 0 {
		if clips, err := p.deps.Assets.SearchVideos(ctx, "placeholder", 1); err == nil && len(clips) > 0 {
			assetPaths = []string{clipPath(clips[0])}
		} else {
			assetPaths = []string{""}
		}
	}

	boundaries := p.sceneBoundaries(segs, totalDuration)

	scenes := make([]Scene, 0, len(boundaries))
	for i, iv := range boundaries {
		scene := Scene{
			SceneID:            fmt.Sprintf("scene_%d", i+1),
			SceneType:          "video",
			BackgroundPath:     assetPaths[i%len(assetPaths)],
			StartTime:          round3(iv.Start),
			EndTime:            round3(iv.End),
			Text:               sceneText(segs, iv.Start, iv.End),
			TransitionDuration: 0.5,
		}
		if i > 0 {
			scene.TransitionIn = "crossfade"
		}
		scenes = append(scenes, scene)
	}
	return scenes
}

// sceneBoundaries prefers cuts at segment ends within the [min, max] scene
// window, falling back to a max-length cut when no segment end fits. The
// last scene is stretched to the total duration.
func (p *AudioPipeline) sceneBoundaries(segs []timestamps.Segment, totalDuration float64) []Interval {
	minDur := p.cfg.SceneDurationMin
	maxDur := p.cfg.SceneDurationMax

	segmentEnds := make([]float64, 0, len(segs))
	for _, s := range segs {
		segmentEnds = append(segmentEnds, s.End)
	}

	var boundaries []Interval
	current := 0.0
	for current < totalDuration {
		best := -1.0
		for _, end := range segmentEnds {
			if end >= current+minDur && end <= current+maxDur && end > best {
				best = end
			}
		}

		end := best
		if end < 0 {
			end = current + maxDur
			if end > totalDuration {
				end = totalDuration
			}
		}
		if end <= current {
			end = current + minDur
			if end > totalDuration {
				end = totalDuration
			}
		}

		boundaries = append(boundaries, Interval{Start: current, End: end})
		current = end
		if current >= totalDuration-0.1 {
			break
		}
	}

	if len(boundaries) > 0 {
		boundaries[len(boundaries)-1].End = totalDuration
	}
	return boundaries
}
