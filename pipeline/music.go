package pipeline

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"shortform/analysis"
	"shortform/config"
)

// MusicConfig tunes the music-to-clip pipeline.
type MusicConfig struct {
	Width               int
	Height              int
	FPS                 int
	ClipLength          float64
	MinBeatInterval     float64
	DefaultBeatInterval float64
	OutputDir           string
	Style               string
	ZoomIntensity       float64
	FlashDuration       float64
	CrossfadeDuration   float64
	// BeatsPerSceneDivisor controls scene density: a scene change every
	// max(2, beats/divisor) beats.
	BeatsPerSceneDivisor int
}

// DefaultMusicConfig returns the standard beat-synced clip settings.
func DefaultMusicConfig() MusicConfig {
	return MusicConfig{
		Width:                config.VideoWidth,
		Height:               config.VideoHeight,
		FPS:                  config.VideoFPS,
		ClipLength:           10.0,
		MinBeatInterval:      config.MinBeatInterval,
		DefaultBeatInterval:  config.DefaultBeatInterval,
		OutputDir:            config.OutputDir(),
		Style:                "cinematic",
		ZoomIntensity:        1.05,
		FlashDuration:        0.1,
		CrossfadeDuration:    0.15,
		BeatsPerSceneDivisor: 8,
	}
}

// MusicResult is the prepared render job for one music request.
type MusicResult struct {
	JobID         string
	Job           RenderJob
	AudioPath     string
	TotalDuration float64
	ScenesCount   int
	BeatsCount    int
	TempoBPM      float64
}

// musicStyleKeywords maps a visual style to asset search queries.
var musicStyleKeywords = map[string][]string{
	"motivation": {"energy", "fitness", "success", "power"},
	"cinematic":  {"cinematic", "epic", "dramatic", "film"},
	"dark":       {"dark", "mystery", "night", "shadow"},
	"abstract":   {"abstract", "pattern", "motion", "color"},
	"random":     {"video", "background", "stock"},
}

// MusicPipeline converts a music clip window into a beat-synced render job.
type MusicPipeline struct {
	cfg  MusicConfig
	deps Deps
}

// NewMusic creates the pipeline. The beat detector's intervals follow the
// config.
func NewMusic(cfg MusicConfig, deps Deps) *MusicPipeline {
	if deps.Beats == nil {
		deps.Beats = analysis.NewBeatDetector()
	}
	deps.Beats.MinInterval = cfg.MinBeatInterval
	deps.Beats.DefaultInterval = cfg.DefaultBeatInterval
	return &MusicPipeline{cfg: cfg, deps: deps}
}

// Prepare runs the full music flow.
func (p *MusicPipeline) Prepare(ctx context.Context, audioPath, jobID, style string, clipLength, clipStart float64) (*MusicResult, error) {
	if jobID == "" {
		jobID = newJobID("music")
	}
	if style == "" {
		style = p.cfg.Style
	}
	if clipLength <= 0 {
		clipLength = p.cfg.ClipLength
	}

	if _, err := os.Stat(audioPath); err != nil {
		return nil, fmt.Errorf("music pipeline: audio file not found: %s", audioPath)
	}

	beats := p.deps.Beats.Detect(ctx, audioPath, clipStart, clipLength)

	clipAudioPath := p.extractClipAudio(ctx, audioPath, clipStart, beats.TotalDuration)

	assetPaths := p.gatherAssets(ctx, style, len(beats.Timestamps))
	scenes := p.buildBeatSyncedScenes(ctx, assetPaths, beats)

	job := RenderJob{
		JobID:               jobID,
		Script:              buildScript(jobID, "Music Clip "+jobID, scenes, beats.TotalDuration),
		AudioPath:           clipAudioPath,
		Timing:              Timing{Words: []Word{}, TotalDuration: round3(beats.TotalDuration)},
		OutputDir:           p.cfg.OutputDir,
		OutputFilename:      config.OutputFilename,
		GenerateSRT:         false,
		VideoWidth:          p.cfg.Width,
		VideoHeight:         p.cfg.Height,
		FPS:                 p.cfg.FPS,
		VideoBitrate:        config.VideoBitrate,
		Preset:              config.VideoPreset,
		SubtitleFontSize:    config.SubtitleFontSize,
		SubtitleColor:       config.SubtitleColor,
		SubtitleActiveColor: config.SubtitleActiveColor,
	}

	return &MusicResult{
		JobID:         jobID,
		Job:           job,
		AudioPath:     clipAudioPath,
		TotalDuration: beats.TotalDuration,
		ScenesCount:   len(scenes),
		BeatsCount:    len(beats.Timestamps),
		TempoBPM:      beats.TempoBPM,
	}, nil
}

// extractClipAudio cuts the selected window out of the source track,
// degrading to the untrimmed source when the media tool fails.
func (p *MusicPipeline) extractClipAudio(ctx context.Context, audioPath string, start, duration float64) string {
	outPath := filepath.Join(os.TempDir(), "clip_"+uuid.New().String()[:8]+".wav")
	if err := p.deps.Media.TrimAudio(ctx, audioPath, outPath, start, duration); err != nil {
		log.Printf("music pipeline: trim audio failed, using source: %v", err)
		return audioPath
	}
	return outPath
}

func (p *MusicPipeline) gatherAssets(ctx context.Context, style string, minCount int) []string {
	keywords, ok := musicStyleKeywords[style]
	if !ok {
		keywords = musicStyleKeywords["random"]
	}

	needed := minCount
	if needed < 5 {
		needed = 5
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

// buildBeatSyncedScenes cuts scenes at selected beats and attaches
// alternating zoom and flash effect metadata.
func (p *MusicPipeline) buildBeatSyncedScenes(ctx context.Context, assetPaths []string, beats analysis.BeatInfo) []Scene {
	if len(assetPaths) == 0 {
		if clips, err := p.deps.Assets.SearchVideos(ctx, "placeholder", 1); err == nil && len(clips) > 0 {
			assetPaths = []string{clipPath(clips[0])}
		} else {
			assetPaths = []string{""}
		}
	}

	beatTimes := beats.Timestamps
	if len(beatTimes) < 2 {
		beatTimes = []float64{0, beats.TotalDuration}
	}

	intervals := p.selectSceneChangeBeats(beatTimes)

	scenes := make([]Scene, 0, len(intervals))
	for i, iv := range intervals {
		var effects []Effect
		if i%2 == 0 {
			direction := "in"
			if i%4 >= 2 {
				direction = "out"
			}
			effects = append(effects, Effect{
				Type:      "zoom",
				Intensity: p.cfg.ZoomIntensity,
				Direction: direction,
			})
		}
		if i%4 == 0 {
			effects = append(effects, Effect{
				Type:     "flash",
				Duration: p.cfg.FlashDuration,
				Color:    "white",
			})
		}

		scene := Scene{
			SceneID:            fmt.Sprintf("scene_%d", i+1),
			SceneType:          "video",
			BackgroundPath:     assetPaths[i%len(assetPaths)],
			StartTime:          round3(iv.Start),
			EndTime:            round3(iv.End),
			TransitionDuration: p.cfg.CrossfadeDuration,
			Effects:            effects,
		}
		if i > 0 {
			scene.TransitionIn = "crossfade"
		}
		scenes = append(scenes, scene)
	}
	return scenes
}

// selectSceneChangeBeats groups the beat grid into scene intervals, changing
// scenes every max(2, beats/divisor) beats.
func (p *MusicPipeline) selectSceneChangeBeats(beatTimes []float64) []Interval {
	if len(beatTimes) < 2 {
		end := 1.0
		if len(beatTimes) > 0 {
			end = beatTimes[len(beatTimes)-1]
		}
		return []Interval{{Start: 0, End: end}}
	}

	divisor := p.cfg.BeatsPerSceneDivisor
	if divisor <= 0 {
		divisor = 8
	}
	beatsPerScene := len(beatTimes) / divisor
	if beatsPerScene < 2 {
		beatsPerScene = 2
	}

	var intervals []Interval
	i := 0
	for i < len(beatTimes) {
		start := beatTimes[i]

		next := i + beatsPerScene
		if next > len(beatTimes)-1 {
			next = len(beatTimes) - 1
		}
		if next <= i {
			next = len(beatTimes) - 1
		}

		end := beatTimes[next]
		if end > start {
			intervals = append(intervals, Interval{Start: start, End: end})
		}

		i = next
		if i == len(beatTimes)-1 {
			break
		}
	}

	if len(intervals) == 0 {
		intervals = []Interval{{Start: 0, End: beatTimes[len(beatTimes)-1]}}
	}
	return intervals
}
