package orchestrator

import (
	"context"
	"math"
	"os"

	"shortform/config"
	"shortform/pipeline"
)

// LongVideoRequest is the long-video-to-shorts request body.
type LongVideoRequest struct {
	VideoPath     string           `json:"video_path"`
	Style         string           `json:"style,omitempty"`
	ClipLength    float64          `json:"clip_length,omitempty"`
	MaxClips      int              `json:"max_clips,omitempty"`
	MinClipLength float64          `json:"min_clip_length,omitempty"`
	MaxClipLength float64          `json:"max_clip_length,omitempty"`
	BatchID       string           `json:"batch_id,omitempty"`
	Resolution    *Resolution      `json:"resolution,omitempty"`
	FPS           int              `json:"fps,omitempty"`
	Subtitles     *SubtitleOptions `json:"subtitles,omitempty"`
}

// LongVideoOrchestrator handles long-video-to-shorts batch generation.
type LongVideoOrchestrator struct {
	deps pipeline.Deps
}

// NewLongVideo creates the orchestrator.
func NewLongVideo(deps pipeline.Deps) *LongVideoOrchestrator {
	return &LongVideoOrchestrator{deps: deps}
}

func (o *LongVideoOrchestrator) Mode() Mode { return ModeLong }

// Validate checks the source video exists.
func (o *LongVideoOrchestrator) Validate(req LongVideoRequest) error {
	if req.VideoPath == "" {
		return validationErrorf("video_path is required")
	}
	if _, err := os.Stat(req.VideoPath); err != nil {
		return validationErrorf("video file not found: %s", req.VideoPath)
	}
	return nil
}

// BuildRenderJob validates the request, runs the long-video pipeline, and
// wraps the clip batch. Cost is one credit per prepared clip.
func (o *LongVideoOrchestrator) BuildRenderJob(ctx context.Context, req LongVideoRequest) (*Result, error) {
	if err := o.Validate(req); err != nil {
		return nil, err
	}

	style := req.Style
	if style == "" {
		style = "education"
	}
	width, height := resolutionOrDefault(req.Resolution)
	fps := fpsOrDefault(req.FPS)

	cfg := pipeline.DefaultLongVideoConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.FPS = fps
	cfg.Style = style
	cfg.GenerateSRT = req.Subtitles.enabled()
	cfg.SubtitleFontSize = req.Subtitles.fontSize()
	if req.ClipLength > 0 {
		cfg.ClipLength = req.ClipLength
	}
	if req.MaxClips > 0 {
		cfg.MaxClips = req.MaxClips
	}
	if req.MinClipLength > 0 {
		cfg.MinClipLength = req.MinClipLength
	}
	if req.MaxClipLength > 0 {
		cfg.MaxClipLength = req.MaxClipLength
	}

	result, err := pipeline.NewLongVideo(cfg, o.deps).Prepare(ctx, req.VideoPath, req.BatchID, style)
	if err != nil {
		return nil, err
	}

	jobs := make([]pipeline.RenderJob, 0, len(result.Clips))
	clipsMeta := make([]map[string]any, 0, len(result.Clips))
	totalDuration := 0.0
	for _, clip := range result.Clips {
		jobs = append(jobs, clip.Job)
		duration := clip.End - clip.Start
		totalDuration += duration
		clipsMeta = append(clipsMeta, map[string]any{
			"clip_id":    clip.ClipID,
			"clip_index": clip.ClipIndex,
			"start":      clip.Start,
			"end":        clip.End,
			"duration":   math.Round(duration*1000) / 1000,
		})
	}

	return &Result{
		Mode:      ModeLong,
		RenderJob: result,
		Metadata: map[string]any{
			"video_path":         req.VideoPath,
			"style":              style,
			"source_duration":    result.SourceDuration,
			"clips_count":        result.ClipsCount,
			"resolution":         resolutionString(width, height),
			"fps":                fps,
			"clip_length_target": cfg.ClipLength,
			"clips":              clipsMeta,
		},
		EstimatedDurationSeconds: totalDuration,
		EstimatedCostCredits:     result.ClipsCount * config.RenderCost,
		Jobs:                     jobs,
	}, nil
}
