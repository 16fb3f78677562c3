package orchestrator

import (
	"context"
	"os"

	"shortform/config"
	"shortform/pipeline"
)

// MusicRequest is the music-to-clip request body.
type MusicRequest struct {
	AudioPath  string      `json:"audio_path"`
	Style      string      `json:"style,omitempty"`
	ClipLength float64     `json:"clip_length,omitempty"`
	ClipStart  float64     `json:"clip_start,omitempty"`
	JobID      string      `json:"job_id,omitempty"`
	Resolution *Resolution `json:"resolution,omitempty"`
	FPS        int         `json:"fps,omitempty"`
}

// MusicOrchestrator handles music-to-clip generation.
type MusicOrchestrator struct {
	deps pipeline.Deps
}

// NewMusic creates the orchestrator.
func NewMusic(deps pipeline.Deps) *MusicOrchestrator {
	return &MusicOrchestrator{deps: deps}
}

func (o *MusicOrchestrator) Mode() Mode { return ModeMusic }

// Validate checks the audio file and clip window bounds.
func (o *MusicOrchestrator) Validate(req MusicRequest) error {
	if req.AudioPath == "" {
		return validationErrorf("audio_path is required")
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return validationErrorf("audio file not found: %s", req.AudioPath)
	}
	clipLength := req.ClipLength
	if clipLength == 0 {
		clipLength = 10.0
	}
	if clipLength < 3.0 {
		return validationErrorf("clip_length must be at least 3 seconds")
	}
	if clipLength > 60.0 {
		return validationErrorf("clip_length must be at most 60 seconds")
	}
	if req.ClipStart < 0 {
		return validationErrorf("clip_start must be >= 0")
	}
	return nil
}

// BuildRenderJob validates the request, runs the music pipeline, and wraps
// the prepared job with beat metadata.
func (o *MusicOrchestrator) BuildRenderJob(ctx context.Context, req MusicRequest) (*Result, error) {
	if err := o.Validate(req); err != nil {
		return nil, err
	}

	style := req.Style
	if style == "" {
		style = "cinematic"
	}
	clipLength := req.ClipLength
	if clipLength == 0 {
		clipLength = 10.0
	}
	width, height := resolutionOrDefault(req.Resolution)
	fps := fpsOrDefault(req.FPS)

	cfg := pipeline.DefaultMusicConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.FPS = fps
	cfg.ClipLength = clipLength
	cfg.Style = style

	result, err := pipeline.NewMusic(cfg, o.deps).Prepare(ctx, req.AudioPath, req.JobID, style, clipLength, req.ClipStart)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:      ModeMusic,
		RenderJob: result.Job,
		Metadata: map[string]any{
			"audio_path":     req.AudioPath,
			"style":          style,
			"clip_length":    result.TotalDuration,
			"clip_start":     req.ClipStart,
			"resolution":     resolutionString(width, height),
			"fps":            fps,
			"beats_detected": result.BeatsCount,
			"tempo_bpm":      result.TempoBPM,
			"scenes_count":   result.ScenesCount,
		},
		EstimatedDurationSeconds: result.TotalDuration,
		EstimatedCostCredits:     config.RenderCost,
		Jobs:                     []pipeline.RenderJob{result.Job},
	}, nil
}
