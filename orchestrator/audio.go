package orchestrator

import (
	"context"
	"os"

	"shortform/config"
	"shortform/pipeline"
)

// AudioRequest is the audio-to-video request body.
type AudioRequest struct {
	AudioPath      string           `json:"audio_path"`
	TranscriptText string           `json:"transcript_text,omitempty"`
	Style          string           `json:"style,omitempty"`
	JobID          string           `json:"job_id,omitempty"`
	Resolution     *Resolution      `json:"resolution,omitempty"`
	FPS            int              `json:"fps,omitempty"`
	Subtitles      *SubtitleOptions `json:"subtitles,omitempty"`
}

// AudioOrchestrator handles audio-to-video generation.
type AudioOrchestrator struct {
	deps pipeline.Deps
}

// NewAudio creates the orchestrator.
func NewAudio(deps pipeline.Deps) *AudioOrchestrator {
	return &AudioOrchestrator{deps: deps}
}

func (o *AudioOrchestrator) Mode() Mode { return ModeAudio }

// Validate checks the audio file exists.
func (o *AudioOrchestrator) Validate(req AudioRequest) error {
	if req.AudioPath == "" {
		return validationErrorf("audio_path is required")
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return validationErrorf("audio file not found: %s", req.AudioPath)
	}
	return nil
}

// BuildRenderJob validates the request, runs the audio pipeline, and wraps
// the prepared job.
func (o *AudioOrchestrator) BuildRenderJob(ctx context.Context, req AudioRequest) (*Result, error) {
	if err := o.Validate(req); err != nil {
		return nil, err
	}

	style := req.Style
	if style == "" {
		style = "podcast"
	}
	width, height := resolutionOrDefault(req.Resolution)
	fps := fpsOrDefault(req.FPS)

	cfg := pipeline.DefaultAudioConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.FPS = fps
	cfg.Style = style
	cfg.GenerateSRT = req.Subtitles.enabled()
	cfg.SubtitleFontSize = req.Subtitles.fontSize()

	result, err := pipeline.NewAudio(cfg, o.deps).Prepare(ctx, req.AudioPath, req.JobID, style, req.TranscriptText)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:      ModeAudio,
		RenderJob: result.Job,
		Metadata: map[string]any{
			"audio_path":     req.AudioPath,
			"style":          style,
			"has_transcript": req.TranscriptText != "",
			"resolution":     resolutionString(width, height),
			"fps":            fps,
			"duration":       result.TotalDuration,
			"scenes_count":   result.ScenesCount,
			"words_count":    result.WordsCount,
		},
		EstimatedDurationSeconds: result.TotalDuration,
		EstimatedCostCredits:     config.RenderCost,
		Jobs:                     []pipeline.RenderJob{result.Job},
	}, nil
}
