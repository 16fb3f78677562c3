package orchestrator

import (
	"context"
	"unicode/utf8"

	"shortform/config"
	"shortform/pipeline"
)

// TextRequest is the text-to-video request body.
type TextRequest struct {
	ScriptText  string           `json:"script_text"`
	VisualStyle string           `json:"visual_style,omitempty"`
	Lang        string           `json:"lang,omitempty"`
	JobID       string           `json:"job_id,omitempty"`
	Resolution  *Resolution      `json:"resolution,omitempty"`
	FPS         int              `json:"fps,omitempty"`
	Subtitles   *SubtitleOptions `json:"subtitles,omitempty"`
}

// TextOrchestrator handles text-to-video generation.
type TextOrchestrator struct {
	deps pipeline.Deps
}

// NewText creates the orchestrator.
func NewText(deps pipeline.Deps) *TextOrchestrator {
	return &TextOrchestrator{deps: deps}
}

func (o *TextOrchestrator) Mode() Mode { return ModeText }

// Validate enforces the script length bounds before any provider runs.
func (o *TextOrchestrator) Validate(req TextRequest) error {
	if req.ScriptText == "" {
		return validationErrorf("script_text is required")
	}
	n := utf8.RuneCountInString(req.ScriptText)
	if n < 10 {
		return validationErrorf("script_text must be at least 10 characters")
	}
	if n > 10000 {
		return validationErrorf("script_text must be at most 10000 characters")
	}
	return nil
}

// BuildRenderJob validates the request, runs the text pipeline, and wraps
// the prepared job.
func (o *TextOrchestrator) BuildRenderJob(ctx context.Context, req TextRequest) (*Result, error) {
	if err := o.Validate(req); err != nil {
		return nil, err
	}

	style := req.VisualStyle
	if style == "" {
		style = "cinematic"
	}
	lang := req.Lang
	if lang == "" {
		lang = "ru"
	}
	width, height := resolutionOrDefault(req.Resolution)
	fps := fpsOrDefault(req.FPS)

	cfg := pipeline.DefaultTextConfig()
	cfg.Width = width
	cfg.Height = height
	cfg.FPS = fps
	cfg.Lang = lang
	cfg.SubtitleFontSize = req.Subtitles.fontSize()

	result, err := pipeline.NewText(cfg, o.deps).Prepare(ctx, req.ScriptText, req.JobID, style, lang)
	if err != nil {
		return nil, err
	}

	return &Result{
		Mode:      ModeText,
		RenderJob: result.Job,
		Metadata: map[string]any{
			"input_text_length": utf8.RuneCountInString(req.ScriptText),
			"visual_style":      style,
			"language":          lang,
			"resolution":        resolutionString(width, height),
			"fps":               fps,
			"audio_path":        result.AudioPath,
			"voice_degraded":    result.VoiceDegraded,
		},
		EstimatedDurationSeconds: result.TotalDuration,
		EstimatedCostCredits:     config.RenderCost,
		Jobs:                     []pipeline.RenderJob{result.Job},
	}, nil
}
