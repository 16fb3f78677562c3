// Package pipeline turns validated mode requests into render-job payloads.
// Each mode (text, music, audio, long video) shares the same job envelope so
// the render executor has a single contract.
package pipeline

import (
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"

	timestamps "shortform/providers/timestamps"
)

// Scene is one visual span of the rendered video.
type Scene struct {
	SceneID            string   `json:"scene_id"`
	SceneType          string   `json:"scene_type"`
	BackgroundPath     string   `json:"background_path"`
	StartTime          float64  `json:"start_time"`
	EndTime            float64  `json:"end_time"`
	Text               string   `json:"text"`
	TransitionIn       string   `json:"transition_in,omitempty"`
	TransitionDuration float64  `json:"transition_duration"`
	Effects            []Effect `json:"effects,omitempty"`
}

// Effect is per-scene visual effect metadata for the render executor.
type Effect struct {
	Type      string  `json:"type"`
	Direction string  `json:"direction,omitempty"`
	Intensity float64 `json:"intensity,omitempty"`
	Duration  float64 `json:"duration,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// Script is the scene list handed to the render executor.
type Script struct {
	ScriptID      string  `json:"script_id"`
	Title         string  `json:"title"`
	Scenes        []Scene `json:"scenes"`
	TotalDuration float64 `json:"total_duration"`
}

// Word is one word with its display window, used for karaoke-style
// subtitles.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Timing is the word-level subtitle timing structure.
type Timing struct {
	Words         []Word  `json:"words"`
	TotalDuration float64 `json:"total_duration"`
}

// Subtitle is one subtitle line for the long-video clips.
type Subtitle struct {
	ID    string  `json:"id"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// RenderJob is the complete payload submitted to the render task queue.
type RenderJob struct {
	JobID               string  `json:"job_id"`
	Script              Script  `json:"script_json"`
	AudioPath           string  `json:"audio_path"`
	Timing              Timing  `json:"timestamps_json"`
	BGMPath             string  `json:"bgm_path,omitempty"`
	OutputDir           string  `json:"output_dir"`
	OutputFilename      string  `json:"output_filename"`
	GenerateSRT         bool    `json:"generate_srt"`
	VideoWidth          int     `json:"video_width"`
	VideoHeight         int     `json:"video_height"`
	FPS                 int     `json:"fps"`
	VideoBitrate        string  `json:"video_bitrate"`
	Preset              string  `json:"preset"`
	BGMVolumeDB         float64 `json:"bgm_volume_db"`
	SubtitleFontSize    int     `json:"subtitle_font_size"`
	SubtitleColor       string  `json:"subtitle_color"`
	SubtitleActiveColor string  `json:"subtitle_active_color"`
}

func newJobID(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + hex[:12]
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// normalizeSegments orders timestamp segments by start time and clamps
// overlaps: each start is pulled up to the previous segment's end, and
// segments left without a positive span are dropped. The bundled heuristic
// backend already emits ordered, non-overlapping segments; this pins that
// invariant at the pipeline boundary for external backends.
func normalizeSegments(segs []timestamps.Segment) []timestamps.Segment {
	sorted := make([]timestamps.Segment, len(segs))
	copy(sorted, segs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := make([]timestamps.Segment, 0, len(sorted))
	prevEnd := 0.0
	for _, seg := range sorted {
		if seg.Start < prevEnd {
			seg.Start = prevEnd
		}
		if seg.End <= seg.Start {
			continue
		}
		out = append(out, seg)
		prevEnd = seg.End
	}
	return out
}

// sceneText joins the text of all segments overlapping [start, end).
func sceneText(segs []timestamps.Segment, start, end float64) string {
	var texts []string
	for _, seg := range segs {
		if seg.End > start && seg.Start < end {
			texts = append(texts, seg.Text)
		}
	}
	return strings.Join(texts, " ")
}

func buildScript(jobID, title string, scenes []Scene, totalDuration float64) Script {
	return Script{
		ScriptID:      "script_" + jobID,
		Title:         title,
		Scenes:        scenes,
		TotalDuration: round3(totalDuration),
	}
}
