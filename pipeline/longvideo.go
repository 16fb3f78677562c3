package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"shortform/config"
	timestamps "shortform/providers/timestamps"
)

// LongVideoConfig tunes the long-video-to-shorts pipeline.
type LongVideoConfig struct {
	Width               int
	Height              int
	FPS                 int
	ClipLength          float64
	MaxClips            int
	MinClipLength       float64
	MaxClipLength       float64
	SilenceThreshold    float64
	SilenceMinDuration  float64
	WindowOverlap       float64
	OutputDir           string
	WorkDir             string
	Style               string
	GenerateSRT         bool
	SubtitleFontSize    int
	SubtitleColor       string
	SubtitleActiveColor string
	VideoBitrate        string
	Preset              string
}

// DefaultLongVideoConfig returns the standard shorts-batch settings.
func DefaultLongVideoConfig() LongVideoConfig {
	return LongVideoConfig{
		Width:               config.VideoWidth,
		Height:              config.VideoHeight,
		FPS:                 config.VideoFPS,
		ClipLength:          config.TargetClipLength,
		MaxClips:            config.MaxClips,
		MinClipLength:       config.MinClipLength,
		MaxClipLength:       config.MaxClipLength,
		SilenceThreshold:    config.SilenceThreshold,
		SilenceMinDuration:  config.SilenceMinDuration,
		WindowOverlap:       2.0,
		OutputDir:           config.OutputDir(),
		WorkDir:             config.WorkDir(),
		Style:               "education",
		GenerateSRT:         true,
		SubtitleFontSize:    config.SubtitleFontSize,
		SubtitleColor:       config.SubtitleColor,
		SubtitleActiveColor: config.SubtitleActiveColor,
		VideoBitrate:        config.VideoBitrate,
		Preset:              config.VideoPreset,
	}
}

// ClipData is one prepared short clip from the batch.
type ClipData struct {
	BatchID          string     `json:"batch_id"`
	ClipID           string     `json:"clip_id"`
	ClipIndex        int        `json:"clip_index"`
	Start            float64    `json:"start"`
	End              float64    `json:"end"`
	VideoPath        string     `json:"video_path"`
	AudioPath        string     `json:"audio_path"`
	CroppedVideoPath string     `json:"cropped_video_path"`
	Subtitles        []Subtitle `json:"subtitles"`
	SRTPath          string     `json:"srt_path,omitempty"`
	Job              RenderJob  `json:"-"`
}

// LongVideoResult is the prepared clip batch for one long-video request.
type LongVideoResult struct {
	BatchID         string     `json:"batch_id"`
	SourceVideoPath string     `json:"source_video_path"`
	SourceDuration  float64    `json:"source_duration"`
	ClipsCount      int        `json:"clips_count"`
	Clips           []ClipData `json:"clips"`
}

// LongVideoPipeline slices a long recording into vertical short clips, each
// with its own render job.
type LongVideoPipeline struct {
	cfg       LongVideoConfig
	deps      Deps
	segmenter *Segmenter
}

// NewLongVideo creates the pipeline. The segmenter's clip bounds follow the
// config.
func NewLongVideo(cfg LongVideoConfig, deps Deps) *LongVideoPipeline {
	silence := deps.Silence
	if silence != nil {
		silence.Threshold = cfg.SilenceThreshold
		silence.MinDuration = cfg.SilenceMinDuration
	}
	seg := NewSegmenter(silence)
	seg.TargetLength = cfg.ClipLength
	seg.MaxClips = cfg.MaxClips
	seg.MinClipLength = cfg.MinClipLength
	seg.MaxClipLength = cfg.MaxClipLength
	seg.WindowOverlap = cfg.WindowOverlap
	return &LongVideoPipeline{cfg: cfg, deps: deps, segmenter: seg}
}

// Prepare runs the full long-video flow. Unlike the other modes, audio
// extraction failures are fatal: without audio there is nothing to segment
// or subtitle.
func (p *LongVideoPipeline) Prepare(ctx context.Context, videoPath, batchID, style string) (*LongVideoResult, error) {
	if batchID == "" {
		batchID = newJobID("batch")
	}
	if style == "" {
		style = p.cfg.Style
	}

	if _, err := os.Stat(videoPath); err != nil {
		return nil, fmt.Errorf("long video pipeline: video file not found: %s", videoPath)
	}

	totalDuration := p.videoDuration(ctx, videoPath)
	if totalDuration < p.cfg.MinClipLength {
		return nil, fmt.Errorf("long video pipeline: video too short (%.1fs), minimum %.1fs",
			totalDuration, p.cfg.MinClipLength)
	}

	workDir := filepath.Join(p.cfg.WorkDir, batchID)
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return nil, fmt.Errorf("long video pipeline: create work dir: %w", err)
	}

	audioPath := filepath.Join(workDir, "full_audio.wav")
	if err := p.deps.Media.ExtractAudio(ctx, videoPath, audioPath); err != nil {
		return nil, fmt.Errorf("long video pipeline: extract audio: %w", err)
	}

	segments := p.segmenter.Segment(audioPath, totalDuration)

	clips := make([]ClipData, 0, len(segments))
	for i, iv := range segments {
		clip, err := p.processSegment(ctx, videoPath, audioPath, workDir, batchID, i, iv, style)
		if err != nil {
			return nil, err
		}
		clips = append(clips, clip)
	}

	return &LongVideoResult{
		BatchID:         batchID,
		SourceVideoPath: videoPath,
		SourceDuration:  totalDuration,
		ClipsCount:      len(clips),
		Clips:           clips,
	}, nil
}

func (p *LongVideoPipeline) videoDuration(ctx context.Context, videoPath string) float64 {
	if d, err := p.deps.Media.ProbeDuration(ctx, videoPath); err == nil && d > 0 {
		return d
	}
	return 60.0
}

func (p *LongVideoPipeline) processSegment(ctx context.Context, videoPath, audioPath, workDir, batchID string, index int, iv Interval, style string) (ClipData, error) {
	clipID := fmt.Sprintf("%s_clip_%02d", batchID, index)
	duration := iv.End - iv.Start

	segmentAudio := filepath.Join(workDir, fmt.Sprintf("audio_%02d.wav", index))
	if err := p.deps.Media.TrimAudio(ctx, audioPath, segmentAudio, iv.Start, duration); err != nil {
		return ClipData{}, fmt.Errorf("long video pipeline: extract clip audio: %w", err)
	}

	croppedVideo := filepath.Join(workDir, fmt.Sprintf("cropped_%02d.mp4", index))
	if err := p.deps.Media.CropVertical(ctx, videoPath, croppedVideo, iv.Start, duration, p.cfg.Width, p.cfg.Height); err != nil {
		return ClipData{}, fmt.Errorf("long video pipeline: crop clip video: %w", err)
	}

	transcript := placeholderTranscript(duration, 4.0, "Content segment %d.")
	segs, err := p.deps.Timestamps.Extract(ctx, segmentAudio, transcript)
	if err != nil {
		return ClipData{}, fmt.Errorf("long video pipeline: extract timestamps: %w", err)
	}
	segs = normalizeSegments(segs)

	subtitles := buildSubtitles(segs)
	timing := BuildTiming(segs, duration)

	srtPath := ""
	if p.cfg.GenerateSRT {
		srtPath = filepath.Join(workDir, fmt.Sprintf("clip_%02d.srt", index))
		if err := WriteSRT(srtPath, segs); err != nil {
			return ClipData{}, fmt.Errorf("long video pipeline: write srt: %w", err)
		}
	}

	script := Script{
		ScriptID: "script_" + clipID,
		Title:    "Short Clip " + clipID,
		Scenes: []Scene{{
			SceneID:        "scene_1",
			SceneType:      "video",
			BackgroundPath: croppedVideo,
			StartTime:      0,
			EndTime:        round3(duration),
		}},
		TotalDuration: round3(duration),
	}

	job := RenderJob{
		JobID:               clipID,
		Script:              script,
		AudioPath:           segmentAudio,
		Timing:              timing,
		OutputDir:           p.cfg.OutputDir,
		OutputFilename:      fmt.Sprintf("clip_%02d.mp4", index),
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

	return ClipData{
		BatchID:          batchID,
		ClipID:           clipID,
		ClipIndex:        index,
		Start:            iv.Start,
		End:              iv.End,
		VideoPath:        videoPath,
		AudioPath:        segmentAudio,
		CroppedVideoPath: croppedVideo,
		Subtitles:        subtitles,
		SRTPath:          srtPath,
		Job:              job,
	}, nil
}

func buildSubtitles(segs []timestamps.Segment) []Subtitle {
	subtitles := make([]Subtitle, 0, len(segs))
	for i, seg := range segs {
		subtitles = append(subtitles, Subtitle{
			ID:    fmt.Sprintf("s%d", i+1),
			Start: round3(seg.Start),
			End:   round3(seg.End),
			Text:  seg.Text,
		})
	}
	return subtitles
}
