// Package mediatool wraps ffmpeg behind a narrow interface so pipelines
// never shell out directly and tests can substitute a fake. Every operation
// carries a uniform timeout.
package mediatool

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	ffmpeg "github.com/u2takey/ffmpeg-go"

	"shortform/config"
)

// Tool is the media-processing contract used by the pipelines.
type Tool interface {
	// ProbeDuration returns a media file's duration in seconds.
	ProbeDuration(ctx context.Context, path string) (float64, error)
	// ExtractAudio demuxes the full audio track of a video into a WAV file.
	ExtractAudio(ctx context.Context, videoPath, outPath string) error
	// ExtractAudioSegment demuxes a [start, start+duration] slice of a
	// video's audio into a WAV file.
	ExtractAudioSegment(ctx context.Context, videoPath, outPath string, start, duration float64) error
	// TrimAudio cuts a [start, start+duration] window out of an audio file.
	TrimAudio(ctx context.Context, audioPath, outPath string, start, duration float64) error
	// CropVertical cuts a time window out of a video and crops it to a
	// 9:16 vertical frame at the given resolution.
	CropVertical(ctx context.Context, videoPath, outPath string, start, duration float64, width, height int) error
	// TranscodeToWAV converts any audio input to 22.05kHz mono PCM WAV and
	// returns the output path.
	TranscodeToWAV(ctx context.Context, src string) (string, error)
}

// FFmpeg is the production Tool backed by the ffmpeg binary.
type FFmpeg struct {
	workDir string
	timeout time.Duration
}

var _ Tool = (*FFmpeg)(nil)

// NewFFmpeg creates the tool. An empty workDir defaults to the configured
// work directory.
func NewFFmpeg(workDir string) *FFmpeg {
	if workDir == "" {
		workDir = config.WorkDir()
	}
	return &FFmpeg{workDir: workDir, timeout: config.MediaToolTimeout}
}

func (f *FFmpeg) ProbeDuration(ctx context.Context, path string) (float64, error) {
	type result struct {
		out string
		err error
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan result, 1)
	go func() {
		out, err := ffmpeg.Probe(path)
		done <- result{out, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return 0, fmt.Errorf("mediatool: probe %s: %w", path, r.err)
		}
		return parseProbeDuration(r.out)
	case <-ctx.Done():
		return 0, fmt.Errorf("mediatool: probe %s: %w", path, ctx.Err())
	}
}

func parseProbeDuration(probeJSON string) (float64, error) {
	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(probeJSON), &probe); err != nil {
		return 0, fmt.Errorf("mediatool: decode probe output: %w", err)
	}
	d, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("mediatool: parse duration %q: %w", probe.Format.Duration, err)
	}
	return d, nil
}

func (f *FFmpeg) ExtractAudio(ctx context.Context, videoPath, outPath string) error {
	stream := ffmpeg.Input(videoPath).
		Output(outPath, ffmpeg.KwArgs{
			"map": "0:a:0",
			"ar":  "44100",
			"ac":  "1",
			"f":   "wav",
			"c:a": "pcm_s16le",
		}).
		OverWriteOutput()
	return f.run(ctx, stream, "extract audio")
}

func (f *FFmpeg) ExtractAudioSegment(ctx context.Context, videoPath, outPath string, start, duration float64) error {
	stream := ffmpeg.Input(videoPath, ffmpeg.KwArgs{
		"ss": fmt.Sprintf("%.3f", start),
		"t":  fmt.Sprintf("%.3f", duration),
	}).
		Output(outPath, ffmpeg.KwArgs{
			"map": "0:a:0",
			"ar":  "44100",
			"ac":  "1",
			"f":   "wav",
			"c:a": "pcm_s16le",
		}).
		OverWriteOutput()
	return f.run(ctx, stream, "extract audio segment")
}

func (f *FFmpeg) TrimAudio(ctx context.Context, audioPath, outPath string, start, duration float64) error {
	stream := ffmpeg.Input(audioPath, ffmpeg.KwArgs{
		"ss": fmt.Sprintf("%.3f", start),
		"t":  fmt.Sprintf("%.3f", duration),
	}).
		Output(outPath, ffmpeg.KwArgs{
			"c:a": "pcm_s16le",
			"ar":  "44100",
			"f":   "wav",
		}).
		OverWriteOutput()
	return f.run(ctx, stream, "trim audio")
}

func (f *FFmpeg) CropVertical(ctx context.Context, videoPath, outPath string, start, duration float64, width, height int) error {
	stream := ffmpeg.Input(videoPath, ffmpeg.KwArgs{
		"ss": fmt.Sprintf("%.3f", start),
		"t":  fmt.Sprintf("%.3f", duration),
	}).
		Output(outPath, ffmpeg.KwArgs{
			"vf":     fmt.Sprintf("crop=ih*9/16:ih,scale=%d:%d,setsar=1", width, height),
			"c:v":    "libx264",
			"preset": "fast",
			"c:a":    "aac",
		}).
		OverWriteOutput()
	return f.run(ctx, stream, "crop vertical")
}

func (f *FFmpeg) TranscodeToWAV(ctx context.Context, src string) (string, error) {
	if err := os.MkdirAll(f.workDir, 0o755); err != nil {
		return "", err
	}
	outPath := filepath.Join(f.workDir, "transcode_"+uuid.New().String()[:8]+".wav")
	stream := ffmpeg.Input(src).
		Output(outPath, ffmpeg.KwArgs{
			"ar":  "22050",
			"ac":  "1",
			"f":   "wav",
			"c:a": "pcm_s16le",
		}).
		OverWriteOutput()
	if err := f.run(ctx, stream, "transcode to wav"); err != nil {
		return "", err
	}
	return outPath, nil
}

// run executes an ffmpeg stream under the tool's timeout. The process is
// abandoned on timeout; ffmpeg exits on its own once its pipes close.
func (f *FFmpeg) run(ctx context.Context, stream *ffmpeg.Stream, op string) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- stream.Run() }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("mediatool: %s: %w", op, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mediatool: %s: %w", op, ctx.Err())
	}
}
