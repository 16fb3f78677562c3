package config

import "time"

// Video Output Constants
const (
	// VideoWidth is the default output video width (9:16 aspect ratio)
	VideoWidth = 1080

	// VideoHeight is the default output video height (9:16 aspect ratio)
	VideoHeight = 1920

	// VideoFPS is the default output frame rate
	VideoFPS = 30

	// VideoBitrate is the default encoder bitrate
	VideoBitrate = "8M"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "medium"

	// OutputFilename is the default render output file name
	OutputFilename = "output.mp4"
)

// Subtitle Constants
const (
	// SubtitleFontSize is the default subtitle font size in pixels
	SubtitleFontSize = 70

	// SubtitleColor is the default subtitle fill color
	SubtitleColor = "white"

	// SubtitleActiveColor is the highlight color for the active word
	SubtitleActiveColor = "#FFD700"
)

// Pipeline Constants
const (
	// ClipsPerVideo is how many background assets the text pipeline collects
	ClipsPerVideo = 5

	// DefaultBeatInterval drives the fallback beat grid (0.8s => 75 BPM)
	DefaultBeatInterval = 0.8

	// MinBeatInterval is the minimum spacing between detected beats
	MinBeatInterval = 0.3

	// MaxClips caps how many shorts one long video produces
	MaxClips = 5

	// MinClipLength is the minimum short clip duration in seconds
	MinClipLength = 8.0

	// MaxClipLength is the maximum short clip duration in seconds
	MaxClipLength = 60.0

	// TargetClipLength is the target short clip duration in seconds
	TargetClipLength = 15.0

	// SilenceThreshold is the RMS amplitude below which audio counts as silent
	SilenceThreshold = 0.02

	// SilenceMinDuration is the minimum silence run that marks a cut point
	SilenceMinDuration = 0.3
)

// Task Queue Constants
const (
	// RenderJobsTopic is the Kafka topic render jobs are published to
	RenderJobsTopic = "render-jobs"

	// RenderStatusTopic is the Kafka topic the render executor reports on
	RenderStatusTopic = "render-status"

	// RenderStatusGroup is the consumer group for status updates
	RenderStatusGroup = "shortform-status"
)

// Store Constants
const (
	// IdempotencyTTL is how long idempotency records are retained
	IdempotencyTTL = 24 * time.Hour

	// RenderCost is the credit cost of a single render job
	RenderCost = 1
)

// MediaToolTimeout bounds every external media tool invocation.
const MediaToolTimeout = 30 * time.Second
