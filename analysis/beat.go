// Package analysis extracts timing structure from raw audio: beat grids for
// music-synced cuts and silence points for content-aware segmentation. Both
// detectors are pure energy analysis over decoded samples, no external DSP.
package analysis

import (
	"context"
	"math"

	"shortform/audio"
)

// BeatInfo is the result of beat detection over one audio window.
type BeatInfo struct {
	Timestamps    []float64 `json:"timestamps"`
	TempoBPM      float64   `json:"tempo_bpm"`
	TotalDuration float64   `json:"total_duration"`
	BeatInterval  float64   `json:"beat_interval"`
}

// Transcoder converts a compressed audio file to PCM WAV. The beat detector
// uses it for non-WAV input; nil disables transcoding.
type Transcoder interface {
	TranscodeToWAV(ctx context.Context, src string) (string, error)
}

// BeatDetector finds beats by locating energy peaks over a sliding 20ms
// window. When the signal is too short or too flat to yield a stable grid it
// falls back to fixed-interval beats.
type BeatDetector struct {
	MinInterval     float64
	DefaultInterval float64
	Transcoder      Transcoder
}

// NewBeatDetector creates a detector with the standard intervals: beats no
// closer than 0.3s, fallback grid at 0.8s (75 BPM).
func NewBeatDetector() *BeatDetector {
	return &BeatDetector{MinInterval: 0.3, DefaultInterval: 0.8}
}

// Detect analyzes the [clipStart, clipStart+clipDuration] window of the audio
// file. A non-positive clipDuration defaults to min(15s, remaining audio).
// Detect never fails: decode or analysis problems degrade to the fixed grid.
func (d *BeatDetector) Detect(ctx context.Context, audioPath string, clipStart, clipDuration float64) BeatInfo {
	track, err := d.loadAudio(ctx, audioPath)
	if err != nil {
		duration := clipDuration
		if duration <= 0 {
			duration = 10.0
		}
		return d.fallback(duration)
	}

	if clipDuration <= 0 {
		clipDuration = math.Min(15.0, track.Duration)
	}
	endTime := math.Min(clipStart+clipDuration, track.Duration)
	actualDuration := endTime - clipStart

	startSample := int(clipStart * float64(track.SampleRate))
	endSample := int(endTime * float64(track.SampleRate))
	if startSample < 0 {
		startSample = 0
	}
	if endSample > len(track.Samples) {
		endSample = len(track.Samples)
	}
	if startSample >= endSample {
		return d.fallback(actualDuration)
	}
	clip := track.Samples[startSample:endSample]

	if float64(len(clip)) < float64(track.SampleRate)*0.5 {
		return d.fallback(actualDuration)
	}

	beats := d.energyPeaks(clip, track.SampleRate, actualDuration)
	if len(beats) < 2 {
		return d.fallback(actualDuration)
	}

	var sum float64
	for i := 1; i < len(beats); i++ {
		sum += beats[i] - beats[i-1]
	}
	avgInterval := sum / float64(len(beats)-1)
	tempo := 120.0
	if avgInterval > 0 {
		tempo = 60.0 / avgInterval
	}

	return BeatInfo{
		Timestamps:    beats,
		TempoBPM:      math.Round(tempo*10) / 10,
		TotalDuration: actualDuration,
		BeatInterval:  round3(avgInterval),
	}
}

func (d *BeatDetector) loadAudio(ctx context.Context, path string) (*audio.Track, error) {
	track, err := audio.Decode(path)
	if err == nil {
		return track, nil
	}
	if d.Transcoder == nil {
		return nil, err
	}
	wavPath, terr := d.Transcoder.TranscodeToWAV(ctx, path)
	if terr != nil {
		return nil, err
	}
	return audio.Decode(wavPath)
}

// energyPeaks computes 20ms-window RMS energies at a 10ms hop and keeps local
// maxima above 1.5x the mean energy, at least MinInterval apart.
func (d *BeatDetector) energyPeaks(samples []float64, sampleRate int, duration float64) []float64 {
	windowSize := int(float64(sampleRate) * 0.02)
	hopSize := int(float64(sampleRate) * 0.01)
	if windowSize == 0 || hopSize == 0 {
		return d.fixedGrid(duration)
	}

	var energies []float64
	var times []float64
	for i := 0; i+windowSize <= len(samples); i += hopSize {
		var e float64
		for _, s := range samples[i : i+windowSize] {
			e += s * s
		}
		energies = append(energies, e/float64(windowSize))
		times = append(times, float64(i)/float64(sampleRate))
	}
	if len(energies) == 0 {
		return d.fixedGrid(duration)
	}

	var mean float64
	for _, e := range energies {
		mean += e
	}
	mean /= float64(len(energies))
	threshold := mean * 1.5

	var beats []float64
	minHopsBetween := int(d.MinInterval / 0.01)
	lastBeatIdx := -minHopsBetween

	for i, e := range energies {
		if e <= threshold || i-lastBeatIdx < minHopsBetween {
			continue
		}
		if i > 0 && i < len(energies)-1 && e >= energies[i-1] && e >= energies[i+1] {
			beats = append(beats, round3(times[i]))
			lastBeatIdx = i
		}
	}

	if len(beats) < 3 {
		return d.fixedGrid(duration)
	}
	return beats
}

// fixedGrid produces beats spaced exactly DefaultInterval apart from t=0.
func (d *BeatDetector) fixedGrid(duration float64) []float64 {
	var beats []float64
	for t := 0.0; t < duration; t += d.DefaultInterval {
		beats = append(beats, round3(t))
	}
	return beats
}

func (d *BeatDetector) fallback(duration float64) BeatInfo {
	return BeatInfo{
		Timestamps:    d.fixedGrid(duration),
		TempoBPM:      60.0 / d.DefaultInterval,
		TotalDuration: duration,
		BeatInterval:  d.DefaultInterval,
	}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
