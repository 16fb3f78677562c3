package pipeline

import (
	"sort"

	"shortform/analysis"
)

// Interval is a [Start, End] time window in the source media.
type Interval struct {
	Start float64
	End   float64
}

// Segmenter cuts a long recording into clip-sized windows, preferring cuts
// at detected silence points and falling back to fixed sliding windows.
type Segmenter struct {
	TargetLength  float64
	MaxClips      int
	MinClipLength float64
	MaxClipLength float64
	WindowOverlap float64
	Silence       *analysis.SilenceDetector
}

// NewSegmenter creates a segmenter with the standard clip bounds: 15s target
// within [8s, 60s], at most 5 clips, 2s window overlap.
func NewSegmenter(silence *analysis.SilenceDetector) *Segmenter {
	if silence == nil {
		silence = analysis.NewSilenceDetector()
	}
	return &Segmenter{
		TargetLength:  15.0,
		MaxClips:      5,
		MinClipLength: 8.0,
		MaxClipLength: 60.0,
		WindowOverlap: 2.0,
		Silence:       silence,
	}
}

// Segment returns 1..MaxClips intervals covering interesting spans of the
// recording. It never returns zero intervals for positive durations.
func (s *Segmenter) Segment(audioPath string, totalDuration float64) []Interval {
	silencePoints := s.Silence.DetectSilencePoints(audioPath)

	if len(silencePoints) >= 2 {
		if segments := s.segmentBySilence(silencePoints, totalDuration); len(segments) > 0 {
			return segments
		}
	}
	return s.segmentFixedWindows(totalDuration)
}

// segmentBySilence walks silence points in order, cutting whenever the span
// since the last cut fits the clip bounds and subdividing oversized spans at
// the target length.
func (s *Segmenter) segmentBySilence(silencePoints []float64, totalDuration float64) []Interval {
	var segments []Interval
	currentStart := 0.0

	points := append([]float64{}, silencePoints...)
	sort.Float64s(points)
	points = append(points, totalDuration)
	for _, point := range points {
		span := point - currentStart
		if span >= s.MinClipLength {
			if span <= s.MaxClipLength {
				segments = append(segments, Interval{Start: currentStart, End: point})
				currentStart = point
			} else {
				for currentStart < point {
					end := currentStart + s.TargetLength
					if end > point {
						end = point
					}
					if end-currentStart >= s.MinClipLength {
						segments = append(segments, Interval{Start: currentStart, End: end})
					}
					currentStart = end
				}
			}
		}
		if len(segments) >= s.MaxClips {
			break
		}
	}

	if len(segments) > s.MaxClips {
		segments = segments[:s.MaxClips]
	}
	return segments
}

// segmentFixedWindows slides a target-length window with overlap step-back.
func (s *Segmenter) segmentFixedWindows(totalDuration float64) []Interval {
	var segments []Interval
	step := s.TargetLength - s.WindowOverlap

	for current := 0.0; current < totalDuration && len(segments) < s.MaxClips; current += step {
		end := current + s.TargetLength
		if end > totalDuration {
			end = totalDuration
		}
		if end-current >= s.MinClipLength {
			segments = append(segments, Interval{Start: round3(current), End: round3(end)})
		}
	}

	if len(segments) == 0 && totalDuration > 0 {
		end := s.TargetLength
		if end > totalDuration {
			end = totalDuration
		}
		segments = []Interval{{Start: 0, End: end}}
	}
	return segments
}
