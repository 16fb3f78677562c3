package pipeline

import (
	"math"
	"strings"

	timestamps "shortform/providers/timestamps"
)

// BuildTiming subdivides each segment's span evenly across its words. Word
// ends never cross the segment end, so per-segment word durations sum to the
// segment duration within rounding tolerance. Empty transcripts get a single
// ellipsis word so the subtitle renderer always has input.
func BuildTiming(segs []timestamps.Segment, totalDuration float64) Timing {
	var words []Word

	for _, seg := range segs {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		parts := strings.Fields(text)
		if len(parts) == 0 {
			continue
		}

		wordDuration := (seg.End - seg.Start) / float64(len(parts))
		current := seg.Start
		for _, w := range parts {
			end := math.Min(current+wordDuration, seg.End)
			words = append(words, Word{
				Word:  w,
				Start: round3(current),
				End:   round3(end),
			})
			current = end
		}
	}

	if len(words) == 0 {
		words = []Word{{Word: "...", Start: 0, End: math.Min(1.0, totalDuration)}}
	}

	return Timing{Words: words, TotalDuration: round3(totalDuration)}
}
