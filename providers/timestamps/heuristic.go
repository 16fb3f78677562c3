package timestamps

import (
	"context"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"shortform/audio"
)

const defaultDuration = 10.0

// Heuristic allocates time to sentences proportionally to their character
// count. Always available, fully deterministic.
type Heuristic struct{}

// NewHeuristic creates the heuristic backend.
func NewHeuristic() *Heuristic { return &Heuristic{} }

func (h *Heuristic) Name() string    { return "heuristic" }
func (h *Heuristic) Available() bool { return true }

func (h *Heuristic) Extract(_ context.Context, audioPath, text string) ([]Segment, error) {
	duration := probeDuration(audioPath)
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return []Segment{{Start: 0, End: duration, Text: text}}, nil
	}
	return distribute(sentences, duration), nil
}

// probeDuration reads the audio file's WAV header. Missing or unreadable
// files get a fixed default so alignment still produces a usable grid.
func probeDuration(path string) float64 {
	d, err := audio.ProbeDuration(path)
	if err != nil || d <= 0 {
		return defaultDuration
	}
	return d
}

// SplitSentences splits text on sentence-final punctuation (. ! ?) followed
// by whitespace. Trailing punctuation stays attached to its sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		// Consume a run of terminators, then break at following whitespace.
		j := i
		for j+1 < len(runes) && (runes[j+1] == '.' || runes[j+1] == '!' || runes[j+1] == '?') {
			j++
		}
		if j+1 < len(runes) && unicode.IsSpace(runes[j+1]) {
			if s := strings.TrimSpace(string(runes[start : j+1])); s != "" {
				sentences = append(sentences, s)
			}
			start = j + 1
		}
		i = j
	}
	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// distribute assigns each sentence a share of the total duration proportional
// to its length in characters. The final segment is clamped to end exactly at
// the total duration.
func distribute(sentences []string, total float64) []Segment {
	totalChars := 0
	for _, s := range sentences {
		totalChars += utf8.RuneCountInString(s)
	}

	segments := make([]Segment, 0, len(sentences))
	if totalChars == 0 {
		per := total / float64(len(sentences))
		for i, s := range sentences {
			segments = append(segments, Segment{
				Start: round3(float64(i) * per),
				End:   round3(float64(i+1) * per),
				Text:  s,
			})
		}
		return segments
	}

	current := 0.0
	for _, s := range sentences {
		span := total * float64(utf8.RuneCountInString(s)) / float64(totalChars)
		end := math.Min(current+span, total)
		segments = append(segments, Segment{
			Start: round3(current),
			End:   round3(end),
			Text:  s,
		})
		current = end
	}
	segments[len(segments)-1].End = round3(total)
	return segments
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
