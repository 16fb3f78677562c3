package timestamps

import (
	"context"
	"math"
	"path/filepath"
	"reflect"
	"testing"

	"shortform/audio"
)

func TestSplitSentences(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two sentences",
			text: "Hello world. This is a test.",
			want: []string{"Hello world.", "This is a test."},
		},
		{
			name: "mixed terminators",
			text: "Really?! Yes. Go now!",
			want: []string{"Really?!", "Yes.", "Go now!"},
		},
		{
			name: "ellipsis stays attached",
			text: "Wait... then run.",
			want: []string{"Wait...", "then run."},
		},
		{
			name: "no terminal punctuation",
			text: "just one fragment",
			want: []string{"just one fragment"},
		},
		{
			name: "punctuation without following space",
			text: "v1.2 is out. Update now.",
			want: []string{"v1.2 is out.", "Update now."},
		},
		{
			name: "cyrillic",
			text: "Привет мир. Это тест.",
			want: []string{"Привет мир.", "Это тест."},
		},
		{
			name: "empty",
			text: "   ",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSentences(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitSentences(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func writeWAV(t *testing.T, duration float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audio.wav")
	if err := audio.WriteSilent(path, duration, 22050); err != nil {
		t.Fatalf("write wav: %v", err)
	}
	return path
}

func TestHeuristicExtractProportional(t *testing.T) {
	path := writeWAV(t, 10.0)
	h := NewHeuristic()

	// First sentence has twice the characters of the second (20 vs 10).
	segs, err := h.Extract(context.Background(), path, "aaaaaaaaaaaaaaaaaaa. bbbbbbbbb.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(segs) != 2 {
		t.Fatalf("got %d segments, want 2", len(segs))
	}

	if segs[0].Start != 0 {
		t.Errorf("first segment starts at %v, want 0", segs[0].Start)
	}
	if segs[1].End != 10.0 {
		t.Errorf("last segment ends at %v, want 10.0", segs[1].End)
	}
	if segs[0].End != segs[1].Start {
		t.Errorf("segments not contiguous: %v != %v", segs[0].End, segs[1].Start)
	}

	first := segs[0].End - segs[0].Start
	second := segs[1].End - segs[1].Start
	if math.Abs(first-2*second) > 0.05 {
		t.Errorf("span ratio off: first=%v second=%v", first, second)
	}
}

func TestHeuristicExtractDeterministic(t *testing.T) {
	path := writeWAV(t, 7.5)
	h := NewHeuristic()
	text := "One sentence here. Another one follows! A third?"

	a, err := h.Extract(context.Background(), path, text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	b, err := h.Extract(context.Background(), path, text)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated extraction differs:\n%v\n%v", a, b)
	}
}

func TestHeuristicExtractEmptyText(t *testing.T) {
	path := writeWAV(t, 4.0)
	h := NewHeuristic()

	segs, err := h.Extract(context.Background(), path, "")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].Start != 0 || segs[0].End != 4.0 {
		t.Errorf("segment = [%v, %v], want [0, 4]", segs[0].Start, segs[0].End)
	}
}

func TestHeuristicExtractMissingAudio(t *testing.T) {
	h := NewHeuristic()

	segs, err := h.Extract(context.Background(), "/nonexistent/audio.wav", "Only sentence.")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(segs) != 1 {
		t.Fatalf("got %d segments, want 1", len(segs))
	}
	if segs[0].End != defaultDuration {
		t.Errorf("segment ends at %v, want default %v", segs[0].End, defaultDuration)
	}
}

func TestWithFallbackNeverEmpty(t *testing.T) {
	p := WithFallback("auto")
	if !p.Available() {
		t.Error("fallback provider must always report available")
	}

	segs, err := p.Extract(context.Background(), "/nonexistent/audio.wav", "Some text here.")
	if err != nil {
		t.Fatalf("Extract through fallback: %v", err)
	}
	if len(segs) == 0 {
		t.Error("fallback provider returned no segments")
	}
}
