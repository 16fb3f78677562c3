package voice

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"shortform/audio"
)

func TestEstimateDuration(t *testing.T) {
	cases := []struct {
		name string
		text string
		want float64
	}{
		{"empty", "", 1.0},
		{"whitespace", "   ", 1.0},
		{"one word clamps to minimum", "hello", 1.0},
		{"ten words", strings.Repeat("word ", 10), 4.0},
		{"very long clamps to maximum", strings.Repeat("word ", 2000), 300.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := estimateDuration(tc.text); math.Abs(got-tc.want) > 0.001 {
				t.Errorf("estimateDuration = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLocalSynthesize(t *testing.T) {
	local := NewLocal(t.TempDir())

	sp, err := local.Synthesize(context.Background(), strings.Repeat("word ", 10), "en")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if sp.Provider != "local" {
		t.Errorf("Provider = %q, want local", sp.Provider)
	}
	if sp.Degraded {
		t.Error("direct local synthesis marked degraded")
	}

	d, err := audio.ProbeDuration(sp.Path)
	if err != nil {
		t.Fatalf("ProbeDuration: %v", err)
	}
	if math.Abs(d-4.0) > 0.01 {
		t.Errorf("WAV duration = %v, want 4.0 (10 words at 2.5 wps)", d)
	}
}

// failingProvider claims availability but always errors.
type failingProvider struct{}

func (failingProvider) Name() string    { return "failing" }
func (failingProvider) Available() bool { return true }

func (failingProvider) Synthesize(context.Context, string, string) (Speech, error) {
	return Speech{}, errors.New("upstream down")
}

func TestFallbackDegrades(t *testing.T) {
	f := &fallback{primary: failingProvider{}, local: NewLocal(t.TempDir())}

	sp, err := f.Synthesize(context.Background(), "the show must go on", "en")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if !sp.Degraded {
		t.Error("Degraded = false after primary failure")
	}
	if sp.Provider != "local" {
		t.Errorf("Provider = %q, want local", sp.Provider)
	}
	if sp.Path == "" {
		t.Error("no audio path")
	}
}

func TestFallbackAlwaysAvailable(t *testing.T) {
	f := WithFallback("openai")
	if !f.Available() {
		t.Error("fallback-wrapped provider reports unavailable")
	}
}

func TestNewUnknownNameResolvesLocal(t *testing.T) {
	p := New("nonexistent")
	if p.Name() != "local" {
		t.Errorf("New(nonexistent) = %q, want local", p.Name())
	}
}

func TestNewAutoWithoutCredentials(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("ELEVENLABS_API_KEY", "")
	p := New("auto")
	if p.Name() != "local" {
		t.Errorf("auto without credentials = %q, want local", p.Name())
	}
}
