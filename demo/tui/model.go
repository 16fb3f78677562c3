// Package tui is an interactive demo that runs all four generation modes
// against local providers and synthetic sample media.
package tui

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"shortform/audio"
	"shortform/orchestrator"
	"shortform/pipeline"
)

// State represents the demo state machine
type State string

const (
	StateIdle      State = "idle"
	StatePreparing State = "preparing"
	StateRunning   State = "running"
	StateComplete  State = "complete"
	StateError     State = "error"
)

const demoScript = "Every morning is a new chance to build something. " +
	"Small steps add up faster than you think. " +
	"Start today and keep going."

// ModeResult is one finished mode run.
type ModeResult struct {
	Mode     orchestrator.Mode
	Summary  string
	Err      error
	Duration time.Duration
}

type samplesReadyMsg struct {
	musicPath  string
	speechPath string
	err        error
}

type modeDoneMsg struct {
	result ModeResult
}

// Model drives the demo through the four modes in sequence.
type Model struct {
	deps    pipeline.Deps
	workDir string

	state      State
	current    int
	musicPath  string
	speechPath string
	results    []ModeResult
	logs       []string
	err        error
}

// NewModel creates the demo model.
func NewModel(deps pipeline.Deps) Model {
	return Model{
		deps:    deps,
		workDir: filepath.Join(os.TempDir(), "shortform_demo"),
		state:   StateIdle,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "d", "D":
			if m.state == StateIdle {
				m.state = StatePreparing
				m.addLog("Generating sample media...")
				return m, prepareSamples(m.workDir)
			}
		}

	case samplesReadyMsg:
		if msg.err != nil {
			m.state = StateError
			m.err = fmt.Errorf("failed to generate sample media: %w", msg.err)
			return m, nil
		}
		m.musicPath = msg.musicPath
		m.speechPath = msg.speechPath
		m.state = StateRunning
		m.current = 0
		m.addLog("Sample media ready")
		return m, m.runCurrentMode()

	case modeDoneMsg:
		m.results = append(m.results, msg.result)
		if msg.result.Err != nil {
			m.addLog(fmt.Sprintf("%s failed: %v", msg.result.Mode.DisplayName(), msg.result.Err))
		} else {
			m.addLog(fmt.Sprintf("%s done in %.1fs", msg.result.Mode.DisplayName(), msg.result.Duration.Seconds()))
		}
		m.current++
		if m.current >= len(demoModes) {
			m.state = StateComplete
			return m, nil
		}
		return m, m.runCurrentMode()
	}

	return m, nil
}

var demoModes = []orchestrator.Mode{
	orchestrator.ModeText,
	orchestrator.ModeMusic,
	orchestrator.ModeAudio,
	orchestrator.ModeLong,
}

func (m *Model) runCurrentMode() tea.Cmd {
	mode := demoModes[m.current]
	m.addLog(fmt.Sprintf("Running %s...", mode.DisplayName()))

	deps := m.deps
	musicPath := m.musicPath
	speechPath := m.speechPath

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		started := time.Now()
		var result *orchestrator.Result
		var err error

		switch mode {
		case orchestrator.ModeText:
			result, err = orchestrator.NewText(deps).BuildRenderJob(ctx, orchestrator.TextRequest{
				ScriptText: demoScript,
				Lang:       "en",
			})
		case orchestrator.ModeMusic:
			result, err = orchestrator.NewMusic(deps).BuildRenderJob(ctx, orchestrator.MusicRequest{
				AudioPath:  musicPath,
				Style:      "abstract",
				ClipLength: 10,
			})
		case orchestrator.ModeAudio:
			result, err = orchestrator.NewAudio(deps).BuildRenderJob(ctx, orchestrator.AudioRequest{
				AudioPath: speechPath,
				Style:     "podcast",
			})
		case orchestrator.ModeLong:
			// Uses the speech sample as the source recording; the crop step
			// needs ffmpeg on PATH and reports a clear error without it.
			result, err = orchestrator.NewLongVideo(deps).BuildRenderJob(ctx, orchestrator.LongVideoRequest{
				VideoPath: speechPath,
				MaxClips:  2,
			})
		}

		return modeDoneMsg{result: ModeResult{
			Mode:     mode,
			Summary:  summarize(result),
			Err:      err,
			Duration: time.Since(started),
		}}
	}
}

func summarize(result *orchestrator.Result) string {
	if result == nil {
		return ""
	}
	parts := []string{
		fmt.Sprintf("cost: %d", result.EstimatedCostCredits),
		fmt.Sprintf("duration: %.1fs", result.EstimatedDurationSeconds),
		fmt.Sprintf("jobs: %d", len(result.Jobs)),
	}
	if scenes, ok := result.Metadata["scenes_count"]; ok {
		parts = append(parts, fmt.Sprintf("scenes: %v", scenes))
	}
	if tempo, ok := result.Metadata["tempo_bpm"]; ok {
		parts = append(parts, fmt.Sprintf("tempo: %v BPM", tempo))
	}
	if clips, ok := result.Metadata["clips_count"]; ok {
		parts = append(parts, fmt.Sprintf("clips: %v", clips))
	}
	return strings.Join(parts, " | ")
}

// prepareSamples writes a pulsed music track and a longer speech-length
// track into the work directory.
func prepareSamples(dir string) tea.Cmd {
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return samplesReadyMsg{err: err}
		}

		musicPath := filepath.Join(dir, "sample_music.wav")
		if err := audio.WriteMono(musicPath, pulsedSamples(12.0, 0.5, 22050), 22050); err != nil {
			return samplesReadyMsg{err: err}
		}

		speechPath := filepath.Join(dir, "sample_speech.wav")
		if err := audio.WriteMono(speechPath, pulsedSamples(24.0, 3.0, 22050), 22050); err != nil {
			return samplesReadyMsg{err: err}
		}

		return samplesReadyMsg{musicPath: musicPath, speechPath: speechPath}
	}
}

// pulsedSamples produces a quiet track with a short loud burst every
// interval seconds, enough for the beat and silence detectors to find
// structure.
func pulsedSamples(duration, interval float64, sampleRate int) []float64 {
	n := int(duration * float64(sampleRate))
	samples := make([]float64, n)
	burst := int(0.05 * float64(sampleRate))
	step := int(interval * float64(sampleRate))
	for start := 0; start < n; start += step {
		for i := 0; i < burst && start+i < n; i++ {
			samples[start+i] = 0.8 * math.Sin(2*math.Pi*220*float64(i)/float64(sampleRate))
		}
	}
	return samples
}

func (m *Model) addLog(msg string) {
	m.logs = append(m.logs, fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg))
	if len(m.logs) > 10 {
		m.logs = m.logs[len(m.logs)-10:]
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎬 Shortform Generation Demo"))
	b.WriteString("\n\n")

	switch m.state {
	case StateIdle:
		b.WriteString(bannerStyle.Render("👋 Ready to start!"))
		b.WriteString("\n\n")
		b.WriteString(mutedStyle.Render("Press 'd' to run all four modes with local providers"))
	case StatePreparing:
		b.WriteString(statusStyle.Render("⏳ Generating sample media..."))
	case StateRunning:
		mode := demoModes[m.current]
		b.WriteString(statusStyle.Render(fmt.Sprintf("⚙️  Running %s (%d/%d)...", mode.DisplayName(), m.current+1, len(demoModes))))
	case StateComplete:
		b.WriteString(bannerStyle.Render("✅ COMPLETE"))
	case StateError:
		b.WriteString(errorStyle.Render(fmt.Sprintf("❌ Error: %v", m.err)))
	}
	b.WriteString("\n\n")

	if len(m.results) > 0 {
		var box strings.Builder
		box.WriteString(bannerStyle.Render("Mode Results"))
		box.WriteString("\n\n")
		for _, r := range m.results {
			if r.Err != nil {
				box.WriteString(fmt.Sprintf("%s  %s\n", r.Mode.DisplayName(), errorStyle.Render("failed: "+r.Err.Error())))
				continue
			}
			box.WriteString(fmt.Sprintf("%s\n  %s\n", modeStyle(r.Mode).Render(r.Mode.DisplayName()), mutedStyle.Render(r.Summary)))
		}
		b.WriteString(resultsBoxStyle.Render(box.String()))
		b.WriteString("\n\n")
	}

	if len(m.logs) > 0 {
		b.WriteString(mutedStyle.Render("📝 Recent Activity:"))
		b.WriteString("\n")
		for _, logMsg := range m.logs {
			b.WriteString(mutedStyle.Render("   " + logMsg))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.state == StateIdle {
		b.WriteString(mutedStyle.Render("Press 'd' to start demo | Press 'q' or Ctrl+C to quit"))
	} else {
		b.WriteString(mutedStyle.Render("Press 'q' or Ctrl+C to quit"))
	}

	return b.String()
}
