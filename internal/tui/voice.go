package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardotrapani/arrival/internal/onboarding"
	"github.com/leonardotrapani/arrival/internal/pipeline"
	"github.com/leonardotrapani/arrival/internal/recording"
)

// voiceScreen hosts the conversation pipeline.
type voiceScreen struct {
	f       *flow
	st      onboarding.State
	conv    *pipeline.Pipeline
	input   textinput.Model
	spinner spinner.Model
	micOK   bool
}

func newVoiceScreen(f *flow, st onboarding.State) *voiceScreen {
	f.stopTimer()
	gen := f.gen
	cfg := f.config()

	var capture pipeline.Capture
	micOK := f.deps.Capture != nil && f.deps.Capture.IsSupported()
	if micOK {
		capture = f.deps.Capture
	}

	conv := pipeline.New(cfg.ToPipelineConfig(), pipeline.Deps{
		Capture:     capture,
		Transcriber: f.deps.Transcriber,
		Synthesizer: f.deps.Synthesizer,
		Player:      f.deps.Player,
		Notifier:    f.deps.Notifier,
		Intent: func() onboarding.Intent {
			return f.deps.Sequencer.State().Data.Intent
		},
		OnSave: func(artifact *recording.Artifact, transcript string) {
			f.bridge.Send(voiceSavedMsg{gen: gen, artifact: artifact, transcript: transcript})
		},
		OnAdvance: func() {
			f.bridge.Send(voiceAdvanceMsg{gen: gen})
		},
		OnChange: func(pipeline.Snapshot) {
			f.bridge.TrySend(repaintMsg{gen: gen})
		},
	})

	ti := textinput.New()
	ti.Placeholder = "Say hello..."
	ti.CharLimit = 280
	ti.Prompt = "› "

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = f.styles.Highlight

	s := &voiceScreen{f: f, st: st, conv: conv, input: ti, spinner: sp, micOK: micOK}
	if !micOK {
		s.input.Focus()
	}
	return s
}

func (s *voiceScreen) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, s.spinner.Tick)
}

func (s *voiceScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	case tea.WindowSizeMsg:
		s.input.Width = msg.Width - 8
		return s, nil
	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *voiceScreen) handleKey(msg tea.KeyMsg) (screen, tea.Cmd) {
	snap := s.conv.Snapshot()
	ctx := s.f.ctx

	switch msg.String() {
	case "esc":
		conv := s.conv
		return s, func() tea.Msg {
			conv.Skip()
			return nil
		}
	case "ctrl+r":
		conv := s.conv
		s.input.Reset()
		return s, func() tea.Msg {
			conv.Reset()
			return nil
		}
	case "tab":
		next := pipeline.ModeText
		if snap.Mode == pipeline.ModeText {
			next = pipeline.ModeVoice
		}
		if s.conv.SetMode(next) {
			if next == pipeline.ModeText {
				return s, s.input.Focus()
			}
			s.input.Blur()
		}
		return s, nil
	}

	if snap.Phase != pipeline.PhaseInput {
		return s, nil
	}

	if snap.Mode == pipeline.ModeText {
		if msg.String() == "enter" {
			if s.conv.SubmitText(ctx, s.input.Value()) {
				s.input.Reset()
			}
			return s, nil
		}
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		s.conv.SetText(s.input.Value())
		return s, cmd
	}

	switch msg.String() {
	case "enter", " ":
		conv := s.conv
		if snap.Recording {
			return s, func() tea.Msg {
				conv.SubmitVoice(ctx)
				return nil
			}
		}
		return s, func() tea.Msg {
			_ = conv.StartRecording(ctx)
			return nil
		}
	case "r":
		if snap.CanResend {
			s.conv.Resend(ctx)
		}
	}
	return s, nil
}

func (s *voiceScreen) View() string {
	st := s.f.styles
	snap := s.conv.Snapshot()
	c := copyFor[onboarding.ScreenVoice]

	var b strings.Builder
	b.WriteString(renderHeader(st, c.title, c.lines, s.f.errText))

	if snap.Transcript != "" {
		b.WriteString(st.User.Render("You: " + snap.Transcript))
		b.WriteString("\n")
	}

	switch snap.Phase {
	case pipeline.PhaseSending:
		b.WriteString(s.spinner.View() + st.Muted.Render(" Sending..."))
	case pipeline.PhaseTranscribing:
		b.WriteString(s.spinner.View() + st.Muted.Render(" Listening back..."))
	case pipeline.PhaseResponding:
		b.WriteString(s.spinner.View() + st.Muted.Render(" Thinking..."))
	case pipeline.PhasePlaying, pipeline.PhaseFinishing:
		b.WriteString(st.Assistant.Render(snap.Revealed))
		if snap.Silent {
			b.WriteString("\n" + st.Subtle.Render("(sound is off)"))
		}
	default:
		b.WriteString(s.inputView(snap))
	}
	b.WriteString("\n")

	if snap.Error != "" {
		b.WriteString("\n" + st.Error.Render(snap.Error) + "\n")
	}

	b.WriteString("\n" + renderProgress(st, s.st) + "\n\n")
	b.WriteString(renderFooter(st, s.help(snap)))
	return b.String()
}

func (s *voiceScreen) inputView(snap pipeline.Snapshot) string {
	st := s.f.styles
	if snap.Mode == pipeline.ModeText {
		return s.input.View()
	}
	if snap.Recording {
		return st.Error.Render("● ") + st.Body.Render("Recording. Press enter when you're done.")
	}
	if snap.CanResend {
		return st.Body.Render("Press r to send it again, or enter to record again.")
	}
	return st.Body.Render("Press enter and say hello.")
}

func (s *voiceScreen) help(snap pipeline.Snapshot) string {
	parts := []string{}
	if snap.Phase == pipeline.PhaseInput {
		if snap.Mode == pipeline.ModeText {
			parts = append(parts, "enter send")
			if s.micOK {
				parts = append(parts, "tab talk instead")
			}
		} else {
			parts = append(parts, "enter record", "tab type instead")
		}
	} else {
		parts = append(parts, "ctrl+r start over")
	}
	parts = append(parts, "esc skip")
	return strings.Join(parts, " • ")
}

// leave abandons the conversation. Stopping the microphone and waiting for
// the running interaction both block, so they run off the event loop.
func (s *voiceScreen) leave() tea.Cmd {
	conv := s.conv
	return func() tea.Msg {
		conv.Reset()
		conv.Close()
		return nil
	}
}
