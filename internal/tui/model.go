package tui

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardotrapani/arrival/internal/onboarding"
)

// Model is the onboarding program. Screens are rebuilt whenever the
// sequencer moves to another screen.
type Model struct {
	f        *flow
	screen   screen
	index    int
	hydrated bool
	width    int
	height   int
}

func New(ctx context.Context, deps Deps) (Model, error) {
	if deps.Sequencer == nil {
		return Model{}, fmt.Errorf("sequencer is required")
	}
	return Model{f: newFlow(ctx, deps), index: -1}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.f.hydrateCmd(), m.f.bridge.listen())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if _, ok := msg.(bridged); ok {
		cmds = append(cmds, m.f.bridge.listen())
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case hydratedMsg:
		if msg.err != nil {
			m.f.reportErr("hydrate", msg.err)
		}
		m.hydrated = true
		return m.enter(cmds...)
	case advanceMsg:
		if msg.gen == m.f.gen {
			m.f.advance()
		}
		return m.sync(cmds...)
	case voiceSavedMsg:
		if msg.gen == m.f.gen {
			m.f.transcript = msg.transcript
			if err := m.f.deps.Sequencer.SetVoiceGreeting(m.f.ctx, msg.artifact); err != nil {
				m.f.reportErr("save greeting", err)
			}
		}
		return m, tea.Batch(cmds...)
	case voiceAdvanceMsg:
		if msg.gen == m.f.gen {
			m.f.advance()
		}
		return m.sync(cmds...)
	case repaintMsg:
		return m, tea.Batch(cmds...)
	}

	if !m.hydrated || m.screen == nil {
		return m, tea.Batch(cmds...)
	}

	next, cmd := m.screen.Update(msg)
	m.screen = next
	cmds = append(cmds, cmd)
	if m.f.finished {
		m.f.shutdown()
		return m, tea.Batch(cmds...)
	}
	return m.sync(cmds...)
}

func (m Model) View() string {
	if !m.hydrated || m.screen == nil {
		return m.f.styles.Muted.Render("Loading...")
	}
	return m.f.styles.Box.Render(m.screen.View())
}

// sync rebuilds the screen if the sequencer moved.
func (m Model) sync(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	st := m.f.state()
	if st.Data.Aesthetic != m.f.aesthetic {
		m.f.restyle(st.Data.Aesthetic)
	}
	if st.ScreenIndex != m.index {
		return m.enter(cmds...)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) enter(cmds ...tea.Cmd) (tea.Model, tea.Cmd) {
	if l, ok := m.screen.(leaver); ok {
		cmds = append(cmds, l.leave())
	}
	m.f.stopTimer()
	m.f.gen++
	m.f.errText = ""

	st := m.f.state()
	if st.Data.Aesthetic != m.f.aesthetic {
		m.f.restyle(st.Data.Aesthetic)
	}
	m.index = st.ScreenIndex
	m.screen = m.f.build(st)
	log.Printf("TUI: entered screen %s (%d/%d)", st.Screen, st.ScreenIndex+1, st.TotalScreens)

	cmds = append(cmds, m.screen.Init())
	if m.width > 0 && m.height > 0 {
		next, cmd := m.screen.Update(tea.WindowSizeMsg{Width: m.width, Height: m.height})
		m.screen = next
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) quit() tea.Cmd {
	m.f.shutdown()
	var leave tea.Cmd
	if l, ok := m.screen.(leaver); ok {
		leave = l.leave()
	}
	return tea.Sequence(leave, tea.Quit)
}

func (f *flow) build(st onboarding.State) screen {
	if delay, ok := f.config().ScreenDelay(st.Screen); ok {
		return newTimedScreen(f, st, delay)
	}

	switch st.Screen {
	case onboarding.ScreenAesthetic:
		return newChoiceScreen(f, st, aestheticItems(), string(st.Data.Aesthetic), f.pickAesthetic)
	case onboarding.ScreenIntent:
		return newChoiceScreen(f, st, intentItems(), string(st.Data.Intent), f.pickIntent)
	case onboarding.ScreenVoice:
		return newVoiceScreen(f, st)
	case onboarding.ScreenEntry:
		return newEntryScreen(f)
	}

	log.Printf("TUI: no view for screen %s, using a timed screen", st.Screen)
	return newTimedScreen(f, st, f.config().Timing.Arrival)
}

func (f *flow) pickAesthetic(value string) error {
	a := onboarding.Aesthetic(value)
	if err := f.deps.Sequencer.SetAesthetic(f.ctx, a); err != nil {
		if f.state().Data.Aesthetic != a {
			return err
		}
		f.reportErr("save aesthetic", err)
	}
	f.restyle(a)
	return nil
}

func (f *flow) pickIntent(value string) error {
	i := onboarding.Intent(value)
	if err := f.deps.Sequencer.SetIntent(f.ctx, i); err != nil {
		if f.state().Data.Intent != i {
			return err
		}
		f.reportErr("save intent", err)
	}
	return nil
}

// Run shows the onboarding flow until the visitor finishes or quits.
func Run(ctx context.Context, deps Deps) error {
	m, err := New(ctx, deps)
	if err != nil {
		return err
	}
	defer m.f.shutdown()

	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("onboarding: %w", err)
	}
	return nil
}
