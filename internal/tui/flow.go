package tui

import (
	"context"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardotrapani/arrival/internal/autoadvance"
	"github.com/leonardotrapani/arrival/internal/config"
	"github.com/leonardotrapani/arrival/internal/notify"
	"github.com/leonardotrapani/arrival/internal/onboarding"
	"github.com/leonardotrapani/arrival/internal/pipeline"
	"github.com/leonardotrapani/arrival/internal/playback"
	"github.com/leonardotrapani/arrival/internal/speech"
	"github.com/leonardotrapani/arrival/internal/transcriber"
)

// Capture is the microphone as the voice screen needs it.
type Capture interface {
	pipeline.Capture
	IsSupported() bool
}

// Deps are the collaborators of the onboarding program. Capture may be nil.
type Deps struct {
	Sequencer   *onboarding.Sequencer
	Config      func() *config.Config
	Capture     Capture
	Transcriber transcriber.Transcriber
	Synthesizer speech.Synthesizer
	Player      playback.Player
	Notifier    notify.Notifier
}

// flow is the state shared by the root model and its screens.
type flow struct {
	ctx    context.Context
	deps   Deps
	bridge *bridge
	timer  *autoadvance.Timer
	gen    uint64 // bumped on every screen entry
	styles Styles

	aesthetic  onboarding.Aesthetic
	transcript string
	errText    string
	finished   bool
}

func newFlow(ctx context.Context, deps Deps) *flow {
	if deps.Notifier == nil {
		deps.Notifier = notify.Nop{}
	}
	f := &flow{
		ctx:    ctx,
		deps:   deps,
		bridge: newBridge(),
	}
	f.restyle(deps.Sequencer.State().Data.Aesthetic)
	return f
}

func (f *flow) config() *config.Config {
	if f.deps.Config == nil {
		return config.DefaultConfig()
	}
	return f.deps.Config()
}

func (f *flow) state() onboarding.State {
	return f.deps.Sequencer.State()
}

func (f *flow) hydrateCmd() tea.Cmd {
	return func() tea.Msg {
		return hydratedMsg{err: f.deps.Sequencer.Hydrate(f.ctx)}
	}
}

func (f *flow) restyle(a onboarding.Aesthetic) {
	f.aesthetic = a
	f.styles = NewStyles(PaletteFor(a))
}

// schedule replaces the screen's timer. Timed screens start counting right
// away; choice screens arm theirs once a choice is made.
func (f *flow) schedule(delay time.Duration, enabled bool) {
	f.stopTimer()
	gen := f.gen
	f.timer = autoadvance.New(delay, func() {
		f.bridge.Send(advanceMsg{gen: gen})
	}, enabled)
}

func (f *flow) stopTimer() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}

// skipDelay advances the current screen now, at most once.
func (f *flow) skipDelay() {
	if f.timer != nil {
		f.timer.SkipDelay()
	}
}

func (f *flow) armChoiceTimer() {
	if f.timer == nil {
		return
	}
	f.timer.SetEnabled(true)
	f.timer.Reset(f.config().Timing.ChoiceAdvance)
}

func (f *flow) advance() {
	if err := f.deps.Sequencer.Advance(f.ctx); err != nil {
		f.reportErr("advance", err)
	}
}

// skipToEntry jumps straight to the entry screen.
func (f *flow) skipToEntry() {
	if err := f.deps.Sequencer.Skip(f.ctx); err != nil {
		f.reportErr("skip", err)
	}
}

func (f *flow) complete() {
	if err := f.deps.Sequencer.Complete(f.ctx); err != nil {
		f.reportErr("complete", err)
	}
}

func (f *flow) reset() {
	f.transcript = ""
	if err := f.deps.Sequencer.Reset(f.ctx); err != nil {
		f.reportErr("reset", err)
	}
	f.restyle("")
}

// reportErr logs a persistence failure. The flow keeps going in memory.
func (f *flow) reportErr(op string, err error) {
	log.Printf("TUI: %s failed: %v", op, err)
	f.errText = "Progress could not be saved."
}

func (f *flow) shutdown() {
	f.bridge.close()
	f.stopTimer()
}
