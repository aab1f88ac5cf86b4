package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardotrapani/arrival/internal/recording"
)

// bridged marks messages delivered through the bridge. Handling one re-arms
// the listener.
type bridged interface {
	tea.Msg
	bridged()
}

type hydratedMsg struct{ err error }

// advanceMsg is sent by the auto-advance timer of screen generation gen.
type advanceMsg struct{ gen uint64 }

// repaintMsg is sent when the conversation changed state.
type repaintMsg struct{ gen uint64 }

type voiceSavedMsg struct {
	gen        uint64
	artifact   *recording.Artifact
	transcript string
}

type voiceAdvanceMsg struct{ gen uint64 }

func (advanceMsg) bridged()      {}
func (repaintMsg) bridged()      {}
func (voiceSavedMsg) bridged()   {}
func (voiceAdvanceMsg) bridged() {}
