package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type screen interface {
	Init() tea.Cmd
	Update(tea.Msg) (screen, tea.Cmd)
	View() string
}

// leaver is implemented by screens that hold resources. leave runs on the
// event loop when the screen is replaced; the returned command finishes the
// teardown off the loop.
type leaver interface {
	leave() tea.Cmd
}

type optionItem struct {
	title string
	desc  string
	value string
}

func (i optionItem) Title() string       { return i.title }
func (i optionItem) Description() string { return i.desc }
func (i optionItem) FilterValue() string {
	return strings.TrimSpace(i.title + " " + i.desc)
}
