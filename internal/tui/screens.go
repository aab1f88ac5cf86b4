package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonardotrapani/arrival/internal/onboarding"
)

// timedScreen shows copy and advances on its own after a delay.
type timedScreen struct {
	f     *flow
	st    onboarding.State
	copy  screenCopy
	delay time.Duration
}

func newTimedScreen(f *flow, st onboarding.State, delay time.Duration) *timedScreen {
	f.schedule(delay, true)
	return &timedScreen{f: f, st: st, copy: copyFor[st.Screen], delay: delay}
}

func (s *timedScreen) Init() tea.Cmd { return nil }

func (s *timedScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", " ", "right", "l":
			s.f.skipDelay()
		case "esc":
			s.f.skipToEntry()
		}
	}
	return s, nil
}

func (s *timedScreen) View() string {
	st := s.f.styles
	var desc []string
	if s.st.Screen == onboarding.ScreenArrival && s.st.ReturningVisitor {
		desc = append(desc, "Welcome back. Press esc to go straight in.")
	}
	desc = append(desc, s.copy.lines...)
	return renderHeader(st, s.copy.title, desc, s.f.errText) +
		renderProgress(st, s.st) + "\n\n" +
		renderFooter(st, "enter continue • esc skip to the end • ctrl+c quit")
}

// choiceScreen asks for one option and advances shortly after a pick.
type choiceScreen struct {
	f       *flow
	st      onboarding.State
	copy    screenCopy
	list    list.Model
	chosen  string
	errText string
	onPick  func(value string) error
}

func newChoiceScreen(f *flow, st onboarding.State, items []optionItem, selected string, onPick func(string) error) *choiceScreen {
	f.schedule(f.config().Timing.ChoiceAdvance, false)

	l := list.New(itemsToList(items), list.NewDefaultDelegate(), 0, 0)
	l.DisableQuitKeybindings()
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.SetShowTitle(false)
	for i, item := range items {
		if item.value == selected {
			l.Select(i)
		}
	}
	return &choiceScreen{f: f, st: st, copy: copyFor[st.Screen], list: l, onPick: onPick}
}

func (s *choiceScreen) Init() tea.Cmd { return nil }

func (s *choiceScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.list.SetSize(msg.Width-4, msg.Height-10)
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			item, ok := s.list.SelectedItem().(optionItem)
			if !ok {
				return s, nil
			}
			if err := s.onPick(item.value); err != nil {
				s.errText = err.Error()
				return s, nil
			}
			s.errText = ""
			s.chosen = item.value
			s.f.armChoiceTimer()
			return s, nil
		case "esc":
			s.f.skipToEntry()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *choiceScreen) View() string {
	st := s.f.styles
	errText := s.errText
	if errText == "" {
		errText = s.f.errText
	}
	header := renderHeader(st, s.copy.title, s.copy.lines, errText)
	footer := "↑/↓ navigate • enter choose • esc skip to the end"
	if s.chosen != "" {
		footer = st.Success.Render("Got it.") + "  " + footer
	}
	return header + s.list.View() + "\n" + renderProgress(st, s.st) + "\n\n" + renderFooter(st, footer)
}

// entryScreen is terminal: it marks onboarding complete on entry.
type entryScreen struct {
	f  *flow
	st onboarding.State
}

func newEntryScreen(f *flow) *entryScreen {
	returning := f.state().ReturningVisitor
	f.complete()
	st := f.state()
	st.ReturningVisitor = returning
	return &entryScreen{f: f, st: st}
}

func (s *entryScreen) Init() tea.Cmd { return nil }

func (s *entryScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "q":
			s.f.finished = true
			return s, tea.Quit
		case "r":
			s.f.reset()
		}
	}
	return s, nil
}

func (s *entryScreen) View() string {
	st := s.f.styles
	title := copyFor[onboarding.ScreenEntry].title
	if s.st.ReturningVisitor {
		title = "Welcome back."
	}

	var lines []string
	data := s.st.Data
	if label, ok := aestheticLabels[data.Aesthetic]; ok {
		lines = append(lines, fmt.Sprintf("Feel: %s", label[0]))
	}
	if label, ok := intentLabels[data.Intent]; ok {
		lines = append(lines, fmt.Sprintf("Here for: %s", label[0]))
	}
	if s.f.transcript != "" {
		lines = append(lines, fmt.Sprintf("You said: %q", s.f.transcript))
	}
	if data.FirstVisit != nil {
		lines = append(lines, "First visit: "+data.FirstVisit.Local().Format("Jan 2, 2006"))
	}

	return renderHeader(st, title, lines, s.f.errText) +
		renderFooter(st, "enter finish • r start over")
}

func itemsToList(items []optionItem) []list.Item {
	result := make([]list.Item, len(items))
	for i, item := range items {
		result[i] = item
	}
	return result
}

func aestheticItems() []optionItem {
	items := make([]optionItem, 0, len(onboarding.Aesthetics))
	for _, a := range onboarding.Aesthetics {
		label := aestheticLabels[a]
		items = append(items, optionItem{title: label[0], desc: label[1], value: string(a)})
	}
	return items
}

func intentItems() []optionItem {
	items := make([]optionItem, 0, len(onboarding.Intents))
	for _, i := range onboarding.Intents {
		label := intentLabels[i]
		items = append(items, optionItem{title: label[0], desc: label[1], value: string(i)})
	}
	return items
}

func renderHeader(st Styles, title string, desc []string, errText string) string {
	var b strings.Builder
	if title != "" {
		b.WriteString(st.Header.Render(title))
		b.WriteString("\n")
	}
	for _, line := range desc {
		if line == "" {
			continue
		}
		b.WriteString(st.Muted.Render(line))
		b.WriteString("\n")
	}
	if errText != "" {
		b.WriteString("\n")
		b.WriteString(st.Error.Render(errText))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func renderFooter(st Styles, text string) string {
	return st.Subtle.Render(text)
}

func renderProgress(st Styles, s onboarding.State) string {
	var b strings.Builder
	for i := 0; i < s.TotalScreens; i++ {
		if i > 0 {
			b.WriteString(" ")
		}
		if i <= s.ScreenIndex {
			b.WriteString(st.Selected.Render("●"))
		} else {
			b.WriteString(st.Subtle.Render("○"))
		}
	}
	return b.String()
}
