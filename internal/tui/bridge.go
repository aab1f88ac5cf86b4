package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// bridge carries messages from timer and pipeline goroutines into the
// event loop. Send never blocks once the bridge is closed. TrySend leaves
// half the buffer free for messages that must not be dropped.
type bridge struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func newBridge() *bridge {
	return &bridge{
		ch:   make(chan tea.Msg, 64),
		done: make(chan struct{}),
	}
}

func (b *bridge) Send(msg tea.Msg) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ch <- msg:
		return true
	case <-b.done:
		return false
	}
}

// TrySend delivers msg only if there is room. Used for repaints, where a
// later message supersedes a dropped one.
func (b *bridge) TrySend(msg tea.Msg) bool {
	if len(b.ch) >= cap(b.ch)/2 {
		return false
	}
	select {
	case b.ch <- msg:
		return true
	case <-b.done:
		return false
	default:
		return false
	}
}

// listen waits for the next message. Update re-arms it after every delivery.
func (b *bridge) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}

func (b *bridge) close() {
	b.once.Do(func() { close(b.done) })
}
