// Package invoke delivers chosen menu items to the rest of the
// application.
package invoke

import (
	"fmt"

	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// Sink receives the item chosen by a finished session. It is called at
// most once per session, after every overlay of the chain is closed, and
// never when nothing was chosen.
type Sink interface {
	Deliver(item *menu.Item)
}

// Func adapts a function to Sink.
type Func func(item *menu.Item)

func (f Func) Deliver(item *menu.Item) { f(item) }

// Chan posts the item on a channel. The send blocks, so the channel
// should be buffered or drained by a dedicated reader.
type Chan chan<- *menu.Item

func (c Chan) Deliver(item *menu.Item) { c <- item }

// InvokedMsg carries a delivered item into a Bubble Tea program together
// with the command that runs its action.
type InvokedMsg struct {
	Item *menu.Item
	Cmd  tea.Cmd
}

// Bus turns delivered items into Bubble Tea commands.
type Bus struct {
	send func(tea.Msg)
}

// NewBus creates a bus posting InvokedMsg values through send, usually
// (*tea.Program).Send.
func NewBus(send func(tea.Msg)) *Bus {
	return &Bus{send: send}
}

// Deliver implements Sink.
func (b *Bus) Deliver(item *menu.Item) {
	if item == nil || b.send == nil {
		return
	}
	b.send(InvokedMsg{Item: item, Cmd: b.Execute(item)})
}

// Execute wraps the item's action into a Bubble Tea command while emitting
// trace logs.
func (b *Bus) Execute(item *menu.Item) tea.Cmd {
	label := item.Label
	events.Command.Queue(item.ID, label)
	return func() tea.Msg {
		if item.Action == nil {
			events.Command.Skip(item.ID, label)
			return nil
		}
		cmd := item.Action(item)
		if cmd == nil {
			events.Command.NoOp(item.ID, label)
			return nil
		}
		msg := cmd()
		events.Command.Result(item.ID, label, fmt.Sprintf("%T", msg))
		return msg
	}
}
