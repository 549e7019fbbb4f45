package ui

import (
	"github.com/atomicstack/menutrack/internal/invoke"
	"github.com/atomicstack/menutrack/internal/logging"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	tea "github.com/charmbracelet/bubbletea"
)

// deliveredMsg wraps an item handed over by the runner after its chain
// closed.
type deliveredMsg struct {
	invoked invoke.InvokedMsg
}

// redrawMsg asks Bubble Tea to repaint after a tracking worker changed
// what is on screen.
type redrawMsg struct{}

// invalidate is installed on the surface. It runs on tracking workers
// outside the window lock and must never block.
func (m *Model) invalidate() {
	select {
	case m.redraw <- struct{}{}:
	default:
	}
}

func (m *Model) waitForRedraw() tea.Cmd {
	return func() tea.Msg {
		<-m.redraw
		return redrawMsg{}
	}
}

// waitForDelivery turns the next chosen item into a message carrying the
// command that runs its action.
func (m *Model) waitForDelivery() tea.Cmd {
	return func() tea.Msg {
		item := <-m.deliveries
		return deliveredMsg{invoked: invoke.InvokedMsg{Item: item, Cmd: m.bus.Execute(item)}}
	}
}

func (m *Model) handleDeliveredMsg(msg tea.Msg) tea.Cmd {
	delivered, ok := msg.(deliveredMsg)
	if !ok {
		return nil
	}
	return tea.Batch(m.handleInvokedMsg(delivered.invoked), m.waitForDelivery())
}

func (m *Model) handleRedrawMsg(tea.Msg) tea.Cmd {
	return m.waitForRedraw()
}

func (m *Model) handleInvokedMsg(msg tea.Msg) tea.Cmd {
	invoked, ok := msg.(invoke.InvokedMsg)
	if !ok || invoked.Item == nil {
		return nil
	}
	events.UI.Invoked(invoked.Item.ID)
	m.errMsg = ""
	m.infoMsg = invoked.Item.Label
	return invoked.Cmd
}

func (m *Model) handleActionResultMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(menu.ActionResult)
	if !ok {
		return nil
	}
	if result.Err != nil {
		m.errMsg = result.Err.Error()
		m.infoMsg = ""
		logging.Error(result.Err)
		events.Action.Error(result.Err)
		return nil
	}
	m.errMsg = ""
	m.infoMsg = result.Info
	events.Action.Success(result.Info)
	return nil
}

// invokeNow runs an item picked without opening its menu, as shortcuts do.
func (m *Model) invokeNow(item *menu.Item) tea.Cmd {
	return m.handleInvokedMsg(invoke.InvokedMsg{Item: item, Cmd: m.bus.Execute(item)})
}

// MarkMsg asks the host to change an item's check or radio mark. Actions
// run off the update loop, so they post this instead of touching the tree.
type MarkMsg struct {
	Item *menu.Item
	// Toggle flips the current mark; otherwise the item is marked. Radio
	// menus always keep exactly the chosen item marked.
	Toggle bool
}

func (m *Model) handleMarkMsg(msg tea.Msg) tea.Cmd {
	mark, ok := msg.(MarkMsg)
	if !ok || mark.Item == nil {
		return nil
	}
	m.surf.LockNow()
	marked := true
	if mark.Toggle && (mark.Item.Menu() == nil || !mark.Item.Menu().RadioMode()) {
		marked = !mark.Item.Marked()
	}
	mark.Item.SetMarked(marked)
	m.surf.Unlock()
	state := "off"
	if marked {
		state = "on"
	}
	m.infoMsg = mark.Item.Label + " " + state
	return nil
}
