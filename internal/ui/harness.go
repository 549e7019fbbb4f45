package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// cmdTimeout bounds how long the harness waits on a command before parking
// it. Parked commands keep running and their messages are routed later by
// AwaitDelivery, so waits on worker channels never lose a message.
const cmdTimeout = 20 * time.Millisecond

// Harness drives the UI model programmatically for integration tests.
type Harness struct {
	model *Model
	late  chan tea.Msg
}

// NewHarness creates a harness for the provided model and runs its Init
// commands.
func NewHarness(model *Model) *Harness {
	h := &Harness{model: model, late: make(chan tea.Msg, 64)}
	if model != nil {
		h.processCmd(model.Init())
	}
	return h
}

// Send routes a message through the model and executes any returned commands.
func (h *Harness) Send(msg tea.Msg) {
	if h.model == nil {
		return
	}
	mdl, cmd := h.model.Update(msg)
	if updated, ok := mdl.(*Model); ok {
		h.model = updated
	}
	h.processCmd(cmd)
}

// AwaitDelivery routes parked messages until the runner hands over a chosen
// item or d elapses. It reports whether an item arrived.
func (h *Harness) AwaitDelivery(d time.Duration) bool {
	deadline := time.After(d)
	for {
		select {
		case msg := <-h.late:
			h.Send(msg)
			if _, ok := msg.(deliveredMsg); ok {
				return true
			}
		case <-deadline:
			return false
		}
	}
}

func (h *Harness) processCmd(cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	msg, ok := h.run(cmd)
	if !ok || msg == nil {
		return
	}
	switch msg := msg.(type) {
	case tea.QuitMsg:
		return
	case tea.BatchMsg:
		for _, sub := range msg {
			h.processCmd(sub)
		}
		return
	}
	h.Send(msg)
}

func (h *Harness) run(cmd tea.Cmd) (tea.Msg, bool) {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg, true
	case <-time.After(cmdTimeout):
		go func() {
			if msg := <-out; msg != nil {
				h.late <- msg
			}
		}()
		return nil, false
	}
}

// View returns the current view string.
func (h *Harness) View() string {
	if h.model == nil {
		return ""
	}
	return h.model.View()
}

// Model exposes the underlying model.
func (h *Harness) Model() *Model {
	return h.model
}
