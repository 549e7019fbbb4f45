package ui

import (
	"fmt"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/logging"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/surface"
	"github.com/atomicstack/menutrack/internal/tracking"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	size, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth && size.Width > 0 {
		m.width = size.Width
	}
	if !m.fixedHeight && size.Height > 0 {
		m.height = size.Height
	}
	events.UI.Resize(m.width, m.height)
	m.surf.LockNow()
	m.surf.SetBounds(geom.R(0, 0, m.width, m.height))
	m.overlays.Relayout()
	m.surf.Unlock()
	return nil
}

// handleKeyMsg feeds keys to the open chain. Without one, keys activate the
// bar, open a bar item by trigger or invoke an item by shortcut.
func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	name := keyMsg.String()
	if name == "ctrl+c" {
		m.Shutdown()
		return tea.Quit
	}
	if m.chainOpen() {
		m.surf.PushKey(surface.Key{Name: name, Runes: keyMsg.Runes})
		return nil
	}
	if name == "q" {
		m.Shutdown()
		return tea.Quit
	}
	if m.bar == nil {
		return nil
	}
	if m.keymap.Activate.Enabled() && matchesBinding(m.keymap.Activate.Keys(), name) {
		first := m.bar.NextSelectable(-1, 1)
		if first < 0 {
			return nil
		}
		return m.activate(m.bar.ItemAt(first), "key", true)
	}
	if r, ok := m.keymap.AltTrigger(name); ok {
		if idx := m.bar.FindTrigger(r); idx >= 0 {
			return m.activate(m.bar.ItemAt(idx), "trigger", true)
		}
	}
	if sc, ok := m.keymap.Shortcut(name); ok {
		if item := m.bar.FindShortcut(sc); item != nil {
			events.UI.Shortcut(name, item.ID)
			return m.invokeNow(item)
		}
		if m.context != nil {
			if item := m.context.FindShortcut(sc); item != nil {
				events.UI.Shortcut(name, item.ID)
				return m.invokeNow(item)
			}
		}
	}
	return nil
}

// handleMouseMsg publishes the pointer to the surface. A primary press on
// the bar or a secondary press elsewhere starts a chain when none is open.
func (m *Model) handleMouseMsg(msg tea.Msg) tea.Cmd {
	mouse, ok := msg.(tea.MouseMsg)
	if !ok {
		return nil
	}
	p := geom.Pt(mouse.X, mouse.Y)
	var pressed surface.Buttons
	switch mouse.Action {
	case tea.MouseActionPress:
		switch mouse.Button {
		case tea.MouseButtonLeft:
			pressed = surface.ButtonPrimary
		case tea.MouseButtonRight:
			pressed = surface.ButtonSecondary
		case tea.MouseButtonMiddle:
			pressed = surface.ButtonTertiary
		default:
			return nil
		}
		m.buttons |= pressed
	case tea.MouseActionRelease:
		m.buttons = 0
	}
	events.UI.Mouse(p.X, p.Y, uint8(m.buttons), mouseActions[mouse.Action])
	open := m.chainOpen()
	m.surf.SetPointer(p, m.buttons)
	if open || pressed == 0 {
		return nil
	}
	switch {
	case pressed == surface.ButtonPrimary && m.bar != nil && m.barRect().Contains(p):
		if idx := m.barItemAt(p); idx >= 0 {
			return m.activate(m.bar.ItemAt(idx), "pointer", false)
		}
	case pressed == surface.ButtonSecondary && m.context != nil:
		return m.popup(p)
	}
	return nil
}

// activate starts the bar chain with item highlighted and its submenu open.
func (m *Model) activate(item *menu.Item, via string, keyboard bool) tea.Cmd {
	if item == nil || !item.Enabled() {
		return nil
	}
	events.UI.Activate(m.bar.ID, item.ID, via)
	m.surf.LockNow()
	hot, _ := m.barItemFrame(m.bar.IndexOf(item))
	m.surf.Unlock()
	opts := tracking.Options{
		Bar:          m.barRect(),
		Hot:          hot,
		Sticky:       keyboard,
		Select:       item,
		OpenSelected: item.Submenu() != nil,
		Keyboard:     keyboard,
		OnHighlight:  m.setBarHighlight,
	}
	return m.start(m.bar, opts)
}

// popup opens the context menu at p. The one-cell hot rectangle lets a
// quick click leave it open.
func (m *Model) popup(p geom.Point) tea.Cmd {
	events.UI.Activate(m.context.ID, "", "pointer")
	return m.start(m.context, tracking.Options{
		At:  p,
		Hot: geom.Rect{Min: p, Max: p.Add(geom.Pt(1, 1))},
	})
}

func (m *Model) start(root *menu.Menu, opts tracking.Options) tea.Cmd {
	if err := m.runner.Start(root, opts); err != nil {
		err = fmt.Errorf("open %s: %w", root.ID, err)
		logging.Error(err)
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	return nil
}

// barItemAt returns the enabled bar item under p or -1. The window lock is
// taken because tracking workers share the bar's frame cache.
func (m *Model) barItemAt(p geom.Point) int {
	m.surf.LockNow()
	defer m.surf.Unlock()
	for i, item := range m.bar.Items() {
		frame, ok := m.barItemFrame(i)
		if !ok || !frame.Contains(p) {
			continue
		}
		if item.IsSeparator() || !item.Enabled() {
			return -1
		}
		return i
	}
	return -1
}

// barItemFrame maps a bar item to screen coordinates. Callers hold the
// window lock.
func (m *Model) barItemFrame(index int) (geom.Rect, bool) {
	frame, ok := m.bar.ItemFrame(index)
	if !ok {
		return geom.Rect{}, false
	}
	return frame.Sub(m.bar.Bounds().Min).Add(m.barRect().Min), true
}

var mouseActions = map[tea.MouseAction]string{
	tea.MouseActionPress:   "press",
	tea.MouseActionRelease: "release",
	tea.MouseActionMotion:  "motion",
}

func matchesBinding(keys []string, name string) bool {
	for _, k := range keys {
		if k == name {
			return true
		}
	}
	return false
}
