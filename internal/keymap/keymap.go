// Package keymap maps terminal key names onto menu navigation and item
// shortcuts. A Keymap is built once and handed to every tracking session,
// so the mapping of modifier names to modifier bits is explicit
// configuration rather than process-wide state.
package keymap

import (
	"strings"

	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/charmbracelet/bubbles/key"
)

// Nav is a navigation command understood by tracking sessions.
type Nav int

const (
	NavNone Nav = iota
	NavUp
	NavDown
	NavLeft
	NavRight
	NavHome
	NavEnd
	NavPageUp
	NavPageDown
	NavChoose
	NavCancel
	NavActivate
)

func (n Nav) String() string {
	switch n {
	case NavUp:
		return "up"
	case NavDown:
		return "down"
	case NavLeft:
		return "left"
	case NavRight:
		return "right"
	case NavHome:
		return "home"
	case NavEnd:
		return "end"
	case NavPageUp:
		return "pgup"
	case NavPageDown:
		return "pgdown"
	case NavChoose:
		return "choose"
	case NavCancel:
		return "cancel"
	case NavActivate:
		return "activate"
	default:
		return "none"
	}
}

// Keymap holds the navigation bindings and the modifier name table.
type Keymap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Home     key.Binding
	End      key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Choose   key.Binding
	Cancel   key.Binding
	Activate key.Binding

	// Modifiers maps the modifier prefixes found in key names onto
	// shortcut modifier bits.
	Modifiers map[string]menu.Modifiers
}

// Default returns the standard bindings.
func Default() Keymap {
	return Keymap{
		Up:       key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "down")),
		Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "close submenu")),
		Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "open submenu")),
		Home:     key.NewBinding(key.WithKeys("home"), key.WithHelp("home", "first")),
		End:      key.NewBinding(key.WithKeys("end"), key.WithHelp("end", "last")),
		PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Choose:   key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "choose")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Activate: key.NewBinding(key.WithKeys("f10"), key.WithHelp("f10", "menu bar")),
		Modifiers: map[string]menu.Modifiers{
			"ctrl":  menu.ModCtrl,
			"alt":   menu.ModAlt,
			"shift": menu.ModShift,
		},
	}
}

// Bindings lists the bindings in help order.
func (k Keymap) Bindings() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Choose, k.Cancel, k.Activate}
}

// Nav resolves a key name to a navigation command.
func (k Keymap) Nav(name string) Nav {
	table := []struct {
		binding key.Binding
		nav     Nav
	}{
		{k.Up, NavUp},
		{k.Down, NavDown},
		{k.Left, NavLeft},
		{k.Right, NavRight},
		{k.Home, NavHome},
		{k.End, NavEnd},
		{k.PageUp, NavPageUp},
		{k.PageDown, NavPageDown},
		{k.Choose, NavChoose},
		{k.Cancel, NavCancel},
		{k.Activate, NavActivate},
	}
	for _, entry := range table {
		if matches(entry.binding, name) {
			return entry.nav
		}
	}
	return NavNone
}

// Shortcut parses a key name such as "ctrl+shift+s" into a shortcut. Names
// without a known modifier are rejected so plain typing never triggers
// items.
func (k Keymap) Shortcut(name string) (menu.Shortcut, bool) {
	parts := strings.Split(strings.ToLower(name), "+")
	if len(parts) < 2 {
		return menu.Shortcut{}, false
	}
	var mods menu.Modifiers
	for _, part := range parts[:len(parts)-1] {
		bit, ok := k.Modifiers[part]
		if !ok {
			return menu.Shortcut{}, false
		}
		mods |= bit
	}
	last := parts[len(parts)-1]
	if last == "" {
		return menu.Shortcut{}, false
	}
	return menu.Shortcut{Key: last, Mods: mods}, true
}

// AltTrigger returns the rune of an "alt+<letter>" key, used to open a bar
// item by its trigger.
func (k Keymap) AltTrigger(name string) (rune, bool) {
	sc, ok := k.Shortcut(name)
	if !ok || sc.Mods != menu.ModAlt {
		return 0, false
	}
	runes := []rune(sc.Key)
	if len(runes) != 1 {
		return 0, false
	}
	return runes[0], true
}

func matches(b key.Binding, name string) bool {
	if !b.Enabled() {
		return false
	}
	for _, candidate := range b.Keys() {
		if candidate == name {
			return true
		}
	}
	return false
}
