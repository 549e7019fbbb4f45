package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Modifiers is a bit mask of keyboard modifiers attached to a shortcut.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModCtrl
	ModAlt
)

// Shortcut binds a key plus modifier mask to an item.
type Shortcut struct {
	Key  string
	Mods Modifiers
}

// IsZero reports whether no shortcut is assigned.
func (s Shortcut) IsZero() bool {
	return s.Key == ""
}

// String renders the shortcut in the "ctrl+alt+shift+key" form used by
// Bubble Tea key messages.
func (s Shortcut) String() string {
	if s.IsZero() {
		return ""
	}
	parts := make([]string, 0, 4)
	if s.Mods&ModCtrl != 0 {
		parts = append(parts, "ctrl")
	}
	if s.Mods&ModAlt != 0 {
		parts = append(parts, "alt")
	}
	if s.Mods&ModShift != 0 {
		parts = append(parts, "shift")
	}
	parts = append(parts, strings.ToLower(s.Key))
	return strings.Join(parts, "+")
}

// Action runs when an item is chosen.
type Action func(*Item) tea.Cmd

// Item represents a selectable menu entry, a separator, or the owner of a
// submenu.
type Item struct {
	ID       string
	Label    string
	Shortcut Shortcut
	Trigger  rune
	Action   Action

	separator bool
	disabled  bool
	marked    bool
	menu      *Menu
	submenu   *Menu
}

// NewItem creates a plain item.
func NewItem(id, label string, action Action) *Item {
	return &Item{ID: id, Label: label, Action: action}
}

// NewSeparator creates a non-selectable separator line.
func NewSeparator() *Item {
	return &Item{separator: true}
}

// NewSubmenuItem creates an item that owns sub. The item takes its label
// from the submenu title.
func NewSubmenuItem(sub *Menu) (*Item, error) {
	if sub == nil {
		return &Item{}, nil
	}
	item := &Item{ID: sub.ID, Label: sub.Title}
	if err := item.SetSubmenu(sub); err != nil {
		return nil, err
	}
	return item, nil
}

// Menu returns the menu the item belongs to, or nil.
func (i *Item) Menu() *Menu { return i.menu }

// Submenu returns the owned submenu, or nil.
func (i *Item) Submenu() *Menu { return i.submenu }

// SetSubmenu attaches sub to the item. A menu can be the submenu of only one
// item.
func (i *Item) SetSubmenu(sub *Menu) error {
	if sub == nil {
		if i.submenu != nil {
			i.submenu.superitem = nil
			i.submenu.supermenu = nil
			i.submenu = nil
		}
		return nil
	}
	if sub.superitem != nil && sub.superitem != i {
		return assertTopology(ErrSubmenuOwned)
	}
	if sub.contains(i.menu) {
		return assertTopology(ErrCycle)
	}
	i.submenu = sub
	sub.superitem = i
	sub.supermenu = i.menu
	return nil
}

// IsSeparator reports whether the item is a separator.
func (i *Item) IsSeparator() bool { return i.separator }

// SetEnabled toggles the item's own enabled flag. A disabled item also
// disables its submenu through Menu.Enabled; the submenu's own flag is
// left alone.
func (i *Item) SetEnabled(enabled bool) {
	i.disabled = !enabled
}

// Enabled reports whether the item can be highlighted. Items of a disabled
// menu are disabled too.
func (i *Item) Enabled() bool {
	if i.disabled || i.separator {
		return false
	}
	if i.menu != nil && !i.menu.Enabled() {
		return false
	}
	return true
}

// Marked reports the check/radio mark.
func (i *Item) Marked() bool { return i.marked }

// SetMarked sets the mark. In a radio-mode menu marking an item clears the
// mark on every sibling.
func (i *Item) SetMarked(marked bool) {
	if marked && i.menu != nil && i.menu.radio {
		for _, sibling := range i.menu.items {
			sibling.marked = false
		}
	}
	i.marked = marked
}

// SetLabel updates the label and invalidates the owning menu's layout.
func (i *Item) SetLabel(label string) {
	if i.Label == label {
		return
	}
	i.Label = label
	if i.menu != nil {
		i.menu.InvalidateLayout()
	}
}

// Destroy detaches the item from its menu and destroys its submenu.
func (i *Item) Destroy() {
	if i.menu != nil {
		i.menu.RemoveItem(i)
	}
	if i.submenu != nil {
		sub := i.submenu
		i.submenu = nil
		sub.superitem = nil
		sub.supermenu = nil
		sub.Destroy()
	}
}

// Path returns the labels from the root menu down to the item.
func (i *Item) Path() []string {
	var path []string
	for cur := i; cur != nil; {
		path = append([]string{cur.Label}, path...)
		if cur.menu == nil {
			break
		}
		cur = cur.menu.superitem
	}
	return path
}
