package menu

import (
	"fmt"
	"strings"
)

// Definition describes one entry of a menu tree. IDs are colon separated
// paths: "file:recent:notes" is the "notes" item of the "recent" submenu of
// the "file" submenu of the root.
type Definition struct {
	ID        string
	Label     string
	Shortcut  Shortcut
	Trigger   rune
	Action    Action
	Separator bool
	Disabled  bool
	Marked    bool
	// Radio and Layout apply when the entry owns a submenu.
	Radio  bool
	Layout Layout
}

// Registry exposes lookup utilities over a built menu tree.
type Registry struct {
	root  *Menu
	menus map[string]*Menu
	items map[string]*Item
}

// BuildRegistry constructs a menu tree rooted at a menu with the given id,
// title and layout. Definitions are added in order; an entry becomes a
// submenu when another entry names it as its parent. Parents that are never
// defined are created with a label derived from their key.
func BuildRegistry(rootID, title string, layout Layout, defs []Definition) (*Registry, error) {
	root := New(rootID, title, layout)
	r := &Registry{
		root:  root,
		menus: map[string]*Menu{rootID: root},
		items: make(map[string]*Item),
	}

	parents := make(map[string]struct{})
	for _, def := range defs {
		if def.Separator {
			continue
		}
		parentID, _ := parentKey(def.ID)
		for parentID != "" {
			parents[parentID] = struct{}{}
			parentID, _ = parentKey(parentID)
		}
	}
	defined := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if !def.Separator {
			defined[def.ID] = def
		}
	}

	for _, def := range defs {
		if def.Separator {
			parent, err := r.ensureMenu(def.ID, defined)
			if err != nil {
				return nil, err
			}
			parent.AddSeparator()
			continue
		}
		if _, isParent := parents[def.ID]; isParent {
			if _, err := r.ensureMenu(def.ID+":", defined); err != nil {
				return nil, err
			}
			continue
		}
		if _, dup := r.items[def.ID]; dup {
			return nil, fmt.Errorf("duplicate menu definition %q", def.ID)
		}
		parentID, _ := parentKey(def.ID)
		parent, err := r.ensureMenu(def.ID, defined)
		if err != nil {
			return nil, err
		}
		item := newDefinedItem(def)
		if err := parent.AddItem(item); err != nil {
			return nil, fmt.Errorf("add %q to %q: %w", def.ID, parentID, err)
		}
		r.items[def.ID] = item
	}
	return r, nil
}

// ensureMenu returns the menu that should contain id, creating intermediate
// submenus on demand.
func (r *Registry) ensureMenu(id string, defined map[string]Definition) (*Menu, error) {
	parentID, _ := parentKey(id)
	if parentID == "" {
		return r.root, nil
	}
	if m, ok := r.menus[parentID]; ok {
		return m, nil
	}
	grand, err := r.ensureMenu(parentID, defined)
	if err != nil {
		return nil, err
	}
	_, key := parentKey(parentID)
	def, ok := defined[parentID]
	if !ok {
		def = Definition{ID: parentID, Label: prettyLabel(key)}
	}
	if def.Label == "" {
		def.Label = prettyLabel(key)
	}
	sub := New(parentID, def.Label, def.Layout)
	sub.radio = def.Radio
	item := newDefinedItem(def)
	if err := item.SetSubmenu(sub); err != nil {
		return nil, err
	}
	if err := grand.AddItem(item); err != nil {
		return nil, fmt.Errorf("add submenu %q: %w", parentID, err)
	}
	r.menus[parentID] = sub
	r.items[parentID] = item
	return sub, nil
}

func newDefinedItem(def Definition) *Item {
	_, key := parentKey(def.ID)
	label := def.Label
	if label == "" {
		label = prettyLabel(key)
	}
	item := NewItem(def.ID, label, def.Action)
	item.Shortcut = def.Shortcut
	item.Trigger = def.Trigger
	item.disabled = def.Disabled
	item.marked = def.Marked
	return item
}

// Root returns the root menu.
func (r *Registry) Root() *Menu {
	return r.root
}

// Find locates an item by id.
func (r *Registry) Find(id string) (*Item, bool) {
	item, ok := r.items[id]
	return item, ok
}

// Menu locates a menu by id. The root is registered under its own id.
func (r *Registry) Menu(id string) (*Menu, bool) {
	m, ok := r.menus[id]
	return m, ok
}

// Child resolves a direct child of the menu registered under parentID.
func (r *Registry) Child(parentID, key string) (*Item, bool) {
	parent, ok := r.menus[parentID]
	if !ok {
		return nil, false
	}
	id := key
	if parent != r.root {
		id = parentID + ":" + key
	}
	item := parent.ItemByID(id)
	return item, item != nil
}

func parentKey(id string) (string, string) {
	if id == "" {
		return "", ""
	}
	idx := strings.LastIndex(id, ":")
	if idx < 0 {
		return "", id
	}
	return id[:idx], id[idx+1:]
}
