package tracking

import (
	"time"
	"unicode"

	"github.com/atomicstack/menutrack/internal/keymap"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/surface"
)

func (s *Session) handleKey(k surface.Key, now time.Time) {
	env := s.chain.env
	nav := env.Keymap.Nav(k.Name)
	events.Tracking.Key(s.chain.id, k.Name, nav.String())
	row := s.isRow()

	switch nav {
	case keymap.NavUp:
		if !row {
			s.moveTo(s.menu.NextSelectable(s.highlight, -1))
		}
	case keymap.NavDown:
		if row {
			s.enterSubmenu()
			return
		}
		s.moveTo(s.menu.NextSelectable(s.highlight, 1))
	case keymap.NavLeft:
		if row {
			s.travel(-1, s.child != nil)
			return
		}
		if s.parent == nil {
			return
		}
		travel := 0
		if s.parent.isRow() {
			travel = -1
		}
		s.close(Result{Kind: Returned, Travel: travel})
	case keymap.NavRight:
		if row {
			s.travel(1, s.child != nil)
			return
		}
		if s.enterSubmenu() {
			return
		}
		if s.barAncestor() {
			s.close(Result{Kind: Returned, Travel: 1})
		}
	case keymap.NavHome:
		s.moveTo(s.menu.NextSelectable(-1, 1))
	case keymap.NavEnd:
		s.moveTo(s.menu.NextSelectable(-1, -1))
	case keymap.NavPageUp:
		s.page(-1)
	case keymap.NavPageDown:
		s.page(1)
	case keymap.NavChoose:
		item := s.menu.ItemAt(s.highlight)
		switch {
		case item == nil || !item.Enabled():
			s.close(Result{Kind: Cancelled})
		case item.Submenu() != nil:
			s.enterSubmenu()
		default:
			s.choose(item)
		}
	case keymap.NavCancel, keymap.NavActivate:
		s.close(Result{Kind: Cancelled})
	default:
		s.typed(k, now)
	}
}

// typed handles shortcuts and type-ahead.
func (s *Session) typed(k surface.Key, now time.Time) {
	env := s.chain.env
	if sc, ok := env.Keymap.Shortcut(k.Name); ok {
		if item := s.menu.Root().FindShortcut(sc); item != nil {
			s.choose(item)
		}
		return
	}
	if len(k.Runes) != 1 || !unicode.IsPrint(k.Runes[0]) {
		return
	}
	if now.Sub(s.queryAt) > env.Params.TypeAheadTimeout {
		s.query = ""
	}
	s.queryAt = now
	s.query += string(k.Runes)
	idx := -1
	if len([]rune(s.query)) == 1 {
		idx = s.menu.FindTrigger(k.Runes[0])
	}
	if idx < 0 {
		idx = s.menu.FindByQuery(s.query)
	}
	if idx >= 0 {
		s.moveTo(idx)
	}
}

func (s *Session) moveTo(index int) {
	if index < 0 {
		return
	}
	s.setHighlight(index)
}

// page moves the highlight by one viewport height, stopping at the ends.
func (s *Session) page(dir int) {
	rows := 1
	if s.window != nil {
		rows = max(s.window.Viewport().Dy()-1, 1)
		s.window.Page(dir)
	}
	n := s.menu.CountItems()
	target := s.highlight
	if target < 0 {
		target = 0
	}
	target = min(max(target+dir*rows, 0), n-1)
	if item := s.menu.ItemAt(target); item != nil && item.Enabled() {
		s.moveTo(target)
		return
	}
	// Step back towards the starting point until a selectable item.
	for i := target; i >= 0 && i < n; i -= dir {
		if item := s.menu.ItemAt(i); item != nil && item.Enabled() {
			s.moveTo(i)
			return
		}
	}
}
