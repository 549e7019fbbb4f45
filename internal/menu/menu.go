package menu

import (
	"sort"
	"strings"
	"unicode"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Layout selects how a menu arranges its items.
type Layout int

const (
	LayoutColumn Layout = iota
	LayoutRow
	LayoutMatrix
)

func (l Layout) String() string {
	switch l {
	case LayoutRow:
		return "row"
	case LayoutMatrix:
		return "matrix"
	default:
		return "column"
	}
}

// Layouter computes item frames in menu-local coordinates. Implementations
// must be pure functions of the item list and the menu's available size.
type Layouter interface {
	ComputeItemFrames(m *Menu) []geom.Rect
}

// LayouterFunc adapts a plain function to Layouter.
type LayouterFunc func(m *Menu) []geom.Rect

// ComputeItemFrames implements Layouter.
func (f LayouterFunc) ComputeItemFrames(m *Menu) []geom.Rect { return f(m) }

// Metrics caches the text measurements a layouter needs.
type Metrics struct {
	CellHeight    int
	LabelWidth    int
	ShortcutWidth int
}

// Menu is an ordered collection of items. A menu is mutated only by the
// application task that owns it; the tracking engine reads it while holding
// the surface lock.
type Menu struct {
	ID    string
	Title string

	layout    Layout
	items     []*Item
	enabled   bool
	radio     bool
	fieldBar  bool
	superitem *Item
	supermenu *Menu

	layouter  Layouter
	frames    []geom.Rect
	layoutGen uint64
	bounds    geom.Rect
	metrics   Metrics
	maxWidth  int
	maxHeight int
	matrix    map[*Item]geom.Rect

	destroyed bool
	teardown  func()
}

// New creates an empty enabled menu.
func New(id, title string, layout Layout) *Menu {
	return &Menu{ID: id, Title: title, layout: layout, enabled: true}
}

// Layout returns the layout kind.
func (m *Menu) Layout() Layout { return m.layout }

// Enabled reports whether the menu, its superitems and all of its
// ancestors are enabled.
func (m *Menu) Enabled() bool {
	for cur := m; cur != nil; cur = cur.supermenu {
		if !cur.enabled || (cur.superitem != nil && cur.superitem.disabled) {
			return false
		}
	}
	return true
}

// SetEnabled toggles the menu's own enabled flag.
func (m *Menu) SetEnabled(enabled bool) { m.enabled = enabled }

// RadioMode reports whether marks are mutually exclusive.
func (m *Menu) RadioMode() bool { return m.radio }

// SetRadioMode toggles radio behaviour. Enabling it keeps only the first
// marked item marked.
func (m *Menu) SetRadioMode(on bool) {
	m.radio = on
	if !on {
		return
	}
	seen := false
	for _, item := range m.items {
		if item.marked {
			if seen {
				item.marked = false
			}
			seen = true
		}
	}
}

// MarkedItem returns the first marked item.
func (m *Menu) MarkedItem() *Item {
	for _, item := range m.items {
		if item.marked {
			return item
		}
	}
	return nil
}

// FieldBar reports whether the menu is a single-field bar whose hit test
// always resolves to the first item.
func (m *Menu) FieldBar() bool { return m.fieldBar }

// SetFieldBar marks the menu as a single-field bar.
func (m *Menu) SetFieldBar(on bool) { m.fieldBar = on }

// Superitem returns the item owning this menu as its submenu.
func (m *Menu) Superitem() *Item { return m.superitem }

// Supermenu returns the menu containing the superitem.
func (m *Menu) Supermenu() *Menu { return m.supermenu }

// Root walks the supermenu chain to the top.
func (m *Menu) Root() *Menu {
	cur := m
	for cur.supermenu != nil {
		cur = cur.supermenu
	}
	return cur
}

// Depth returns the number of supermenus above m.
func (m *Menu) Depth() int {
	depth := 0
	for cur := m.supermenu; cur != nil; cur = cur.supermenu {
		depth++
	}
	return depth
}

func (m *Menu) contains(other *Menu) bool {
	for cur := other; cur != nil; cur = cur.supermenu {
		if cur == m {
			return true
		}
	}
	return false
}

// Destroyed reports whether Destroy has run.
func (m *Menu) Destroyed() bool { return m.destroyed }

// CountItems returns the number of items.
func (m *Menu) CountItems() int { return len(m.items) }

// Items returns a copy of the item slice.
func (m *Menu) Items() []*Item {
	dup := make([]*Item, len(m.items))
	copy(dup, m.items)
	return dup
}

// ItemAt returns the item at index or nil.
func (m *Menu) ItemAt(index int) *Item {
	if index < 0 || index >= len(m.items) {
		return nil
	}
	return m.items[index]
}

// IndexOf returns the index of item, or -1.
func (m *Menu) IndexOf(item *Item) int {
	for i, candidate := range m.items {
		if candidate == item {
			return i
		}
	}
	return -1
}

// ItemByID looks up a direct child by id.
func (m *Menu) ItemByID(id string) *Item {
	if id == "" {
		return nil
	}
	for _, item := range m.items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// AddItem appends item.
func (m *Menu) AddItem(item *Item) error {
	return m.AddItemAt(item, len(m.items))
}

// AddItemAt inserts item at index.
func (m *Menu) AddItemAt(item *Item, index int) error {
	if m.destroyed {
		return ErrDestroyed
	}
	if item.menu != nil {
		return assertTopology(ErrItemOwned)
	}
	if index < 0 || index > len(m.items) {
		return ErrIndexRange
	}
	if item.submenu != nil && item.submenu.contains(m) {
		return assertTopology(ErrCycle)
	}
	m.items = append(m.items, nil)
	copy(m.items[index+1:], m.items[index:])
	m.items[index] = item
	item.menu = m
	if item.submenu != nil {
		item.submenu.supermenu = m
	}
	if item.marked && m.radio {
		item.SetMarked(true)
	}
	m.InvalidateLayout()
	return nil
}

// AddItemFrame appends item with an explicit frame, for matrix menus.
func (m *Menu) AddItemFrame(item *Item, frame geom.Rect) error {
	if err := m.AddItem(item); err != nil {
		return err
	}
	if m.matrix == nil {
		m.matrix = make(map[*Item]geom.Rect)
	}
	m.matrix[item] = frame
	return nil
}

// MatrixFrame returns the explicit frame assigned by AddItemFrame.
func (m *Menu) MatrixFrame(item *Item) (geom.Rect, bool) {
	frame, ok := m.matrix[item]
	return frame, ok
}

// AddSubmenu wraps sub in a new item and appends it.
func (m *Menu) AddSubmenu(sub *Menu) (*Item, error) {
	item, err := NewSubmenuItem(sub)
	if err != nil {
		return nil, err
	}
	if err := m.AddItem(item); err != nil {
		item.SetSubmenu(nil)
		return nil, err
	}
	return item, nil
}

// AddSeparator appends a separator line.
func (m *Menu) AddSeparator() *Item {
	sep := NewSeparator()
	_ = m.AddItem(sep)
	return sep
}

// RemoveItem detaches item from the menu. The item keeps its submenu.
func (m *Menu) RemoveItem(item *Item) bool {
	idx := m.IndexOf(item)
	if idx < 0 {
		return false
	}
	m.items = append(m.items[:idx], m.items[idx+1:]...)
	item.menu = nil
	if item.submenu != nil {
		item.submenu.supermenu = nil
	}
	delete(m.matrix, item)
	m.InvalidateLayout()
	return true
}

// SetTeardown installs the hook Destroy runs before tearing the menu down.
// The tracking runner uses it to close a live session first. Passing nil
// clears the hook.
func (m *Menu) SetTeardown(fn func()) {
	m.teardown = fn
}

// Destroy tears down any live tracking session, then destroys every item's
// submenu and detaches the menu from its superitem.
func (m *Menu) Destroy() {
	if m.destroyed {
		return
	}
	if fn := m.teardown; fn != nil {
		m.teardown = nil
		fn()
	}
	m.destroyed = true
	if m.superitem != nil {
		m.superitem.submenu = nil
		m.superitem = nil
	}
	m.supermenu = nil
	items := m.items
	m.items = nil
	for _, item := range items {
		item.menu = nil
		if item.submenu != nil {
			sub := item.submenu
			item.submenu = nil
			sub.superitem = nil
			sub.supermenu = nil
			sub.Destroy()
		}
	}
	m.frames = nil
}

// SetLayouter installs the frame collaborator.
func (m *Menu) SetLayouter(l Layouter) {
	m.layouter = l
	m.InvalidateLayout()
}

// SetLayouterTree installs l on m and every nested submenu without an
// explicit layouter.
func (m *Menu) SetLayouterTree(l Layouter) {
	m.Walk(func(cur *Menu) bool {
		if cur == m || cur.layouter == nil {
			cur.SetLayouter(l)
		}
		return true
	})
}

// SetMaxSize records the available width/height passed to the layouter.
func (m *Menu) SetMaxSize(width, height int) {
	if m.maxWidth == width && m.maxHeight == height {
		return
	}
	m.maxWidth, m.maxHeight = width, height
	m.InvalidateLayout()
}

// MaxSize returns the available width/height.
func (m *Menu) MaxSize() (int, int) { return m.maxWidth, m.maxHeight }

// Metrics returns the cached text metrics.
func (m *Menu) Metrics() Metrics { return m.metrics }

// SetMetrics stores text metrics computed by the layouter.
func (m *Menu) SetMetrics(metrics Metrics) { m.metrics = metrics }

// InvalidateLayout drops the cached frames.
func (m *Menu) InvalidateLayout() {
	m.frames = nil
	m.bounds = geom.Rect{}
	m.layoutGen++
}

// LayoutGeneration changes every time the cached frames are invalidated,
// so windows hosting the menu can tell their placement is stale.
func (m *Menu) LayoutGeneration() uint64 { return m.layoutGen }

// Frames returns the cached item frames, computing them when stale.
func (m *Menu) Frames() []geom.Rect {
	if m.frames != nil || len(m.items) == 0 {
		return m.frames
	}
	if m.layouter == nil {
		m.frames = stackFrames(m)
	} else {
		m.frames = m.layouter.ComputeItemFrames(m)
	}
	var bounds geom.Rect
	for _, frame := range m.frames {
		bounds = bounds.Union(frame)
	}
	m.bounds = bounds
	return m.frames
}

// Bounds returns the union of all item frames.
func (m *Menu) Bounds() geom.Rect {
	m.Frames()
	return m.bounds
}

// ItemFrame returns the frame of the item at index.
func (m *Menu) ItemFrame(index int) (geom.Rect, bool) {
	frames := m.Frames()
	if index < 0 || index >= len(frames) {
		return geom.Rect{}, false
	}
	return frames[index], true
}

// HitTest resolves a menu-local point to an item index, or -1. Field bars
// resolve every point inside their bounds to index 0.
func (m *Menu) HitTest(p geom.Point) int {
	frames := m.Frames()
	if len(frames) == 0 {
		return -1
	}
	if m.fieldBar {
		if m.bounds.Contains(p) {
			return 0
		}
		return -1
	}
	for i, frame := range frames {
		if frame.Contains(p) {
			return i
		}
	}
	return -1
}

// stackFrames is the fallback layout: one row per item for columns, label
// width per item for rows.
func stackFrames(m *Menu) []geom.Rect {
	frames := make([]geom.Rect, len(m.items))
	width := 1
	for _, item := range m.items {
		width = max(width, len([]rune(item.Label))+2)
	}
	x := 0
	for i, item := range m.items {
		switch m.layout {
		case LayoutRow:
			w := len([]rune(item.Label)) + 2
			frames[i] = geom.R(x, 0, w, 1)
			x += w
		case LayoutMatrix:
			frames[i] = m.matrix[item]
		default:
			frames[i] = geom.R(0, i, width, 1)
		}
	}
	return frames
}

// Walk visits m and every nested submenu depth first. Returning false from
// fn stops the walk.
func (m *Menu) Walk(fn func(*Menu) bool) bool {
	if !fn(m) {
		return false
	}
	for _, item := range m.items {
		if item.submenu != nil {
			if !item.submenu.Walk(fn) {
				return false
			}
		}
	}
	return true
}

// FindShortcut searches the tree for an enabled item bound to sc.
func (m *Menu) FindShortcut(sc Shortcut) *Item {
	if sc.IsZero() {
		return nil
	}
	want := sc.String()
	var found *Item
	m.Walk(func(cur *Menu) bool {
		if !cur.Enabled() {
			return true
		}
		for _, item := range cur.items {
			if item.submenu == nil && item.Enabled() && item.Shortcut.String() == want {
				found = item
				return false
			}
		}
		return true
	})
	return found
}

// FindTrigger returns the index of the first selectable item whose trigger
// rune, or label initial when no trigger is set, matches r.
func (m *Menu) FindTrigger(r rune) int {
	r = unicode.ToLower(r)
	for i, item := range m.items {
		if !item.Enabled() {
			continue
		}
		trigger := item.Trigger
		if trigger == 0 {
			for _, c := range item.Label {
				trigger = c
				break
			}
		}
		if unicode.ToLower(trigger) == r {
			return i
		}
	}
	return -1
}

// FindByQuery fuzzy-matches query against selectable labels and returns the
// index of the best match, or -1.
func (m *Menu) FindByQuery(query string) int {
	query = strings.TrimSpace(query)
	if query == "" {
		return -1
	}
	labels := make([]string, 0, len(m.items))
	indexes := make([]int, 0, len(m.items))
	for i, item := range m.items {
		if !item.Enabled() {
			continue
		}
		labels = append(labels, item.Label)
		indexes = append(indexes, i)
	}
	ranks := fuzzy.RankFindFold(query, labels)
	if len(ranks) == 0 {
		return -1
	}
	sort.SliceStable(ranks, func(a, b int) bool {
		if ranks[a].Distance != ranks[b].Distance {
			return ranks[a].Distance < ranks[b].Distance
		}
		return ranks[a].OriginalIndex < ranks[b].OriginalIndex
	})
	return indexes[ranks[0].OriginalIndex]
}

// NextSelectable returns the next enabled, non-separator index after from
// in direction dir (+1/-1), wrapping around. It returns -1 when nothing is
// selectable. from may be -1 to start before the first item.
func (m *Menu) NextSelectable(from, dir int) int {
	n := len(m.items)
	if n == 0 {
		return -1
	}
	if dir >= 0 {
		dir = 1
	} else {
		dir = -1
	}
	idx := from
	if idx < 0 && dir < 0 {
		idx = n
	}
	for step := 0; step < n; step++ {
		idx = ((idx+dir)%n + n) % n
		if m.items[idx].Enabled() {
			return idx
		}
	}
	return -1
}

func prettyLabel(id string) string {
	if id == "" {
		return id
	}
	parts := strings.FieldsFunc(id, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, part := range parts {
		runes := []rune(part)
		if len(runes) == 0 {
			continue
		}
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
