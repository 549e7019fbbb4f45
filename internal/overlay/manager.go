package overlay

import (
	"errors"
	"sync"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/metrics"
)

// ErrAlreadyOpen is returned when a menu already has an open window.
var ErrAlreadyOpen = errors.New("overlay: menu already has an open window")

// Options configures a Manager.
type Options struct {
	// Inset is the border width drawn around every window.
	Inset   int
	Scroll  ScrollConfig
	Metrics *metrics.Metrics
	// Bounds supplies the screen area windows must fit into.
	Bounds func() geom.Rect
}

// Manager owns every open window and keeps at most one per menu.
type Manager struct {
	inset   int
	scroll  ScrollConfig
	metrics *metrics.Metrics
	bounds  func() geom.Rect

	mu      sync.Mutex
	windows []*Window
	byMenu  map[*menu.Menu]*Window
	anchors map[*Window]anchor
}

type anchor struct {
	rect  geom.Rect
	below bool
	point bool
}

// NewManager creates an empty manager.
func NewManager(opts Options) *Manager {
	if opts.Metrics == nil {
		opts.Metrics = metrics.Discard()
	}
	if opts.Bounds == nil {
		opts.Bounds = func() geom.Rect { return geom.R(0, 0, 80, 24) }
	}
	if opts.Scroll.Step <= 0 {
		opts.Scroll = DefaultScroll()
	}
	return &Manager{
		inset:   opts.Inset,
		scroll:  opts.Scroll,
		metrics: opts.Metrics,
		bounds:  opts.Bounds,
		byMenu:  make(map[*menu.Menu]*Window),
		anchors: make(map[*Window]anchor),
	}
}

// OpenAt opens m with its top-left corner at where, clamped to the screen.
func (mg *Manager) OpenAt(m *menu.Menu, where geom.Point) (*Window, error) {
	return mg.open(m, anchor{rect: geom.Rect{Min: where, Max: where}, point: true})
}

// OpenBeside opens m next to the screen rectangle of its superitem: below
// it when the supermenu is a bar, otherwise to its right, flipping to the
// left when there is no room.
func (mg *Manager) OpenBeside(m *menu.Menu, rect geom.Rect, below bool) (*Window, error) {
	return mg.open(m, anchor{rect: rect, below: below})
}

func (mg *Manager) open(m *menu.Menu, a anchor) (*Window, error) {
	mg.mu.Lock()
	if _, ok := mg.byMenu[m]; ok {
		mg.mu.Unlock()
		return nil, menu.AssertTopology(ErrAlreadyOpen)
	}
	w := newWindow(mg, m, mg.inset, mg.scroll)
	mg.byMenu[m] = w
	mg.windows = append(mg.windows, w)
	mg.anchors[w] = a
	count := len(mg.windows)
	mg.mu.Unlock()

	mg.layout(w, a)
	mg.metrics.OverlaysOpen.Set(float64(count))
	frame := w.Frame()
	events.Overlay.Open(m.ID, frame.Min.X, frame.Min.Y, frame.Dx(), frame.Dy(), w.Limit())
	return w, nil
}

func (mg *Manager) layout(w *Window, a anchor) {
	bounds := mg.bounds()
	m := w.menu
	m.SetMaxSize(max(bounds.Dx()-2*mg.inset, 0), max(bounds.Dy()-2*mg.inset, 0))
	content := m.Bounds()
	gen := m.LayoutGeneration()
	width := content.Dx() + 2*mg.inset
	height := min(content.Dy()+2*mg.inset, bounds.Dy())

	var origin geom.Point
	switch {
	case a.point:
		origin = a.rect.Min
	case a.below:
		origin = geom.Pt(a.rect.Min.X, a.rect.Max.Y)
		if origin.Y+height > bounds.Max.Y && a.rect.Min.Y-height >= bounds.Min.Y {
			origin.Y = a.rect.Min.Y - height
		}
	default:
		origin = geom.Pt(a.rect.Max.X, a.rect.Min.Y-mg.inset)
		if origin.X+width > bounds.Max.X && a.rect.Min.X-width >= bounds.Min.X {
			origin.X = a.rect.Min.X - width
		}
	}
	frame := geom.R(origin.X, origin.Y, width, height).Clamp(bounds)
	w.place(frame, content, gen)
}

// refresh lays out w again against its original anchor. Closed windows are
// left alone.
func (mg *Manager) refresh(w *Window) bool {
	mg.mu.Lock()
	a, ok := mg.anchors[w]
	mg.mu.Unlock()
	if !ok {
		return false
	}
	mg.layout(w, a)
	return true
}

// Relayout recomputes every window's frame and scroll limit, e.g. after a
// screen resize or a content change.
func (mg *Manager) Relayout() {
	mg.mu.Lock()
	windows := append([]*Window(nil), mg.windows...)
	anchors := make([]anchor, len(windows))
	for i, w := range windows {
		anchors[i] = mg.anchors[w]
	}
	mg.mu.Unlock()
	for i, w := range windows {
		mg.layout(w, anchors[i])
	}
}

// Close removes w. Closing an already closed window is a no-op.
func (mg *Manager) Close(w *Window) {
	if w == nil {
		return
	}
	mg.mu.Lock()
	if mg.byMenu[w.menu] != w {
		mg.mu.Unlock()
		return
	}
	delete(mg.byMenu, w.menu)
	delete(mg.anchors, w)
	for i, cur := range mg.windows {
		if cur == w {
			mg.windows = append(mg.windows[:i], mg.windows[i+1:]...)
			break
		}
	}
	count := len(mg.windows)
	mg.mu.Unlock()

	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	mg.metrics.OverlaysOpen.Set(float64(count))
	events.Overlay.Close(w.menu.ID, count)
}

// Count returns the number of open windows.
func (mg *Manager) Count() int {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return len(mg.windows)
}

// Windows lists open windows back to front.
func (mg *Manager) Windows() []*Window {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	return append([]*Window(nil), mg.windows...)
}

// WindowFor returns the open window hosting m.
func (mg *Manager) WindowFor(m *menu.Menu) (*Window, bool) {
	mg.mu.Lock()
	defer mg.mu.Unlock()
	w, ok := mg.byMenu[m]
	return w, ok
}

// WindowAt returns the front-most window containing p.
func (mg *Manager) WindowAt(p geom.Point) (*Window, bool) {
	mg.mu.Lock()
	windows := append([]*Window(nil), mg.windows...)
	mg.mu.Unlock()
	for i := len(windows) - 1; i >= 0; i-- {
		if windows[i].Contains(p) {
			return windows[i], true
		}
	}
	return nil, false
}
