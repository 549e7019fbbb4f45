// Package overlay hosts open menus as transient, non-activating windows.
// A window shows one menu's items and, when the items do not fit on the
// screen, an upper and lower scroll affordance around a reduced viewport.
package overlay

import (
	"strings"
	"sync"
	"time"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/theme"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/time/rate"
)

const (
	scrollUpGlyph   = "▲"
	scrollDownGlyph = "▼"
)

// Drawer renders one item line; see layout.Drawer.
type Drawer interface {
	DrawItem(item *menu.Item, frame geom.Rect, highlighted bool) string
}

// ScrollConfig tunes scrolling. Step is the nudge size, Page the full-page
// size (0 means the viewport height minus one) and Repeat the auto-scroll
// cadence while the pointer rests on an affordance.
type ScrollConfig struct {
	Step   int
	Page   int
	Repeat time.Duration
}

// DefaultScroll returns the default scroll tuning.
func DefaultScroll() ScrollConfig {
	return ScrollConfig{Step: 1, Repeat: 60 * time.Millisecond}
}

// Window is one open overlay.
type Window struct {
	mgr  *Manager
	menu *menu.Menu
	cfg  ScrollConfig

	mu        sync.Mutex
	frame     geom.Rect
	inset     int
	content   geom.Rect
	scrolling bool
	offset    int
	limit     int
	canUp     bool
	canDown   bool
	highlight int
	limiter   *rate.Limiter
	closed    bool
	gen       uint64
}

func newWindow(mgr *Manager, m *menu.Menu, inset int, cfg ScrollConfig) *Window {
	if cfg.Step <= 0 {
		cfg.Step = 1
	}
	w := &Window{mgr: mgr, menu: m, inset: inset, cfg: cfg, highlight: -1}
	if cfg.Repeat > 0 {
		w.limiter = rate.NewLimiter(rate.Every(cfg.Repeat), 1)
	} else {
		w.limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return w
}

// Menu returns the hosted menu.
func (w *Window) Menu() *menu.Menu { return w.menu }

// Frame returns the screen frame, border included.
func (w *Window) Frame() geom.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frame
}

// Closed reports whether the window was closed.
func (w *Window) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Contains reports whether p lies within the window frame.
func (w *Window) Contains(p geom.Point) bool {
	return w.Frame().Contains(p)
}

// Scrolling reports whether scroll affordances are attached.
func (w *Window) Scrolling() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scrolling
}

// Offset returns the vertical scroll offset.
func (w *Window) Offset() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.offset
}

// Limit returns the largest valid scroll offset.
func (w *Window) Limit() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.limit
}

// CanScrollUp reports whether the upper affordance is enabled.
func (w *Window) CanScrollUp() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canUp
}

// CanScrollDown reports whether the lower affordance is enabled.
func (w *Window) CanScrollDown() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canDown
}

// Highlight returns the highlighted index drawn by Paint.
func (w *Window) Highlight() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.highlight
}

// SetHighlight records the highlighted index for painting.
func (w *Window) SetHighlight(index int) {
	w.mu.Lock()
	w.highlight = index
	w.mu.Unlock()
}

// Viewport returns the screen rectangle showing items.
func (w *Window) Viewport() geom.Rect {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewportLocked()
}

func (w *Window) viewportLocked() geom.Rect {
	vp := w.frame.Inset(w.inset)
	if w.scrolling {
		vp.Min.Y++
		vp.Max.Y--
		if vp.Max.Y < vp.Min.Y {
			vp.Max.Y = vp.Min.Y
		}
	}
	return vp
}

// upRect and downRect are the affordance rows.
func (w *Window) affordancesLocked() (geom.Rect, geom.Rect) {
	if !w.scrolling {
		return geom.Rect{}, geom.Rect{}
	}
	inner := w.frame.Inset(w.inset)
	up := geom.Rect{Min: inner.Min, Max: geom.Pt(inner.Max.X, inner.Min.Y+1)}
	down := geom.Rect{Min: geom.Pt(inner.Min.X, inner.Max.Y-1), Max: inner.Max}
	return up, down
}

// AffordanceAt returns -1 when p is over the upper affordance, +1 over the
// lower one and 0 otherwise.
func (w *Window) AffordanceAt(p geom.Point) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	up, down := w.affordancesLocked()
	switch {
	case up.Contains(p):
		return -1
	case down.Contains(p):
		return 1
	default:
		return 0
	}
}

// ToLocal converts a screen point inside the viewport to menu coordinates.
func (w *Window) ToLocal(p geom.Point) (geom.Point, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	vp := w.viewportLocked()
	if !vp.Contains(p) {
		return geom.Point{}, false
	}
	return p.Sub(vp.Min).Add(geom.Pt(0, w.offset)).Add(w.content.Min), true
}

// ItemScreenFrame returns the on-screen frame of the item at index and
// whether any part of it is visible.
func (w *Window) ItemScreenFrame(index int) (geom.Rect, bool) {
	frame, ok := w.menu.ItemFrame(index)
	if !ok {
		return geom.Rect{}, false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	vp := w.viewportLocked()
	screen := frame.Sub(w.content.Min).Sub(geom.Pt(0, w.offset)).Add(vp.Min)
	return screen, !screen.Intersect(vp).Empty()
}

// ScrollBy moves the offset by delta, clamped to [0, limit]. It reports
// whether the offset changed.
func (w *Window) ScrollBy(delta int) bool {
	w.Refresh()
	w.mu.Lock()
	changed := w.scrollToLocked(w.offset + delta)
	offset, limit := w.offset, w.limit
	w.mu.Unlock()
	if changed {
		events.Overlay.Scroll(w.menu.ID, offset, limit)
	}
	return changed
}

func (w *Window) scrollToLocked(offset int) bool {
	if offset > w.limit {
		offset = w.limit
	}
	if offset < 0 {
		offset = 0
	}
	changed := offset != w.offset
	w.offset = offset
	w.canUp = w.scrolling && w.offset > 0
	w.canDown = w.scrolling && w.offset < w.limit
	return changed
}

// Nudge scrolls one step in dir (-1 up, +1 down).
func (w *Window) Nudge(dir int) bool {
	return w.ScrollBy(sign(dir) * w.cfg.Step)
}

// Page scrolls one page in dir.
func (w *Window) Page(dir int) bool {
	w.Refresh()
	page := w.cfg.Page
	if page <= 0 {
		page = max(w.Viewport().Dy()-1, 1)
	}
	return w.ScrollBy(sign(dir) * page)
}

// AutoScroll nudges in dir at most once per Repeat interval. It is called
// on every poll while the pointer hovers an affordance.
func (w *Window) AutoScroll(dir int, now time.Time) bool {
	if !w.limiter.AllowN(now, 1) {
		return false
	}
	return w.Nudge(dir)
}

// EnsureVisible scrolls the minimum amount needed to show the item at
// index.
func (w *Window) EnsureVisible(index int) bool {
	w.Refresh()
	frame, ok := w.menu.ItemFrame(index)
	if !ok {
		return false
	}
	w.mu.Lock()
	if !w.scrolling {
		w.mu.Unlock()
		return false
	}
	rows := w.viewportLocked().Dy()
	top := frame.Min.Y - w.content.Min.Y
	bottom := frame.Max.Y - w.content.Min.Y
	offset := w.offset
	if top < offset {
		offset = top
	}
	if bottom > offset+rows {
		offset = bottom - rows
	}
	changed := w.scrollToLocked(offset)
	cur, limit := w.offset, w.limit
	w.mu.Unlock()
	if changed {
		events.Overlay.Scroll(w.menu.ID, cur, limit)
	}
	return changed
}

// Refresh re-places the window when the hosted menu's layout changed since
// it was last placed, e.g. after items were added or removed. It reports
// whether the window was re-placed.
func (w *Window) Refresh() bool {
	w.mu.Lock()
	stale := !w.closed && w.gen != w.menu.LayoutGeneration()
	w.mu.Unlock()
	if !stale {
		return false
	}
	return w.mgr.refresh(w)
}

// place sets the frame and recomputes the scroll limit for the current
// content. The offset is clamped into the new range.
func (w *Window) place(frame geom.Rect, content geom.Rect, gen uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame = frame
	w.content = content
	w.gen = gen
	inner := frame.Inset(w.inset)
	w.scrolling = content.Dy() > inner.Dy()
	w.limit = 0
	if w.scrolling {
		rows := max(inner.Dy()-2, 0)
		w.limit = max(content.Dy()-rows, 0)
	}
	w.scrollToLocked(w.offset)
}

// Paint renders the window: border, affordances and the visible items.
func (w *Window) Paint(d Drawer, styles *theme.Styles) string {
	if styles == nil {
		styles = theme.Default()
	}
	w.Refresh()
	w.mu.Lock()
	frame, inset, content := w.frame, w.inset, w.content
	scrolling, offset, canUp, canDown, highlight := w.scrolling, w.offset, w.canUp, w.canDown, w.highlight
	vp := w.viewportLocked()
	w.mu.Unlock()

	width := frame.Dx() - 2*inset
	if width <= 0 {
		return ""
	}
	rows := make([]string, vp.Dy())
	blank := theme.Render(styles.Item, strings.Repeat(" ", width))
	for i := range rows {
		rows[i] = blank
	}
	frames := w.menu.Frames()
	for i, item := range w.menu.Items() {
		if i >= len(frames) {
			break
		}
		f := frames[i].Sub(content.Min)
		y := f.Min.Y - offset
		if y < 0 || y >= len(rows) {
			continue
		}
		rows[y] = d.DrawItem(item, geom.R(0, 0, width, f.Dy()), i == highlight)
	}
	if scrolling {
		up := affordanceLine(scrollUpGlyph, width, canUp, styles)
		down := affordanceLine(scrollDownGlyph, width, canDown, styles)
		rows = append(append([]string{up}, rows...), down)
	}
	body := strings.Join(rows, "\n")
	if inset > 0 && styles.Overlay != nil {
		return styles.Overlay.Render(body)
	}
	return body
}

func affordanceLine(glyph string, width int, enabled bool, styles *theme.Styles) string {
	style := styles.ScrollAffordance
	if !enabled {
		style = styles.ScrollDisabled
	}
	text := lipgloss.PlaceHorizontal(width, lipgloss.Center, glyph)
	return theme.Render(style, text)
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}
