// Package tracking runs the interactive navigation of an open menu chain.
//
// A root session polls the surface for pointer and key input, hit tests
// against cached item frames, opens submenu overlays and hands control to
// child sessions by calling their loop directly. Every session tears down
// its overlay, its open child and the shared sticky state exactly once,
// whichever way it ends.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/keymap"
	"github.com/atomicstack/menutrack/internal/logging"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/metrics"
	"github.com/atomicstack/menutrack/internal/overlay"
	"github.com/atomicstack/menutrack/internal/surface"
	"github.com/google/uuid"
)

var (
	// ErrMenuDisabled is returned when tracking is requested for a disabled
	// or destroyed menu.
	ErrMenuDisabled = errors.New("tracking: menu is disabled")
	// ErrEmptyMenu is returned for a menu without items.
	ErrEmptyMenu = errors.New("tracking: menu has no items")
)

// Env bundles the collaborators shared by every session of a chain.
type Env struct {
	Surface  *surface.Surface
	Overlays *overlay.Manager
	Keymap   keymap.Keymap
	Params   Params
	Clock    Clock
	Metrics  *metrics.Metrics
}

func (e Env) withDefaults() Env {
	if e.Clock == nil {
		e.Clock = RealClock{}
	}
	if e.Metrics == nil {
		e.Metrics = metrics.Discard()
	}
	if len(e.Keymap.Up.Keys()) == 0 {
		e.Keymap = keymap.Default()
	}
	if e.Overlays == nil {
		bounds := e.Surface.Bounds
		e.Overlays = overlay.NewManager(overlay.Options{Metrics: e.Metrics, Bounds: bounds})
	}
	e.Params = e.Params.withDefaults()
	return e
}

// Options describe how a root session starts.
type Options struct {
	// At is the top-left corner of a pop-up overlay. Ignored when Bar is
	// set.
	At geom.Point
	// Bar is the screen rectangle of a menu bar drawn by the host. The
	// root menu then gets no overlay of its own.
	Bar geom.Rect
	// Hot is the rectangle the opening gesture happened in.
	Hot geom.Rect
	// Sticky starts the session in sticky mode, as for keyboard opens.
	Sticky bool
	// Select is highlighted first; with OpenSelected its submenu opens
	// right away. Keyboard makes that open behave like a right arrow.
	Select       *menu.Item
	OpenSelected bool
	Keyboard     bool
	// OnHighlight reports highlight changes of the root. Bar roots rely on
	// it since they have no overlay to draw them. It is called from the
	// tracking goroutine.
	OnHighlight func(index int)
}

// chain is the state shared by every session between a root and its
// deepest open submenu. It is only touched from the tracking goroutine.
type chain struct {
	id       string
	env      Env
	hot      geom.Rect
	start    time.Time
	sticky   bool
	chosen   *menu.Item
	presses  uint64
	releases uint64
	sessions []*Session
	locked   bool
	dirty    bool
}

func (c *chain) lock(ctx context.Context) error {
	if err := c.env.Surface.Lock(ctx); err != nil {
		return err
	}
	c.locked = true
	return nil
}

func (c *chain) unlock() {
	if c.locked {
		c.locked = false
		c.env.Surface.Unlock()
	}
}

// flush asks the host to repaint. It must run without the lock.
func (c *chain) flush() {
	if c.dirty {
		c.dirty = false
		c.env.Surface.Invalidate()
	}
}

func (c *chain) owns(p geom.Point) bool {
	for _, s := range c.sessions {
		if s.frame().Contains(p) {
			return true
		}
	}
	return false
}

func (c *chain) nearHot(p geom.Point, now time.Time) bool {
	if c.hot.Empty() || now.Sub(c.start) > c.env.Params.ReentryWindow {
		return false
	}
	return rectDistance(p, c.hot) <= c.env.Params.ReentryDistance
}

func (c *chain) setSticky(on bool, reason string) {
	if c.sticky == on {
		return
	}
	c.sticky = on
	events.Tracking.Sticky(c.id, on, reason)
}

func (c *chain) remove(s *Session) {
	for i, cur := range c.sessions {
		if cur == s {
			c.sessions = append(c.sessions[:i], c.sessions[i+1:]...)
			return
		}
	}
}

// beginHook observes every root session right after it opens.
var beginHook func(*Session)

type step int

const (
	stepSleep step = iota
	stepDelegate
	stepYield
	stepDone
)

// Session tracks one open menu.
type Session struct {
	chain  *chain
	menu   *menu.Menu
	parent *Session
	window *overlay.Window
	bar    geom.Rect

	onHighlight func(int)

	state     State
	highlight int
	child     *Session
	nav       navArea
	result    Result

	pending      int
	pendingSince time.Time
	keyEntry     bool
	rehit        bool
	lastMoves    uint64
	wait         time.Duration

	query   string
	queryAt time.Time

	prevFocus string
	once      sync.Once
}

// Track runs a root session for m until it closes and returns its
// outcome. The overlay chain is fully torn down before Track returns.
// An error means the session never started.
func Track(ctx context.Context, env Env, m *menu.Menu, opts Options) (res Result, err error) {
	env = env.withDefaults()
	c := &chain{
		id:     uuid.NewString(),
		env:    env,
		hot:    opts.Hot,
		start:  env.Clock.Now(),
		sticky: opts.Sticky,
	}
	if err := c.lock(ctx); err != nil {
		return Result{Kind: Cancelled}, err
	}
	s, err := begin(c, m, opts)
	if err != nil {
		c.unlock()
		return Result{Kind: Cancelled}, err
	}
	defer func() {
		if r := recover(); r != nil {
			events.Tracking.Panic(c.id, r)
			logging.Error(fmt.Errorf("tracking %s: recovered panic: %v", m.ID, r))
			res = Result{Kind: Cancelled}
		}
		c.unlock()
		s.cleanup()
		c.dirty = true
		c.flush()
	}()
	c.presses, c.releases = env.Surface.Edges()
	if beginHook != nil {
		beginHook(s)
	}
	if opts.Select != nil {
		if idx := m.IndexOf(opts.Select); idx >= 0 && opts.Select.Enabled() {
			s.setHighlight(idx)
			if opts.OpenSelected {
				p, _ := env.Surface.Pointer()
				if opts.Keyboard {
					s.enterSubmenu()
				} else {
					s.openChild(idx, p, false, env.Clock.Now())
				}
			}
		}
	}
	c.unlock()
	c.flush()
	return s.loop(ctx), nil
}

// Check reports why m cannot be tracked: ErrMenuDisabled for a disabled or
// destroyed menu, ErrEmptyMenu for one without items.
func Check(m *menu.Menu) error {
	if m.Destroyed() || !m.Enabled() {
		return ErrMenuDisabled
	}
	if m.CountItems() == 0 {
		return ErrEmptyMenu
	}
	return nil
}

// begin opens the root session. The lock is held.
func begin(c *chain, m *menu.Menu, opts Options) (*Session, error) {
	if err := Check(m); err != nil {
		return nil, err
	}
	s := newSession(c, m, nil)
	s.onHighlight = opts.OnHighlight
	if opts.Bar.Empty() {
		w, err := c.env.Overlays.OpenAt(m, opts.At)
		if err != nil {
			return nil, fmt.Errorf("tracking %s: %w", m.ID, err)
		}
		s.window = w
	} else {
		s.bar = opts.Bar
	}
	s.prevFocus = c.env.Surface.TakeFocus("menu:" + m.ID)
	s.open()
	return s, nil
}

func newSession(c *chain, m *menu.Menu, parent *Session) *Session {
	return &Session{
		chain:     c,
		menu:      m,
		parent:    parent,
		state:     StateTracking,
		highlight: -1,
		pending:   -1,
		lastMoves: c.env.Surface.Moves(),
		wait:      c.env.Params.PollInterval,
	}
}

func (s *Session) open() {
	c := s.chain
	c.sessions = append(c.sessions, s)
	c.env.Metrics.SessionsActive.Inc()
	c.dirty = true
	events.Tracking.Open(c.id, s.menu.ID, s.menu.Depth(), c.sticky)
}

// Menu returns the tracked menu.
func (s *Session) Menu() *menu.Menu { return s.menu }

// State returns the current state.
func (s *Session) State() State { return s.state }

// Highlight returns the highlighted index, or -1.
func (s *Session) Highlight() int { return s.highlight }

// Sticky reports whether the chain is in sticky mode.
func (s *Session) Sticky() bool { return s.chain.sticky }

// Child returns the session of the open submenu, if any.
func (s *Session) Child() *Session { return s.child }

// ID identifies the chain in traces.
func (s *Session) ID() string { return s.chain.id }

func (s *Session) frame() geom.Rect {
	if s.window != nil {
		return s.window.Frame()
	}
	return s.bar
}

// ownsPoint reports whether p lies over this session or one of its open
// descendants.
func (s *Session) ownsPoint(p geom.Point) bool {
	for cur := s; cur != nil; cur = cur.child {
		if cur.frame().Contains(p) {
			return true
		}
	}
	return false
}

func (s *Session) isRow() bool { return s.menu.Layout() == menu.LayoutRow }

func (s *Session) barAncestor() bool {
	for cur := s.parent; cur != nil; cur = cur.parent {
		if cur.isRow() {
			return true
		}
	}
	return false
}

// hitTest returns the index of the enabled item under p, or -1.
func (s *Session) hitTest(p geom.Point) int {
	var local geom.Point
	if s.window != nil {
		l, ok := s.window.ToLocal(p)
		if !ok {
			return -1
		}
		local = l
	} else {
		if !s.bar.Contains(p) {
			return -1
		}
		local = p.Sub(s.bar.Min).Add(s.menu.Bounds().Min)
	}
	idx := s.menu.HitTest(local)
	if item := s.menu.ItemAt(idx); item == nil || !item.Enabled() {
		return -1
	}
	return idx
}

func (s *Session) itemScreenFrame(index int) (geom.Rect, bool) {
	if s.window != nil {
		return s.window.ItemScreenFrame(index)
	}
	frame, ok := s.menu.ItemFrame(index)
	if !ok {
		return geom.Rect{}, false
	}
	return frame.Sub(s.menu.Bounds().Min).Add(s.bar.Min), true
}

// loop polls until the session closes. Normal exits tear the session down
// with the surface lock held; only cancellation tears down without it.
func (s *Session) loop(ctx context.Context) Result {
	c := s.chain
	for {
		if err := c.lock(ctx); err != nil {
			return s.finish(Result{Kind: Cancelled})
		}
		st := s.iterate()
		if st == stepDone {
			return s.finishLocked(s.result)
		}
		c.unlock()
		c.flush()
		switch st {
		case stepYield:
			return Result{Kind: Returned}
		case stepDelegate:
			res := s.child.loop(ctx)
			if err := c.lock(ctx); err != nil {
				return s.finish(Result{Kind: Cancelled})
			}
			s.childReturned(res)
			if s.state == StateClosed {
				return s.finishLocked(s.result)
			}
			c.unlock()
			c.flush()
			continue
		}
		if err := c.env.Clock.Sleep(ctx, s.wait); err != nil {
			return s.finish(Result{Kind: Cancelled})
		}
	}
}

// iterate runs one poll iteration with the surface lock held.
func (s *Session) iterate() step {
	c := s.chain
	env := c.env
	now := env.Clock.Now()
	s.wait = env.Params.PollInterval

	if s.menu.Destroyed() {
		s.close(Result{Kind: Cancelled})
		return stepDone
	}
	if s.window != nil && s.window.Refresh() {
		c.dirty = true
	}
	if s.keyEntry {
		// Only motion after the keyboard hand-off may return control to
		// the parent.
		s.keyEntry = false
		s.rehit = false
		s.lastMoves = env.Surface.Moves()
		if s.highlight < 0 {
			s.setHighlight(s.menu.NextSelectable(-1, 1))
		}
	}

	for s.state == StateTracking {
		k, ok := env.Surface.PopKey()
		if !ok {
			break
		}
		s.handleKey(k, now)
	}
	switch s.state {
	case StateClosed:
		return stepDone
	case StateKeyToSubmenu:
		if s.child != nil {
			return stepDelegate
		}
		s.state = StateTracking
	}

	p, _ := env.Surface.Pointer()
	moves := env.Surface.Moves()
	moved := moves != s.lastMoves || s.rehit
	s.lastMoves = moves
	s.rehit = false

	if s.child != nil && s.child.ownsPoint(p) {
		s.nav = navArea{}
		s.child.rehit = true
		return stepDelegate
	}
	if s.parent != nil && moved && !s.frame().Contains(p) && s.parent.ancestorOwns(p) {
		return stepYield
	}

	suppress := false
	if s.nav.set {
		if s.child != nil && s.nav.active(now) && s.nav.contains(p) {
			suppress = true
		} else {
			s.nav = navArea{}
		}
	}

	idx := s.hitTest(p)
	if moved && !suppress {
		s.wait = env.Params.PollIntervalMoving
		switch {
		case idx >= 0:
			s.pointAt(idx, p, now)
		case s.frame().Contains(p) && !c.sticky && !s.overAffordance(p):
			s.setHighlight(-1)
		}
	}
	if s.pending >= 0 && s.pending == s.highlight && s.child == nil &&
		now.Sub(s.pendingSince) >= env.Params.OpenDelay {
		s.openChild(s.pending, p, false, now)
	}

	if s.window != nil && s.window.Scrolling() {
		if dir := s.window.AffordanceAt(p); dir != 0 {
			s.wait = env.Params.PollIntervalMoving
			if s.window.AutoScroll(dir, now) {
				c.dirty = true
			}
		}
	}

	presses, releases := env.Surface.Edges()
	if presses != c.presses {
		c.presses = presses
		s.onPress(idx)
	}
	if s.state == StateTracking && releases != c.releases {
		c.releases = releases
		s.onRelease(p, idx, now)
	}
	if s.state == StateClosed {
		return stepDone
	}
	return stepSleep
}

func (s *Session) overAffordance(p geom.Point) bool {
	return s.window != nil && s.window.AffordanceAt(p) != 0
}

// ancestorOwns reports whether p lies over s or one of its ancestors.
func (s *Session) ancestorOwns(p geom.Point) bool {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.frame().Contains(p) {
			return true
		}
	}
	return false
}

func (s *Session) onPress(idx int) {
	c := s.chain
	if c.sticky {
		c.setSticky(false, "press")
		return
	}
	if idx >= 0 && idx == s.highlight && s.child != nil {
		s.close(Result{Kind: Cancelled})
	}
}

func (s *Session) onRelease(p geom.Point, idx int, now time.Time) {
	c := s.chain
	if c.sticky {
		return
	}
	switch {
	case idx >= 0:
		item := s.menu.ItemAt(idx)
		if item.Submenu() == nil {
			s.choose(item)
			return
		}
		s.pointAt(idx, p, now)
		c.setSticky(true, "submenu")
	case c.owns(p):
		c.setSticky(true, "inside")
	case c.nearHot(p, now):
		if s.parent == nil {
			c.setSticky(true, "hot")
		} else {
			s.close(Result{Kind: StickyReentry})
		}
	default:
		s.close(Result{Kind: Cancelled})
	}
}

// pointAt highlights the item under the pointer and opens its submenu.
func (s *Session) pointAt(idx int, p geom.Point, now time.Time) {
	s.setHighlight(idx)
	item := s.menu.ItemAt(idx)
	if item == nil || item.Submenu() == nil || s.child != nil {
		return
	}
	if s.chain.env.Params.OpenDelay > 0 {
		if s.pending != idx {
			s.pending = idx
			s.pendingSince = now
		}
		return
	}
	s.openChild(idx, p, false, now)
}

func (s *Session) setHighlight(index int) {
	if index == s.highlight {
		return
	}
	if s.child != nil {
		s.closeChild()
	}
	s.highlight = index
	s.pending = -1
	if s.window != nil {
		s.window.SetHighlight(index)
		if index >= 0 {
			s.window.EnsureVisible(index)
		}
	}
	if s.onHighlight != nil {
		s.onHighlight(index)
	}
	s.chain.dirty = true
	events.Tracking.Highlight(s.chain.id, s.menu.ID, index)
}

func (s *Session) openChild(index int, p geom.Point, byKey bool, now time.Time) bool {
	item := s.menu.ItemAt(index)
	if item == nil || item.Submenu() == nil || !item.Enabled() {
		return false
	}
	sub := item.Submenu()
	if sub.CountItems() == 0 {
		return false
	}
	frame, ok := s.itemScreenFrame(index)
	if !ok {
		return false
	}
	w, err := s.chain.env.Overlays.OpenBeside(sub, frame, s.isRow())
	if err != nil {
		logging.Error(fmt.Errorf("tracking %s: open submenu %s: %w", s.menu.ID, sub.ID, err))
		return false
	}
	child := newSession(s.chain, sub, s)
	child.window = w
	child.rehit = !byKey
	child.open()
	s.child = child
	s.pending = -1
	if !byKey {
		s.nav = newNavArea(p, w.Frame(), now.Add(s.chain.env.Params.NavigationTimeout))
	}
	events.Tracking.Submenu(s.chain.id, sub.ID, true)
	return true
}

func (s *Session) closeChild() {
	child := s.child
	s.child = nil
	s.nav = navArea{}
	child.cleanup()
	events.Tracking.Submenu(s.chain.id, child.menu.ID, false)
}

// enterSubmenu opens the highlighted item's submenu if needed and hands
// the keyboard to it.
func (s *Session) enterSubmenu() bool {
	item := s.menu.ItemAt(s.highlight)
	if item == nil || item.Submenu() == nil || !item.Enabled() {
		return false
	}
	if s.child == nil {
		p, _ := s.chain.env.Surface.Pointer()
		if !s.openChild(s.highlight, p, true, s.chain.env.Clock.Now()) {
			return false
		}
	}
	s.child.keyEntry = true
	s.state = StateKeyToSubmenu
	return true
}

func (s *Session) childReturned(res Result) {
	if s.child != nil && s.child.state == StateClosed {
		s.child = nil
		s.nav = navArea{}
	}
	if s.state == StateKeyToSubmenu {
		s.state = StateTracking
	}
	s.rehit = true
	switch res.Kind {
	case Chosen, Cancelled:
		s.close(res)
	case StickyReentry:
		s.chain.setSticky(true, "reentry")
	case Returned:
		if res.Travel == 0 {
			return
		}
		if s.isRow() {
			s.travel(res.Travel, true)
			return
		}
		s.close(res)
	}
}

// travel moves a bar highlight by one item; when enter is set the new
// item's submenu opens and receives the keyboard.
func (s *Session) travel(dir int, enter bool) {
	next := s.menu.NextSelectable(s.highlight, dir)
	if next < 0 {
		return
	}
	s.setHighlight(next)
	if enter {
		s.enterSubmenu()
	}
}

func (s *Session) choose(item *menu.Item) {
	if s.chain.chosen == nil {
		s.chain.chosen = item
	}
	s.close(Result{Kind: Chosen, Item: s.chain.chosen})
}

// close ends the loop at the end of the current iteration.
func (s *Session) close(res Result) {
	s.result = res
	s.state = StateClosed
}

func (s *Session) finish(res Result) Result {
	s.result = res
	s.cleanup()
	return res
}

// finishLocked tears down while the lock is still held, then releases it
// and repaints.
func (s *Session) finishLocked(res Result) Result {
	s.finish(res)
	s.chain.unlock()
	s.chain.flush()
	return res
}

// cleanup tears the session down. It runs once, whichever path closed the
// session. It does not acquire the surface lock itself, so cancellation can
// run it without one.
func (s *Session) cleanup() {
	s.once.Do(func() {
		c := s.chain
		if s.highlight >= 0 {
			s.highlight = -1
			if s.window != nil {
				s.window.SetHighlight(-1)
			}
			if s.onHighlight != nil {
				s.onHighlight(-1)
			}
		}
		if s.child != nil {
			s.closeChild()
		}
		if s.parent == nil {
			c.setSticky(false, "close")
		}
		if s.window != nil {
			c.env.Overlays.Close(s.window)
		}
		s.state = StateClosed
		c.remove(s)
		c.env.Metrics.SessionsActive.Dec()
		if s.parent == nil {
			c.env.Surface.RestoreFocus(s.prevFocus)
			c.env.Surface.DropKeys()
		}
		c.dirty = true
		events.Tracking.Close(c.id, s.menu.ID, s.result.Kind.String(), s.result.itemID())
	})
}
