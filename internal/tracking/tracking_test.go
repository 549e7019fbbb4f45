package tracking

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/keymap"
	"github.com/atomicstack/menutrack/internal/layout"
	"github.com/atomicstack/menutrack/internal/logging"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/metrics"
	"github.com/atomicstack/menutrack/internal/overlay"
	"github.com/atomicstack/menutrack/internal/surface"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

var errScriptDone = errors.New("script finished")

// scriptClock runs one scripted step per poll sleep, on the tracking
// goroutine, so every test is deterministic.
type scriptClock struct {
	now   time.Time
	steps []func()
	ran   int
}

func (c *scriptClock) Now() time.Time { return c.now }

func (c *scriptClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.now = c.now.Add(d)
	if len(c.steps) == 0 {
		return errScriptDone
	}
	next := c.steps[0]
	c.steps = c.steps[1:]
	c.ran++
	next()
	return ctx.Err()
}

// fixture is the tree root [A, B → [B1, B2], C] as a column pop-up at the
// origin. Items are 8 cells wide; B's submenu opens at (8,1).
type fixture struct {
	t     *testing.T
	surf  *surface.Surface
	mgr   *overlay.Manager
	met   *metrics.Metrics
	clock *scriptClock

	root, sub       *menu.Menu
	a, b, c, b1, b2 *menu.Item
	session         *Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{t: t}
	logging.Configure(filepath.Join(t.TempDir(), "menutrack.log"))
	f.surf = surface.New(geom.R(0, 0, 80, 24))
	f.met = metrics.New(prometheus.NewRegistry())
	f.mgr = overlay.NewManager(overlay.Options{Metrics: f.met, Bounds: f.surf.Bounds})
	f.clock = &scriptClock{now: time.Unix(1700000000, 0)}

	f.root = menu.New("root", "Root", menu.LayoutColumn)
	f.sub = menu.New("b", "B", menu.LayoutColumn)
	f.a = menu.NewItem("a", "A", nil)
	f.c = menu.NewItem("c", "C", nil)
	f.b1 = menu.NewItem("b1", "B1", nil)
	f.b2 = menu.NewItem("b2", "B2", nil)
	require.NoError(t, f.sub.AddItem(f.b1))
	require.NoError(t, f.sub.AddItem(f.b2))
	require.NoError(t, f.root.AddItem(f.a))
	b, err := f.root.AddSubmenu(f.sub)
	require.NoError(t, err)
	f.b = b
	require.NoError(t, f.root.AddItem(f.c))
	f.root.SetLayouterTree(layout.Cells{})

	f.surf.SetPointer(geom.Pt(60, 20), 0)
	beginHook = func(s *Session) { f.session = s }
	t.Cleanup(func() { beginHook = nil })
	return f
}

func (f *fixture) env() Env {
	return Env{
		Surface:  f.surf,
		Overlays: f.mgr,
		Keymap:   keymap.Default(),
		Params:   DefaultParams(),
		Clock:    f.clock,
		Metrics:  f.met,
	}
}

func (f *fixture) script(steps ...func()) { f.clock.steps = steps }

func (f *fixture) track(opts Options) Result {
	f.t.Helper()
	res, err := Track(context.Background(), f.env(), f.root, opts)
	require.NoError(f.t, err)
	return res
}

func (f *fixture) move(x, y int) func() {
	return func() {
		_, buttons := f.surf.Pointer()
		f.surf.SetPointer(geom.Pt(x, y), buttons)
	}
}

func (f *fixture) press() func() {
	return func() {
		p, _ := f.surf.Pointer()
		f.surf.SetPointer(p, surface.ButtonPrimary)
	}
}

func (f *fixture) release() func() {
	return func() {
		p, _ := f.surf.Pointer()
		f.surf.SetPointer(p, 0)
	}
}

func (f *fixture) keys(names ...string) func() {
	return func() {
		for _, name := range names {
			k := surface.Key{Name: name}
			if len([]rune(name)) == 1 {
				k.Runes = []rune(name)
			}
			f.surf.PushKey(k)
		}
	}
}

func (f *fixture) then(fns ...func()) func() {
	return func() {
		for _, fn := range fns {
			fn()
		}
	}
}

func (f *fixture) requireChain() {
	f.t.Helper()
	windows := f.mgr.Windows()
	seen := map[*menu.Menu]bool{}
	for i, w := range windows {
		require.False(f.t, seen[w.Menu()], "menu %s has two windows", w.Menu().ID)
		seen[w.Menu()] = true
		if i > 0 {
			require.Same(f.t, windows[i-1].Menu(), w.Menu().Supermenu())
		}
	}
}

func (f *fixture) requireTornDown() {
	f.t.Helper()
	require.Equal(f.t, 0, f.mgr.Count())
	require.Equal(f.t, float64(0), testutil.ToFloat64(f.met.OverlaysOpen))
	require.Equal(f.t, float64(0), testutil.ToFloat64(f.met.SessionsActive))
	require.True(f.t, f.surf.TryLock(), "surface lock leaked")
	f.surf.Unlock()
}

func TestHoverIntoSubmenuAndReleaseChooses(t *testing.T) {
	f := newFixture(t)
	f.surf.SetPointer(geom.Pt(60, 20), surface.ButtonPrimary)
	f.script(
		f.move(2, 1),
		f.then(func() {
			require.Equal(t, 2, f.mgr.Count())
			require.Equal(t, 1, f.session.Highlight())
			f.requireChain()
		}, f.move(9, 1)),
		f.then(func() {
			child := f.session.Child()
			require.NotNil(t, child)
			require.Equal(t, 0, child.Highlight())
		}, f.release()),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.b1, res.Item)
	f.requireTornDown()
}

func TestEscapeWithSubmenuOpenChoosesNothing(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(2, 1),
		f.then(func() { require.Equal(t, 2, f.mgr.Count()) }, f.keys("esc")),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Cancelled, res.Kind)
	require.Nil(t, res.Item)
	f.requireTornDown()
}

func TestClickClosesOnPairedRelease(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(2, 0),
		f.press(),
		f.then(func() { require.Equal(t, StateTracking, f.session.State()) }, f.release()),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.a, res.Item)
	f.requireTornDown()
}

func TestClickShorterThanPollIsSeen(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(2, 2),
		f.then(f.press(), f.release()),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.c, res.Item)
}

func TestDestroyWhileTrackingTearsDown(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(2, 1),
		func() { f.root.Destroy() },
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}

func TestContextCancelTearsDown(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.script(
		f.move(2, 1),
		f.move(9, 2),
		cancel,
	)

	res, err := Track(ctx, f.env(), f.root, Options{At: geom.Pt(0, 0)})
	require.NoError(t, err)
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}

func TestPanicUnderLockIsRecovered(t *testing.T) {
	f := newFixture(t)
	boom := false
	f.root.SetLayouter(menu.LayouterFunc(func(m *menu.Menu) []geom.Rect {
		if boom {
			panic("layout exploded")
		}
		return layout.Cells{}.ComputeItemFrames(m)
	}))
	f.script(
		f.then(func() {
			boom = true
			f.root.InvalidateLayout()
		}, f.move(2, 0)),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}

func TestFocusIsRestored(t *testing.T) {
	f := newFixture(t)
	f.surf.TakeFocus("editor")
	f.script(
		f.then(func() { require.Equal(t, "menu:root", f.surf.Focus()) }, f.keys("esc")),
	)

	f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, "editor", f.surf.Focus())
}

func TestOnlyOneWindowPerLevel(t *testing.T) {
	f := newFixture(t)
	check := func() { f.requireChain() }
	f.script(
		f.move(2, 0), check,
		f.move(2, 1), check,
		f.move(9, 1), check,
		f.move(9, 2), check,
		f.move(1, 2), check,
		f.then(func() { require.Equal(t, 1, f.mgr.Count()) }, f.move(2, 1)), check,
		f.then(func() { require.Equal(t, 2, f.mgr.Count()) }, f.keys("esc")),
	)

	f.track(Options{At: geom.Pt(0, 0)})
	f.requireTornDown()
}

func TestPointerBackOnParentClosesSubmenu(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(2, 1),
		f.move(9, 1),
		f.move(2, 0),
		f.then(func() {
			require.Equal(t, 0, f.session.Highlight())
			require.Nil(t, f.session.Child())
			require.Equal(t, 1, f.mgr.Count())
		}, f.keys("esc")),
	)

	f.track(Options{At: geom.Pt(0, 0)})
	f.requireTornDown()
}

func TestNavigationAreaSuppressesDiagonalHits(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(3, 1),
		// (6,2) lies over C but inside the triangle towards the submenu.
		f.move(6, 2),
		f.then(func() {
			require.Equal(t, 1, f.session.Highlight())
			require.Equal(t, 2, f.mgr.Count())
		}, f.move(1, 2)),
		f.then(func() {
			require.Equal(t, 2, f.session.Highlight())
			require.Equal(t, 1, f.mgr.Count())
		}, f.keys("esc")),
	)

	f.track(Options{At: geom.Pt(0, 0)})
}

func TestNavigationAreaExpires(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(3, 1),
		f.move(6, 2),
		f.then(func() { f.clock.now = f.clock.now.Add(2 * time.Second) }, f.move(7, 2)),
		f.then(func() { require.Equal(t, 2, f.session.Highlight()) }, f.keys("esc")),
	)

	f.track(Options{At: geom.Pt(0, 0)})
}

func TestStickyToggleIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(2, 1),
		f.then(func() {
			require.True(t, f.session.Sticky())
			require.NotNil(t, f.session.Child())
		}, f.press()),
		f.then(func() { require.False(t, f.session.Sticky()) }, f.release()),
		f.then(func() {
			require.True(t, f.session.Sticky())
			require.Equal(t, 1, f.session.Highlight())
			require.NotNil(t, f.session.Child())
			require.Equal(t, 2, f.mgr.Count())
		}, f.keys("esc")),
	)

	f.track(Options{At: geom.Pt(0, 0), Sticky: true})
	f.requireTornDown()
}

func TestReleaseOutsideCancels(t *testing.T) {
	f := newFixture(t)
	f.surf.SetPointer(geom.Pt(2, 0), surface.ButtonPrimary)
	f.script(
		f.move(50, 20),
		f.release(),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}

func TestReleaseOnHotRectBecomesSticky(t *testing.T) {
	f := newFixture(t)
	hot := geom.R(30, 10, 6, 1)
	f.surf.SetPointer(geom.Pt(31, 10), surface.ButtonPrimary)
	f.script(
		f.release(),
		f.then(func() { require.True(t, f.session.Sticky()) }, f.move(31, 11)),
		f.press(),
		f.release(),
	)

	res := f.track(Options{At: geom.Pt(30, 11), Hot: hot})
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.a, res.Item)
}

func TestChildReleaseOnHotRectIsStickyReentry(t *testing.T) {
	f := newFixture(t)
	hot := geom.R(30, 10, 6, 1)
	f.surf.SetPointer(geom.Pt(31, 10), surface.ButtonPrimary)
	f.script(
		f.move(31, 12),
		f.move(39, 12),
		f.move(31, 10),
		f.release(),
		f.then(func() {
			require.True(t, f.session.Sticky())
			require.Nil(t, f.session.Child())
			require.Equal(t, 1, f.mgr.Count())
		}, f.keys("esc")),
	)

	res := f.track(Options{At: geom.Pt(30, 11), Hot: hot})
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}

func TestReentryWindowElapsed(t *testing.T) {
	f := newFixture(t)
	hot := geom.R(30, 10, 6, 1)
	f.surf.SetPointer(geom.Pt(31, 10), surface.ButtonPrimary)
	f.script(
		f.then(func() { f.clock.now = f.clock.now.Add(2 * time.Second) }, f.release()),
	)

	res := f.track(Options{At: geom.Pt(30, 11), Hot: hot})
	require.Equal(t, Cancelled, res.Kind)
}

func TestKeyboardNavigation(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.keys("down", "down", "right"),
		f.then(func() {
			child := f.session.Child()
			require.NotNil(t, child)
			require.Equal(t, 0, child.Highlight())
			require.Equal(t, 2, f.mgr.Count())
		}, f.keys("down", "left")),
		f.then(func() {
			require.Nil(t, f.session.Child())
			require.Equal(t, 1, f.session.Highlight())
			require.Equal(t, 1, f.mgr.Count())
		}, f.keys("enter")),
		f.keys("down", "enter"),
	)

	res := f.track(Options{At: geom.Pt(0, 0), Sticky: true})
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.b2, res.Item)
	f.requireTornDown()
}

func TestUpWrapsAround(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.keys("down", "up"),
		f.then(func() { require.Equal(t, 2, f.session.Highlight()) }, f.keys("esc")),
	)

	f.track(Options{At: geom.Pt(0, 0), Sticky: true})
}

func TestTypeAheadAndShortcut(t *testing.T) {
	f := newFixture(t)
	f.c.Shortcut = menu.Shortcut{Key: "s", Mods: menu.ModCtrl}
	f.script(
		f.keys("c"),
		f.then(func() {
			require.Equal(t, 2, f.session.Highlight())
			// A pause starts a new query.
			f.clock.now = f.clock.now.Add(2 * time.Second)
		}, f.keys("a")),
		f.then(func() { require.Equal(t, 0, f.session.Highlight()) }, f.keys("ctrl+s")),
	)

	res := f.track(Options{At: geom.Pt(0, 0), Sticky: true})
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.c, res.Item)
}

func TestOpenDelayDefersHoverOpen(t *testing.T) {
	f := newFixture(t)
	env := f.env()
	env.Params.OpenDelay = 100 * time.Millisecond
	f.script(
		f.move(2, 1),
		f.then(func() { require.Equal(t, 1, f.mgr.Count()) }, func() {
			f.clock.now = f.clock.now.Add(200 * time.Millisecond)
		}),
		f.then(func() { require.Equal(t, 2, f.mgr.Count()) }, f.keys("esc")),
	)

	res, err := Track(context.Background(), env, f.root, Options{At: geom.Pt(0, 0)})
	require.NoError(t, err)
	require.Equal(t, Cancelled, res.Kind)
}

func TestMenuBarTravel(t *testing.T) {
	f := newFixture(t)
	bar := menu.New("bar", "Bar", menu.LayoutRow)
	file := menu.New("file", "File", menu.LayoutColumn)
	edit := menu.New("edit", "Edit", menu.LayoutColumn)
	require.NoError(t, file.AddItem(menu.NewItem("new", "New", nil)))
	require.NoError(t, file.AddItem(menu.NewItem("open", "Open", nil)))
	copyItem := menu.NewItem("copy", "Copy", nil)
	require.NoError(t, edit.AddItem(copyItem))
	fileItem, err := bar.AddSubmenu(file)
	require.NoError(t, err)
	_, err = bar.AddSubmenu(edit)
	require.NoError(t, err)
	bar.SetLayouterTree(layout.Cells{})

	var barHighlight []int
	f.script(
		f.then(func() {
			_, ok := f.mgr.WindowFor(file)
			require.True(t, ok)
			w, _ := f.mgr.WindowFor(file)
			require.Equal(t, geom.Pt(0, 1), w.Frame().Min)
		}, f.keys("right")),
		f.then(func() {
			_, ok := f.mgr.WindowFor(edit)
			require.True(t, ok)
			require.Equal(t, 1, f.mgr.Count())
		}, f.keys("enter")),
	)

	res, err := Track(context.Background(), f.env(), bar, Options{
		Bar:          geom.R(0, 0, 12, 1),
		Sticky:       true,
		Select:       fileItem,
		OpenSelected: true,
		Keyboard:     true,
		OnHighlight:  func(i int) { barHighlight = append(barHighlight, i) },
	})
	require.NoError(t, err)
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, copyItem, res.Item)
	require.Equal(t, []int{0, 1, -1}, barHighlight)
	f.requireTornDown()
}

func TestStartRejectsDisabledAndEmptyMenus(t *testing.T) {
	f := newFixture(t)
	f.root.SetEnabled(false)
	_, err := Track(context.Background(), f.env(), f.root, Options{})
	require.ErrorIs(t, err, ErrMenuDisabled)

	_, err = Track(context.Background(), f.env(), menu.New("empty", "", menu.LayoutColumn), Options{})
	require.ErrorIs(t, err, ErrEmptyMenu)
	require.True(t, f.surf.TryLock())
	f.surf.Unlock()
}

func TestNavAreaGeometry(t *testing.T) {
	now := time.Now()
	area := newNavArea(geom.Pt(3, 1), geom.R(8, 1, 8, 2), now.Add(time.Second))
	require.True(t, area.active(now))
	require.False(t, area.active(now.Add(2*time.Second)))
	require.True(t, area.contains(geom.Pt(6, 2)))
	require.True(t, area.contains(geom.Pt(3, 1)))
	require.False(t, area.contains(geom.Pt(1, 2)))

	require.Equal(t, 0, rectDistance(geom.Pt(2, 2), geom.R(0, 0, 4, 4)))
	require.Equal(t, 1, rectDistance(geom.Pt(4, 2), geom.R(0, 0, 4, 4)))
	require.Equal(t, 3, rectDistance(geom.Pt(-3, -1), geom.R(0, 0, 4, 4)))
}

func TestRightArrowAfterHoverOpenHandsKeyboardToSubmenu(t *testing.T) {
	f := newFixture(t)
	f.script(
		f.move(2, 1),
		f.keys("right"),
		f.keys("down"),
		f.then(func() {
			require.Equal(t, 1, f.session.Highlight())
			child := f.session.Child()
			require.NotNil(t, child)
			require.Equal(t, 1, child.Highlight())
			require.Equal(t, 2, f.mgr.Count())
		}, f.keys("enter")),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.b2, res.Item)
	f.requireTornDown()
}

func TestTeardownRunsUnderSurfaceLock(t *testing.T) {
	f := newFixture(t)
	var lockedAtReset []bool
	f.script(
		f.keys("down"),
		f.keys("enter"),
	)

	res, err := Track(context.Background(), f.env(), f.root, Options{
		At:     geom.Pt(0, 0),
		Sticky: true,
		OnHighlight: func(i int) {
			if i >= 0 {
				return
			}
			free := f.surf.TryLock()
			if free {
				f.surf.Unlock()
			}
			lockedAtReset = append(lockedAtReset, !free)
		},
	})
	require.NoError(t, err)
	require.Equal(t, Chosen, res.Kind)
	require.Same(t, f.a, res.Item)
	require.Equal(t, []bool{true}, lockedAtReset)
	f.requireTornDown()
}

// longMenu builds an n-item column menu and shrinks the screen to rows
// lines so its window scrolls. With inset 0 the affordances sit on the
// first and last frame rows.
func (f *fixture) longMenu(n, rows int) *menu.Menu {
	f.t.Helper()
	f.surf.SetBounds(geom.R(0, 0, 40, rows))
	m := menu.New("long", "Long", menu.LayoutColumn)
	for i := 0; i < n; i++ {
		require.NoError(f.t, m.AddItem(menu.NewItem(fmt.Sprintf("l%d", i), fmt.Sprintf("item %d", i), nil)))
	}
	m.SetLayouterTree(layout.Cells{})
	return m
}

func (f *fixture) trackMenu(m *menu.Menu, opts Options) Result {
	f.t.Helper()
	res, err := Track(context.Background(), f.env(), m, opts)
	require.NoError(f.t, err)
	return res
}

func TestKeyboardMovesScrollHighlightIntoView(t *testing.T) {
	f := newFixture(t)
	long := f.longMenu(20, 8)
	window := func() *overlay.Window {
		w, ok := f.mgr.WindowFor(long)
		require.True(t, ok)
		return w
	}
	f.script(
		f.then(func() {
			w := window()
			require.True(t, w.Scrolling())
			require.Equal(t, 14, w.Limit())
			require.Equal(t, 0, w.Offset())
		}, f.keys("end")),
		f.then(func() {
			require.Equal(t, 19, f.session.Highlight())
			require.Equal(t, 14, window().Offset())
			require.False(t, window().CanScrollDown())
		}, f.keys("home")),
		f.then(func() {
			require.Equal(t, 0, f.session.Highlight())
			require.Equal(t, 0, window().Offset())
		}, f.keys("pgdown")),
		f.then(func() {
			require.Equal(t, 5, f.session.Highlight())
			require.Equal(t, 5, window().Offset())
		}, f.keys("pgup")),
		f.then(func() {
			require.Equal(t, 0, f.session.Highlight())
			require.Equal(t, 0, window().Offset())
		}, f.keys("down", "down", "down", "down", "down", "down", "down")),
		f.then(func() {
			require.Equal(t, 7, f.session.Highlight())
			require.Equal(t, 2, window().Offset())
			frame, visible := window().ItemScreenFrame(7)
			require.True(t, visible)
			require.Equal(t, 6, frame.Min.Y)
		}, f.keys("esc")),
	)

	res := f.trackMenu(long, Options{At: geom.Pt(0, 0), Sticky: true})
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}

func TestAffordanceHoverScrollsAtRepeatCadence(t *testing.T) {
	f := newFixture(t)
	long := f.longMenu(20, 8)
	var offsets []int
	record := func() {
		w, ok := f.mgr.WindowFor(long)
		require.True(t, ok)
		offsets = append(offsets, w.Offset())
	}
	// Iteration 1 highlights item 2; from iteration 2 the pointer rests on
	// the lower affordance and every poll is 10ms apart.
	steps := []func(){f.move(2, 3), f.move(2, 7)}
	for i := 0; i < 8; i++ {
		steps = append(steps, record)
	}
	steps = append(steps, f.then(func() {
		require.Equal(t, 2, f.session.Highlight())
	}, f.keys("esc")))
	f.script(steps...)

	res := f.trackMenu(long, Options{At: geom.Pt(0, 0)})
	require.Equal(t, Cancelled, res.Kind)
	// Polls at +0ms..+70ms after the first nudge: the second nudge needs a
	// full 60ms repeat interval.
	require.Len(t, offsets, 8)
	require.Equal(t, 1, offsets[0])
	require.Equal(t, 1, offsets[4])
	require.Equal(t, 2, offsets[7])
	for i := 1; i < len(offsets); i++ {
		require.GreaterOrEqual(t, offsets[i], offsets[i-1])
		require.LessOrEqual(t, offsets[i]-offsets[0], 1)
	}
	f.requireTornDown()
}

func TestAffordanceHoverKeepsSubmenuOpen(t *testing.T) {
	f := newFixture(t)
	// Root [A, B, C, filler...] in a 6-line screen scrolls, with B's
	// submenu beside it.
	for i := 0; i < 6; i++ {
		require.NoError(t, f.root.AddItem(menu.NewItem(fmt.Sprintf("f%d", i), fmt.Sprintf("F%d", i), nil)))
	}
	f.root.SetLayouterTree(layout.Cells{})
	f.surf.SetBounds(geom.R(0, 0, 40, 6))
	f.script(
		f.move(2, 2),
		f.then(func() {
			require.Equal(t, 1, f.session.Highlight())
			require.NotNil(t, f.session.Child())
		}, f.move(2, 5)),
		f.then(func() {
			require.Equal(t, 1, f.session.Highlight())
			require.NotNil(t, f.session.Child())
			require.Equal(t, 2, f.mgr.Count())
		}, f.keys("esc")),
	)

	res := f.track(Options{At: geom.Pt(0, 0)})
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}

func TestItemsAddedWhileOpenExtendScrollRange(t *testing.T) {
	f := newFixture(t)
	long := f.longMenu(10, 8)
	window := func() *overlay.Window {
		w, ok := f.mgr.WindowFor(long)
		require.True(t, ok)
		return w
	}
	f.script(
		f.then(func() {
			require.Equal(t, 4, window().Limit())
			f.surf.LockNow()
			for i := 10; i < 20; i++ {
				require.NoError(t, long.AddItem(menu.NewItem(fmt.Sprintf("l%d", i), fmt.Sprintf("item %d", i), nil)))
			}
			f.surf.Unlock()
		}, f.keys("end")),
		f.then(func() {
			require.Equal(t, 14, window().Limit())
			require.Equal(t, 19, f.session.Highlight())
			require.Equal(t, 14, window().Offset())
		}, f.keys("esc")),
	)

	res := f.trackMenu(long, Options{At: geom.Pt(0, 0), Sticky: true})
	require.Equal(t, Cancelled, res.Kind)
	f.requireTornDown()
}
