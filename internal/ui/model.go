package ui

import (
	"reflect"
	"sync/atomic"

	"github.com/atomicstack/menutrack/internal/geom"
	"github.com/atomicstack/menutrack/internal/invoke"
	"github.com/atomicstack/menutrack/internal/keymap"
	"github.com/atomicstack/menutrack/internal/layout"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/metrics"
	"github.com/atomicstack/menutrack/internal/overlay"
	"github.com/atomicstack/menutrack/internal/runner"
	"github.com/atomicstack/menutrack/internal/surface"
	"github.com/atomicstack/menutrack/internal/theme"
	"github.com/atomicstack/menutrack/internal/tracking"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	overlayInset  = 1
	focusOwner    = "workspace"
)

var styles = theme.Default()

type msgHandler func(tea.Msg) tea.Cmd

// Options configures the host program.
type Options struct {
	Width  int
	Height int
	// Bar is the root of the menu bar; it must use menu.LayoutRow.
	Bar *menu.Menu
	// Context pops up at the pointer on a secondary click. Optional.
	Context     *menu.Menu
	Keymap      keymap.Keymap
	Params      tracking.Params
	Scroll      overlay.ScrollConfig
	Metrics     *metrics.Metrics
	MaxSessions int64
	ShowFooter  bool
}

// Model implements the Bubble Tea model hosting the menu tracking engine.
type Model struct {
	surf     *surface.Surface
	runner   *runner.Runner
	overlays *overlay.Manager
	keymap   keymap.Keymap
	drawer   *layout.Drawer
	bus      *invoke.Bus

	bar     *menu.Menu
	context *menu.Menu

	deliveries chan *menu.Item
	redraw     chan struct{}

	barHighlight atomic.Int32
	buttons      surface.Buttons

	width       int
	height      int
	fixedWidth  bool
	fixedHeight bool
	showFooter  bool
	infoMsg     string
	errMsg      string

	handlers map[reflect.Type]msgHandler
}

// NewModel builds the host around a fresh surface, overlay manager and
// session runner.
func NewModel(opts Options) *Model {
	width, height := opts.Width, opts.Height
	m := &Model{
		keymap:     opts.Keymap,
		drawer:     &layout.Drawer{Styles: styles},
		bus:        invoke.NewBus(nil),
		bar:        opts.Bar,
		context:    opts.Context,
		deliveries: make(chan *menu.Item, 8),
		redraw:     make(chan struct{}, 1),
		showFooter: opts.ShowFooter,
	}
	if len(m.keymap.Up.Keys()) == 0 {
		m.keymap = keymap.Default()
	}
	m.width, m.height = defaultWidth, defaultHeight
	if width > 0 {
		m.width = width
		m.fixedWidth = true
	}
	if height > 0 {
		m.height = height
		m.fixedHeight = true
	}
	m.barHighlight.Store(-1)

	m.surf = surface.New(geom.R(0, 0, m.width, m.height))
	m.surf.TakeFocus(focusOwner)
	m.surf.OnInvalidate(m.invalidate)
	met := opts.Metrics
	if met == nil {
		met = metrics.Discard()
	}
	m.overlays = overlay.NewManager(overlay.Options{
		Inset:   overlayInset,
		Scroll:  opts.Scroll,
		Metrics: met,
		Bounds:  m.surf.Bounds,
	})
	m.runner = runner.New(runner.Options{
		Env: tracking.Env{
			Surface:  m.surf,
			Overlays: m.overlays,
			Keymap:   m.keymap,
			Params:   opts.Params,
			Metrics:  met,
		},
		Sink:        invoke.Chan(m.deliveries),
		MaxSessions: opts.MaxSessions,
	})
	if m.bar != nil {
		m.bar.SetLayouterTree(layout.Cells{})
	}
	if m.context != nil {
		m.context.SetLayouterTree(layout.Cells{})
	}
	m.registerHandlers()
	return m
}

// Init is part of the tea.Model interface.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForRedraw(), m.waitForDelivery())
}

// Update responds to Bubble Tea messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if handler := m.handlerFor(msg); handler != nil {
		return m, handler(msg)
	}
	return m, nil
}

// Shutdown closes every open menu chain and waits for the workers.
func (m *Model) Shutdown() {
	events.App.Stop(m.runner.Running())
	m.runner.Shutdown()
}

// Surface exposes the window the engine tracks against.
func (m *Model) Surface() *surface.Surface { return m.surf }

// Runner exposes the session runner.
func (m *Model) Runner() *runner.Runner { return m.runner }

func (m *Model) registerHandlers() {
	m.handlers = map[reflect.Type]msgHandler{
		reflect.TypeOf(tea.KeyMsg{}):        m.handleKeyMsg,
		reflect.TypeOf(tea.MouseMsg{}):      m.handleMouseMsg,
		reflect.TypeOf(tea.WindowSizeMsg{}): m.handleWindowSizeMsg,
		reflect.TypeOf(invoke.InvokedMsg{}): m.handleInvokedMsg,
		reflect.TypeOf(menu.ActionResult{}): m.handleActionResultMsg,
		reflect.TypeOf(MarkMsg{}):           m.handleMarkMsg,
		reflect.TypeOf(deliveredMsg{}):      m.handleDeliveredMsg,
		reflect.TypeOf(redrawMsg{}):         m.handleRedrawMsg,
	}
}

func (m *Model) handlerFor(msg tea.Msg) msgHandler {
	if msg == nil || m.handlers == nil {
		return nil
	}
	t := reflect.TypeOf(msg)
	if handler, ok := m.handlers[t]; ok {
		return handler
	}
	if t.Kind() == reflect.Ptr {
		if handler, ok := m.handlers[t.Elem()]; ok {
			return handler
		}
	}
	return nil
}

// chainOpen reports whether any menu chain is being tracked.
func (m *Model) chainOpen() bool {
	return m.runner.Running() > 0
}

func (m *Model) barRect() geom.Rect {
	return geom.R(0, 0, m.width, 1)
}

func (m *Model) setBarHighlight(index int) {
	m.barHighlight.Store(int32(index))
}
