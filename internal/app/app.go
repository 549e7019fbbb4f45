package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/atomicstack/menutrack/internal/logging"
	"github.com/atomicstack/menutrack/internal/metrics"
	"github.com/atomicstack/menutrack/internal/overlay"
	"github.com/atomicstack/menutrack/internal/tracking"
	"github.com/atomicstack/menutrack/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/term"
)

const (
	minWidth  = 20
	minHeight = 6
)

// ErrNotTerminal is returned when stdout is not attached to a terminal.
var ErrNotTerminal = errors.New("menutrack needs an interactive terminal")

// Config describes user-provided application options.
type Config struct {
	Width       int
	Height      int
	ShowFooter  bool
	MaxSessions int64
	// MetricsAddr serves Prometheus metrics when set, e.g. "127.0.0.1:9464".
	MetricsAddr string
	Params      tracking.Params
	Scroll      overlay.ScrollConfig
}

// Run bootstraps and executes the Bubble Tea program.
func Run(cfg Config) error {
	fd := os.Stdout.Fd()
	if !isatty.IsTerminal(fd) && !isatty.IsCygwinTerminal(fd) {
		return ErrNotTerminal
	}
	if err := checkSize(int(fd), cfg); err != nil {
		return err
	}
	bar, contextMenu, err := buildMenus()
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	met := metrics.New(registry)
	if cfg.MetricsAddr != "" {
		_, stop, err := serveMetrics(cfg.MetricsAddr, registry)
		if err != nil {
			return err
		}
		defer stop()
	}

	model := ui.NewModel(ui.Options{
		Width:       cfg.Width,
		Height:      cfg.Height,
		Bar:         bar,
		Context:     contextMenu,
		Params:      cfg.Params,
		Scroll:      cfg.Scroll,
		Metrics:     met,
		MaxSessions: cfg.MaxSessions,
		ShowFooter:  cfg.ShowFooter,
	})
	defer model.Shutdown()
	program := tea.NewProgram(model, programOptions()...)
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// programOptions asks for every pointer motion, not only drags: a sticky
// menu follows the pointer with no button held.
func programOptions() []tea.ProgramOption {
	return []tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()}
}

// checkSize refuses terminals too small to show a bar, an overlay with its
// scroll affordances and the status line.
func checkSize(fd int, cfg Config) error {
	width, height := cfg.Width, cfg.Height
	if width == 0 || height == 0 {
		w, h, err := term.GetSize(fd)
		if err != nil {
			return fmt.Errorf("query terminal size: %w", err)
		}
		if width == 0 {
			width = w
		}
		if height == 0 {
			height = h
		}
	}
	if width < minWidth || height < minHeight {
		return fmt.Errorf("terminal too small: %dx%d (need at least %dx%d)", width, height, minWidth, minHeight)
	}
	return nil
}

// serveMetrics exposes registry on /metrics and returns the bound address.
func serveMetrics(addr string, registry *prometheus.Registry) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, fmt.Errorf("listen for metrics on %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}))
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(fmt.Errorf("metrics server: %w", err))
		}
	}()
	return listener.Addr().String(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}, nil
}
