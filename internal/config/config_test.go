package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atomicstack/menutrack/internal/overlay"
	"github.com/atomicstack/menutrack/internal/tracking"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs(nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Width != 0 || cfg.App.Height != 0 {
		t.Fatalf("expected terminal-sized defaults, got %dx%d", cfg.App.Width, cfg.App.Height)
	}
	if cfg.App.MaxSessions != defaultMaxSessions {
		t.Fatalf("expected %d sessions, got %d", defaultMaxSessions, cfg.App.MaxSessions)
	}
	if cfg.App.Params != tracking.DefaultParams() {
		t.Fatalf("expected default params, got %#v", cfg.App.Params)
	}
	if cfg.App.Scroll != overlay.DefaultScroll() {
		t.Fatalf("expected default scroll, got %#v", cfg.App.Scroll)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestLoadArgsEnvironmentAndFlags(t *testing.T) {
	env := []string{
		"MENUTRACK_WIDTH=100",
		"MENUTRACK_HEIGHT=30",
		"MENUTRACK_FOOTER=true",
		"MENUTRACK_TRACE=1",
		"MENUTRACK_LOG_FILE=env.log",
		"MENUTRACK_MAX_SESSIONS=2",
		"MENUTRACK_METRICS_ADDR=127.0.0.1:9464",
		"garbage",
		"",
	}
	cfg, err := LoadArgs([]string{"-width", "120", "-log-file", "flag.log"}, env)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Width != 120 {
		t.Fatalf("flag should override env width, got %d", cfg.App.Width)
	}
	if cfg.App.Height != 30 {
		t.Fatalf("expected env height 30, got %d", cfg.App.Height)
	}
	if !cfg.App.ShowFooter || !cfg.Logging.Trace {
		t.Fatalf("expected footer and trace from env")
	}
	if cfg.Logging.FilePath != "flag.log" {
		t.Fatalf("expected flag log file, got %q", cfg.Logging.FilePath)
	}
	if cfg.App.MaxSessions != 2 || cfg.App.MetricsAddr != "127.0.0.1:9464" {
		t.Fatalf("unexpected sessions/metrics: %d %q", cfg.App.MaxSessions, cfg.App.MetricsAddr)
	}
	if cfg.Flags["width"] != "120" || cfg.Flags["maxSessions"] != "2" {
		t.Fatalf("unexpected flags map %v", cfg.Flags)
	}
	if len(cfg.Args) != 4 {
		t.Fatalf("expected args to be kept, got %v", cfg.Args)
	}
}

func TestLoadArgsIgnoresMalformedEnvNumbers(t *testing.T) {
	cfg, err := LoadArgs(nil, []string{"MENUTRACK_WIDTH=wide", "MENUTRACK_FOOTER=maybe"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Width != 0 || cfg.App.ShowFooter {
		t.Fatalf("expected fallbacks, got width %d footer %v", cfg.App.Width, cfg.App.ShowFooter)
	}
}

func TestLoadArgsRejectsNegativeSize(t *testing.T) {
	if _, err := LoadArgs([]string{"-height", "-1"}, nil); err == nil {
		t.Fatalf("expected error for negative height")
	}
	if _, err := LoadArgs([]string{"-bogus"}, nil); err == nil {
		t.Fatalf("expected error for unknown flag")
	}
}

func TestValidate(t *testing.T) {
	cfg, err := LoadArgs([]string{"-max-sessions", "0", "-metrics-addr", "nohostport"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = Validate(cfg)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"max-sessions", "metrics-addr"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}

	cfg.App.MaxSessions = 1
	cfg.App.MetricsAddr = ":9464"
	cfg.App.Params.PollIntervalMoving = cfg.App.Params.PollInterval + time.Millisecond
	if err := Validate(cfg); err == nil || !strings.Contains(err.Error(), "poll_interval_moving") {
		t.Fatalf("expected poll interval ordering error, got %v", err)
	}
}

func TestLoadArgsReadsTuningFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	doc := "open_delay: 150ms\nreentry_distance: 3\nscroll:\n  page: 5\n"
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write tuning: %v", err)
	}
	cfg, err := LoadArgs(nil, []string{"MENUTRACK_TUNING=" + path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Tuning != path {
		t.Fatalf("expected tuning path %q, got %q", path, cfg.Tuning)
	}
	p := cfg.App.Params
	if p.OpenDelay != 150*time.Millisecond || p.ReentryDistance != 3 {
		t.Fatalf("tuning not applied: %#v", p)
	}
	if p.PollInterval != tracking.DefaultParams().PollInterval {
		t.Fatalf("omitted keys should keep defaults, got %s", p.PollInterval)
	}
	if cfg.App.Scroll.Page != 5 || cfg.App.Scroll.Step != overlay.DefaultScroll().Step {
		t.Fatalf("unexpected scroll %#v", cfg.App.Scroll)
	}
}

func TestLoadTuningErrors(t *testing.T) {
	if _, err := LoadTuning(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}

	tu := DefaultTuning()
	if err := ParseTuning([]byte("poll_interval: soon\n"), &tu); err == nil {
		t.Fatalf("expected decode error")
	}

	tu = DefaultTuning()
	err := ParseTuning([]byte("poll_interval: 0s\nopen_delay: -1s\nscroll:\n  step: 0\n"), &tu)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"poll_interval must be positive", "open_delay", "scroll.step"} {
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("expected %q in %v", want, err)
		}
	}

	tu = DefaultTuning()
	if err := ParseTuning(nil, &tu); err != nil {
		t.Fatalf("empty document should keep defaults: %v", err)
	}
	if tu != DefaultTuning() {
		t.Fatalf("empty document changed tuning: %#v", tu)
	}
}
