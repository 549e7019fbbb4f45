package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/atomicstack/menutrack/internal/app"
)

// Config captures runtime configuration for the application.
type Config struct {
	App     app.Config
	Logging Logging
	Tuning  string
	Flags   map[string]string
	Args    []string
}

type Logging struct {
	FilePath string
	Trace    bool
}

const (
	envWidth       = "MENUTRACK_WIDTH"
	envHeight      = "MENUTRACK_HEIGHT"
	envShowFooter  = "MENUTRACK_FOOTER"
	envTrace       = "MENUTRACK_TRACE"
	envLogFile     = "MENUTRACK_LOG_FILE"
	envTuning      = "MENUTRACK_TUNING"
	envMetricsAddr = "MENUTRACK_METRICS_ADDR"
	envMaxSessions = "MENUTRACK_MAX_SESSIONS"

	defaultMaxSessions = 4
)

// Load parses configuration from CLI arguments and environment variables.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:], os.Environ())
}

// LoadArgs allows tests to supply specific args/environment.
func LoadArgs(args []string, environ []string) (Config, error) {
	env := parseEnv(environ)

	fs := flag.NewFlagSet("menutrack", flag.ContinueOnError)
	fs.SetOutput(new(strings.Builder))

	width := fs.Int("width", envOrInt(env, envWidth, 0), "fixed screen width in cells (0 follows the terminal)")
	height := fs.Int("height", envOrInt(env, envHeight, 0), "fixed screen height in rows (0 follows the terminal)")
	footer := fs.Bool("footer", envOrBool(env, envShowFooter, false), "show key binding hints on the last row")
	trace := fs.Bool("trace", envOrBool(env, envTrace, false), "enable verbose JSON trace logging")
	logFile := fs.String("log-file", envOrDefault(env, envLogFile, ""), "path to the log file")
	tuning := fs.String("tuning", envOrDefault(env, envTuning, ""), "YAML file with tracking and scrolling tunables")
	metricsAddr := fs.String("metrics-addr", envOrDefault(env, envMetricsAddr, ""), "serve Prometheus metrics on this address")
	maxSessions := fs.Int("max-sessions", envOrInt(env, envMaxSessions, defaultMaxSessions), "maximum concurrently tracked menus")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *width < 0 {
		return Config{}, fmt.Errorf("width must be >= 0 (got %d)", *width)
	}
	if *height < 0 {
		return Config{}, fmt.Errorf("height must be >= 0 (got %d)", *height)
	}

	t, err := LoadTuning(*tuning)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		App: app.Config{
			Width:       *width,
			Height:      *height,
			ShowFooter:  *footer,
			MaxSessions: int64(*maxSessions),
			MetricsAddr: *metricsAddr,
			Params:      t.Params(),
			Scroll:      t.ScrollConfig(),
		},
		Logging: Logging{
			FilePath: *logFile,
			Trace:    *trace,
		},
		Tuning: *tuning,
		Flags: map[string]string{
			"width":       strconv.Itoa(*width),
			"height":      strconv.Itoa(*height),
			"footer":      strconv.FormatBool(*footer),
			"trace":       strconv.FormatBool(*trace),
			"logFile":     *logFile,
			"tuning":      *tuning,
			"metricsAddr": *metricsAddr,
			"maxSessions": strconv.Itoa(*maxSessions),
		},
		Args: append([]string(nil), args...),
	}

	return cfg, nil
}

func parseEnv(environ []string) map[string]string {
	values := make(map[string]string, len(environ))
	for _, entry := range environ {
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, "=", 2)
		if len(parts) != 2 {
			continue
		}
		values[parts[0]] = parts[1]
	}
	return values
}

func envOrDefault(env map[string]string, key, fallback string) string {
	if v, ok := env[key]; ok {
		return v
	}
	return fallback
}

func envOrInt(env map[string]string, key string, fallback int) int {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return parsed
}

func envOrBool(env map[string]string, key string, fallback bool) bool {
	v, ok := env[key]
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return parsed
}

// MustLoad returns configuration or exits.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	return cfg
}

// Validate checks values that flag parsing cannot.
func Validate(cfg Config) error {
	var errs []error
	if cfg.App.MaxSessions < 1 {
		errs = append(errs, fmt.Errorf("max-sessions must be >= 1 (got %d)", cfg.App.MaxSessions))
	}
	if addr := cfg.App.MetricsAddr; addr != "" {
		if _, _, err := net.SplitHostPort(addr); err != nil {
			errs = append(errs, fmt.Errorf("metrics-addr %q: %w", addr, err))
		}
	}
	p := cfg.App.Params
	if p.PollIntervalMoving > p.PollInterval {
		errs = append(errs, fmt.Errorf("poll_interval_moving (%s) must not exceed poll_interval (%s)", p.PollIntervalMoving, p.PollInterval))
	}
	return errors.Join(errs...)
}
