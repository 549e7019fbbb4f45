package main

import (
	"fmt"
	"os"

	"github.com/atomicstack/menutrack/internal/app"
	"github.com/atomicstack/menutrack/internal/config"
	"github.com/atomicstack/menutrack/internal/logging"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

func main() {
	cfg := config.MustLoad()
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(2)
	}
	logging.Configure(cfg.Logging.FilePath)
	logging.SetTraceEnabled(cfg.Logging.Trace)

	events.App.Start(startupTracePayload(cfg))
	events.App.Tuning(cfg.Tuning, nil)

	if err := app.Run(cfg.App); err != nil {
		logging.Error(err)
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// startupTracePayload bundles runtime context for trace logging.
func startupTracePayload(cfg config.Config) map[string]interface{} {
	flags := make(map[string]interface{}, len(cfg.Flags)+3)
	for k, v := range cfg.Flags {
		flags[k] = v
	}
	flags["trace"] = cfg.Logging.Trace
	flags["logFile"] = cfg.Logging.FilePath
	flags["tuning"] = cfg.Tuning

	payload := map[string]interface{}{
		"argv":   cfg.Args,
		"flags":  flags,
		"config": cfg,
		"params": cfg.App.Params,
		"scroll": cfg.App.Scroll,
		"tty":    collectTTYDetails(),
	}
	addPath(payload, "executable", os.Executable)
	addPath(payload, "cwd", os.Getwd)
	return payload
}

func addPath(payload map[string]interface{}, key string, lookup func() (string, error)) {
	if v, err := lookup(); err == nil {
		payload[key] = v
	} else {
		payload[key+"Error"] = err.Error()
	}
}

type ttyDetails struct {
	Detected *ttyProbeResult  `json:"detected,omitempty"`
	Probes   []ttyProbeResult `json:"probes"`
}

type ttyProbeResult struct {
	Name       string `json:"name"`
	IsTerminal bool   `json:"is_terminal"`
	Cygwin     bool   `json:"cygwin,omitempty"`
	Width      int    `json:"width,omitempty"`
	Height     int    `json:"height,omitempty"`
	Error      string `json:"error,omitempty"`
}

// collectTTYDetails inspects the standard descriptors. The first one that
// reports a size becomes Detected.
func collectTTYDetails() ttyDetails {
	files := []*os.File{os.Stdin, os.Stdout, os.Stderr}
	names := []string{"stdin", "stdout", "stderr"}

	details := ttyDetails{Probes: make([]ttyProbeResult, 0, len(files))}
	for i, f := range files {
		probe := probeTTY(names[i], f.Fd())
		details.Probes = append(details.Probes, probe)
		if details.Detected == nil && probe.Width > 0 {
			detected := probe
			details.Detected = &detected
		}
	}
	return details
}

func probeTTY(name string, fd uintptr) ttyProbeResult {
	probe := ttyProbeResult{Name: name, Cygwin: isatty.IsCygwinTerminal(fd)}
	if !term.IsTerminal(int(fd)) {
		return probe
	}
	probe.IsTerminal = true
	w, h, err := term.GetSize(int(fd))
	if err != nil {
		probe.Error = err.Error()
		return probe
	}
	probe.Width, probe.Height = w, h
	return probe
}
