package main

import (
	"os"
	"testing"

	"github.com/atomicstack/menutrack/internal/app"
	"github.com/atomicstack/menutrack/internal/config"
)

func TestCollectTTYDetailsIncludesStandardDescriptors(t *testing.T) {
	info := collectTTYDetails()
	if len(info.Probes) != 3 {
		t.Fatalf("expected 3 probe entries, got %d", len(info.Probes))
	}
	expected := []string{"stdin", "stdout", "stderr"}
	for i, name := range expected {
		if info.Probes[i].Name != name {
			t.Fatalf("expected probe %d name %q, got %q", i, name, info.Probes[i].Name)
		}
	}
}

func TestStartupTracePayloadIncludesFlags(t *testing.T) {
	cfg := config.Config{
		App: app.Config{
			Width:       80,
			Height:      24,
			ShowFooter:  true,
			MaxSessions: 4,
		},
		Logging: config.Logging{
			FilePath: "trace.log",
			Trace:    true,
		},
		Tuning: "tuning.yaml",
		Flags: map[string]string{
			"width":       "80",
			"height":      "24",
			"footer":      "true",
			"maxSessions": "4",
		},
		Args: []string{"--width", "80"},
	}

	payload := startupTracePayload(cfg)

	flagsValue, ok := payload["flags"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected flags map in payload")
	}
	if flagsValue["width"] != "80" {
		t.Fatalf("expected width 80, got %v", flagsValue["width"])
	}
	if flagsValue["height"] != "24" {
		t.Fatalf("expected height 24, got %v", flagsValue["height"])
	}
	if flagsValue["footer"] != "true" {
		t.Fatalf("expected footer flag true, got %v", flagsValue["footer"])
	}
	if flagsValue["trace"] != true {
		t.Fatalf("expected trace flag true, got %v", flagsValue["trace"])
	}
	if flagsValue["maxSessions"] != "4" {
		t.Fatalf("expected maxSessions 4, got %v", flagsValue["maxSessions"])
	}
	if flagsValue["tuning"] != "tuning.yaml" {
		t.Fatalf("expected tuning path, got %v", flagsValue["tuning"])
	}
	if flagsValue["logFile"] != "trace.log" {
		t.Fatalf("expected log file trace.log, got %v", flagsValue["logFile"])
	}

	if _, ok := payload["tty"].(ttyDetails); !ok {
		t.Fatalf("expected tty details in payload")
	}
	if cfgValue, ok := payload["config"].(config.Config); !ok {
		t.Fatalf("expected config in payload")
	} else if cfgValue.App != cfg.App {
		t.Fatalf("expected app config %#v, got %#v", cfg.App, cfgValue.App)
	}
}

func TestProbeTTYReportsPipesAsNonTerminals(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	defer r.Close()
	defer w.Close()

	probe := probeTTY("pipe", r.Fd())
	if probe.IsTerminal || probe.Width != 0 || probe.Error != "" {
		t.Fatalf("unexpected probe for pipe: %#v", probe)
	}
	if probe.Name != "pipe" {
		t.Fatalf("expected probe name pipe, got %q", probe.Name)
	}
}
