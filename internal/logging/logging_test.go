package logging

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func readEntries(t *testing.T, path string) []entry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()
	var out []entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e entry
		if err := json.Unmarshal(scanner.Bytes(), &e); err != nil {
			t.Fatalf("malformed line %q: %v", scanner.Text(), err)
		}
		out = append(out, e)
	}
	return out
}

func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "menutrack.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})
	return path
}

func TestConfigureCreatesDirectory(t *testing.T) {
	path := useTempLog(t)
	if Path() != path {
		t.Fatalf("expected path %q, got %q", path, Path())
	}
	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Fatalf("expected log directory: %v", err)
	}
	Configure("  ")
	if Path() != defaultLogFile {
		t.Fatalf("expected default path, got %q", Path())
	}
}

func TestTraceRespectsToggle(t *testing.T) {
	path := useTempLog(t)
	Trace("ignored", nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file while tracing is off, got %v", err)
	}

	SetTraceEnabled(true)
	Trace("menu.open", map[string]interface{}{"menu": "file"})
	Error(errors.New("boom"))
	Error(nil)

	entries := readEntries(t, path)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Event != "menu.open" || entries[0].Level != "trace" {
		t.Fatalf("unexpected trace entry %#v", entries[0])
	}
	if entries[1].Error != "boom" || entries[1].Level != "error" {
		t.Fatalf("unexpected error entry %#v", entries[1])
	}
	for _, e := range entries {
		if e.Run != RunID() {
			t.Fatalf("expected run id %q, got %q", RunID(), e.Run)
		}
	}
}

func TestConcurrentWritesStayLineDelimited(t *testing.T) {
	path := useTempLog(t)
	SetTraceEnabled(true)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 25; j++ {
				Trace("worker", map[string]int{"worker": i, "step": j})
			}
		}(i)
	}
	wg.Wait()

	if got := len(readEntries(t, path)); got != 200 {
		t.Fatalf("expected 200 entries, got %d", got)
	}
}
