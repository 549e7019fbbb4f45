package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/atomicstack/menutrack/internal/overlay"
	"github.com/atomicstack/menutrack/internal/tracking"
	"gopkg.in/yaml.v3"
)

// Tuning is the on-disk form of the tracking and scrolling tunables.
// Durations use Go syntax ("30ms"). Keys left out keep their defaults.
type Tuning struct {
	PollInterval       time.Duration `yaml:"poll_interval"`
	PollIntervalMoving time.Duration `yaml:"poll_interval_moving"`
	OpenDelay          time.Duration `yaml:"open_delay"`
	NavigationTimeout  time.Duration `yaml:"navigation_timeout"`
	ReentryDistance    int           `yaml:"reentry_distance"`
	ReentryWindow      time.Duration `yaml:"reentry_window"`
	TypeAheadTimeout   time.Duration `yaml:"type_ahead_timeout"`
	Scroll             ScrollTuning  `yaml:"scroll"`
}

type ScrollTuning struct {
	Step   int           `yaml:"step"`
	Page   int           `yaml:"page"`
	Repeat time.Duration `yaml:"repeat"`
}

// DefaultTuning mirrors tracking.DefaultParams and overlay.DefaultScroll.
func DefaultTuning() Tuning {
	p := tracking.DefaultParams()
	s := overlay.DefaultScroll()
	return Tuning{
		PollInterval:       p.PollInterval,
		PollIntervalMoving: p.PollIntervalMoving,
		OpenDelay:          p.OpenDelay,
		NavigationTimeout:  p.NavigationTimeout,
		ReentryDistance:    p.ReentryDistance,
		ReentryWindow:      p.ReentryWindow,
		TypeAheadTimeout:   p.TypeAheadTimeout,
		Scroll:             ScrollTuning{Step: s.Step, Page: s.Page, Repeat: s.Repeat},
	}
}

// LoadTuning reads path over the defaults. An empty path yields the
// defaults.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	if err := ParseTuning(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("tuning %s: %w", path, err)
	}
	return t, nil
}

// ParseTuning decodes YAML into t, keeping fields the document omits.
func ParseTuning(data []byte, t *Tuning) error {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return err
	}
	if len(doc.Content) == 0 {
		return nil
	}
	if err := doc.Content[0].Decode(t); err != nil {
		return err
	}
	return t.validate()
}

func (t Tuning) validate() error {
	var errs []error
	positive := map[string]time.Duration{
		"poll_interval":        t.PollInterval,
		"poll_interval_moving": t.PollIntervalMoving,
		"navigation_timeout":   t.NavigationTimeout,
		"reentry_window":       t.ReentryWindow,
		"type_ahead_timeout":   t.TypeAheadTimeout,
		"scroll.repeat":        t.Scroll.Repeat,
	}
	for _, name := range []string{"poll_interval", "poll_interval_moving", "navigation_timeout", "reentry_window", "type_ahead_timeout", "scroll.repeat"} {
		if positive[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive (got %s)", name, positive[name]))
		}
	}
	if t.OpenDelay < 0 {
		errs = append(errs, fmt.Errorf("open_delay must be >= 0 (got %s)", t.OpenDelay))
	}
	if t.ReentryDistance < 0 {
		errs = append(errs, fmt.Errorf("reentry_distance must be >= 0 (got %d)", t.ReentryDistance))
	}
	if t.Scroll.Step < 1 {
		errs = append(errs, fmt.Errorf("scroll.step must be >= 1 (got %d)", t.Scroll.Step))
	}
	if t.Scroll.Page < 0 {
		errs = append(errs, fmt.Errorf("scroll.page must be >= 0 (got %d)", t.Scroll.Page))
	}
	return errors.Join(errs...)
}

// Params converts the tunables for tracking sessions.
func (t Tuning) Params() tracking.Params {
	return tracking.Params{
		PollInterval:       t.PollInterval,
		PollIntervalMoving: t.PollIntervalMoving,
		OpenDelay:          t.OpenDelay,
		NavigationTimeout:  t.NavigationTimeout,
		ReentryDistance:    t.ReentryDistance,
		ReentryWindow:      t.ReentryWindow,
		TypeAheadTimeout:   t.TypeAheadTimeout,
	}
}

// ScrollConfig converts the scrolling tunables for overlays.
func (t Tuning) ScrollConfig() overlay.ScrollConfig {
	return overlay.ScrollConfig{Step: t.Scroll.Step, Page: t.Scroll.Page, Repeat: t.Scroll.Repeat}
}
