package tracking

import (
	"context"
	"time"
)

// Params are the timing and distance tunables of a tracking session.
type Params struct {
	// PollInterval is the sleep between iterations while the pointer rests.
	PollInterval time.Duration
	// PollIntervalMoving is used while the pointer moves or auto-scrolls.
	PollIntervalMoving time.Duration
	// OpenDelay defers opening a hovered submenu. Zero opens immediately.
	// Keyboard opens ignore it.
	OpenDelay time.Duration
	// NavigationTimeout bounds how long the diagonal navigation area
	// suppresses hit testing.
	NavigationTimeout time.Duration
	// ReentryDistance and ReentryWindow decide when a release close to the
	// hot rectangle revives the session as sticky instead of closing it.
	ReentryDistance int
	ReentryWindow   time.Duration
	// TypeAheadTimeout resets the type-ahead query after a pause.
	TypeAheadTimeout time.Duration
}

// DefaultParams returns the stock tuning.
func DefaultParams() Params {
	return Params{
		PollInterval:       30 * time.Millisecond,
		PollIntervalMoving: 10 * time.Millisecond,
		NavigationTimeout:  time.Second,
		ReentryDistance:    1,
		ReentryWindow:      800 * time.Millisecond,
		TypeAheadTimeout:   time.Second,
	}
}

func (p Params) withDefaults() Params {
	def := DefaultParams()
	if p.PollInterval <= 0 {
		p.PollInterval = def.PollInterval
	}
	if p.PollIntervalMoving <= 0 {
		p.PollIntervalMoving = min(def.PollIntervalMoving, p.PollInterval)
	}
	if p.NavigationTimeout <= 0 {
		p.NavigationTimeout = def.NavigationTimeout
	}
	if p.ReentryDistance < 0 {
		p.ReentryDistance = 0
	}
	if p.ReentryWindow <= 0 {
		p.ReentryWindow = def.ReentryWindow
	}
	if p.TypeAheadTimeout <= 0 {
		p.TypeAheadTimeout = def.TypeAheadTimeout
	}
	return p
}

// Clock supplies time to the poll loop.
type Clock interface {
	Now() time.Time
	// Sleep waits for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
