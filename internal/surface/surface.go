// Package surface models the window that owns a menu: the lock serialising
// the owning application task with the tracking worker, the latest pointer
// and key input, the screen bounds and the keyboard focus owner.
package surface

import (
	"context"
	"sync"

	"github.com/atomicstack/menutrack/internal/geom"
)

// Buttons is a bit mask of pressed pointer buttons.
type Buttons uint8

const (
	ButtonPrimary Buttons = 1 << iota
	ButtonSecondary
	ButtonTertiary
)

// Key is one keyboard event in Bubble Tea key-name form ("up", "ctrl+s",
// "a").
type Key struct {
	Name  string
	Runes []rune
}

// Surface is shared between the owning task and tracking workers. Input
// setters never block on the window lock.
type Surface struct {
	lock chan struct{}

	mu         sync.Mutex
	pointer    geom.Point
	buttons    Buttons
	moves      uint64
	presses    uint64
	releases   uint64
	keys       []Key
	bounds     geom.Rect
	focus      string
	invalidate func()
}

// New creates a surface covering bounds.
func New(bounds geom.Rect) *Surface {
	return &Surface{
		lock:   make(chan struct{}, 1),
		bounds: bounds,
	}
}

// Lock acquires the window lock, giving up when ctx is done.
func (s *Surface) Lock(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LockNow acquires the window lock without a deadline. It is meant for the
// owning task.
func (s *Surface) LockNow() {
	s.lock <- struct{}{}
}

// TryLock acquires the lock if it is free.
func (s *Surface) TryLock() bool {
	select {
	case s.lock <- struct{}{}:
		return true
	default:
		return false
	}
}

// Unlock releases the window lock.
func (s *Surface) Unlock() {
	select {
	case <-s.lock:
	default:
		panic("surface: unlock of unlocked surface")
	}
}

// SetPointer records the latest pointer position and button state.
func (s *Surface) SetPointer(p geom.Point, buttons Buttons) {
	s.mu.Lock()
	if p != s.pointer {
		s.moves++
	}
	switch {
	case buttons != 0 && s.buttons == 0:
		s.presses++
	case buttons == 0 && s.buttons != 0:
		s.releases++
	}
	s.pointer = p
	s.buttons = buttons
	s.mu.Unlock()
}

// Pointer returns the latest pointer position and button state.
func (s *Surface) Pointer() (geom.Point, Buttons) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pointer, s.buttons
}

// Moves returns a counter incremented on every pointer move.
func (s *Surface) Moves() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moves
}

// Edges returns the number of press and release transitions seen so far.
// Comparing counters between polls catches clicks shorter than a poll.
func (s *Surface) Edges() (presses, releases uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presses, s.releases
}

// PushKey queues a key event for the running session.
func (s *Surface) PushKey(k Key) {
	s.mu.Lock()
	s.keys = append(s.keys, k)
	s.mu.Unlock()
}

// PopKey dequeues the oldest pending key event.
func (s *Surface) PopKey() (Key, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.keys) == 0 {
		return Key{}, false
	}
	k := s.keys[0]
	s.keys = s.keys[1:]
	return k, true
}

// DropKeys discards pending key events.
func (s *Surface) DropKeys() {
	s.mu.Lock()
	s.keys = nil
	s.mu.Unlock()
}

// Bounds returns the screen area available to overlays.
func (s *Surface) Bounds() geom.Rect {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bounds
}

// SetBounds updates the screen area, e.g. after a terminal resize.
func (s *Surface) SetBounds(bounds geom.Rect) {
	s.mu.Lock()
	s.bounds = bounds
	s.mu.Unlock()
}

// TakeFocus makes owner the keyboard focus and returns the previous owner.
func (s *Surface) TakeFocus(owner string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.focus
	s.focus = owner
	return prev
}

// RestoreFocus hands focus back to prev.
func (s *Surface) RestoreFocus(prev string) {
	s.mu.Lock()
	s.focus = prev
	s.mu.Unlock()
}

// Focus returns the current focus owner.
func (s *Surface) Focus() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// OnInvalidate registers the repaint callback.
func (s *Surface) OnInvalidate(fn func()) {
	s.mu.Lock()
	s.invalidate = fn
	s.mu.Unlock()
}

// Invalidate asks the owner to repaint.
func (s *Surface) Invalidate() {
	s.mu.Lock()
	fn := s.invalidate
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
