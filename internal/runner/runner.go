// Package runner executes root tracking sessions on worker goroutines and
// hands the outcome back to the caller, either by waiting (Go) or through
// an invocation sink (Start).
package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/atomicstack/menutrack/internal/invoke"
	"github.com/atomicstack/menutrack/internal/logging"
	"github.com/atomicstack/menutrack/internal/logging/events"
	"github.com/atomicstack/menutrack/internal/menu"
	"github.com/atomicstack/menutrack/internal/metrics"
	"github.com/atomicstack/menutrack/internal/overlay"
	"github.com/atomicstack/menutrack/internal/tracking"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrAlreadyTracking is returned when a root menu already has a worker.
	// The request is dropped, not queued.
	ErrAlreadyTracking = errors.New("runner: menu is already tracking")
	// ErrResourceExhausted is returned when MaxSessions workers are running.
	ErrResourceExhausted = errors.New("runner: tracking capacity exhausted")
	// ErrShutdown is returned after Shutdown.
	ErrShutdown = errors.New("runner: shut down")
)

const (
	defaultMaxSessions = 4
	defaultPump        = 20 * time.Millisecond
)

// Options configures a Runner.
type Options struct {
	Env  tracking.Env
	Sink invoke.Sink
	// MaxSessions caps concurrently running root sessions.
	MaxSessions int64
	// PumpInterval is how often Go calls its pump callback while waiting.
	PumpInterval time.Duration
}

// Runner owns the tracking workers of an application.
type Runner struct {
	env      tracking.Env
	sink     invoke.Sink
	metrics  *metrics.Metrics
	capacity *semaphore.Weighted
	pump     time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	gates   map[*menu.Menu]*semaphore.Weighted
	workers map[*menu.Menu]*worker
	closed  bool
}

type worker struct {
	root      *menu.Menu
	gate      *semaphore.Weighted
	cancel    context.CancelFunc
	done      chan struct{}
	finishing atomic.Bool
	result    tracking.Result
	err       error
}

// New creates a runner. Env.Overlays and Env.Metrics are filled in when
// missing so every session of the runner shares them.
func New(opts Options) *Runner {
	env := opts.Env
	if env.Metrics == nil {
		env.Metrics = metrics.Discard()
	}
	if env.Overlays == nil {
		env.Overlays = overlay.NewManager(overlay.Options{Metrics: env.Metrics, Bounds: env.Surface.Bounds})
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = defaultMaxSessions
	}
	if opts.PumpInterval <= 0 {
		opts.PumpInterval = defaultPump
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		env:      env,
		sink:     opts.Sink,
		metrics:  env.Metrics,
		capacity: semaphore.NewWeighted(opts.MaxSessions),
		pump:     opts.PumpInterval,
		ctx:      ctx,
		cancel:   cancel,
		gates:    make(map[*menu.Menu]*semaphore.Weighted),
		workers:  make(map[*menu.Menu]*worker),
	}
}

// Overlays returns the manager shared by every session.
func (r *Runner) Overlays() *overlay.Manager { return r.env.Overlays }

// Start runs a session for root in the background and returns at once.
// The chosen item, if any, is delivered to the sink after teardown. A menu
// that cannot be tracked is reported here, not through the sink.
func (r *Runner) Start(root *menu.Menu, opts tracking.Options) error {
	_, err := r.spawn(root, opts, true)
	return err
}

// Go runs a session for root and waits for it, calling pump on every tick
// so the caller can keep its own work flowing. The item is returned, not
// delivered.
func (r *Runner) Go(root *menu.Menu, opts tracking.Options, pump func()) (tracking.Result, error) {
	w, err := r.spawn(root, opts, false)
	if err != nil {
		return tracking.Result{Kind: tracking.Cancelled}, err
	}
	ticker := time.NewTicker(r.pump)
	defer ticker.Stop()
	for {
		select {
		case <-w.done:
			return w.result, w.err
		case <-ticker.C:
			if pump != nil {
				pump()
			}
		}
	}
}

// Active reports whether root has a running worker.
func (r *Runner) Active(root *menu.Menu) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.workers[root]
	return ok
}

// Running returns the number of running workers.
func (r *Runner) Running() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workers)
}

// Destroy cancels the worker tracking root and waits for it to exit. It is
// installed as the teardown hook of every menu in a tracked tree, so
// destroying any of them closes the chain first.
func (r *Runner) Destroy(root *menu.Menu) {
	r.mu.Lock()
	w := r.workers[root]
	r.mu.Unlock()
	if w == nil {
		return
	}
	events.Runner.Cancel(root.ID)
	w.cancel()
	<-w.done
}

// Shutdown cancels every worker and waits for all of them.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	r.cancel()
	r.wg.Wait()
}

func (r *Runner) spawn(root *menu.Menu, opts tracking.Options, deliver bool) (*worker, error) {
	r.awaitUnwinding(root)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, ErrShutdown
	}
	r.mu.Unlock()
	if err := tracking.Check(root); err != nil {
		r.drop(root, events.RunnerReasonRejected)
		return nil, fmt.Errorf("runner %s: %w", root.ID, err)
	}

	r.mu.Lock()
	gate, ok := r.gates[root]
	if !ok {
		gate = semaphore.NewWeighted(1)
		r.gates[root] = gate
	}
	r.mu.Unlock()

	if !gate.TryAcquire(1) {
		r.drop(root, events.RunnerReasonBusy)
		return nil, menu.AssertTopology(fmt.Errorf("%w: %s", ErrAlreadyTracking, root.ID))
	}
	if !r.capacity.TryAcquire(1) {
		gate.Release(1)
		r.drop(root, events.RunnerReasonExhausted)
		return nil, ErrResourceExhausted
	}

	ctx, cancel := context.WithCancel(r.ctx)
	w := &worker{root: root, gate: gate, cancel: cancel, done: make(chan struct{})}
	r.mu.Lock()
	r.workers[root] = w
	r.mu.Unlock()

	root.Walk(func(m *menu.Menu) bool {
		m.SetTeardown(func() { r.Destroy(root) })
		return true
	})

	mode := "sync"
	if deliver {
		mode = "async"
	}
	events.Runner.Start(root.ID, mode)
	r.metrics.Workers.Inc()
	r.wg.Add(1)
	go r.run(ctx, w, opts, deliver)
	return w, nil
}

// awaitUnwinding waits for a worker of root that already finished its
// session but has not released its slot yet.
func (r *Runner) awaitUnwinding(root *menu.Menu) {
	r.mu.Lock()
	w := r.workers[root]
	r.mu.Unlock()
	if w != nil && w.finishing.Load() {
		<-w.done
	}
}

func (r *Runner) run(ctx context.Context, w *worker, opts tracking.Options, deliver bool) {
	defer r.wg.Done()
	res, err := tracking.Track(ctx, r.env, w.root, opts)
	w.finishing.Store(true)
	if err != nil {
		logging.Error(fmt.Errorf("runner %s: %w", w.root.ID, err))
		r.drop(w.root, events.RunnerReasonRejected)
	}
	events.Runner.Exit(w.root.ID, res.Kind.String())
	r.metrics.Outcomes.WithLabelValues(res.Kind.String()).Inc()
	w.result = res
	w.err = err

	r.mu.Lock()
	if r.workers[w.root] == w {
		delete(r.workers, w.root)
	}
	r.mu.Unlock()
	w.cancel()
	r.capacity.Release(1)
	w.gate.Release(1)
	r.metrics.Workers.Dec()
	close(w.done)

	if deliver && res.Kind == tracking.Chosen && res.Item != nil && r.sink != nil {
		r.metrics.Deliveries.Inc()
		events.Runner.Deliver(w.root.ID, res.Item.ID)
		r.sink.Deliver(res.Item)
	}
}

func (r *Runner) drop(root *menu.Menu, reason events.RunnerReason) {
	r.metrics.Drops.WithLabelValues(string(reason)).Inc()
	events.Runner.Drop(root.ID, reason)
}
