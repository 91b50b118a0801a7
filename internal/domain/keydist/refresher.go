package keydist

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/atomic"

	"github.com/trustplane/trustplane/internal/domain/trust"
	"github.com/trustplane/trustplane/internal/ports"
)

// Refresher errors.
var (
	ErrNoLoader       = errors.New("refresher requires a bundle loader")
	ErrNoUpdater      = errors.New("refresher requires an updater")
	ErrAlreadyStarted = errors.New("refresher already started")
)

// State is the lifecycle state of a refresher.
type State string

// Refresher states.
const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateStopped   State = "stopped"
	StateCancelled State = "cancelled"
)

// SleepFunc pauses between refresh iterations. It returns the context's
// error when cancelled mid-pause.
type SleepFunc func(ctx context.Context, d time.Duration) error

// RefresherConfig configures a refresher.
type RefresherConfig struct {
	Loader  BundleLoader
	Updater Updater

	// Interval between refresh iterations.
	Interval time.Duration

	// MaxIterations bounds the loop; 0 runs until cancelled.
	MaxIterations int

	// LoadRetries bounds in-iteration retries of a failed LoadBundle
	// before the iteration gives up and waits for the next tick.
	LoadRetries uint64

	// Sleep overrides the inter-iteration pause, for deterministic tests.
	Sleep SleepFunc

	Logger ports.Logger
}

// DefaultInterval is used when no interval is configured.
const DefaultInterval = 15 * time.Minute

// Refresher periodically pulls a signing-key bundle and applies it into the
// trust store. It is best-effort and eventually consistent: a failed load
// or apply within one iteration is logged and absorbed, and the next
// scheduled iteration retries.
type Refresher struct {
	config  RefresherConfig
	state   atomic.String
	started atomic.Bool
}

// NewRefresher validates the configuration and creates a refresher in the
// idle state.
func NewRefresher(config RefresherConfig) (*Refresher, error) {
	if config.Loader == nil {
		return nil, ErrNoLoader
	}
	if config.Updater == nil {
		return nil, ErrNoUpdater
	}
	if config.Interval <= 0 {
		config.Interval = DefaultInterval
	}
	if config.Sleep == nil {
		config.Sleep = sleepWithContext
	}
	if config.Logger == nil {
		config.Logger = ports.NewNopLogger()
	}

	r := &Refresher{config: config}
	r.state.Store(string(StateIdle))
	return r, nil
}

// State returns the current lifecycle state.
func (r *Refresher) State() State {
	return State(r.state.Load())
}

// Handle tracks a running refresher loop.
type Handle struct {
	done       chan struct{}
	cancel     context.CancelFunc
	refresher  *Refresher
	iterations atomic.Int64
	err        error
}

// Done is closed when the loop has terminated.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err reports why the loop terminated: nil after a normal stop, the
// context's error after cancellation. Only valid once Done is closed.
func (h *Handle) Err() error {
	return h.err
}

// Iterations returns the number of completed iterations.
func (h *Handle) Iterations() int64 {
	return h.iterations.Load()
}

// State returns the refresher's lifecycle state.
func (h *Handle) State() State {
	return h.refresher.State()
}

// Stop cancels the loop. It does not wait; use Done or Wait.
func (h *Handle) Stop() {
	h.cancel()
}

// Wait blocks until the loop terminates and returns Err.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Start launches the refresh loop and returns a handle to it. A refresher
// can be started once.
func (r *Refresher) Start(ctx context.Context) (*Handle, error) {
	if !r.started.CompareAndSwap(false, true) {
		return nil, ErrAlreadyStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	h := &Handle{
		done:      make(chan struct{}),
		cancel:    cancel,
		refresher: r,
	}
	r.state.Store(string(StateRunning))
	go r.run(ctx, h)
	return h, nil
}

func (r *Refresher) run(ctx context.Context, h *Handle) {
	defer close(h.done)
	defer h.cancel()

	for iteration := 0; ; {
		if err := ctx.Err(); err != nil {
			r.finish(h, StateCancelled, err)
			return
		}

		r.refreshOnce(ctx)

		iteration++
		h.iterations.Store(int64(iteration))

		if r.config.MaxIterations > 0 && iteration >= r.config.MaxIterations {
			r.finish(h, StateStopped, nil)
			return
		}

		if err := r.config.Sleep(ctx, r.config.Interval); err != nil {
			r.finish(h, StateCancelled, err)
			return
		}
	}
}

// refreshOnce runs a single load+apply iteration. Failures are logged and
// absorbed so the loop keeps its schedule.
func (r *Refresher) refreshOnce(ctx context.Context) {
	bundle, err := r.load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		r.config.Logger.Warn(ctx, "key bundle load failed", ports.F("error", err.Error()))
		return
	}

	if err := r.config.Updater.Apply(ctx, bundle); err != nil {
		if ctx.Err() != nil {
			return
		}
		r.config.Logger.Warn(ctx, "key bundle apply failed", ports.F("error", err.Error()))
		return
	}

	r.config.Logger.Debug(ctx, "key bundle applied", ports.F("keys", len(bundle.Keys)))
}

// load fetches a bundle, retrying transient failures with exponential
// backoff up to LoadRetries extra attempts.
func (r *Refresher) load(ctx context.Context) (trust.KeyBundle, error) {
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.config.LoadRetries), ctx)

	var bundle trust.KeyBundle
	operation := func() error {
		b, err := r.config.Loader.LoadBundle(ctx)
		if err != nil {
			return err
		}
		bundle = b
		return nil
	}

	if err := backoff.Retry(operation, policy); err != nil {
		return trust.KeyBundle{}, err
	}
	return bundle, nil
}

func (r *Refresher) finish(h *Handle, state State, err error) {
	h.err = err
	r.state.Store(string(state))
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
