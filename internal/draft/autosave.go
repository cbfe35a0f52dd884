package draft

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/rezonia/invoice-composer/internal/logger"
	"github.com/rezonia/invoice-composer/internal/metrics"
	"github.com/rezonia/invoice-composer/internal/model"
)

// DefaultDelay is the quiet period after the last edit before a save fires
const DefaultDelay = 2 * time.Second

// Autosaver saves the current snapshot once edits stop arriving. Each Touch
// cancels the pending save and schedules a new one.
type Autosaver struct {
	store   Store
	capture func() model.Snapshot
	delay   time.Duration
	clock   clockwork.Clock
	metrics *metrics.Metrics
	log     *zap.Logger

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64
	cancels uint64
	pending bool
	stopped bool

	saveMu sync.Mutex
}

// AutosaveOption configures an Autosaver
type AutosaveOption func(*Autosaver)

// WithDelay sets the quiet period
func WithDelay(d time.Duration) AutosaveOption {
	return func(a *Autosaver) {
		if d > 0 {
			a.delay = d
		}
	}
}

// WithClock sets the clock driving the timer
func WithClock(clock clockwork.Clock) AutosaveOption {
	return func(a *Autosaver) {
		a.clock = clock
	}
}

// WithMetrics records save results
func WithMetrics(m *metrics.Metrics) AutosaveOption {
	return func(a *Autosaver) {
		a.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(log *zap.Logger) AutosaveOption {
	return func(a *Autosaver) {
		a.log = log
	}
}

// NewAutosaver creates an autosaver writing capture() to store. capture is
// called without any autosaver lock held.
func NewAutosaver(store Store, capture func() model.Snapshot, opts ...AutosaveOption) *Autosaver {
	a := &Autosaver{
		store:   store,
		capture: capture,
		delay:   DefaultDelay,
		clock:   clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logger.OrNop(a.log).Named("autosave")
	return a
}

// Touch records an edit and (re)starts the quiet period
func (a *Autosaver) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.pending = true
	a.timer = a.clock.AfterFunc(a.delay, func() { a.fire(gen) })
}

// Pending reports whether a save is scheduled
func (a *Autosaver) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.pending
}

func (a *Autosaver) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || !a.pending || a.stopped {
		a.mu.Unlock()
		return
	}
	a.pending = false
	a.timer = nil
	cancels := a.cancels
	a.mu.Unlock()

	_ = a.save(context.Background(), cancels)
}

// Flush saves immediately if a save is pending
func (a *Autosaver) Flush(ctx context.Context) error {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	pending := a.pending
	a.pending = false
	a.gen++
	cancels := a.cancels
	a.mu.Unlock()

	if !pending {
		return nil
	}
	return a.save(ctx, cancels)
}

// Cancel drops the pending save without writing. A save already writing is
// waited for, so nothing reaches the store after Cancel returns.
func (a *Autosaver) Cancel() {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.pending = false
	a.gen++
	a.cancels++
	a.mu.Unlock()

	a.saveMu.Lock()
	defer a.saveMu.Unlock()
}

// Stop cancels the pending save and ignores later touches
func (a *Autosaver) Stop() {
	a.Cancel()
	a.mu.Lock()
	a.stopped = true
	a.mu.Unlock()
}

// save writes the snapshot unless Cancel ran after the save was started
func (a *Autosaver) save(ctx context.Context, cancels uint64) error {
	a.saveMu.Lock()
	defer a.saveMu.Unlock()

	a.mu.Lock()
	cancelled := a.cancels != cancels
	a.mu.Unlock()
	if cancelled {
		return nil
	}

	err := SaveSnapshot(ctx, a.store, a.capture())
	a.metrics.ObserveAutosave(err)
	if err != nil {
		a.log.Warn("draft save failed", zap.Error(err))
		return err
	}
	a.log.Debug("draft saved")
	return nil
}
