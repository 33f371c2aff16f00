// Package campaign implements the client-side campaign flow: an idle
// call-to-action, a loading phase with a live elapsed-time counter, and a
// success view holding the returned metrics.
package campaign

import (
	"context"
	"errors"
	"sync"
	"time"

	"outreach/internal/models"
)

// State is a phase of the campaign flow.
type State string

const (
	StateInitial State = "initial"
	StateLoading State = "loading"
	StateSuccess State = "success"
)

// DefaultTickInterval is how often the elapsed counter is resampled.
const DefaultTickInterval = 100 * time.Millisecond

var (
	ErrNotIdle     = errors.New("campaign: a run is already in progress or finished")
	ErrNotFinished = errors.New("campaign: no finished run to reset")
	ErrClosed      = errors.New("campaign: closed")
)

// Trigger starts a campaign run on the server.
type Trigger interface {
	Trigger(ctx context.Context) (models.OutreachResult, error)
}

// TriggerFunc adapts a function to Trigger.
type TriggerFunc func(ctx context.Context) (models.OutreachResult, error)

// Trigger implements Trigger.
func (f TriggerFunc) Trigger(ctx context.Context) (models.OutreachResult, error) {
	return f(ctx)
}

// Notification is a user-visible error message.
type Notification struct {
	Title       string
	Description string
	Err         error
}

// Snapshot is a consistent view of the machine.
type Snapshot struct {
	State   State
	Elapsed int // whole seconds since the run started
	Result  *models.OutreachResult
}

// Option configures a Machine.
type Option func(*Machine)

// WithTickInterval sets the elapsed counter resampling interval.
func WithTickInterval(d time.Duration) Option {
	return func(m *Machine) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithClock sets the wall clock.
func WithClock(now func() time.Time) Option {
	return func(m *Machine) { m.now = now }
}

// WithObserver registers a callback invoked with a snapshot on every state
// change and every tick. It is never called with the machine lock held.
func WithObserver(fn func(Snapshot)) Option {
	return func(m *Machine) { m.observe = fn }
}

// WithNotifier registers the callback that surfaces failed runs.
func WithNotifier(fn func(Notification)) Option {
	return func(m *Machine) { m.notify = fn }
}

// Machine drives one campaign flow. Only one run may be outstanding.
type Machine struct {
	trigger  Trigger
	interval time.Duration
	now      func() time.Time
	observe  func(Snapshot)
	notify   func(Notification)

	mu        sync.Mutex
	state     State
	startedAt time.Time
	elapsed   int
	result    *models.OutreachResult
	cancel    context.CancelFunc
	run       uint64
	closed    bool
}

// New creates a machine in the initial state.
func New(trigger Trigger, opts ...Option) *Machine {
	m := &Machine{
		trigger:  trigger,
		interval: DefaultTickInterval,
		now:      time.Now,
		observe:  func(Snapshot) {},
		notify:   func(Notification) {},
		state:    StateInitial,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current state.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Start moves initial → loading, starts the elapsed ticker and issues the
// trigger in the background. The returned channel is closed once the run has
// settled into success or back into initial.
func (m *Machine) Start(ctx context.Context) (<-chan struct{}, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	if m.state != StateInitial {
		m.mu.Unlock()
		return nil, ErrNotIdle
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.run++
	gen := m.run
	m.state = StateLoading
	m.startedAt = m.now()
	m.elapsed = 0
	m.result = nil
	m.cancel = cancel
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.observe(snap)

	done := make(chan struct{})
	tickerDone := make(chan struct{})
	go m.tick(runCtx, gen, tickerDone)
	go func() {
		defer close(done)
		result, err := m.trigger.Trigger(runCtx)
		// Leaving loading: stop the ticker before the transition is visible.
		cancel()
		<-tickerDone
		m.settle(gen, result, err)
	}()

	return done, nil
}

// Reset moves success → initial, clearing the result and the elapsed time.
func (m *Machine) Reset() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if m.state != StateSuccess {
		m.mu.Unlock()
		return ErrNotFinished
	}
	m.clearLocked()
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.observe(snap)
	return nil
}

// Close cancels any in-flight run and its ticker. Responses arriving after
// Close are dropped without notification.
func (m *Machine) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	return nil
}

func (m *Machine) tick(ctx context.Context, gen uint64, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			if m.closed || gen != m.run || m.state != StateLoading {
				m.mu.Unlock()
				return
			}
			m.elapsed = m.elapsedLocked()
			snap := m.snapshotLocked()
			m.mu.Unlock()

			m.observe(snap)
		}
	}
}

func (m *Machine) settle(gen uint64, result models.OutreachResult, err error) {
	m.mu.Lock()
	if m.closed || gen != m.run || m.state != StateLoading {
		m.mu.Unlock()
		return
	}
	m.cancel = nil

	if err != nil {
		m.clearLocked()
		snap := m.snapshotLocked()
		m.mu.Unlock()

		m.notify(Notification{
			Title:       "Outreach Failed",
			Description: "Failed to trigger outreach workflow. Please try again.",
			Err:         err,
		})
		m.observe(snap)
		return
	}

	m.elapsed = m.elapsedLocked()
	m.result = &result
	m.state = StateSuccess
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.observe(snap)
}

func (m *Machine) clearLocked() {
	m.state = StateInitial
	m.startedAt = time.Time{}
	m.elapsed = 0
	m.result = nil
}

func (m *Machine) elapsedLocked() int {
	return int(m.now().Sub(m.startedAt) / time.Second)
}

func (m *Machine) snapshotLocked() Snapshot {
	snap := Snapshot{State: m.state, Elapsed: m.elapsed}
	if m.result != nil {
		r := *m.result
		snap.Result = &r
	}
	return snap
}
