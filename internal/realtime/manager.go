// Package realtime wraps the external push channels (seat-availability feed,
// order-events broker, the experimental live audio feed) behind a small
// reconnect state machine with bounded, jittered retries. Each wrapper owns
// at most one pending retry timer; stopping a wrapper cancels it and no retry
// ever fires afterwards.
package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Channel is one underlying connection. Connect blocks until the connection
// is established and returns a channel that yields exactly one error when the
// connection later drops. Close tears the connection down.
type Channel interface {
	Name() string
	Connect(ctx context.Context) (<-chan error, error)
	Close() error
}

type State string

const (
	StateIdle       State = "idle"
	StateConnecting State = "connecting"
	StateConnected  State = "connected"
	StateFailed     State = "failed"
	StateStopped    State = "stopped"
)

type ManagerConfig struct {
	Enabled     bool
	MaxAttempts int
	Backoff     Backoff
	Logger      *slog.Logger
	Sink        Sink
}

// Manager drives one Channel through
// idle -> connecting -> {connected | failed} -> retry -> ... -> stopped.
// After MaxAttempts consecutive failures it stops for good and emits a single
// notification; recovery then requires a restart.
type Manager struct {
	mu       sync.Mutex
	channel  Channel
	logger   *slog.Logger
	notifier *Notifier

	enabled     bool
	maxAttempts int
	backoff     Backoff

	state   State
	attempt int
	timer   *time.Timer
	cancel  context.CancelFunc
}

func NewManager(channel Channel, cfg ManagerConfig) *Manager {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	sink := cfg.Sink
	if sink == nil {
		sink = SinkFunc(func(Severity, string) {})
	}

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 5
	}

	backoff := cfg.Backoff
	if backoff.Base <= 0 {
		backoff.Base = time.Second
	}
	if backoff.Max <= 0 {
		backoff.Max = 30 * time.Second
	}

	return &Manager{
		channel:     channel,
		logger:      logger.With("channel", channel.Name()),
		notifier:    NewNotifier(sink),
		enabled:     cfg.Enabled,
		maxAttempts: maxAttempts,
		backoff:     backoff,
		state:       StateIdle,
	}
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.state
}

// Start begins connecting. It is a no-op when the capability is disabled by
// configuration or the manager has already started or stopped.
func (m *Manager) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		m.logger.Info("channel disabled by configuration, not starting")
		return
	}

	if m.state != StateIdle {
		return
	}

	var ctx context.Context
	ctx, m.cancel = context.WithCancel(context.Background())
	m.state = StateConnecting

	go m.connect(ctx)
}

// Stop tears down the connection, cancels any pending retry, and moves to
// the terminal stopped state. Safe to call from any state, any number of
// times; no retry fires after Stop returns.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateStopped {
		return
	}

	m.state = StateStopped
	m.stopTimerLocked()

	if m.cancel != nil {
		m.cancel()
	}

	if err := m.channel.Close(); err != nil {
		m.logger.Debug("error closing channel", "error", err)
	}

	m.logger.Info("channel stopped")
}

// Kick requests an immediate retry, used when an external connectivity
// signal arrives (network back online, tab visible). Only a failed manager
// reacts; the retry reuses the current attempt count, so it does not consume
// extra exponent growth.
func (m *Manager) Kick() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateFailed {
		return
	}

	m.stopTimerLocked()
	m.state = StateConnecting

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	go m.connect(ctx)
}

func (m *Manager) connect(ctx context.Context) {
	closed, err := m.channel.Connect(ctx)
	if err != nil {
		m.onFailure(err)
		return
	}

	m.mu.Lock()
	if m.state == StateStopped {
		m.mu.Unlock()
		m.channel.Close()
		return
	}

	m.state = StateConnected
	m.attempt = 0
	m.mu.Unlock()

	m.logger.Info("channel connected")
	m.notifier.Success(fmt.Sprintf("%s reconnected", m.channel.Name()))

	select {
	case err, ok := <-closed:
		if !ok {
			err = fmt.Errorf("connection closed")
		}
		m.onFailure(err)
	case <-ctx.Done():
	}
}

func (m *Manager) onFailure(err error) {
	m.mu.Lock()

	if m.state == StateStopped {
		m.mu.Unlock()
		return
	}

	m.attempt++
	m.logger.Warn("channel connection failed", "error", err, "attempt", m.attempt)

	if m.attempt >= m.maxAttempts {
		m.state = StateStopped
		m.stopTimerLocked()
		if m.cancel != nil {
			m.cancel()
		}
		name := m.channel.Name()
		m.mu.Unlock()

		m.channel.Close()
		m.logger.Error("channel gave up after repeated failures", "attempts", m.maxAttempts)
		m.notifier.Stopped(fmt.Sprintf("%s is unavailable, live updates are off", name))

		return
	}

	m.state = StateFailed
	delay := m.backoff.Delay(m.attempt)

	// Single-shot timer, replaced atomically on every reschedule: there is
	// never more than one pending retry per manager.
	m.stopTimerLocked()
	m.timer = time.AfterFunc(delay, m.retry)

	name := m.channel.Name()
	m.mu.Unlock()

	m.notifier.Failure(SeverityWarning, fmt.Sprintf("%s connection lost, retrying", name))
}

func (m *Manager) retry() {
	m.mu.Lock()

	if m.state != StateFailed {
		m.mu.Unlock()
		return
	}

	m.state = StateConnecting

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	m.connect(ctx)
}

func (m *Manager) stopTimerLocked() {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
}
