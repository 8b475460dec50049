package realtime

import (
	"sync"
	"time"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Sink receives user-facing notifications. The app wires this to whatever
// pushes toasts to connected UIs; tests wire a recorder.
type Sink interface {
	Notify(severity Severity, message string)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(severity Severity, message string)

func (f SinkFunc) Notify(severity Severity, message string) {
	f(severity, message)
}

// Notifier rate-limits non-success notifications to one per window per
// instance, so flapping connectivity does not produce alert storms. Success
// notifications bypass the limit but only fire when a failure was observed
// since the last success.
type Notifier struct {
	mu          sync.Mutex
	sink        Sink
	window      time.Duration
	lastFailure time.Time
	sawFailure  bool
	now         func() time.Time
}

const defaultNotifyWindow = 6 * time.Second

func NewNotifier(sink Sink) *Notifier {
	return &Notifier{
		sink:   sink,
		window: defaultNotifyWindow,
		now:    time.Now,
	}
}

// Failure emits a non-success notification, dropped silently when one
// already fired within the rate-limit window.
func (n *Notifier) Failure(severity Severity, message string) {
	n.mu.Lock()

	n.sawFailure = true

	now := n.now()
	if !n.lastFailure.IsZero() && now.Sub(n.lastFailure) < n.window {
		n.mu.Unlock()
		return
	}
	n.lastFailure = now

	sink := n.sink
	n.mu.Unlock()

	sink.Notify(severity, message)
}

// Stopped emits the terminal give-up notification. It bypasses the rate
// limit: the channel will never retry on its own, so this one must always
// reach the user even when retry warnings just fired.
func (n *Notifier) Stopped(message string) {
	n.mu.Lock()

	n.sawFailure = true
	n.lastFailure = n.now()

	sink := n.sink
	n.mu.Unlock()

	sink.Notify(SeverityError, message)
}

// Success emits a recovery notification, but only when a prior failure was
// observed; a connection that was never down has nothing to announce.
func (n *Notifier) Success(message string) {
	n.mu.Lock()

	if !n.sawFailure {
		n.mu.Unlock()
		return
	}
	n.sawFailure = false
	n.lastFailure = time.Time{}

	sink := n.sink
	n.mu.Unlock()

	sink.Notify(SeverityInfo, message)
}
