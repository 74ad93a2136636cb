package assessment

import (
	"context"
	"sync"
)

// Signal is one attention event relayed from the host environment, mirroring
// the browser's visibilitychange and window blur/focus events.
type Signal string

const (
	SignalHidden  Signal = "hidden"
	SignalVisible Signal = "visible"
	SignalBlur    Signal = "blur"
	SignalFocus   Signal = "focus"
)

// SignalSource is an injected stream of attention signals. The monitor never
// reads ambient global state; hosts push signals through Observe or Run.
type SignalSource interface {
	Signals() <-chan Signal
}

// ActivityMonitor tracks whether the candidate's attention is on the test and
// counts interruptions. Each signal that moves attention away (hidden, blur)
// counts independently, so a tab switch that fires both blur and hidden is
// recorded as two interruptions. Monitoring is a heuristic, not a security
// control.
type ActivityMonitor struct {
	mu             sync.Mutex
	active         bool
	observing      bool
	interruptions  int
	onInterruption func(count int)
}

// NewActivityMonitor creates a deactivated monitor. onInterruption, if
// non-nil, is invoked with the new count after every recorded interruption.
func NewActivityMonitor(onInterruption func(count int)) *ActivityMonitor {
	return &ActivityMonitor{
		active:         true,
		onInterruption: onInterruption,
	}
}

// Activate begins observing signals.
func (m *ActivityMonitor) Activate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observing = true
}

// Deactivate stops observing. Signals observed afterwards are dropped; the
// count and active flag keep their last values.
func (m *ActivityMonitor) Deactivate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observing = false
}

// Observe applies one signal. Transitions into the inactive state increment
// the interruption count; transitions back to active never do.
func (m *ActivityMonitor) Observe(sig Signal) {
	m.mu.Lock()
	if !m.observing {
		m.mu.Unlock()
		return
	}

	var (
		cb    func(int)
		count int
	)
	switch sig {
	case SignalHidden, SignalBlur:
		m.active = false
		m.interruptions++
		count = m.interruptions
		cb = m.onInterruption
	case SignalVisible, SignalFocus:
		m.active = true
	}
	m.mu.Unlock()

	if cb != nil {
		cb(count)
	}
}

// Run pumps signals from src into the monitor until ctx is cancelled or the
// source channel closes.
func (m *ActivityMonitor) Run(ctx context.Context, src SignalSource) {
	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-src.Signals():
			if !ok {
				return
			}
			m.Observe(sig)
		}
	}
}

// ResetCount zeroes the interruption counter without touching the active
// flag. Used when a fresh session starts within the same host lifetime.
func (m *ActivityMonitor) ResetCount() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interruptions = 0
}

// IsActive reports whether the page is currently visible and focused.
func (m *ActivityMonitor) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// InterruptionCount returns the number of recorded interruptions.
func (m *ActivityMonitor) InterruptionCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.interruptions
}
