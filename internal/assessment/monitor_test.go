package assessment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityMonitor_CountsLeaveEventsOnly(t *testing.T) {
	var calls []int
	m := NewActivityMonitor(func(count int) { calls = append(calls, count) })
	m.Activate()

	assert.True(t, m.IsActive())

	m.Observe(SignalHidden)
	assert.False(t, m.IsActive())
	assert.Equal(t, 1, m.InterruptionCount())

	m.Observe(SignalVisible)
	assert.True(t, m.IsActive())
	assert.Equal(t, 1, m.InterruptionCount())

	m.Observe(SignalBlur)
	m.Observe(SignalFocus)
	assert.Equal(t, 2, m.InterruptionCount())
	assert.Equal(t, []int{1, 2}, calls)
}

func TestActivityMonitor_PerSignalCounting(t *testing.T) {
	// A browser tab switch fires both blur and visibility-hidden; each
	// signal counts independently.
	m := NewActivityMonitor(nil)
	m.Activate()

	m.Observe(SignalBlur)
	m.Observe(SignalHidden)
	assert.Equal(t, 2, m.InterruptionCount())
	assert.False(t, m.IsActive())
}

func TestActivityMonitor_ResetCountKeepsActiveFlag(t *testing.T) {
	m := NewActivityMonitor(nil)
	m.Activate()

	m.Observe(SignalHidden)
	require.False(t, m.IsActive())

	m.ResetCount()
	assert.Equal(t, 0, m.InterruptionCount())
	assert.False(t, m.IsActive())
}

func TestActivityMonitor_DroppedWhileDeactivated(t *testing.T) {
	m := NewActivityMonitor(nil)

	// Not yet activated: nothing is recorded.
	m.Observe(SignalHidden)
	assert.Equal(t, 0, m.InterruptionCount())
	assert.True(t, m.IsActive())

	m.Activate()
	m.Observe(SignalHidden)
	m.Deactivate()
	m.Observe(SignalHidden)
	m.Observe(SignalVisible)

	assert.Equal(t, 1, m.InterruptionCount())
	assert.False(t, m.IsActive())
}

type chanSource struct{ ch chan Signal }

func (s chanSource) Signals() <-chan Signal { return s.ch }

func TestActivityMonitor_RunPumpsSource(t *testing.T) {
	m := NewActivityMonitor(nil)
	m.Activate()

	src := chanSource{ch: make(chan Signal, 8)}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		m.Run(ctx, src)
		close(done)
	}()

	src.ch <- SignalHidden
	src.ch <- SignalVisible
	src.ch <- SignalBlur

	require.Eventually(t, func() bool { return m.InterruptionCount() == 2 },
		time.Second, time.Millisecond)

	close(src.ch)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit on source close")
	}
}
