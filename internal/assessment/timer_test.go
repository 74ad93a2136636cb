package assessment

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountdownTimer_RunsToExpiryExactlyOnce(t *testing.T) {
	var fired int32
	clock := newFakeClock()
	timer := NewCountdownTimer(clock, 3, func() { atomic.AddInt32(&fired, 1) })

	timer.Start()
	assert.True(t, timer.Running())

	// Drive ticks past the duration; remaining must clamp at zero and the
	// callback must fire exactly once.
	for i := 0; i < 5; i++ {
		timer.tick()
	}

	assert.Equal(t, 0, timer.Remaining())
	assert.False(t, timer.Running())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))

	// Start after natural expiry without a reset is a no-op.
	timer.Start()
	assert.False(t, timer.Running())
	timer.tick()
	assert.Equal(t, 0, timer.Remaining())
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
}

func TestCountdownTimer_PauseHoldsRemaining(t *testing.T) {
	clock := newFakeClock()
	timer := NewCountdownTimer(clock, 10, nil)

	timer.Start()
	timer.tick()
	timer.tick()
	assert.Equal(t, 8, timer.Remaining())

	timer.Pause()
	assert.False(t, timer.Running())
	timer.tick()
	assert.Equal(t, 8, timer.Remaining())

	// Start resumes from where it stopped, not from the beginning.
	timer.Start()
	timer.tick()
	assert.Equal(t, 7, timer.Remaining())
}

func TestCountdownTimer_Reset(t *testing.T) {
	clock := newFakeClock()
	timer := NewCountdownTimer(clock, 10, nil)

	timer.Start()
	timer.tick()
	timer.tick()
	timer.tick()

	timer.Reset()
	assert.Equal(t, 10, timer.Remaining())
	assert.False(t, timer.Running())

	// Reset stops ticking until Start is called again.
	timer.tick()
	assert.Equal(t, 10, timer.Remaining())

	timer.ResetTo(25)
	assert.Equal(t, 25, timer.Remaining())
	assert.False(t, timer.Running())

	timer.Start()
	timer.tick()
	assert.Equal(t, 24, timer.Remaining())
}

func TestCountdownTimer_ResetAfterExpiryAllowsRestart(t *testing.T) {
	var fired int32
	clock := newFakeClock()
	timer := NewCountdownTimer(clock, 2, func() { atomic.AddInt32(&fired, 1) })

	timer.Start()
	timer.tick()
	timer.tick()
	require.Equal(t, int32(1), atomic.LoadInt32(&fired))

	timer.Reset()
	timer.Start()
	timer.tick()
	timer.tick()
	assert.Equal(t, int32(2), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, timer.Remaining())
}

func TestCountdownTimer_SingleLiveTickSource(t *testing.T) {
	clock := newFakeClock()
	timer := NewCountdownTimer(clock, 60, nil)

	timer.Start()
	timer.Start() // no-op while running
	assert.Equal(t, 1, clock.created())

	timer.Pause()
	timer.Start()
	timer.Reset()
	timer.Start()

	assert.Equal(t, 3, clock.created())
	assert.Equal(t, 1, clock.liveTickers())

	timer.Dispose()
	assert.Equal(t, 0, clock.liveTickers())
}

func TestCountdownTimer_TickerDriven(t *testing.T) {
	clock := newFakeClock()
	timer := NewCountdownTimer(clock, 3, nil)

	timer.Start()
	require.Equal(t, 1, clock.created())
	clock.tickers[0].fire()
	clock.tickers[0].fire()

	require.Eventually(t, func() bool { return timer.Remaining() == 1 },
		time.Second, time.Millisecond)

	timer.Dispose()
}

func TestFormatSeconds(t *testing.T) {
	assert.Equal(t, "00:00", FormatSeconds(0))
	assert.Equal(t, "01:05", FormatSeconds(65))
	assert.Equal(t, "59:59", FormatSeconds(3599))
	assert.Equal(t, "20:00", FormatSeconds(1200))
	assert.Equal(t, "00:00", FormatSeconds(-4))
}
