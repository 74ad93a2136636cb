package assessment

import (
	"fmt"
	"sync"
	"time"
)

// CountdownTimer is a single ticking countdown decoupled from any UI.
// While running it decrements once per second from a single repeating tick
// source; on reaching zero it stops itself and invokes the expiry callback
// exactly once. At most one tick source is live at any time.
type CountdownTimer struct {
	mu        sync.Mutex
	clock     Clock
	duration  int
	remaining int
	running   bool
	ticker    Ticker
	stop      chan struct{}
	onExpire  func()
}

// NewCountdownTimer creates a stopped timer with durationSeconds on the
// clock. A nil clock selects the system clock. onExpire may be nil.
func NewCountdownTimer(clock Clock, durationSeconds int, onExpire func()) *CountdownTimer {
	if clock == nil {
		clock = SystemClock()
	}
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	return &CountdownTimer{
		clock:     clock,
		duration:  durationSeconds,
		remaining: durationSeconds,
		onExpire:  onExpire,
	}
}

// Start begins ticking. No-op while already running, and after natural
// expiry until Reset is called (remaining is already zero).
func (t *CountdownTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running || t.remaining <= 0 {
		return
	}

	t.stopTickerLocked()
	t.running = true
	t.ticker = t.clock.NewTicker(time.Second)
	t.stop = make(chan struct{})
	go t.loop(t.ticker, t.stop)
}

// Pause stops ticking without resetting remaining.
func (t *CountdownTimer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.stopTickerLocked()
}

// Reset stops the timer and restores the originally configured duration.
func (t *CountdownTimer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.stopTickerLocked()
	t.remaining = t.duration
}

// ResetTo stops the timer and sets remaining to the given second count.
func (t *CountdownTimer) ResetTo(seconds int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.stopTickerLocked()
	if seconds < 0 {
		seconds = 0
	}
	t.remaining = seconds
}

// Dispose tears the timer down. The timer must not fire after Dispose
// returns; safe to call repeatedly.
func (t *CountdownTimer) Dispose() {
	t.Pause()
}

// Remaining returns the seconds left on the countdown.
func (t *CountdownTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// Running reports whether the timer is currently ticking.
func (t *CountdownTimer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// FormattedTime returns remaining as zero-padded MM:SS.
func (t *CountdownTimer) FormattedTime() string {
	return FormatSeconds(t.Remaining())
}

func (t *CountdownTimer) loop(ticker Ticker, stop chan struct{}) {
	for {
		select {
		case <-ticker.Chan():
			t.tick()
		case <-stop:
			return
		}
	}
}

func (t *CountdownTimer) tick() {
	t.mu.Lock()

	// A tick already queued when Pause or expiry stopped the timer must
	// not decrement further.
	if !t.running {
		t.mu.Unlock()
		return
	}

	if t.remaining > 0 {
		t.remaining--
	}
	if t.remaining > 0 {
		t.mu.Unlock()
		return
	}

	// Natural expiry: stop the tick source while still holding the lock so
	// a racing Start cannot observe a second live ticker.
	t.running = false
	t.stopTickerLocked()
	cb := t.onExpire
	t.mu.Unlock()

	if cb != nil {
		cb()
	}
}

// stopTickerLocked cancels the active tick source. Caller holds t.mu.
func (t *CountdownTimer) stopTickerLocked() {
	if t.ticker != nil {
		t.ticker.Stop()
		t.ticker = nil
	}
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

// FormatSeconds renders a second count as zero-padded MM:SS, e.g. 65 →
// "01:05". Negative values clamp to "00:00".
func FormatSeconds(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
