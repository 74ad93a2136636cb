package assessment

import (
	"sync"
	"time"
)

// fakeClock hands out buffered fake tickers and remembers every ticker it
// created so tests can assert on tick-source lifecycle.
type fakeClock struct {
	mu      sync.Mutex
	tickers []*fakeTicker
}

func newFakeClock() *fakeClock { return &fakeClock{} }

func (c *fakeClock) NewTicker(time.Duration) Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	ft := &fakeTicker{ch: make(chan time.Time, 64)}
	c.tickers = append(c.tickers, ft)
	return ft
}

func (c *fakeClock) created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tickers)
}

func (c *fakeClock) liveTickers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	live := 0
	for _, ft := range c.tickers {
		if !ft.isStopped() {
			live++
		}
	}
	return live
}

type fakeTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (ft *fakeTicker) Chan() <-chan time.Time { return ft.ch }

func (ft *fakeTicker) Stop() {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	ft.stopped = true
}

func (ft *fakeTicker) isStopped() bool {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return ft.stopped
}

func (ft *fakeTicker) fire() {
	ft.ch <- time.Now()
}
