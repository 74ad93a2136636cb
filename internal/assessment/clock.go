package assessment

import "time"

// Clock abstracts the tick source so a session can be driven by a fake
// ticker in tests instead of real wall-clock time.
type Clock interface {
	NewTicker(d time.Duration) Ticker
}

// Ticker is a stoppable stream of tick instants.
type Ticker interface {
	Chan() <-chan time.Time
	Stop()
}

// SystemClock returns the real wall-clock tick source.
func SystemClock() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) NewTicker(d time.Duration) Ticker {
	return &systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct{ t *time.Ticker }

func (st *systemTicker) Chan() <-chan time.Time { return st.t.C }
func (st *systemTicker) Stop()                  { st.t.Stop() }
