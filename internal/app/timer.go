package app

import (
	"sync"
	"time"
)

// countdown is an owned one-second ticker. The scope that starts it is the
// only scope that cancels it; reducers never tick, they only store the
// values pushed through onTick.
type countdown struct {
	mu   sync.Mutex
	stop chan struct{}

	// interval is overridable so tests do not sleep wall-clock seconds.
	interval time.Duration
}

func newCountdown() *countdown {
	return &countdown{interval: time.Second}
}

// start begins ticking down from seconds. onTick fires with the remaining
// value after each interval, onDone once after the tick that reaches zero.
// A running countdown is cancelled and replaced.
func (c *countdown) start(seconds int, onTick func(remaining int), onDone func()) {
	c.mu.Lock()
	if c.stop != nil {
		close(c.stop)
	}
	stop := make(chan struct{})
	c.stop = stop
	interval := c.interval
	c.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		remaining := seconds
		for remaining > 0 {
			select {
			case <-stop:
				return
			case <-ticker.C:
				remaining--
				if onTick != nil {
					onTick(remaining)
				}
			}
		}
		if onDone != nil {
			onDone()
		}
	}()
}

// cancel stops the countdown without firing onDone. Safe to call when
// nothing is running.
func (c *countdown) cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}
