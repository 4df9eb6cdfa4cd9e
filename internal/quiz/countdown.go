package quiz

import (
	"context"
	"sync"
	"time"
)

// Countdown calls onTick once per interval until stopped.
type Countdown struct {
	interval time.Duration
	onTick   func()

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// NewCountdown creates a stopped countdown.
func NewCountdown(interval time.Duration, onTick func()) *Countdown {
	return &Countdown{
		interval: interval,
		onTick:   onTick,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start runs the ticker in a new goroutine until Stop is called or ctx ends.
func (c *Countdown) Start(ctx context.Context) {
	go func() {
		defer close(c.done)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-ticker.C:
				// A tick may race a Stop; drop it rather than fire late.
				select {
				case <-c.stop:
					return
				default:
				}
				c.onTick()
			}
		}
	}()
}

// Stop cancels the countdown. It does not wait for the goroutine to exit,
// so it is safe to call from inside onTick. Repeated calls are no-ops.
func (c *Countdown) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Done is closed once the ticker goroutine has exited.
func (c *Countdown) Done() <-chan struct{} {
	return c.done
}
