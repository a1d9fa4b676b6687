package search

import (
	"sync"
	"time"
)

const DefaultDebounce = 500 * time.Millisecond

// Debouncer delays a query until input has been quiet for the configured
// delay. At most one query is pending at any time.
type Debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	seq     uint64
	timer   *time.Timer
	pending chan string
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay}
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Schedule replaces any pending query with query. The returned channel
// yields query once the delay elapses, or is closed without a value when a
// later Schedule or Cancel supersedes it.
func (d *Debouncer) Schedule(query string) <-chan string {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.seq++
	seq := d.seq
	ch := make(chan string, 1)
	d.pending = ch

	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		// a newer Schedule or Cancel got the lock first
		if seq != d.seq || d.pending != ch {
			return
		}
		d.timer = nil
		d.pending = nil
		ch <- query
		close(ch)
	})
	return ch
}

// Cancel drops the pending query, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.seq++
}

// Pending reports whether a query is waiting to fire.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.pending != nil {
		close(d.pending)
		d.pending = nil
	}
}
