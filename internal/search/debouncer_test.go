package search

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncer_FiresOnceForBurst(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var fired int32
	var last string
	done := make(chan struct{})

	var channels []<-chan string
	for _, q := range []string{"b", "ba", "bat", "batm", "batma", "batman"} {
		channels = append(channels, d.Schedule(q))
		time.Sleep(5 * time.Millisecond)
	}

	for i, ch := range channels[:len(channels)-1] {
		select {
		case q, ok := <-ch:
			assert.False(t, ok, "superseded schedule %d delivered %q", i, q)
		case <-time.After(time.Second):
			t.Fatalf("superseded channel %d was not closed", i)
		}
	}

	go func() {
		for q := range channels[len(channels)-1] {
			atomic.AddInt32(&fired, 1)
			last = q
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("debounced query never fired")
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&fired))
	assert.Equal(t, "batman", last)
	assert.False(t, d.Pending())
}

func TestDebouncer_WaitsForQuietPeriod(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)
	start := time.Now()
	ch := d.Schedule("heat")
	assert.True(t, d.Pending())

	q, ok := <-ch
	require.True(t, ok)
	assert.Equal(t, "heat", q)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestDebouncer_Cancel(t *testing.T) {
	d := NewDebouncer(20 * time.Millisecond)
	ch := d.Schedule("alien")
	d.Cancel()
	assert.False(t, d.Pending())

	select {
	case q, ok := <-ch:
		assert.False(t, ok, "cancelled schedule delivered %q", q)
	case <-time.After(time.Second):
		t.Fatal("cancelled channel was not closed")
	}

	// cancelling with nothing pending is harmless
	d.Cancel()
}

func TestDebouncer_DefaultDelay(t *testing.T) {
	assert.Equal(t, DefaultDebounce, NewDebouncer(0).Delay())
	assert.Equal(t, 500*time.Millisecond, DefaultDebounce)
}
