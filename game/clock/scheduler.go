package clock

import (
	"sync"
	"time"
)

// Timer is a handle to a scheduled task
type Timer interface {
	// Stop prevents any further runs. It reports whether the task was still pending.
	Stop() bool
}

// Scheduler runs deferred and recurring tasks
type Scheduler interface {
	After(d time.Duration, fn func()) Timer
	Every(d time.Duration, fn func()) Timer
}

// RealScheduler schedules on the wall clock. Tasks run on their own goroutines.
type RealScheduler struct{}

// NewRealScheduler creates a scheduler backed by the time package
func NewRealScheduler() *RealScheduler {
	return &RealScheduler{}
}

// After runs fn once after d
func (RealScheduler) After(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Every runs fn every d until stopped
func (RealScheduler) Every(d time.Duration, fn func()) Timer {
	t := &ticker{
		ticker: time.NewTicker(d),
		done:   make(chan struct{}),
	}
	go t.run(fn)
	return t
}

type ticker struct {
	ticker *time.Ticker
	done   chan struct{}
	once   sync.Once
}

func (t *ticker) run(fn func()) {
	for {
		select {
		case <-t.done:
			return
		case <-t.ticker.C:
			// Stop may race with a tick that is already being delivered
			select {
			case <-t.done:
				return
			default:
			}
			fn()
		}
	}
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.ticker.Stop()
		close(t.done)
		stopped = true
	})
	return stopped
}
