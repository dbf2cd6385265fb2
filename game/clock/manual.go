package clock

import (
	"slices"
	"sync"
	"time"
)

// ManualScheduler is a Scheduler whose time only moves when Advance is
// called. Due tasks run on the caller's goroutine in deadline order.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks []*manualTask
}

type manualTask struct {
	owner    *ManualScheduler
	due      time.Time
	interval time.Duration
	seq      uint64
	fn       func()
	stopped  bool
}

// NewManualScheduler creates a manual scheduler starting at start
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{now: start}
}

// Now returns the scheduler's current time
func (m *ManualScheduler) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// After schedules fn once after d
func (m *ManualScheduler) After(d time.Duration, fn func()) Timer {
	return m.add(d, 0, fn)
}

// Every schedules fn every d
func (m *ManualScheduler) Every(d time.Duration, fn func()) Timer {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.add(d, d, fn)
}

// Pending returns the number of tasks still scheduled
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, t := range m.tasks {
		if !t.stopped {
			count++
		}
	}
	return count
}

// Advance moves time forward by d, running every task that falls due in
// deadline order. Tasks scheduled by a running task run in the same call if
// they fall due before the new time.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		task := m.nextDue(target)
		if task == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = task.due
		if task.interval > 0 {
			task.due = task.due.Add(task.interval)
		} else {
			task.stopped = true
			m.remove(task)
		}
		fn := task.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *ManualScheduler) add(d, interval time.Duration, fn func()) *manualTask {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{
		owner:    m,
		due:      m.now.Add(d),
		interval: interval,
		seq:      m.seq,
		fn:       fn,
	}
	m.tasks = append(m.tasks, task)
	return task
}

func (m *ManualScheduler) nextDue(target time.Time) *manualTask {
	var next *manualTask
	for _, t := range m.tasks {
		if t.stopped || t.due.After(target) {
			continue
		}
		if next == nil || t.due.Before(next.due) || (t.due.Equal(next.due) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (m *ManualScheduler) remove(task *manualTask) {
	m.tasks = slices.DeleteFunc(m.tasks, func(t *manualTask) bool { return t == task })
}

func (t *manualTask) Stop() bool {
	m := t.owner
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	m.remove(t)
	return true
}
