// Package clock abstracts time and delayed callbacks so game pacing can be
// driven deterministically in tests.
package clock

import (
	"sort"
	"sync"
	"time"
)

// Task is a scheduled callback. Stop reports whether it prevented the call.
type Task interface {
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Task
}

// Real is the wall clock. time.Now carries a monotonic reading, so
// differences between two Now values ignore wall-clock adjustments.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

func (Real) AfterFunc(d time.Duration, f func()) Task { return time.AfterFunc(d, f) }

// Serial wraps c so that every fired callback is handed to post instead of
// running on the timer's goroutine. post is typically an event loop's enqueue.
func Serial(c Clock, post func(func())) Clock {
	return serial{inner: c, post: post}
}

type serial struct {
	inner Clock
	post  func(func())
}

func (s serial) Now() time.Time { return s.inner.Now() }

func (s serial) AfterFunc(d time.Duration, f func()) Task {
	t := &serialTask{}
	t.inner = s.inner.AfterFunc(d, func() {
		s.post(func() {
			// A Stop that raced with the timer firing still wins.
			if t.stopped() {
				return
			}
			f()
		})
	})
	return t
}

type serialTask struct {
	mu    sync.Mutex
	inner Task
	done  bool
}

func (t *serialTask) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return false
	}
	t.done = true
	t.inner.Stop()
	return true
}

func (t *serialTask) stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done {
		return true
	}
	t.done = true
	return false
}

// Fake is a manually advanced clock. Callbacks run on the goroutine calling
// Advance, in deadline order.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*fakeTask
}

func NewFake(start time.Time) *Fake {
	return &Fake{now: start}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t := &fakeTask{clock: f, at: f.now.Add(d), seq: f.seq, fn: fn}
	f.tasks = append(f.tasks, t)
	return t
}

// Pending returns the number of scheduled, unfired tasks.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

// Advance moves the clock forward by d, firing every task that comes due,
// including tasks scheduled by callbacks during the advance.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		f.mu.Lock()
		next := f.popDue(target)
		if next == nil {
			f.now = target
			f.mu.Unlock()
			return
		}
		f.now = next.at
		f.mu.Unlock()

		next.fn()
	}
}

func (f *Fake) popDue(target time.Time) *fakeTask {
	if len(f.tasks) == 0 {
		return nil
	}
	sort.Slice(f.tasks, func(i, j int) bool {
		if f.tasks[i].at.Equal(f.tasks[j].at) {
			return f.tasks[i].seq < f.tasks[j].seq
		}
		return f.tasks[i].at.Before(f.tasks[j].at)
	})
	t := f.tasks[0]
	if t.at.After(target) {
		return nil
	}
	f.tasks = f.tasks[1:]
	return t
}

func (f *Fake) remove(t *fakeTask) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, cur := range f.tasks {
		if cur == t {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return true
		}
	}
	return false
}

type fakeTask struct {
	clock *Fake
	at    time.Time
	seq   int
	fn    func()
}

func (t *fakeTask) Stop() bool { return t.clock.remove(t) }
