// Package effects implements the timer- and scroll-driven visual effects of the
// portfolio: the typing reveal, the glitch scheduler, scroll progress tracking and
// one-shot section reveal.
//
// Every effect is an object that owns its timer handles. Effects are not safe for
// concurrent use; they are driven from a single Scheduler goroutine (a Loop in
// production, a ManualClock in tests), mirroring a browser event loop.
package effects

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a handle to a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the timer;
	// false means the callback already ran or was already stopped.
	Stop() bool
}

// Scheduler arms one-shot callbacks. Implementations run callbacks one at a
// time, never concurrently with each other.
type Scheduler interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// ErrClosed is returned by Loop.Do once the loop has been closed.
var ErrClosed = errors.New("effects: loop closed")

// Loop is a real-time Scheduler. Timer firings and posted work execute
// sequentially on the goroutine that calls Run.
type Loop struct {
	mu     sync.Mutex
	queue  []func()
	timers map[*loopTimer]struct{}
	closed bool
	wake   chan struct{}
	done   chan struct{}
}

// NewLoop creates an idle loop. Call Run to start executing callbacks.
func NewLoop() *Loop {
	return &Loop{
		timers: make(map[*loopTimer]struct{}),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Now returns the wall clock time.
func (l *Loop) Now() time.Time {
	return time.Now()
}

// AfterFunc schedules f to run on the loop goroutine after d.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{loop: l, f: f}

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		t.stopped.Store(true)
		return t
	}
	l.timers[t] = struct{}{}
	l.mu.Unlock()

	t.mu.Lock()
	t.rt = time.AfterFunc(d, func() { l.Post(t.fire) })
	t.mu.Unlock()
	return t
}

// Post enqueues f to run on the loop goroutine. Work posted after Close is dropped.
func (l *Loop) Post(f func()) {
	l.enqueue(f)
}

func (l *Loop) enqueue(f func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Do runs f on the loop goroutine and waits for it to finish. It returns
// ErrClosed if the loop closes before f runs.
func (l *Loop) Do(ctx context.Context, f func()) error {
	ran := make(chan struct{})
	if !l.enqueue(func() {
		defer close(ran)
		f()
	}) {
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-l.done:
		select {
		case <-ran:
			return nil
		default:
			return ErrClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes callbacks until ctx is cancelled, then closes the loop.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Close()
	for {
		l.mu.Lock()
		batch := l.queue
		l.queue = nil
		l.mu.Unlock()

		for _, f := range batch {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			f()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Close stops every outstanding timer and discards queued work.
func (l *Loop) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	l.queue = nil
	close(l.done)
	pending := make([]*loopTimer, 0, len(l.timers))
	for t := range l.timers {
		pending = append(pending, t)
	}
	l.mu.Unlock()

	for _, t := range pending {
		t.Stop()
	}
}

// Pending reports the number of armed timers.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

func (l *Loop) forget(t *loopTimer) {
	l.mu.Lock()
	delete(l.timers, t)
	l.mu.Unlock()
}

type loopTimer struct {
	loop    *Loop
	f       func()
	stopped atomic.Bool

	mu sync.Mutex
	rt *time.Timer
}

// fire runs on the loop goroutine. The stopped flag is checked there, so a
// timer stopped after its runtime timer expired still never runs f.
func (t *loopTimer) fire() {
	if !t.stopped.CompareAndSwap(false, true) {
		return
	}
	t.loop.forget(t)
	t.f()
}

func (t *loopTimer) Stop() bool {
	if !t.stopped.CompareAndSwap(false, true) {
		return false
	}
	t.mu.Lock()
	if t.rt != nil {
		t.rt.Stop()
	}
	t.mu.Unlock()
	t.loop.forget(t)
	return true
}

// ManualClock is a virtual-time Scheduler. Callbacks only run inside Advance,
// on the caller's goroutine, in due-time order.
type ManualClock struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current virtual time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// AfterFunc schedules f at Now()+d. Negative durations fire at Now().
func (c *ManualClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &manualTimer{clock: c, due: c.now.Add(d), seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves virtual time forward by d, firing every callback that comes due,
// including callbacks scheduled by other callbacks within the window.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		next := c.popDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.due
		c.mu.Unlock()

		next.f()
	}
}

// Pending reports the number of armed timers.
func (c *ManualClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.timers)
}

// popDue removes and returns the earliest timer due at or before target.
// Caller holds c.mu.
func (c *ManualClock) popDue(target time.Time) *manualTimer {
	if len(c.timers) == 0 {
		return nil
	}
	sort.SliceStable(c.timers, func(i, j int) bool {
		if c.timers[i].due.Equal(c.timers[j].due) {
			return c.timers[i].seq < c.timers[j].seq
		}
		return c.timers[i].due.Before(c.timers[j].due)
	})
	first := c.timers[0]
	if first.due.After(target) {
		return nil
	}
	c.timers = c.timers[1:]
	return first
}

func (c *ManualClock) remove(t *manualTimer) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, pending := range c.timers {
		if pending == t {
			c.timers = append(c.timers[:i], c.timers[i+1:]...)
			return true
		}
	}
	return false
}

type manualTimer struct {
	clock *ManualClock
	due   time.Time
	seq   uint64
	f     func()
}

func (t *manualTimer) Stop() bool {
	return t.clock.remove(t)
}

// Repeater is a cancellable repeating task. After each firing it re-arms itself
// with the interval returned by next.
type Repeater struct {
	sched   Scheduler
	next    func() time.Duration
	fire    func()
	timer   Timer
	running bool
}

// NewRepeater creates a stopped repeater.
func NewRepeater(s Scheduler, next func() time.Duration, fire func()) *Repeater {
	return &Repeater{sched: s, next: next, fire: fire}
}

// Every returns an interval function with a fixed period.
func Every(d time.Duration) func() time.Duration {
	return func() time.Duration { return d }
}

// Start arms the first firing. Starting a running repeater is a no-op.
func (r *Repeater) Start() {
	if r.running {
		return
	}
	r.running = true
	r.arm()
}

// Stop cancels the pending firing; no further firing happens until Start.
func (r *Repeater) Stop() {
	r.running = false
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// Running reports whether the repeater is armed.
func (r *Repeater) Running() bool {
	return r.running
}

func (r *Repeater) arm() {
	r.timer = r.sched.AfterFunc(r.next(), func() {
		r.timer = nil
		if !r.running {
			return
		}
		r.fire()
		// fire may have stopped us
		if r.running && r.timer == nil {
			r.arm()
		}
	})
}
