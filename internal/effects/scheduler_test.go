package effects

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualClock_FiresInDueOrder(t *testing.T) {
	clock := NewManualClock(epoch)
	var order []string
	clock.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	clock.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })
	clock.AfterFunc(-time.Second, func() { order = append(order, "now") })

	clock.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"now", "a", "b"}, order)
	assert.Equal(t, epoch.Add(20*time.Millisecond), clock.Now())

	clock.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"now", "a", "b", "c"}, order)
	assert.Zero(t, clock.Pending())
}

func TestManualClock_NestedScheduling(t *testing.T) {
	clock := NewManualClock(epoch)
	var fired []time.Duration
	var chain func()
	chain = func() {
		fired = append(fired, clock.Now().Sub(epoch))
		if len(fired) < 3 {
			clock.AfterFunc(5*time.Millisecond, chain)
		}
	}
	clock.AfterFunc(5*time.Millisecond, chain)
	clock.Advance(time.Second)

	assert.Equal(t, []time.Duration{5 * time.Millisecond, 10 * time.Millisecond, 15 * time.Millisecond}, fired)
}

func TestManualClock_Stop(t *testing.T) {
	clock := NewManualClock(epoch)
	fired := false
	timer := clock.AfterFunc(time.Millisecond, func() { fired = true })

	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	clock.Advance(time.Second)
	assert.False(t, fired)
}

func TestRepeater(t *testing.T) {
	clock := NewManualClock(epoch)
	count := 0
	r := NewRepeater(clock, Every(100*time.Millisecond), func() { count++ })
	r.Start()
	r.Start()

	clock.Advance(350 * time.Millisecond)
	assert.Equal(t, 3, count)
	assert.Equal(t, 1, clock.Pending())

	r.Stop()
	assert.False(t, r.Running())
	assert.Zero(t, clock.Pending())
	clock.Advance(time.Second)
	assert.Equal(t, 3, count)
}

func TestRepeater_StopFromCallback(t *testing.T) {
	clock := NewManualClock(epoch)
	count := 0
	var r *Repeater
	r = NewRepeater(clock, Every(10*time.Millisecond), func() {
		count++
		if count == 2 {
			r.Stop()
		}
	})
	r.Start()
	clock.Advance(time.Second)

	assert.Equal(t, 2, count)
	assert.Zero(t, clock.Pending())
}

func TestLoop_RunsTimersOnLoop(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		_ = loop.Run(ctx)
		close(done)
	}()

	fired := make(chan struct{})
	require.NoError(t, loop.Do(ctx, func() {
		loop.AfterFunc(5*time.Millisecond, func() { close(fired) })
	}))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer did not fire")
	}

	cancel()
	<-done
	assert.Zero(t, loop.Pending())
}

func TestLoop_StoppedTimerNeverFires(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	var fired atomic.Bool
	var timer Timer
	require.NoError(t, loop.Do(ctx, func() {
		timer = loop.AfterFunc(time.Millisecond, func() { fired.Store(true) })
	}))
	// let the runtime timer expire and post, then stop it before the loop sees it
	require.NoError(t, loop.Do(ctx, func() {
		time.Sleep(20 * time.Millisecond)
		timer.Stop()
	}))
	require.NoError(t, loop.Do(ctx, func() {}))

	assert.False(t, fired.Load())
	assert.Zero(t, loop.Pending())
}

func TestLoop_CloseCancelsTimers(t *testing.T) {
	loop := NewLoop()
	var fired atomic.Bool
	loop.AfterFunc(10*time.Millisecond, func() { fired.Store(true) })
	assert.Equal(t, 1, loop.Pending())

	loop.Close()
	assert.Zero(t, loop.Pending())

	// timers armed after close are inert
	timer := loop.AfterFunc(time.Millisecond, func() { fired.Store(true) })
	assert.False(t, timer.Stop())

	time.Sleep(30 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestLoop_DoAfterClose(t *testing.T) {
	loop := NewLoop()
	loop.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	ran := false
	err := loop.Do(ctx, func() { ran = true })
	assert.ErrorIs(t, err, ErrClosed)
	assert.False(t, ran)
}

func TestLoop_DoUnblocksOnClose(t *testing.T) {
	loop := NewLoop()
	errc := make(chan error, 1)
	go func() { errc <- loop.Do(context.Background(), func() {}) }()

	// nothing runs the loop, so the queued work is discarded
	time.Sleep(10 * time.Millisecond)
	loop.Close()

	select {
	case err := <-errc:
		assert.ErrorIs(t, err, ErrClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("Do did not return after Close")
	}
}
