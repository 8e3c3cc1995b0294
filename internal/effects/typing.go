package effects

import "time"

// DefaultTypingSpeed is the per-character reveal delay used when none is set.
const DefaultTypingSpeed = 50 * time.Millisecond

// TypingOptions configures a Typing effect.
type TypingOptions struct {
	// Speed is the delay between revealed characters.
	Speed time.Duration
	// StartDelay is the wait before a run begins.
	StartDelay time.Duration
	// OnChange is called whenever the displayed text changes.
	OnChange func(displayed string)
	// OnComplete is called once per run, when the full text is displayed.
	OnComplete func()
}

// Typing reveals a target string one character at a time.
//
// A run begins StartDelay after Start with an empty display. Character k is
// committed k*Speed after the run begins, and the step that commits the last
// character also completes the run. At most one run is in flight.
type Typing struct {
	sched Scheduler
	opts  TypingOptions

	text    []rune
	shown   int
	enabled bool

	typing   bool
	complete bool
	timer    Timer
}

// NewTyping creates an enabled, idle typing effect for text.
func NewTyping(s Scheduler, text string, opts TypingOptions) *Typing {
	if opts.Speed <= 0 {
		opts.Speed = DefaultTypingSpeed
	}
	if opts.StartDelay < 0 {
		opts.StartDelay = 0
	}
	return &Typing{
		sched:   s,
		opts:    opts,
		text:    []rune(text),
		enabled: true,
	}
}

// Start cancels any in-flight run and arms a new one. It does nothing while disabled.
func (t *Typing) Start() {
	t.cancel()
	if !t.enabled {
		return
	}
	if t.opts.StartDelay == 0 {
		t.begin()
		return
	}
	t.timer = t.sched.AfterFunc(t.opts.StartDelay, func() {
		t.timer = nil
		t.begin()
	})
}

// SetText replaces the target string and restarts when it differs.
func (t *Typing) SetText(text string) {
	if string(t.text) == text {
		return
	}
	t.cancel()
	t.setShown(0)
	t.text = []rune(text)
	t.complete = false
	t.Start()
}

// SetEnabled toggles the effect. Disabling cancels pending reveals and clears the
// display; enabling starts a fresh run.
func (t *Typing) SetEnabled(enabled bool) {
	if t.enabled == enabled {
		return
	}
	t.enabled = enabled
	if enabled {
		t.Start()
		return
	}
	t.cancel()
	t.typing = false
	t.complete = false
	t.setShown(0)
}

// Stop tears the effect down. The display is left as is and no callback fires
// afterwards.
func (t *Typing) Stop() {
	t.cancel()
	t.typing = false
}

// Displayed returns the revealed prefix.
func (t *Typing) Displayed() string {
	return string(t.text[:t.shown])
}

// IsTyping reports whether a run is revealing characters.
func (t *Typing) IsTyping() bool {
	return t.typing
}

// IsComplete reports whether the current run finished.
func (t *Typing) IsComplete() bool {
	return t.complete
}

// CursorVisible reports whether the blinking cursor should be drawn.
func (t *Typing) CursorVisible() bool {
	return t.typing || !t.complete
}

func (t *Typing) begin() {
	t.typing = true
	t.complete = false
	t.setShown(0)
	if len(t.text) == 0 {
		t.finish()
		return
	}
	t.schedule()
}

func (t *Typing) schedule() {
	t.timer = t.sched.AfterFunc(t.opts.Speed, func() {
		t.timer = nil
		t.step()
	})
}

func (t *Typing) step() {
	t.setShown(t.shown + 1)
	if t.shown >= len(t.text) {
		t.finish()
		return
	}
	t.schedule()
}

func (t *Typing) finish() {
	t.typing = false
	t.complete = true
	if t.opts.OnComplete != nil {
		t.opts.OnComplete()
	}
}

func (t *Typing) setShown(n int) {
	if n == t.shown {
		return
	}
	t.shown = n
	if t.opts.OnChange != nil {
		t.opts.OnChange(t.Displayed())
	}
}

func (t *Typing) cancel() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
