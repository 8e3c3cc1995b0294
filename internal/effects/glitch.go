package effects

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// GlitchMode selects when a glitch is active.
type GlitchMode int

const (
	// GlitchAlways keeps the effect permanently active.
	GlitchAlways GlitchMode = iota
	// GlitchHover activates the effect only while the pointer hovers.
	GlitchHover
	// GlitchRandom self-schedules random activation windows.
	GlitchRandom
)

func (m GlitchMode) String() string {
	switch m {
	case GlitchAlways:
		return "always"
	case GlitchHover:
		return "hover"
	case GlitchRandom:
		return "random"
	default:
		return fmt.Sprintf("GlitchMode(%d)", int(m))
	}
}

// ParseGlitchMode parses "always", "hover" or "random".
func ParseGlitchMode(s string) (GlitchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return GlitchAlways, nil
	case "hover":
		return GlitchHover, nil
	case "random":
		return GlitchRandom, nil
	}
	return 0, fmt.Errorf("unknown glitch mode %q", s)
}

// Intensity is the visual strength of a glitch.
type Intensity string

const (
	IntensitySubtle Intensity = "subtle"
	IntensityNormal Intensity = "normal"
	IntensityHeavy  Intensity = "heavy"
)

// Class returns the stylesheet class for the intensity.
func (i Intensity) Class() string {
	switch i {
	case IntensitySubtle:
		return "glitch-subtle"
	case IntensityHeavy:
		return "glitch-heavy"
	default:
		return "glitch-random"
	}
}

// DelayClass returns the stylesheet class staggering glitch animations.
// Variants outside 1..5 have no class.
func DelayClass(variant int) string {
	if variant < 1 || variant > 5 {
		return ""
	}
	return fmt.Sprintf("glitch-delay-%d", variant)
}

// Rand is the random source used to draw durations.
type Rand interface {
	Int64N(n int64) int64
}

// Window is a closed-open duration interval [Min, Max).
type Window struct {
	Min time.Duration
	Max time.Duration
}

// Draw picks a duration uniformly from the window. A degenerate window yields Min.
func (w Window) Draw(r Rand) time.Duration {
	if w.Max <= w.Min {
		return w.Min
	}
	return w.Min + time.Duration(r.Int64N(int64(w.Max-w.Min)))
}

var (
	// DefaultGlitchWait is the idle interval between random glitches.
	DefaultGlitchWait = Window{Min: 3 * time.Second, Max: 10 * time.Second}
	// DefaultGlitchActive is the length of a random glitch.
	DefaultGlitchActive = Window{Min: 500 * time.Millisecond, Max: time.Second}
)

// GlitchOptions configures a Glitch.
type GlitchOptions struct {
	Mode GlitchMode
	// Wait and Active bound the random schedule. Zero windows use the defaults.
	Wait   Window
	Active Window
	// Rand draws random durations; nil uses a time-seeded source.
	Rand Rand
	// OnChange is called when the active state flips.
	OnChange func(active bool)
}

// Glitch toggles a visual glitch on and off according to its mode.
//
// In random mode every cycle waits, activates, deactivates, and only then arms
// the next wait, so activation windows never overlap.
type Glitch struct {
	sched Scheduler
	opts  GlitchOptions

	active  bool
	hover   bool
	running bool
	windows int
	timer   Timer
}

// NewGlitch creates a stopped glitch.
func NewGlitch(s Scheduler, opts GlitchOptions) *Glitch {
	if opts.Wait == (Window{}) {
		opts.Wait = DefaultGlitchWait
	}
	if opts.Active == (Window{}) {
		opts.Active = DefaultGlitchActive
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	return &Glitch{sched: s, opts: opts}
}

// Mode returns the configured mode.
func (g *Glitch) Mode() GlitchMode {
	return g.opts.Mode
}

// Start mounts the effect.
func (g *Glitch) Start() {
	if g.running {
		return
	}
	g.running = true
	switch g.opts.Mode {
	case GlitchAlways:
		g.set(true)
	case GlitchHover:
		g.set(g.hover)
	case GlitchRandom:
		g.wait()
	}
}

// Stop unmounts the effect and cancels any pending timer.
func (g *Glitch) Stop() {
	g.running = false
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.set(false)
}

// SetHover records the pointer hover state. Only hover mode reacts to it.
func (g *Glitch) SetHover(hover bool) {
	g.hover = hover
	if g.running && g.opts.Mode == GlitchHover {
		g.set(hover)
	}
}

// Active reports whether the glitch is on.
func (g *Glitch) Active() bool {
	return g.active
}

func (g *Glitch) wait() {
	g.timer = g.sched.AfterFunc(g.opts.Wait.Draw(g.opts.Rand), func() {
		g.timer = nil
		g.activate()
	})
}

func (g *Glitch) activate() {
	g.set(true)
	g.timer = g.sched.AfterFunc(g.opts.Active.Draw(g.opts.Rand), func() {
		g.timer = nil
		g.set(false)
		g.windows++
		if g.running {
			g.wait()
		}
	})
}

func (g *Glitch) set(active bool) {
	if g.active == active {
		return
	}
	g.active = active
	if g.opts.OnChange != nil {
		g.opts.OnChange(active)
	}
}

// Burst is a single activation window: on after Delay, off Duration later.
type Burst struct {
	sched    Scheduler
	delay    time.Duration
	duration time.Duration
	onChange func(active bool)

	active bool
	timer  Timer
}

// NewBurst creates an idle burst.
func NewBurst(s Scheduler, delay, duration time.Duration, onChange func(active bool)) *Burst {
	return &Burst{sched: s, delay: delay, duration: duration, onChange: onChange}
}

// Start arms the burst, cancelling a previous one.
func (b *Burst) Start() {
	b.Stop()
	b.timer = b.sched.AfterFunc(b.delay, func() {
		b.set(true)
		b.timer = b.sched.AfterFunc(b.duration, func() {
			b.timer = nil
			b.set(false)
		})
	})
}

// Stop cancels the burst and turns it off.
func (b *Burst) Stop() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	b.set(false)
}

// Active reports whether the burst window is open.
func (b *Burst) Active() bool {
	return b.active
}

func (b *Burst) set(active bool) {
	if b.active == active {
		return
	}
	b.active = active
	if b.onChange != nil {
		b.onChange(active)
	}
}
