// Package terminal renders the portfolio in a terminal with the same effects
// as the web page: the typed hero title, glitching headings, the scroll
// progress bar, a drifting circuit background and one-shot section reveal.
package terminal

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/hugoce17/hugocodes/internal/theme"
	"github.com/mattn/go-runewidth"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/sync/errgroup"
)

// Hero name glitch, as on the web page.
const (
	heroBurstDelay    = 300 * time.Millisecond
	heroBurstDuration = 500 * time.Millisecond
)

// Options configures a Viewer.
type Options struct {
	TypingSpeed      time.Duration
	TypingStartDelay time.Duration
	GlitchWait       effects.Window
	GlitchActive     effects.Window
	// FlowBand is the scroll distance, in rows, between circuit flow flips.
	FlowBand float64
	// FrameInterval paces the scan line, circuit drift and bar fills.
	FrameInterval time.Duration
	// RevealMargin is how many rows inside the viewport a section must be
	// before it reveals.
	RevealMargin float64
	Rand         effects.Rand
	Year         int
}

// DefaultOptions returns the options used by the term command.
func DefaultOptions() Options {
	return Options{
		TypingSpeed:      60 * time.Millisecond,
		TypingStartDelay: time.Second,
		GlitchWait:       effects.DefaultGlitchWait,
		GlitchActive:     effects.DefaultGlitchActive,
		FlowBand:         12,
		FrameInterval:    50 * time.Millisecond,
		RevealMargin:     2,
		Year:             time.Now().Year(),
	}
}

// barFill animates a skill bar from empty to its target.
type barFill struct {
	tween *gween.Tween
	delay float32
	value float32
}

// Viewer draws the resume on a tcell screen. All methods except Run must be
// called on the scheduler goroutine.
type Viewer struct {
	screen tcell.Screen
	sched  effects.Scheduler
	res    *resume.Resume
	opts   Options

	doc           *document
	width, height int
	offset        int

	tracker  *effects.ScrollTracker
	reveals  []*effects.Reveal
	glitches map[string]*effects.Glitch
	burst    *effects.Burst
	typing   *effects.Typing
	frames   *effects.Repeater
	bars     map[string]*barFill

	scanRow int
	phase   int
}

// New creates a viewer. Mount starts it.
func New(screen tcell.Screen, sched effects.Scheduler, r *resume.Resume, opts Options) *Viewer {
	if opts.FrameInterval <= 0 {
		opts.FrameInterval = 50 * time.Millisecond
	}
	return &Viewer{
		screen:   screen,
		sched:    sched,
		res:      r,
		opts:     opts,
		tracker:  effects.NewScrollTracker(opts.FlowBand),
		glitches: make(map[string]*effects.Glitch),
		bars:     make(map[string]*barFill),
	}
}

// viewHeight is the number of content rows below the progress bar.
func (v *Viewer) viewHeight() int {
	if v.height < 2 {
		return 1
	}
	return v.height - 1
}

func (v *Viewer) maxOffset() int {
	return max(v.doc.height-v.viewHeight(), 0)
}

// Mount lays out the document and starts every effect.
func (v *Viewer) Mount() {
	v.width, v.height = v.screen.Size()
	v.doc = layout(v.res, v.width, v.viewHeight(), v.opts.Year)
	v.reveals = make([]*effects.Reveal, len(v.doc.blocks))
	for i := range v.reveals {
		v.reveals[i] = &effects.Reveal{Margin: v.opts.RevealMargin}
	}

	v.typing = effects.NewTyping(v.sched, v.res.Personal.Title, effects.TypingOptions{
		Speed:      v.opts.TypingSpeed,
		StartDelay: v.opts.TypingStartDelay,
		OnChange:   func(string) { v.Draw() },
		OnComplete: v.Draw,
	})
	v.burst = effects.NewBurst(v.sched, heroBurstDelay, heroBurstDuration, func(bool) { v.Draw() })
	for _, sec := range theme.Sections {
		if !sec.HasHeading() {
			continue
		}
		g := effects.NewGlitch(v.sched, effects.GlitchOptions{
			Mode:     effects.GlitchRandom,
			Wait:     v.opts.GlitchWait,
			Active:   v.opts.GlitchActive,
			Rand:     v.opts.Rand,
			OnChange: func(bool) { v.Draw() },
		})
		v.glitches[sec.ID] = g
	}
	v.frames = effects.NewRepeater(v.sched, effects.Every(v.opts.FrameInterval), v.frame)

	v.scrollTo(0)
	v.typing.Start()
	v.burst.Start()
	for _, g := range v.glitches {
		g.Start()
	}
	v.frames.Start()
	v.Draw()
}

// Unmount stops every effect.
func (v *Viewer) Unmount() {
	if v.typing != nil {
		v.typing.Stop()
	}
	if v.burst != nil {
		v.burst.Stop()
	}
	for _, g := range v.glitches {
		g.Stop()
	}
	if v.frames != nil {
		v.frames.Stop()
	}
}

// Scroll returns the current scroll state.
func (v *Viewer) Scroll() effects.ScrollState {
	return v.tracker.State()
}

// Revealed reports whether the section has been revealed.
func (v *Viewer) Revealed(id string) bool {
	i, ok := v.doc.blockByID(id)
	return ok && v.reveals[i].Visible()
}

func (v *Viewer) scrollTo(offset int) {
	v.offset = min(max(offset, 0), v.maxOffset())
	v.tracker.Notify(effects.Metrics{
		Offset:         float64(v.offset),
		DocumentHeight: float64(v.doc.height),
		ViewportHeight: float64(v.viewHeight()),
	})
	for i, b := range v.doc.blocks {
		r := v.reveals[i]
		if r.Visible() {
			continue
		}
		if r.Observe(float64(b.top), float64(b.height()), float64(v.offset), float64(v.viewHeight())) {
			v.startBars(b)
		}
	}
}

// startBars begins the fill of every bar in a newly revealed block. Bars
// start in sequence, 100ms apart.
func (v *Viewer) startBars(b block) {
	n := 0
	for _, l := range b.lines {
		if l.kind != lineBar {
			continue
		}
		v.bars[l.skillID] = &barFill{
			tween: gween.New(0, float32(l.target), 1, ease.OutCubic),
			delay: 0.2 + 0.1*float32(n),
		}
		n++
	}
}

func (v *Viewer) frame() {
	v.scanRow = (v.scanRow + 1) % v.viewHeight()
	if v.tracker.State().Flow == effects.FlowRight {
		v.phase--
	} else {
		v.phase++
	}

	dt := float32(v.opts.FrameInterval.Seconds())
	for _, b := range v.bars {
		step := dt
		if b.delay > 0 {
			b.delay -= step
			if b.delay > 0 {
				continue
			}
			step = -b.delay
			b.delay = 0
		}
		b.value, _ = b.tween.Update(step)
	}
	v.Draw()
}

// Handle processes one terminal event and reports whether the viewer should
// keep running.
func (v *Viewer) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			return false
		case tcell.KeyUp:
			v.scrollTo(v.offset - 1)
		case tcell.KeyDown:
			v.scrollTo(v.offset + 1)
		case tcell.KeyPgUp:
			v.scrollTo(v.offset - v.viewHeight())
		case tcell.KeyPgDn:
			v.scrollTo(v.offset + v.viewHeight())
		case tcell.KeyHome:
			v.scrollTo(0)
		case tcell.KeyEnd:
			v.scrollTo(v.maxOffset())
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q':
				return false
			case 'k':
				v.scrollTo(v.offset - 1)
			case 'j':
				v.scrollTo(v.offset + 1)
			case ' ':
				v.scrollTo(v.offset + v.viewHeight())
			case 'g':
				v.scrollTo(0)
			case 'G':
				v.scrollTo(v.maxOffset())
			}
		}

	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			v.scrollTo(v.offset - 3)
		case ev.Buttons()&tcell.WheelDown != 0:
			v.scrollTo(v.offset + 3)
		}

	case *tcell.EventResize:
		v.resize()
	}
	v.Draw()
	return true
}

// resize lays the document out again, keeping the reading position in
// proportion and every section already revealed.
func (v *Viewer) resize() {
	progress := v.tracker.State().Progress
	v.width, v.height = v.screen.Size()
	v.doc = layout(v.res, v.width, v.viewHeight(), v.opts.Year)
	if v.scanRow >= v.viewHeight() {
		v.scanRow = 0
	}
	v.scrollTo(int(math.Round(progress * float64(v.maxOffset()))))
}

var (
	styleBase    = tcell.StyleDefault.Background(color(theme.Background)).Foreground(tcell.NewRGBColor(220, 220, 230))
	styleMuted   = styleBase.Foreground(tcell.NewRGBColor(120, 120, 140))
	styleTrack   = styleBase.Foreground(tcell.NewRGBColor(40, 40, 55))
	styleCircuit = styleBase.Foreground(tcell.NewRGBColor(0, 70, 70))
	scanBg       = tcell.NewRGBColor(22, 22, 32)
)

func color(hex string) tcell.Color {
	return tcell.GetColor(hex)
}

func neon(c theme.NeonColor) tcell.Style {
	return styleBase.Foreground(color(c.Hex()))
}

// Draw renders the current frame.
func (v *Viewer) Draw() {
	if v.doc == nil {
		return
	}
	v.screen.SetStyle(styleBase)
	v.screen.Clear()
	v.drawCircuit()

	for i, b := range v.doc.blocks {
		if !v.reveals[i].Visible() {
			continue
		}
		for k, l := range b.lines {
			row := b.top + k - v.offset + 1
			if row < 1 || row >= v.height {
				continue
			}
			v.drawLine(row, b.section, l)
		}
	}

	v.drawScanLine()
	v.drawProgress()
	v.screen.Show()
}

// drawCircuit draws the background grid, shifted by the drift phase.
func (v *Viewer) drawCircuit() {
	const cellW, cellH = 20, 6
	for row := 1; row < v.height; row++ {
		py := mod(row-1+v.offset, cellH)
		for x := 0; x < v.width; x++ {
			px := mod(x+v.phase, cellW)
			var r rune
			switch {
			case py == 0 && px == cellW/2:
				r = '┼'
			case py == 0:
				r = '─'
			case px == cellW/2:
				r = '│'
			default:
				continue
			}
			v.screen.SetContent(x, row, r, nil, styleCircuit)
		}
	}
}

func (v *Viewer) drawLine(row int, sec theme.Section, l line) {
	left := (v.width - v.doc.width) / 2
	switch l.kind {
	case lineBlank:
		return

	case lineName:
		x := v.center(l.text)
		if v.burst.Active() {
			v.drawGlitched(x, row, l.text, l.color)
			return
		}
		v.drawText(x, row, l.text, neon(l.color).Bold(true))

	case lineTyped:
		x := v.center(l.text)
		shown := v.typing.Displayed()
		end := v.drawText(x, row, shown, styleBase)
		if v.typing.CursorVisible() {
			v.screen.SetContent(end, row, '_', nil, neon(theme.Cyan).Blink(true))
		}

	case lineHeading:
		g := v.glitches[sec.ID]
		if g != nil && g.Active() {
			v.drawGlitched(left, row, l.text, l.color)
			return
		}
		v.drawText(left, row, l.text, neon(l.color).Bold(true))

	case lineBar:
		v.drawBar(left, row, l)

	default:
		x := left
		if l.centered {
			x = v.center(l.text)
		}
		style := styleBase
		switch l.kind {
		case lineMuted:
			style = styleMuted
		case lineAccent:
			style = neon(l.color)
		}
		v.drawText(x, row, l.text, style)
	}
}

func (v *Viewer) center(s string) int {
	return max((v.width-runewidth.StringWidth(s))/2, 0)
}

// drawText writes s from column x and returns the column after it.
func (v *Viewer) drawText(x, y int, s string, style tcell.Style) int {
	for _, r := range s {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, y, r, nil, style)
		x += runewidth.RuneWidth(r)
	}
	return x
}

// drawGlitched draws text offset by one column with its letters split
// between magenta and cyan.
func (v *Viewer) drawGlitched(x, y int, s string, base theme.NeonColor) {
	split := []tcell.Style{neon(theme.Magenta), neon(theme.Cyan)}
	x++
	for i, r := range s {
		if x >= v.width {
			break
		}
		style := neon(base)
		if r != ' ' {
			style = split[i%2]
		}
		v.screen.SetContent(x, y, r, nil, style.Bold(true))
		x += runewidth.RuneWidth(r)
	}
}

func (v *Viewer) drawBar(x, y int, l line) {
	track := v.doc.width - 6
	var value float32
	if b, ok := v.bars[l.skillID]; ok {
		value = b.value
	}
	filled := int(math.Round(float64(value) / 100 * float64(track)))
	for i := 0; i < track; i++ {
		if i < filled {
			v.screen.SetContent(x+i, y, '█', nil, neon(l.color))
		} else {
			v.screen.SetContent(x+i, y, '░', nil, styleTrack)
		}
	}
	v.drawText(x+track+1, y, formatPercent(int(math.Round(float64(value)))), styleMuted)
}

func formatPercent(n int) string {
	s := []byte("   %")
	for i := 2; i >= 0; i-- {
		s[i] = byte('0' + n%10)
		n /= 10
		if n == 0 {
			break
		}
	}
	return string(s)
}

func (v *Viewer) drawScanLine() {
	row := v.scanRow + 1
	for x := 0; x < v.width; x++ {
		r, comb, style, _ := v.screen.GetContent(x, row)
		v.screen.SetContent(x, row, r, comb, style.Background(scanBg))
	}
}

// drawProgress draws the scroll progress bar on the top row.
func (v *Viewer) drawProgress() {
	filled := int(math.Round(v.tracker.State().Progress * float64(v.width)))
	from, to := theme.Cyan, theme.Magenta
	fr, fg, fb := from.RGB()
	tr, tg, tb := to.RGB()
	for x := 0; x < v.width; x++ {
		if x >= filled {
			v.screen.SetContent(x, 0, ' ', nil, styleBase)
			continue
		}
		t := float64(x) / float64(max(v.width-1, 1))
		c := tcell.NewRGBColor(lerp(fr, tr, t), lerp(fg, tg, t), lerp(fb, tb, t))
		v.screen.SetContent(x, 0, '━', nil, styleBase.Foreground(c))
	}
}

func lerp(a, b uint8, t float64) int32 {
	return int32(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func mod(i, n int) int {
	return ((i % n) + n) % n
}

// Run drives the viewer on loop until ctx ends or the user quits. Stopping
// the loop cancels every effect timer. The caller owns the screen.
func (v *Viewer) Run(ctx context.Context, loop *effects.Loop) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	loop.Post(v.Mount)

	events := make(chan tcell.Event, 16)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := loop.Run(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		v.screen.ChannelEvents(events, gctx.Done())
		return nil
	})
	g.Go(func() error {
		for ev := range events {
			loop.Post(func() {
				if !v.Handle(ev) {
					cancel()
				}
			})
		}
		return nil
	})

	return g.Wait()
}
