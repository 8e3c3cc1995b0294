package terminal

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/hugoce17/hugocodes/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// minRand always draws the low end of a window.
type minRand struct{}

func (minRand) Int64N(int64) int64 { return 0 }

func testOptions() Options {
	return Options{
		TypingSpeed:      10 * time.Millisecond,
		TypingStartDelay: 100 * time.Millisecond,
		GlitchWait:       effects.Window{Min: time.Second, Max: 2 * time.Second},
		GlitchActive:     effects.Window{Min: 200 * time.Millisecond, Max: 300 * time.Millisecond},
		FlowBand:         12,
		FrameInterval:    50 * time.Millisecond,
		RevealMargin:     2,
		Rand:             minRand{},
		Year:             2025,
	}
}

type harness struct {
	screen tcell.SimulationScreen
	clock  *effects.ManualClock
	viewer *Viewer
	res    *resume.Resume
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	t.Cleanup(screen.Fini)
	screen.SetSize(80, 24)

	r, err := resume.Default()
	require.NoError(t, err)
	clock := effects.NewManualClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	v := New(screen, clock, r, testOptions())
	v.Mount()
	return &harness{screen: screen, clock: clock, viewer: v, res: r}
}

func (h *harness) row(y int) string {
	w, _ := h.screen.Size()
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := h.screen.GetContent(x, y)
		b.WriteRune(r)
	}
	return b.String()
}

func (h *harness) cell(x, y int) rune {
	r, _, _, _ := h.screen.GetContent(x, y)
	return r
}

func (h *harness) key(k tcell.Key, r rune) bool {
	return h.viewer.Handle(tcell.NewEventKey(k, r, tcell.ModNone))
}

// Hero rows on a 24 row screen: 23 content rows, name on doc row 8.
const (
	nameRow  = 9
	titleRow = 11
)

func TestViewer_HeroTyping(t *testing.T) {
	h := newHarness(t)

	assert.Contains(t, h.row(nameRow), "HUGO CEDANO")
	assert.Contains(t, h.row(titleRow), "_")
	assert.NotContains(t, h.row(titleRow), "Software")

	h.clock.Advance(100*time.Millisecond + 4*10*time.Millisecond)
	assert.Contains(t, h.row(titleRow), "Soft_")

	h.clock.Advance(200 * time.Millisecond)
	assert.Contains(t, h.row(titleRow), "Software Engineer")
	assert.NotContains(t, h.row(titleRow), "_")
}

func TestViewer_HeroBurst(t *testing.T) {
	h := newHarness(t)
	x := (80 - len("HUGO CEDANO")) / 2

	assert.Equal(t, 'H', h.cell(x, nameRow))

	h.clock.Advance(350 * time.Millisecond)
	assert.Equal(t, 'H', h.cell(x+1, nameRow))

	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 'H', h.cell(x, nameRow))
}

func TestViewer_ScrollProgressAndReveal(t *testing.T) {
	h := newHarness(t)
	v := h.viewer

	assert.True(t, v.Revealed("hero"))
	assert.False(t, v.Revealed("about"))
	assert.Equal(t, 0.0, v.Scroll().Progress)

	require.True(t, h.key(tcell.KeyEnd, 0))
	assert.Equal(t, 1.0, v.Scroll().Progress)
	assert.Equal(t, effects.DirectionDown, v.Scroll().Direction)
	assert.Equal(t, strings.Repeat("━", 80), h.row(0))
	assert.True(t, v.Revealed("contact"))
	assert.Contains(t, h.row(22), "All rights reserved.")

	require.True(t, h.key(tcell.KeyHome, 0))
	assert.Equal(t, 0.0, v.Scroll().Progress)
	assert.Equal(t, effects.DirectionUp, v.Scroll().Direction)
	assert.True(t, v.Revealed("contact"), "reveal is one-shot")
	assert.Equal(t, strings.Repeat(" ", 80), h.row(0))
}

func TestViewer_PageDownRevealsNextSection(t *testing.T) {
	h := newHarness(t)
	v := h.viewer

	require.True(t, h.key(tcell.KeyPgDn, 0))
	assert.True(t, v.Revealed("about"))
	assert.Contains(t, h.row(2), "ABOUT")
}

func TestViewer_CircuitFlow(t *testing.T) {
	h := newHarness(t)
	v := h.viewer

	for i := 0; i < 11; i++ {
		h.key(tcell.KeyRune, 'j')
	}
	assert.Equal(t, effects.FlowRight, v.Scroll().Flow)

	h.key(tcell.KeyRune, 'j')
	assert.Equal(t, effects.FlowLeft, v.Scroll().Flow)

	phase := v.phase
	h.clock.Advance(50 * time.Millisecond)
	assert.Equal(t, phase+1, v.phase)

	h.key(tcell.KeyRune, 'k')
	assert.Equal(t, effects.FlowRight, v.Scroll().Flow)
	h.clock.Advance(50 * time.Millisecond)
	assert.Equal(t, phase, v.phase)
}

func TestViewer_HeadingGlitch(t *testing.T) {
	h := newHarness(t)
	h.key(tcell.KeyPgDn, 0)

	// about heading: content column starts at 2
	assert.Equal(t, 'A', h.cell(2, 2))

	h.clock.Advance(1100 * time.Millisecond)
	assert.Equal(t, 'A', h.cell(3, 2))
	_, _, style, _ := h.screen.GetContent(3, 2)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.GetColor(theme.Magenta.Hex()), fg)

	h.clock.Advance(200 * time.Millisecond)
	assert.Equal(t, 'A', h.cell(2, 2))
}

func TestViewer_SkillBarsFill(t *testing.T) {
	h := newHarness(t)
	v := h.viewer

	i, ok := v.doc.blockByID("skills")
	require.True(t, ok)
	v.scrollTo(v.doc.blocks[i].top)
	require.True(t, v.Revealed("skills"))
	require.Contains(t, v.bars, "frontend")
	assert.Zero(t, v.bars["frontend"].value)

	h.clock.Advance(700 * time.Millisecond)
	mid := v.bars["frontend"].value
	assert.Greater(t, mid, float32(0))
	assert.Less(t, mid, float32(95))

	h.clock.Advance(2 * time.Second)
	for _, c := range h.res.Skills {
		assert.Equal(t, float32(resume.AverageProficiency(c.Entries())), v.bars[c.ID].value, c.ID)
	}
}

func TestViewer_Quit(t *testing.T) {
	h := newHarness(t)

	assert.True(t, h.key(tcell.KeyRune, 'j'))
	assert.False(t, h.key(tcell.KeyRune, 'q'))
	assert.False(t, h.key(tcell.KeyEscape, 0))
	assert.False(t, h.key(tcell.KeyCtrlC, 0))
}

func TestViewer_Resize(t *testing.T) {
	h := newHarness(t)
	v := h.viewer
	h.key(tcell.KeyEnd, 0)

	h.screen.SetSize(120, 40)
	require.True(t, v.Handle(tcell.NewEventResize(120, 40)))

	assert.Equal(t, maxContentWidth, v.doc.width)
	assert.Equal(t, 39, v.doc.blocks[0].height())
	assert.Equal(t, 1.0, v.Scroll().Progress)
	assert.True(t, v.Revealed("contact"))
}

func TestViewer_Unmount(t *testing.T) {
	h := newHarness(t)
	require.Positive(t, h.clock.Pending())

	h.viewer.Unmount()
	assert.Zero(t, h.clock.Pending())
}

func TestViewer_Run(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()
	screen.SetSize(80, 24)

	r, err := resume.Default()
	require.NoError(t, err)
	loop := effects.NewLoop()
	v := New(screen, loop, r, testOptions())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- v.Run(ctx, loop) }()

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-ctx.Done():
		t.Fatal("viewer did not stop")
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "  0%", formatPercent(0))
	assert.Equal(t, " 45%", formatPercent(45))
	assert.Equal(t, "100%", formatPercent(100))
}
