package site

import (
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/hugoce17/hugocodes/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNeonShadow(t *testing.T) {
	assert.Equal(t, "0 0 5px var(--neon-cyan), 0 0 10px var(--neon-cyan)", NeonShadow(theme.Cyan, GlowSubtle))
	assert.Equal(t, 5, strings.Count(NeonShadow(theme.Red, GlowIntense), "var(--neon-red)"))
	assert.Equal(t, NeonShadow(theme.Ice, GlowNormal), NeonShadow(theme.Ice, Glow("blinding")))
}

func TestFlickerOpacity(t *testing.T) {
	assert.Equal(t, 0.02, FlickerOpacity(effects.IntensitySubtle))
	assert.Equal(t, 0.04, FlickerOpacity(effects.IntensityNormal))
	assert.Equal(t, 0.08, FlickerOpacity(effects.IntensityHeavy))
	assert.Equal(t, 0.02, FlickerOpacity(""))
}

func TestScanLines(t *testing.T) {
	assert.Equal(t, "scan-line 8s linear infinite", DefaultScanLines.Animation())
	assert.Contains(t, DefaultScanLines.Static(), "transparent 3px")
	assert.True(t, strings.HasPrefix(DefaultScanLines.Beam(), "linear-gradient(to bottom, transparent, rgba(255, 255, 255, 0.0"))
}

func TestCircuit(t *testing.T) {
	page := Circuit{ID: "p", Color: theme.Cyan, Opacity: 0.15}
	card := Circuit{ID: "c", Color: theme.Electric, Card: true, Opacity: 0.08}

	assert.Equal(t, 1.0, page.Scale())
	assert.Equal(t, 0.5, card.Scale())

	svg := string(page.SVG())
	assert.Contains(t, svg, `<pattern id="p" x="0" y="0" width="200" height="200"`)
	assert.Contains(t, svg, "rgba(0, 255, 255, 0.1)")
	assert.Contains(t, svg, `fill="url(#p)"`)

	svg = string(card.SVG())
	assert.Contains(t, svg, `width="100" height="100"`)
	assert.Contains(t, svg, "rgba(100, 150, 255, 0.6)")

	// colours without a scheme fall back to cyan
	green := string(Circuit{ID: "g", Color: theme.Green}.SVG())
	assert.Contains(t, green, "rgba(0, 255, 255, 0.1)")
}

var widthRe = regexp.MustCompile(`width: ([0-9.]+)%`)

func TestFillKeyframes(t *testing.T) {
	css := FillKeyframes("fill", 95, 10)
	lines := strings.Split(strings.TrimSpace(css), "\n")
	require.Len(t, lines, 13)
	assert.Equal(t, "@keyframes fill {", lines[0])
	assert.Equal(t, "  0% { width: 0%; }", lines[1])
	assert.Equal(t, "  100% { width: 95.0%; }", lines[11])
	assert.Equal(t, "}", lines[12])

	prev := -1.0
	for _, m := range widthRe.FindAllStringSubmatch(css, -1) {
		w, err := strconv.ParseFloat(m[1], 64)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, w, prev)
		prev = w
	}

	// ease-out covers more than half the distance in the first half
	assert.Contains(t, lines[6], "50% { width:")
	half := widthRe.FindStringSubmatch(lines[6])
	v, err := strconv.ParseFloat(half[1], 64)
	require.NoError(t, err)
	assert.Greater(t, v, 47.5)
	// one tween advanced a tenth per keyframe follows the out-cubic curve
	assert.Equal(t, "  50% { width: 83.1%; }", lines[6])
}

func TestFillKeyframes_MinimumOneStep(t *testing.T) {
	css := FillKeyframes("one", 40, 0)
	assert.Contains(t, css, "  100% { width: 40.0%; }")
}

func TestSkillsCSS(t *testing.T) {
	css := SkillsCSS([]resume.SkillCategory{
		{ID: "go", Category: "Go", Skills: []string{"gin"}, Proficiency: 80},
		{ID: "sql", Category: "SQL", Skills: []string{"sqlite"}, Proficiency: 60},
	})
	assert.Contains(t, css, "@keyframes skill-fill-go {")
	assert.Contains(t, css, ".skill-fill-go { width: 80%; animation: skill-fill-go 1s linear 0.2s both; }")
	assert.Contains(t, css, ".skill-fill-sql { width: 60%; animation: skill-fill-sql 1s linear 0.3s both; }")
}

func TestThemeCSS(t *testing.T) {
	css := ThemeCSS(DefaultScanLines)
	assert.Contains(t, css, "--cyber-dark: #0a0a0f;")
	for _, c := range theme.Palette {
		assert.Contains(t, css, ".neon-"+string(c)+" { color: var(--neon-"+string(c)+"); }")
		assert.Contains(t, css, ".badge-"+string(c)+" {")
	}
	assert.Contains(t, css, ".scan-beam {")
}
