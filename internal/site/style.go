package site

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/hugoce17/hugocodes/internal/theme"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Glow is the spread of a neon text shadow.
type Glow string

const (
	GlowSubtle  Glow = "subtle"
	GlowNormal  Glow = "normal"
	GlowIntense Glow = "intense"
)

var glowRadii = map[Glow][]int{
	GlowSubtle:  {5, 10},
	GlowNormal:  {5, 10, 20, 40},
	GlowIntense: {5, 10, 20, 40, 80},
}

// NeonShadow builds the text-shadow value for a colour and glow. Unknown
// glows render as normal.
func NeonShadow(c theme.NeonColor, g Glow) string {
	radii, ok := glowRadii[g]
	if !ok {
		radii = glowRadii[GlowNormal]
	}
	parts := make([]string, len(radii))
	for i, r := range radii {
		parts[i] = fmt.Sprintf("0 0 %dpx %s", r, c.Var())
	}
	return strings.Join(parts, ", ")
}

// FlickerOpacity is the darkening of the CRT flicker overlay.
func FlickerOpacity(i effects.Intensity) float64 {
	switch i {
	case effects.IntensityNormal:
		return 0.04
	case effects.IntensityHeavy:
		return 0.08
	default:
		return 0.02
	}
}

// ScanLines configures the CRT scan-line overlay.
type ScanLines struct {
	Opacity float64
	// Speed is the seconds one sweep of the moving line takes.
	Speed       float64
	LineSpacing int
}

// DefaultScanLines matches the hero overlay.
var DefaultScanLines = ScanLines{Opacity: 0.03, Speed: 8, LineSpacing: 4}

// Static is the background of the fixed horizontal lines.
func (s ScanLines) Static() string {
	return fmt.Sprintf("repeating-linear-gradient(0deg, transparent, transparent %dpx, "+
		"rgba(255, 255, 255, %g) %dpx, rgba(255, 255, 255, %g) %dpx)",
		s.LineSpacing-1, s.Opacity, s.LineSpacing-1, s.Opacity, s.LineSpacing)
}

// Beam is the background of the moving line.
func (s ScanLines) Beam() string {
	return fmt.Sprintf("linear-gradient(to bottom, transparent, rgba(255, 255, 255, %g), transparent)", s.Opacity*3)
}

// Animation is the animation shorthand of the moving line.
func (s ScanLines) Animation() string {
	return fmt.Sprintf("scan-line %gs linear infinite", s.Speed)
}

type circuitScheme struct {
	glow string
	dim  string
}

var circuitSchemes = map[theme.NeonColor]circuitScheme{
	theme.Cyan:     {glow: "rgba(0, 255, 255, 0.6)", dim: "rgba(0, 255, 255, 0.1)"},
	theme.Magenta:  {glow: "rgba(255, 0, 128, 0.6)", dim: "rgba(255, 0, 128, 0.1)"},
	theme.Electric: {glow: "rgba(100, 150, 255, 0.6)", dim: "rgba(100, 150, 255, 0.1)"},
}

// Circuit renders the circuit-board SVG background.
type Circuit struct {
	ID    string
	Color theme.NeonColor
	// Card halves the pattern scale.
	Card    bool
	Opacity float64
}

// Scale is the pattern scale factor.
func (c Circuit) Scale() float64 {
	if c.Card {
		return 0.5
	}
	return 1
}

// SVG returns the inline SVG markup. Colours without a scheme use cyan.
func (c Circuit) SVG() template.HTML {
	scheme, ok := circuitSchemes[c.Color]
	if !ok {
		scheme = circuitSchemes[theme.Cyan]
	}
	s := c.Scale()
	n := func(v float64) string { return fmt.Sprintf("%g", v*s) }
	dim := scheme.dim

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="circuit" xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="xMidYMid slice" style="opacity: %g" aria-hidden="true">`, c.Opacity)
	fmt.Fprintf(&b, `<defs><pattern id="%s" x="0" y="0" width="%s" height="%s" patternUnits="userSpaceOnUse">`, c.ID, n(200), n(200))
	for _, y := range []float64{20, 80, 140} {
		fmt.Fprintf(&b, `<line x1="0" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`, n(y), n(200), n(y), dim)
	}
	for _, x := range []float64{40, 100, 160} {
		fmt.Fprintf(&b, `<line x1="%s" y1="0" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`, n(x), n(x), n(200), dim)
	}
	for _, y := range []float64{20, 80, 140} {
		for _, x := range []float64{40, 100, 160} {
			r := 3.0
			if x == 100 && y == 80 {
				r = 4
			}
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s"/>`, n(x), n(y), n(r), dim)
		}
	}
	for _, p := range [][2]float64{{40, 20}, {160, 20}, {40, 140}, {160, 140}} {
		fmt.Fprintf(&b, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="1"/>`, n(p[0]), n(p[1]), n(100), n(80), dim)
	}
	fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="none" stroke="%s" stroke-width="1" rx="2"/>`, n(85), n(65), n(30), n(30), dim)
	fmt.Fprintf(&b, `</pattern></defs><rect width="100%%" height="100%%" fill="url(#%s)" style="filter: drop-shadow(0 0 2px %s)"/></svg>`, c.ID, scheme.glow)
	return template.HTML(b.String())
}

// ThemeCSS generates the palette stylesheet: colour variables, neon text
// classes, scan lines and flicker overlays.
func ThemeCSS(scan ScanLines) string {
	var b strings.Builder
	b.WriteString(":root {\n")
	fmt.Fprintf(&b, "  --cyber-dark: %s;\n", theme.Background)
	for _, c := range theme.Palette {
		fmt.Fprintf(&b, "  --neon-%s: %s;\n", c, c.Hex())
	}
	b.WriteString("}\n")

	for _, c := range theme.Palette {
		fmt.Fprintf(&b, ".neon-%s { color: %s; }\n", c, c.Var())
		for _, g := range []Glow{GlowSubtle, GlowNormal, GlowIntense} {
			fmt.Fprintf(&b, ".neon-%s.glow-%s { text-shadow: %s; }\n", c, g, NeonShadow(c, g))
		}
		r, g, bl := c.RGB()
		fmt.Fprintf(&b, ".dot-%s { background: %s; box-shadow: 0 0 10px %s, 0 0 20px %s; }\n", c, c.Var(), c.Var(), c.Var())
		fmt.Fprintf(&b, ".accent-%s { border-color: rgba(%d, %d, %d, 0.5); }\n", c, r, g, bl)
		fmt.Fprintf(&b, ".badge-%s { color: %s; background: rgba(%d, %d, %d, 0.15); border: 1px solid rgba(%d, %d, %d, 0.4); box-shadow: 0 0 8px rgba(%d, %d, %d, 0.3); }\n",
			c, c.Var(), r, g, bl, r, g, bl, r, g, bl)
		fmt.Fprintf(&b, ".bar-%s { background: linear-gradient(to right, %s, rgba(%d, %d, %d, 0.6)); box-shadow: 0 0 10px %s; }\n",
			c, c.Var(), r, g, bl, c.Var())
	}

	fmt.Fprintf(&b, ".scan-lines { background-image: %s; }\n", scan.Static())
	fmt.Fprintf(&b, ".scan-beam { background: %s; animation: %s; }\n", scan.Beam(), scan.Animation())
	for _, i := range []effects.Intensity{effects.IntensitySubtle, effects.IntensityNormal, effects.IntensityHeavy} {
		fmt.Fprintf(&b, ".crt-flicker-%s { background: rgba(0, 0, 0, %g); }\n", i, FlickerOpacity(i))
	}
	return b.String()
}

// fillSteps is the number of sampled keyframes per skill bar.
const fillSteps = 10

// FillKeyframes samples an ease-out fill from 0 to target percent into a CSS
// keyframes block.
func FillKeyframes(name string, target int, steps int) string {
	if steps < 1 {
		steps = 1
	}
	var b strings.Builder
	fmt.Fprintf(&b, "@keyframes %s {\n  0%% { width: 0%%; }\n", name)
	tw := gween.New(0, float32(target), 1, ease.OutCubic)
	dt := 1 / float32(steps)
	for i := 1; i <= steps; i++ {
		v, _ := tw.Update(dt)
		fmt.Fprintf(&b, "  %d%% { width: %.1f%%; }\n", i*100/steps, v)
	}
	b.WriteString("}\n")
	return b.String()
}

// SkillsCSS generates the fill animation of every skill bar. Bars start in
// sequence, 100ms apart.
func SkillsCSS(skills []resume.SkillCategory) string {
	var b strings.Builder
	for i, s := range skills {
		name := "skill-fill-" + s.ID
		avg := resume.AverageProficiency(s.Entries())
		b.WriteString(FillKeyframes(name, avg, fillSteps))
		fmt.Fprintf(&b, ".%s { width: %d%%; animation: %s 1s linear %.1fs both; }\n", name, avg, name, float64(i)*0.1+0.2)
	}
	return b.String()
}
