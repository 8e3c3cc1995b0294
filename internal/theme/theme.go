// Package theme holds the neon palette and section layout shared by the web
// and terminal renderers.
package theme

import "github.com/hugoce17/hugocodes/internal/effects"

// NeonColor names a palette entry.
type NeonColor string

const (
	Cyan     NeonColor = "cyan"
	Magenta  NeonColor = "magenta"
	Purple   NeonColor = "purple"
	Green    NeonColor = "green"
	Orange   NeonColor = "orange"
	Ice      NeonColor = "ice"
	Electric NeonColor = "electric"
	Red      NeonColor = "red"
)

// Palette lists every neon colour in stylesheet order.
var Palette = []NeonColor{Cyan, Magenta, Purple, Green, Orange, Ice, Electric, Red}

var rgb = map[NeonColor][3]uint8{
	Cyan:     {0, 255, 255},
	Magenta:  {255, 0, 128},
	Purple:   {180, 0, 255},
	Green:    {57, 255, 20},
	Orange:   {255, 140, 0},
	Ice:      {130, 200, 255},
	Electric: {100, 150, 255},
	Red:      {255, 51, 85},
}

// Background is the page colour behind every section.
const Background = "#0a0a0f"

// RGB returns the colour components. Unknown colours are cyan.
func (c NeonColor) RGB() (r, g, b uint8) {
	v, ok := rgb[c]
	if !ok {
		v = rgb[Cyan]
	}
	return v[0], v[1], v[2]
}

// Hex returns the colour as #rrggbb.
func (c NeonColor) Hex() string {
	r, g, b := c.RGB()
	const digits = "0123456789abcdef"
	return string([]byte{'#',
		digits[r>>4], digits[r&0xf],
		digits[g>>4], digits[g&0xf],
		digits[b>>4], digits[b&0xf],
	})
}

// Var is the CSS custom property holding the colour.
func (c NeonColor) Var() string {
	return "var(--neon-" + string(c) + ")"
}

var (
	timelineColors  = []NeonColor{Cyan, Electric, Purple, Ice}
	techBadgeColors = []NeonColor{Cyan, Electric, Purple, Ice, Green, Red}

	skillColors = map[string]NeonColor{
		"Frontend":     Cyan,
		"Backend":      Magenta,
		"Data":         Purple,
		"Cloud/DevOps": Green,
		"Practices":    Orange,
		"Soft Skills":  Ice,
	}

	educationColors = map[string]NeonColor{
		"fiu": Electric,
		"mdc": Ice,
	}
)

// TimelineColor is the dot colour of the i-th job.
func TimelineColor(i int) NeonColor {
	return timelineColors[mod(i, len(timelineColors))]
}

// TechBadgeColor is the colour of the i-th tech badge of a project.
func TechBadgeColor(i int) NeonColor {
	return techBadgeColors[mod(i, len(techBadgeColors))]
}

// SkillColor maps a skill category to its colour, cyan when unmapped.
func SkillColor(category string) NeonColor {
	if c, ok := skillColors[category]; ok {
		return c
	}
	return Cyan
}

// EducationColor maps an education id to its colour, cyan when unmapped.
func EducationColor(id string) NeonColor {
	if c, ok := educationColors[id]; ok {
		return c
	}
	return Cyan
}

func mod(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

// Section describes one page section.
type Section struct {
	ID      string
	Heading string
	Color   NeonColor
	// Delay staggers the heading's random glitch animation (1..5, 0 for none).
	Delay int
	// Glitch is the intensity of the heading's random glitch.
	Glitch effects.Intensity
}

// HasHeading reports whether the section renders a glitching heading.
func (s Section) HasHeading() bool {
	return s.Heading != ""
}

// Sections lists the page sections in display order.
var Sections = []Section{
	{ID: "hero", Color: Cyan},
	{ID: "about", Heading: "About", Color: Ice, Delay: 3, Glitch: effects.IntensitySubtle},
	{ID: "projects", Heading: "Projects", Color: Electric, Delay: 2, Glitch: effects.IntensitySubtle},
	{ID: "experience", Heading: "Experience", Color: Cyan, Delay: 2, Glitch: effects.IntensitySubtle},
	{ID: "skills", Heading: "Skills", Color: Purple, Delay: 4, Glitch: effects.IntensitySubtle},
	{ID: "education", Heading: "Education", Color: Green, Delay: 3, Glitch: effects.IntensitySubtle},
	{ID: "contact", Heading: "Let's Connect", Color: Red, Delay: 5, Glitch: effects.IntensitySubtle},
}

// SectionByID looks up a section.
func SectionByID(id string) (Section, bool) {
	for _, s := range Sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}
