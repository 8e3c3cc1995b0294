package terminal

import (
	"fmt"
	"strings"

	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/hugoce17/hugocodes/internal/theme"
	"github.com/mattn/go-runewidth"
)

// maxContentWidth caps the text column on wide terminals.
const maxContentWidth = 80

type lineKind int

const (
	lineText lineKind = iota
	lineMuted
	lineAccent
	lineHeading
	lineName
	lineTyped
	lineBar
	lineBlank
)

type line struct {
	text  string
	kind  lineKind
	color theme.NeonColor
	// centered lines are placed in the middle of the screen
	centered bool
	// skill bars
	skillID string
	target  int
}

type block struct {
	section theme.Section
	top     int
	lines   []line
}

func (b block) height() int { return len(b.lines) }

// document is the resume laid out into rows for one terminal width.
type document struct {
	blocks []block
	height int
	width  int
}

func (d *document) blockByID(id string) (int, bool) {
	for i, b := range d.blocks {
		if b.section.ID == id {
			return i, true
		}
	}
	return 0, false
}

// contentWidth is the width of the text column for a terminal width.
func contentWidth(termWidth int) int {
	w := termWidth - 4
	if w > maxContentWidth {
		w = maxContentWidth
	}
	if w < 10 {
		w = 10
	}
	return w
}

// layout lays the resume out for a terminal of the given size. The hero fills
// the first screen.
func layout(r *resume.Resume, termWidth, viewHeight int, year int) *document {
	w := contentWidth(termWidth)
	d := &document{width: w}
	for _, sec := range theme.Sections {
		var lines []line
		if sec.ID == "hero" {
			lines = heroLines(r, viewHeight)
		} else {
			lines = append(lines, blank(), line{text: strings.ToUpper(sec.Heading), kind: lineHeading, color: sec.Color}, blank())
			lines = append(lines, sectionLines(r, sec.ID, w, year)...)
			lines = append(lines, blank())
		}
		d.blocks = append(d.blocks, block{section: sec, top: d.height, lines: lines})
		d.height += len(lines)
	}
	return d
}

func blank() line { return line{kind: lineBlank} }

func heroLines(r *resume.Resume, viewHeight int) []line {
	p := r.Personal
	content := []line{
		{text: strings.ToUpper(p.Name), kind: lineName, color: theme.Cyan, centered: true},
		blank(),
		{text: p.Title, kind: lineTyped, centered: true},
		blank(),
	}
	if p.YearsExperience != "" {
		content = append(content, line{text: "[ " + p.YearsExperience + " Years Experience ]", kind: lineAccent, color: theme.Electric, centered: true})
	}
	content = append(content, blank(), line{text: "scroll ↓", kind: lineMuted, centered: true})

	pad := (viewHeight - len(content)) / 2
	if pad < 1 {
		pad = 1
	}
	lines := make([]line, 0, viewHeight)
	for i := 0; i < pad; i++ {
		lines = append(lines, blank())
	}
	lines = append(lines, content...)
	for len(lines) < viewHeight {
		lines = append(lines, blank())
	}
	return lines
}

func sectionLines(r *resume.Resume, id string, w int, year int) []line {
	var lines []line
	text := func(s string, kind lineKind, color theme.NeonColor) {
		for _, l := range fit(s, w) {
			lines = append(lines, line{text: l, kind: kind, color: color})
		}
	}

	switch id {
	case "about":
		text(r.About, lineText, "")
		lines = append(lines, blank())
		var badges []string
		for _, b := range []string{r.Personal.Location, r.Personal.Email, r.Personal.LinkedIn} {
			if b != "" {
				badges = append(badges, b)
			}
		}
		text(strings.Join(badges, " · "), lineAccent, theme.Ice)

	case "projects":
		for _, p := range r.Projects {
			name := p.Name
			if p.ComingSoon() {
				name += "  [coming soon]"
			}
			text(name, lineAccent, theme.Electric)
			if p.URL != "" {
				text(p.URL, lineMuted, "")
			}
			text(p.Description, lineText, "")
			text(strings.Join(p.TechStack, " · "), lineAccent, theme.TechBadgeColor(0))
			lines = append(lines, blank())
		}

	case "experience":
		for i, j := range r.Jobs {
			head := "● " + j.Title
			if j.IsCurrent {
				head += "  (current)"
			}
			text(head, lineAccent, theme.TimelineColor(i))
			text("  "+j.Company+" · "+j.Dates(), lineMuted, "")
			for _, d := range j.Description {
				prefix := "  "
				if len(j.Description) > 1 {
					prefix = "  - "
				}
				for k, l := range wrap(d, w-len(prefix)) {
					if k > 0 {
						prefix = strings.Repeat(" ", len(prefix))
					}
					lines = append(lines, line{text: prefix + l, kind: lineText})
				}
			}
			lines = append(lines, blank())
		}

	case "skills":
		for _, c := range r.Skills {
			color := theme.SkillColor(c.Category)
			avg := resume.AverageProficiency(c.Entries())
			text(strings.ToUpper(c.Category), lineAccent, color)
			lines = append(lines, line{kind: lineBar, color: color, skillID: c.ID, target: avg})
			text(strings.Join(c.Skills, " · "), lineMuted, "")
			lines = append(lines, blank())
		}

	case "education":
		for _, e := range r.Education {
			color := theme.EducationColor(e.ID)
			text(e.Institution, lineAccent, color)
			text(strings.TrimSpace(e.Degree+" "+e.Field), lineText, "")
			text(e.Location, lineMuted, "")
			if e.Year > 0 {
				text(fmt.Sprint(e.Year), lineAccent, color)
			}
			lines = append(lines, blank())
		}

	case "contact":
		p := r.Personal
		links := []struct {
			label, value string
			color        theme.NeonColor
		}{
			{"Email", p.Email, theme.Cyan},
			{"LinkedIn", p.LinkedIn, theme.Electric},
			{"X", p.X, theme.Ice},
			{"GitHub", p.GitHub, theme.Purple},
		}
		for _, l := range links {
			if l.value != "" {
				text(fmt.Sprintf("%-9s %s", l.label, l.value), lineAccent, l.color)
			}
		}
		lines = append(lines, blank())
		text(fmt.Sprintf("© %d %s. All rights reserved.", year, p.Name), lineMuted, "")
	}
	return lines
}

// fit keeps s verbatim, indent and column padding included, when it fits
// in width cells and wraps it otherwise.
func fit(s string, width int) []string {
	s = strings.TrimRight(s, " ")
	if runewidth.StringWidth(s) <= width {
		return []string{s}
	}
	return wrap(s, width)
}

// wrap breaks s into lines no wider than width display cells. Words wider
// than the line are split.
func wrap(s string, width int) []string {
	if width < 1 {
		width = 1
	}
	var lines []string
	var cur strings.Builder
	curWidth := 0
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curWidth = 0
	}

	for _, word := range strings.Fields(s) {
		ww := runewidth.StringWidth(word)
		if curWidth > 0 && curWidth+1+ww > width {
			flush()
		}
		if ww > width {
			for _, r := range word {
				rw := runewidth.RuneWidth(r)
				if curWidth+rw > width {
					flush()
				}
				cur.WriteRune(r)
				curWidth += rw
			}
			continue
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(word)
		curWidth += ww
	}
	if curWidth > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}
