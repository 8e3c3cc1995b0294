package site

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hugoce17/hugocodes/internal/catalog"
	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/resume"
	"github.com/hugoce17/hugocodes/internal/theme"
)

// heading is the glitching title of a section.
type heading struct {
	theme.Section
}

func (h heading) GlitchClass() string { return h.Glitch.Class() }
func (h heading) DelayClass() string  { return effects.DelayClass(h.Delay) }

type heroView struct {
	Name            string
	Title           string
	YearsExperience string
	// Typing parameters for clients without the event stream.
	SpeedMS      int64
	StartDelayMS int64
	ResumePDF    string
	ResumeDOCX   string
}

type contactBadge struct {
	Label string
	Href  string
}

type aboutView struct {
	Heading heading
	Summary string
	Avatar  string
	Name    string
	Badges  []contactBadge
	Circuit Circuit
}

type techBadge struct {
	Label string
	Color theme.NeonColor
}

type projectView struct {
	Name        string
	URL         string
	Description string
	ComingSoon  bool
	Tech        []techBadge
}

type projectsView struct {
	Heading  heading
	Projects []projectView
}

type jobView struct {
	resume.Job
	Color theme.NeonColor
	// Bullets marks multi-line descriptions, which render with a dash.
	Bullets bool
	Circuit Circuit
}

type experienceView struct {
	Heading heading
	Jobs    []jobView
}

type skillBarView struct {
	ID       string
	Category string
	Skills   []string
	Average  int
	Color    theme.NeonColor
}

type skillsView struct {
	Heading heading
	Bars    []skillBarView
}

type educationCard struct {
	resume.Education
	Color theme.NeonColor
}

type educationView struct {
	Heading heading
	Cards   []educationCard
}

type contactLink struct {
	ID    string
	Label string
	Href  string
	Color theme.NeonColor
}

type contactView struct {
	Heading heading
	Links   []contactLink
	Name    string
	Year    int
}

// imageURL returns raw when it is an http(s) URL on an allowed host, else "".
func (s *Site) imageURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "https" && u.Scheme != "http") {
		return ""
	}
	if !s.cfg.AllowsImage(u.Hostname()) {
		return ""
	}
	return raw
}

// webLink turns a bare handle such as "github.com/x" into an https URL.
func webLink(handle string) string {
	if handle == "" || strings.HasPrefix(handle, "https://") || strings.HasPrefix(handle, "http://") {
		return handle
	}
	return "https://" + handle
}

func (s *Site) hero() heroView {
	p := s.cat.Personal()
	return heroView{
		Name:            p.Name,
		Title:           p.Title,
		YearsExperience: p.YearsExperience,
		SpeedMS:         s.cfg.TypingSpeed.Milliseconds(),
		StartDelayMS:    s.cfg.TypingStartDelay.Milliseconds(),
		ResumePDF:       s.cfg.ResumePDFURL,
		ResumeDOCX:      s.cfg.ResumeDOCXURL,
	}
}

// section builds the view model of a lazily loaded section.
func (s *Site) section(ctx context.Context, sec theme.Section) (any, error) {
	h := heading{sec}
	switch sec.ID {
	case "hero":
		return s.hero(), nil

	case "about":
		p := s.cat.Personal()
		v := aboutView{
			Heading: h,
			Summary: s.cat.About(),
			Avatar:  s.imageURL(p.Avatar),
			Name:    p.Name,
			Circuit: Circuit{ID: "circuit-about", Color: theme.Electric, Card: true, Opacity: 0.08},
		}
		if p.Location != "" {
			v.Badges = append(v.Badges, contactBadge{Label: p.Location})
		}
		if p.Email != "" {
			v.Badges = append(v.Badges, contactBadge{Label: p.Email, Href: "mailto:" + p.Email})
		}
		if p.LinkedIn != "" {
			v.Badges = append(v.Badges, contactBadge{Label: "LinkedIn", Href: webLink(p.LinkedIn)})
		}
		return v, nil

	case "projects":
		projects, err := s.cat.Projects(ctx, false)
		if err != nil {
			return nil, err
		}
		v := projectsView{Heading: h}
		for _, p := range projects {
			pv := projectView{
				Name:        p.Name,
				URL:         p.URL,
				Description: p.Description,
				ComingSoon:  p.ComingSoon(),
			}
			for i, t := range p.TechStack {
				pv.Tech = append(pv.Tech, techBadge{Label: t, Color: theme.TechBadgeColor(i)})
			}
			v.Projects = append(v.Projects, pv)
		}
		return v, nil

	case "experience":
		jobs, err := s.cat.Jobs(ctx)
		if err != nil {
			return nil, err
		}
		v := experienceView{Heading: h}
		for i, j := range jobs {
			color := theme.TimelineColor(i)
			v.Jobs = append(v.Jobs, jobView{
				Job:     j,
				Color:   color,
				Bullets: len(j.Description) > 1,
				Circuit: Circuit{ID: "circuit-" + j.ID, Color: cardCircuitColor(color), Card: true, Opacity: 0.08},
			})
		}
		return v, nil

	case "skills":
		skills, err := s.cat.Skills(ctx, catalog.SkillsInOrder)
		if err != nil {
			return nil, err
		}
		v := skillsView{Heading: h}
		for _, c := range skills {
			v.Bars = append(v.Bars, skillBarView{
				ID:       c.ID,
				Category: c.Category,
				Skills:   c.Skills,
				Average:  resume.AverageProficiency(c.Entries()),
				Color:    theme.SkillColor(c.Category),
			})
		}
		return v, nil

	case "education":
		edu, err := s.cat.Education(ctx)
		if err != nil {
			return nil, err
		}
		v := educationView{Heading: h}
		for _, e := range edu {
			v.Cards = append(v.Cards, educationCard{Education: e, Color: theme.EducationColor(e.ID)})
		}
		return v, nil

	case "contact":
		p := s.cat.Personal()
		v := contactView{Heading: h, Name: p.Name, Year: s.now().Year()}
		links := []contactLink{
			{ID: "email", Label: "Email", Href: mailto(p.Email), Color: theme.Cyan},
			{ID: "linkedin", Label: "LinkedIn", Href: webLink(p.LinkedIn), Color: theme.Electric},
			{ID: "x", Label: "X", Href: webLink(p.X), Color: theme.Ice},
			{ID: "github", Label: "GitHub", Href: webLink(p.GitHub), Color: theme.Purple},
		}
		for _, l := range links {
			if l.Href != "" {
				v.Links = append(v.Links, l)
			}
		}
		return v, nil
	}
	return nil, fmt.Errorf("no renderer for section %q", sec.ID)
}

func mailto(email string) string {
	if email == "" {
		return ""
	}
	return "mailto:" + email
}

// cardCircuitColor picks the circuit scheme closest to a timeline colour.
func cardCircuitColor(c theme.NeonColor) theme.NeonColor {
	switch c {
	case theme.Electric, theme.Ice:
		return theme.Electric
	case theme.Purple:
		return theme.Magenta
	default:
		return theme.Cyan
	}
}
