// Package site serves the portfolio over HTTP: the page shell, lazily loaded
// section fragments, generated stylesheets and the effect event streams.
package site

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugoce17/hugocodes/internal/catalog"
	"github.com/hugoce17/hugocodes/internal/config"
	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Site is the web front end.
type Site struct {
	cfg    *config.Config
	cat    *catalog.Catalog
	engine *gin.Engine
	logger *log.Logger
	now    func() time.Time

	themeCSS  string
	skillsCSS string

	// streamClosed, when set, sees each effect loop after its stream ends.
	streamClosed func(*effects.Loop)
}

// Option customises a Site.
type Option func(*Site)

// WithLogger sends access logs to l instead of the standard logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Site) { s.logger = l }
}

// WithClock replaces the wall clock used for dates on the page.
func WithClock(now func() time.Time) Option {
	return func(s *Site) { s.now = now }
}

type pageData struct {
	Title    string
	Hero     heroView
	Sections []theme.Section
	Circuit  Circuit
	FlowBand float64
}

type errorData struct {
	Status  int
	Message string
}

// New builds the router. The stylesheets derived from the catalog are
// generated once here.
func New(ctx context.Context, cfg *config.Config, cat *catalog.Catalog, opts ...Option) (*Site, error) {
	s := &Site{
		cfg:    cfg,
		cat:    cat,
		logger: log.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	skills, err := cat.Skills(ctx, catalog.SkillsInOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}
	s.skillsCSS = SkillsCSS(skills)
	s.themeCSS = ThemeCSS(DefaultScanLines)

	tmpl, err := template.New("site").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		return nil, fmt.Errorf("failed to open static files: %w", err)
	}

	visitors, err := newVisitorLog(cfg.LogSalt, s.logger)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), visitors.middleware())
	if gin.Mode() == gin.DebugMode {
		r.Use(gin.Logger())
	}
	r.SetHTMLTemplate(tmpl)

	r.StaticFS("/static", http.FS(static))

	r.GET("/", s.index)
	r.GET("/sections/:name", s.sectionFragment)

	r.GET("/fx/typing", s.typingStream)
	r.GET("/fx/glitch", s.glitchStream)
	r.GET("/fx/glitch/:section", s.glitchStream)
	r.GET("/fx/theme.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(s.themeCSS))
	})
	r.GET("/fx/skills.css", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(s.skillsCSS))
	})

	r.GET("/resume.json", s.resumeJSON)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		s.renderError(c, http.StatusNotFound, "Nothing here.")
	})

	s.engine = r
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Site) Handler() http.Handler {
	return s.engine
}

func (s *Site) index(c *gin.Context) {
	var lazy []theme.Section
	for _, sec := range theme.Sections {
		if sec.ID != "hero" {
			lazy = append(lazy, sec)
		}
	}
	c.HTML(http.StatusOK, "index.html", pageData{
		Title:    s.cat.Personal().Name,
		Hero:     s.hero(),
		Sections: lazy,
		Circuit:  Circuit{ID: "circuit-page", Color: theme.Cyan, Opacity: 0.15},
		FlowBand: s.cfg.FlowBand,
	})
}

func (s *Site) sectionFragment(c *gin.Context) {
	sec, ok := theme.SectionByID(c.Param("name"))
	if !ok {
		s.renderError(c, http.StatusNotFound, "Unknown section.")
		return
	}
	data, err := s.section(c.Request.Context(), sec)
	if err != nil {
		s.logger.Printf("Error rendering section %s: %v", sec.ID, err)
		s.renderError(c, http.StatusInternalServerError, "Failed to load section.")
		return
	}
	c.HTML(http.StatusOK, sec.ID+".html", data)
}

func (s *Site) resumeJSON(c *gin.Context) {
	r, err := s.cat.Snapshot(c.Request.Context())
	if err != nil {
		s.logger.Printf("Error loading resume snapshot: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load resume"})
		return
	}
	c.JSON(http.StatusOK, r)
}

func (s *Site) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", errorData{Status: status, Message: message})
}
