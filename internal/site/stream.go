package site

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/hugoce17/hugocodes/internal/theme"
	"golang.org/x/sync/errgroup"
)

// The hero name glitches once shortly after the page mounts.
const (
	heroBurstDelay    = 300 * time.Millisecond
	heroBurstDuration = 500 * time.Millisecond
)

type sseEvent struct {
	name string
	data string
	// last ends the stream after the event is written.
	last bool
}

// effectStream hands events from effects running on a private Loop to the
// request goroutine. Sends are unbuffered, so events arrive in order and a
// last event is never overtaken.
type effectStream struct {
	ctx    context.Context
	loop   *effects.Loop
	events chan sseEvent
}

func (e *effectStream) emit(ev sseEvent) {
	select {
	case e.events <- ev:
	case <-e.ctx.Done():
	}
}

// serveEffects runs mount on a fresh Loop and writes its events as
// Server-Sent Events until a last event or client disconnect. Leaving stops
// the loop, which cancels every timer the effects still hold.
func (s *Site) serveEffects(c *gin.Context, mount func(st *effectStream)) {
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	st := &effectStream{ctx: ctx, loop: effects.NewLoop(), events: make(chan sseEvent)}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return st.loop.Run(gctx) })
	st.loop.Post(func() { mount(st) })

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	for done := false; !done; {
		select {
		case <-ctx.Done():
			done = true
		case ev := <-st.events:
			c.SSEvent(ev.name, ev.data)
			c.Writer.Flush()
			done = ev.last
		}
	}

	cancel()
	_ = g.Wait()
	if s.streamClosed != nil {
		s.streamClosed(st.loop)
	}
}

// typingStream types the hero title and bursts the hero name glitch. The
// stream ends once both have finished.
func (s *Site) typingStream(c *gin.Context) {
	title := s.cat.Personal().Title
	s.serveEffects(c, func(st *effectStream) {
		pending := 2
		finish := func(ev sseEvent) {
			pending--
			ev.last = pending == 0
			st.emit(ev)
		}

		burst := effects.NewBurst(st.loop, heroBurstDelay, heroBurstDuration, func(active bool) {
			if active {
				st.emit(sseEvent{name: "burst", data: "on"})
				return
			}
			finish(sseEvent{name: "burst", data: "off"})
		})
		typing := effects.NewTyping(st.loop, title, effects.TypingOptions{
			Speed:      s.cfg.TypingSpeed,
			StartDelay: s.cfg.TypingStartDelay,
			OnChange: func(displayed string) {
				st.emit(sseEvent{name: "typing", data: displayed})
			},
			OnComplete: func() {
				finish(sseEvent{name: "complete", data: title})
			},
		})

		burst.Start()
		typing.Start()
	})
}

// glitchStream schedules random glitch windows for one section heading, or
// for every heading when no section is named. Events carry "on"/"off" for a
// single section and "<section>:on"/"<section>:off" otherwise.
func (s *Site) glitchStream(c *gin.Context) {
	var sections []theme.Section
	name := c.Param("section")
	if name != "" {
		sec, ok := theme.SectionByID(name)
		if !ok || !sec.HasHeading() {
			s.renderError(c, http.StatusNotFound, "Unknown section.")
			return
		}
		sections = []theme.Section{sec}
	} else {
		for _, sec := range theme.Sections {
			if sec.HasHeading() {
				sections = append(sections, sec)
			}
		}
	}

	single := name != ""
	s.serveEffects(c, func(st *effectStream) {
		for _, sec := range sections {
			id := sec.ID
			g := effects.NewGlitch(st.loop, effects.GlitchOptions{
				Mode:   effects.GlitchRandom,
				Wait:   s.cfg.GlitchWait(),
				Active: s.cfg.GlitchActive(),
				OnChange: func(active bool) {
					state := "off"
					if active {
						state = "on"
					}
					if !single {
						state = id + ":" + state
					}
					st.emit(sseEvent{name: "glitch", data: state})
				},
			})
			g.Start()
		}
	})
}
