package site

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hugoce17/hugocodes/internal/config"
	"github.com/hugoce17/hugocodes/internal/effects"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	name string
	data string
}

// readEvents collects Server-Sent Events until the server closes the stream,
// n events have arrived, or ctx ends.
func readEvents(t *testing.T, ctx context.Context, url string, n int) ([]received, *http.Response) {
	t.Helper()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var events []received
	var cur received
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event:"):
			cur.name = strings.TrimPrefix(line, "event:")
		case strings.HasPrefix(line, "data:"):
			cur.data = strings.TrimPrefix(line, "data:")
		case line == "" && cur.name != "":
			events = append(events, cur)
			cur = received{}
			if n > 0 && len(events) == n {
				return events, resp
			}
		}
	}
	return events, resp
}

func TestTypingStream(t *testing.T) {
	s := newTestSite(t, func(c *config.Config) {
		c.TypingSpeed = time.Millisecond
		c.TypingStartDelay = 0
	})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, resp := readEvents(t, ctx, srv.URL+"/fx/typing", 0)

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	require.NotEmpty(t, events)

	var typed []string
	var names []string
	for _, ev := range events {
		names = append(names, ev.name)
		if ev.name == "typing" {
			typed = append(typed, ev.data)
		}
	}

	title := "Software Engineer"
	require.Len(t, typed, len(title))
	for i, prefix := range typed {
		assert.Equal(t, title[:i+1], prefix)
	}

	assert.Contains(t, events, received{name: "burst", data: "on"})
	assert.Contains(t, events, received{name: "complete", data: title})
	// burst ends well after typing completes, and closes the stream
	assert.Equal(t, received{name: "burst", data: "off"}, events[len(events)-1])
	assert.Less(t, indexOf(names, "complete"), len(names)-1)
}

func indexOf(names []string, want string) int {
	for i, n := range names {
		if n == want {
			return i
		}
	}
	return -1
}

func fastGlitches(c *config.Config) {
	c.GlitchWaitMin = 2 * time.Millisecond
	c.GlitchWaitMax = 4 * time.Millisecond
	c.GlitchActiveMin = time.Millisecond
	c.GlitchActiveMax = time.Millisecond
}

func TestGlitchStream_Section(t *testing.T) {
	s := newTestSite(t, fastGlitches)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, _ := readEvents(t, ctx, srv.URL+"/fx/glitch/skills", 6)

	require.Len(t, events, 6)
	for i, ev := range events {
		assert.Equal(t, "glitch", ev.name)
		want := "on"
		if i%2 == 1 {
			want = "off"
		}
		assert.Equal(t, want, ev.data, "event %d", i)
	}
}

func TestGlitchStream_AllSections(t *testing.T) {
	s := newTestSite(t, fastGlitches)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, _ := readEvents(t, ctx, srv.URL+"/fx/glitch", 60)
	require.Len(t, events, 60)

	// every section alternates on its own
	last := map[string]string{}
	for _, ev := range events {
		id, state, ok := strings.Cut(ev.data, ":")
		require.True(t, ok, ev.data)
		assert.NotEqual(t, "hero", id)
		prev, seen := last[id]
		if !seen {
			assert.Equal(t, "on", state, id)
		} else {
			assert.NotEqual(t, prev, state, id)
		}
		last[id] = state
	}
}

func TestGlitchStream_DisconnectStopsTimers(t *testing.T) {
	s := newTestSite(t, func(c *config.Config) {
		c.GlitchWaitMin = time.Millisecond
		c.GlitchWaitMax = time.Millisecond
		c.GlitchActiveMin = time.Hour
		c.GlitchActiveMax = time.Hour
	})
	closed := make(chan *effects.Loop, 1)
	s.streamClosed = func(l *effects.Loop) { closed <- l }
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	events, _ := readEvents(t, ctx, srv.URL+"/fx/glitch/skills", 1)
	require.Equal(t, []received{{name: "glitch", data: "on"}}, events)
	cancel()

	var loop *effects.Loop
	select {
	case loop = <-closed:
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not return after the client left")
	}
	// the hour-long window timer was cancelled and nothing can run again
	assert.Zero(t, loop.Pending())
	assert.ErrorIs(t, loop.Do(context.Background(), func() {}), effects.ErrClosed)
}

func TestGlitchStream_UnknownSection(t *testing.T) {
	s := newTestSite(t, nil)

	for _, name := range []string{"blog", "hero"} {
		w := s.get(t, "/fx/glitch/"+name)
		assert.Equal(t, http.StatusNotFound, w.Code, name)
	}
}
