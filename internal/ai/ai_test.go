package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft_server/internal/registry"
	"promptcraft_server/internal/render"
	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/studio"
)

// fakeOpenAI serves chat completions. Each request pops the next reply; a
// reply with status other than 200 is sent as an API error.
type fakeReply struct {
	status  int
	content string
}

func fakeOpenAI(t *testing.T, replies ...fakeReply) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		n := int(calls.Add(1)) - 1
		reply := replies[len(replies)-1]
		if n < len(replies) {
			reply = replies[n]
		}
		w.Header().Set("Content-Type", "application/json")
		if reply.status != http.StatusOK {
			w.WriteHeader(reply.status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "upstream trouble", "type": "server_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply.content},
				"finish_reason": "stop",
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func newTestGenerator(srv *httptest.Server) *Generator {
	return NewGenerator("test-key", WithBaseURL(srv.URL+"/v1"), WithRetryDelay(0))
}

const layoutReply = "```json\n" + `{
  "id": "ai-1",
  "name": "Sales <b>Board</b>",
  "components": [
    {"id": "h", "type": "Header", "props": {"title": "Sales <script>alert(1)</script>"}, "layout": {"x": 0, "y": 0, "width": 12, "height": 1}},
    {"type": "Chart", "props": {"chartType": "bar", "data": []}},
    {"id": "h", "type": "Card"}
  ],
  "theme": "neon"
}` + "\n```"

func TestGenerateLayoutFillsDefaults(t *testing.T) {
	srv, calls := fakeOpenAI(t, fakeReply{status: http.StatusOK, content: layoutReply})
	g := newTestGenerator(srv)

	s, err := g.GenerateLayout(context.Background(), "sales board")
	require.NoError(t, err)

	assert.Equal(t, "ai-1", s.ID)
	assert.Equal(t, "Sales Board", s.Name)
	assert.Equal(t, "sales board", s.Description)
	assert.Equal(t, schema.ThemeDark, s.Theme)
	assert.True(t, s.Responsive)
	require.Len(t, s.Components, 3)

	assert.Equal(t, "Sales ", s.Components[0].Props["title"])
	require.NotNil(t, s.Components[0].Layout)
	assert.Equal(t, 12, s.Components[0].Layout.Width)

	assert.Equal(t, "chart-2", s.Components[1].ID)
	assert.Nil(t, s.Components[1].Layout)
	assert.Equal(t, "card-3", s.Components[2].ID)
	assert.NotNil(t, s.Components[2].Props)

	// A second call for the same prompt is served from the cache under a new id.
	again, err := g.GenerateLayout(context.Background(), "sales board")
	require.NoError(t, err)
	assert.EqualValues(t, 1, calls.Load())
	assert.NotEqual(t, s.ID, again.ID)
	assert.Equal(t, s.Name, again.Name)
	assert.Equal(t, s.Components, again.Components)

	third, err := g.GenerateLayout(context.Background(), "sales board")
	require.NoError(t, err)
	assert.NotEqual(t, again.ID, third.ID)

	g.ClearCache()
	_, err = g.GenerateLayout(context.Background(), "sales board")
	require.NoError(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestDegeneratePlacementsAreRepairedOnFinalize(t *testing.T) {
	g := NewGenerator("")
	reply := `{"components": [
		{"id": "c", "type": "Chart", "layout": {"x": 3, "y": 1}},
		{"id": "t", "type": "Table", "layout": {"width": 30, "height": -2}},
		{"id": "b", "type": "Button", "layout": {"x": 11, "width": 4, "height": 0}}
	]}`
	parsed, err := g.ParseLayout(reply, "sales page")
	require.NoError(t, err)

	s := studio.Finalize(parsed, "sales page")
	require.Len(t, s.Components, 3)
	for _, c := range s.Components {
		require.NotNil(t, c.Layout, c.ID)
		assert.GreaterOrEqual(t, c.Layout.Width, 1, c.ID)
		assert.LessOrEqual(t, c.Layout.X+c.Layout.Width, schema.GridColumns, c.ID)
		assert.GreaterOrEqual(t, c.Layout.Height, 1, c.ID)
	}
	assert.Equal(t, schema.GridPlacement{X: 3, Y: 1, Width: 6, Height: 4}, *s.Components[0].Layout)
	assert.Equal(t, schema.GridPlacement{X: 0, Y: 0, Width: 12, Height: 6}, *s.Components[1].Layout)
	assert.Equal(t, schema.GridPlacement{X: 8, Y: 0, Width: 4, Height: 1}, *s.Components[2].Layout)

	html, err := render.New(registry.MustNew()).String(s.Components)
	require.NoError(t, err)
	assert.NotContains(t, html, "span 0")
	assert.NotContains(t, html, "span 30")
}

func TestGenerateLayoutRetriesOnce(t *testing.T) {
	srv, calls := fakeOpenAI(t,
		fakeReply{status: http.StatusServiceUnavailable},
		fakeReply{status: http.StatusOK, content: `{"components": []}`},
	)
	g := newTestGenerator(srv)

	s, err := g.GenerateLayout(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, s.Components)
	assert.Equal(t, DefaultLayoutName, s.Name)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGenerateLayoutGivesUpAfterRetry(t *testing.T) {
	srv, calls := fakeOpenAI(t, fakeReply{status: http.StatusBadGateway})
	g := newTestGenerator(srv)

	_, err := g.GenerateLayout(context.Background(), "anything")
	require.Error(t, err)
	assert.EqualValues(t, 2, calls.Load())
}

func TestGenerateLayoutMissingComponents(t *testing.T) {
	srv, _ := fakeOpenAI(t, fakeReply{status: http.StatusOK, content: `{"name": "nope"}`})
	g := newTestGenerator(srv)

	_, err := g.GenerateLayout(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrMissingComponents)
}

func TestGenerateLayoutDisabled(t *testing.T) {
	g := NewGenerator("")
	assert.False(t, g.Enabled())
	_, err := g.GenerateLayout(context.Background(), "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestParseLayoutUnwrapsEnvelope(t *testing.T) {
	g := NewGenerator("")
	s, err := g.ParseLayout(`{"layout": {"name": "Wrapped", "responsive": false, "theme": "LIGHT",
		"components": [{"id": 7, "type": "Button", "props": {"text": "Go"}, "layout": {"x": 2.0, "y": 1, "width": 3, "height": 1}}]}}`, "")
	require.NoError(t, err)

	assert.Equal(t, "Wrapped", s.Name)
	assert.False(t, s.Responsive)
	assert.Equal(t, schema.ThemeLight, s.Theme)
	require.Len(t, s.Components, 1)
	assert.Equal(t, "7", s.Components[0].ID)
	assert.Equal(t, &schema.GridPlacement{X: 2, Y: 1, Width: 3, Height: 1}, s.Components[0].Layout)
}

func TestParseLayoutRejectsGarbage(t *testing.T) {
	g := NewGenerator("")
	_, err := g.ParseLayout("I cannot help with that.", "p")
	assert.Error(t, err)
}

func TestSuggestions(t *testing.T) {
	srv, _ := fakeOpenAI(t, fakeReply{status: http.StatusOK, content: `Here you go: ["Add pagination", "  ", "Use a pie chart"]`})
	g := newTestGenerator(srv)

	got := g.Suggestions(context.Background(), schema.New("x", ""))
	assert.Equal(t, []string{"Add pagination", "Use a pie chart"}, got)
}

func TestSuggestionsFallBackOnBadReply(t *testing.T) {
	srv, _ := fakeOpenAI(t, fakeReply{status: http.StatusOK, content: "no list today"})
	g := newTestGenerator(srv)

	s := schema.New("x", "")
	assert.Equal(t, FallbackSuggestions(s), g.Suggestions(context.Background(), s))
}

func TestFallbackSuggestions(t *testing.T) {
	nodes := func(types ...schema.ComponentType) schema.LayoutSchema {
		s := schema.New("t", "")
		for i, ty := range types {
			s.Components = append(s.Components, schema.ComponentNode{ID: string(rune('a' + i)), Type: ty, Props: schema.Props{}})
		}
		return s
	}

	empty := FallbackSuggestions(nodes())
	assert.Equal(t, []string{"Add a Header component to define the page structure."}, empty)

	polished := FallbackSuggestions(nodes(schema.TypeHeader, schema.TypeGlassCard))
	assert.Len(t, polished, 2)
	assert.Contains(t, polished[0], "Theme Toggle")

	busy := FallbackSuggestions(nodes(schema.TypeChart, schema.TypeForm, schema.TypeTable, schema.TypeTable))
	assert.Len(t, busy, 4)
	assert.Equal(t, "Add a Header component to define the page structure.", busy[0])
	assert.Equal(t, "Add Stat Cards above charts to summarize key metrics.", busy[1])
}

func TestEnhancePrompt(t *testing.T) {
	srv, _ := fakeOpenAI(t, fakeReply{status: http.StatusOK, content: `"A sales dashboard with weekly revenue charts."`})
	g := newTestGenerator(srv)
	assert.Equal(t, "A sales dashboard with weekly revenue charts.", g.EnhancePrompt(context.Background(), "sales"))

	failing, _ := fakeOpenAI(t, fakeReply{status: http.StatusUnauthorized})
	assert.Equal(t, "sales", newTestGenerator(failing).EnhancePrompt(context.Background(), "sales"))

	assert.Equal(t, "sales", NewGenerator("").EnhancePrompt(context.Background(), "sales"))
}
