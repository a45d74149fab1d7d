package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"promptcraft_server/internal/layout"
	"promptcraft_server/internal/parser"
	"promptcraft_server/internal/registry"
	"promptcraft_server/internal/schema"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	reg, err := registry.New()
	require.NoError(t, err)
	return New(reg)
}

func cells(root *html.Node) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && registry.Attr(n, "data-component-id") != "" {
			out = append(out, n)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func TestRender_UnknownTypeShowsPlaceholder(t *testing.T) {
	r := newRenderer(t)
	components := []schema.ComponentNode{
		{ID: "h", Type: schema.TypeHeader, Props: schema.Props{"title": "Hello"}},
		{ID: "x", Type: "Frobnicator", Props: schema.Props{"anything": 1}},
	}

	out, err := r.String(components)
	require.NoError(t, err)
	assert.Contains(t, out, "Frobnicator")
	assert.Contains(t, out, "Unknown component: Frobnicator")
	assert.Contains(t, out, "Hello")
}

func TestRender_GridModeSpans(t *testing.T) {
	r := newRenderer(t)
	components := []schema.ComponentNode{
		{ID: "a", Type: schema.TypeCard, Props: schema.Props{}, Layout: &schema.GridPlacement{X: 8, Y: 2, Width: 4, Height: 3}},
		{ID: "b", Type: schema.TypeButton, Props: schema.Props{"label": "Go"}},
	}

	root := r.Render(components)
	got := cells(root)
	require.Len(t, got, 2)
	assert.Equal(t, "a", registry.Attr(got[0], "data-component-id"))
	assert.Equal(t, "grid-column: span 4; grid-row: span 3", registry.Attr(got[0], "style"))
	assert.Equal(t, "grid-column: span 12; grid-row: span 1", registry.Attr(got[1], "style"))
	assert.Equal(t, ModeGrid, ModeFor(components))
}

func TestRender_StackModeWithoutPlacements(t *testing.T) {
	r := newRenderer(t)
	components := []schema.ComponentNode{
		{ID: "one", Type: schema.TypeHeader, Props: schema.Props{"title": "One"}},
		{ID: "two", Type: schema.TypeHeader, Props: schema.Props{"title": "Two"}},
	}

	root := r.Render(components)
	assert.Equal(t, string(ModeStack), registry.Attr(root, "data-mode"))
	got := cells(root)
	require.Len(t, got, 2)
	assert.Equal(t, "one", registry.Attr(got[0], "data-component-id"))
	assert.Equal(t, "two", registry.Attr(got[1], "data-component-id"))
	assert.Empty(t, registry.Attr(got[0], "style"))
}

func TestRender_EmptyList(t *testing.T) {
	r := newRenderer(t)
	out, err := r.String([]schema.ComponentNode{})
	require.NoError(t, err)
	assert.Contains(t, out, `data-mode="stack"`)
}

func TestRender_DoesNotMutateInput(t *testing.T) {
	r := newRenderer(t)
	s := layout.ApplyResponsiveFlag(parser.New(parser.WithSeed(5)).Generate("dashboard with map"))
	before := s.Clone()

	_, err := r.String(s.Components)
	require.NoError(t, err)
	assert.Equal(t, before, s)
}

func TestDocument(t *testing.T) {
	r := newRenderer(t)
	s := parser.New(parser.WithSeed(2)).Generate("Create a dark CRM dashboard with pipeline stages")

	var buf bytes.Buffer
	require.NoError(t, r.Document(&buf, s))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Dark Crm Dashboard</title>")
	assert.Contains(t, out, "theme-dark")
	assert.Contains(t, out, `data-schema-id="`+s.ID+`"`)

	_, err := html.Parse(strings.NewReader(out))
	require.NoError(t, err)
}
