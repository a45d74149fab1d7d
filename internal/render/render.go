// Package render projects a layout schema onto an HTML tree using the
// component registry.
package render

import (
	"bytes"
	"fmt"
	"io"
	"log"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"promptcraft_server/internal/registry"
	"promptcraft_server/internal/schema"
)

// Mode says how a component list was laid out.
type Mode string

const (
	ModeGrid  Mode = "grid"
	ModeStack Mode = "stack"
)

// fallbackCell is the span given to an unplaced component in grid mode.
var fallbackCell = schema.GridPlacement{Width: schema.GridColumns, Height: 1}

// Renderer renders component lists. It holds no state besides the registry
// and never mutates its input.
type Renderer struct {
	registry *registry.Registry
}

// New returns a renderer backed by reg.
func New(reg *registry.Registry) *Renderer {
	return &Renderer{registry: reg}
}

// ModeFor reports which mode Render will use for components.
func ModeFor(components []schema.ComponentNode) Mode {
	for _, c := range components {
		if c.Layout != nil {
			return ModeGrid
		}
	}
	return ModeStack
}

// Render builds the visual tree. If any component carries a layout, every
// component becomes a grid cell spanning its width and height, placed in
// document order; otherwise components are stacked full width.
func (r *Renderer) Render(components []schema.ComponentNode) *html.Node {
	if ModeFor(components) == ModeGrid {
		root := registry.El("div", "w-full p-6")
		grid := registry.El("div", "grid grid-cols-12 gap-6 auto-rows-min")
		registry.SetAttr(grid, "data-mode", string(ModeGrid))
		for _, c := range components {
			l := fallbackCell
			if c.Layout != nil {
				l = *c.Layout
			}
			cell := registry.El("div", "min-h-0", r.component(c))
			registry.SetAttr(cell, "style", fmt.Sprintf("grid-column: span %d; grid-row: span %d", l.Width, l.Height))
			registry.SetAttr(cell, "data-component-id", c.ID)
			grid.AppendChild(cell)
		}
		root.AppendChild(grid)
		return root
	}

	root := registry.El("div", "space-y-6 p-6")
	registry.SetAttr(root, "data-mode", string(ModeStack))
	for _, c := range components {
		cell := registry.El("div", "w-full", r.component(c))
		registry.SetAttr(cell, "data-component-id", c.ID)
		root.AppendChild(cell)
	}
	return root
}

func (r *Renderer) component(c schema.ComponentNode) *html.Node {
	reg, ok := r.registry.Resolve(string(c.Type))
	if !ok {
		log.Printf("WARN: component type %q not found in registry (id %q)", c.Type, c.ID)
		return Placeholder(string(c.Type))
	}
	if err := r.registry.Validate(string(c.Type), c.Props); err != nil {
		log.Printf("WARN: %v", err)
	}
	n := reg.Render(c)
	registry.SetAttr(n, "data-component", string(c.Type))
	return n
}

// Placeholder is the visible stand-in for a component type the registry
// does not know.
func Placeholder(typeName string) *html.Node {
	n := registry.El("div", "unknown-component p-4 rounded-lg text-red-400",
		registry.Text("Unknown component: "+typeName))
	return registry.SetAttr(n, "data-unknown-type", typeName)
}

// RenderHTML writes the rendered fragment for components to w.
func (r *Renderer) RenderHTML(w io.Writer, components []schema.ComponentNode) error {
	return html.Render(w, r.Render(components))
}

// Document writes a complete HTML page for the schema, titled with its name
// and themed with its theme.
func (r *Renderer) Document(w io.Writer, s schema.LayoutSchema) error {
	theme := s.Theme
	if !theme.Valid() {
		theme = schema.DefaultTheme
	}

	title := &html.Node{Type: html.ElementNode, Data: "title", DataAtom: atom.Title}
	title.AppendChild(registry.Text(s.Name))

	meta := registry.El("meta", "")
	registry.SetAttr(meta, "charset", "utf-8")
	viewport := registry.El("meta", "")
	registry.SetAttr(viewport, "name", "viewport")
	registry.SetAttr(viewport, "content", "width=device-width, initial-scale=1")
	style := registry.El("style", "", registry.Text(baseCSS))

	body := registry.El("body", "theme-"+string(theme), r.Render(s.Components))
	registry.SetAttr(body, "data-schema-id", s.ID)

	page := registry.El("html", string(theme), registry.El("head", "", meta, viewport, title, style), body)
	registry.SetAttr(page, "lang", "en")

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(page)
	return html.Render(w, doc)
}

// String renders components to an HTML string.
func (r *Renderer) String(components []schema.ComponentNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderHTML(&buf, components); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const baseCSS = `
body{margin:0;font-family:Inter,sans-serif}
.theme-dark{background:#020617;color:#e2e8f0}
.theme-light{background:#f8fafc;color:#0f172a}
.grid{display:grid;gap:1.5rem}
.grid-cols-12{grid-template-columns:repeat(12,minmax(0,1fr))}
.space-y-6>*+*{margin-top:1.5rem}
.glass{border:1px solid rgba(148,163,184,.25);border-radius:1rem;padding:1.5rem}
.unknown-component{border:1px solid rgba(239,68,68,.3);background:rgba(239,68,68,.1);color:#f87171}
`
