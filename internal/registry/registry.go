// Package registry is the closed catalog of renderable component types. Each
// entry pairs a widget renderer with a JSON Schema prop contract.
package registry

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/net/html"

	"promptcraft_server/internal/schema"
)

// RenderFunc turns a component's typed props into a DOM subtree.
type RenderFunc func(schema.TypedProps) *html.Node

// Component is one registered widget.
type Component struct {
	Name        schema.ComponentType
	Description string
	render      RenderFunc
	contract    *jsonschema.Schema
	rawContract string
}

// Render decodes the node's props into their typed record and renders them.
// Props that fail to decode render with an empty record rather than failing.
func (c Component) Render(node schema.ComponentNode) *html.Node {
	typed, err := schema.Typed(node)
	if err != nil {
		log.Printf("WARN: %s %q props could not be decoded, rendering defaults: %v", c.Name, node.ID, err)
		typed, _ = schema.Typed(schema.ComponentNode{Type: node.Type})
	}
	return c.render(typed)
}

// Contract returns the JSON Schema document the props are checked against.
func (c Component) Contract() json.RawMessage { return json.RawMessage(c.rawContract) }

// Registry is an immutable table built once by New.
type Registry struct {
	components map[schema.ComponentType]Component
}

type entry struct {
	name        schema.ComponentType
	description string
	render      RenderFunc
	contract    string
}

var catalog = []entry{
	{schema.TypeGraph, "Displays data as line, bar, or pie charts", renderGraph, graphContract},
	{schema.TypeCard, "Display content in a card with optional icon, value, and trend", renderCard, cardContract},
	{schema.TypeGlassCard, "Glass morphism card with hover effects", renderGlassCard, glassCardContract},
	{schema.TypeTable, "Display tabular data with columns and rows", renderTable, tableContract},
	{schema.TypeChart, "Display various chart types for data visualization", renderChart, chartContract},
	{schema.TypeForm, "Create forms with various input fields", renderForm, formContract},
	{schema.TypeHeader, "Page header with title and optional subtitle", renderHeader, headerContract},
	{schema.TypeMap, "Display interactive map", renderMap, mapContract},
	{schema.TypeButton, "Interactive button component", renderButton, buttonContract},
	{schema.TypeSidebar, "Navigation sidebar with a list of items", renderSidebar, sidebarContract},
	{schema.TypeChat, "Chat interface with message history", renderChat, chatContract},
}

// New compiles every contract and returns the registry. It fails only if a
// built-in contract is malformed.
func New() (*Registry, error) {
	r := &Registry{components: make(map[schema.ComponentType]Component, len(catalog))}
	for _, e := range catalog {
		compiled, err := compileContract(string(e.name), e.contract)
		if err != nil {
			return nil, err
		}
		r.components[e.name] = Component{
			Name:        e.name,
			Description: e.description,
			render:      e.render,
			contract:    compiled,
			rawContract: e.contract,
		}
	}
	return r, nil
}

// MustNew is New for process start-up, where a broken built-in contract is a
// programming error.
func MustNew() *Registry {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func compileContract(name, doc string) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	url := fmt.Sprintf("https://promptcraft.local/components/%s.schema.json", name)
	if err := c.AddResource(url, strings.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("registry contract load failed for %s: %w", name, err)
	}
	compiled, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("registry contract compile failed for %s: %w", name, err)
	}
	return compiled, nil
}

// Resolve looks up a component by type name.
func (r *Registry) Resolve(name string) (Component, bool) {
	c, ok := r.components[schema.ComponentType(name)]
	return c, ok
}

// Components lists the registered components sorted by name.
func (r *Registry) Components() []Component {
	out := make([]Component, 0, len(r.components))
	for _, c := range r.components {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Validate checks props against the component's contract and reports why
// they do not match.
func (r *Registry) Validate(name string, props schema.Props) error {
	c, ok := r.Resolve(name)
	if !ok {
		return fmt.Errorf("component %q is not registered", name)
	}
	doc, err := jsonValue(props)
	if err != nil {
		return fmt.Errorf("props of %s are not JSON: %w", name, err)
	}
	if err := c.contract.Validate(doc); err != nil {
		return fmt.Errorf("props of %s do not match contract: %w", name, err)
	}
	return nil
}

// ValidateProps reports whether props satisfy the contract of the named
// component. Unknown names and mismatches return false; callers log and
// continue.
func (r *Registry) ValidateProps(name string, props schema.Props) bool {
	return r.Validate(name, props) == nil
}

// jsonValue converts props into the generic shape the validator expects.
func jsonValue(props schema.Props) (any, error) {
	if props == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(props)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}
