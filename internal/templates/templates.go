// Package templates holds the starter layouts users can begin from.
package templates

import (
	_ "embed"
	"fmt"
	"log"

	"gopkg.in/yaml.v3"

	"promptcraft_server/internal/schema"
)

//go:embed templates.yaml
var catalogYAML []byte

// Template is a named, ready-made layout.
type Template struct {
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	Category    string              `json:"category" yaml:"category"`
	Schema      schema.LayoutSchema `json:"schema" yaml:"schema"`
}

var catalog = mustLoad(catalogYAML)

func mustLoad(doc []byte) []Template {
	out, err := load(doc)
	if err != nil {
		log.Fatalf("ERROR: built-in templates are invalid: %v", err)
	}
	return out
}

// load decodes a template list and rewrites props into their JSON shape so
// templates compare equal to their stored or exported copies.
func load(doc []byte) ([]Template, error) {
	var out []Template
	if err := yaml.Unmarshal(doc, &out); err != nil {
		return nil, fmt.Errorf("decode templates: %w", err)
	}
	for i, t := range out {
		if t.ID == "" {
			return nil, fmt.Errorf("template %d has no id", i)
		}
		canonical, err := t.Schema.Canonical()
		if err != nil {
			return nil, fmt.Errorf("template %s: %w", t.ID, err)
		}
		if canonical.Components == nil {
			canonical.Components = []schema.ComponentNode{}
		}
		out[i].Schema = canonical
	}
	return out, nil
}

// All returns copies of every template in catalog order.
func All() []Template {
	out := make([]Template, len(catalog))
	for i, t := range catalog {
		out[i] = t
		out[i].Schema = t.Schema.Clone()
	}
	return out
}

// Get returns a copy of the template with id.
func Get(id string) (Template, bool) {
	for _, t := range catalog {
		if t.ID == id {
			t.Schema = t.Schema.Clone()
			return t, true
		}
	}
	return Template{}, false
}

// Instantiate returns the template's schema with a fresh id, ready to be
// loaded as a new layout.
func (t Template) Instantiate() schema.LayoutSchema {
	s := t.Schema.Clone()
	s.ID = schema.NewID()
	return s
}
