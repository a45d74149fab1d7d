package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"promptcraft_server/internal/ai/prompts"
	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/utils"
)

// DefaultLayoutName is used when the model returns a layout without a name.
const DefaultLayoutName = "Generated Layout"

// ErrMissingComponents is returned when a model reply has no components array.
var ErrMissingComponents = errors.New("invalid layout: missing components array")

// wrapperKeys are the envelope keys models sometimes nest the layout under.
var wrapperKeys = []string{"layout", "schema", "result", "data", "output"}

type rawLayout struct {
	ID          string         `mapstructure:"id"`
	Name        string         `mapstructure:"name"`
	Description string         `mapstructure:"description"`
	Components  []rawComponent `mapstructure:"components"`
	Theme       string         `mapstructure:"theme"`
	Responsive  *bool          `mapstructure:"responsive"`
}

type rawComponent struct {
	ID     string                `mapstructure:"id"`
	Type   string                `mapstructure:"type"`
	Props  map[string]any        `mapstructure:"props"`
	Layout *schema.GridPlacement `mapstructure:"layout"`
}

// GenerateLayout asks the model for a layout schema for prompt. Replies are
// cached per prompt and temperature; a cached reply is handed out under a
// new id.
func (g *Generator) GenerateLayout(ctx context.Context, prompt string) (schema.LayoutSchema, error) {
	if !g.enabled {
		return schema.LayoutSchema{}, ErrNotConfigured
	}
	if s, ok := g.cached(prompt); ok {
		log.Printf("Using cached layout for prompt %q", prompt)
		s.ID = schema.NewID()
		return s, nil
	}

	types := make([]string, 0, len(schema.KnownTypes()))
	for _, t := range schema.KnownTypes() {
		types = append(types, string(t))
	}

	text, err := g.complete(ctx, prompts.GetLayoutSystemPrompt(types), prompts.GetLayoutUserPrompt(prompt), true)
	if err != nil {
		return schema.LayoutSchema{}, err
	}

	s, err := g.ParseLayout(text, prompt)
	if err != nil {
		log.Printf("ERROR: Failed to parse model layout: %v. Raw reply: %.200s", err, text)
		return schema.LayoutSchema{}, err
	}

	g.store(prompt, s)
	return s, nil
}

// ParseLayout decodes a model reply into a schema, filling defaults for
// anything missing. The reply may be fenced or wrapped in an envelope object.
func (g *Generator) ParseLayout(text, prompt string) (schema.LayoutSchema, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(utils.StripCodeFence(text)), &doc); err != nil {
		return schema.LayoutSchema{}, fmt.Errorf("layout reply is not a JSON object: %w", err)
	}

	if _, ok := doc["components"]; !ok {
		for _, key := range wrapperKeys {
			if inner, ok := doc[key].(map[string]any); ok {
				if _, has := inner["components"]; has {
					doc = inner
					break
				}
			}
		}
	}
	if _, ok := doc["components"].([]any); !ok {
		return schema.LayoutSchema{}, ErrMissingComponents
	}

	var raw rawLayout
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &raw,
	})
	if err != nil {
		return schema.LayoutSchema{}, fmt.Errorf("build layout decoder: %w", err)
	}
	if err := dec.Decode(doc); err != nil {
		return schema.LayoutSchema{}, fmt.Errorf("decode layout: %w", err)
	}

	return g.fillDefaults(raw, prompt), nil
}

// fillDefaults turns a loosely decoded layout into a schema. Missing ids,
// names, props and themes get defaults; every string prop is stripped of
// markup. Components without a placement keep a nil layout so the
// auto-layout pass can size them.
func (g *Generator) fillDefaults(raw rawLayout, prompt string) schema.LayoutSchema {
	out := schema.LayoutSchema{
		ID:          strings.TrimSpace(raw.ID),
		Name:        g.cleanText(strings.TrimSpace(raw.Name)),
		Description: prompt,
		Components:  make([]schema.ComponentNode, 0, len(raw.Components)),
		Theme:       schema.Theme(strings.ToLower(strings.TrimSpace(raw.Theme))),
		Responsive:  raw.Responsive == nil || *raw.Responsive,
	}
	if out.ID == "" {
		out.ID = schema.NewID()
	}
	if out.Name == "" {
		out.Name = DefaultLayoutName
	}
	if out.Description == "" {
		out.Description = g.cleanText(raw.Description)
	}
	if !out.Theme.Valid() {
		out.Theme = schema.DefaultTheme
	}

	seen := make(map[string]bool, len(raw.Components))
	for i, rc := range raw.Components {
		node := schema.ComponentNode{
			ID:   strings.TrimSpace(rc.ID),
			Type: schema.ComponentType(strings.TrimSpace(rc.Type)),
		}
		if node.ID == "" || seen[node.ID] {
			node.ID = fmt.Sprintf("%s-%d", strings.ToLower(string(node.Type)), i+1)
		}
		for seen[node.ID] {
			node.ID += "-x"
		}
		seen[node.ID] = true

		node.Props = schema.Props{}
		for k, v := range rc.Props {
			node.Props[k] = g.sanitize(v)
		}
		if rc.Layout != nil {
			l := *rc.Layout
			node.Layout = &l
		}
		out.Components = append(out.Components, node)
	}
	return out
}

func (g *Generator) sanitize(v any) any {
	switch t := v.(type) {
	case string:
		return g.cleanText(t)
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = g.sanitize(val)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = g.sanitize(val)
		}
		return s
	default:
		return v
	}
}

// cleanText drops any markup from s. The policy escapes entities, which the
// renderer does again, so they are decoded back here.
func (g *Generator) cleanText(s string) string {
	return html.UnescapeString(g.sanitizer.Sanitize(s))
}
