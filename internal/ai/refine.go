package ai

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"promptcraft_server/internal/ai/prompts"
	"promptcraft_server/internal/schema"
	"promptcraft_server/internal/utils"
)

const maxFallbackSuggestions = 4

// Suggestions asks the model for improvement ideas for s. Any failure, or a
// disabled generator, falls back to FallbackSuggestions.
func (g *Generator) Suggestions(ctx context.Context, s schema.LayoutSchema) []string {
	if !g.enabled {
		return FallbackSuggestions(s)
	}

	doc, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Printf("ERROR: Failed to encode schema for suggestions: %v", err)
		return FallbackSuggestions(s)
	}

	text, err := g.complete(ctx, "You review UI layouts.", prompts.GetSuggestionsPrompt(string(doc)), false)
	if err != nil {
		log.Printf("ERROR: Error generating suggestions: %v", err)
		return FallbackSuggestions(s)
	}

	arr := utils.ExtractJSONArray(text)
	if arr == "" {
		return FallbackSuggestions(s)
	}
	var out []string
	if err := json.Unmarshal([]byte(arr), &out); err != nil {
		log.Printf("WARN: Suggestions reply is not a string array: %v", err)
		return FallbackSuggestions(s)
	}

	clean := out[:0]
	for _, item := range out {
		if item = strings.TrimSpace(g.cleanText(item)); item != "" {
			clean = append(clean, item)
		}
	}
	if len(clean) == 0 {
		return FallbackSuggestions(s)
	}
	return clean
}

// FallbackSuggestions derives up to four suggestions from the component mix
// of s without calling the model.
func FallbackSuggestions(s schema.LayoutSchema) []string {
	counts := make(map[schema.ComponentType]int)
	for _, c := range s.Components {
		counts[c.Type]++
	}
	total := len(s.Components)

	var out []string
	if counts[schema.TypeHeader] == 0 {
		out = append(out, "Add a Header component to define the page structure.")
	}
	if counts[schema.TypeChart] > 0 && counts[schema.TypeCard]+counts[schema.TypeGlassCard] == 0 {
		out = append(out, "Add Stat Cards above charts to summarize key metrics.")
	}
	if counts[schema.TypeForm] > 0 {
		out = append(out, `Group related form fields using a "GlassCard" container.`)
	}
	if counts[schema.TypeSidebar] == 0 && total > 3 {
		out = append(out, "Add a Sidebar for better navigation in complex layouts.")
	}
	if total > 0 && counts[schema.TypeGlassCard] == 0 {
		out = append(out, `Wrap sections in "GlassCard" components for a premium modern look.`)
	}
	if counts[schema.TypeTable] > 0 && counts[schema.TypeChart] == 0 {
		out = append(out, "Visualize your table data with a Bar or Line Chart.")
	}

	if len(out) == 0 {
		out = append(out,
			`Layout looks great! Try adding a "Theme Toggle" feature.`,
			"Enhance visual hierarchy by increasing Header size.",
		)
	}
	if len(out) > maxFallbackSuggestions {
		out = out[:maxFallbackSuggestions]
	}
	return out
}

// EnhancePrompt rewrites prompt into a more detailed description. It returns
// prompt unchanged when the generator is disabled or the call fails.
func (g *Generator) EnhancePrompt(ctx context.Context, prompt string) string {
	if !g.enabled || strings.TrimSpace(prompt) == "" {
		return prompt
	}

	text, err := g.complete(ctx, "You refine UI descriptions.", prompts.GetEnhancePrompt(prompt), false)
	if err != nil {
		log.Printf("ERROR: Error enhancing prompt: %v", err)
		return prompt
	}

	enhanced := strings.Trim(strings.TrimSpace(g.cleanText(text)), `"`)
	if enhanced == "" {
		return prompt
	}
	return enhanced
}
