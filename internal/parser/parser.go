// Package parser turns free-text prompts into layout schemas without any
// model call. It is the fallback path of generation and must never fail.
package parser

import (
	"log"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"promptcraft_server/internal/schema"
)

// Archetype is the outcome of prompt classification.
type Archetype string

const (
	ArchetypeDashboard Archetype = "dashboard"
	ArchetypeTable     Archetype = "table"
	ArchetypeForm      Archetype = "form"
	ArchetypeChart     Archetype = "chart"
	ArchetypeCardGrid  Archetype = "card-grid"
	ArchetypeDefault   Archetype = "default"
)

// keyword families in priority order; the first family with any hit wins.
var families = []struct {
	archetype Archetype
	keywords  []string
}{
	{ArchetypeDashboard, []string{"dashboard"}},
	{ArchetypeTable, []string{"table", "list"}},
	{ArchetypeForm, []string{"form", "input"}},
	{ArchetypeChart, []string{"chart", "analytics"}},
	{ArchetypeCardGrid, []string{"card", "grid"}},
}

// ExamplePrompts are shown to users as starting points.
var ExamplePrompts = []string{
	"Create a CRM dashboard with pipeline stages, contacts table, and revenue metrics",
	"Build a dark-themed SaaS landing page with hero, features grid, and pricing plans",
	"Design an AI chat interface with message history, sidebar, and input area",
	"Make a crypto portfolio tracker with real-time charts, wallet balance, and transfer form",
	"Generate an analytics dashboard with traffic insights, user growth charts, and activity feed",
}

// Classify maps a prompt onto an archetype using an ordered keyword list.
func Classify(prompt string) Archetype {
	lower := strings.ToLower(prompt)
	for _, f := range families {
		for _, kw := range f.keywords {
			if strings.Contains(lower, kw) {
				return f.archetype
			}
		}
	}
	return ArchetypeDefault
}

// Parser generates schemas from prompts. The random source only feeds
// placeholder table rows and chart series.
type Parser struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithSeed makes placeholder data reproducible.
func WithSeed(seed uint64) Option {
	return func(p *Parser) { p.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithClock overrides the clock used for placeholder dates.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// New returns a parser seeded from the wall clock unless configured otherwise.
func New(opts ...Option) *Parser {
	p := &Parser{now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		seed := uint64(time.Now().UnixNano())
		p.rng = rand.New(rand.NewPCG(seed, seed>>17))
	}
	return p
}

var defaultParser = New()

// Generate runs the package-level parser.
func Generate(prompt string) schema.LayoutSchema {
	return defaultParser.Generate(prompt)
}

// Generate classifies the prompt and builds the archetype's schema. Every
// result has theme dark, responsive set and a fresh id.
func (p *Parser) Generate(prompt string) schema.LayoutSchema {
	p.mu.Lock()
	defer p.mu.Unlock()

	archetype := Classify(prompt)
	title := ExtractTitle(prompt)

	var components []schema.ComponentNode
	switch archetype {
	case ArchetypeDashboard:
		components = p.dashboard(prompt, title)
	case ArchetypeTable:
		components = p.table(title)
	case ArchetypeForm:
		components = formTemplate(title)
	case ArchetypeChart:
		components = p.charts(title)
	case ArchetypeCardGrid:
		components = cardGrid(title)
	default:
		components = defaultTemplate(title)
	}

	s := schema.LayoutSchema{
		ID:          schema.NewID(),
		Name:        title,
		Description: prompt,
		Components:  components,
		Theme:       schema.ThemeDark,
		Responsive:  true,
	}
	canonical, err := s.Canonical()
	if err != nil {
		log.Printf("WARN: could not canonicalize %s schema props: %v", archetype, err)
		return s
	}
	return canonical
}
