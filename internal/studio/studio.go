// Package studio runs the prompt-to-layout pipeline and owns the undo/redo
// log of the session.
package studio

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"promptcraft_server/internal/history"
	"promptcraft_server/internal/layout"
	"promptcraft_server/internal/parser"
	"promptcraft_server/internal/schema"
)

var (
	ErrGenerationInFlight = errors.New("a generation is already in progress")
	ErrEmptyPrompt        = errors.New("prompt must not be empty")
	ErrNothingToUndo      = errors.New("nothing to undo")
	ErrNothingToRedo      = errors.New("nothing to redo")
	ErrNoSchema           = errors.New("no layout has been generated yet")

	errCollaboratorDisabled = errors.New("ai collaborator is not configured")
)

const DefaultTimeout = 20 * time.Second

// Source says which stage produced a schema.
type Source string

const (
	SourceAI       Source = "ai"
	SourceRules    Source = "rules"
	SourceTemplate Source = "template"
	SourceProject  Source = "project"
)

// Collaborator is the external model that can propose a layout.
type Collaborator interface {
	Enabled() bool
	GenerateLayout(ctx context.Context, prompt string) (schema.LayoutSchema, error)
}

// Outcome is the result of the collaborator stage: a schema, or the reason
// there is none.
type Outcome struct {
	Schema schema.LayoutSchema
	Err    error
}

func (o Outcome) OK() bool { return o.Err == nil }

// Result is what a generation hands back to callers.
type Result struct {
	Schema schema.LayoutSchema `json:"schema"`
	Source Source              `json:"source"`
	Prompt string              `json:"prompt"`
	Notice string              `json:"notice,omitempty"`
}

// Studio serializes generations and keeps the history consistent with them.
type Studio struct {
	collaborator Collaborator
	parser       *parser.Parser
	timeout      atomic.Int64
	inFlight     atomic.Bool

	mu          sync.Mutex
	history     *history.History
	onGenerated []func(Result)
}

type Option func(*Studio)

// WithParser replaces the rule-based generator, e.g. with a seeded one.
func WithParser(p *parser.Parser) Option {
	return func(s *Studio) { s.parser = p }
}

// WithHistoryLimit bounds the number of undo steps kept.
func WithHistoryLimit(n int) Option {
	return func(s *Studio) { s.history = history.New(n) }
}

func WithTimeout(d time.Duration) Option {
	return func(s *Studio) { s.SetTimeout(d) }
}

// New builds a studio. collaborator may be nil, in which case every
// generation goes straight to the rule-based parser.
func New(collaborator Collaborator, opts ...Option) *Studio {
	s := &Studio{
		collaborator: collaborator,
		parser:       parser.New(),
		history:      history.New(0),
	}
	s.timeout.Store(int64(DefaultTimeout))
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTimeout bounds each collaborator call. Non-positive values restore the default.
func (s *Studio) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultTimeout
	}
	s.timeout.Store(int64(d))
}

func (s *Studio) Timeout() time.Duration { return time.Duration(s.timeout.Load()) }

// OnGenerated registers fn to be called after each committed generation.
func (s *Studio) OnGenerated(fn func(Result)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onGenerated = append(s.onGenerated, fn)
}

// Generating reports whether a generation is running.
func (s *Studio) Generating() bool { return s.inFlight.Load() }

// Generate turns prompt into a schema and makes it the present. The
// collaborator is tried first; on any failure the rule-based parser runs.
// Only one generation may run at a time.
func (s *Studio) Generate(ctx context.Context, prompt string) (Result, error) {
	if strings.TrimSpace(prompt) == "" {
		return Result{}, ErrEmptyPrompt
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return Result{}, ErrGenerationInFlight
	}
	defer s.inFlight.Store(false)

	res := Result{Prompt: prompt}
	outcome := s.collaborate(ctx, prompt)
	if outcome.OK() {
		res.Schema, res.Source = outcome.Schema, SourceAI
	} else {
		log.Printf("Info: Falling back to rule-based generation: %v", outcome.Err)
		res.Schema, res.Source = s.parser.Generate(prompt), SourceRules
		res.Notice = notice(outcome.Err)
	}

	res.Schema = Finalize(res.Schema, prompt)
	s.commit(res)
	return res, nil
}

func (s *Studio) collaborate(ctx context.Context, prompt string) Outcome {
	if s.collaborator == nil || !s.collaborator.Enabled() {
		return Outcome{Err: errCollaboratorDisabled}
	}
	ctx, cancel := context.WithTimeout(ctx, s.Timeout())
	defer cancel()

	out, err := s.collaborator.GenerateLayout(ctx, prompt)
	if err != nil {
		return Outcome{Err: fmt.Errorf("ai generation failed: %w", err)}
	}
	return Outcome{Schema: out}
}

func notice(err error) string {
	switch {
	case errors.Is(err, errCollaboratorDisabled):
		return "AI is not configured; layout generated by the built-in parser."
	case errors.Is(err, context.DeadlineExceeded):
		return "AI took too long to respond; layout generated by the built-in parser."
	default:
		return "AI generation failed; layout generated by the built-in parser."
	}
}

// Finalize makes any schema safe to render and store: defaults for
// missing fields, placements resized and clamped onto the grid, then
// auto-layout for components that have none.
func Finalize(s schema.LayoutSchema, prompt string) schema.LayoutSchema {
	out := s.Clone()
	if out.ID == "" {
		out.ID = schema.NewID()
	}
	if out.Name == "" {
		out.Name = parser.ExtractTitle(prompt)
	}
	if out.Description == "" {
		out.Description = prompt
	}
	if !out.Theme.Valid() {
		out.Theme = schema.DefaultTheme
	}
	for i := range out.Components {
		if out.Components[i].Props == nil {
			out.Components[i].Props = schema.Props{}
		}
	}
	out.Components = layout.FitSizes(out.Components)
	out = layout.Normalize(out)
	out.Components = layout.AssignLayout(out.Components)
	return out
}

// commit applies the schema to the history and notifies observers.
func (s *Studio) commit(res Result) {
	s.mu.Lock()
	s.history.Apply(res.Schema.Clone())
	hooks := append([]func(Result){}, s.onGenerated...)
	s.mu.Unlock()

	for _, fn := range hooks {
		fn(res)
	}
}

// Load makes a stored schema the present, through the same history
// transaction as a generation. Observers are not notified.
func (s *Studio) Load(sc schema.LayoutSchema) schema.LayoutSchema {
	out := Finalize(sc, sc.Description)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Apply(out.Clone())
	return out
}

// ApplySuggestion regenerates with suggestion appended to the prompt that
// produced the current schema.
func (s *Studio) ApplySuggestion(ctx context.Context, suggestion string) (Result, error) {
	suggestion = strings.TrimSpace(suggestion)
	if suggestion == "" {
		return Result{}, ErrEmptyPrompt
	}

	prompt := suggestion
	base := strings.TrimRight(strings.TrimSpace(s.Prompt()), ".")
	if base != "" {
		prompt = base + ". " + suggestion
	}
	return s.Generate(ctx, prompt)
}

func (s *Studio) Undo() (schema.LayoutSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.history.Undo()
	if !ok {
		return schema.LayoutSchema{}, ErrNothingToUndo
	}
	return out.Clone(), nil
}

func (s *Studio) Redo() (schema.LayoutSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.history.Redo()
	if !ok {
		return schema.LayoutSchema{}, ErrNothingToRedo
	}
	return out.Clone(), nil
}

// Current returns the present schema.
func (s *Studio) Current() (schema.LayoutSchema, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out, ok := s.history.Present()
	if !ok {
		return schema.LayoutSchema{}, ErrNoSchema
	}
	return out.Clone(), nil
}

// Prompt returns the prompt behind the present schema, which every
// pipeline stage records as its description.
func (s *Studio) Prompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if present, ok := s.history.Present(); ok {
		return present.Description
	}
	return ""
}

// History returns a copy of the undo/redo log.
func (s *Studio) History() history.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.history.Snapshot()
	for i := range st.Past {
		st.Past[i] = st.Past[i].Clone()
	}
	for i := range st.Future {
		st.Future[i] = st.Future[i].Clone()
	}
	if st.Present != nil {
		p := st.Present.Clone()
		st.Present = &p
	}
	return st
}

// Reset clears the session.
func (s *Studio) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history.Reset()
}
