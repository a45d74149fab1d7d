package studio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft_server/internal/parser"
	"promptcraft_server/internal/schema"
)

type stubCollaborator struct {
	enabled bool
	schema  schema.LayoutSchema
	err     error
	block   chan struct{}
	started chan struct{}
	prompts []string
	mu      sync.Mutex
}

func (c *stubCollaborator) Enabled() bool { return c.enabled }

func (c *stubCollaborator) GenerateLayout(ctx context.Context, prompt string) (schema.LayoutSchema, error) {
	c.mu.Lock()
	c.prompts = append(c.prompts, prompt)
	c.mu.Unlock()
	if c.started != nil {
		close(c.started)
	}
	if c.block != nil {
		select {
		case <-c.block:
		case <-ctx.Done():
			return schema.LayoutSchema{}, ctx.Err()
		}
	}
	return c.schema.Clone(), c.err
}

func aiSchema() schema.LayoutSchema {
	return schema.LayoutSchema{
		ID:   "ai",
		Name: "From AI",
		Components: []schema.ComponentNode{
			{ID: "h", Type: schema.TypeHeader, Props: schema.Props{"title": "T"}},
			{ID: "c", Type: schema.TypeCard},
			{ID: "x", Type: schema.TypeChart, Props: schema.Props{}, Layout: &schema.GridPlacement{X: 11, Y: -2, Width: 6, Height: 4}},
		},
	}
}

func TestGenerate_UsesCollaborator(t *testing.T) {
	collab := &stubCollaborator{enabled: true, schema: aiSchema()}
	s := New(collab)

	res, err := s.Generate(context.Background(), "sales overview")
	require.NoError(t, err)

	assert.Equal(t, SourceAI, res.Source)
	assert.Empty(t, res.Notice)
	assert.Equal(t, "sales overview", res.Schema.Description)
	assert.Equal(t, schema.ThemeDark, res.Schema.Theme)

	// missing props filled, missing placements backfilled, bad ones clamped
	comps := res.Schema.Components
	assert.NotNil(t, comps[1].Props)
	for _, c := range comps {
		require.NotNil(t, c.Layout, c.ID)
	}
	assert.Equal(t, schema.GridPlacement{X: 0, Y: 0, Width: 12, Height: 1}, *comps[0].Layout)
	assert.Equal(t, schema.GridPlacement{X: 0, Y: 1, Width: 4, Height: 3}, *comps[1].Layout)
	assert.Equal(t, schema.GridPlacement{X: 6, Y: 0, Width: 6, Height: 4}, *comps[2].Layout)

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, res.Schema, current)
}

func TestGenerate_FallsBackOnCollaboratorError(t *testing.T) {
	collab := &stubCollaborator{enabled: true, err: errors.New("quota exceeded")}
	s := New(collab, WithParser(parser.New(parser.WithSeed(1))))

	res, err := s.Generate(context.Background(), "Build a contact form")
	require.NoError(t, err)

	assert.Equal(t, SourceRules, res.Source)
	assert.Contains(t, res.Notice, "failed")
	assert.Equal(t, "Contact Form", res.Schema.Name)
	assert.Equal(t, []string{"Build a contact form"}, collab.prompts)
}

func TestGenerate_FallsBackOnTimeout(t *testing.T) {
	collab := &stubCollaborator{enabled: true, block: make(chan struct{})}
	s := New(collab, WithTimeout(10*time.Millisecond))

	res, err := s.Generate(context.Background(), "table of users")
	require.NoError(t, err)
	assert.Equal(t, SourceRules, res.Source)
	assert.Contains(t, res.Notice, "too long")
}

func TestGenerate_DisabledCollaboratorIsSkipped(t *testing.T) {
	collab := &stubCollaborator{enabled: false}
	res, err := New(collab).Generate(context.Background(), "cards")
	require.NoError(t, err)
	assert.Equal(t, SourceRules, res.Source)
	assert.Contains(t, res.Notice, "not configured")
	assert.Empty(t, collab.prompts)

	res, err = New(nil).Generate(context.Background(), "cards")
	require.NoError(t, err)
	assert.Equal(t, SourceRules, res.Source)
}

func TestGenerate_RejectsBlankPrompt(t *testing.T) {
	s := New(nil)
	_, err := s.Generate(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPrompt)
	_, err = s.Current()
	assert.ErrorIs(t, err, ErrNoSchema)
}

func TestGenerate_RejectsWhileInFlight(t *testing.T) {
	collab := &stubCollaborator{enabled: true, schema: aiSchema(), block: make(chan struct{}), started: make(chan struct{})}
	s := New(collab)

	done := make(chan error, 1)
	go func() {
		_, err := s.Generate(context.Background(), "first")
		done <- err
	}()
	<-collab.started
	assert.True(t, s.Generating())

	_, err := s.Generate(context.Background(), "second")
	assert.ErrorIs(t, err, ErrGenerationInFlight)

	close(collab.block)
	require.NoError(t, <-done)
	assert.False(t, s.Generating())

	st := s.History()
	assert.Empty(t, st.Past)
	require.NotNil(t, st.Present)
	assert.Equal(t, "first", st.Present.Description)
}

func TestUndoRedoThroughStudio(t *testing.T) {
	s := New(nil)
	ctx := context.Background()

	_, err := s.Undo()
	assert.ErrorIs(t, err, ErrNothingToUndo)

	a, err := s.Generate(ctx, "A dashboard")
	require.NoError(t, err)
	b, err := s.Generate(ctx, "B table")
	require.NoError(t, err)

	prev, err := s.Undo()
	require.NoError(t, err)
	assert.Equal(t, a.Schema.ID, prev.ID)

	next, err := s.Redo()
	require.NoError(t, err)
	assert.Equal(t, b.Schema.ID, next.ID)

	_, err = s.Redo()
	assert.ErrorIs(t, err, ErrNothingToRedo)

	// a new generation after an undo discards the redo branch
	_, err = s.Undo()
	require.NoError(t, err)
	_, err = s.Generate(ctx, "C form")
	require.NoError(t, err)
	st := s.History()
	assert.Len(t, st.Past, 1)
	assert.Empty(t, st.Future)
}

func TestOnGeneratedHook(t *testing.T) {
	s := New(nil)
	var got []Result
	s.OnGenerated(func(r Result) { got = append(got, r) })

	_, err := s.Generate(context.Background(), "charts")
	require.NoError(t, err)
	s.Load(schema.New("stored", "from disk"))

	require.Len(t, got, 1)
	assert.Equal(t, "charts", got[0].Prompt)
}

func TestApplySuggestionExtendsPrompt(t *testing.T) {
	collab := &stubCollaborator{enabled: true, schema: aiSchema()}
	s := New(collab)

	_, err := s.ApplySuggestion(context.Background(), "")
	assert.ErrorIs(t, err, ErrEmptyPrompt)

	_, err = s.Generate(context.Background(), "sales overview.")
	require.NoError(t, err)
	res, err := s.ApplySuggestion(context.Background(), "Add a map")
	require.NoError(t, err)

	assert.Equal(t, "sales overview. Add a map", res.Prompt)
	assert.Equal(t, "sales overview. Add a map", s.Prompt())
}

func TestLoadAppliesStoredSchema(t *testing.T) {
	s := New(nil)
	stored := schema.New("Saved", "saved prompt")
	stored.Components = append(stored.Components, schema.ComponentNode{ID: "b", Type: schema.TypeButton, Props: schema.Props{"text": "Go"}})

	loaded := s.Load(stored)
	require.NotNil(t, loaded.Components[0].Layout)
	assert.Equal(t, 2, loaded.Components[0].Layout.Width)
	assert.Nil(t, stored.Components[0].Layout)

	current, err := s.Current()
	require.NoError(t, err)
	assert.Equal(t, loaded, current)
	assert.Equal(t, "saved prompt", s.Prompt())
}

func TestSetTimeout(t *testing.T) {
	s := New(nil)
	assert.Equal(t, DefaultTimeout, s.Timeout())
	s.SetTimeout(time.Second)
	assert.Equal(t, time.Second, s.Timeout())
	s.SetTimeout(0)
	assert.Equal(t, DefaultTimeout, s.Timeout())
}
