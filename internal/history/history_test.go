package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptcraft_server/internal/schema"
)

func named(name string) schema.LayoutSchema {
	s := schema.New(name, name)
	s.ID = name
	return s
}

func TestUndoRedo(t *testing.T) {
	h := New(0)
	a, b, c := named("A"), named("B"), named("C")

	h.Apply(a)
	h.Apply(b)

	got, ok := h.Undo()
	require.True(t, ok)
	assert.Equal(t, "A", got.ID)
	st := h.Snapshot()
	require.Len(t, st.Future, 1)
	assert.Equal(t, "B", st.Future[0].ID)
	assert.Empty(t, st.Past)

	got, ok = h.Redo()
	require.True(t, ok)
	assert.Equal(t, "B", got.ID)
	assert.Empty(t, h.Snapshot().Future)

	h.Undo()
	h.Apply(c)
	st = h.Snapshot()
	assert.Empty(t, st.Future, "applying after undo discards the redo branch")
	require.Len(t, st.Past, 1)
	assert.Equal(t, "A", st.Past[0].ID)
	assert.Equal(t, "C", st.Present.ID)
}

func TestUndoRedo_Empty(t *testing.T) {
	h := New(0)
	_, ok := h.Undo()
	assert.False(t, ok)
	_, ok = h.Redo()
	assert.False(t, ok)
	_, ok = h.Present()
	assert.False(t, ok)

	h.Apply(named("A"))
	_, ok = h.Undo()
	assert.False(t, ok, "first schema has nothing before it")
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestFutureOrderIsNearestFirst(t *testing.T) {
	h := New(0)
	for _, n := range []string{"A", "B", "C", "D"} {
		h.Apply(named(n))
	}
	h.Undo()
	h.Undo()

	st := h.Snapshot()
	require.Len(t, st.Future, 2)
	assert.Equal(t, "C", st.Future[0].ID)
	assert.Equal(t, "D", st.Future[1].ID)
	assert.Equal(t, "B", st.Present.ID)
}

func TestLimit(t *testing.T) {
	h := New(2)
	for _, n := range []string{"A", "B", "C", "D"} {
		h.Apply(named(n))
	}
	st := h.Snapshot()
	require.Len(t, st.Past, 2)
	assert.Equal(t, "B", st.Past[0].ID)
	assert.Equal(t, "C", st.Past[1].ID)
}

func TestSnapshotIsACopy(t *testing.T) {
	h := New(0)
	h.Apply(named("A"))
	h.Apply(named("B"))

	st := h.Snapshot()
	st.Past[0].ID = "mutated"
	st.Present.ID = "mutated"

	p, _ := h.Present()
	assert.Equal(t, "B", p.ID)
	got, _ := h.Undo()
	assert.Equal(t, "A", got.ID)
}
