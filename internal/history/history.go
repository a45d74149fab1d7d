// Package history keeps a linear undo/redo log of layout schemas.
package history

import "promptcraft_server/internal/schema"

// State is a read-only copy of the log. Past is oldest first; Future is
// nearest-undo first.
type State struct {
	Past    []schema.LayoutSchema `json:"past"`
	Present *schema.LayoutSchema  `json:"present"`
	Future  []schema.LayoutSchema `json:"future"`
}

// History is the undo/redo state machine. It is not safe for concurrent
// use; owners serialize access.
type History struct {
	past    []schema.LayoutSchema
	present *schema.LayoutSchema
	future  []schema.LayoutSchema
	limit   int
}

// New returns an empty history. limit bounds the number of past entries
// kept; zero means unbounded.
func New(limit int) *History {
	return &History{limit: limit}
}

// Apply makes s the present: the old present is pushed onto the past and
// the future is discarded.
func (h *History) Apply(s schema.LayoutSchema) {
	if h.present != nil {
		h.past = append(h.past, *h.present)
		if h.limit > 0 && len(h.past) > h.limit {
			h.past = h.past[len(h.past)-h.limit:]
		}
	}
	p := s
	h.present = &p
	h.future = nil
}

// Undo moves the present onto the front of the future and restores the
// most recent past entry.
func (h *History) Undo() (schema.LayoutSchema, bool) {
	if len(h.past) == 0 || h.present == nil {
		return schema.LayoutSchema{}, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]schema.LayoutSchema{*h.present}, h.future...)
	h.present = &prev
	return prev, true
}

// Redo re-applies the nearest undone entry.
func (h *History) Redo() (schema.LayoutSchema, bool) {
	if len(h.future) == 0 || h.present == nil {
		return schema.LayoutSchema{}, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, *h.present)
	h.present = &next
	return next, true
}

// Present returns the current schema, if any.
func (h *History) Present() (schema.LayoutSchema, bool) {
	if h.present == nil {
		return schema.LayoutSchema{}, false
	}
	return *h.present, true
}

func (h *History) CanUndo() bool { return h.present != nil && len(h.past) > 0 }
func (h *History) CanRedo() bool { return h.present != nil && len(h.future) > 0 }

// Snapshot copies the log.
func (h *History) Snapshot() State {
	st := State{
		Past:   append([]schema.LayoutSchema{}, h.past...),
		Future: append([]schema.LayoutSchema{}, h.future...),
	}
	if h.present != nil {
		p := *h.present
		st.Present = &p
	}
	return st
}

// Reset drops every entry.
func (h *History) Reset() {
	h.past, h.present, h.future = nil, nil, nil
}
