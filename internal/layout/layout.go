// Package layout places components on the 12-column grid.
package layout

import "promptcraft_server/internal/schema"

type size struct{ width, height int }

var defaultSizes = map[schema.ComponentType]size{
	schema.TypeHeader:  {12, 1},
	schema.TypeFooter:  {12, 1},
	schema.TypeCard:    {4, 3},
	schema.TypeTable:   {12, 6},
	schema.TypeForm:    {6, 6},
	schema.TypeChart:   {6, 4},
	schema.TypeMap:     {12, 5},
	schema.TypeSidebar: {3, 10},
	schema.TypeButton:  {2, 1},
	schema.TypeInput:   {4, 1},
}

var fallbackSize = size{4, 3}

// DefaultSize returns the width and height auto-placement gives a type.
func DefaultSize(t schema.ComponentType) (width, height int) {
	s, ok := defaultSizes[t]
	if !ok {
		s = fallbackSize
	}
	return s.width, s.height
}

// AssignLayout fills in placements for components that have none, packing
// them left to right and wrapping to the next row when the next component
// would cross column 12. Components that already carry a layout are kept as
// they are and do not move the cursor.
//
// A wrap always advances the row by exactly one, whatever the heights of the
// components already placed on that row.
func AssignLayout(components []schema.ComponentNode) []schema.ComponentNode {
	out := make([]schema.ComponentNode, len(components))
	x, y := 0, 0
	for i, c := range components {
		if c.Layout != nil {
			out[i] = c
			continue
		}
		w, h := DefaultSize(c.Type)
		if x+w > schema.GridColumns {
			y++
			x = 0
		}
		c.Layout = &schema.GridPlacement{X: x, Y: y, Width: w, Height: h}
		x += w
		out[i] = c
	}
	return out
}

// Normalize clamps every existing placement back onto the grid: x into
// [0, 12-width] and y into [0, inf). Components without a layout are left
// alone; backfilling is AssignLayout's job.
func Normalize(s schema.LayoutSchema) schema.LayoutSchema {
	out := s
	out.Components = make([]schema.ComponentNode, len(s.Components))
	for i, c := range s.Components {
		if c.Layout != nil {
			l := *c.Layout
			l.X = max(0, min(l.X, schema.GridColumns-l.Width))
			l.Y = max(0, l.Y)
			c.Layout = &l
		}
		out.Components[i] = c
	}
	return out
}

// FitSizes repairs the size of every existing placement: a width or height
// below 1 takes the type's default, and width is capped at 12. Position is
// left to Normalize.
func FitSizes(components []schema.ComponentNode) []schema.ComponentNode {
	out := make([]schema.ComponentNode, len(components))
	for i, c := range components {
		if c.Layout != nil {
			l := *c.Layout
			w, h := DefaultSize(c.Type)
			if l.Width < 1 {
				l.Width = w
			}
			l.Width = min(l.Width, schema.GridColumns)
			if l.Height < 1 {
				l.Height = h
			}
			c.Layout = &l
		}
		out[i] = c
	}
	return out
}

// ApplyResponsiveFlag marks the schema responsive and adds responsive=true
// to every component's props. Existing props are kept.
func ApplyResponsiveFlag(s schema.LayoutSchema) schema.LayoutSchema {
	out := s
	out.Responsive = true
	out.Components = make([]schema.ComponentNode, len(s.Components))
	for i, c := range s.Components {
		props := make(schema.Props, len(c.Props)+1)
		for k, v := range c.Props {
			props[k] = v
		}
		props["responsive"] = true
		c.Props = props
		out.Components[i] = c
	}
	return out
}
