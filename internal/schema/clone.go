package schema

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewID returns a schema identifier made of the current unix time in
// milliseconds and a random suffix.
func NewID() string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), suffix[:9])
}

// Clone returns a deep copy of the schema. Prop bags, nested slices and
// placements are copied so the result shares no mutable state with s.
func (s LayoutSchema) Clone() LayoutSchema {
	out := s
	out.Components = make([]ComponentNode, len(s.Components))
	for i, c := range s.Components {
		out.Components[i] = c.Clone()
	}
	return out
}

// Clone returns a deep copy of the node.
func (c ComponentNode) Clone() ComponentNode {
	out := c
	if c.Props != nil {
		out.Props = Props(copyValue(map[string]any(c.Props)).(map[string]any))
	}
	if c.Layout != nil {
		l := *c.Layout
		out.Layout = &l
	}
	return out
}

func copyValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, val := range t {
			m[k] = copyValue(val)
		}
		return m
	case Props:
		return Props(copyValue(map[string]any(t)).(map[string]any))
	case []any:
		s := make([]any, len(t))
		for i, val := range t {
			s[i] = copyValue(val)
		}
		return s
	case []map[string]any:
		s := make([]map[string]any, len(t))
		for i, val := range t {
			s[i] = copyValue(val).(map[string]any)
		}
		return s
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}

// Canonical rewrites every prop bag into the shape encoding/json produces
// when decoding (float64 numbers, []any, map[string]any). Schemas built in
// code then compare equal to the same schema after a JSON round trip.
func (s LayoutSchema) Canonical() (LayoutSchema, error) {
	out := s.Clone()
	for i := range out.Components {
		props := out.Components[i].Props
		if props == nil {
			out.Components[i].Props = Props{}
			continue
		}
		raw, err := json.Marshal(props)
		if err != nil {
			return s, fmt.Errorf("encode props of %s: %w", out.Components[i].ID, err)
		}
		var decoded Props
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return s, fmt.Errorf("decode props of %s: %w", out.Components[i].ID, err)
		}
		out.Components[i].Props = decoded
	}
	return out, nil
}
