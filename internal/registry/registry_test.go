package registry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"promptcraft_server/internal/parser"
	"promptcraft_server/internal/schema"
)

func TestNew_CompilesAllContracts(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	assert.Len(t, r.Components(), len(catalog))

	names := make([]string, 0)
	for _, c := range r.Components() {
		names = append(names, string(c.Name))
		assert.NotEmpty(t, c.Contract())
	}
	assert.IsIncreasing(t, names)
}

func TestResolve(t *testing.T) {
	r := MustNew()

	c, ok := r.Resolve("Card")
	require.True(t, ok)
	assert.Equal(t, schema.TypeCard, c.Name)

	_, ok = r.Resolve("Frobnicator")
	assert.False(t, ok)

	_, ok = r.Resolve("Tabs")
	assert.False(t, ok, "known to the schema but not renderable")
}

func TestValidateProps(t *testing.T) {
	r := MustNew()

	tests := []struct {
		name  string
		typ   string
		props schema.Props
		want  bool
	}{
		{"header ok", "Header", schema.Props{"title": "Hi"}, true},
		{"header missing title", "Header", schema.Props{"subtitle": "x"}, false},
		{"header wrong type", "Header", schema.Props{"title": 4}, false},
		{"button bad variant", "Button", schema.Props{"label": "Go", "variant": "loud"}, false},
		{"button ok", "Button", schema.Props{"label": "Go", "variant": "outline", "responsive": true}, true},
		{"chart needs data", "Chart", schema.Props{"chartType": "line"}, false},
		{"chart typed rows", "Chart", schema.Props{"chartType": "bar", "data": []map[string]any{{"name": "Mon", "value": 3}}}, true},
		{"table object columns", "Table", schema.Props{
			"columns": []any{map[string]any{"key": "id", "label": "ID"}},
			"data":    []any{},
		}, true},
		{"unknown type", "Frobnicator", schema.Props{}, false},
		{"nil props card", "Card", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ValidateProps(tt.typ, tt.props))
		})
	}
}

func TestParserOutputSatisfiesContracts(t *testing.T) {
	r := MustNew()
	p := parser.New(parser.WithSeed(11))
	for _, prompt := range []string{
		"dashboard with map", "list of users", "signup form", "revenue chart", "card grid", "hello",
	} {
		s := p.Generate(prompt)
		for _, c := range s.Components {
			assert.NoError(t, r.Validate(string(c.Type), c.Props), "%s/%s", prompt, c.ID)
		}
	}
}

func TestRender_WidgetsShowTheirProps(t *testing.T) {
	r := MustNew()

	tests := []struct {
		node schema.ComponentNode
		want []string
	}{
		{
			schema.ComponentNode{Type: schema.TypeCard, Props: schema.Props{"title": "Revenue", "value": 45.5, "trend": "+3%"}},
			[]string{"Revenue", "45.5", "+3%", "text-green-400"},
		},
		{
			schema.ComponentNode{Type: schema.TypeTable, Props: schema.Props{
				"columns": []any{"Name", "Status"},
				"data":    []any{map[string]any{"name": "Ada", "status": "Active"}},
			}},
			[]string{"<th", "Name", "<td", "Ada", "Active"},
		},
		{
			schema.ComponentNode{Type: schema.TypeForm, Props: schema.Props{
				"fields":      []any{map[string]any{"name": "email", "label": "Email", "type": "email", "required": true}},
				"submitLabel": "Send",
			}},
			[]string{`type="email"`, "Email *", "Send"},
		},
		{
			schema.ComponentNode{Type: schema.TypeChart, Props: schema.Props{
				"type": "bar",
				"data": []any{map[string]any{"name": "Mon", "value": 10.0}},
			}},
			[]string{`data-chart-type="bar"`, "<rect", "Mon"},
		},
		{
			schema.ComponentNode{Type: schema.TypeChat, Props: schema.Props{
				"assistantName":   "Nova",
				"initialMessages": []any{map[string]any{"role": "assistant", "content": "Hello <b>there</b>"}},
			}},
			[]string{"Nova", "Hello &lt;b&gt;there&lt;/b&gt;"},
		},
	}
	for _, tt := range tests {
		t.Run(string(tt.node.Type), func(t *testing.T) {
			c, ok := r.Resolve(string(tt.node.Type))
			require.True(t, ok)
			var buf bytes.Buffer
			require.NoError(t, html.Render(&buf, c.Render(tt.node)))
			for _, w := range tt.want {
				assert.Contains(t, buf.String(), w)
			}
		})
	}
}

func TestRender_UndecodablePropsFallBack(t *testing.T) {
	r := MustNew()
	c, _ := r.Resolve("Form")
	n := c.Render(schema.ComponentNode{ID: "f", Type: schema.TypeForm, Props: schema.Props{"fields": "nope"}})
	require.NotNil(t, n)
	assert.Equal(t, "div", n.Data)
}
