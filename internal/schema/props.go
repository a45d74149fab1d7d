package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// TypedProps is the per-type view of a component's prop bag. Exactly one
// implementation exists per renderable component type, plus UnknownProps for
// everything else.
type TypedProps interface {
	ComponentType() ComponentType
}

type CardProps struct {
	Title       string `mapstructure:"title"`
	Description string `mapstructure:"description"`
	Value       string `mapstructure:"value"`
	Trend       string `mapstructure:"trend"`
	Icon        string `mapstructure:"icon"`
	Image       string `mapstructure:"image"`
	Action      string `mapstructure:"action"`
}

// TableColumn is one column of a table. Columns given as bare strings decode
// with Label set to the string and Key set to its lower-cased form.
type TableColumn struct {
	Key      string `mapstructure:"key"`
	Label    string `mapstructure:"label"`
	Sortable bool   `mapstructure:"sortable"`
}

type TableProps struct {
	Title      string           `mapstructure:"title"`
	Columns    []TableColumn    `mapstructure:"columns"`
	Data       []map[string]any `mapstructure:"data"`
	Searchable bool             `mapstructure:"searchable"`
	Sortable   bool             `mapstructure:"sortable"`
}

type ChartPoint struct {
	Name   string  `mapstructure:"name"`
	Value  float64 `mapstructure:"value"`
	Value2 float64 `mapstructure:"value2"`
}

type ChartProps struct {
	Title     string       `mapstructure:"title"`
	ChartType string       `mapstructure:"chartType"`
	Data      []ChartPoint `mapstructure:"data"`
}

// Kind returns the chart kind, accepting the alternate "type" key some
// collaborators emit. Defaults to line.
func (p ChartProps) Kind() string {
	if p.ChartType != "" {
		return p.ChartType
	}
	return "line"
}

type FormField struct {
	Name        string   `mapstructure:"name"`
	Label       string   `mapstructure:"label"`
	Type        string   `mapstructure:"type"`
	Placeholder string   `mapstructure:"placeholder"`
	Required    bool     `mapstructure:"required"`
	Rows        int      `mapstructure:"rows"`
	Options     []string `mapstructure:"options"`
}

type FormProps struct {
	Title      string      `mapstructure:"title"`
	Fields     []FormField `mapstructure:"fields"`
	SubmitText string      `mapstructure:"submitText"`
}

type HeaderProps struct {
	Title    string `mapstructure:"title"`
	Subtitle string `mapstructure:"subtitle"`
}

type MapMarker struct {
	Lat   float64 `mapstructure:"lat"`
	Lng   float64 `mapstructure:"lng"`
	Label string  `mapstructure:"label"`
}

type MapProps struct {
	Title   string      `mapstructure:"title"`
	Zoom    int         `mapstructure:"zoom"`
	Markers []MapMarker `mapstructure:"markers"`
}

type ButtonProps struct {
	Label   string `mapstructure:"label"`
	Variant string `mapstructure:"variant"`
	Size    string `mapstructure:"size"`
	Icon    string `mapstructure:"icon"`
}

type NavItem struct {
	Label  string `mapstructure:"label"`
	Icon   string `mapstructure:"icon"`
	Active bool   `mapstructure:"active"`
}

type SidebarProps struct {
	Title string    `mapstructure:"title"`
	Items []NavItem `mapstructure:"items"`
}

type GlassCardProps struct {
	Title     string `mapstructure:"title"`
	Content   string `mapstructure:"content"`
	ClassName string `mapstructure:"className"`
}

type ChatMessage struct {
	Role    string `mapstructure:"role"`
	Content string `mapstructure:"content"`
}

type ChatProps struct {
	Title           string        `mapstructure:"title"`
	AssistantName   string        `mapstructure:"assistantName"`
	AccentColor     string        `mapstructure:"accentColor"`
	InitialMessages []ChatMessage `mapstructure:"initialMessages"`
}

type GraphProps struct {
	Title string       `mapstructure:"title"`
	Type  string       `mapstructure:"type"`
	Color string       `mapstructure:"color"`
	Data  []ChartPoint `mapstructure:"data"`
}

// UnknownProps carries the raw bag of a component kind that has no typed record.
type UnknownProps struct {
	Kind ComponentType
	Raw  Props
}

func (CardProps) ComponentType() ComponentType      { return TypeCard }
func (TableProps) ComponentType() ComponentType     { return TypeTable }
func (ChartProps) ComponentType() ComponentType     { return TypeChart }
func (FormProps) ComponentType() ComponentType      { return TypeForm }
func (HeaderProps) ComponentType() ComponentType    { return TypeHeader }
func (MapProps) ComponentType() ComponentType       { return TypeMap }
func (ButtonProps) ComponentType() ComponentType    { return TypeButton }
func (SidebarProps) ComponentType() ComponentType   { return TypeSidebar }
func (GlassCardProps) ComponentType() ComponentType { return TypeGlassCard }
func (ChatProps) ComponentType() ComponentType      { return TypeChat }
func (GraphProps) ComponentType() ComponentType     { return TypeGraph }
func (u UnknownProps) ComponentType() ComponentType { return u.Kind }

// Typed decodes the node's prop bag into its per-type record. Numbers and
// strings are converted weakly, so "1,234" and 1234 both decode into a
// string field. Kinds without a record decode to UnknownProps.
func Typed(node ComponentNode) (TypedProps, error) {
	var target TypedProps
	switch node.Type {
	case TypeCard:
		target = &CardProps{}
	case TypeTable:
		target = &TableProps{}
	case TypeChart:
		target = &ChartProps{}
	case TypeForm:
		target = &FormProps{}
	case TypeHeader:
		target = &HeaderProps{}
	case TypeMap:
		target = &MapProps{}
	case TypeButton:
		target = &ButtonProps{}
	case TypeSidebar:
		target = &SidebarProps{}
	case TypeGlassCard:
		target = &GlassCardProps{}
	case TypeChat:
		target = &ChatProps{}
	case TypeGraph:
		target = &GraphProps{}
	default:
		return UnknownProps{Kind: node.Type, Raw: node.Props}, nil
	}

	input := map[string]any(node.Props)
	if node.Type == TypeChart {
		if _, ok := input["chartType"]; !ok {
			if alt, ok := input["type"]; ok {
				input = withKey(input, "chartType", alt)
			}
		}
	}
	if node.Type == TypeForm {
		if _, ok := input["submitText"]; !ok {
			if alt, ok := input["submitLabel"]; ok {
				input = withKey(input, "submitText", alt)
			}
		}
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		DecodeHook:       tableColumnHook,
		Result:           target,
	})
	if err != nil {
		return nil, fmt.Errorf("props decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return nil, fmt.Errorf("decode %s props: %w", node.Type, err)
	}
	return reflect.ValueOf(target).Elem().Interface().(TypedProps), nil
}

func withKey(in map[string]any, key string, val any) map[string]any {
	out := make(map[string]any, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	out[key] = val
	return out
}

// tableColumnHook lets a column be either "Name" or {"key":"name","label":"Name"}.
func tableColumnHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(TableColumn{}) || from.Kind() != reflect.String {
		return data, nil
	}
	label := reflect.ValueOf(data).String()
	return map[string]any{"key": strings.ToLower(label), "label": label}, nil
}
