package schema

import (
	"encoding/json"
	"time"
)

// GridColumns is the width of the layout grid every placement is expressed in.
const GridColumns = 12

// ComponentType names a kind of widget a ComponentNode can be rendered as.
type ComponentType string

const (
	TypeCard      ComponentType = "Card"
	TypeTable     ComponentType = "Table"
	TypeForm      ComponentType = "Form"
	TypeChart     ComponentType = "Chart"
	TypeButton    ComponentType = "Button"
	TypeMap       ComponentType = "Map"
	TypeSidebar   ComponentType = "Sidebar"
	TypeTabs      ComponentType = "Tabs"
	TypeModal     ComponentType = "Modal"
	TypeDashboard ComponentType = "Dashboard"
	TypeInput     ComponentType = "Input"
	TypeHeader    ComponentType = "Header"
	TypeFooter    ComponentType = "Footer"
	TypeGrid      ComponentType = "Grid"
	TypeList      ComponentType = "List"
	TypeGraph     ComponentType = "Graph"
	TypeGlassCard ComponentType = "GlassCard"
	TypeChat      ComponentType = "Chat"
)

var knownTypes = []ComponentType{
	TypeCard, TypeTable, TypeForm, TypeChart, TypeButton, TypeMap, TypeSidebar, TypeTabs, TypeModal,
	TypeDashboard, TypeInput, TypeHeader, TypeFooter, TypeGrid, TypeList, TypeGraph, TypeGlassCard, TypeChat,
}

// KnownTypes returns the closed enumeration of component kinds, in declaration order.
func KnownTypes() []ComponentType {
	out := make([]ComponentType, len(knownTypes))
	copy(out, knownTypes)
	return out
}

// IsKnown reports whether t belongs to the enumeration. A known type is not
// necessarily renderable; the registry decides that.
func (t ComponentType) IsKnown() bool {
	for _, k := range knownTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Theme is the colour scheme a schema asks to be rendered with.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	DefaultTheme = ThemeDark
)

// Valid reports whether the theme is one of light or dark.
func (t Theme) Valid() bool { return t == ThemeLight || t == ThemeDark }

// GridPlacement is a rectangle on the 12-column grid.
type GridPlacement struct {
	X      int `json:"x" yaml:"x"`
	Y      int `json:"y" yaml:"y"`
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Props is the open prop bag of a component. Its shape depends on the
// component type; see Typed for the per-type view.
type Props map[string]any

// ComponentNode is one element of a layout schema.
type ComponentNode struct {
	ID     string         `json:"id" yaml:"id"`
	Type   ComponentType  `json:"type" yaml:"type"`
	Props  Props          `json:"props" yaml:"props"`
	Layout *GridPlacement `json:"layout,omitempty" yaml:"layout,omitempty"`
}

// HasLayout reports whether the node carries an explicit placement.
func (c ComponentNode) HasLayout() bool { return c.Layout != nil }

// LayoutSchema is the serializable description of a generated interface.
// Components is never nil; order is significant for stacking and tab order.
type LayoutSchema struct {
	ID          string          `json:"id" yaml:"id"`
	Name        string          `json:"name" yaml:"name"`
	Description string          `json:"description" yaml:"description"`
	Components  []ComponentNode `json:"components" yaml:"components"`
	Theme       Theme           `json:"theme" yaml:"theme"`
	Responsive  bool            `json:"responsive" yaml:"responsive"`
}

// New returns an empty schema with a fresh id and the default theme.
func New(name, description string) LayoutSchema {
	return LayoutSchema{
		ID:          NewID(),
		Name:        name,
		Description: description,
		Components:  []ComponentNode{},
		Theme:       DefaultTheme,
	}
}

// UnmarshalJSON keeps the Components invariant for decoded payloads.
func (s *LayoutSchema) UnmarshalJSON(data []byte) error {
	type plain LayoutSchema
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	if p.Components == nil {
		p.Components = []ComponentNode{}
	}
	*s = LayoutSchema(p)
	return nil
}

// HasPlacements reports whether any component carries a layout.
func (s LayoutSchema) HasPlacements() bool {
	for _, c := range s.Components {
		if c.HasLayout() {
			return true
		}
	}
	return false
}

// Project wraps a schema with the prompt it came from, for persistence.
type Project struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Prompt      string       `json:"prompt,omitempty"`
	Schema      LayoutSchema `json:"schema"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}
