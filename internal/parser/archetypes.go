package parser

import (
	"fmt"
	"strings"
	"time"

	"promptcraft_server/internal/schema"
)

func at(x, y, w, h int) *schema.GridPlacement {
	return &schema.GridPlacement{X: x, Y: y, Width: w, Height: h}
}

func header(title, subtitle string) schema.ComponentNode {
	return schema.ComponentNode{
		ID:     "header-1",
		Type:   schema.TypeHeader,
		Props:  schema.Props{"title": title, "subtitle": subtitle},
		Layout: at(0, 0, 12, 1),
	}
}

func statCard(n int, title, value, trend, icon string) schema.ComponentNode {
	return schema.ComponentNode{
		ID:     fmt.Sprintf("card-%d", n),
		Type:   schema.TypeCard,
		Props:  schema.Props{"title": title, "value": value, "trend": trend, "icon": icon},
		Layout: at((n-1)*3, 1, 3, 2),
	}
}

func (p *Parser) dashboard(prompt, title string) []schema.ComponentNode {
	components := []schema.ComponentNode{
		header(title, "Real-time dashboard overview"),
		statCard(1, "Total Items", "1,234", "+12%", "package"),
		statCard(2, "Active Users", "856", "+8%", "users"),
		statCard(3, "Revenue", "$45.2K", "+23%", "dollar-sign"),
		statCard(4, "Alerts", "12", "-5%", "alert-circle"),
		{
			ID:   "chart-1",
			Type: schema.TypeChart,
			Props: schema.Props{
				"title":     "Analytics Overview",
				"chartType": "line",
				"data":      p.chartData(),
			},
			Layout: at(0, 3, 8, 4),
		},
		{
			ID:   "table-1",
			Type: schema.TypeTable,
			Props: schema.Props{
				"title":   "Recent Activity",
				"columns": []any{"Name", "Status", "Date", "Action"},
				"data":    p.tableData(5),
			},
			Layout: at(8, 3, 4, 4),
		},
	}

	if strings.Contains(strings.ToLower(prompt), "map") {
		components = append(components, schema.ComponentNode{
			ID:     "map-1",
			Type:   schema.TypeMap,
			Props:  schema.Props{"title": "Location Overview", "markers": []any{}},
			Layout: at(0, 7, 12, 4),
		})
	}
	return components
}

func (p *Parser) table(title string) []schema.ComponentNode {
	return []schema.ComponentNode{
		header(title, "Data management interface"),
		{
			ID:   "table-1",
			Type: schema.TypeTable,
			Props: schema.Props{
				"title":      "Data Table",
				"columns":    []any{"ID", "Name", "Status", "Created", "Actions"},
				"data":       p.tableData(10),
				"searchable": true,
				"sortable":   true,
			},
			Layout: at(0, 1, 12, 8),
		},
	}
}

func formTemplate(title string) []schema.ComponentNode {
	return []schema.ComponentNode{
		header(title, "Fill in the details below"),
		{
			ID:   "form-1",
			Type: schema.TypeForm,
			Props: schema.Props{
				"title": "Form",
				"fields": []any{
					map[string]any{"name": "name", "label": "Name", "type": "text", "required": true},
					map[string]any{"name": "email", "label": "Email", "type": "email", "required": true},
					map[string]any{"name": "phone", "label": "Phone", "type": "tel"},
					map[string]any{"name": "message", "label": "Message", "type": "textarea", "rows": 4},
				},
				"submitText": "Submit",
			},
			Layout: at(3, 2, 6, 6),
		},
	}
}

func (p *Parser) charts(title string) []schema.ComponentNode {
	chart := func(n int, title, kind string, l *schema.GridPlacement) schema.ComponentNode {
		return schema.ComponentNode{
			ID:     fmt.Sprintf("chart-%d", n),
			Type:   schema.TypeChart,
			Props:  schema.Props{"title": title, "chartType": kind, "data": p.chartData()},
			Layout: l,
		}
	}
	return []schema.ComponentNode{
		header(title, "Analytics and insights"),
		chart(1, "Line Chart", "line", at(0, 1, 6, 4)),
		chart(2, "Bar Chart", "bar", at(6, 1, 6, 4)),
		chart(3, "Area Chart", "area", at(0, 5, 12, 4)),
	}
}

func cardGrid(title string) []schema.ComponentNode {
	components := []schema.ComponentNode{header(title, "Browse our collection")}
	for i := 0; i < 6; i++ {
		components = append(components, schema.ComponentNode{
			ID:   fmt.Sprintf("card-%d", i+1),
			Type: schema.TypeCard,
			Props: schema.Props{
				"title":       fmt.Sprintf("Item %d", i+1),
				"description": "Lorem ipsum dolor sit amet, consectetur adipiscing elit.",
				"image":       fmt.Sprintf("https://picsum.photos/400/300?random=%d", i),
				"action":      "View Details",
			},
			Layout: at((i%3)*4, (i/3)*3+1, 4, 3),
		})
	}
	return components
}

func defaultTemplate(title string) []schema.ComponentNode {
	return []schema.ComponentNode{
		header(title, "Generated from your prompt"),
		{
			ID:   "card-1",
			Type: schema.TypeCard,
			Props: schema.Props{
				"title":       "Welcome",
				"description": "Your app has been generated. Customize it using the controls on the right.",
			},
			Layout: at(0, 1, 12, 3),
		},
	}
}

var weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (p *Parser) chartData() []any {
	out := make([]any, len(weekdays))
	for i, day := range weekdays {
		out[i] = map[string]any{
			"name":   day,
			"value":  p.rng.IntN(100) + 50,
			"value2": p.rng.IntN(100) + 50,
		}
	}
	return out
}

var statuses = []string{"Active", "Pending", "Completed", "Cancelled"}

// maxRowAge bounds placeholder row dates to roughly the last four months.
const maxRowAge = 10_000_000 * time.Second

func (p *Parser) tableData(count int) []any {
	out := make([]any, count)
	for i := 0; i < count; i++ {
		age := time.Duration(p.rng.Int64N(int64(maxRowAge)))
		out[i] = map[string]any{
			"id":     fmt.Sprintf("#%d", 1000+i),
			"name":   fmt.Sprintf("Item %d", i+1),
			"status": statuses[p.rng.IntN(len(statuses))],
			"date":   p.now().Add(-age).Format("1/2/2006"),
			"action": "View",
		}
	}
	return out
}
