package registry

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"promptcraft_server/internal/schema"
)

const panelClass = "glass rounded-2xl p-6"

func renderCard(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.CardProps)

	var image *html.Node
	if p.Image != "" {
		img := El("img", "w-full h-48 object-cover")
		SetAttr(img, "src", p.Image)
		SetAttr(img, "alt", p.Title)
		image = El("div", "mb-4 rounded-xl overflow-hidden", img)
	}

	var icon *html.Node
	if p.Icon != "" {
		icon = SetAttr(El("span", "card-icon"), "data-icon", p.Icon)
	}

	var value *html.Node
	if p.Value != "" {
		trendClass := "text-red-400"
		if strings.HasPrefix(p.Trend, "+") {
			trendClass = "text-green-400"
		}
		value = El("div", "mt-auto",
			El("div", "text-3xl font-bold", Text(p.Value)),
			textIf("div", "text-sm font-medium "+trendClass, p.Trend),
		)
	}

	return El("div", "card "+panelClass+" h-full flex flex-col",
		image,
		El("div", "flex items-start justify-between mb-3",
			El("div", "flex-1",
				textIf("h3", "text-sm font-medium", p.Title),
				textIf("p", "text-xs", p.Description),
			),
			icon,
		),
		value,
		textIf("button", "mt-4 w-full py-2.5 px-4 rounded-lg", p.Action),
	)
}

func renderTable(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.TableProps)

	head := El("tr", "border-b")
	for _, col := range p.Columns {
		th := El("th", "px-4 py-3 text-left text-sm font-semibold", Text(col.Label))
		if p.Sortable || col.Sortable {
			SetAttr(th, "data-sort-key", col.Key)
		}
		head.AppendChild(th)
	}

	body := El("tbody", "")
	for _, row := range p.Data {
		tr := El("tr", "border-b")
		for _, col := range p.Columns {
			cell := ""
			if v, ok := row[col.Key]; ok && v != nil {
				cell = fmt.Sprint(v)
			}
			tr.AppendChild(El("td", "px-4 py-3 text-sm", Text(cell)))
		}
		body.AppendChild(tr)
	}

	var search *html.Node
	if p.Searchable {
		input := El("input", "w-full px-4 py-2 rounded-lg")
		SetAttr(input, "type", "text")
		SetAttr(input, "placeholder", "Search...")
		search = El("div", "mb-4", input)
	}

	return El("div", "table "+panelClass,
		textIf("h3", "text-xl font-bold mb-4", p.Title),
		search,
		El("div", "overflow-x-auto",
			El("table", "w-full", El("thead", "", head), body),
		),
	)
}

// renderChart draws series as an inline SVG polyline or bars. No client
// script is needed to read the data.
func renderChart(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.ChartProps)
	return chartPanel("chart", p.Title, p.Kind(), p.Data)
}

func renderGraph(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.GraphProps)
	kind := p.Type
	if kind == "" {
		kind = "line"
	}
	n := chartPanel("graph", p.Title, kind, p.Data)
	if p.Color != "" {
		SetAttr(n, "data-color", p.Color)
	}
	return n
}

const (
	chartW = 700
	chartH = 240
)

func chartPanel(class, title, kind string, data []schema.ChartPoint) *html.Node {
	svg := El("svg", "w-full")
	SetAttr(svg, "viewBox", fmt.Sprintf("0 0 %d %d", chartW, chartH))
	SetAttr(svg, "preserveAspectRatio", "none")

	peak := 0.0
	for _, d := range data {
		peak = max(peak, d.Value, d.Value2)
	}
	if len(data) > 0 && peak > 0 {
		step := float64(chartW) / float64(len(data))
		scale := func(v float64) float64 { return chartH - v/peak*(chartH-10) }
		switch kind {
		case "bar":
			for i, d := range data {
				rect := El("rect", "bar")
				SetAttr(rect, "x", fmt.Sprintf("%.1f", float64(i)*step+step*0.15))
				SetAttr(rect, "y", fmt.Sprintf("%.1f", scale(d.Value)))
				SetAttr(rect, "width", fmt.Sprintf("%.1f", step*0.7))
				SetAttr(rect, "height", fmt.Sprintf("%.1f", chartH-scale(d.Value)))
				svg.AppendChild(rect)
			}
		default:
			points := make([]string, len(data))
			for i, d := range data {
				points[i] = fmt.Sprintf("%.1f,%.1f", float64(i)*step+step/2, scale(d.Value))
			}
			line := El("polyline", "series")
			SetAttr(line, "points", strings.Join(points, " "))
			SetAttr(line, "fill", "none")
			SetAttr(line, "stroke", "#0ea5e9")
			svg.AppendChild(line)
		}
	}

	legend := El("ul", "chart-labels flex justify-between text-xs")
	for _, d := range data {
		legend.AppendChild(El("li", "", Text(d.Name)))
	}

	n := El("div", class+" "+panelClass,
		textIf("h3", "text-xl font-bold mb-4", title),
		svg,
		legend,
	)
	return SetAttr(n, "data-chart-type", kind)
}

func renderForm(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.FormProps)

	form := El("form", "space-y-4")
	for _, f := range p.Fields {
		var input *html.Node
		switch f.Type {
		case "textarea":
			input = El("textarea", "w-full px-4 py-2 rounded-lg")
			if f.Rows > 0 {
				SetAttr(input, "rows", itoa(f.Rows))
			}
		case "select":
			input = El("select", "w-full px-4 py-2 rounded-lg")
			for _, opt := range f.Options {
				input.AppendChild(El("option", "", Text(opt)))
			}
		default:
			input = El("input", "w-full px-4 py-2 rounded-lg")
			typ := f.Type
			if typ == "" {
				typ = "text"
			}
			SetAttr(input, "type", typ)
		}
		SetAttr(input, "name", f.Name)
		if f.Placeholder != "" {
			SetAttr(input, "placeholder", f.Placeholder)
		}
		if f.Required {
			SetAttr(input, "required", "")
		}

		label := f.Label
		if f.Required && label != "" {
			label += " *"
		}
		form.AppendChild(El("div", "field", textIf("label", "block text-sm font-medium mb-2", label), input))
	}

	submit := p.SubmitText
	if submit == "" {
		submit = "Submit"
	}
	form.AppendChild(SetAttr(El("button", "w-full py-3 rounded-lg", Text(submit)), "type", "submit"))

	return El("div", "form "+panelClass,
		textIf("h3", "text-xl font-bold mb-6", p.Title),
		form,
	)
}

func renderHeader(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.HeaderProps)
	return El("header", "header mb-2",
		textIf("h1", "text-3xl font-bold", p.Title),
		textIf("p", "text-lg mt-2", p.Subtitle),
	)
}

func renderMap(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.MapProps)

	markers := El("ul", "markers")
	for _, m := range p.Markers {
		label := m.Label
		if label == "" {
			label = fmt.Sprintf("%.4f, %.4f", m.Lat, m.Lng)
		}
		markers.AppendChild(El("li", "", Text(label)))
	}

	return El("div", "map "+panelClass,
		textIf("h3", "text-xl font-bold mb-4", p.Title),
		El("div", "relative w-full h-64 rounded-xl",
			El("p", "", Text("Map View")),
			El("p", "text-sm mt-1", Text(fmt.Sprintf("%d markers", len(p.Markers)))),
		),
		markers,
	)
}

func renderButton(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.ButtonProps)
	variant := p.Variant
	if variant == "" {
		variant = "primary"
	}
	size := p.Size
	if size == "" {
		size = "md"
	}
	b := El("button", fmt.Sprintf("button btn-%s btn-%s", variant, size), Text(p.Label))
	if p.Icon != "" {
		SetAttr(b, "data-icon", p.Icon)
	}
	return b
}

func renderSidebar(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.SidebarProps)
	nav := El("nav", "space-y-1")
	for _, item := range p.Items {
		class := "nav-item"
		if item.Active {
			class += " active"
		}
		a := El("a", class, Text(item.Label))
		if item.Icon != "" {
			SetAttr(a, "data-icon", item.Icon)
		}
		nav.AppendChild(a)
	}
	return El("aside", "sidebar "+panelClass+" h-full",
		textIf("h3", "text-lg font-bold mb-4", p.Title),
		nav,
	)
}

func renderGlassCard(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.GlassCardProps)
	class := "glass-card " + panelClass
	if p.ClassName != "" {
		class += " " + p.ClassName
	}
	return El("div", class,
		textIf("h3", "text-lg font-semibold mb-2", p.Title),
		textIf("p", "", p.Content),
	)
}

func renderChat(tp schema.TypedProps) *html.Node {
	p, _ := tp.(schema.ChatProps)
	title := p.Title
	if title == "" {
		title = "AI Assistant"
	}
	assistant := p.AssistantName
	if assistant == "" {
		assistant = "Assistant"
	}

	msgs := El("div", "messages space-y-3")
	for _, m := range p.InitialMessages {
		who := "You"
		if m.Role == "assistant" {
			who = assistant
		}
		msgs.AppendChild(El("div", "message message-"+m.Role,
			El("span", "author", Text(who)),
			El("p", "", Text(m.Content)),
		))
	}

	input := El("input", "w-full px-4 py-2 rounded-lg")
	SetAttr(input, "type", "text")
	SetAttr(input, "placeholder", "Type your message...")

	n := El("div", "chat "+panelClass+" flex flex-col h-full",
		El("h3", "text-lg font-bold mb-4", Text(title)),
		msgs,
		El("div", "mt-4", input),
	)
	if p.AccentColor != "" {
		SetAttr(n, "data-accent", p.AccentColor)
	}
	return n
}
