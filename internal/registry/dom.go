package registry

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// El builds an element node with an optional class attribute and children.
// Nil children are skipped so widgets can inline optional parts.
func El(tag, class string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	if class != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: class})
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

// Text builds a text node. Escaping happens when the tree is rendered.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// SetAttr sets or replaces an attribute and returns the node.
func SetAttr(n *html.Node, key, val string) *html.Node {
	for i, a := range n.Attr {
		if a.Key == key {
			n.Attr[i].Val = val
			return n
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
	return n
}

// Attr returns the value of an attribute, or "" when absent.
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textIf returns an element with a single text child, or nil when s is empty.
func textIf(tag, class, s string) *html.Node {
	if s == "" {
		return nil
	}
	return El(tag, class, Text(s))
}

func itoa(n int) string { return strconv.Itoa(n) }
