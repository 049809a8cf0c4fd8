package format

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
)

// UnwrapLayoutTables removes single-column tables used purely for page
// layout, keeping tables that look like actual data (headers or multiple
// columns). Returns the input unchanged if it doesn't parse as HTML.
func UnwrapLayoutTables(raw []byte) []byte {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return raw
	}

	// Nested layout tables unwrap one level per pass.
	for i := 0; i < 10; i++ {
		if !unwrapPass(doc) {
			break
		}
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return raw
	}

	return buf.Bytes()
}

func unwrapPass(n *html.Node) bool {
	changed := false

	child := n.FirstChild
	for child != nil {
		next := child.NextSibling
		if unwrapPass(child) {
			changed = true
		}
		child = next
	}

	if n.Type == html.ElementNode && n.Data == "table" && isLayoutTable(n) {
		unwrap(n)

		return true
	}

	return changed
}

// isLayoutTable treats a table as layout when it has no header cells and
// never puts more than one cell in a row.
func isLayoutTable(table *html.Node) bool {
	headers := false
	maxCells := 0

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "th", "thead":
				headers = true
			case "tr":
				cells := 0
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
						cells++
					}
				}
				if cells > maxCells {
					maxCells = cells
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(table)

	return !headers && maxCells <= 1
}

// unwrap replaces the table with the contents of its cells, separating rows
// with newlines.
func unwrap(table *html.Node) {
	parent := table.Parent
	if parent == nil {
		return
	}

	var lifted []*html.Node
	var lift func(*html.Node)
	lift = func(n *html.Node) {
		switch {
		case n.Type == html.ElementNode && tableTag(n.Data):
			before := len(lifted)
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				lift(c)
			}
			if n.Data == "tr" && len(lifted) > before {
				lifted = append(lifted, &html.Node{Type: html.TextNode, Data: "\n"})
			}
		case n.Type == html.TextNode && strings.TrimSpace(n.Data) == "":
			// drop whitespace-only nodes between cells
		default:
			lifted = append(lifted, detach(n))
		}
	}
	lift(table)

	for _, n := range lifted {
		parent.InsertBefore(n, table)
	}
	parent.RemoveChild(table)
}

func tableTag(tag string) bool {
	switch tag {
	case "table", "tbody", "thead", "tfoot", "tr", "td", "th":
		return true
	}

	return false
}

// detach deep-copies a node so it can be re-parented.
func detach(n *html.Node) *html.Node {
	clone := &html.Node{
		Type: n.Type,
		Data: n.Data,
		Attr: append([]html.Attribute(nil), n.Attr...),
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(detach(c))
	}

	return clone
}
