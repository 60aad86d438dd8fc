package board

import (
	"strings"

	"golang.org/x/net/html"
)

// Line is one rendered markup line.
type Line struct {
	Node      *html.Node
	Depth     int
	Text      string
	Closing   bool
	Highlight bool
}

// Lines renders the tree, root container included, one tag per line. A line
// is highlighted when its element or one of its ancestors is in highlight.
func (b *Board) Lines(highlight []*html.Node) []Line {
	marked := make(map[*html.Node]struct{}, len(highlight))
	for _, n := range highlight {
		marked[n] = struct{}{}
	}
	var lines []Line
	var walk func(n *html.Node, depth int, lit bool)
	walk = func(n *html.Node, depth int, lit bool) {
		if _, ok := marked[n]; ok {
			lit = true
		}
		children := elementChildren(n)
		if len(children) == 0 {
			lines = append(lines, Line{Node: n, Depth: depth, Text: openTag(n, true), Highlight: lit})
			return
		}
		lines = append(lines, Line{Node: n, Depth: depth, Text: openTag(n, false), Highlight: lit})
		for _, c := range children {
			walk(c, depth+1, lit)
		}
		lines = append(lines, Line{Node: n, Depth: depth, Text: "</" + n.Data + ">", Closing: true, Highlight: lit})
	}
	walk(b.root, 0, false)
	return lines
}

func elementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

func openTag(n *html.Node, selfClose bool) string {
	var b strings.Builder
	b.WriteString("<" + n.Data)
	for _, a := range n.Attr {
		b.WriteString(" " + a.Key + `="` + a.Val + `"`)
	}
	if selfClose {
		b.WriteString(" />")
	} else {
		b.WriteString(">")
	}
	return b.String()
}
