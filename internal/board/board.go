// Package board parses level markup into an element tree and queries it with
// CSS selectors.
package board

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// RootClass is the class carried by the container wrapping every level tree.
const RootClass = "table"

var selfClosingTag = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9-]*)(\s[^<>]*?)?\s*/>`)

var voidElements = map[string]struct{}{
	"area": {}, "br": {}, "col": {}, "embed": {}, "hr": {}, "img": {},
	"input": {}, "link": {}, "meta": {}, "param": {}, "source": {}, "wbr": {},
}

// Board is a parsed level tree. It is never mutated after Parse.
type Board struct {
	markup string
	root   *html.Node
}

// Parse wraps markup in the root container and builds the element tree.
func Parse(markup string) (*Board, error) {
	root := &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
		Attr:     []html.Attribute{{Key: "class", Val: RootClass}},
	}
	nodes, err := html.ParseFragment(strings.NewReader(expandSelfClosing(markup)), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		return nil, fmt.Errorf("parse board markup: %w", err)
	}
	for _, n := range nodes {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
		root.AppendChild(n)
	}
	return &Board{markup: markup, root: root}, nil
}

// expandSelfClosing rewrites <apple/> into <apple></apple>. The HTML parser
// ignores the self-closing flag on non-void elements, which would otherwise
// nest every following sibling inside the first custom tag.
func expandSelfClosing(markup string) string {
	return selfClosingTag.ReplaceAllStringFunc(markup, func(tag string) string {
		m := selfClosingTag.FindStringSubmatch(tag)
		name := m[1]
		if _, ok := voidElements[strings.ToLower(name)]; ok {
			return tag
		}
		return "<" + name + strings.TrimRight(m[2], " \t\r\n") + "></" + name + ">"
	})
}

// Markup returns the source markup the board was parsed from.
func (b *Board) Markup() string {
	return b.markup
}

// Root returns the container node.
func (b *Board) Root() *html.Node {
	return b.root
}

// Query returns the elements matched by selector in document order, never
// including the root container. Selectors that fail to parse match nothing.
func (b *Board) Query(selector string) (nodes []*html.Node) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			nodes = nil
		}
	}()
	group, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil
	}
	matched := cascadia.QueryAll(b.root, group)
	out := make([]*html.Node, 0, len(matched))
	for _, n := range matched {
		if n == b.root {
			continue
		}
		out = append(out, n)
	}
	return out
}

// Valid reports whether selector parses.
func Valid(selector string) bool {
	if strings.TrimSpace(selector) == "" {
		return false
	}
	_, err := cascadia.ParseGroup(selector)
	return err == nil
}

// Fingerprint identifies n by its child-index path from the root, e.g. "1.0".
// It returns "" for nodes outside the board.
func (b *Board) Fingerprint(n *html.Node) string {
	var path []string
	for cur := n; cur != nil; cur = cur.Parent {
		if cur == b.root {
			for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
				path[i], path[j] = path[j], path[i]
			}
			return strings.Join(path, ".")
		}
		idx := 0
		for sib := cur.PrevSibling; sib != nil; sib = sib.PrevSibling {
			idx++
		}
		path = append(path, strconv.Itoa(idx))
	}
	return ""
}

// Elements returns every element below the root in document order.
func (b *Board) Elements() []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			out = append(out, c)
			walk(c)
		}
	}
	walk(b.root)
	return out
}

// Describe renders the tooltip text for an element: tag, class, for and id.
func Describe(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	var b strings.Builder
	b.WriteString("<" + n.Data)
	for _, key := range []string{"class", "for", "id"} {
		if v, ok := attr(n, key); ok && strings.TrimSpace(v) != "" {
			fmt.Fprintf(&b, " %s=%q", key, strings.TrimSpace(v))
		}
	}
	b.WriteString("></" + n.Data + ">")
	return b.String()
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}
