package capitoltrades

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chapati23/morning-briefing/src/security/validation"
)

// findFirst returns the first element (depth-first, document order) with the given tag.
func findFirst(n *html.Node, tag atom.Atom) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && n.DataAtom == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// findAll collects every element with the given tag below n, without descending into nested tables.
func findAll(n *html.Node, tag atom.Atom) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			if c.DataAtom == tag {
				out = append(out, c)
			}
			if c.DataAtom == atom.Table {
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// childCells returns the direct td/th children of a row.
func childCells(tr *html.Node) (cells []*html.Node, headerOnly bool) {
	headerOnly = true
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.DataAtom {
		case atom.Td:
			headerOnly = false
			cells = append(cells, c)
		case atom.Th:
			cells = append(cells, c)
		}
	}
	return cells, headerOnly
}

// hasClass reports whether the element's class attribute contains the token.
func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, token := range strings.Fields(a.Val) {
			if token == class {
				return true
			}
		}
	}
	return false
}

// findByClass returns the first descendant element carrying the class token.
func findByClass(n *html.Node, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if hasClass(c, class) {
			return c
		}
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textOf joins every text node below n with spaces and cleans the result, so
// "<div>15 Jan</div><div>2025</div>" reads as "15 Jan 2025".
func textOf(n *html.Node) string {
	if n == nil {
		return ""
	}
	var parts []string
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			parts = append(parts, cur.Data)
			return
		}
		if cur.Type == html.ElementNode && (cur.DataAtom == atom.Script || cur.DataAtom == atom.Style) {
			return
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return validation.CleanCellText(strings.Join(parts, " "))
}

// classText returns the cleaned text of the first descendant with the class, or "".
func classText(n *html.Node, class string) string {
	return textOf(findByClass(n, class))
}

// firstText returns the first non-empty text node below n.
func firstText(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return validation.CleanCellText(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := firstText(c); t != "" {
			return t
		}
	}
	return ""
}

// findLink returns the href of the first anchor below n whose href contains fragment.
func findLink(n *html.Node, fragment string) string {
	for _, a := range findAll(n, atom.A) {
		if href := attr(a, "href"); strings.Contains(href, fragment) {
			return href
		}
	}
	return ""
}
