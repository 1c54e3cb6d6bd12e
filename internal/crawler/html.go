package crawler

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ParseHTML parses an HTML document or fragment.
func ParseHTML(content string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	return doc, nil
}

// FindAll returns the descendant elements of n named tag that carry class.
// An empty tag or class matches any.
func FindAll(n *html.Node, tag, class string) []*html.Node {
	var found []*html.Node

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			if matches(c, tag, class) {
				found = append(found, c)
			}

			walk(c)
		}
	}

	walk(n)

	return found
}

// Find returns the first descendant element matching tag and class, or nil.
func Find(n *html.Node, tag, class string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if matches(c, tag, class) {
			return c
		}

		if found := Find(c, tag, class); found != nil {
			return found
		}
	}

	return nil
}

// FindByID returns the first descendant element named tag with the given id.
func FindByID(n *html.Node, tag, id string) *html.Node {
	for _, node := range FindAll(n, tag, "") {
		if Attr(node, "id") == id {
			return node
		}
	}

	return nil
}

// Children returns the direct child elements of n named tag (any when empty).
func Children(n *html.Node, tag string) []*html.Node {
	var children []*html.Node

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if matches(c, tag, "") {
			children = append(children, c)
		}
	}

	return children
}

// Attr returns the value of attribute key, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}

	return ""
}

// HasClass reports whether n lists class in its class attribute.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(Attr(n, "class")) {
		if c == class {
			return true
		}
	}

	return false
}

// Text returns the whitespace-normalized text content of n.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}

	var sb strings.Builder

	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			sb.WriteString(node.Data)
			sb.WriteByte(' ')
		}

		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)

	return strings.Join(strings.Fields(sb.String()), " ")
}

func matches(n *html.Node, tag, class string) bool {
	if n.Type != html.ElementNode {
		return false
	}

	if tag != "" && n.Data != tag {
		return false
	}

	return class == "" || HasClass(n, class)
}
