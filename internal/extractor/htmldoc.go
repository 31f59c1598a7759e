package extractor

import (
	"io"
	"iter"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ContainerID is the id of the element that holds the patch notes body.
const ContainerID = "patch-notes-container"

// ParseHTML flattens a patch-notes page into semantic nodes. A page without
// the notes container yields no nodes.
func ParseHTML(r io.Reader) ([]Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return Flatten(doc), nil
}

// Flatten walks the notes container of a parsed page.
func Flatten(doc *html.Node) []Node {
	container := findFirst(doc, func(n *html.Node) bool {
		return attr(n, "id") == ContainerID
	})
	if container == nil {
		return nil
	}

	var nodes []Node
	for el := range childElements(container) {
		if h2 := findFirst(el, isAtom(atom.H2)); h2 != nil {
			nodes = append(nodes, Heading(attr(h2, "id")))
		}

		for _, block := range findAll(el, hasClassFn("patch-change-block")) {
			nodes = append(nodes, BlockStart())
			nodes = append(nodes, blockNodes(blockWrapper(block))...)
			nodes = append(nodes, BlockEnd())
		}

		if hasClass(el, "content-border") {
			var items []string
			for _, ul := range findAll(el, isAtom(atom.Ul)) {
				for _, li := range findAll(ul, isAtom(atom.Li)) {
					items = append(items, textOf(li))
				}
			}
			nodes = append(nodes, BugFixRegion(items...))
		}
	}
	return nodes
}

// Change blocks usually wrap their content in one inner div.
func blockWrapper(block *html.Node) *html.Node {
	for child := range childElements(block) {
		if child.DataAtom == atom.Div {
			return child
		}
	}
	return block
}

func blockNodes(wrapper *html.Node) []Node {
	var nodes []Node
	for el := range childElements(wrapper) {
		isDetail := hasClass(el, "change-detail-title") || hasClass(el, "ability-title")
		switch {
		case el.DataAtom == atom.A && hasClass(el, "reference-link"):
			nodes = append(nodes, Reference(imageSrc(el)))
		case isDetail:
			nodes = append(nodes, DetailTitle(textOf(el), imageSrc(el)))
		case el.DataAtom == atom.H3 || el.DataAtom == atom.H4 || hasClass(el, "change-title"):
			nodes = append(nodes, Title(textOf(el)))
		case el.DataAtom == atom.Blockquote:
			nodes = append(nodes, Summary(textOf(el)))
		case el.DataAtom == atom.Ul:
			var items []string
			for _, li := range findAll(el, isAtom(atom.Li)) {
				items = append(items, textOf(li))
			}
			nodes = append(nodes, List(items...))
		}
	}
	return nodes
}

func imageSrc(n *html.Node) string {
	img := findFirst(n, isAtom(atom.Img))
	if img == nil {
		return ""
	}
	if src := attr(img, "src"); src != "" {
		return src
	}
	return attr(img, "data-src")
}

func childElements(n *html.Node) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		for c := range n.ChildNodes() {
			if c.Type == html.ElementNode && !yield(c) {
				return
			}
		}
	}
}

// matches yields n and then its descendants, depth-first, when they are
// elements accepted by match.
func matches(n *html.Node, match func(*html.Node) bool) iter.Seq[*html.Node] {
	return func(yield func(*html.Node) bool) {
		if n.Type == html.ElementNode && match(n) && !yield(n) {
			return
		}
		for d := range n.Descendants() {
			if d.Type == html.ElementNode && match(d) && !yield(d) {
				return
			}
		}
	}
}

func findFirst(n *html.Node, match func(*html.Node) bool) *html.Node {
	for found := range matches(n, match) {
		return found
	}
	return nil
}

func findAll(n *html.Node, match func(*html.Node) bool) []*html.Node {
	return slices.Collect(matches(n, match))
}

func isAtom(a atom.Atom) func(*html.Node) bool {
	return func(n *html.Node) bool { return n.DataAtom == a }
}

func hasClassFn(class string) func(*html.Node) bool {
	return func(n *html.Node) bool { return hasClass(n, class) }
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textOf concatenates the text under n with whitespace runs collapsed.
func textOf(n *html.Node) string {
	var b strings.Builder
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
