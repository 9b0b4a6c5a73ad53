package render

import (
	"strings"

	"blogsync/internal/models"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// maxTextDepth ограничивает рекурсию при сборе текста элемента.
const maxTextDepth = 500

var referenceHeadings = map[string]bool{
	"참고":         true,
	"참고 자료":      true,
	"참고자료":       true,
	"references": true,
	"reference":  true,
}

// Headings: h1–h3 в порядке документа.
func (d *Document) Headings() []models.Heading {
	return ExtractHeadings(d.body)
}

// ExtractReferences вырезает раздел источников из тела документа.
func (d *Document) ExtractReferences() []models.Reference {
	return ExtractReferences(d.body)
}

// ExtractHeadings собирает h1–h3 под root, не меняя дерево.
func ExtractHeadings(root *html.Node) []models.Heading {
	headings := []models.Heading{}
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if level := headingLevel(n); level >= 1 && level <= 3 {
			headings = append(headings, models.Heading{
				ID:    attr(n, "id"),
				Level: level,
				Text:  strings.TrimSpace(textContent(n)),
			})
			continue
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return headings
}

// ExtractReferences просматривает узлы верхнего уровня: после заголовка-синонима
// «References» все узлы до следующего заголовка любого уровня считаются разделом
// источников. Ссылки из них собираются, сами узлы (и заголовок) удаляются
// после прохода, от последнего индекса к первому.
func ExtractReferences(root *html.Node) []models.Reference {
	refs := []models.Reference{}

	var nodes []*html.Node
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		nodes = append(nodes, c)
	}

	var remove []int
	inSection := false
	for i, n := range nodes {
		if headingLevel(n) > 0 {
			inSection = false
			if isReferenceHeading(textContent(n)) {
				inSection = true
				remove = append(remove, i)
			}
			continue
		}
		if !inSection || n.Type != html.ElementNode {
			continue
		}
		refs = append(refs, collectLinks(n)...)
		remove = append(remove, i)
	}

	for i := len(remove) - 1; i >= 0; i-- {
		root.RemoveChild(nodes[remove[i]])
	}
	return refs
}

func isReferenceHeading(text string) bool {
	norm := strings.ToLower(strings.Join(strings.Fields(text), " "))
	norm = strings.TrimRight(norm, ":：")
	return referenceHeadings[strings.TrimSpace(norm)]
}

func collectLinks(root *html.Node) []models.Reference {
	var refs []models.Reference
	stack := []*html.Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if n.Type == html.ElementNode && n.DataAtom == atom.A {
			if href := attr(n, "href"); href != "" {
				title := strings.TrimSpace(textContent(n))
				if title == "" {
					title = href
				}
				refs = append(refs, models.Reference{URL: href, Title: title})
				continue
			}
		}
		for c := n.LastChild; c != nil; c = c.PrevSibling {
			stack = append(stack, c)
		}
	}
	return refs
}

func headingLevel(n *html.Node) int {
	if n.Type != html.ElementNode {
		return 0
	}
	switch n.DataAtom {
	case atom.H1:
		return 1
	case atom.H2:
		return 2
	case atom.H3:
		return 3
	case atom.H4:
		return 4
	case atom.H5:
		return 5
	case atom.H6:
		return 6
	}
	return 0
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// textContent склеивает текст элемента вместе со всей inline-разметкой.
func textContent(n *html.Node) string {
	var b strings.Builder
	collectText(n, &b, 0)
	return b.String()
}

func collectText(n *html.Node, b *strings.Builder, depth int) {
	if depth > maxTextDepth {
		return
	}
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, b, depth+1)
	}
}
