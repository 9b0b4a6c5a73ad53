package render

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const headingSelector = "h1, h2, h3, h4, h5, h6"

func (d *Document) assignHeadingIDs() {
	slugger := NewSlugger()
	d.doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		s.SetAttr("id", slugger.Slug(textContent(s.Nodes[0])))
	})
}

// wrapHeadings оборачивает содержимое заголовка в <a class="anchor" href="#id">.
func (d *Document) wrapHeadings() {
	d.doc.Find(headingSelector).Each(func(_ int, s *goquery.Selection) {
		id, _ := s.Attr("id")
		h := s.Nodes[0]

		a := &html.Node{
			Type:     html.ElementNode,
			Data:     "a",
			DataAtom: atom.A,
			Attr: []html.Attribute{
				{Key: "class", Val: "anchor"},
				{Key: "href", Val: "#" + id},
			},
		}
		for c := h.FirstChild; c != nil; {
			next := c.NextSibling
			h.RemoveChild(c)
			a.AppendChild(c)
			c = next
		}
		h.AppendChild(a)
	})
}

// rewriteImages: локальные и относительные src заменяются заглушкой,
// внешним картинкам добавляется fallback на заглушку и ленивая загрузка.
func (d *Document) rewriteImages() {
	d.doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if !isAbsoluteHTTP(src) {
			s.SetAttr("src", PlaceholderImage)
			s.SetAttr("alt", PlaceholderAlt)
			return
		}
		s.SetAttr("onerror", "this.onerror=null;this.src='"+PlaceholderImage+"';")
		s.SetAttr("loading", "lazy")
	})
}

func isAbsoluteHTTP(src string) bool {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return false
	}
	scheme := strings.ToLower(u.Scheme)
	return (scheme == "http" || scheme == "https") && u.Host != ""
}
