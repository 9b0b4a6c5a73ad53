// Package render превращает Markdown поста в HTML и извлекает из него
// оглавление и список источников.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"blogsync/internal/models"

	"github.com/PuerkitoBio/goquery"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
)

const (
	PlaceholderImage = "/image-placeholder.png"
	PlaceholderAlt   = "Image unavailable"
)

// Renderer безопасен для конкурентного использования.
type Renderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		// сырой HTML из Notion (details/summary) пропускаем, чистит bluemonday
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)

	return &Renderer{md: md, policy: newPolicy()}
}

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[\w\- ]+$`)).Globally()
	p.AllowElements("span", "details", "summary")
	p.AllowAttrs("open").Matching(regexp.MustCompile(`^(|open)$`)).OnElements("details")
	p.AllowAttrs("type").Matching(regexp.MustCompile(`^checkbox$`)).OnElements("input")
	p.AllowAttrs("checked", "disabled").Matching(regexp.MustCompile(`^(|checked|disabled)$`)).OnElements("input")
	return p
}

// Document: отрендеренное дерево одного поста.
type Document struct {
	doc  *goquery.Document
	body *html.Node
}

// Parse: Markdown -> HTML (GFM, подсветка) -> санитайзер -> проходы по дереву
// (id заголовков, якорные ссылки, картинки).
func (r *Renderer) Parse(markdown string) (*Document, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return nil, fmt.Errorf("markdown convert: %w", err)
	}

	clean := r.policy.SanitizeReader(&buf)
	doc, err := goquery.NewDocumentFromReader(clean)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		return nil, fmt.Errorf("parse html: no body")
	}

	d := &Document{doc: doc, body: body.Nodes[0]}
	d.assignHeadingIDs()
	d.wrapHeadings()
	d.rewriteImages()
	return d, nil
}

// Render: чистая функция Markdown -> HTML. Пустой вход даёт пустую строку.
func (r *Renderer) Render(markdown string) (string, error) {
	d, err := r.Parse(markdown)
	if err != nil {
		return "", err
	}
	return d.HTML()
}

// RenderDocument рендерит пост целиком: раздел источников вырезается из тела,
// оглавление собирается уже после этого.
func (r *Renderer) RenderDocument(markdown string) (models.RenderedDocument, error) {
	d, err := r.Parse(markdown)
	if err != nil {
		return models.RenderedDocument{}, err
	}

	refs := d.ExtractReferences()
	headings := d.Headings()

	out, err := d.HTML()
	if err != nil {
		return models.RenderedDocument{}, err
	}

	minutes, label := ReadingTime(markdown)
	return models.RenderedDocument{
		HTML:               out,
		Headings:           headings,
		References:         refs,
		ReadingTimeMinutes: minutes,
		ReadingTime:        label,
	}, nil
}

// HTML сериализует содержимое body.
func (d *Document) HTML() (string, error) {
	var b strings.Builder
	for c := d.body.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&b, c); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
	}
	return strings.TrimSpace(b.String()), nil
}
