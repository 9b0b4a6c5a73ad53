// Package markdown сериализует дерево блоков Notion в Markdown.
package markdown

import (
	"strconv"
	"strings"

	"blogsync/internal/logger"
	"blogsync/internal/notion"

	"go.uber.org/zap"
)

// DefaultMaxDepth совпадает с пределом загрузки дерева в notion.Client.
const DefaultMaxDepth = notion.MaxBlockDepth

type Converter struct {
	// MaxDepth: блоки глубже предела (и их поддеревья) пропускаются.
	MaxDepth int
}

func NewConverter() *Converter {
	return &Converter{MaxDepth: DefaultMaxDepth}
}

type frame struct {
	node    *notion.Node
	prefix  string
	depth   int
	number  int
	closing string
}

// rendered: результат сериализации одного блока.
type rendered struct {
	text        string
	list        bool
	descend     bool
	childPrefix string
	closing     string
}

// Convert обходит дерево по явному стеку и склеивает блоки в один документ.
func (c *Converter) Convert(nodes []*notion.Node) string {
	maxDepth := c.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var b strings.Builder
	first, prevList := true, false
	skipped := 0

	stack := pushChildren(nil, nodes, "", 0)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var r rendered
		if f.closing != "" {
			r = rendered{text: f.closing}
		} else {
			if f.depth >= maxDepth {
				skipped++
				continue
			}
			r = renderBlock(f)
		}

		if r.text != "" {
			if !first {
				b.WriteString("\n")
				if !(r.list && prevList) {
					b.WriteString(strings.TrimRight(f.prefix, " "))
					b.WriteString("\n")
				}
			}
			b.WriteString(indent(r.text, f.prefix))
			first, prevList = false, r.list
		}

		if r.closing != "" {
			stack = append(stack, frame{prefix: f.prefix, depth: f.depth, closing: r.closing})
		}
		if r.descend && f.node != nil && len(f.node.Children) > 0 {
			stack = pushChildren(stack, f.node.Children, r.childPrefix, f.depth+1)
		}
	}

	if skipped > 0 {
		logger.Log.Warn("Markdown: блоки глубже предела пропущены",
			zap.Int("max_depth", maxDepth),
			zap.Int("skipped", skipped),
		)
	}
	return b.String()
}

// pushChildren кладёт детей в стек в обратном порядке и нумерует
// подряд идущие пункты нумерованного списка.
func pushChildren(stack []frame, children []*notion.Node, prefix string, depth int) []frame {
	numbers := make([]int, len(children))
	n := 0
	for i, child := range children {
		if child.Block.Type == "numbered_list_item" {
			n++
			numbers[i] = n
		} else {
			n = 0
		}
	}
	for i := len(children) - 1; i >= 0; i-- {
		stack = append(stack, frame{node: children[i], prefix: prefix, depth: depth, number: numbers[i]})
	}
	return stack
}

func renderBlock(f frame) rendered {
	b := f.node.Block
	c := b.Content
	text := RichText(c.RichText)

	switch b.Type {
	case "paragraph":
		return rendered{text: text, descend: true, childPrefix: f.prefix}

	case "heading_1", "heading_2", "heading_3":
		level, _ := strconv.Atoi(strings.TrimPrefix(b.Type, "heading_"))
		if strings.TrimSpace(text) == "" {
			return rendered{descend: true, childPrefix: f.prefix}
		}
		return rendered{text: strings.Repeat("#", level) + " " + oneLine(text), descend: true, childPrefix: f.prefix}

	case "bulleted_list_item":
		return listItem("- ", text, f.prefix)

	case "numbered_list_item":
		return listItem(strconv.Itoa(f.number)+". ", text, f.prefix)

	case "to_do":
		box := "[ ] "
		if c.Checked {
			box = "[x] "
		}
		return listItem("- ", box+text, f.prefix)

	case "toggle":
		return rendered{
			text:        "<details>\n<summary>" + oneLine(text) + "</summary>",
			descend:     true,
			childPrefix: f.prefix,
			closing:     "</details>",
		}

	case "quote":
		return rendered{text: quote(text), descend: true, childPrefix: f.prefix + "> "}

	case "callout":
		if c.Icon != nil && c.Icon.Type == "emoji" && c.Icon.Emoji != "" {
			text = c.Icon.Emoji + " " + text
		}
		return rendered{text: quote(text), descend: true, childPrefix: f.prefix + "> "}

	case "code":
		return rendered{text: fencedCode(notion.PlainText(c.RichText), c.Language)}

	case "equation":
		return rendered{text: "$$\n" + c.Expression + "\n$$"}

	case "divider":
		return rendered{text: "---"}

	case "image":
		u := c.FileURL()
		if u == "" {
			return rendered{}
		}
		return rendered{text: "![" + oneLine(notion.PlainText(c.Caption)) + "](" + u + ")"}

	case "video", "file", "pdf", "audio":
		u := c.FileURL()
		if u == "" {
			return rendered{}
		}
		return rendered{text: link(notion.PlainText(c.Caption), u)}

	case "bookmark", "embed", "link_preview":
		if c.URL == "" {
			return rendered{}
		}
		return rendered{text: link(notion.PlainText(c.Caption), c.URL)}

	case "table":
		return rendered{text: table(f.node)}

	case "child_page":
		if c.Title == "" {
			return rendered{}
		}
		return rendered{text: "**" + c.Title + "**"}

	case "column_list", "column", "synced_block", "template":
		return rendered{descend: true, childPrefix: f.prefix}

	default:
		logger.Log.Debug("Markdown: неподдерживаемый тип блока",
			zap.String("block_id", b.ID),
			zap.String("type", b.Type),
		)
		return rendered{}
	}
}

func listItem(marker, text, prefix string) rendered {
	pad := strings.Repeat(" ", len(marker))
	return rendered{
		text:        marker + strings.ReplaceAll(text, "\n", "\n"+pad),
		list:        true,
		descend:     true,
		childPrefix: prefix + pad,
	}
}

func quote(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + l
	}
	return strings.Join(lines, "\n")
}

func link(title, u string) string {
	title = oneLine(title)
	if title == "" {
		title = u
	}
	return "[" + title + "](" + u + ")"
}

func fencedCode(code, lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "plain text" {
		lang = "text"
	}
	lang = strings.ReplaceAll(lang, " ", "")

	fence := "```"
	for strings.Contains(code, fence) {
		fence += "`"
	}
	return fence + lang + "\n" + code + "\n" + fence
}

func table(n *notion.Node) string {
	var rows [][]string
	width := n.Block.Content.TableWidth
	for _, child := range n.Children {
		if child.Block.Type != "table_row" {
			continue
		}
		var cells []string
		for _, cell := range child.Block.Content.Cells {
			cells = append(cells, tableCell(RichText(cell)))
		}
		if len(cells) > width {
			width = len(cells)
		}
		rows = append(rows, cells)
	}
	if len(rows) == 0 || width == 0 {
		return ""
	}

	// GFM требует строку заголовка; без шапки в Notion она остаётся пустой
	if !n.Block.Content.HasColumnHeader {
		rows = append([][]string{make([]string, width)}, rows...)
	}

	var b strings.Builder
	for i, row := range rows {
		b.WriteString(tableRow(row, width))
		if i == 0 {
			b.WriteString("\n")
			b.WriteString(tableRow(repeat("---", width), width))
		}
		if i < len(rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func tableRow(cells []string, width int) string {
	out := make([]string, width)
	copy(out, cells)
	return "| " + strings.Join(out, " | ") + " |"
}

func tableCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", "<br>")
}

func repeat(s string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = s
	}
	return out
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func indent(text, prefix string) string {
	if prefix == "" {
		return text
	}
	blank := strings.TrimRight(prefix, " ")
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l == "" {
			lines[i] = blank
			continue
		}
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
