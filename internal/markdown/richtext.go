package markdown

import (
	"strings"

	"blogsync/internal/notion"
)

// RichText сериализует фрагменты rich_text в inline-Markdown.
func RichText(rts []notion.RichText) string {
	var b strings.Builder
	for _, t := range rts {
		b.WriteString(richFragment(t))
	}
	return b.String()
}

func richFragment(t notion.RichText) string {
	s := t.PlainText
	if t.Type == "equation" && t.Equation != nil {
		return "$" + t.Equation.Expression + "$"
	}
	if s == "" {
		return ""
	}

	// пробелы по краям выносим за разметку, иначе **text ** не распознаётся
	core := strings.TrimSpace(s)
	if core == "" {
		return s
	}
	lead := s[:strings.Index(s, core)]
	trail := s[len(lead)+len(core):]

	a := t.Annotations
	if a.Code {
		core = codeSpan(core)
	}
	if a.Bold {
		core = "**" + core + "**"
	}
	if a.Italic {
		core = "_" + core + "_"
	}
	if a.Strikethrough {
		core = "~~" + core + "~~"
	}
	if t.Href != nil && *t.Href != "" {
		core = "[" + core + "](" + *t.Href + ")"
	}
	return lead + core + trail
}

func codeSpan(s string) string {
	fence := "`"
	for strings.Contains(s, fence) {
		fence += "`"
	}
	if strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") {
		return fence + " " + s + " " + fence
	}
	return fence + s + fence
}
