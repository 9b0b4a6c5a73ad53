package render

import (
	"strconv"
	"strings"
	"unicode"
)

// Slugger выдаёт уникальные в пределах документа id заголовков:
// "Hello World" -> "hello-world", повтор -> "hello-world-1".
type Slugger struct {
	seen map[string]int
}

func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	if base == "" {
		base = "section"
	}

	slug := base
	if n, ok := s.seen[base]; ok {
		for {
			n++
			slug = base + "-" + strconv.Itoa(n)
			if _, taken := s.seen[slug]; !taken {
				break
			}
		}
		s.seen[base] = n
	}
	s.seen[slug] = 0
	return slug
}

// Slugify: нижний регистр, пробелы -> "-", пунктуация выбрасывается.
// Буквы любых алфавитов (включая CJK) сохраняются.
func Slugify(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(text)) {
		switch {
		case unicode.IsLetter(r), unicode.IsNumber(r), unicode.IsMark(r):
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune('-')
		}
	}
	return b.String()
}
