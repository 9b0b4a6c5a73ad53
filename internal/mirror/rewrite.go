package mirror

import (
	"regexp"
	"sort"
	"strings"

	"blogsync/internal/models"
)

// Mapping: ссылка без query -> ссылка на зеркало.
type Mapping map[string]string

// BuildMapping берёт только реально загруженные картинки.
func BuildMapping(assets []models.ImageAsset) Mapping {
	m := make(Mapping, len(assets))
	for _, a := range assets {
		if !a.Mirrored || a.MirrorURL == "" {
			continue
		}
		m[NormalizeURL(a.SourceURL)] = a.MirrorURL
	}
	return m
}

// ReplaceURLs заменяет в Markdown/HTML исходные ссылки (с query-string или без)
// на ссылки зеркала.
func ReplaceURLs(text string, m Mapping) string {
	if len(m) == 0 || text == "" {
		return text
	}

	// длинные ключи первыми, чтобы префикс не съел более точное совпадение
	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "" {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return len(keys[i]) > len(keys[j]) })

	for _, k := range keys {
		if !strings.Contains(text, k) {
			continue
		}
		re := regexp.MustCompile(regexp.QuoteMeta(k) + `(\?[^)\s"'<>]*)?`)
		text = re.ReplaceAllLiteralString(text, m[k])
	}
	return text
}
