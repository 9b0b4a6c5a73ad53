// Package mirror: ключи зеркальных копий картинок и перезапись ссылок на них.
package mirror

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

const hashLen = 8

// Notion кладёт UUID файла в путь подписанной ссылки; он меняется вместе с содержимым.
var uuidPattern = regexp.MustCompile(`(?i)[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)

// NormalizeURL отрезает query-string (подпись и срок действия).
func NormalizeURL(src string) string {
	if i := strings.IndexByte(src, '?'); i >= 0 {
		return src[:i]
	}
	return src
}

// ContentFragment: стабильная часть ссылки: первый UUID или ссылка без query.
func ContentFragment(src string) string {
	if m := uuidPattern.FindString(src); m != "" {
		return strings.ToLower(m)
	}
	return NormalizeURL(src)
}

// ContentHash: первые 8 hex-символов md5 от ContentFragment.
func ContentHash(src string) string {
	sum := md5.Sum([]byte(ContentFragment(src)))
	return hex.EncodeToString(sum[:])[:hashLen]
}

// PublicID: ключ картинки блока: {pageId}/{blockId}_{hash}.
func PublicID(pageID, blockID, src string) string {
	return pageID + "/" + blockID + "_" + ContentHash(src)
}

// CoverPublicID: ключ обложки: {pageId}/cover_{hash}.
func CoverPublicID(pageID, src string) string {
	return pageID + "/cover_" + ContentHash(src)
}

// IsHTTPURL: годится ли ссылка для загрузки.
func IsHTTPURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}
