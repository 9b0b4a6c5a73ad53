package render

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

const wordsPerMinute = 200

// ReadingTime оценивает время чтения: 200 слов в минуту, каждый CJK-символ
// считается отдельным словом, минимум одна минута.
func ReadingTime(text string) (int, string) {
	words := countWords(text)
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		minutes = 1
	}
	return minutes, fmt.Sprintf("%d min read", minutes)
}

func countWords(text string) int {
	n := 0
	for _, field := range strings.Fields(text) {
		inWord := false
		for _, r := range field {
			if isCJK(r) {
				n++
				inWord = false
				continue
			}
			if unicode.IsLetter(r) || unicode.IsNumber(r) {
				if !inWord {
					n++
					inWord = true
				}
			}
		}
	}
	return n
}

func isCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hangul, unicode.Hiragana, unicode.Katakana)
}
