package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits an identifier into words at separators and case boundaries.
// Runs of capitals stay together ("HTTPServer" -> HTTP, Server).
func Words(s string) []string {
	runes := []rune(s)
	words := make([]string, 0, 4)
	cur := make([]rune, 0, len(runes))

	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = cur[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(cur) > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		cur = append(cur, r)
	}
	flush()

	return words
}

// Casers hold state and are not safe to share, so each call builds its own.

// Upper upper-cases s
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// Lower lower-cases s
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// Title title-cases every word of s, keeping separators
func Title(s string) string {
	return cases.Title(language.Und).String(s)
}

// Pascal joins the words of s as PascalCase
func Pascal(s string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range Words(s) {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Camel joins the words of s as camelCase
func Camel(s string) string {
	words := Words(s)
	if len(words) == 0 {
		return ""
	}
	title := cases.Title(language.Und)
	var b strings.Builder
	b.WriteString(Lower(words[0]))
	for _, w := range words[1:] {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// Snake joins the words of s as snake_case
func Snake(s string) string {
	return joinLower(s, "_")
}

// Kebab joins the words of s as kebab-case
func Kebab(s string) string {
	return joinLower(s, "-")
}

func joinLower(s, sep string) string {
	words := Words(s)
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, sep)
}
