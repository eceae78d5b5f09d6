package template

import (
	"fmt"
	"strings"
)

type tokenKind int

const (
	tokRef tokenKind = iota
	tokString
	tokPipe
	tokQuestion
	tokColon
)

type token struct {
	kind  tokenKind
	value string
}

// segment is either literal text or a placeholder expression
type segment struct {
	text   string
	expr   string
	isExpr bool
}

// split breaks a template into literal and placeholder segments.
// Quoted strings inside a placeholder may contain "}}". A "{{" whose body
// is empty or reads as an object literal (JSX style={{ padding: 8 }}) is
// target source and passes through untouched.
func split(src string) ([]segment, error) {
	var (
		segs []segment
		lit  strings.Builder
	)
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for {
		start := strings.Index(src, "{{")
		if start < 0 {
			lit.WriteString(src)
			flush()
			return segs, nil
		}
		lit.WriteString(src[:start])

		end, err := closing(src, start+2)
		if err != nil {
			return nil, err
		}
		body := strings.TrimSpace(src[start+2 : end])
		if !placeholder(body) {
			// keep one brace and rescan, so "{{{ref}}}" still finds "{{ref}}"
			lit.WriteByte('{')
			src = src[start+1:]
			continue
		}
		flush()
		segs = append(segs, segment{expr: body, isExpr: true})
		src = src[end+2:]
	}
}

// placeholder reports whether body is meant as an expression. Bodies that
// do not lex, are empty, or open with "key:" belong to the target language.
func placeholder(body string) bool {
	toks, err := lex(body)
	if err != nil || len(toks) == 0 {
		return false
	}
	return !(len(toks) > 1 && toks[0].kind == tokRef && toks[1].kind == tokColon)
}

// closing finds the "}}" ending the placeholder that opens before from
func closing(src string, from int) (int, error) {
	inString := false
	for i := from; i < len(src); i++ {
		switch c := src[i]; {
		case inString && c == '\\':
			i++
		case c == '"':
			inString = !inString
		case !inString && c == '}' && i+1 < len(src) && src[i+1] == '}':
			return i, nil
		}
	}
	if inString {
		return 0, fmt.Errorf("unterminated string in placeholder at offset %d", from-2)
	}
	return 0, fmt.Errorf("unterminated placeholder at offset %d", from-2)
}

// lex tokenizes a placeholder expression
func lex(expr string) ([]token, error) {
	var toks []token
	for i := 0; i < len(expr); {
		c := expr[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case c == '|':
			toks = append(toks, token{kind: tokPipe})
			i++
		case c == '?':
			toks = append(toks, token{kind: tokQuestion})
			i++
		case c == ':':
			toks = append(toks, token{kind: tokColon})
			i++
		case c == '"':
			s, n, err := readString(expr[i:])
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, value: s})
			i += n
		case isRefByte(c):
			j := i
			for j < len(expr) && isRefByte(expr[j]) {
				j++
			}
			toks = append(toks, token{kind: tokRef, value: expr[i:j]})
			i = j
		default:
			return nil, fmt.Errorf("unexpected character %q in %q", c, expr)
		}
	}
	return toks, nil
}

// readString reads a double-quoted literal; only \" and \\ are escapes
func readString(s string) (string, int, error) {
	var b strings.Builder
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			if i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
				b.WriteByte(s[i+1])
				i++
				continue
			}
			b.WriteByte('\\')
		case '"':
			return b.String(), i + 1, nil
		default:
			b.WriteByte(s[i])
		}
	}
	return "", 0, fmt.Errorf("unterminated string literal")
}

func isRefByte(c byte) bool {
	return c == '@' || c == '_' || c == '.' || c == '-' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
