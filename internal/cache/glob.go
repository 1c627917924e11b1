package cache

import (
	"fmt"
	"regexp"
	"strings"
)

// globSpecial lists the characters with meaning in a Redis-style glob.
const globSpecial = `*?[]\`

// EscapeGlob escapes glob metacharacters so s only ever matches itself.
func EscapeGlob(s string) string {
	if !strings.ContainsAny(s, globSpecial) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(globSpecial, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// compileGlob turns a Redis-style glob into an anchored regexp. Unlike
// path.Match, '*' also matches '/', which keys of cached API paths contain.
func compileGlob(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteByte('^')

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteByte('.')
		case '\\':
			if i+1 < len(runes) {
				i++
				b.WriteString(regexp.QuoteMeta(string(runes[i])))
			} else {
				b.WriteString(`\\`)
			}
		case '[':
			end := i + 1
			for end < len(runes) && runes[end] != ']' {
				if runes[end] == '\\' {
					end++
				}
				end++
			}
			if end >= len(runes) {
				return nil, fmt.Errorf("unterminated character class in %q", pattern)
			}
			b.WriteByte('[')
			b.WriteString(string(runes[i+1 : end]))
			b.WriteByte(']')
			i = end
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteByte('$')
	return regexp.Compile(b.String())
}
