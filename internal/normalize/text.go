package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ws is the regexp class for Unicode whitespace. Go's \s only covers ASCII.
const ws = `[\s\x{0b}\x{1c}-\x{1f}\x{85}\p{Z}]`

// isSpace reports whether r is whitespace in the Unicode sense used by the
// normalizers (includes the ASCII information separators).
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

// isWord reports whether r is a word character: letters, numbers and underscore.
func isWord(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func trim(s string) string {
	return strings.TrimFunc(s, isSpace)
}

// collapse joins whitespace-separated fields with single spaces.
func collapse(s string) string {
	return strings.Join(strings.FieldsFunc(s, isSpace), " ")
}

// lower applies full Unicode lower-casing. Combining marks are left as they
// are, so decomposed and precomposed spellings stay distinct.
// Casers are not safe for concurrent use, so one is built per call.
func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// replaceBounded replaces every non-overlapping occurrence of token whose
// leading and trailing edges fall on word boundaries.
func replaceBounded(s, token, repl string) string {
	if token == "" || !strings.Contains(s, token) {
		return s
	}
	first, _ := firstRune(token)
	last, _ := lastRune(token)

	var b strings.Builder
	i := 0
	for i < len(s) {
		idx := strings.Index(s[i:], token)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(token)

		prev, hasPrev := lastRune(s[:start])
		next, hasNext := firstRune(s[end:])
		if boundary(prev, hasPrev, first, true) && boundary(last, true, next, hasNext) {
			b.WriteString(s[i:start])
			b.WriteString(repl)
			i = end
			continue
		}

		_, size := utf8.DecodeRuneInString(s[start:])
		b.WriteString(s[i : start+size])
		i = start + size
	}
	b.WriteString(s[i:])
	return b.String()
}

// boundary reports a word boundary between a and b. A missing rune counts as
// a non-word character.
func boundary(a rune, hasA bool, b rune, hasB bool) bool {
	return (hasA && isWord(a)) != (hasB && isWord(b))
}

func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, true
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, true
}
