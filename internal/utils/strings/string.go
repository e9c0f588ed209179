package strings

import (
	"strings"
	"unicode"
)

func Pluralize(singular, plural string, count int) string {
	if count == 1 {
		return singular
	}
	return plural
}

// NormalizeUnderscores maps '_' to '-' so that $foo_bar and $foo-bar name
// the same variable.
func NormalizeUnderscores(name string) string {
	if !strings.Contains(name, "_") {
		return name
	}
	return strings.ReplaceAll(name, "_", "-")
}

// CollapseWhitespace trims str and replaces every run of whitespace with a
// single space. Quoted sections are copied as-is.
func CollapseWhitespace(str string) string {
	var b strings.Builder
	b.Grow(len(str))

	var quote rune
	pendingSpace := false
	for _, r := range strings.TrimSpace(str) {
		if quote != 0 {
			b.WriteRune(r)
			if r == quote {
				quote = 0
			}
			continue
		}
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		if r == '"' || r == '\'' {
			quote = r
		}
		b.WriteRune(r)
	}
	return b.String()
}

// SplitTopLevel splits str on sep, ignoring separators nested in
// parentheses, brackets or quotes. Parts are whitespace-collapsed and
// empty parts are dropped.
func SplitTopLevel(str string, sep rune) []string {
	var parts []string
	var quote rune
	depth := 0
	start := 0

	flush := func(end int) {
		part := CollapseWhitespace(str[start:end])
		if part != "" {
			parts = append(parts, part)
		}
	}

	for i, r := range str {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '(' || r == '[':
			depth++
		case r == ')' || r == ']':
			if depth > 0 {
				depth--
			}
		case r == sep && depth == 0:
			flush(i)
			start = i + len(string(sep))
		}
	}
	flush(len(str))
	return parts
}

// Unquote strips one pair of matching single or double quotes.
func Unquote(str string) (string, bool) {
	if len(str) >= 2 {
		first, last := str[0], str[len(str)-1]
		if (first == '"' || first == '\'') && first == last {
			return str[1 : len(str)-1], true
		}
	}
	return str, false
}
