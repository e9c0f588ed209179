package parser

import (
	"fmt"
	"strings"

	"stylec/internal/frontend/ast"
	str "stylec/internal/utils/strings"
)

// ParseMediaQueryList parses the prelude of an @media rule, e.g.
// `only screen and (min-width: 2px), print`. The returned list holds every
// query that parsed; err describes the first one that did not.
func ParseMediaQueryList(text string) (ast.MediaQueryList, error) {
	var (
		list     ast.MediaQueryList
		firstErr error
	)

	parts := str.SplitTopLevel(text, ',')
	if len(parts) == 0 {
		return nil, fmt.Errorf("empty media query")
	}

	for _, part := range parts {
		query, err := parseMediaQuery(part)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		list = append(list, query)
	}
	return list, firstErr
}

// parseMediaQuery parses one query:
//
//	[not|only] type [and (expr)]*
//	(expr) [and (expr)]*
func parseMediaQuery(text string) (*ast.MediaQuery, error) {
	words := mediaWords(text)
	query := &ast.MediaQuery{}
	i := 0

	if i < len(words) {
		switch strings.ToLower(words[i]) {
		case "not":
			query.Negated = true
			i++
		case "only":
			query.Restricted = true
			i++
		}
	}

	if i < len(words) && !strings.HasPrefix(words[i], "(") {
		query.Type = words[i]
		i++
		if i < len(words) {
			if !strings.EqualFold(words[i], "and") {
				return nil, fmt.Errorf("expected 'and' after media type %q in %q", query.Type, text)
			}
			i++
			if i == len(words) {
				return nil, fmt.Errorf("expected a media feature after 'and' in %q", text)
			}
		}
	} else if query.Negated || query.Restricted {
		return nil, fmt.Errorf("expected a media type after 'not' or 'only' in %q", text)
	}

	for i < len(words) {
		expr, err := parseMediaExpression(words[i])
		if err != nil {
			return nil, fmt.Errorf("%w in %q", err, text)
		}
		query.Expressions = append(query.Expressions, expr)
		i++

		if i < len(words) {
			if !strings.EqualFold(words[i], "and") || i+1 == len(words) {
				return nil, fmt.Errorf("expected 'and' between media features in %q", text)
			}
			i++
		}
	}

	if query.Type == "" && len(query.Expressions) == 0 {
		return nil, fmt.Errorf("empty media query")
	}
	return query, nil
}

func parseMediaExpression(word string) (ast.MediaExpression, error) {
	if !strings.HasPrefix(word, "(") || !strings.HasSuffix(word, ")") {
		return ast.MediaExpression{}, fmt.Errorf("expected a parenthesized media feature, found %q", word)
	}
	inner := word[1 : len(word)-1]

	feature, value, found := strings.Cut(inner, ":")
	expr := ast.MediaExpression{
		Feature: str.CollapseWhitespace(feature),
		Value:   str.CollapseWhitespace(value),
	}
	if expr.Feature == "" || (found && expr.Value == "") {
		return ast.MediaExpression{}, fmt.Errorf("malformed media feature %q", word)
	}
	return expr, nil
}

// mediaWords splits a query on whitespace, keeping each parenthesized
// group as a single word.
func mediaWords(text string) []string {
	var words []string
	var current strings.Builder
	depth := 0

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case r == '(':
			if depth == 0 {
				flush()
			}
			depth++
			current.WriteRune(r)
		case r == ')':
			current.WriteRune(r)
			if depth > 0 {
				depth--
				if depth == 0 {
					flush()
				}
			}
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			current.WriteRune(r)
		}
	}
	flush()
	return words
}
