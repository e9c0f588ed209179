package tokens

import (
	"fmt"
	"os"

	"stylec/colors"
	"stylec/internal/source"
)

type TOKEN string

const (
	IDENT_TOKEN      TOKEN = "identifier"
	AT_KEYWORD_TOKEN TOKEN = "at-keyword"
	STRING_TOKEN     TOKEN = "string literal"
	HASH_TOKEN       TOKEN = "hash"
	NUMBER_TOKEN     TOKEN = "number"
	PERCENTAGE_TOKEN TOKEN = "percentage"
	DIMENSION_TOKEN  TOKEN = "dimension"
	URI_TOKEN        TOKEN = "url"
	FUNCTION_TOKEN   TOKEN = "function"
	WHITESPACE_TOKEN TOKEN = "whitespace"
	COMMENT_TOKEN    TOKEN = "comment"

	OPEN_CURLY  TOKEN = "{"
	CLOSE_CURLY TOKEN = "}"
	OPEN_PAREN  TOKEN = "("
	CLOSE_PAREN TOKEN = ")"
	SEMICOLON   TOKEN = ";"
	COLON       TOKEN = ":"
	COMMA       TOKEN = ","
	AMPERSAND   TOKEN = "&"
	DOLLAR      TOKEN = "$"
	PERCENT     TOKEN = "%"
	BANG        TOKEN = "!"

	// DELIM_TOKEN covers every other single character and the attribute
	// match operators (~=, |=, ^=, $=, *=).
	DELIM_TOKEN TOKEN = "delimiter"
	// OTHER_TOKEN covers unicode ranges and the legacy <!-- / --> markers.
	OTHER_TOKEN TOKEN = "token"
	EOF_TOKEN   TOKEN = "end of file"
)

// punctuation maps single-character values to their dedicated kinds.
var punctuation = map[string]TOKEN{
	"{": OPEN_CURLY,
	"}": CLOSE_CURLY,
	"(": OPEN_PAREN,
	")": CLOSE_PAREN,
	";": SEMICOLON,
	":": COLON,
	",": COMMA,
	"&": AMPERSAND,
	"$": DOLLAR,
	"%": PERCENT,
	"!": BANG,
}

// CharKind returns the kind for a single-character token value.
func CharKind(value string) TOKEN {
	if kind, ok := punctuation[value]; ok {
		return kind
	}
	return DELIM_TOKEN
}

// IsTrivia reports whether a kind carries no syntax (whitespace and comments).
func IsTrivia(kind TOKEN) bool {
	return kind == WHITESPACE_TOKEN || kind == COMMENT_TOKEN
}

type Token struct {
	Kind  TOKEN
	Value string
	Start source.Position
	End   source.Position
}

// Is reports whether the token is any of the given kinds.
func (t *Token) Is(kinds ...TOKEN) bool {
	for _, kind := range kinds {
		if t.Kind == kind {
			return true
		}
	}
	return false
}

func (t *Token) Debug(filename string) {
	colors.GREY.Fprintf(os.Stderr, "%s:%d:%d ", filename, t.Start.Line, t.Start.Column)
	if t.Value == string(t.Kind) {
		fmt.Fprintf(os.Stderr, "%q\n", t.Value)
	} else {
		fmt.Fprintf(os.Stderr, "%q ('%v')\n", t.Value, t.Kind)
	}
}

func NewToken(kind TOKEN, value string, start source.Position, end source.Position) Token {
	return Token{
		Kind:  kind,
		Value: value,
		Start: start,
		End:   end,
	}
}
