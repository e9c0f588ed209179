package lexer

import (
	"strings"

	"github.com/gorilla/css/scanner"

	"stylec/internal/diagnostics"
	"stylec/internal/source"
	"stylec/internal/tokens"
)

type Lexer struct {
	diagnostics *diagnostics.DiagnosticBag
	Tokens      []tokens.Token
	Position    source.Position
	sourceCode  string
	FilePath    string
}

func New(filepath, content string, diag *diagnostics.DiagnosticBag) *Lexer {
	return &Lexer{
		sourceCode:  content,
		Tokens:      make([]tokens.Token, 0),
		Position:    source.StartPosition(),
		diagnostics: diag,
		FilePath:    filepath,
	}
}

func (lex *Lexer) push(kind tokens.TOKEN, value string) {
	start := lex.Position
	lex.Position.Advance(value)
	lex.Tokens = append(lex.Tokens, tokens.NewToken(kind, value, start, lex.Position))
}

// Tokenize scans the whole input. Lexical errors are reported to the
// diagnostic bag; the token stream always ends with EOF_TOKEN.
func (lex *Lexer) Tokenize(debug bool) []tokens.Token {
	s := scanner.New(blankLineComments(lex.sourceCode))

	for {
		tok := s.Next()
		if tok.Type == scanner.TokenEOF {
			break
		}
		if tok.Type == scanner.TokenError {
			lex.reportError(tok.Value)
			break
		}
		if tok.Type == scanner.TokenBOM {
			lex.Position.Advance(tok.Value)
			continue
		}
		lex.push(kindOf(tok), tok.Value)
	}

	end := lex.Position
	if lex.Position.Index < len(lex.sourceCode) {
		// scanning stopped early; EOF sits at the real end of input
		end.Advance(lex.sourceCode[lex.Position.Index:])
	}
	lex.Tokens = append(lex.Tokens, tokens.NewToken(tokens.EOF_TOKEN, "", end, end))

	if debug {
		for _, token := range lex.Tokens {
			token.Debug(lex.FilePath)
		}
	}

	return lex.Tokens
}

func (lex *Lexer) reportError(message string) {
	code := diagnostics.ErrUnexpectedCharacter
	switch {
	case strings.Contains(message, "quotation"):
		code = diagnostics.ErrUnterminatedString
	case strings.Contains(message, "comment"):
		code = diagnostics.ErrUnterminatedComment
	}

	start := lex.Position
	end := lex.Position
	end.Advance(lex.sourceCode[start.Index:min(start.Index+1, len(lex.sourceCode))])

	lex.diagnostics.Add(
		diagnostics.NewError(message).
			WithCode(code).
			WithPrimaryLabel(source.NewLocation(&lex.FilePath, &start, &end), "starts here"),
	)
}

func kindOf(tok *scanner.Token) tokens.TOKEN {
	switch tok.Type {
	case scanner.TokenIdent:
		return tokens.IDENT_TOKEN
	case scanner.TokenAtKeyword:
		return tokens.AT_KEYWORD_TOKEN
	case scanner.TokenString:
		return tokens.STRING_TOKEN
	case scanner.TokenHash:
		return tokens.HASH_TOKEN
	case scanner.TokenNumber:
		return tokens.NUMBER_TOKEN
	case scanner.TokenPercentage:
		return tokens.PERCENTAGE_TOKEN
	case scanner.TokenDimension:
		return tokens.DIMENSION_TOKEN
	case scanner.TokenURI:
		return tokens.URI_TOKEN
	case scanner.TokenFunction:
		return tokens.FUNCTION_TOKEN
	case scanner.TokenS:
		return tokens.WHITESPACE_TOKEN
	case scanner.TokenComment:
		return tokens.COMMENT_TOKEN
	case scanner.TokenChar:
		return tokens.CharKind(tok.Value)
	case scanner.TokenIncludes, scanner.TokenDashMatch, scanner.TokenPrefixMatch,
		scanner.TokenSuffixMatch, scanner.TokenSubstringMatch:
		return tokens.DELIM_TOKEN
	default:
		return tokens.OTHER_TOKEN
	}
}

// blankLineComments replaces `// ...` comments with spaces so the CSS
// scanner never sees them. Byte offsets are preserved. Strings, block
// comments and url() arguments are left alone.
func blankLineComments(src string) string {
	if !strings.Contains(src, "//") {
		return src
	}

	out := []byte(src)
	var quote byte
	inBlock := false
	inURL := false

	for i := 0; i < len(out); i++ {
		c := out[i]
		switch {
		case inBlock:
			if c == '*' && i+1 < len(out) && out[i+1] == '/' {
				inBlock = false
				i++
			}
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote || c == '\n' {
				quote = 0
			}
		case inURL:
			if c == ')' {
				inURL = false
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '/' && i+1 < len(out) && out[i+1] == '*':
			inBlock = true
			i++
		case c == '(' && i >= 3 && strings.EqualFold(src[i-3:i], "url"):
			inURL = true
		case c == '/' && i+1 < len(out) && out[i+1] == '/':
			for i < len(out) && out[i] != '\n' {
				out[i] = ' '
				i++
			}
		}
	}
	return string(out)
}
