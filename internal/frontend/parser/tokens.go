package parser

import (
	"strings"

	"stylec/internal/source"
	"stylec/internal/tokens"
	str "stylec/internal/utils/strings"
)

func (p *Parser) peek() tokens.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[p.current]
}

func (p *Parser) previous() tokens.Token {
	if p.current == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.current-1]
}

func (p *Parser) advance() tokens.Token {
	if p.current >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	p.current++
	return p.tokens[p.current-1]
}

func (p *Parser) skipWhitespace() {
	for p.peek().Kind == tokens.WHITESPACE_TOKEN {
		p.advance()
	}
}

// loc creates a source location spanning first to last
func (p *Parser) loc(first, last tokens.Token) *source.Location {
	start, end := first.Start, last.End
	return source.NewLocation(&p.filepath, &start, &end)
}

func describe(tok tokens.Token) string {
	if tok.Kind == tokens.EOF_TOKEN {
		return "end of file"
	}
	return "'" + tok.Value + "'"
}

// joinTokens renders tokens back to text. Whitespace runs become one
// space and comments are dropped.
func joinTokens(toks []tokens.Token) string {
	var b strings.Builder
	for _, tok := range toks {
		switch tok.Kind {
		case tokens.COMMENT_TOKEN:
		case tokens.WHITESPACE_TOKEN:
			b.WriteByte(' ')
		default:
			b.WriteString(tok.Value)
		}
	}
	return str.CollapseWhitespace(b.String())
}

func trimTrivia(toks []tokens.Token) []tokens.Token {
	for len(toks) > 0 && tokens.IsTrivia(toks[0].Kind) {
		toks = toks[1:]
	}
	for len(toks) > 0 && tokens.IsTrivia(toks[len(toks)-1].Kind) {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func indexOfKind(toks []tokens.Token, kind tokens.TOKEN) int {
	for i, tok := range toks {
		if tok.Kind == kind {
			return i
		}
	}
	return -1
}

// splitFlags removes trailing `!name` flags (`!important`, `!default`)
// from a value and reports which ones were present.
func splitFlags(toks []tokens.Token) ([]tokens.Token, map[string]bool) {
	flags := make(map[string]bool)
	toks = trimTrivia(toks)
	for len(toks) >= 2 {
		name := toks[len(toks)-1]
		bang := trimTrivia(toks[:len(toks)-1])
		if name.Kind != tokens.IDENT_TOKEN || len(bang) == 0 || bang[len(bang)-1].Kind != tokens.BANG {
			break
		}
		flags[strings.ToLower(name.Value)] = true
		toks = trimTrivia(bang[:len(bang)-1])
	}
	return toks, flags
}
