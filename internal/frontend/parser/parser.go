package parser

import (
	"fmt"
	"strings"

	"stylec/internal/diagnostics"
	"stylec/internal/frontend/ast"
	"stylec/internal/source"
	"stylec/internal/tokens"
	str "stylec/internal/utils/strings"
)

// The Parser builds an AST from a token stream.
// The ParseFile function is in the pipeline package to avoid import cycles.

// Parser holds temporary state during parsing of a single file.
type Parser struct {
	tokens      []tokens.Token
	current     int // current position in tokens
	diagnostics *diagnostics.DiagnosticBag
	filepath    string
}

// Parse is the internal parsing function called by the pipeline.
func Parse(toks []tokens.Token, filepath string, diag *diagnostics.DiagnosticBag) *ast.Stylesheet {
	parser := &Parser{
		tokens:      toks,
		current:     0,
		diagnostics: diag,
		filepath:    filepath,
	}

	return parser.parseStylesheet()
}

func (p *Parser) parseStylesheet() *ast.Stylesheet {
	start := source.StartPosition()
	if len(p.tokens) > 0 {
		start = p.tokens[0].Start
	}

	root := p.parseStatements(nil)
	root.Root = true

	end := p.tokens[len(p.tokens)-1].End
	root.Location = *source.NewLocation(&p.filepath, &start, &end)

	return &ast.Stylesheet{
		FullPath: p.filepath,
		Root:     root,
		Location: root.Location,
	}
}

// parseStatements parses statements until the closing '}' of open, or
// until EOF when open is nil (document root).
func (p *Parser) parseStatements(open *tokens.Token) *ast.Block {
	block := ast.NewBlock(source.Location{}, 4, false)

	for {
		p.skipWhitespace()
		tok := p.peek()

		switch tok.Kind {
		case tokens.EOF_TOKEN:
			if open != nil {
				p.diagnostics.Add(
					diagnostics.NewError("unclosed block").
						WithCode(diagnostics.ErrUnterminatedBlock).
						WithPrimaryLabel(p.loc(*open, *open), "this '{' is never closed").
						WithHelp("add a matching '}'"),
				)
			}
			return block
		case tokens.CLOSE_CURLY:
			if open != nil {
				return block
			}
			p.diagnostics.Add(diagnostics.UnexpectedToken(p.loc(tok, tok), "'}'"))
			p.advance()
		case tokens.SEMICOLON:
			p.advance()
		case tokens.COMMENT_TOKEN:
			p.advance()
			block.Append(&ast.Comment{
				Meta: ast.Meta{Location: *p.loc(tok, tok)},
				Text: tok.Value,
			})
		case tokens.AT_KEYWORD_TOKEN:
			if stmt := p.parseAtRule(); stmt != nil {
				block.Append(stmt)
			}
		default:
			if stmt := p.parseRuleOrDeclaration(); stmt != nil {
				block.Append(stmt)
			}
		}
	}
}

// prelude is the run of tokens before a '{', ';' or '}'.
type prelude struct {
	toks       []tokens.Token // without leading/trailing trivia
	terminator tokens.Token   // '{', ';', '}' or EOF
}

func (pr prelude) text() string {
	return joinTokens(pr.toks)
}

// collectPrelude consumes tokens up to a top-level terminator. '{' and ';'
// are consumed when they terminate; '}' and EOF are left for the block loop.
func (p *Parser) collectPrelude() prelude {
	var pr prelude
	depth := 0

	for {
		tok := p.peek()
		switch {
		case tok.Kind == tokens.EOF_TOKEN:
			pr.terminator = tok
			pr.toks = trimTrivia(pr.toks)
			return pr
		case depth == 0 && tok.Is(tokens.OPEN_CURLY, tokens.SEMICOLON):
			pr.terminator = p.advance()
			pr.toks = trimTrivia(pr.toks)
			return pr
		case depth == 0 && tok.Kind == tokens.CLOSE_CURLY:
			pr.terminator = tok
			pr.toks = trimTrivia(pr.toks)
			return pr
		case tok.Is(tokens.OPEN_PAREN, tokens.FUNCTION_TOKEN) || tok.Value == "[":
			depth++
		case tok.Kind == tokens.CLOSE_PAREN || tok.Value == "]":
			if depth > 0 {
				depth--
			}
		}
		pr.toks = append(pr.toks, p.advance())
	}
}

func (p *Parser) parseRuleOrDeclaration() ast.Statement {
	pr := p.collectPrelude()
	if len(pr.toks) == 0 {
		// a stray '{' with nothing before it
		if pr.terminator.Kind == tokens.OPEN_CURLY {
			p.diagnostics.Add(
				diagnostics.NewError("missing selector").
					WithCode(diagnostics.ErrMissingSelector).
					WithPrimaryLabel(p.loc(pr.terminator, pr.terminator), "block has no selector"),
			)
			p.parseStatementsAfterOpen(pr.terminator)
		}
		return nil
	}

	loc := p.loc(pr.toks[0], pr.toks[len(pr.toks)-1])

	if pr.terminator.Kind == tokens.OPEN_CURLY {
		block := p.parseStatementsAfterOpen(pr.terminator)
		return &ast.Ruleset{
			Meta:     ast.Meta{Location: source.Span(loc, &block.Location)},
			Selector: ast.ParseSelectorList(pr.text()),
			Block:    block,
		}
	}

	if pr.toks[0].Kind == tokens.DOLLAR {
		return p.parseVariableDecl(pr, loc)
	}
	return p.parseDeclaration(pr, loc)
}

// parseStatementsAfterOpen parses a block whose '{' was already consumed.
func (p *Parser) parseStatementsAfterOpen(open tokens.Token) *ast.Block {
	block := p.parseStatements(&open)
	end := open
	if p.peek().Kind == tokens.CLOSE_CURLY {
		end = p.advance()
	}
	block.Location = *p.loc(open, end)
	return block
}

func (p *Parser) parseDeclaration(pr prelude, loc *source.Location) ast.Statement {
	colon := indexOfKind(pr.toks, tokens.COLON)
	if colon < 0 {
		p.diagnostics.Add(
			diagnostics.NewError(fmt.Sprintf("expected ':' in declaration %q", pr.text())).
				WithCode(diagnostics.ErrInvalidDeclaration).
				WithPrimaryLabel(loc, "not a declaration").
				WithHelp("declarations have the form `property: value;`"),
		)
		return nil
	}

	property := joinTokens(pr.toks[:colon])
	valueToks, flags := splitFlags(pr.toks[colon+1:])
	value := joinTokens(valueToks)

	if property == "" || value == "" {
		p.diagnostics.Add(
			diagnostics.NewError("declaration needs a property and a value").
				WithCode(diagnostics.ErrInvalidDeclaration).
				WithPrimaryLabel(loc, "incomplete declaration"),
		)
		return nil
	}

	return &ast.Declaration{
		Meta:      ast.Meta{Location: *loc},
		Property:  property,
		Value:     value,
		Important: flags["important"],
	}
}

// parseVariableDecl parses `$name: value [!default];`
func (p *Parser) parseVariableDecl(pr prelude, loc *source.Location) ast.Statement {
	toks := pr.toks
	if len(toks) < 3 || toks[1].Kind != tokens.IDENT_TOKEN {
		p.diagnostics.Add(
			diagnostics.NewError("invalid variable declaration").
				WithCode(diagnostics.ErrInvalidVariableDecl).
				WithPrimaryLabel(loc, "expected `$name: value`"),
		)
		return nil
	}

	colon := indexOfKind(toks, tokens.COLON)
	if colon != 2 && !(colon > 2 && joinTokens(toks[2:colon]) == "") {
		p.diagnostics.Add(
			diagnostics.NewError(fmt.Sprintf("expected ':' after $%s", toks[1].Value)).
				WithCode(diagnostics.ErrInvalidVariableDecl).
				WithPrimaryLabel(loc, "invalid variable declaration"),
		)
		return nil
	}

	valueToks, flags := splitFlags(toks[colon+1:])
	value := joinTokens(valueToks)
	if value == "" {
		p.diagnostics.Add(
			diagnostics.NewError(fmt.Sprintf("variable $%s has no value", toks[1].Value)).
				WithCode(diagnostics.ErrInvalidVariableDecl).
				WithPrimaryLabel(loc, "missing value"),
		)
		return nil
	}

	return &ast.VariableDecl{
		Meta:    ast.Meta{Location: *loc},
		Name:    toks[1].Value,
		Value:   value,
		Default: flags["default"],
	}
}

func (p *Parser) parseAtRule() ast.Statement {
	keywordTok := p.advance()
	keyword := strings.ToLower(strings.TrimPrefix(keywordTok.Value, "@"))

	pr := p.collectPrelude()
	last := keywordTok
	if len(pr.toks) > 0 {
		last = pr.toks[len(pr.toks)-1]
	}
	loc := p.loc(keywordTok, last)

	switch keyword {
	case "media":
		return p.parseMedia(pr, loc)
	case "import":
		if pr.terminator.Kind != tokens.OPEN_CURLY {
			if imp, ok := p.parseImport(pr, loc); ok {
				return imp
			}
		}
	}

	rule := &ast.AtRule{
		Meta:    ast.Meta{Location: *loc},
		Keyword: keyword,
		Prelude: pr.text(),
	}
	if pr.terminator.Kind == tokens.OPEN_CURLY {
		rule.Block = p.parseStatementsAfterOpen(pr.terminator)
		rule.Location = source.Span(loc, &rule.Block.Location)
	}
	return rule
}

func (p *Parser) parseMedia(pr prelude, loc *source.Location) ast.Statement {
	if pr.terminator.Kind != tokens.OPEN_CURLY {
		p.diagnostics.Add(diagnostics.ExpectedToken(p.loc(pr.terminator, pr.terminator), "'{'", describe(pr.terminator)))
		return nil
	}

	queries, err := ParseMediaQueryList(pr.text())
	if err != nil {
		p.diagnostics.Add(
			diagnostics.NewError(err.Error()).
				WithCode(diagnostics.ErrInvalidMediaQuery).
				WithPrimaryLabel(loc, "invalid media query"),
		)
	}

	block := p.parseStatementsAfterOpen(pr.terminator)
	return &ast.MediaBlock{
		Meta:    ast.Meta{Location: source.Span(loc, &block.Location)},
		Queries: queries,
		Block:   block,
	}
}

// parseImport returns an Import for `@import "a", "b";` when every target
// is a local stylesheet. ok is false for plain css imports, which stay AtRules.
func (p *Parser) parseImport(pr prelude, loc *source.Location) (stmt ast.Statement, ok bool) {
	var paths []string
	expectString := true

	for _, tok := range pr.toks {
		switch {
		case tokens.IsTrivia(tok.Kind):
		case expectString && tok.Kind == tokens.STRING_TOKEN:
			path, _ := str.Unquote(tok.Value)
			if isPlainCSSImport(path) {
				return nil, false
			}
			paths = append(paths, path)
			expectString = false
		case !expectString && tok.Kind == tokens.COMMA:
			expectString = true
		default:
			return nil, false
		}
	}

	if len(paths) == 0 || expectString {
		p.diagnostics.Add(
			diagnostics.NewError("expected a quoted path after @import").
				WithCode(diagnostics.ErrExpectedToken).
				WithPrimaryLabel(loc, "missing path"),
		)
		return nil, true
	}

	return &ast.Import{
		Meta:  ast.Meta{Location: *loc},
		Paths: paths,
	}, true
}

func isPlainCSSImport(path string) bool {
	return strings.HasSuffix(path, ".css") ||
		strings.HasPrefix(path, "http://") ||
		strings.HasPrefix(path, "https://") ||
		strings.HasPrefix(path, "//")
}
