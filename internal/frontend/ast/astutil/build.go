// Package astutil builds small trees by hand, for tests and tools that
// need a tree without going through the parser.
package astutil

import (
	"stylec/internal/frontend/ast"
	"stylec/internal/source"
)

func Root(stmts ...ast.Statement) *ast.Block {
	b := ast.NewBlock(source.Location{}, len(stmts), true)
	b.Append(stmts...)
	return b
}

func Body(stmts ...ast.Statement) *ast.Block {
	b := ast.NewBlock(source.Location{}, len(stmts), false)
	b.Append(stmts...)
	return b
}

func Decl(property, value string) *ast.Declaration {
	return &ast.Declaration{Property: property, Value: value}
}

// Hoisted marks stmt hoistable and returns it.
func Hoisted[T ast.Statement](stmt T) T {
	stmt.SetHoistable(true)
	return stmt
}

func Rule(selector string, stmts ...ast.Statement) *ast.Ruleset {
	return &ast.Ruleset{
		Selector: ast.ParseSelectorList(selector),
		Block:    Body(stmts...),
	}
}

// Media builds a media block with a single query. query is either a media
// type ("screen") or one feature expression ("(min-width: 2px)").
func Media(query string, stmts ...ast.Statement) *ast.MediaBlock {
	return &ast.MediaBlock{
		Queries: ast.MediaQueryList{Query(query)},
		Block:   Body(stmts...),
	}
}

// MediaIn is Media with a selector context.
func MediaIn(selector *ast.SelectorList, query string, stmts ...ast.Statement) *ast.MediaBlock {
	m := Media(query, stmts...)
	m.Selector = selector
	return m
}

func Query(text string) *ast.MediaQuery {
	if len(text) > 2 && text[0] == '(' && text[len(text)-1] == ')' {
		return &ast.MediaQuery{Expressions: []ast.MediaExpression{Expr(text[1 : len(text)-1])}}
	}
	return &ast.MediaQuery{Type: text}
}

// Expr parses "feature: value" or "feature".
func Expr(text string) ast.MediaExpression {
	for i := 0; i < len(text); i++ {
		if text[i] == ':' {
			value := text[i+1:]
			for len(value) > 0 && value[0] == ' ' {
				value = value[1:]
			}
			return ast.MediaExpression{Feature: text[:i], Value: value}
		}
	}
	return ast.MediaExpression{Feature: text}
}

func AtRule(keyword, prelude string, stmts ...ast.Statement) *ast.AtRule {
	return &ast.AtRule{Keyword: keyword, Prelude: prelude, Block: Body(stmts...)}
}

func Directive(keyword, prelude string) *ast.AtRule {
	return &ast.AtRule{Keyword: keyword, Prelude: prelude}
}
