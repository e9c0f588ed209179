// Package codegen renders a bubbled tree as CSS text.
package codegen

import (
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"stylec/internal/frontend/ast"
	"stylec/internal/semantics/printable"
)

type Options struct {
	Style Style
	// SourceComments prefixes every rule with the file and line it came from
	SourceComments bool
}

// Generate renders root. Nodes the printability analyzer rejects are
// skipped, as are imports and variable declarations.
func Generate(root *ast.Block, opts Options) (string, error) {
	g := &generator{opts: opts}
	nodes := g.statements(root.Statements, nil, 0)

	switch opts.Style {
	case Nested:
		return formatNested(nodes), nil
	case Expanded:
		return formatExpanded(nodes), nil
	case Compact:
		return formatCompact(nodes), nil
	case Compressed:
		return minify(formatExpanded(nodes))
	default:
		return "", fmt.Errorf("unsupported output style %s", opts.Style)
	}
}

// cssNode is one flattened output block, or a bare line when prelude is empty.
type cssNode struct {
	comment  string // source comment
	prelude  string // selector list or at-rule header
	lines    []string
	children []*cssNode
	nest     int // source nesting depth, used by the nested style
}

func (n *cssNode) isLine() bool { return n.prelude == "" }

type generator struct {
	opts Options
}

// statements renders the body of the root, a media block or an at-rule.
// Non-hoistable leaves are wrapped in ctx; they are dropped when ctx is
// an empty selector list and printed bare when ctx is nil.
func (g *generator) statements(stmts []ast.Statement, ctx *ast.SelectorList, nest int) []*cssNode {
	var (
		out     []*cssNode
		wrapped []string
	)

	for _, stmt := range stmts {
		switch s := stmt.(type) {
		case *ast.Ruleset:
			out = append(out, g.ruleset(s, nest)...)
		case *ast.MediaBlock:
			if printable.MediaBlock(s) {
				out = append(out, g.media(s, nest))
			}
		case *ast.AtRule:
			if s.Block == nil {
				out, wrapped = g.leaf(out, wrapped, s, ctx)
			} else if printable.Block(s.Block) {
				out = append(out, g.atRule(s, ctx, nest))
			}
		case *ast.Declaration, *ast.Comment:
			out, wrapped = g.leaf(out, wrapped, s, ctx)
		}
	}

	if len(wrapped) > 0 && ctx.Len() > 0 {
		group := &cssNode{prelude: ctx.String(), lines: wrapped, nest: nest}
		out = append([]*cssNode{group}, out...)
	}
	return out
}

func (g *generator) leaf(out []*cssNode, wrapped []string, stmt ast.Statement, ctx *ast.SelectorList) ([]*cssNode, []string) {
	text := leafText(stmt)
	if ctx != nil && !stmt.IsHoistable() {
		return out, append(wrapped, text)
	}
	return append(out, &cssNode{lines: []string{text}}), wrapped
}

// ruleset flattens r: its own leaves first under its selector, then every
// nested container.
func (g *generator) ruleset(r *ast.Ruleset, nest int) []*cssNode {
	if !printable.Ruleset(r) {
		return nil
	}

	own := &cssNode{prelude: r.Selector.String(), nest: nest, comment: g.sourceComment(r)}
	var nested []*cssNode

	for _, stmt := range r.Block.Statements {
		switch s := stmt.(type) {
		case *ast.Ruleset:
			nested = append(nested, g.ruleset(s, nest+1)...)
		case *ast.MediaBlock:
			if printable.MediaBlock(s) {
				nested = append(nested, g.media(s, nest+1))
			}
		case *ast.AtRule:
			if s.Block == nil {
				own.lines = append(own.lines, leafText(s))
			} else if printable.Block(s.Block) {
				nested = append(nested, g.atRule(s, r.Selector, nest+1))
			}
		case *ast.Declaration, *ast.Comment:
			own.lines = append(own.lines, leafText(s))
		}
	}

	if len(own.lines) == 0 {
		return nested
	}
	return append([]*cssNode{own}, nested...)
}

func (g *generator) media(m *ast.MediaBlock, nest int) *cssNode {
	return &cssNode{
		prelude:  "@media " + m.Queries.String(),
		children: g.statements(m.Block.Statements, m.Selector, 0),
		nest:     nest,
	}
}

func (g *generator) atRule(a *ast.AtRule, ctx *ast.SelectorList, nest int) *cssNode {
	return &cssNode{
		prelude:  atRuleHeader(a),
		children: g.statements(a.Block.Statements, ctx, 0),
		nest:     nest,
	}
}

func (g *generator) sourceComment(r *ast.Ruleset) string {
	loc := r.Loc()
	if !g.opts.SourceComments || loc.Start == nil {
		return ""
	}
	return fmt.Sprintf("/* line %d, %s */", loc.Start.Line, loc.File())
}

func atRuleHeader(a *ast.AtRule) string {
	if a.Prelude == "" {
		return "@" + a.Keyword
	}
	return "@" + a.Keyword + " " + a.Prelude
}

func leafText(stmt ast.Statement) string {
	switch s := stmt.(type) {
	case *ast.Declaration:
		if s.Important {
			return s.Property + ": " + s.Value + " !important;"
		}
		return s.Property + ": " + s.Value + ";"
	case *ast.Comment:
		return s.Text
	case *ast.AtRule:
		return atRuleHeader(s) + ";"
	}
	return ""
}

func minify(css string) (string, error) {
	if strings.TrimSpace(css) == "" {
		return "", nil
	}
	result := api.Transform(css, api.TransformOptions{
		Loader:           api.LoaderCSS,
		MinifyWhitespace: true,
	})
	if len(result.Errors) > 0 {
		return "", fmt.Errorf("minify css: %s", result.Errors[0].Text)
	}
	return string(result.Code), nil
}
