// Package expander turns a parsed stylesheet into the tree the media
// bubbler expects: imports inlined, variables substituted, nested
// selectors resolved, placeholders stripped, media blocks given their
// selector context and statements marked hoistable.
package expander

import (
	"strings"

	"stylec/internal/diagnostics"
	"stylec/internal/frontend/ast"
)

// Modules gives access to the parsed stylesheets an @import refers to.
type Modules interface {
	Module(key string) (*ast.Stylesheet, bool)
}

type Expander struct {
	modules     Modules
	diagnostics *diagnostics.DiagnosticBag
	importing   map[string]bool
}

func New(modules Modules, diag *diagnostics.DiagnosticBag) *Expander {
	return &Expander{
		modules:     modules,
		diagnostics: diag,
		importing:   make(map[string]bool),
	}
}

// frame is the context a block is expanded in
type frame struct {
	// selector is the resolved enclosing selector, placeholders included
	// so that nested rules resolve against it.
	selector  *ast.SelectorList
	inRuleset bool
	// container is false only at the document root
	container bool
	// media holds the enclosing media blocks that bubbling would combine
	// with a nested one. Reset at every at-rule body.
	media []*ast.MediaBlock
}

// Expand builds a new tree for sheet. The input tree is not modified.
func (e *Expander) Expand(sheet *ast.Stylesheet) *ast.Block {
	e.importing[sheet.ImportPath] = true
	defer delete(e.importing, sheet.ImportPath)

	out := ast.NewBlock(sheet.Root.Location, len(sheet.Root.Statements), true)
	e.expandInto(out, sheet.Root, frame{}, newScope(nil))
	return out
}

func (e *Expander) expandBlock(in *ast.Block, f frame, sc *scope) *ast.Block {
	out := ast.NewBlock(in.Location, len(in.Statements), false)
	e.expandInto(out, in, f, newScope(sc))
	return out
}

func (e *Expander) expandInto(out *ast.Block, in *ast.Block, f frame, sc *scope) {
	for _, stmt := range in.Statements {
		switch s := stmt.(type) {
		case *ast.VariableDecl:
			e.declareVariable(s, sc)
		case *ast.Import:
			e.inline(out, s, f, sc)
		case *ast.Declaration:
			if !f.container {
				e.diagnostics.Add(diagnostics.DeclarationOutsideRule(s.Loc(), s.Property))
				continue
			}
			decl := &ast.Declaration{
				Meta:      s.Meta,
				Property:  s.Property,
				Value:     e.substitute(s.Value, sc, s.Loc()),
				Important: s.Important,
			}
			decl.SetHoistable(!f.inRuleset)
			out.Append(decl)
		case *ast.Comment:
			comment := &ast.Comment{Meta: s.Meta, Text: s.Text}
			comment.SetHoistable(!f.inRuleset)
			out.Append(comment)
		case *ast.Ruleset:
			out.Append(e.expandRuleset(s, f, sc))
		case *ast.MediaBlock:
			out.Append(e.expandMedia(s, f, sc))
		case *ast.AtRule:
			out.Append(e.expandAtRule(s, f, sc))
		}
	}
}

func (e *Expander) declareVariable(v *ast.VariableDecl, sc *scope) {
	if v.Default {
		if _, ok := sc.lookup(v.Name); ok {
			return
		}
	}
	sc.assign(v.Name, e.substitute(v.Value, sc, v.Loc()))
}

func (e *Expander) expandRuleset(r *ast.Ruleset, f frame, sc *scope) *ast.Ruleset {
	if f.selector == nil && r.Selector.HasParentRef() {
		e.diagnostics.Add(diagnostics.ParentSelectorAtRoot(r.Loc(), r.Selector.String()))
	}
	if r.Block.Len() == 0 {
		e.diagnostics.Add(diagnostics.EmptyRule(r.Loc(), r.Selector.String()))
	}

	resolved := r.Selector.Resolve(f.selector)

	inner := frame{
		selector:  resolved,
		inRuleset: true,
		container: true,
		media:     f.media,
	}

	out := &ast.Ruleset{
		Meta:     r.Meta,
		Selector: resolved.WithoutPlaceholders(),
		Block:    e.expandBlock(r.Block, inner, sc),
	}
	out.SetHoistable(!f.inRuleset)
	return out
}

func (e *Expander) expandMedia(m *ast.MediaBlock, f frame, sc *scope) *ast.MediaBlock {
	chain := append(f.media[:len(f.media):len(f.media)], m)
	if len(chain) > 1 {
		for _, enclosing := range chain {
			if len(enclosing.Queries) != 1 {
				e.diagnostics.Add(diagnostics.NestedMediaQueryList(m.Loc(), chain[0].Loc()))
				break
			}
		}
	}

	queries := m.Queries.Clone()
	for _, q := range queries {
		for i := range q.Expressions {
			q.Expressions[i].Value = e.substitute(q.Expressions[i].Value, sc, m.Loc())
		}
	}

	inner := frame{
		selector:  f.selector,
		inRuleset: f.inRuleset,
		container: true,
		media:     chain,
	}

	out := &ast.MediaBlock{
		Meta:    m.Meta,
		Queries: queries,
		Block:   e.expandBlock(m.Block, inner, sc),
	}
	if f.selector != nil {
		out.Selector = f.selector.WithoutPlaceholders()
	}
	out.SetHoistable(!f.inRuleset)
	return out
}

func (e *Expander) expandAtRule(a *ast.AtRule, f frame, sc *scope) *ast.AtRule {
	out := &ast.AtRule{
		Meta:    a.Meta,
		Keyword: a.Keyword,
		Prelude: e.substitute(a.Prelude, sc, a.Loc()),
	}

	if a.Block == nil {
		out.SetHoistable(true)
		return out
	}

	inner := frame{
		selector:  f.selector,
		inRuleset: f.inRuleset,
		container: true,
	}
	out.Block = e.expandBlock(a.Block, inner, sc)
	out.SetHoistable(!f.inRuleset)
	return out
}

// inline expands the root statements of every imported module in place of
// the @import, in the importing context.
func (e *Expander) inline(out *ast.Block, imp *ast.Import, f frame, sc *scope) {
	if len(imp.Resolved) != len(imp.Paths) {
		e.diagnostics.Add(
			diagnostics.NewError("import of "+strings.Join(imp.Paths, ", ")+" was not resolved").
				WithCode(diagnostics.ErrImportNotExpanded).
				WithPrimaryLabel(imp.Loc(), "unresolved import"),
		)
		return
	}

	for i, key := range imp.Resolved {
		if e.importing[key] {
			e.diagnostics.Add(diagnostics.CyclicImport(imp.Loc(), imp.Paths[i]+" imports itself"))
			continue
		}
		sheet, ok := e.modules.Module(key)
		if !ok || sheet.Root == nil {
			e.diagnostics.Add(diagnostics.ModuleNotFound(imp.Loc(), imp.Paths[i]))
			continue
		}

		e.importing[key] = true
		// imported variables are visible to the importer
		e.expandInto(out, sheet.Root, f, sc)
		delete(e.importing, key)
	}
}
