// Package printable decides whether a node would produce any output when
// emitted. Every function is pure and returns false for nil input.
package printable

import "stylec/internal/frontend/ast"

// Statement dispatches on the statement kind.
// Imports and variable declarations never print on their own.
func Statement(stmt ast.Statement) bool {
	switch s := stmt.(type) {
	case nil:
		return false
	case *ast.Ruleset:
		return Ruleset(s)
	case *ast.MediaBlock:
		return MediaBlock(s)
	case *ast.Import, *ast.VariableDecl:
		return false
	}
	if hb, ok := ast.AsHasBlock(stmt); ok {
		return Block(hb.ChildBlock())
	}
	return true
}

// Block reports whether any direct statement of b prints. Declarations and
// at-rules always do; comments alone do not.
func Block(b *ast.Block) bool {
	if b == nil {
		return false
	}
	for _, stmt := range b.Statements {
		switch s := stmt.(type) {
		case *ast.Declaration, *ast.AtRule:
			return true
		case *ast.Ruleset:
			if Ruleset(s) {
				return true
			}
		case *ast.MediaBlock:
			if MediaBlock(s) {
				return true
			}
		default:
			if hb, ok := ast.AsHasBlock(stmt); ok && Block(hb.ChildBlock()) {
				return true
			}
		}
	}
	return false
}

// Ruleset reports whether r prints. A ruleset whose selector list is
// empty never prints.
func Ruleset(r *ast.Ruleset) bool {
	if r == nil || r.Selector.Len() == 0 {
		return false
	}
	return contributes(r.Block, func(ast.Statement) bool { return true })
}

// MediaBlock reports whether m prints. Non-hoistable leaves only count when
// m has no selector context or a non-empty one: content whose selector was
// stripped must not force the block out.
func MediaBlock(m *ast.MediaBlock) bool {
	if m == nil {
		return false
	}
	selectorOK := m.Selector == nil || m.Selector.Len() > 0
	return contributes(m.Block, func(stmt ast.Statement) bool {
		return stmt.IsHoistable() || selectorOK
	})
}

// contributes scans body in order. Containers count through their child
// block, leaves count when admit accepts them.
func contributes(body *ast.Block, admit func(ast.Statement) bool) bool {
	if body == nil {
		return false
	}
	for _, stmt := range body.Statements {
		if hb, ok := ast.AsHasBlock(stmt); ok {
			if Block(hb.ChildBlock()) {
				return true
			}
			continue
		}
		if admit(stmt) {
			return true
		}
	}
	return false
}
