package ast

import (
	"fmt"
	"io"
	"strings"
)

// Inspect walks the tree rooted at block depth first, calling fn for each
// statement with its nesting depth. Children are skipped when fn returns false.
func Inspect(block *Block, fn func(stmt Statement, depth int) bool) {
	inspect(block, 0, fn)
}

func inspect(block *Block, depth int, fn func(Statement, int) bool) {
	if block == nil {
		return
	}
	for _, stmt := range block.Statements {
		if !fn(stmt, depth) {
			continue
		}
		if hb, ok := AsHasBlock(stmt); ok {
			inspect(hb.ChildBlock(), depth+1, fn)
		}
	}
}

// Dump writes an indented outline of the tree, one statement per line.
func Dump(w io.Writer, block *Block) {
	if block == nil {
		fmt.Fprintln(w, "<nil>")
		return
	}
	if block.Root {
		fmt.Fprintln(w, "Root")
	} else {
		fmt.Fprintln(w, "Block")
	}
	Inspect(block, func(stmt Statement, depth int) bool {
		fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth+1), describe(stmt))
		return true
	})
}

func describe(stmt Statement) string {
	hoist := ""
	if stmt.IsHoistable() {
		hoist = " [hoistable]"
	}
	switch s := stmt.(type) {
	case *Declaration:
		important := ""
		if s.Important {
			important = " !important"
		}
		return fmt.Sprintf("Declaration %s: %s%s%s", s.Property, s.Value, important, hoist)
	case *Ruleset:
		return fmt.Sprintf("Ruleset %q%s", s.Selector.String(), hoist)
	case *MediaBlock:
		if s.Selector == nil {
			return fmt.Sprintf("MediaBlock %q%s", s.Queries.String(), hoist)
		}
		return fmt.Sprintf("MediaBlock %q selector=%q%s", s.Queries.String(), s.Selector.String(), hoist)
	case *AtRule:
		return fmt.Sprintf("AtRule @%s %s%s", s.Keyword, s.Prelude, hoist)
	case *Comment:
		return fmt.Sprintf("Comment %s%s", s.Text, hoist)
	case *Import:
		return fmt.Sprintf("Import %q", s.Paths)
	case *VariableDecl:
		return fmt.Sprintf("VariableDecl $%s: %s", s.Name, s.Value)
	default:
		return fmt.Sprintf("%T", stmt)
	}
}
