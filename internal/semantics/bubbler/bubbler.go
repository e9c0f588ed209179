// Package bubbler hoists nested @media blocks out of rule bodies.
//
// A media block nested inside rulesets (and other media blocks) is moved to
// sit right after the top-level statement it was found in, with its
// condition combined with every enclosing media condition. The input tree
// is consumed: its leaves are moved into the result, containers are rebuilt.
package bubbler

import (
	"fmt"

	"stylec/internal/frontend/ast"
)

// BubbleMediaQueriesTopLevel returns a new block in which every media
// block reachable through rulesets has been relocated next to the top-level
// statement that contained it. Containers other than rulesets and media
// blocks are a boundary: their bodies are bubbled on their own.
//
// The caller must not use block afterwards.
func BubbleMediaQueriesTopLevel(block *ast.Block) *ast.Block {
	b := &bubbler{seen: make(map[*ast.Block]struct{})}
	return b.topLevel(block)
}

type bubbler struct {
	seen map[*ast.Block]struct{}
}

// conditions holds the query lists of the enclosing media blocks,
// outermost first.
type conditions []ast.MediaQueryList

func (c *conditions) push(q ast.MediaQueryList) { *c = append(*c, q) }
func (c *conditions) pop()                      { *c = (*c)[:len(*c)-1] }

// visit guards against walking the same block twice, which happens only
// for aliased or cyclic trees.
func (b *bubbler) visit(block *ast.Block) {
	if _, ok := b.seen[block]; ok {
		panic(fmt.Sprintf("INTERNAL COMPILER ERROR: block at %s reached twice while bubbling media queries", block.Loc()))
	}
	b.seen[block] = struct{}{}
}

func (b *bubbler) topLevel(block *ast.Block) *ast.Block {
	if block == nil {
		return nil
	}
	b.visit(block)

	out := ast.NewBlock(block.Location, len(block.Statements), block.Root)

	for _, stmt := range block.Statements {
		hb, ok := ast.AsHasBlock(stmt)
		if !ok {
			out.Append(stmt)
			continue
		}

		var (
			stack   conditions
			bubbled []ast.Statement
		)
		if media, isMedia := stmt.(*ast.MediaBlock); isMedia {
			stack.push(media.Queries)
		}

		body := b.inner(hb.ChildBlock(), &stack, &bubbled)
		out.Append(hb.WithBody(body))
		out.Append(bubbled...)
	}

	return out
}

func (b *bubbler) inner(block *ast.Block, stack *conditions, bubbled *[]ast.Statement) *ast.Block {
	if block == nil {
		return nil
	}
	b.visit(block)

	out := ast.NewBlock(block.Location, len(block.Statements), block.Root)

	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.MediaBlock:
			stack.push(s.Queries)
			combined := CombineMediaQueries(*stack)
			body := b.inner(s.Block, stack, bubbled)
			stack.pop()

			*bubbled = append(*bubbled, &ast.MediaBlock{
				Meta:     s.Meta,
				Selector: s.Selector.Clone(),
				Queries:  combined,
				Block:    body,
			})
		case *ast.Ruleset:
			out.Append(s.WithBody(b.inner(s.Block, stack, bubbled)))
		default:
			if hb, ok := ast.AsHasBlock(stmt); ok {
				out.Append(hb.WithBody(b.topLevel(hb.ChildBlock())))
				continue
			}
			out.Append(stmt)
		}
	}

	return out
}

// CombineMediaQueries ANDs the conditions on stack (outermost first) into
// a fresh single-entry list. Negation and restriction come from the
// outermost query, as does the media type; when the outermost query has no
// type, the first type found walking inwards is used. Expressions are
// concatenated outer to inner.
//
// A stack of one list is returned as a copy, whatever its length. Deeper
// stacks must hold exactly one query per level.
func CombineMediaQueries(stack []ast.MediaQueryList) ast.MediaQueryList {
	if len(stack) == 0 {
		panic("INTERNAL COMPILER ERROR: combining an empty media condition stack")
	}
	if len(stack) == 1 {
		return stack[0].Clone()
	}

	for depth, list := range stack {
		if len(list) != 1 {
			panic(fmt.Sprintf("INTERNAL COMPILER ERROR: media query list %q at depth %d has %d entries, want exactly 1", list.String(), depth, len(list)))
		}
	}

	outer := stack[0][0]
	combined := &ast.MediaQuery{
		Type:       outer.Type,
		Negated:    outer.Negated,
		Restricted: outer.Restricted,
	}

	for _, list := range stack {
		query := list[0]
		if combined.Type == "" {
			combined.Type = query.Type
		}
		combined.Expressions = append(combined.Expressions, query.Expressions...)
	}

	return ast.MediaQueryList{combined}
}
