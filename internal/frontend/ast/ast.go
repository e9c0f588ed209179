package ast

import (
	"stylec/internal/source"
)

// Node is the base interface for all AST nodes
type Node interface {
	INode()
	Loc() *source.Location
}

// Statement is one entry of a Block. The set of statement kinds is closed:
// Declaration, AtRule, Ruleset, MediaBlock, Comment, Import, VariableDecl.
type Statement interface {
	Node
	Stmt()
	IsHoistable() bool
	SetHoistable(bool)
}

// HasBlock is implemented by statements that own exactly one child block.
type HasBlock interface {
	Statement
	ChildBlock() *Block
	// WithBody returns a new node with the same invariant fields and body as
	// its child block. The receiver is left untouched.
	WithBody(body *Block) HasBlock
}

// AsHasBlock reports whether stmt owns a child block.
// An AtRule qualifies only when it has a body.
func AsHasBlock(stmt Statement) (HasBlock, bool) {
	switch s := stmt.(type) {
	case *Ruleset:
		return s, true
	case *MediaBlock:
		return s, true
	case *AtRule:
		if s.Block != nil {
			return s, true
		}
	}
	return nil, false
}

// Meta is embedded in every statement
type Meta struct {
	source.Location
	// Hoistable statements are exempt from selector-emptiness suppression
	// inside a media block. Set by the expander.
	Hoistable bool `json:",omitempty"`
}

func (m *Meta) Loc() *source.Location  { return &m.Location }
func (m *Meta) IsHoistable() bool      { return m.Hoistable }
func (m *Meta) SetHoistable(flag bool) { m.Hoistable = flag }
