package ast

import "stylec/internal/source"

// Block is an ordered sequence of statements, the body of the document or
// of a container. Emission order is statement order.
type Block struct {
	Statements []Statement
	Root       bool // document root
	source.Location
}

func (b *Block) INode()                {} // Implements Node interface
func (b *Block) Loc() *source.Location { return &b.Location }

// NewBlock allocates an empty block with room for capacity statements.
func NewBlock(loc source.Location, capacity int, root bool) *Block {
	return &Block{
		Statements: make([]Statement, 0, capacity),
		Root:       root,
		Location:   loc,
	}
}

// Append moves stmts to the end of the block.
func (b *Block) Append(stmts ...Statement) {
	b.Statements = append(b.Statements, stmts...)
}

func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Statements)
}

// Ruleset is a selector-guarded container, e.g. `.a, .b { ... }`
type Ruleset struct {
	Meta
	Selector *SelectorList
	Block    *Block
}

func (r *Ruleset) INode()             {} // Implements Node interface
func (r *Ruleset) Stmt()              {} // Stmt is a marker interface for all statements
func (r *Ruleset) ChildBlock() *Block { return r.Block }

func (r *Ruleset) WithBody(body *Block) HasBlock {
	return &Ruleset{
		Meta:     r.Meta,
		Selector: r.Selector.Clone(),
		Block:    body,
	}
}

// MediaBlock is an @media container. Selector is the enclosing selector
// context and stays nil for media blocks with no enclosing ruleset.
type MediaBlock struct {
	Meta
	Selector *SelectorList `json:",omitempty"`
	Queries  MediaQueryList
	Block    *Block
}

func (m *MediaBlock) INode()             {} // Implements Node interface
func (m *MediaBlock) Stmt()              {} // Stmt is a marker interface for all statements
func (m *MediaBlock) ChildBlock() *Block { return m.Block }

func (m *MediaBlock) WithBody(body *Block) HasBlock {
	return &MediaBlock{
		Meta:     m.Meta,
		Selector: m.Selector.Clone(),
		Queries:  m.Queries.Clone(),
		Block:    body,
	}
}

// AtRule is any at-rule other than @media and @import, e.g. `@supports (...) { }`
// or `@charset "utf-8";`. Block is nil for body-less rules.
type AtRule struct {
	Meta
	Keyword string // without the '@'
	Prelude string
	Block   *Block `json:",omitempty"`
}

func (a *AtRule) INode()             {} // Implements Node interface
func (a *AtRule) Stmt()              {} // Stmt is a marker interface for all statements
func (a *AtRule) ChildBlock() *Block { return a.Block }

func (a *AtRule) WithBody(body *Block) HasBlock {
	return &AtRule{
		Meta:    a.Meta,
		Keyword: a.Keyword,
		Prelude: a.Prelude,
		Block:   body,
	}
}
