package source

import "unicode/utf8"

// Position represents a specific location in the source code with line, column, and index information.
type Position struct {
	Line   int // Line number in the source code.
	Column int // Column number in the source code (counted in runes).
	Index  int // Byte offset in the source code.
}

// StartPosition is where every source file begins.
func StartPosition() Position {
	return Position{Line: 1, Column: 1, Index: 0}
}

// Advance updates the Position by advancing it over the provided text.
// Newlines move to the first column of the next line; every other rune
// advances the column by one. The index grows by the byte length of each rune.
func (p *Position) Advance(toSkip string) *Position {
	for len(toSkip) > 0 {
		r, size := utf8.DecodeRuneInString(toSkip)
		toSkip = toSkip[size:]
		p.Index += size
		if r == '\n' {
			p.Line++
			p.Column = 1
			continue
		}
		p.Column++
	}
	return p
}

// Before reports whether p comes strictly before other.
func (p Position) Before(other Position) bool {
	if p.Line != other.Line {
		return p.Line < other.Line
	}
	return p.Column < other.Column
}
