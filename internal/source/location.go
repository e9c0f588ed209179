package source

import (
	"fmt"
	"strings"
)

// Location represents a span of source code with start and end positions.
// End is exclusive.
type Location struct {
	Start    *Position
	End      *Position
	Filename *string
}

// NewLocation creates a new Location with the given start and end positions
func NewLocation(filename *string, start, end *Position) *Location {
	return &Location{
		Filename: filename,
		Start:    start,
		End:      end,
	}
}

// Span builds a Location covering from the start of first to the end of last.
func Span(first, last *Location) Location {
	if first == nil {
		if last == nil {
			return Location{}
		}
		return *last
	}
	if last == nil {
		return *first
	}
	return Location{Filename: first.Filename, Start: first.Start, End: last.End}
}

// File returns the file name of the location, or "" when unknown.
func (l *Location) File() string {
	if l == nil || l.Filename == nil {
		return ""
	}
	return *l.Filename
}

// IsValid reports whether both ends of the span are known.
func (l *Location) IsValid() bool {
	return l != nil && l.Start != nil && l.End != nil
}

// Contains checks if the given position is within this location
func (l *Location) Contains(pos *Position) bool {
	if !l.IsValid() || pos == nil {
		return false
	}
	if l.Start.Line > pos.Line || (l.Start.Line == pos.Line && l.Start.Column > pos.Column) {
		return false
	}
	if l.End.Line < pos.Line || (l.End.Line == pos.Line && l.End.Column < pos.Column) {
		return false
	}
	return true
}

func (l *Location) String() string {
	if !l.IsValid() {
		return "location(unknown)"
	}

	return fmt.Sprintf("location(%d:%d - %d:%d)", l.Start.Line, l.Start.Column, l.End.Line, l.End.Column)
}

// TextIn extracts the text covered by this location from content.
// Returns empty string if the location is invalid or out of range.
func (l *Location) TextIn(content string) string {
	if !l.IsValid() {
		return ""
	}
	start, end := l.Start.Index, l.End.Index
	if start < 0 || end > len(content) || start > end {
		return ""
	}
	return content[start:end]
}

// SplitLines splits content into lines without their terminators.
func SplitLines(content string) []string {
	if content == "" {
		return []string{}
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
