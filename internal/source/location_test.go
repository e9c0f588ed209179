package source

import (
	"testing"
)

func TestPositionAdvance(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		expect Position
	}{
		{name: "empty", text: "", expect: Position{Line: 1, Column: 1, Index: 0}},
		{name: "single line", text: ".a {", expect: Position{Line: 1, Column: 5, Index: 4}},
		{name: "newline", text: ".a {\n  color", expect: Position{Line: 2, Column: 8, Index: 12}},
		{name: "multibyte rune", text: "é", expect: Position{Line: 1, Column: 2, Index: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := StartPosition()
			pos.Advance(tt.text)
			if pos != tt.expect {
				t.Errorf("Advance(%q) = %+v, want %+v", tt.text, pos, tt.expect)
			}
		})
	}
}

func TestLocationTextIn(t *testing.T) {
	content := ".a {\n  color: red;\n}"
	file := "test.scss"

	start := StartPosition()
	start.Advance(".a {\n  ")
	end := start
	end.Advance("color")

	loc := NewLocation(&file, &start, &end)
	if got := loc.TextIn(content); got != "color" {
		t.Errorf("TextIn = %q, want %q", got, "color")
	}
	if loc.File() != file {
		t.Errorf("File() = %q, want %q", loc.File(), file)
	}

	var unknown *Location
	if unknown.TextIn(content) != "" {
		t.Error("expected empty text for nil location")
	}
	if unknown.String() != "location(unknown)" {
		t.Errorf("unexpected String() for nil location: %q", unknown.String())
	}
}

func TestLocationContains(t *testing.T) {
	loc := NewLocation(nil, &Position{Line: 2, Column: 3}, &Position{Line: 4, Column: 1})

	if !loc.Contains(&Position{Line: 3, Column: 10}) {
		t.Error("expected middle line to be contained")
	}
	if loc.Contains(&Position{Line: 2, Column: 2}) {
		t.Error("expected column before start to be excluded")
	}
	if loc.Contains(&Position{Line: 5, Column: 1}) {
		t.Error("expected line after end to be excluded")
	}
}

func TestSplitLines(t *testing.T) {
	lines := SplitLines("a\r\nb\n\nc\n")
	want := []string{"a", "b", "", "c"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d", len(lines), len(want))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}
