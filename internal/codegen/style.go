package codegen

import (
	"fmt"
	"strings"
)

// Style selects the output formatting
type Style int

const (
	Nested Style = iota
	Expanded
	Compact
	Compressed
)

var styleNames = map[Style]string{
	Nested:     "nested",
	Expanded:   "expanded",
	Compact:    "compact",
	Compressed: "compressed",
}

func (s Style) String() string {
	if name, ok := styleNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Style(%d)", int(s))
}

// ParseStyle maps a style name to its Style. The empty string is Nested.
func ParseStyle(name string) (Style, error) {
	if name == "" {
		return Nested, nil
	}
	for style, n := range styleNames {
		if strings.EqualFold(n, name) {
			return style, nil
		}
	}
	return Nested, fmt.Errorf("unknown output style %q (want nested, expanded, compact or compressed)", name)
}
