// Package colors provides the terminal palette used by the compiler's
// human-facing output. Colors are disabled automatically when the output
// is not a terminal or NO_COLOR is set.
package colors

import "github.com/fatih/color"

// COLOR is a terminal color with print helpers.
type COLOR struct {
	c *color.Color
}

func newColor(attrs ...color.Attribute) COLOR {
	return COLOR{c: color.New(attrs...)}
}

var (
	RED    = newColor(color.FgRed)
	GREEN  = newColor(color.FgGreen)
	YELLOW = newColor(color.FgYellow)
	ORANGE = newColor(color.FgHiYellow)
	BLUE   = newColor(color.FgBlue)
	PURPLE = newColor(color.FgMagenta)
	CYAN   = newColor(color.FgCyan)
	GREY   = newColor(color.FgHiBlack)
	WHITE  = newColor(color.FgWhite)

	BOLD_RED    = newColor(color.FgRed, color.Bold)
	BOLD_YELLOW = newColor(color.FgYellow, color.Bold)
	BOLD_CYAN   = newColor(color.FgCyan, color.Bold)
	BOLD_PURPLE = newColor(color.FgMagenta, color.Bold)
	BOLD_GREEN  = newColor(color.FgGreen, color.Bold)
)

// SetEnabled forces colored output on or off, overriding terminal detection.
func SetEnabled(enabled bool) {
	color.NoColor = !enabled
}

// Enabled reports whether colored output is currently produced.
func Enabled() bool {
	return !color.NoColor
}
