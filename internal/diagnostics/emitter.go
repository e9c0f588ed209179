package diagnostics

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"stylec/colors"
	"stylec/internal/source"
)

const (
	STR_MULTIPLIER = "%*d | "
	LINE_POS       = "%s--> %s:%d:%d\n"
)

// SourceCache caches source file contents for error reporting.
// Sources registered with AddSource take precedence over the file system.
type SourceCache struct {
	mu    sync.Mutex
	files map[string][]string
}

func NewSourceCache() *SourceCache {
	return &SourceCache{
		files: make(map[string][]string),
	}
}

// AddSource registers in-memory content for a path
func (sc *SourceCache) AddSource(filepath, content string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.files[filepath] = source.SplitLines(content)
}

// GetLine retrieves a specific line (1-based) from a source file
func (sc *SourceCache) GetLine(filepath string, line int) (string, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	lines, ok := sc.files[filepath]
	if !ok {
		data, err := os.ReadFile(filepath)
		if err != nil {
			return "", err
		}
		lines = source.SplitLines(string(data))
		sc.files[filepath] = lines
	}

	if line > 0 && line <= len(lines) {
		return lines[line-1], nil
	}
	return "", fmt.Errorf("line %d out of range", line)
}

// Emitter renders diagnostics in a rustc-like layout
type Emitter struct {
	cache  *SourceCache
	writer io.Writer
	width  int // gutter width for the diagnostic being rendered
}

// NewEmitter creates an emitter that writes to a specific writer
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{
		cache:  NewSourceCache(),
		writer: w,
	}
}

func newEmitterWithCache(w io.Writer, cache *SourceCache) *Emitter {
	return &Emitter{cache: cache, writer: w}
}

func (e *Emitter) gutterWidth(diag *Diagnostic) int {
	maxLine := 0
	for _, label := range diag.Labels {
		if label.Location == nil || label.Location.Start == nil {
			continue
		}
		if label.Location.Start.Line > maxLine {
			maxLine = label.Location.Start.Line
		}
	}
	if maxLine == 0 {
		return 1
	}
	return len(fmt.Sprintf("%d", maxLine))
}

func (e *Emitter) Emit(diag *Diagnostic) {
	e.width = e.gutterWidth(diag)

	e.printHeader(diag)

	// primary first, then secondaries in insertion order
	for _, label := range diag.Labels {
		if label.Style == Primary {
			e.printLabel(diag.FilePath, label, diag.Severity)
		}
	}
	for _, label := range diag.Labels {
		if label.Style == Secondary {
			e.printLabel(label.Location.File(), label, diag.Severity)
		}
	}

	for _, note := range diag.Notes {
		e.printNote(note)
	}

	if diag.Help != "" {
		e.printHelp(diag.Help)
	}

	fmt.Fprintln(e.writer)
}

func (e *Emitter) printHeader(diag *Diagnostic) {
	var color colors.COLOR

	switch diag.Severity {
	case Error:
		color = colors.BOLD_RED
	case Warning:
		color = colors.BOLD_YELLOW
	case Info:
		color = colors.BOLD_CYAN
	default:
		color = colors.BOLD_PURPLE
	}

	color.Fprint(e.writer, diag.Severity.String())
	if diag.Code != "" {
		fmt.Fprintf(e.writer, "[%s]", diag.Code)
	}
	fmt.Fprint(e.writer, ": ")
	color.Fprintln(e.writer, diag.Message)
}

func (e *Emitter) printLabel(filepath string, label Label, severity Severity) {
	if label.Location == nil || label.Location.Start == nil {
		return
	}
	if filepath == "" {
		filepath = label.Location.File()
	}

	start := label.Location.Start
	pad := strings.Repeat(" ", e.width)

	colors.BLUE.Fprintf(e.writer, LINE_POS, pad, filepath, start.Line, start.Column)
	colors.GREY.Fprintln(e.writer, pad+" |")

	sourceLine, err := e.cache.GetLine(filepath, start.Line)
	if err != nil {
		// no source available, the message alone still helps
		colors.GREY.Fprint(e.writer, pad+" = ")
		fmt.Fprintln(e.writer, label.Message)
		return
	}

	colors.GREY.Fprintf(e.writer, STR_MULTIPLIER, e.width, start.Line)
	fmt.Fprintln(e.writer, sourceLine)

	underline := e.underline(label, sourceLine)
	markColor := e.getSeverityColor(severity)
	if label.Style == Secondary {
		markColor = colors.BLUE
	}

	colors.GREY.Fprint(e.writer, pad+" | ")
	fmt.Fprint(e.writer, strings.Repeat(" ", start.Column-1))
	markColor.Fprint(e.writer, underline)
	if label.Message != "" {
		markColor.Fprintf(e.writer, " %s", label.Message)
	}
	fmt.Fprintln(e.writer)
}

// underline returns the caret run for a label, clipped to the source line.
func (e *Emitter) underline(label Label, sourceLine string) string {
	start := label.Location.Start
	end := label.Location.End

	lineLen := len([]rune(sourceLine))
	length := 1
	if end != nil && end.Line == start.Line && end.Column > start.Column {
		length = end.Column - start.Column
	} else if end != nil && end.Line > start.Line {
		length = lineLen - start.Column + 1
	}
	if start.Column-1+length > lineLen {
		length = lineLen - start.Column + 1
	}
	if length < 1 {
		length = 1
	}

	mark := "^"
	if label.Style == Secondary {
		mark = "-"
	}
	return strings.Repeat(mark, length)
}

func (e *Emitter) printNote(note Note) {
	fmt.Fprint(e.writer, strings.Repeat(" ", e.width+1))
	colors.CYAN.Fprint(e.writer, "= note: ")
	fmt.Fprintln(e.writer, note.Message)
}

func (e *Emitter) printHelp(help string) {
	fmt.Fprint(e.writer, strings.Repeat(" ", e.width+1))
	colors.GREEN.Fprint(e.writer, "= help: ")
	fmt.Fprintln(e.writer, help)
}

// getSeverityColor returns the color for a given severity
func (e *Emitter) getSeverityColor(severity Severity) colors.COLOR {
	switch severity {
	case Error:
		return colors.RED
	case Warning:
		return colors.YELLOW
	case Info:
		return colors.BLUE
	case Hint:
		return colors.PURPLE
	default:
		return colors.RED
	}
}
