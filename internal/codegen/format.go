package codegen

import "strings"

const indentUnit = "  "

// formatExpanded puts every declaration on its own line and separates
// top-level blocks with a blank line.
func formatExpanded(nodes []*cssNode) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		writeExpanded(&b, n, "")
	}
	return b.String()
}

func writeExpanded(b *strings.Builder, n *cssNode, indent string) {
	if n.comment != "" {
		b.WriteString(indent + n.comment + "\n")
	}
	if n.isLine() {
		for _, line := range n.lines {
			b.WriteString(indent + line + "\n")
		}
		return
	}
	b.WriteString(indent + n.prelude + " {\n")
	for _, line := range n.lines {
		b.WriteString(indent + indentUnit + line + "\n")
	}
	for _, child := range n.children {
		writeExpanded(b, child, indent+indentUnit)
	}
	b.WriteString(indent + "}\n")
}

// formatNested indents flattened rules by their source depth and closes
// each block on its last line.
func formatNested(nodes []*cssNode) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 && n.nest == 0 {
			b.WriteByte('\n')
		}
		for _, line := range nestedLines(n, "") {
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

func nestedLines(n *cssNode, base string) []string {
	indent := base + strings.Repeat(indentUnit, n.nest)

	var lines []string
	if n.comment != "" {
		lines = append(lines, indent+n.comment)
	}
	if n.isLine() {
		for _, line := range n.lines {
			lines = append(lines, indent+line)
		}
		return lines
	}

	header := len(lines)
	lines = append(lines, indent+n.prelude+" {")
	for _, line := range n.lines {
		lines = append(lines, indent+indentUnit+line)
	}
	for _, child := range n.children {
		lines = append(lines, nestedLines(child, indent+indentUnit)...)
	}
	if len(lines) == header+1 {
		lines[header] += " }"
	} else {
		lines[len(lines)-1] += " }"
	}
	return lines
}

// formatCompact puts each top-level block on one line.
func formatCompact(nodes []*cssNode) string {
	var b strings.Builder
	for i, n := range nodes {
		if i > 0 {
			b.WriteByte('\n')
		}
		if n.comment != "" {
			b.WriteString(n.comment + "\n")
		}
		b.WriteString(compactText(n) + "\n")
	}
	return b.String()
}

func compactText(n *cssNode) string {
	if n.isLine() {
		return strings.Join(n.lines, " ")
	}
	parts := append([]string(nil), n.lines...)
	for _, child := range n.children {
		parts = append(parts, compactText(child))
	}
	return n.prelude + " { " + strings.Join(parts, " ") + " }"
}
