package python

import (
	"regexp"
	"strings"
	"unicode"
)

const indentUnit = "    "

var (
	// @see pkg.Type.method() -> :meth: reference
	seeMethodPattern = regexp.MustCompile(`(?i)@see ((?:\w+\.)*)(\w+\.)(\w+)\(\)`)

	// @see pkg.Type -> :class: reference
	seeClassPattern = regexp.MustCompile(`(?i)@see ((?:\w+\.)*)(\w+)`)

	// a seealso block directly after a :class: line joins the previous block
	seeAlsoMergePattern = regexp.MustCompile(`(?i)(:class:.*)\n\s*\.\. seealso::\n`)
)

func indent(depth int) string {
	return strings.Repeat(indentUnit, depth)
}

// translateComment converts a proto leading comment into reStructuredText
// lines indented to depth. It returns "" when nothing but whitespace remains.
func translateComment(raw string, depth int) string {
	if raw == "" {
		return ""
	}

	prefix := indent(depth)
	refIndent := indent(depth + 1)

	lines := strings.Split(stripMarkers(raw), "\n")
	for i, line := range lines {
		lines[i] = prefix + strings.TrimPrefix(line, " ")
	}
	text := strings.Join(lines, "\n")

	text = seeMethodPattern.ReplaceAllString(text,
		".. seealso::\n"+refIndent+":meth:`${2}${3} <${1}${2}${3}>`")
	text = seeClassPattern.ReplaceAllString(text,
		".. seealso::\n"+refIndent+":class:`${2} <${1}${2}>`")
	text = seeAlsoMergePattern.ReplaceAllString(text, "${1},\n")

	if strings.TrimSpace(text) == "" {
		return ""
	}
	return text
}

// stripMarkers removes the block comment markers protoc leaves in place: a
// leading "*" followed by a space or newline, a closing "*/" and one trailing
// newline. Text that merely starts with "*" is kept.
func stripMarkers(raw string) string {
	text := strings.TrimSuffix(raw, "\n")

	switch {
	case text == "*":
		text = ""
	case strings.HasPrefix(text, "*\n"):
		text = text[2:]
	case strings.HasPrefix(text, "* "):
		text = text[1:]
	}

	trimmed := strings.TrimRightFunc(text, unicode.IsSpace)
	if strings.HasSuffix(trimmed, "*/") {
		text = strings.TrimSuffix(trimmed, "*/")
	}

	return text
}

// docstring renders a comment as a docstring statement at depth, followed by
// a blank line
func docstring(raw string, depth int) string {
	text := translateComment(raw, depth)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	prefix := indent(depth)
	if strings.Contains(trimmed, "\n") {
		return prefix + `"""` + "\n" + text + "\n" + prefix + `"""` + "\n\n"
	}
	return prefix + `"""` + trimmed + `"""` + "\n\n"
}

// inlineDocstring renders a comment as a string literal placed after an enum
// value on the same line
func inlineDocstring(raw string, depth int) string {
	text := strings.TrimLeftFunc(translateComment(raw, depth), unicode.IsSpace)
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	if !strings.Contains(trimmed, "\n") {
		return `"""` + trimmed + `"""`
	}
	return `"""` + text + "\n" + indent(depth) + `"""`
}
