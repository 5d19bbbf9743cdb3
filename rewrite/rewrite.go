// Package rewrite turns matched try/catch handlers into asyncHandler-wrapped
// replacements and substitutes them back into the document.
package rewrite

import "strings"

// spaceUnit is one indentation level in a space-indented body. Bodies
// indented with tabs lose a single tab instead.
const spaceUnit = "    "

// Dedent removes one indentation level from every line of body
// independently, then trims trailing whitespace from the body as a whole.
// A line that does not carry the full unit prefix passes through unchanged;
// content beyond the stripped prefix is copied verbatim.
func Dedent(body string) string {
	unit := indentUnit(body)
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if strings.HasPrefix(line, unit) {
			lines[i] = line[len(unit):]
		}
	}
	return strings.TrimRight(strings.Join(lines, "\n"), " \t\r\n")
}

// indentUnit detects the body's leading-whitespace unit from its first
// indented line: one tab for tab-indented bodies, four spaces otherwise.
func indentUnit(body string) string {
	for _, line := range strings.Split(body, "\n") {
		if strings.TrimLeft(line, " \t") == "" {
			continue // blank line, carries no signal
		}
		if strings.HasPrefix(line, "\t") {
			return "\t"
		}
		return spaceUnit
	}
	return spaceUnit
}

// WrapDeclaration rewrites the declaration prefix so the exported const is
// assigned the result of asyncHandler(...) instead of the bare async arrow
// function. asyncOffset is the offset of the async keyword within decl; the
// handler name and parameter list are preserved byte-for-byte.
func WrapDeclaration(decl string, asyncOffset int) string {
	return decl[:asyncOffset] + "asyncHandler(" + decl[asyncOffset:]
}
