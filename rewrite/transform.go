package rewrite

import (
	"strings"

	"github.com/aioutlet/asyncwrap/scanner"
)

// Transform rewrites every matching handler in doc and returns the new
// document text. It is a pure single pass: matches are substituted in
// document order and every byte outside a match span is copied verbatim.
// A document with no matches comes back unchanged.
func Transform(doc string) string {
	sc := scanner.NewScanner(doc)

	var out strings.Builder
	last := 0
	for {
		m, ok := sc.Next()
		if !ok {
			break
		}
		out.WriteString(doc[last:m.Start])
		out.WriteString(render(m))
		last = m.End
	}
	if last == 0 {
		return doc
	}
	out.WriteString(doc[last:])
	return out.String()
}

// render composes the replacement text for one match: wrapped declaration,
// the trace-extraction statement if present, the de-indented body, and the
// wrapper's closing tokens.
func render(m scanner.Match) string {
	var b strings.Builder
	b.WriteString(WrapDeclaration(m.Decl, m.AsyncOff))
	if m.Trace != "" {
		b.WriteByte('\n')
		b.WriteString(m.Trace)
	}
	body := Dedent(m.Body)
	if body != "" && !strings.HasPrefix(body, "\n") {
		b.WriteByte('\n')
	}
	b.WriteString(body)
	b.WriteString("\n});")
	return b.String()
}
