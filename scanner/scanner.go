// Package scanner recognizes exported async request handlers whose whole
// body is a single try/catch block. It is a byte-oriented scanner over the
// document text, not a TypeScript parser: block boundaries are found with an
// explicit brace-depth counter, so a nested try/catch inside a handler body
// does not truncate the capture.
package scanner

import (
	"bytes"
	"strings"
)

// ASCII character lookup tables for fast classification
var (
	isSpace      [128]bool // Space and tab only, newlines are significant
	isDigit      [128]bool
	isIdentStart [128]bool
	isIdentPart  [128]bool
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)
		isSpace[i] = ch == ' ' || ch == '\t'
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '$'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

const (
	exportMarker = "export const "
	requestType  = "RequestWithTraceContext"
	responseType = "Response"
)

// Scanner produces Matches lazily, scanning the input once in document
// order. Each byte of the input belongs to at most one Match.
type Scanner struct {
	input    []byte
	position int

	// Debug (nil when disabled for zero allocation)
	debugLevel  DebugLevel
	debugEvents []DebugEvent
}

// NewScanner creates a new scanner instance with optional configuration
func NewScanner(input string, opts ...ScannerOpt) *Scanner {
	config := &scannerConfig{}
	for _, opt := range opts {
		opt(config)
	}

	s := &Scanner{debugLevel: config.debug}
	if config.debug > DebugOff {
		s.debugEvents = make([]DebugEvent, 0, 64)
	}
	s.Init([]byte(input))
	return s
}

// Init resets the scanner with new input (following Go scanner pattern)
func (s *Scanner) Init(input []byte) {
	s.input = input
	s.position = 0
	if s.debugLevel > DebugOff && s.debugEvents != nil {
		s.debugEvents = s.debugEvents[:0]
	}
}

// DebugEvents returns recorded debug events (development only)
func (s *Scanner) DebugEvents() []DebugEvent {
	if s.debugLevel == DebugOff || s.debugEvents == nil {
		return nil
	}
	result := make([]DebugEvent, len(s.debugEvents))
	copy(result, s.debugEvents)
	return result
}

// recordDebugEvent records debug events when debug tracing is enabled
func (s *Scanner) recordDebugEvent(event string, offset int, context string) {
	if s.debugLevel == DebugOff || s.debugEvents == nil {
		return
	}
	s.debugEvents = append(s.debugEvents, DebugEvent{Event: event, Offset: offset, Context: context})
}

// Next returns the next handler occurrence in document order. It returns
// false once the input is exhausted; the scan is not restartable except via
// Init. Zero matches over a whole document is not an error.
func (s *Scanner) Next() (Match, bool) {
	for s.position < len(s.input) {
		rel := bytes.Index(s.input[s.position:], []byte(exportMarker))
		if rel < 0 {
			break
		}
		start := s.position + rel
		s.recordDebugEvent("candidate", start, "")

		m, ok := s.matchHandler(start)
		if ok {
			s.recordDebugEvent("match", start, m.Name)
			s.position = m.End
			return m, true
		}

		// Not the shape we rewrite. Resume after this marker so later
		// candidates are still seen; the rejected text passes through
		// untouched.
		s.recordDebugEvent("reject", start, "")
		s.position = start + len(exportMarker)
	}
	s.position = len(s.input)
	s.recordDebugEvent("eof", len(s.input), "")
	return Match{}, false
}

// matchHandler tries to recognize the full handler shape starting at the
// export marker. Any failed expectation abandons the candidate.
func (s *Scanner) matchHandler(start int) (Match, bool) {
	pos := start + len(exportMarker)

	name, pos, ok := s.ident(pos)
	if !ok {
		return Match{}, false
	}

	pos = s.skipSpaces(pos)
	if !s.hasByte(pos, '=') {
		return Match{}, false
	}
	pos = s.skipSpaces(pos + 1)

	asyncOff := pos
	pos, ok = s.keyword(pos, "async")
	if !ok {
		return Match{}, false
	}
	pos = s.skipSpaces(pos)

	if !s.hasByte(pos, '(') {
		return Match{}, false
	}
	paramsStart := pos + 1
	paramsEnd, ok := s.closeParen(paramsStart)
	if !ok {
		return Match{}, false
	}
	param, ok := requestParam(string(s.input[paramsStart:paramsEnd]))
	if !ok {
		return Match{}, false
	}
	pos = paramsEnd + 1

	pos = s.skipSpaces(pos)
	if !s.hasPrefix(pos, "=>") {
		return Match{}, false
	}
	pos = s.skipSpaces(pos + 2)
	if !s.hasByte(pos, '{') {
		return Match{}, false
	}
	pos++
	declEnd := pos

	pos = s.skipWhitespace(pos)

	trace, afterTrace, ok := s.traceStatement(pos, param)
	if ok {
		pos = s.skipWhitespace(afterTrace)
	}

	pos, ok = s.keyword(pos, "try")
	if !ok {
		return Match{}, false
	}
	pos = s.skipSpaces(pos)
	if !s.hasByte(pos, '{') {
		return Match{}, false
	}
	bodyStart := pos + 1
	bodyEnd, ok := s.closeBrace(bodyStart)
	if !ok {
		return Match{}, false
	}
	pos = s.skipWhitespace(bodyEnd + 1)

	pos, ok = s.catchClause(pos)
	if !ok {
		return Match{}, false
	}
	pos = s.skipSpaces(pos)
	if !s.hasByte(pos, '{') {
		return Match{}, false
	}
	catchEnd, ok := s.closeBrace(pos + 1)
	if !ok {
		return Match{}, false
	}

	// Outer closing tokens of the arrow function: "};" with optional
	// whitespace before the brace.
	pos = s.skipWhitespace(catchEnd + 1)
	if !s.hasByte(pos, '}') || !s.hasByte(pos+1, ';') {
		return Match{}, false
	}
	end := pos + 2

	return Match{
		Name:     name,
		Decl:     string(s.input[start:declEnd]),
		Param:    param,
		Trace:    trace,
		Body:     string(s.input[bodyStart:bodyEnd]),
		Start:    start,
		End:      end,
		AsyncOff: asyncOff - start,
	}, true
}

// traceStatement matches the fixed-shape destructuring statement
// "const { traceId, spanId } = <param>;" and returns it verbatim.
func (s *Scanner) traceStatement(pos int, param string) (string, int, bool) {
	start := pos
	pos, ok := s.keyword(pos, "const")
	if !ok {
		return "", start, false
	}
	pos = s.skipSpaces(pos)
	if !s.hasByte(pos, '{') {
		return "", start, false
	}
	pos = s.skipSpaces(pos + 1)
	pos, ok = s.keyword(pos, "traceId")
	if !ok {
		return "", start, false
	}
	pos = s.skipSpaces(pos)
	if !s.hasByte(pos, ',') {
		return "", start, false
	}
	pos = s.skipSpaces(pos + 1)
	pos, ok = s.keyword(pos, "spanId")
	if !ok {
		return "", start, false
	}
	pos = s.skipSpaces(pos)
	if !s.hasByte(pos, '}') {
		return "", start, false
	}
	pos = s.skipSpaces(pos + 1)
	if !s.hasByte(pos, '=') {
		return "", start, false
	}
	pos = s.skipSpaces(pos + 1)
	pos, ok = s.keyword(pos, param)
	if !ok {
		return "", start, false
	}
	if !s.hasByte(pos, ';') {
		return "", start, false
	}
	pos++
	return string(s.input[start:pos]), pos, true
}

// catchClause matches "catch (error)" with an optional ": any" annotation,
// leaving the position just before the catch block's opening brace.
func (s *Scanner) catchClause(pos int) (int, bool) {
	pos, ok := s.keyword(pos, "catch")
	if !ok {
		return 0, false
	}
	pos = s.skipSpaces(pos)
	if !s.hasByte(pos, '(') {
		return 0, false
	}
	pos = s.skipSpaces(pos + 1)
	pos, ok = s.keyword(pos, "error")
	if !ok {
		return 0, false
	}
	pos = s.skipSpaces(pos)
	if s.hasByte(pos, ':') {
		pos = s.skipSpaces(pos + 1)
		pos, ok = s.keyword(pos, "any")
		if !ok {
			return 0, false
		}
		pos = s.skipSpaces(pos)
	}
	if !s.hasByte(pos, ')') {
		return 0, false
	}
	return pos + 1, true
}

// closeBrace scans from just inside an opening brace to its matching closing
// brace, returning the closing brace's offset. Braces inside string literals
// do not count toward the depth.
func (s *Scanner) closeBrace(pos int) (int, bool) {
	depth := 1
	for pos < len(s.input) {
		switch ch := s.input[pos]; ch {
		case '\'', '"', '`':
			pos = s.skipString(pos, ch)
			continue
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return pos, true
			}
		}
		pos++
	}
	return 0, false
}

// closeParen scans from just inside an opening paren to its matching closing
// paren, returning the closing paren's offset.
func (s *Scanner) closeParen(pos int) (int, bool) {
	depth := 1
	for pos < len(s.input) {
		switch ch := s.input[pos]; ch {
		case '\'', '"', '`':
			pos = s.skipString(pos, ch)
			continue
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return pos, true
			}
		}
		pos++
	}
	return 0, false
}

// skipString advances past a string literal starting at the opening quote.
// Escape sequences are honored; single and double quoted strings end at a
// newline (unterminated), backtick strings may span lines.
func (s *Scanner) skipString(pos int, quote byte) int {
	pos++ // opening quote
	for pos < len(s.input) {
		ch := s.input[pos]
		if ch == quote {
			return pos + 1
		}
		if ch == '\\' && pos+1 < len(s.input) {
			pos += 2
			continue
		}
		if ch == '\n' && quote != '`' {
			return pos // unterminated string
		}
		pos++
	}
	return pos
}

// ident reads an identifier starting at pos
func (s *Scanner) ident(pos int) (string, int, bool) {
	start := pos
	if pos >= len(s.input) {
		return "", pos, false
	}
	ch := s.input[pos]
	if ch >= 128 || !isIdentStart[ch] {
		return "", pos, false
	}
	for pos < len(s.input) {
		ch := s.input[pos]
		if ch >= 128 || !isIdentPart[ch] {
			break
		}
		pos++
	}
	return string(s.input[start:pos]), pos, true
}

// keyword matches word at pos as a whole token: the following byte must not
// continue an identifier (so "async" does not match inside "asyncHandler").
func (s *Scanner) keyword(pos int, word string) (int, bool) {
	if !s.hasPrefix(pos, word) {
		return 0, false
	}
	end := pos + len(word)
	if end < len(s.input) {
		ch := s.input[end]
		if ch < 128 && isIdentPart[ch] {
			return 0, false
		}
	}
	return end, true
}

// skipSpaces skips spaces and tabs, not newlines
func (s *Scanner) skipSpaces(pos int) int {
	for pos < len(s.input) {
		ch := s.input[pos]
		if ch >= 128 || !isSpace[ch] {
			break
		}
		pos++
	}
	return pos
}

// skipWhitespace skips spaces, tabs, carriage returns and newlines
func (s *Scanner) skipWhitespace(pos int) int {
	for pos < len(s.input) {
		ch := s.input[pos]
		if ch != ' ' && ch != '\t' && ch != '\r' && ch != '\n' {
			break
		}
		pos++
	}
	return pos
}

// hasByte reports whether the byte at pos equals ch
func (s *Scanner) hasByte(pos int, ch byte) bool {
	return pos < len(s.input) && s.input[pos] == ch
}

// hasPrefix reports whether the input at pos starts with prefix
func (s *Scanner) hasPrefix(pos int, prefix string) bool {
	return pos+len(prefix) <= len(s.input) && string(s.input[pos:pos+len(prefix)]) == prefix
}

// requestParam validates the parameter list text: exactly two parameters,
// the first annotated with the request-with-trace-context type, the second
// with the response type. Returns the first parameter's name.
func requestParam(params string) (string, bool) {
	parts := splitParams(params)
	if len(parts) != 2 {
		return "", false
	}
	name, typ, ok := paramParts(parts[0])
	if !ok || typ != requestType {
		return "", false
	}
	if _, typ, ok = paramParts(parts[1]); !ok || typ != responseType {
		return "", false
	}
	return name, true
}

// splitParams splits a parameter list at top-level commas
func splitParams(params string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '(', '[', '{', '<':
			depth++
		case ')', ']', '}', '>':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, params[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, params[start:])
}

// paramParts splits one "name: Type" parameter into its name and type
func paramParts(param string) (string, string, bool) {
	name, typ, found := strings.Cut(param, ":")
	if !found {
		return "", "", false
	}
	return strings.TrimSpace(name), strings.TrimSpace(typ), true
}
