package scanner

// Match is one recognized handler occurrence in the document.
type Match struct {
	Name  string // handler identifier from the exported const
	Decl  string // declaration text through the arrow-function opening brace
	Param string // first parameter name (the request object)
	Trace string // trace-extraction statement, verbatim; "" when absent
	Body  string // raw text between the try-block braces

	// Byte offsets of the whole handler in the document. Matches from one
	// scan are ordered by Start and never overlap.
	Start int
	End   int

	// AsyncOff is the offset of the async keyword within Decl. The
	// declaration rewriter inserts the wrapper call at this point.
	AsyncOff int
}
