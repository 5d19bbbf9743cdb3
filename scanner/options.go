package scanner

// ScannerOpt represents a scanner configuration option
type ScannerOpt func(*scannerConfig)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff    DebugLevel = iota // No debug info (default)
	DebugEvents                   // Candidate and match tracing
)

// scannerConfig holds scanner configuration
type scannerConfig struct {
	debug DebugLevel
}

// WithDebugEvents enables candidate/match tracing (development only)
func WithDebugEvents() ScannerOpt {
	return func(c *scannerConfig) {
		c.debug = DebugEvents
	}
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Event   string // "candidate", "match", "reject", "eof"
	Offset  int    // Byte offset in the input
	Context string // Handler name, reject reason, etc.
}
