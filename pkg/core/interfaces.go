package core

// Logger is the minimal logging interface the renderer accepts. A nil
// Logger disables diagnostics; *log.Logger satisfies it directly.
type Logger interface {
	Printf(format string, args ...interface{})
}
