// Package logging wraps the standard library's log.Logger with a
// request-scoped "req_id=... op=..." prefix; the HTTP layer scopes its lines
// with the op values "http", "ingest" and "solve".
package logging

import (
	"fmt"
	"log"
	"os"
)

// Logger is a *log.Logger with an optional fixed key=value prefix.
type Logger struct {
	*log.Logger
}

// New returns a Logger writing to stdout with the standard library's usual
// date/time flags.
func New() *Logger {
	return &Logger{Logger: log.New(os.Stdout, "", log.LstdFlags)}
}

// Scoped returns a Logger whose every line is prefixed with the given
// request ID and pipeline stage, so log lines from concurrent requests
// (and from the same request's different stages) can be told apart without
// a structured-logging library.
func (l *Logger) Scoped(reqID, op string) *Logger {
	prefix := fmt.Sprintf("req_id=%s op=%s ", reqID, op)
	return &Logger{Logger: log.New(l.Writer(), prefix, log.LstdFlags)}
}
