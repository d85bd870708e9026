// Package logging builds leveled loggers for the service and the command line tool.
package logging

import (
	"github.com/jcgregorio/logger"
	"github.com/jcgregorio/slog"
)

// Logger is the logging interface used across the service.
type Logger = slog.Logger

// New returns a Logger that writes to w, debug enables debug level messages.
func New(w logger.SyncWriter, debug bool) Logger {
	return logger.NewFromOptions(&logger.Options{
		SyncWriter:   w,
		DepthDelta:   1,
		IncludeDebug: debug,
	})
}

// Nop returns a Logger that discards everything.
func Nop() Logger {
	return logger.NewNopLogger()
}
