// Package logging sets up the process-wide stderr logger. Stdout is
// reserved for the JSON-RPC stream, so nothing in this package ever writes
// there.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Setup configures the global zerolog logger, gated by debug. Non-debug
// runs log at info level; debug runs add caller info and drop to debug.
func Setup(debug bool) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	builder := zerolog.New(os.Stderr).With().Timestamp()
	if debug {
		builder = builder.Caller()
	}
	logger := builder.Logger()
	zerolog.DefaultContextLogger = &logger
	return logger
}
