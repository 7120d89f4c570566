package contract

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogLevel is used when no level is configured.
const DefaultLogLevel = "warn"

// Logger is the global zerolog logger instance. It discards everything until InitLogger runs.
//
//nolint:gochecknoglobals // Logger is intentionally global for application-wide structured logging
var Logger = zerolog.Nop()

// logMu guards Logger replacement.
//
//nolint:gochecknoglobals // Guards the global logger state
var logMu sync.Mutex

// InitLogger sets the global Logger to a console writer on stderr at the given level.
// An unknown level falls back to warn.
func InitLogger(level string) {
	InitLoggerWithWriter(level, os.Stderr)
}

// InitLoggerWithWriter is InitLogger with an explicit destination.
func InitLoggerWithWriter(level string, out io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    out != io.Writer(os.Stderr),
	}

	Logger = zerolog.New(consoleWriter).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}
