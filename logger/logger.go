// Package logger is a thin leveled facade over zerolog shared by every
// component. Call sites use the printf-style helpers; Init wires the level
// and output once at startup.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu   sync.Mutex
	base = newLogger(os.Stdout)
)

func newLogger(out io.Writer) zerolog.Logger {
	w := zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Init configures the minimum level and output destination. The level string
// follows zerolog ("debug", "info", "warn", "error"); empty falls back to the
// LOG_LEVEL environment variable and then to info.
func Init(level string, out io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	if level == "" {
		level = os.Getenv("LOG_LEVEL")
	}
	lvl := zerolog.InfoLevel
	if level != "" {
		if parsed, err := zerolog.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	zerolog.SetGlobalLevel(lvl)

	if out != nil {
		base = newLogger(out)
	}
}

// Debug logs a debug message.
func Debug(v ...interface{}) {
	base.Debug().Msgf("%s", sprint(v...))
}

// Debugf logs a formatted debug message.
func Debugf(format string, v ...interface{}) {
	base.Debug().Msgf(format, v...)
}

// Info logs an info message.
func Info(v ...interface{}) {
	base.Info().Msgf("%s", sprint(v...))
}

// Infof logs a formatted info message.
func Infof(format string, v ...interface{}) {
	base.Info().Msgf(format, v...)
}

// Warn logs a warning message.
func Warn(v ...interface{}) {
	base.Warn().Msgf("%s", sprint(v...))
}

// Warnf logs a formatted warning message.
func Warnf(format string, v ...interface{}) {
	base.Warn().Msgf(format, v...)
}

// Error logs an error message.
func Error(v ...interface{}) {
	base.Error().Msgf("%s", sprint(v...))
}

// Errorf logs a formatted error message.
func Errorf(format string, v ...interface{}) {
	base.Error().Msgf(format, v...)
}

// Fatal logs an error message and exits the program.
func Fatal(v ...interface{}) {
	base.Fatal().Msgf("%s", sprint(v...))
}

// Fatalf logs a formatted error message and exits the program.
func Fatalf(format string, v ...interface{}) {
	base.Fatal().Msgf(format, v...)
}

func sprint(v ...interface{}) string {
	return fmt.Sprint(v...)
}
