// internal/logging/logging.go
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the application-wide logger. It is usable before Init is called
// and is reconfigured in place by Init.
var Log = NewLogger("info")

// Init sets the level of the application-wide logger.
func Init(level string) {
	Log.SetLevel(parseLevel(level))
}

// SetOutput redirects the application-wide logger, mainly for tests.
func SetOutput(w io.Writer) {
	Log.SetOutput(w)
}

// NewLogger creates a JSON logger writing to stdout with the given level.
func NewLogger(level string) *logrus.Logger {
	log := logrus.New()

	// Using JSON format for structured logging.
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(parseLevel(level))

	return log
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return logrus.TraceLevel
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}
