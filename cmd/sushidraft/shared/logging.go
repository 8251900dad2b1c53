package shared

import (
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures the process logger
func SetupLogger(debug bool) *log.Logger {
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
}

// ParseLevel maps a configured level name onto the logger, falling back to
// info for unknown names
func ParseLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
