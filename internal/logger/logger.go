// Package logger builds the logrus logger shared by the CLI and the service.
package logger

import (
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

// ParseLevel maps a LOG_LEVEL value to a logrus level. Unknown values yield
// info and ok=false.
func ParseLevel(s string) (logrus.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return logrus.TraceLevel, true
	case "debug":
		return logrus.DebugLevel, true
	case "info", "":
		return logrus.InfoLevel, true
	case "warn", "warning":
		return logrus.WarnLevel, true
	case "error":
		return logrus.ErrorLevel, true
	default:
		return logrus.InfoLevel, false
	}
}

// New returns a logger writing to out. format "json" selects the JSON
// formatter, anything else the text formatter.
func New(level, format string, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	if strings.EqualFold(format, "json") {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	lvl, ok := ParseLevel(level)
	log.SetLevel(lvl)
	if !ok {
		log.WithField("configured_level", level).Warn("invalid LOG_LEVEL specified, defaulting to info")
	}
	return log
}
