package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

// New returns a logrus logger writing text lines to out.
func New(level logrus.Level, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableColors:   out != os.Stderr && out != os.Stdout,
	})
	return log
}

// OpenFile returns a logger appending to path and a closer for the file.
// The TUI logs here so the alternate screen is left untouched.
func OpenFile(level logrus.Level, path string) (*logrus.Logger, func() error, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(level, f), f.Close, nil
}

// Discard returns a logger that drops everything. Used by tests and as the
// default when a component is built without one.
func Discard() *logrus.Logger {
	return New(logrus.PanicLevel, io.Discard)
}

// ParseLevel wraps logrus.ParseLevel with a friendlier error.
func ParseLevel(s string) (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}
