// Package logging configures the structured logger shared by the binaries.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New returns a logger writing JSON in production and human-readable text
// elsewhere. LOG_LEVEL overrides the default info level.
func New(environment, service string) *logrus.Entry {
	return NewWithWriter(os.Stderr, environment, os.Getenv("LOG_LEVEL")).WithField("service", service)
}

// NewWithWriter is New with an explicit destination and level.
func NewWithWriter(w io.Writer, environment, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if strings.EqualFold(environment, "production") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	logger.SetLevel(logrus.InfoLevel)
	if level != "" {
		if parsed, err := logrus.ParseLevel(level); err == nil {
			logger.SetLevel(parsed)
		}
	}
	return logger
}
