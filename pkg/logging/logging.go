// Package logging builds the logrus logger shared by the API server and CLI.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ssargent/marc21/pkg/config"
)

// New returns a logger writing to stderr with the configured level and format
func New(cfg config.Logging) *logrus.Logger {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with an explicit output
func NewWithWriter(cfg config.Logging, w io.Writer) *logrus.Logger {
	logger := logrus.New()
	logger.Out = w
	if strings.ToLower(cfg.Format) == "json" {
		logger.Formatter = &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	} else {
		logger.Formatter = &logrus.TextFormatter{TimestampFormat: time.RFC3339Nano, FullTimestamp: true}
	}

	switch strings.ToLower(cfg.Level) {
	case "debug":
		logger.SetLevel(logrus.DebugLevel)
	case "warn":
		logger.SetLevel(logrus.WarnLevel)
	case "error":
		logger.SetLevel(logrus.ErrorLevel)
	default:
		logger.SetLevel(logrus.InfoLevel)
	}
	return logger
}
