package logging

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type contextKey string

const loggerKey contextKey = "logger"

// Setup configures the standard logrus logger used across the service.
// format is "text" or "json"; an empty level defaults to info.
func Setup(out io.Writer, level, format string) error {
	logger := logrus.StandardLogger()
	if out != nil {
		logger.SetOutput(out)
	}

	if level == "" {
		level = "info"
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)

	switch strings.ToLower(format) {
	case "", "text":
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", format)
	}
	return nil
}

// NewContext returns a copy of ctx carrying the given logger.
func NewContext(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, loggerKey, log)
}

// WithContext returns the logger stored in ctx, or the standard logger.
func WithContext(ctx context.Context) logrus.FieldLogger {
	if ctx != nil {
		if log, ok := ctx.Value(loggerKey).(logrus.FieldLogger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}
