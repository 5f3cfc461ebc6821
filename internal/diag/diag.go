// Package diag carries a request-scoped diagnostic logger through context.
package diag

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// discard is returned when no logger was attached to a context.
var discard = newDiscard()

func newDiscard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

// WithLogger returns a copy of ctx carrying the given logger.
func WithLogger(ctx context.Context, l logrus.FieldLogger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext returns the logger attached to ctx, or a logger that
// discards everything.
func FromContext(ctx context.Context) logrus.FieldLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
			return l
		}
	}
	return discard
}

// Discard returns a logger that drops all entries.
func Discard() logrus.FieldLogger {
	return discard
}

// New builds a logger writing to out. Format is "text" or "json".
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	l := logrus.New()
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	l.SetLevel(lvl)

	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "text":
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "15:04:05.000",
		})
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{})
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	return l, nil
}
