// Package logging configures the process-wide logrus logger and derives
// request-scoped entries from a context.
package logging

import (
	"context"
	"strings"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"user-registry-api/internal/config"
)

type ctxKey struct{}

// Setup applies level and format from configuration to the standard logger
func Setup(cfg config.LogConfig) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	if strings.EqualFold(cfg.Format, "text") {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
		return
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})
}

// WithRequestID stores a request id for FromContext to pick up
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// FromContext returns a log entry tagged with the invocation's request id.
// The Lambda request id wins over one set with WithRequestID.
func FromContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(logrus.StandardLogger())
	if ctx == nil {
		return entry
	}

	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return entry.WithField("request_id", lc.AwsRequestID)
	}

	if requestID, ok := ctx.Value(ctxKey{}).(string); ok && requestID != "" {
		return entry.WithField("request_id", requestID)
	}

	return entry
}
