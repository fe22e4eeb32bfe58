// Copyright 2025 Blockgate Project Authors. All Rights Reserved.

package logging

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	TextFormat = "text"
	JSONFormat = "json"
)

type ContextKey string

const (
	ContextKeyRequestID     ContextKey = "requestID"
	ContextKeyRequestSource ContextKey = "requestSource"

	ContextSourceREST     = "REST"
	ContextSourceCLI      = "CLI"
	ContextSourceInternal = "Internal"
	ContextSourcePeriodic = "Periodic"
)

// LogFields is an alias for the underlying implementation's field set so that
// callers need not import logrus directly.
type LogFields = log.Fields

// InitLogFormat sets the process-wide log formatter.
func InitLogFormat(logFormat string) error {
	switch logFormat {
	case TextFormat:
		log.SetFormatter(&log.TextFormatter{DisableColors: true, FullTimestamp: true})
	case JSONFormat:
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("unknown log format %s", logFormat)
	}
	log.SetOutput(os.Stdout)
	return nil
}

// InitLogLevel sets the process-wide log level.
func InitLogLevel(logLevel string) error {
	level, err := log.ParseLevel(strings.ToLower(logLevel))
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

// Log returns a logger with no request-scoped fields.
func Log() *log.Entry {
	return log.NewEntry(log.StandardLogger())
}

// Logc returns a logger decorated with the request ID and source carried by
// the supplied context.
func Logc(ctx context.Context) *log.Entry {
	entry := log.NewEntry(log.StandardLogger())
	if v := ctx.Value(ContextKeyRequestID); v != nil {
		entry = entry.WithField(string(ContextKeyRequestID), v)
	}
	if v := ctx.Value(ContextKeyRequestSource); v != nil {
		entry = entry.WithField(string(ContextKeyRequestSource), v)
	}
	return entry
}

// Logd returns a context-decorated logger for per-method entry/exit tracing.
// When tracing is enabled for the named driver the returned entry emits trace
// messages regardless of the global level; otherwise trace messages are
// filtered as usual.
func Logd(ctx context.Context, driverName string, traceEnabled bool) *log.Entry {
	entry := Logc(ctx).WithField("driver", driverName)
	if traceEnabled && entry.Logger.GetLevel() < log.TraceLevel {
		traceLogger := &log.Logger{
			Out:       entry.Logger.Out,
			Formatter: entry.Logger.Formatter,
			Hooks:     entry.Logger.Hooks,
			Level:     log.TraceLevel,
		}
		entry = traceLogger.WithFields(entry.Data)
	}
	return entry
}

// GenerateRequestContext returns a context tagged with a request ID and
// source, generating a new UUID-based ID if the context does not already
// carry one.
func GenerateRequestContext(ctx context.Context, requestID, requestSource string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	} else {
		if v := ctx.Value(ContextKeyRequestID); v != nil {
			requestID = fmt.Sprint(v)
		}
		if v := ctx.Value(ContextKeyRequestSource); v != nil {
			requestSource = fmt.Sprint(v)
		}
	}

	if requestID == "" {
		requestID = uuid.New().String()
	}
	if requestSource == "" {
		requestSource = "Unknown"
	}

	ctx = context.WithValue(ctx, ContextKeyRequestID, requestID)
	ctx = context.WithValue(ctx, ContextKeyRequestSource, requestSource)
	return ctx
}
