package logging

import (
	"net/http"
	"regexp"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const traceparentHeader = "traceparent"

// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
var traceparentRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)

// RequestLogger enriches the request context with a zap logger carrying the
// request ID and, when the UI shell forwards one, the W3C trace identifiers.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := chimiddleware.GetReqID(r.Context())
			traceID, fields := traceFields(r.Header.Get(traceparentHeader))
			if reqID != "" {
				fields = append(fields, zap.String("requestId", reqID))
			}
			if traceID == "" {
				traceID = reqID
			}

			logger := Logger()
			if len(fields) > 0 {
				logger = logger.With(fields...)
			}
			ctx := contextWithTraceID(r.Context(), traceID)
			ctx = WithLogger(ctx, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes structured request summaries using the request-scoped logger.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			LoggerFromContext(r.Context()).Info(
				"request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// traceFields extracts the trace ID and log fields from a traceparent header.
// An invalid or all-zero header yields no fields.
func traceFields(header string) (string, []zap.Field) {
	m := traceparentRe.FindStringSubmatch(header)
	if len(m) != 5 || m[2] == "00000000000000000000000000000000" {
		return "", nil
	}
	return m[2], []zap.Field{
		zap.String("traceId", m[2]),
		zap.String("spanId", m[3]),
		zap.Bool("traceSampled", m[4] == "01"),
	}
}
