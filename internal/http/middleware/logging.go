// Package middleware contains the Gin middleware shared by the HTTP layer.
//
// This file covers request correlation and access logging:
//
//   - RequestID() accepts a well-formed incoming X-Request-ID or mints a UUID.
//   - Logger() binds a request-scoped zerolog.Logger to the Gin context and to
//     the request context.Context, then writes one access line per request.
//   - Recovery() turns a panic into the JSON 500 envelope.
//
// Install them in that order.
package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps the logged (already redacted) query string.
	maxQueryLogLength = 2048
)

// clientRequestID bounds what a caller may supply as a correlation id; anything
// else is replaced so that log lines stay single-line and greppable.
var clientRequestID = regexp.MustCompile(`^[A-Za-z0-9._:\-]{1,128}$`)

// RequestID stores the correlation id under "requestID" and echoes it in the
// X-Request-ID response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if !clientRequestID.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// RequestIDFrom returns the correlation id of the request, or "" when
// RequestID() did not run.
func RequestIDFrom(c *gin.Context) string {
	if v, ok := c.Get(requestIDKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return c.Writer.Header().Get(requestIDHeader)
}

// routeLabel is the matched route pattern, or "unmatched". Raw paths never
// become labels or log route names.
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return unmatchedPath
}

// accessLevel picks the level of the access line: error when the server
// failed or handlers attached errors, warn for client errors.
func accessLevel(status, errs int) zerolog.Level {
	switch {
	case errs > 0 || status >= http.StatusInternalServerError:
		return zerolog.ErrorLevel
	case status >= http.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Logger writes a structured access log for each request. Query strings are
// scrubbed by the redactor; request headers (also scrubbed) are attached to
// 4xx lines only.
//
// Services reach the request logger through log.Ctx(ctx), handlers through
// LoggerFrom.
func Logger(opts RedactOptions) gin.HandlerFunc {
	rd := newRedactor(opts)

	return func(c *gin.Context) {
		start := time.Now()

		reqLog := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", routeLabel(c)).
			Str("remote_ip", c.ClientIP()).
			Logger()
		c.Set(loggerKey, &reqLog)
		c.Request = c.Request.WithContext(reqLog.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		lvl := accessLevel(status, len(c.Errors))
		ev := reqLog.WithLevel(lvl).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int64("bytes_in", c.Request.ContentLength).
			Int("bytes_out", c.Writer.Size()).
			Str("user_agent", c.Request.UserAgent())
		if q := c.Request.URL.RawQuery; q != "" {
			ev = ev.Str("query", truncate(rd.redact(q), maxQueryLogLength))
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}
		if lvl == zerolog.WarnLevel {
			ev = ev.Interface("headers", rd.headers(c.Request.Header))
		}
		ev.Msg("request")
	}
}

// Recovery logs the panic with its stack and, if nothing was written yet,
// answers 500 with the "internal_error" envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			abortWithError(c, http.StatusInternalServerError, "internal_error", "internal server error")
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or a copy of the global
// logger when Logger() did not run. Never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// truncate caps s at max bytes and appends an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
