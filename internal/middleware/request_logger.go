package middleware

import (
	"time"

	"github.com/agyouthrise/rise-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	requestIDHeader = "X-Request-ID"
	maxRequestIDLen = 64
	loggerKey       = "logger"
)

// validRequestID accepts ids from trusted proxies: short, header- and log-safe
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLen {
		return false
	}
	for _, r := range id {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return false
		}
	}
	return true
}

// RequestLog returns the request-scoped logger (request_id, collection).
// Outside RequestLogger it falls back to the global logger.
func RequestLog(c *gin.Context) *zerolog.Logger {
	if l, ok := c.Get(loggerKey); ok {
		if zl, ok := l.(*zerolog.Logger); ok {
			return zl
		}
	}
	return logger.GetLogger()
}

// RequestLogger assigns a request id, exposes a scoped logger to handlers and
// writes one line per request. Paths in skip (health checks, scrapes) are not logged.
func RequestLogger(skip ...string) gin.HandlerFunc {
	skipped := make(map[string]bool, len(skip))
	for _, p := range skip {
		skipped[p] = true
	}

	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(requestIDHeader)
		if !validRequestID(requestID) {
			requestID = uuid.New().String()[:8]
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		scoped := logger.GetLogger().With().Str("request_id", requestID)
		if kind := c.Param("kind"); kind != "" {
			scoped = scoped.Str("collection", kind)
		}
		reqLog := scoped.Logger()
		c.Set(loggerKey, &reqLog)

		c.Next()

		if skipped[c.Request.URL.Path] {
			return
		}

		status := c.Writer.Status()
		var event *zerolog.Event
		switch {
		case status >= 500:
			event = reqLog.Error()
		case status >= 400:
			event = reqLog.Warn()
		default:
			event = reqLog.Info()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("route", routeLabel(c.FullPath())).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("user_id", GetUserID(c)).
			Int("body_size", c.Writer.Size()).
			Msg("request")
	}
}
