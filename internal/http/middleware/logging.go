// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the request ID injector, the API scope marker, a
// panic-safe recovery handler and access to the request-scoped logger:
//
//   - RequestID() ensures every request carries a stable correlation ID
//     (propagated via X-Request-ID and stored in the Gin context).
//   - APIScope() flags requests under the JSON API prefix so that shared
//     middleware answers them in JSON and everything else in HTML.
//   - Recovery() converts panics into 500 responses (JSON envelope for API
//     requests, a plain page otherwise) and logs the stack trace.
//   - LoggerFrom() retrieves the request-scoped logger attached by AccessLog.
//
// Recommended order: RequestID, APIScope, Session, AccessLog, Recovery, so
// that panics and errors are logged with the correlation and user IDs.
package middleware

import (
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// requestIDKey is the Gin context key under which the request ID is stored.
	requestIDKey = "requestID"
	// requestIDHeader is the HTTP header used to propagate the correlation ID.
	requestIDHeader = "X-Request-ID"
	// loggerKey holds the request-scoped *zerolog.Logger.
	loggerKey = "logger"
	// apiKey marks requests served by the JSON API.
	apiKey = "api"
	// maxQueryLogLength caps the number of bytes of the raw query string logged.
	maxQueryLogLength = 2048
)

// RequestID attaches (or propagates) a correlation identifier per request.
// An incoming X-Request-ID is reused; otherwise a UUIDv4 is generated. The ID
// is echoed in the response header and stored under "requestID".
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// APIScope marks requests whose path starts with prefix as API requests.
func APIScope(prefix string) gin.HandlerFunc {
	prefix = strings.TrimRight(prefix, "/")
	return func(c *gin.Context) {
		p := c.Request.URL.Path
		if prefix != "" && (p == prefix || strings.HasPrefix(p, prefix+"/")) {
			c.Set(apiKey, true)
		}
		c.Next()
	}
}

// IsAPI reports whether APIScope flagged the request.
func IsAPI(c *gin.Context) bool {
	return c.GetBool(apiKey)
}

// RequestIDFrom returns the correlation ID of the request, if any.
func RequestIDFrom(c *gin.Context) string {
	v, _ := c.Get(requestIDKey)
	return asString(v)
}

// Recovery intercepts panics, logs a stack trace, and answers 500.
//
// API requests get the standard JSON envelope:
//
//	{ "request_id": "...", "code": "internal_error", "message": "internal server error" }
//
// other requests a minimal HTML page. Nothing is written when the handler
// had already started the response.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid := RequestIDFrom(c)
				LoggerFrom(c).Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", rid).
					Msg("panic recovered")

				if c.Writer.Written() {
					c.AbortWithStatus(http.StatusInternalServerError)
					return
				}
				c.Header(requestIDHeader, rid)
				if IsAPI(c) {
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"request_id": rid,
						"code":       "internal_error",
						"message":    "internal server error",
					})
					return
				}
				c.Data(http.StatusInternalServerError, "text/html; charset=utf-8", []byte(errorPage))
				c.Abort()
			}
		}()
		c.Next()
	}
}

const errorPage = `<!DOCTYPE html><html lang="fr"><head><meta charset="utf-8"><title>Erreur</title></head>` +
	`<body><h1>Une erreur est survenue</h1><p><a href="/">Retour à l'accueil</a></p></body></html>`

// LoggerFrom returns the request-scoped zerolog.Logger, or the global logger
// when AccessLog is not installed. The result is never nil.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// asString converts an arbitrary interface to a string, returning an empty
// string when the value is not a string. Used for context values.
func asString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate returns s unchanged when within max length, otherwise it truncates
// s to max bytes and appends an ellipsis. A max <= 0 disables truncation.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
