package middleware

import (
	"net/http"
	"strings"
	"time"

	"stockroom/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const internalErrorMessage = "Internal server error"

// WantsJSON reports whether the caller should get JSON rather than a page.
func WantsJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api") ||
		strings.Contains(c.GetHeader("Accept"), "application/json")
}

// ErrorHandler is a Gin middleware that catches unhandled errors.
// Stack traces and internal messages are never exposed to clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last()
		log.Error().
			Str("request_id", c.GetString(RequestIDKey)).
			Str("path", c.FullPath()).
			Str("method", c.Request.Method).
			Err(err.Err).
			Msg("unhandled error")

		if c.Writer.Written() {
			return
		}
		abortInternal(c)
	}
}

func abortInternal(c *gin.Context) {
	if WantsJSON(c) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(internalErrorMessage))
		return
	}
	c.Data(http.StatusInternalServerError, "text/plain; charset=utf-8", []byte(internalErrorMessage))
	c.Abort()
}

// Recovery handles panics and converts them into 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Str("request_id", c.GetString(RequestIDKey)).
					Interface("panic", r).
					Msg("panic recovered")
				abortInternal(c)
			}
		}()
		c.Next()
	}
}

// Logger logs each request with method, path, status, latency, and request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		evt := log.Info()
		if status >= http.StatusInternalServerError {
			evt = log.Error()
		}
		evt.
			Str("request_id", c.GetString(RequestIDKey)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
