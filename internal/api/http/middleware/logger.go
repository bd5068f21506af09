package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs every request after it has been handled. Server errors are
// logged at error level, client errors at warn.
func Logger(log *slog.Logger) gin.HandlerFunc {
	log = log.With(slog.String("component", "http"))

	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		attrs := []any{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)),
			slog.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, slog.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("request handled", attrs...)
		case status >= 400:
			log.Warn("request handled", attrs...)
		default:
			log.Debug("request handled", attrs...)
		}
	}
}
