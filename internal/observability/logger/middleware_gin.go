package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/showroom/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	requestIDHeader    = "X-Request-Id"
	maxRequestIDLength = 128
)

// MiddlewareConfig controls request logging behavior.
type MiddlewareConfig struct {
	Debug           bool
	ErrorClassifier func(err error) (string, string)
}

// GinMiddleware writes one http_request line per request. It runs before
// auth, so the caller fields are picked up from the request context after
// the handler chain returns.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := ensureRequestID(c)
		c.Request = c.Request.WithContext(obscontext.WithRequestID(c.Request.Context(), requestID))

		c.Next()

		status := c.Writer.Status()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
			zap.String("client_ip", c.ClientIP()),
		}

		if last := c.Errors.Last(); last != nil {
			if cfg.ErrorClassifier != nil {
				errorType, errorCode := cfg.ErrorClassifier(last.Err)
				fields = append(fields,
					zap.String("error_type", errorType),
					zap.String("error_code", errorCode),
				)
			}
			if status >= http.StatusInternalServerError {
				fields = append(fields, zap.Error(last.Err))
				if cfg.Debug {
					fields = append(fields, zap.Stack("stack"))
				}
			}
		}

		FromContext(c.Request.Context()).Log(requestLevel(c.Request.URL.Path, status), "http_request", fields...)
	}
}

// ensureRequestID reuses a sane inbound id and otherwise mints one.
func ensureRequestID(c *gin.Context) string {
	requestID := strings.TrimSpace(c.GetHeader(requestIDHeader))
	if !validRequestID(requestID) {
		requestID = uuid.NewString()
	}
	c.Set("request_id", requestID)
	c.Header(requestIDHeader, requestID)
	return requestID
}

func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}
	for _, r := range id {
		if r < 0x21 || r > 0x7e {
			return false
		}
	}
	return true
}

// requestLevel keeps probes, scrapes and the SPA's static assets at debug
// unless they fail.
func requestLevel(path string, status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case isQuiet(path):
		return zapcore.DebugLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}

func isQuiet(path string) bool {
	switch {
	case path == "/health", path == "/metrics":
		return true
	case strings.HasPrefix(path, "/api/"):
		return false
	default:
		// uploads and the single-page app bundle
		return true
	}
}
