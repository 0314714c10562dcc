package logger

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const contextKeyLogger = "logger"

// Middleware logs every request with a request id and recovers panics.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		entry := logrus.WithFields(logrus.Fields{
			"req_id": uuid.NewString(),
			"from":   c.ClientIP(),
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
		})
		entry.Debug("request received")
		c.Set(contextKeyLogger, entry)

		defer func() {
			if p := recover(); p != nil {
				entry.WithFields(logrus.Fields{
					"panic": p,
					"stack": string(debug.Stack()),
				}).Error("panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "Internal server error",
				})
			}
		}()

		c.Next()

		fields := logrus.Fields{
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		entry = entry.WithFields(fields)
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		case c.Writer.Status() >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

// FromContext returns the request-scoped logger, falling back to the standard logger.
func FromContext(c *gin.Context) *logrus.Entry {
	if v, ok := c.Get(contextKeyLogger); ok {
		if entry, ok := v.(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(logrus.StandardLogger())
}
