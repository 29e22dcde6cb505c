package daemon

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// requestLogger logs one line per API request through logrus. Successful
// requests log at debug so routine convert traffic stays quiet at the
// default level.
func requestLogger(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Handlers may rewrite the request path; keep the one the client sent.
		path := c.Request.URL.Path
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		status := c.Writer.Status()
		bytes := c.Writer.Size()
		if bytes < 0 {
			bytes = 0
		}

		entry := logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      path,
			"status":    status,
			"bytes":     bytes,
			"latencyMs": latency.Milliseconds(),
		})

		switch {
		case len(c.Errors) > 0:
			entry.Error(c.Errors.ByType(gin.ErrorTypePrivate).String())
		case status >= http.StatusInternalServerError:
			entry.Errorf("%s %s %d", c.Request.Method, path, status)
		case status >= http.StatusBadRequest:
			entry.Warnf("%s %s %d", c.Request.Method, path, status)
		default:
			entry.Debugf("%s %s %d", c.Request.Method, path, status)
		}
	}
}
