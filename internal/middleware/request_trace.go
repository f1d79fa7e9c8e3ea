package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newsportal/internal/logger"
	"github.com/newsportal/internal/trace"
)

const headerRequestID = "X-Request-Id"

// RequestTrace makes sure every inbound request carries an X-Request-Id,
// stores it in the request context and logs the request once it completes.
func RequestTrace() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = trace.NewID()
		}
		c.Request = c.Request.WithContext(trace.WithRequestID(c.Request.Context(), requestID))
		c.Writer.Header().Set(headerRequestID, requestID)

		queryParams := map[string][]string{}
		for key, values := range c.Request.URL.Query() {
			if len(values) > 0 {
				queryParams[key] = values
			}
		}

		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields{
			"method":       c.Request.Method,
			"path":         c.Request.URL.Path,
			"route":        c.FullPath(),
			"query_params": queryParams,
			"status":       status,
			"duration":     time.Since(start).String(),
			"client_ip":    c.ClientIP(),
			"request_id":   requestID,
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			logger.ErrorWithFields("completed request", fields)
		case status >= 400:
			logger.WarnWithFields("completed request", fields)
		default:
			logger.InfoWithFields("completed request", fields)
		}
	}
}
