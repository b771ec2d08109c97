package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := logrus.Fields{
			"method":  c.Request.Method,
			"status":  status,
			"latency": time.Since(start).String(),
			"path":    path,
			"ip":      c.ClientIP(),
		}
		if id, ok := c.Get(CtxUserID); ok {
			fields["user_id"] = id
		}

		// query string sengaja tidak dicatat: /ws membawa token di sana
		entry := utils.InfoLogger.WithFields(fields)
		switch {
		case status >= 500:
			utils.ErrorLogger.WithFields(fields).Error("request")
		case status >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
