package middlewares

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-frontdesk/utils"
)

// NoStore melarang cache untuk respons yang berisi token atau data pembayaran.
func NoStore() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}

// LogPaymentRequest writes an audit-style log line for every payment endpoint hit.
func LogPaymentRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}
		if id, ok := c.Get(CtxUserID); ok {
			fields["cashier_id"] = id
		}
		if pid := c.Param("id"); pid != "" {
			fields["resource_id"] = pid
		}

		if c.Writer.Status() >= 400 {
			utils.InfoLogger.WithFields(fields).Warn("payment request rejected")
			return
		}
		utils.InfoLogger.WithFields(fields).Info("payment request")
	}
}
