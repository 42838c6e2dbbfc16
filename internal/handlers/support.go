// internal/handlers/support.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubmitSupportRequest is a legacy stub. The email-based support feature was
// removed; old clients hitting it get a clear message instead of an error.
func SubmitSupportRequest(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.Info("support endpoint called, but email feature is disabled")
		c.JSON(http.StatusGone, gin.H{
			"error": "Support email feature has been disabled. Please contact us directly at support@jobtrack.dev.",
		})
	}
}
