// internal/handlers/stats.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobtrack-back/internal/store"
)

const upcomingInterviewLimit = 5

// JobStats reports per-status application counts for the acting user.
func JobStats(db store.Database, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		stats, err := db.GetJobStats(userID)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// UpcomingInterviews lists the acting user's next interviews, at most five,
// soonest first.
func UpcomingInterviews(db store.Database, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		interviews, err := db.UpcomingInterviews(userID, upcomingInterviewLimit)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, interviews)
	}
}

// InterviewStats reports upcoming/completed/total interview counts.
func InterviewStats(db store.Database, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		stats, err := db.GetInterviewStats(userID)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}
