// internal/handlers/applications.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"jobtrack-back/internal/mailer"
	"jobtrack-back/internal/storage"
	"jobtrack-back/internal/store"
)

var resumeExtensions = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// CreateApplication accepts either JSON or multipart form data. A multipart
// request may carry a resume file, which is stored before the database
// transaction; a stored resume is cleaned up if the create fails.
func CreateApplication(db store.Database, minioClient *storage.MinIOClient, mail *mailer.Worker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		var in store.ApplicationInput
		var uploaded string

		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			in = applicationInputFromForm(c)

			file, err := c.FormFile("resume")
			if err == nil {
				ext := strings.ToLower(filepath.Ext(file.Filename))
				contentType, ok := resumeExtensions[ext]
				if !ok {
					c.JSON(http.StatusBadRequest, gin.H{"error": "Only PDF and Word resumes are allowed"})
					return
				}

				src, err := file.Open()
				if err != nil {
					logger.Error("failed to open uploaded resume", zap.Error(err))
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save resume"})
					return
				}
				defer src.Close()

				objectName, err := minioClient.UploadResume(c.Request.Context(), userID, file.Filename, src, file.Size, contentType)
				if err != nil {
					logger.Error("failed to upload resume", zap.Error(err))
					c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save resume"})
					return
				}
				uploaded = objectName
				in.Resume = objectName
			}
		} else {
			if err := c.ShouldBindJSON(&in); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		app, err := db.CreateApplication(userID, in)
		if err != nil {
			if uploaded != "" {
				if rmErr := minioClient.DeleteResume(context.Background(), uploaded); rmErr != nil {
					logger.Warn("failed to remove orphaned resume", zap.String("object", uploaded), zap.Error(rmErr))
				}
			}
			respondStoreError(c, logger, err)
			return
		}

		if app.InterviewDate != nil {
			notifyInterviewScheduled(db, mail, userID, app)
		}

		presignResume(c.Request.Context(), minioClient, logger, app)
		c.JSON(http.StatusCreated, app)
	}
}

// GetApplication returns one owned application, 404 otherwise.
func GetApplication(db store.Database, minioClient *storage.MinIOClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		id, ok := parseID(c)
		if !ok {
			return
		}

		app, err := db.GetApplication(userID, id)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}

		presignResume(c.Request.Context(), minioClient, logger, app)
		c.JSON(http.StatusOK, app)
	}
}

// UpdateApplication applies a partial update and re-synchronizes the
// interview row.
func UpdateApplication(db store.Database, mail *mailer.Worker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		id, ok := parseID(c)
		if !ok {
			return
		}

		var in store.ApplicationUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		app, err := db.UpdateApplication(userID, id, in)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}

		if in.InterviewDate != nil && *in.InterviewDate != "" && app.InterviewDate != nil {
			notifyInterviewScheduled(db, mail, userID, app)
		}

		c.JSON(http.StatusOK, app)
	}
}

// DeleteApplication removes an owned application, its interviews, and its
// stored resume.
func DeleteApplication(db store.Database, minioClient *storage.MinIOClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")
		id, ok := parseID(c)
		if !ok {
			return
		}

		app, err := db.GetApplication(userID, id)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}

		if err := db.DeleteApplication(userID, id); err != nil {
			respondStoreError(c, logger, err)
			return
		}

		if app.Resume != "" {
			if err := minioClient.DeleteResume(context.Background(), app.Resume); err != nil {
				logger.Warn("failed to remove resume of deleted application",
					zap.String("object", app.Resume), zap.Error(err))
			}
		}

		c.JSON(http.StatusOK, gin.H{"message": "Job application deleted successfully"})
	}
}

// RecentApplications lists all owned applications, newest applied_date
// first, each with its first-interview fields.
func RecentApplications(db store.Database, minioClient *storage.MinIOClient, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		apps, err := db.RecentApplications(userID)
		if err != nil {
			respondStoreError(c, logger, err)
			return
		}

		for i := range apps {
			presignResume(c.Request.Context(), minioClient, logger, &apps[i])
		}

		c.JSON(http.StatusOK, apps)
	}
}

func applicationInputFromForm(c *gin.Context) store.ApplicationInput {
	return store.ApplicationInput{
		Company:        c.PostForm("company"),
		Position:       c.PostForm("position"),
		AppliedDate:    c.PostForm("applied_date"),
		Status:         c.PostForm("status"),
		JobDescription: c.PostForm("job_description"),
		ContactEmail:   c.PostForm("contact_email"),
		ContactPhone:   c.PostForm("contact_phone"),
		CompanyWebsite: c.PostForm("company_website"),
		Notes:          c.PostForm("notes"),
		InterviewDate:  c.PostForm("interview_date"),
		InterviewTime:  c.PostForm("interview_time"),
		InterviewType:  c.PostForm("interview_type"),
	}
}

func notifyInterviewScheduled(db store.Database, mail *mailer.Worker, userID uint, app *store.ApplicationView) {
	user, err := db.GetUser(userID)
	if err != nil {
		return
	}
	mail.Enqueue(mailer.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Interview scheduled with %s", app.Company),
		HTMLBody: fmt.Sprintf("<p>Your %s interview for %s at %s is on %s at %s.</p>",
			*app.InterviewType, app.Position, app.Company, *app.InterviewDate, *app.InterviewTime),
	})
}

func presignResume(ctx context.Context, minioClient *storage.MinIOClient, logger *zap.Logger, app *store.ApplicationView) {
	if app.Resume == "" || minioClient == nil {
		return
	}
	url, err := minioClient.GetPresignedURL(ctx, app.Resume)
	if err != nil {
		logger.Warn("failed to presign resume URL", zap.String("object", app.Resume), zap.Error(err))
		return
	}
	app.Resume = url
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job application not found"})
		return 0, false
	}
	return uint(id), true
}

// respondStoreError maps the store's failure taxonomy onto HTTP statuses.
// Unexpected errors are logged in full and reported generically.
func respondStoreError(c *gin.Context, logger *zap.Logger, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.Is(err, store.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Job application not found"})
	default:
		logger.Error("storage failure", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
	}
}
