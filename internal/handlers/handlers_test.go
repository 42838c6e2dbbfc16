// internal/handlers/handlers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jobtrack-back/internal/database"
	"jobtrack-back/internal/mailer"
	"jobtrack-back/internal/middleware"
	"jobtrack-back/internal/store"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	orm, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateDB(orm))

	appStore := store.NewDatabase(orm)
	logger := zap.NewNop()
	mailWorker := mailer.NewWorker(mailer.NewSendGridClient(logger), logger)
	t.Cleanup(mailWorker.Close)

	r := gin.New()
	public := r.Group("/api")
	{
		public.POST("/register", Register(orm, mailWorker, logger))
		public.POST("/login", Login(orm, logger))
		public.POST("/logout", Logout)
		public.POST("/support", SubmitSupportRequest(logger))
	}

	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", GetProfile(orm))
		protected.POST("/applications", CreateApplication(appStore, nil, mailWorker, logger))
		protected.GET("/applications/:id", GetApplication(appStore, nil, logger))
		protected.PUT("/applications/:id", UpdateApplication(appStore, mailWorker, logger))
		protected.DELETE("/applications/:id", DeleteApplication(appStore, nil, logger))
		protected.GET("/recent-applications", RecentApplications(appStore, nil, logger))
		protected.GET("/job-stats", JobStats(appStore, logger))
		protected.GET("/upcoming-interviews", UpcomingInterviews(appStore, logger))
		protected.GET("/interview-stats", InterviewStats(appStore, logger))
	}
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func registerUser(t *testing.T, r *gin.Engine, username string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestRegisterAndLogin(t *testing.T) {
	r := newTestRouter(t)

	token := registerUser(t, r, "sam")

	// Duplicate username rejected.
	w := doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": "sam",
		"email":    "other@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Short password rejected by binding.
	w = doJSON(t, r, http.MethodPost, "/api/register", "", gin.H{
		"username": "pat",
		"email":    "pat@example.com",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Login works with the right password only.
	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"username": "sam",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/login", "", gin.H{
		"username": "sam",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// The issued token resolves the profile.
	w = doJSON(t, r, http.MethodGet, "/api/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"sam"`)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	r := newTestRouter(t)

	for _, path := range []string{"/api/profile", "/api/recent-applications", "/api/job-stats"} {
		w := doJSON(t, r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}

	w := doJSON(t, r, http.MethodGet, "/api/profile", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestApplicationLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "sam")

	// Create
	w := doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{
		"company":      "Acme",
		"position":     "Engineer",
		"status":       "Applied",
		"applied_date": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	// Stats after create
	w = doJSON(t, r, http.MethodGet, "/api/job-stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":1,"applied":1,"ghosted":0,"interviewing":0,"assessment":0,"offered":0}`, w.Body.String())

	// Update to Interviewing with interview fields
	path := fmt.Sprintf("/api/applications/%d", created.ID)
	w = doJSON(t, r, http.MethodPut, path, token, gin.H{
		"status":         "Interviewing",
		"interview_date": "2024-01-10",
		"interview_time": "14:00",
		"interview_type": "HR",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"interview_date":"2024-01-10"`)
	assert.Contains(t, w.Body.String(), `"interview_time":"14:00"`)
	assert.Contains(t, w.Body.String(), `"interview_type":"HR"`)

	w = doJSON(t, r, http.MethodGet, "/api/job-stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":1,"applied":0,"ghosted":0,"interviewing":1,"assessment":0,"offered":0}`, w.Body.String())

	// Get echoes the enriched representation
	w = doJSON(t, r, http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"company":"Acme"`)

	// Delete
	w = doJSON(t, r, http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestApplicationValidationAndConflict(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "sam")

	// Missing required fields
	w := doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{"position": "Engineer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown status is rejected, not trusted
	w = doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{
		"company": "Acme", "position": "Engineer", "status": "Dreaming",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate live application conflicts
	w = doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{"company": "Acme", "position": "Engineer"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doJSON(t, r, http.MethodPost, "/api/applications", token, gin.H{"company": "Acme", "position": "Engineer"})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCrossUserLookupsAreNotFound(t *testing.T) {
	r := newTestRouter(t)
	ownerToken := registerUser(t, r, "owner")
	otherToken := registerUser(t, r, "other")

	w := doJSON(t, r, http.MethodPost, "/api/applications", ownerToken, gin.H{"company": "Acme", "position": "Engineer"})
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	path := fmt.Sprintf("/api/applications/%d", created.ID)

	// Same uniform 404 for another user's row and for a nonexistent one.
	w = doJSON(t, r, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodPut, path, otherToken, gin.H{"status": "Offered"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/applications/999999", otherToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Listings never leak the other user's rows.
	w = doJSON(t, r, http.MethodGet, "/api/recent-applications", otherToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestInterviewStatsEndpoint(t *testing.T) {
	r := newTestRouter(t)
	token := registerUser(t, r, "sam")

	w := doJSON(t, r, http.MethodGet, "/api/interview-stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"upcoming":0,"completed":0,"total":0,"success_rate":"0%"}`, w.Body.String())
}

func TestSupportEndpointGone(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/support", "", gin.H{"message": "help"})
	assert.Equal(t, http.StatusGone, w.Code)
}
