// cmd/server/main.go
package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"jobtrack-back/internal/database"
	"jobtrack-back/internal/handlers"
	"jobtrack-back/internal/mailer"
	"jobtrack-back/internal/middleware"
	"jobtrack-back/internal/storage"
	"jobtrack-back/internal/store"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	db, err := database.InitDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Auto-migrate models
	if err := database.MigrateDB(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	minioClient, err := storage.NewMinIOClient()
	if err != nil {
		log.Fatal("Failed to initialize MinIO client:", err)
	}

	appStore := store.NewDatabase(db)

	mailWorker := mailer.NewWorker(mailer.NewSendGridClient(logger), logger)
	defer mailWorker.Close()

	// Initialize Gin router
	r := gin.Default()

	// CORS middleware
	r.Use(middleware.CORSMiddleware())

	// Public routes
	public := r.Group("/api")
	{
		public.POST("/register", handlers.Register(db, mailWorker, logger))
		public.POST("/login", handlers.Login(db, logger))
		public.POST("/logout", handlers.Logout)
		public.POST("/support", handlers.SubmitSupportRequest(logger))
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile(db))
		protected.POST("/applications", handlers.CreateApplication(appStore, minioClient, mailWorker, logger))
		protected.GET("/applications/:id", handlers.GetApplication(appStore, minioClient, logger))
		protected.PUT("/applications/:id", handlers.UpdateApplication(appStore, mailWorker, logger))
		protected.DELETE("/applications/:id", handlers.DeleteApplication(appStore, minioClient, logger))
		protected.GET("/recent-applications", handlers.RecentApplications(appStore, minioClient, logger))
		protected.GET("/job-stats", handlers.JobStats(appStore, logger))
		protected.GET("/upcoming-interviews", handlers.UpcomingInterviews(appStore, logger))
		protected.GET("/interview-stats", handlers.InterviewStats(appStore, logger))
	}

	// Get port from env or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
