// internal/handlers/auth.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"jobtrack-back/internal/auth"
	"jobtrack-back/internal/mailer"
	"jobtrack-back/internal/models"
)

type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func Register(db *gorm.DB, mail *mailer.Worker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Check if user exists
		var existing models.User
		if err := db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
			return
		}
		if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email already exists"})
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
			return
		}

		user := models.User{
			Username:  req.Username,
			Email:     req.Email,
			Password:  string(hashedPassword),
			FirstName: req.FirstName,
			LastName:  req.LastName,
		}

		if err := db.Create(&user).Error; err != nil {
			logger.Error("failed to create user", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "User already exists"})
			return
		}

		token, err := auth.GenerateToken(user.ID)
		if err != nil {
			logger.Error("failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
			return
		}

		mail.Enqueue(mailer.Message{
			To:       user.Email,
			Subject:  "Welcome to JobTrack",
			HTMLBody: fmt.Sprintf("<p>Hi %s, your account is ready. Good luck out there.</p>", user.Username),
		})

		setAuthCookie(c, token)
		c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
	}
}

func Login(db *gorm.DB, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid username or password"})
			return
		}

		token, err := auth.GenerateToken(user.ID)
		if err != nil {
			logger.Error("failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "An error occurred"})
			return
		}

		setAuthCookie(c, token)
		c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
	}
}

func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userID")

		var user models.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}

func Logout(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func setAuthCookie(c *gin.Context, token string) {
	c.SetCookie("auth_token", token, 86400, "/", "", false, true)
}
