package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"attachd/middleware"
	"attachd/models"
	"attachd/utils"
)

const tokenLifetime = 72 * time.Hour

// AuthController manages account registration and JWT sessions.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates a new AuthController instance.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// Register creates an account and grants the default attachment permissions.
func (a *AuthController) Register(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email" binding:"omitempty,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid request payload")
		return
	}

	username := utils.SanitizeLabel(req.Username)
	if username == "" {
		utils.Error(ctx, http.StatusBadRequest, 40002, "username cannot be empty")
		return
	}

	var existing models.User
	if err := a.db.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already taken")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to hash password")
		return
	}

	user := models.User{Username: username, Email: req.Email, PasswordHash: hash}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "failed to create user")
		return
	}

	// New accounts may attach files and remove their own attachments;
	// delete_foreign_attachments stays an operator-granted elevation.
	if err := user.Grant(a.db, models.PermAddAttachment, models.PermDeleteAttachment); err != nil {
		utils.Sugar.Errorf("failed to grant default permissions to user %d: %v", user.ID, err)
	}

	utils.Success(ctx, gin.H{"user": user})
}

// Login verifies credentials and issues a JWT.
func (a *AuthController) Login(ctx *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid request payload")
		return
	}

	var user models.User
	if err := a.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40106, "invalid username or password")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, tokenLifetime)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "failed to generate token")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout invalidates the token by blacklisting it until expiration.
func (a *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		utils.Error(ctx, http.StatusUnauthorized, 40107, "invalid authorization header")
		return
	}

	token := strings.TrimSpace(parts[1])
	claims, err := utils.ParseToken(token)
	if err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40105, "invalid token")
		return
	}

	expiresAt := time.Now().Add(tokenLifetime)
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}

	utils.BlacklistToken(token, expiresAt)
	utils.Success(ctx, gin.H{"message": "logged out"})
}

// Me returns the authenticated user's profile.
func (a *AuthController) Me(ctx *gin.Context) {
	user := currentUser(ctx, a.db)
	if user == nil {
		utils.Error(ctx, http.StatusUnauthorized, 40108, "unauthorized")
		return
	}
	utils.Success(ctx, user)
}

// currentUser loads the authenticated user set by the auth middleware.
// Returns nil when the request is unauthenticated or the account is gone.
func currentUser(ctx *gin.Context, db *gorm.DB) *models.User {
	raw, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return nil
	}
	userID, ok := raw.(uint)
	if !ok {
		return nil
	}
	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		return nil
	}
	return &user
}
