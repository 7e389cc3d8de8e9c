package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

const tokenDuration = 24 * time.Hour

// AuthController handles company signup, login and session management.
type AuthController struct {
	db *gorm.DB
}

// NewAuthController creates the controller.
func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

type registerRequest struct {
	CompanyName  string `json:"company_name" binding:"required,min=2,max=128"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	Username     string `json:"username" binding:"required,min=3,max=64"`
	Email        string `json:"email" binding:"omitempty,email"`
	Password     string `json:"password" binding:"required,min=8,max=72"`
}

// Register creates a new company tenant together with its first admin user.
func (ac *AuthController) Register(ctx *gin.Context) {
	var req registerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40001, "invalid registration payload")
		return
	}

	username := strings.TrimSpace(strings.ToLower(req.Username))

	var existing models.User
	if err := ac.db.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40901, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50001, "registration failed")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50002, "registration failed")
		return
	}

	var user models.User
	err = ac.db.Transaction(func(tx *gorm.DB) error {
		company := models.Company{
			Name:         utils.Sanitize(req.CompanyName),
			ContactEmail: req.ContactEmail,
			IsActive:     true,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		user = models.User{
			CompanyID:    company.ID,
			Username:     username,
			Email:        req.Email,
			PasswordHash: hash,
			Role:         models.RoleAdmin,
			IsActive:     true,
			Level:        1,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		utils.Sugar.Errorf("registration failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50003, "registration failed")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.CompanyID, user.Role, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50004, "token generation failed")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and issues a JWT.
func (ac *AuthController) Login(ctx *gin.Context) {
	var req loginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid login payload")
		return
	}

	username := strings.TrimSpace(strings.ToLower(req.Username))

	var user models.User
	if err := ac.db.Where("username = ?", username).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid credentials")
		return
	}
	if !user.IsActive {
		utils.Error(ctx, http.StatusForbidden, 40310, "account disabled")
		return
	}
	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "invalid credentials")
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Username, user.CompanyID, user.Role, tokenDuration)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50005, "token generation failed")
		return
	}

	utils.Success(ctx, gin.H{"token": token, "user": user})
}

// Logout revokes the presented token until its natural expiration.
func (ac *AuthController) Logout(ctx *gin.Context) {
	authHeader := ctx.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 {
		if claims, err := utils.ParseToken(parts[1]); err == nil && claims.ExpiresAt != nil {
			utils.BlacklistToken(parts[1], claims.ExpiresAt.Time)
		}
	}
	utils.Success(ctx, nil)
}

// Me returns the authenticated user's account.
func (ac *AuthController) Me(ctx *gin.Context) {
	var user models.User
	if err := ac.db.First(&user, currentUserID(ctx)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}
	utils.Success(ctx, user)
}

type updateProfileRequest struct {
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=8,max=72"`
}

// UpdateProfile lets the authenticated user change email or password.
func (ac *AuthController) UpdateProfile(ctx *gin.Context) {
	var req updateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40003, "invalid profile payload")
		return
	}

	var user models.User
	if err := ac.db.First(&user, currentUserID(ctx)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40410, "user not found")
		return
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			utils.Error(ctx, http.StatusInternalServerError, 50006, "profile update failed")
			return
		}
		user.PasswordHash = hash
	}

	if err := ac.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50007, "profile update failed")
		return
	}
	utils.Success(ctx, user)
}
