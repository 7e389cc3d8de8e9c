package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// CompanyController manages employee accounts and company-level analytics.
// All operations are scoped to the admin's own company.
type CompanyController struct {
	db *gorm.DB
}

// NewCompanyController creates the controller.
func NewCompanyController(db *gorm.DB) *CompanyController {
	return &CompanyController{db: db}
}

// ListEmployees returns the company's users, paginated.
func (cc *CompanyController) ListEmployees(ctx *gin.Context) {
	companyID := currentCompanyID(ctx)
	page, pageSize := parsePagination(ctx)

	var total int64
	cc.db.Model(&models.User{}).Where("company_id = ?", companyID).Count(&total)

	var users []models.User
	err := cc.db.
		Where("company_id = ?", companyID).
		Order("id ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to list employees")
		return
	}

	utils.Success(ctx, gin.H{
		"items":     users,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

type createEmployeeRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"omitempty,oneof=admin employee"`
}

// CreateEmployee provisions a new account inside the admin's company.
func (cc *CompanyController) CreateEmployee(ctx *gin.Context) {
	var req createEmployeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid employee payload")
		return
	}

	username := strings.TrimSpace(strings.ToLower(req.Username))

	var existing models.User
	if err := cc.db.Where("username = ?", username).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, 40920, "username already taken")
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to create employee")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to create employee")
		return
	}

	userRole := req.Role
	if userRole == "" {
		userRole = models.RoleEmployee
	}

	user := models.User{
		CompanyID:    currentCompanyID(ctx),
		Username:     username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         userRole,
		IsActive:     true,
		Level:        1,
	}
	if err := cc.db.Create(&user).Error; err != nil {
		utils.Sugar.Errorf("employee create failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create employee")
		return
	}

	utils.Success(ctx, user)
}

// DeactivateEmployee disables an account without deleting its history.
func (cc *CompanyController) DeactivateEmployee(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid employee id")
		return
	}
	if id == currentUserID(ctx) {
		utils.Error(ctx, http.StatusBadRequest, 40022, "cannot deactivate own account")
		return
	}

	var user models.User
	if err := cc.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&user).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40420, "employee not found")
		return
	}

	user.IsActive = false
	if err := cc.db.Save(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to deactivate employee")
		return
	}
	utils.Success(ctx, user)
}

// Analytics summarizes the company's classification and engagement activity.
func (cc *CompanyController) Analytics(ctx *gin.Context) {
	companyID := currentCompanyID(ctx)

	var totalPhotos, classified, failed, pending int64
	cc.db.Model(&models.WastePhoto{}).Where("company_id = ?", companyID).Count(&totalPhotos)
	cc.db.Model(&models.WastePhoto{}).Where("company_id = ? AND status = ?", companyID, models.PhotoClassified).Count(&classified)
	cc.db.Model(&models.WastePhoto{}).Where("company_id = ? AND status = ?", companyID, models.PhotoFailed).Count(&failed)
	cc.db.Model(&models.WastePhoto{}).Where("company_id = ? AND status = ?", companyID, models.PhotoPending).Count(&pending)

	var matched int64
	cc.db.Model(&models.WastePhoto{}).
		Where("company_id = ? AND status = ? AND matched_bin_id IS NOT NULL", companyID, models.PhotoClassified).
		Count(&matched)

	var activeUsers int64
	cc.db.Model(&models.User{}).Where("company_id = ? AND is_active = ?", companyID, true).Count(&activeUsers)

	var achievementsEarned int64
	cc.db.Model(&models.EmployeeAchievement{}).
		Joins("JOIN achievements ON achievements.id = employee_achievements.achievement_id").
		Where("achievements.company_id = ?", companyID).
		Count(&achievementsEarned)

	type binBucket struct {
		BinType string `json:"bin_type"`
		Count   int64  `json:"count"`
	}
	var byBin []binBucket
	cc.db.Model(&models.WastePhoto{}).
		Select("recommended_bin_type AS bin_type, COUNT(*) AS count").
		Where("company_id = ? AND status = ?", companyID, models.PhotoClassified).
		Group("recommended_bin_type").
		Scan(&byBin)

	utils.Success(ctx, gin.H{
		"photos": gin.H{
			"total":      totalPhotos,
			"classified": classified,
			"failed":     failed,
			"pending":    pending,
			"matched":    matched,
			"by_bin":     byBin,
		},
		"active_users":        activeUsers,
		"achievements_earned": achievementsEarned,
	})
}
