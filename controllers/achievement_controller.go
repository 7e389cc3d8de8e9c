package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// AchievementController manages company achievement definitions and the
// employee views over them.
type AchievementController struct {
	db *gorm.DB
}

// NewAchievementController creates the controller.
func NewAchievementController(db *gorm.DB) *AchievementController {
	return &AchievementController{db: db}
}

// List returns the company's achievement catalog.
func (ac *AchievementController) List(ctx *gin.Context) {
	var achievements []models.Achievement
	err := ac.db.
		Where("company_id = ?", currentCompanyID(ctx)).
		Order("threshold ASC, id ASC").
		Find(&achievements).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list achievements")
		return
	}
	utils.Success(ctx, achievements)
}

type achievementRequest struct {
	Name          string `json:"name" binding:"required,min=2,max=128"`
	Description   string `json:"description" binding:"max=512"`
	CriterionType string `json:"criterion_type" binding:"required"`
	Threshold     int    `json:"threshold" binding:"required,min=1"`
}

// Create defines a new achievement for the company.
func (ac *AchievementController) Create(ctx *gin.Context) {
	var req achievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid achievement payload")
		return
	}
	if !models.ValidCriterionType(req.CriterionType) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "unknown criterion type")
		return
	}

	achievement := models.Achievement{
		CompanyID:     currentCompanyID(ctx),
		Name:          utils.Sanitize(req.Name),
		Description:   utils.Sanitize(req.Description),
		CriterionType: req.CriterionType,
		Threshold:     req.Threshold,
	}
	if err := ac.db.Create(&achievement).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to create achievement")
		return
	}
	utils.Success(ctx, achievement)
}

// Update edits an achievement definition. Existing grants are untouched.
func (ac *AchievementController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid achievement id")
		return
	}

	var req achievementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40050, "invalid achievement payload")
		return
	}
	if !models.ValidCriterionType(req.CriterionType) {
		utils.Error(ctx, http.StatusBadRequest, 40051, "unknown criterion type")
		return
	}

	var achievement models.Achievement
	if err := ac.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&achievement).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40450, "achievement not found")
		return
	}

	achievement.Name = utils.Sanitize(req.Name)
	achievement.Description = utils.Sanitize(req.Description)
	achievement.CriterionType = req.CriterionType
	achievement.Threshold = req.Threshold
	if err := ac.db.Save(&achievement).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to update achievement")
		return
	}
	utils.Success(ctx, achievement)
}

// Delete removes an achievement definition and its grants.
func (ac *AchievementController) Delete(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40052, "invalid achievement id")
		return
	}

	var achievement models.Achievement
	if err := ac.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&achievement).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40450, "achievement not found")
		return
	}

	err := ac.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("achievement_id = ?", achievement.ID).Delete(&models.EmployeeAchievement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&achievement).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to delete achievement")
		return
	}
	utils.Success(ctx, nil)
}

// Mine returns the achievements the requester has earned, newest first.
func (ac *AchievementController) Mine(ctx *gin.Context) {
	var earned []models.EmployeeAchievement
	err := ac.db.
		Preload("Achievement").
		Where("user_id = ?", currentUserID(ctx)).
		Order("earned_at DESC").
		Find(&earned).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50054, "failed to list earned achievements")
		return
	}
	utils.Success(ctx, earned)
}
