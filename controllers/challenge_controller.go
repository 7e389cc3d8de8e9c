package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/services"
	"github.com/wastewise/wastewise/utils"
)

// ChallengeController manages daily challenge definitions and employee
// progress views.
type ChallengeController struct {
	db         *gorm.DB
	challenges *services.ChallengeService
}

// NewChallengeController creates the controller.
func NewChallengeController(db *gorm.DB, challenges *services.ChallengeService) *ChallengeController {
	return &ChallengeController{db: db, challenges: challenges}
}

// List returns the company's challenge definitions, newest first.
func (cc *ChallengeController) List(ctx *gin.Context) {
	var challenges []models.DailyChallenge
	err := cc.db.
		Where("company_id = ?", currentCompanyID(ctx)).
		Order("start_date DESC, id DESC").
		Find(&challenges).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50060, "failed to list challenges")
		return
	}
	utils.Success(ctx, challenges)
}

type challengeRequest struct {
	Title            string    `json:"title" binding:"required,min=2,max=128"`
	Description      string    `json:"description" binding:"max=512"`
	CriterionType    string    `json:"criterion_type" binding:"required"`
	Target           int       `json:"target" binding:"required,min=1"`
	RewardPoints     int       `json:"reward_points" binding:"min=0"`
	RewardExperience int       `json:"reward_experience" binding:"min=0"`
	StartDate        time.Time `json:"start_date" binding:"required"`
	EndDate          time.Time `json:"end_date" binding:"required"`
	IsActive         *bool     `json:"is_active"`
}

func (r challengeRequest) validate() (code int, msg string) {
	if !models.ValidCriterionType(r.CriterionType) {
		return 40061, "unknown criterion type"
	}
	if r.EndDate.Before(r.StartDate) {
		return 40062, "end date before start date"
	}
	return 0, ""
}

// Create defines a new daily challenge.
func (cc *ChallengeController) Create(ctx *gin.Context) {
	var req challengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid challenge payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	challenge := models.DailyChallenge{
		CompanyID:        currentCompanyID(ctx),
		Title:            utils.Sanitize(req.Title),
		Description:      utils.Sanitize(req.Description),
		CriterionType:    req.CriterionType,
		Target:           req.Target,
		RewardPoints:     req.RewardPoints,
		RewardExperience: req.RewardExperience,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		IsActive:         active,
	}
	if err := cc.db.Create(&challenge).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50061, "failed to create challenge")
		return
	}
	utils.Success(ctx, challenge)
}

// Update edits a challenge definition. Frozen completed progress is untouched.
func (cc *ChallengeController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid challenge id")
		return
	}

	var req challengeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40060, "invalid challenge payload")
		return
	}
	if code, msg := req.validate(); code != 0 {
		utils.Error(ctx, http.StatusBadRequest, code, msg)
		return
	}

	var challenge models.DailyChallenge
	if err := cc.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&challenge).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40460, "challenge not found")
		return
	}

	challenge.Title = utils.Sanitize(req.Title)
	challenge.Description = utils.Sanitize(req.Description)
	challenge.CriterionType = req.CriterionType
	challenge.Target = req.Target
	challenge.RewardPoints = req.RewardPoints
	challenge.RewardExperience = req.RewardExperience
	challenge.StartDate = req.StartDate
	challenge.EndDate = req.EndDate
	if req.IsActive != nil {
		challenge.IsActive = *req.IsActive
	}

	if err := cc.db.Save(&challenge).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50062, "failed to update challenge")
		return
	}
	utils.Success(ctx, challenge)
}

// Deactivate stops a challenge without deleting progress history.
func (cc *ChallengeController) Deactivate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40063, "invalid challenge id")
		return
	}

	var challenge models.DailyChallenge
	if err := cc.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&challenge).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40460, "challenge not found")
		return
	}

	challenge.IsActive = false
	if err := cc.db.Save(&challenge).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50063, "failed to deactivate challenge")
		return
	}
	utils.Success(ctx, challenge)
}

// MyProgress recomputes and returns the requester's progress on every active
// challenge. Completions detected here pay out immediately.
func (cc *ChallengeController) MyProgress(ctx *gin.Context) {
	progress := cc.challenges.TrackProgress(currentUserID(ctx), currentCompanyID(ctx), time.Now())
	if progress == nil {
		progress = []models.DailyChallengeProgress{}
	}
	utils.Success(ctx, progress)
}
