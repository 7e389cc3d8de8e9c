package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// EventController manages seasonal reward multiplier events. Admins manage
// their own company's events; global events are read-only here.
type EventController struct {
	db *gorm.DB
}

// NewEventController creates the controller.
func NewEventController(db *gorm.DB) *EventController {
	return &EventController{db: db}
}

// List returns the company's events plus the global ones.
func (ec *EventController) List(ctx *gin.Context) {
	var events []models.SeasonalEvent
	err := ec.db.
		Where("company_id = ? OR company_id IS NULL", currentCompanyID(ctx)).
		Order("start_date DESC, id DESC").
		Find(&events).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50070, "failed to list events")
		return
	}
	utils.Success(ctx, events)
}

type eventRequest struct {
	Name                 string    `json:"name" binding:"required,min=2,max=128"`
	Description          string    `json:"description" binding:"max=512"`
	PointsMultiplier     int       `json:"points_multiplier" binding:"required,min=1,max=10"`
	ExperienceMultiplier int       `json:"experience_multiplier" binding:"required,min=1,max=10"`
	StartDate            time.Time `json:"start_date" binding:"required"`
	EndDate              time.Time `json:"end_date" binding:"required"`
	IsActive             *bool     `json:"is_active"`
}

// Create defines a new seasonal event scoped to the admin's company.
func (ec *EventController) Create(ctx *gin.Context) {
	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid event payload")
		return
	}
	if req.EndDate.Before(req.StartDate) {
		utils.Error(ctx, http.StatusBadRequest, 40071, "end date before start date")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	companyID := currentCompanyID(ctx)
	event := models.SeasonalEvent{
		CompanyID:            &companyID,
		Name:                 utils.Sanitize(req.Name),
		Description:          utils.Sanitize(req.Description),
		PointsMultiplier:     req.PointsMultiplier,
		ExperienceMultiplier: req.ExperienceMultiplier,
		StartDate:            req.StartDate,
		EndDate:              req.EndDate,
		IsActive:             active,
	}
	if err := ec.db.Create(&event).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50071, "failed to create event")
		return
	}
	utils.Success(ctx, event)
}

// Update edits one of the company's own events.
func (ec *EventController) Update(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40072, "invalid event id")
		return
	}

	var req eventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40070, "invalid event payload")
		return
	}
	if req.EndDate.Before(req.StartDate) {
		utils.Error(ctx, http.StatusBadRequest, 40071, "end date before start date")
		return
	}

	var event models.SeasonalEvent
	if err := ec.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&event).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40470, "event not found")
		return
	}

	event.Name = utils.Sanitize(req.Name)
	event.Description = utils.Sanitize(req.Description)
	event.PointsMultiplier = req.PointsMultiplier
	event.ExperienceMultiplier = req.ExperienceMultiplier
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	if req.IsActive != nil {
		event.IsActive = *req.IsActive
	}

	if err := ec.db.Save(&event).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50072, "failed to update event")
		return
	}
	utils.Success(ctx, event)
}

// Deactivate turns an event off without deleting it.
func (ec *EventController) Deactivate(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40072, "invalid event id")
		return
	}

	var event models.SeasonalEvent
	if err := ec.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&event).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40470, "event not found")
		return
	}

	event.IsActive = false
	if err := ec.db.Save(&event).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50073, "failed to deactivate event")
		return
	}
	utils.Success(ctx, event)
}
