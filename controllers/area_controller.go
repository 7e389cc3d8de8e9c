package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// AreaController manages collection areas and the bins inside them.
type AreaController struct {
	db *gorm.DB
}

// NewAreaController creates the controller.
func NewAreaController(db *gorm.DB) *AreaController {
	return &AreaController{db: db}
}

// ListAreas returns the company's collection areas with their bins.
func (ac *AreaController) ListAreas(ctx *gin.Context) {
	var areas []models.CollectionArea
	err := ac.db.
		Preload("Bins").
		Where("company_id = ?", currentCompanyID(ctx)).
		Order("id ASC").
		Find(&areas).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to list areas")
		return
	}
	utils.Success(ctx, areas)
}

type areaRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=128"`
	Description string `json:"description" binding:"max=512"`
}

// CreateArea adds a collection area to the company.
func (ac *AreaController) CreateArea(ctx *gin.Context) {
	var req areaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid area payload")
		return
	}

	area := models.CollectionArea{
		CompanyID:   currentCompanyID(ctx),
		Name:        utils.Sanitize(req.Name),
		Description: utils.Sanitize(req.Description),
	}
	if err := ac.db.Create(&area).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to create area")
		return
	}
	utils.Success(ctx, area)
}

// UpdateArea renames or redescribes an area.
func (ac *AreaController) UpdateArea(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid area id")
		return
	}

	var req areaRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid area payload")
		return
	}

	var area models.CollectionArea
	if err := ac.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&area).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "area not found")
		return
	}

	area.Name = utils.Sanitize(req.Name)
	area.Description = utils.Sanitize(req.Description)
	if err := ac.db.Save(&area).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to update area")
		return
	}
	utils.Success(ctx, area)
}

// DeleteArea soft-deletes an area and its bins.
func (ac *AreaController) DeleteArea(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40031, "invalid area id")
		return
	}

	var area models.CollectionArea
	if err := ac.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&area).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "area not found")
		return
	}

	err := ac.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("collection_area_id = ?", area.ID).Delete(&models.Bin{}).Error; err != nil {
			return err
		}
		return tx.Delete(&area).Error
	})
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to delete area")
		return
	}
	utils.Success(ctx, nil)
}

type binRequest struct {
	CollectionAreaID uint   `json:"collection_area_id" binding:"required"`
	BinType          string `json:"bin_type" binding:"required"`
	Label            string `json:"label" binding:"max=128"`
}

// CreateBin adds a bin to one of the company's areas.
func (ac *AreaController) CreateBin(ctx *gin.Context) {
	var req binRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, "invalid bin payload")
		return
	}
	if !models.ValidBinType(req.BinType) {
		utils.Error(ctx, http.StatusBadRequest, 40033, "unknown bin type")
		return
	}

	var area models.CollectionArea
	if err := ac.db.Where("id = ? AND company_id = ?", req.CollectionAreaID, currentCompanyID(ctx)).First(&area).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40430, "area not found")
		return
	}

	bin := models.Bin{
		CollectionAreaID: area.ID,
		CompanyID:        area.CompanyID,
		BinType:          req.BinType,
		Label:            utils.Sanitize(req.Label),
	}
	if err := ac.db.Create(&bin).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to create bin")
		return
	}
	utils.Success(ctx, bin)
}

// DeleteBin soft-deletes a bin.
func (ac *AreaController) DeleteBin(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40034, "invalid bin id")
		return
	}

	var bin models.Bin
	if err := ac.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&bin).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40431, "bin not found")
		return
	}
	if err := ac.db.Delete(&bin).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to delete bin")
		return
	}
	utils.Success(ctx, nil)
}
