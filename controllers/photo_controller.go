package controllers

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

var allowedPhotoExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

const maxPhotoSizeBytes = 10 << 20

// JobPublisher enqueues a classification job for an uploaded photo.
type JobPublisher interface {
	PublishJob(photoID uint) error
}

// PhotoController handles waste photo upload and retrieval. Uploads are stored
// on local disk and classified asynchronously through the job queue.
type PhotoController struct {
	db        *gorm.DB
	queue     JobPublisher
	uploadDir string
}

// NewPhotoController creates the controller.
func NewPhotoController(db *gorm.DB, queue JobPublisher, uploadDir string) *PhotoController {
	return &PhotoController{db: db, queue: queue, uploadDir: uploadDir}
}

// Upload accepts a multipart photo, persists a pending record and enqueues a
// classification job. The response returns immediately with the pending photo.
func (pc *PhotoController) Upload(ctx *gin.Context) {
	file, err := ctx.FormFile("photo")
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40040, "photo file missing")
		return
	}
	if file.Size > maxPhotoSizeBytes {
		utils.Error(ctx, http.StatusBadRequest, 40041, "photo too large")
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedPhotoExt[ext] {
		utils.Error(ctx, http.StatusBadRequest, 40042, "unsupported photo format")
		return
	}

	storageKey := uuid.New().String() + ext
	if err := ctx.SaveUploadedFile(file, filepath.Join(pc.uploadDir, storageKey)); err != nil {
		utils.Sugar.Errorf("photo save failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to store photo")
		return
	}

	photo := models.WastePhoto{
		UserID:       currentUserID(ctx),
		CompanyID:    currentCompanyID(ctx),
		StorageKey:   storageKey,
		OriginalName: filepath.Base(file.Filename),
		Status:       models.PhotoPending,
	}
	if err := pc.db.Create(&photo).Error; err != nil {
		utils.Sugar.Errorf("photo record create failed: %v", err)
		utils.Error(ctx, http.StatusInternalServerError, 50041, "failed to store photo")
		return
	}

	if err := pc.queue.PublishJob(photo.ID); err != nil {
		// The photo stays pending; a broker outage must not lose the upload.
		utils.Sugar.Errorf("classification enqueue failed photo=%d: %v", photo.ID, err)
	}

	utils.Success(ctx, photo)
}

// ListMine returns the requester's photos, newest first, paginated.
func (pc *PhotoController) ListMine(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx)
	userID := currentUserID(ctx)

	query := pc.db.Model(&models.WastePhoto{}).Where("user_id = ?", userID)
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	query.Count(&total)

	var photos []models.WastePhoto
	err := query.
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&photos).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50042, "failed to list photos")
		return
	}

	utils.Success(ctx, gin.H{
		"items":     photos,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

// Get returns a single photo. Employees see only their own photos; admins see
// any photo in their company.
func (pc *PhotoController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx)
	if !ok {
		utils.Error(ctx, http.StatusBadRequest, 40043, "invalid photo id")
		return
	}

	var photo models.WastePhoto
	if err := pc.db.Where("id = ? AND company_id = ?", id, currentCompanyID(ctx)).First(&photo).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40440, "photo not found")
		return
	}
	if photo.UserID != currentUserID(ctx) && !isAdmin(ctx) {
		utils.Error(ctx, http.StatusForbidden, 40340, "not your photo")
		return
	}
	utils.Success(ctx, photo)
}
