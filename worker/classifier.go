package worker

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/services"
	"github.com/wastewise/wastewise/utils"
)

// Classifier processes one classification job end to end: call the vision
// service, persist the photo verdict, then run the gamification pipeline.
// Engine failures after the verdict is persisted never fail the job; those
// paths degrade to logged no-ops so at-least-once delivery cannot double
// apply a photo verdict.
type Classifier struct {
	db           *gorm.DB
	vision       *VisionClient
	gamification *services.GamificationService
	achievements *services.AchievementService
	leaderboard  *services.LeaderboardService

	uploadDir    string
	rewardPoints int
	rewardExp    int
}

// NewClassifier wires the job processor.
func NewClassifier(
	db *gorm.DB,
	vision *VisionClient,
	gamification *services.GamificationService,
	achievements *services.AchievementService,
	leaderboard *services.LeaderboardService,
	uploadDir string,
	rewardPoints, rewardExp int,
) *Classifier {
	return &Classifier{
		db:           db,
		vision:       vision,
		gamification: gamification,
		achievements: achievements,
		leaderboard:  leaderboard,
		uploadDir:    uploadDir,
		rewardPoints: rewardPoints,
		rewardExp:    rewardExp,
	}
}

// HandleJob classifies the photo referenced by the job. A nil return acks the
// message; errors nack it for broker-side retry policy.
func (c *Classifier) HandleJob(job ClassificationJob) error {
	var photo models.WastePhoto
	if err := c.db.First(&photo, job.PhotoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.Sugar.Warnf("classification job for unknown photo %d, dropping", job.PhotoID)
			return nil
		}
		return err
	}
	if photo.Status != models.PhotoPending {
		// Redelivered after a completed run; verdict already persisted.
		utils.Sugar.Infof("photo %d already %s, skipping", photo.ID, photo.Status)
		return nil
	}

	now := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), c.vision.http.Timeout)
	defer cancel()

	binType, err := c.vision.Classify(ctx, filepath.Join(c.uploadDir, photo.StorageKey))
	if err != nil {
		utils.Sugar.Warnf("classification failed photo=%d: %v", photo.ID, err)
		photo.Status = models.PhotoFailed
		photo.FailureReason = err.Error()
		return c.db.Save(&photo).Error
	}

	photo.Status = models.PhotoClassified
	photo.RecommendedBinType = &binType
	photo.ClassifiedAt = &now
	if binID := c.matchBin(photo.CompanyID, binType); binID != 0 {
		photo.MatchedBinID = &binID
	}
	if err := c.db.Save(&photo).Error; err != nil {
		return err
	}

	// Gamification from here on: degrade, never fail the job.
	c.gamification.RecordActivity(photo.UserID, now)

	companyID := photo.CompanyID
	award := c.gamification.Award(photo.UserID, c.rewardPoints, c.rewardExp, &companyID, now)
	if award.LeveledUp {
		utils.Sugar.Infof("user %d reached level %d", photo.UserID, award.NewLevel)
	}

	granted := c.achievements.EvaluateForPhoto(&photo, now)
	if len(granted) > 0 {
		utils.Sugar.Infof("user %d earned %d achievement(s)", photo.UserID, len(granted))
	}

	c.leaderboard.Invalidate(photo.CompanyID)
	utils.PublishEvent(utils.ChannelLeaderboardUpdated, utils.LeaderboardUpdatedEvent{
		CompanyID: photo.CompanyID,
		UpdatedAt: now,
	})

	return nil
}

// matchBin finds a company bin of the recommended type, preferring the
// lowest id for stable results. Zero means no match.
func (c *Classifier) matchBin(companyID uint, binType string) uint {
	var bin models.Bin
	err := c.db.
		Where("company_id = ? AND bin_type = ?", companyID, binType).
		Order("id ASC").
		First(&bin).Error
	if err != nil {
		return 0
	}
	return bin.ID
}
