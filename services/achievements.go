package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// EventPublisher publishes a notification payload on a pub/sub channel.
// Injected so tests can capture events instead of talking to redis.
type EventPublisher func(channel string, payload interface{})

// AchievementService evaluates achievement eligibility after a waste photo is
// classified. Grants are created at most once per (user, achievement); the
// composite unique index backs that up, so a concurrent duplicate insert is
// treated as already-granted rather than an error.
type AchievementService struct {
	db      *gorm.DB
	publish EventPublisher
}

// NewAchievementService creates the evaluator with the default redis
// publisher.
func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db, publish: utils.PublishEvent}
}

// SetPublisher overrides the notification publisher.
func (s *AchievementService) SetPublisher(p EventPublisher) {
	s.publish = p
}

// EvaluateForPhoto checks every unearned achievement of the photo's company
// against the uploader and grants the newly satisfied ones, publishing an
// achievementEarned event per grant. All missing-data conditions (photo
// without user/company, unknown user, user from a different company) degrade
// to an empty result, never an error; see the pipeline availability contract.
func (s *AchievementService) EvaluateForPhoto(photo *models.WastePhoto, now time.Time) []models.EmployeeAchievement {
	if photo == nil || photo.UserID == 0 || photo.CompanyID == 0 {
		return nil
	}

	var user models.User
	if err := s.db.First(&user, photo.UserID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && utils.Sugar != nil {
			utils.Sugar.Warnf("achievement evaluation user lookup failed user=%d: %v", photo.UserID, err)
		}
		return nil
	}
	// Data-integrity guard: the uploader must belong to the photo's company.
	if user.CompanyID != photo.CompanyID {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("achievement evaluation skipped: user %d not in company %d", photo.UserID, photo.CompanyID)
		}
		return nil
	}

	var achievements []models.Achievement
	if err := s.db.Where("company_id = ?", photo.CompanyID).Find(&achievements).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("achievement lookup failed company=%d: %v", photo.CompanyID, err)
		}
		return nil
	}

	var earnedIDs []uint
	if err := s.db.Model(&models.EmployeeAchievement{}).
		Where("user_id = ?", photo.UserID).
		Pluck("achievement_id", &earnedIDs).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("earned achievement lookup failed user=%d: %v", photo.UserID, err)
		}
		return nil
	}
	earned := make(map[uint]bool, len(earnedIDs))
	for _, id := range earnedIDs {
		earned[id] = true
	}

	var granted []models.EmployeeAchievement
	for i := range achievements {
		achievement := achievements[i]
		if earned[achievement.ID] {
			continue
		}

		value, err := criterionValue(s.db, photo.UserID, photo.CompanyID, achievement.CriterionType)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("achievement criterion failed achievement=%d: %v", achievement.ID, err)
			}
			continue
		}
		if value < achievement.Threshold {
			continue
		}

		grant := models.EmployeeAchievement{
			UserID:        photo.UserID,
			AchievementID: achievement.ID,
			EarnedAt:      now,
		}
		if err := s.db.Create(&grant).Error; err != nil {
			if isDuplicateKey(err) {
				// Lost the race to a concurrent evaluation; already granted.
				continue
			}
			if utils.Sugar != nil {
				utils.Sugar.Warnf("achievement grant failed achievement=%d user=%d: %v", achievement.ID, photo.UserID, err)
			}
			continue
		}

		if s.publish != nil {
			s.publish(utils.ChannelAchievementEarned, utils.AchievementEarnedEvent{
				UserID:          photo.UserID,
				CompanyID:       photo.CompanyID,
				AchievementID:   achievement.ID,
				AchievementName: achievement.Name,
				EarnedAt:        now,
			})
		}

		grant.Achievement = &achievement
		granted = append(granted, grant)
	}
	return granted
}

// isDuplicateKey recognizes unique constraint violations across the MySQL
// production driver and the sqlite driver used by tests.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
