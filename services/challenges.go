package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// ChallengeService re-evaluates daily challenge progress. Progress is an
// absolute recompute of the challenge criterion, so tracking is safe to run
// any number of times per day; completed rows are frozen and never
// re-rewarded.
type ChallengeService struct {
	db           *gorm.DB
	gamification *GamificationService
}

// NewChallengeService creates the tracker. The gamification service pays out
// challenge rewards on completion.
func NewChallengeService(db *gorm.DB, gamification *GamificationService) *ChallengeService {
	return &ChallengeService{db: db, gamification: gamification}
}

// activeChallenges returns the company's active challenges whose date-only
// window contains today (both bounds inclusive).
func (s *ChallengeService) activeChallenges(companyID uint, now time.Time) ([]models.DailyChallenge, error) {
	today := dateOnly(now)
	var challenges []models.DailyChallenge
	err := s.db.
		Where("company_id = ? AND is_active = ?", companyID, true).
		Where("start_date <= ? AND end_date >= ?", today, today).
		Find(&challenges).Error
	return challenges, err
}

// TrackProgress recomputes every active challenge's progress for the user.
// A missing user is a silent no-op. Newly completed challenges award their
// fixed rewards exactly once. The refreshed progress rows are returned for
// display.
func (s *ChallengeService) TrackProgress(userID, companyID uint, now time.Time) []models.DailyChallengeProgress {
	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && utils.Sugar != nil {
			utils.Sugar.Warnf("challenge tracking user lookup failed user=%d: %v", userID, err)
		}
		return nil
	}
	if user.CompanyID != companyID {
		return nil
	}

	challenges, err := s.activeChallenges(companyID, now)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("challenge lookup failed company=%d: %v", companyID, err)
		}
		return nil
	}

	var tracked []models.DailyChallengeProgress
	for i := range challenges {
		challenge := challenges[i]

		var progress models.DailyChallengeProgress
		err := s.db.Where("user_id = ? AND daily_challenge_id = ?", userID, challenge.ID).First(&progress).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = models.DailyChallengeProgress{UserID: userID, DailyChallengeID: challenge.ID}
		} else if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("challenge progress lookup failed user=%d challenge=%d: %v", userID, challenge.ID, err)
			}
			continue
		}

		// Completed rows stay frozen: no recompute, no second reward.
		if progress.IsCompleted {
			progress.DailyChallenge = &challenge
			tracked = append(tracked, progress)
			continue
		}

		value, err := criterionValue(s.db, userID, companyID, challenge.CriterionType)
		if err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("challenge criterion failed user=%d challenge=%d: %v", userID, challenge.ID, err)
			}
			continue
		}
		progress.CurrentProgress = value

		if value >= challenge.Target {
			completedAt := now
			progress.IsCompleted = true
			progress.CompletedAt = &completedAt
		}

		if err := s.db.Save(&progress).Error; err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("challenge progress save failed user=%d challenge=%d: %v", userID, challenge.ID, err)
			}
			continue
		}

		if progress.IsCompleted {
			cid := companyID
			s.gamification.Award(userID, challenge.RewardPoints, challenge.RewardExperience, &cid, now)
		}

		progress.DailyChallenge = &challenge
		tracked = append(tracked, progress)
	}
	return tracked
}
