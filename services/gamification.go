package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wastewise/wastewise/config"
	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// GamificationConfig carries the tunable formula inputs. Injected at
// construction instead of living in package constants so deployments can
// adjust curves without a rebuild.
type GamificationConfig struct {
	BaseExpPerLevel int
	// StreakBonuses maps a streak-day threshold to a reward multiplier. The
	// largest satisfied threshold applies; below the smallest the bonus is 1.
	StreakBonuses map[int]float64
}

// GamificationConfigFromApp derives engine tuning from application config.
func GamificationConfigFromApp(cfg config.AppConfig) GamificationConfig {
	return GamificationConfig{
		BaseExpPerLevel: cfg.BaseExpPerLevel,
		StreakBonuses:   cfg.StreakBonuses,
	}
}

// AwardResult reports the outcome of a reward grant. Skipped distinguishes
// "user missing, nothing persisted" from a legitimate zero-value award so
// callers and tests can tell the two apart.
type AwardResult struct {
	PointsAwarded     int    `json:"points_awarded"`
	ExperienceAwarded int    `json:"experience_awarded"`
	LeveledUp         bool   `json:"leveled_up"`
	NewLevel          int    `json:"new_level,omitempty"`
	Skipped           bool   `json:"-"`
	SkipReason        string `json:"-"`
}

// StreakResult reports the outcome of recording daily activity.
type StreakResult struct {
	Updated       bool
	CurrentStreak int
	BestStreak    int
	Skipped       bool
	SkipReason    string
}

// GamificationService owns all mutation of user progress: streak tracking and
// reward awarding. Mutations run inside a transaction holding a row lock on
// the user, so concurrent classification jobs for the same user serialize
// instead of racing on read-modify-write.
type GamificationService struct {
	db         *gorm.DB
	curve      LevelCurve
	bonuses    map[int]float64
	thresholds []int

	challenges *ChallengeService
}

// NewGamificationService builds the service from injected tuning.
func NewGamificationService(db *gorm.DB, cfg GamificationConfig) *GamificationService {
	bonuses := cfg.StreakBonuses
	if len(bonuses) == 0 {
		bonuses = map[int]float64{3: 1.1, 7: 1.2, 14: 1.3, 30: 1.5}
	}
	thresholds := make([]int, 0, len(bonuses))
	for k := range bonuses {
		thresholds = append(thresholds, k)
	}
	sort.Ints(thresholds)

	return &GamificationService{
		db:         db,
		curve:      NewLevelCurve(cfg.BaseExpPerLevel),
		bonuses:    bonuses,
		thresholds: thresholds,
	}
}

// Curve exposes the level curve for read-side endpoints.
func (s *GamificationService) Curve() LevelCurve {
	return s.curve
}

// lockUser loads the user under FOR UPDATE on MySQL. sqlite (tests) rejects
// the locking clause and serializes writers on its own.
func lockUser(tx *gorm.DB, userID uint, user *models.User) error {
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx.First(user, userID).Error
}

// SetChallengeTracker wires the daily challenge tracker invoked after a
// successful streak update. Set once at boot.
func (s *GamificationService) SetChallengeTracker(cs *ChallengeService) {
	s.challenges = cs
}

// StreakBonusMultiplier returns the bonus for the largest satisfied
// threshold, or 1 when the streak is below every threshold.
func (s *GamificationService) StreakBonusMultiplier(currentStreak int) float64 {
	bonus := 1.0
	for _, t := range s.thresholds {
		if currentStreak >= t {
			bonus = s.bonuses[t]
		}
	}
	return bonus
}

// seasonalMultipliers resolves the active seasonal multipliers at now.
// With a company id only that company's events are considered; without one
// only global events (no company) apply. Overlapping events do not stack:
// the single largest multiplier per dimension wins. The lookup runs on the
// given handle so callers inside a transaction stay on the transaction's
// connection.
func (s *GamificationService) seasonalMultipliers(db *gorm.DB, companyID *uint, now time.Time) (pointsMult, expMult int) {
	pointsMult, expMult = 1, 1

	query := db.Model(&models.SeasonalEvent{}).
		Where("is_active = ?", true).
		Where("start_date <= ? AND end_date >= ?", now, now)
	if companyID != nil {
		query = query.Where("company_id = ?", *companyID)
	} else {
		query = query.Where("company_id IS NULL")
	}

	var events []models.SeasonalEvent
	if err := query.Find(&events).Error; err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("seasonal event lookup failed: %v", err)
		}
		return pointsMult, expMult
	}

	for _, e := range events {
		if e.PointsMultiplier > pointsMult {
			pointsMult = e.PointsMultiplier
		}
		if e.ExperienceMultiplier > expMult {
			expMult = e.ExperienceMultiplier
		}
	}
	return pointsMult, expMult
}

// RecordActivity advances the user's consecutive-day streak for activity at
// now. Multiple activities on the same calendar day leave the streak
// untouched after the first. A gap of more than one day folds the running
// streak into BestStreak and restarts at 1. Every recorded activity reruns
// the daily challenge tracker for the user's company; the tracker recomputes
// absolute values, so repeated same-day runs are safe.
func (s *GamificationService) RecordActivity(userID uint, now time.Time) StreakResult {
	var res StreakResult
	var companyID uint

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockUser(tx, userID, &user); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Skipped = true
				res.SkipReason = "user not found"
				return nil
			}
			return err
		}
		companyID = user.CompanyID

		today := dateOnly(now)
		if user.LastActivityDate != nil {
			switch d := diffDays(today, *user.LastActivityDate); {
			case d == 0:
				// Already counted today.
				res.CurrentStreak = user.CurrentStreak
				res.BestStreak = user.BestStreak
				return nil
			case d == 1:
				user.CurrentStreak++
			default:
				if user.CurrentStreak > user.BestStreak {
					user.BestStreak = user.CurrentStreak
				}
				user.CurrentStreak = 1
			}
		} else {
			user.CurrentStreak = 1
		}

		// Keep the BestStreak >= CurrentStreak invariant as the streak grows.
		if user.CurrentStreak > user.BestStreak {
			user.BestStreak = user.CurrentStreak
		}
		user.LastActivityDate = &today

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		res.Updated = true
		res.CurrentStreak = user.CurrentStreak
		res.BestStreak = user.BestStreak
		return nil
	})
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("streak update failed user=%d: %v", userID, err)
		}
		return StreakResult{Skipped: true, SkipReason: "streak update failed"}
	}

	if !res.Skipped && s.challenges != nil {
		s.challenges.TrackProgress(userID, companyID, now)
	}
	return res
}

// Award applies seasonal and streak multipliers to a base grant, adds the
// results to the user's running totals, and detects level-up. A missing user
// produces a skipped zero result with a warning log, never an error; the
// classification pipeline must not fail on dangling references.
func (s *GamificationService) Award(userID uint, basePoints, baseExperience int, companyID *uint, now time.Time) AwardResult {
	var res AwardResult

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockUser(tx, userID, &user); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				res.Skipped = true
				res.SkipReason = "user not found"
				return nil
			}
			return err
		}

		pointsMult, expMult := s.seasonalMultipliers(tx, companyID, now)
		streakBonus := s.StreakBonusMultiplier(user.CurrentStreak)

		res.PointsAwarded = int(math.Floor(float64(basePoints) * float64(pointsMult) * streakBonus))
		res.ExperienceAwarded = int(math.Floor(float64(baseExperience) * float64(expMult) * streakBonus))

		user.TotalPoints += res.PointsAwarded
		user.Experience += res.ExperienceAwarded

		if newLevel := s.curve.LevelFromExperience(user.Experience); newLevel > user.Level {
			user.Level = newLevel
			res.LeveledUp = true
			res.NewLevel = newLevel
		}

		return tx.Save(&user).Error
	})
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("award failed user=%d: %v", userID, err)
		}
		return AwardResult{Skipped: true, SkipReason: "award failed"}
	}
	if res.Skipped && utils.Sugar != nil {
		utils.Sugar.Warnf("award skipped user=%d: %s", userID, res.SkipReason)
	}
	return res
}
