package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/services"
	"github.com/wastewise/wastewise/utils"
)

// GamificationController exposes the read side of the engine: personal
// progress and the company leaderboard.
type GamificationController struct {
	db           *gorm.DB
	gamification *services.GamificationService
	leaderboard  *services.LeaderboardService
}

// NewGamificationController creates the controller.
func NewGamificationController(
	db *gorm.DB,
	gamification *services.GamificationService,
	leaderboard *services.LeaderboardService,
) *GamificationController {
	return &GamificationController{
		db:           db,
		gamification: gamification,
		leaderboard:  leaderboard,
	}
}

// Progress returns the requester's level, experience, points and streak state
// together with derived curve values.
func (gc *GamificationController) Progress(ctx *gin.Context) {
	var user models.User
	if err := gc.db.First(&user, currentUserID(ctx)).Error; err != nil {
		utils.Error(ctx, http.StatusNotFound, 40480, "user not found")
		return
	}

	curve := gc.gamification.Curve()
	utils.Success(ctx, gin.H{
		"level":                  user.Level,
		"experience":             user.Experience,
		"total_points":           user.TotalPoints,
		"current_streak":         user.CurrentStreak,
		"best_streak":            user.BestStreak,
		"last_activity_date":     user.LastActivityDate,
		"experience_to_next":     curve.ExperienceToNextLevel(user.Level, user.Experience),
		"level_progress_percent": curve.LevelProgressPercent(user.Level, user.Experience),
		"streak_bonus":           gc.gamification.StreakBonusMultiplier(user.CurrentStreak),
	})
}

// Achievements returns the requester's earned grants plus the company
// achievements still open to them.
func (gc *GamificationController) Achievements(ctx *gin.Context) {
	var earned []models.EmployeeAchievement
	err := gc.db.
		Preload("Achievement").
		Where("user_id = ?", currentUserID(ctx)).
		Order("earned_at DESC").
		Find(&earned).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to list achievements")
		return
	}

	earnedIDs := make(map[uint]bool, len(earned))
	for _, grant := range earned {
		earnedIDs[grant.AchievementID] = true
	}

	var catalog []models.Achievement
	err = gc.db.
		Where("company_id = ?", currentCompanyID(ctx)).
		Order("threshold ASC, id ASC").
		Find(&catalog).Error
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50081, "failed to list achievements")
		return
	}

	available := make([]models.Achievement, 0, len(catalog))
	for _, achievement := range catalog {
		if !earnedIDs[achievement.ID] {
			available = append(available, achievement)
		}
	}

	utils.Success(ctx, gin.H{"earned": earned, "available": available})
}

// Leaderboard returns the company's points ranking.
func (gc *GamificationController) Leaderboard(ctx *gin.Context) {
	entries, err := gc.leaderboard.CompanyTop(currentCompanyID(ctx))
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50080, "failed to build leaderboard")
		return
	}
	if entries == nil {
		entries = []services.LeaderboardEntry{}
	}
	utils.Success(ctx, entries)
}
