package models

import "time"

// Criterion types shared by achievements and daily challenges.
const (
	CriterionTotalPhotos       = "TOTAL_PHOTOS"
	CriterionCorrectBinMatches = "CORRECT_BIN_MATCHES"
	CriterionStreakDays        = "STREAK_DAYS"
)

// ValidCriterionType reports whether t is a known criterion type.
func ValidCriterionType(t string) bool {
	switch t {
	case CriterionTotalPhotos, CriterionCorrectBinMatches, CriterionStreakDays:
		return true
	}
	return false
}

// Achievement is a company-defined milestone. Earned once per user.
type Achievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	CompanyID     uint      `gorm:"index;not null" json:"company_id"`
	Name          string    `gorm:"size:128;not null" json:"name"`
	Description   string    `gorm:"size:512" json:"description"`
	CriterionType string    `gorm:"size:32;not null" json:"criterion_type"`
	Threshold     int       `gorm:"not null" json:"threshold"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// EmployeeAchievement records that a user earned an achievement. The composite
// unique index makes the at-most-one-grant rule a storage constraint, so a
// concurrent duplicate insert fails instead of double-granting.
type EmployeeAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"user_id"`
	AchievementID uint      `gorm:"not null;uniqueIndex:idx_user_achievement" json:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at"`
	CreatedAt     time.Time `json:"created_at"`

	Achievement *Achievement `json:"achievement,omitempty"`
}
