package models

import (
	"time"

	"gorm.io/gorm"
)

// DailyChallenge is a company-defined time-boxed goal. Start and end dates are
// compared date-only (UTC), both inclusive.
type DailyChallenge struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	CompanyID        uint      `gorm:"index;not null" json:"company_id"`
	Title            string    `gorm:"size:128;not null" json:"title"`
	Description      string    `gorm:"size:512" json:"description"`
	CriterionType    string    `gorm:"size:32;not null" json:"criterion_type"`
	Target           int       `gorm:"not null" json:"target"`
	RewardPoints     int       `gorm:"default:0" json:"reward_points"`
	RewardExperience int       `gorm:"default:0" json:"reward_experience"`
	StartDate        time.Time `gorm:"not null" json:"start_date"`
	EndDate          time.Time `gorm:"not null" json:"end_date"`
	IsActive         bool      `gorm:"default:true" json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeSave truncates the window bounds to UTC midnight so a client-supplied
// time component cannot shrink the inclusive date-only window.
func (c *DailyChallenge) BeforeSave(tx *gorm.DB) error {
	c.StartDate = utcMidnight(c.StartDate)
	c.EndDate = utcMidnight(c.EndDate)
	return nil
}

func utcMidnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DailyChallengeProgress tracks one user's progress on one challenge.
// CurrentProgress is recomputed from source data, never incremented. Once
// IsCompleted flips true the row is frozen.
type DailyChallengeProgress struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	UserID           uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"user_id"`
	DailyChallengeID uint       `gorm:"not null;uniqueIndex:idx_user_challenge" json:"daily_challenge_id"`
	CurrentProgress  int        `gorm:"default:0" json:"current_progress"`
	IsCompleted      bool       `gorm:"default:false" json:"is_completed"`
	CompletedAt      *time.Time `json:"completed_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	DailyChallenge *DailyChallenge `json:"challenge,omitempty"`
}
