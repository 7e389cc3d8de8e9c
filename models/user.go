package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles within a company.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User represents a company employee or admin. Passwords are stored as bcrypt hashes only.
// The gamification progress fields (level, experience, points, streak) live on
// the user row and are mutated only by the gamification service, under a row
// lock, so concurrent classification jobs for the same user serialize.
type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	CompanyID    uint   `gorm:"index;not null" json:"company_id"`
	Username     string `gorm:"size:64;not null;uniqueIndex" json:"username"`
	Email        string `gorm:"size:255" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Role         string `gorm:"size:16;default:employee" json:"role"`
	IsActive     bool   `gorm:"default:true" json:"is_active"`

	// Progress. Level starts at 1; experience and points never decrease.
	Level            int        `gorm:"default:1" json:"level"`
	Experience       int        `gorm:"default:0" json:"experience"`
	TotalPoints      int        `gorm:"default:0" json:"total_points"`
	CurrentStreak    int        `gorm:"default:0" json:"current_streak"`
	BestStreak       int        `gorm:"default:0" json:"best_streak"`
	LastActivityDate *time.Time `json:"last_activity_date"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Company *Company `json:"-"`
}

// BeforeCreate hook ensures timestamps and the starting level are set even when not provided.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now
	if u.Level < 1 {
		u.Level = 1
	}
	return nil
}

// BeforeUpdate ensures the UpdatedAt timestamp is refreshed.
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	u.UpdatedAt = time.Now()
	return nil
}
