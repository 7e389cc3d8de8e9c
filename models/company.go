package models

import (
	"time"

	"gorm.io/gorm"
)

// Company is the tenant root. Every domain record is scoped to one company.
type Company struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"size:128;not null" json:"name"`
	ContactEmail string         `gorm:"size:255" json:"contact_email"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Users        []User         `json:"-"`
}
