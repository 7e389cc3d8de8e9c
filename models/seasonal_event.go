package models

import "time"

// SeasonalEvent multiplies point and experience rewards while active.
// CompanyID nil means the event is global. Start and end are full timestamps,
// unlike challenge windows. When several events overlap only the largest
// multiplier per dimension applies.
type SeasonalEvent struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	CompanyID            *uint     `gorm:"index" json:"company_id"`
	Name                 string    `gorm:"size:128;not null" json:"name"`
	Description          string    `gorm:"size:512" json:"description"`
	PointsMultiplier     int       `gorm:"default:1" json:"points_multiplier"`
	ExperienceMultiplier int       `gorm:"default:1" json:"experience_multiplier"`
	StartDate            time.Time `gorm:"not null" json:"start_date"`
	EndDate              time.Time `gorm:"not null" json:"end_date"`
	IsActive             bool      `gorm:"default:true" json:"is_active"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}
