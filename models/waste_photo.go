package models

import "time"

// Waste photo classification lifecycle.
const (
	PhotoPending    = "pending"
	PhotoClassified = "classified"
	PhotoFailed     = "failed"
)

// WastePhoto is an employee-uploaded photo of disposed waste. The file itself
// lives on disk under the configured upload directory; StorageKey is its
// uuid-based relative path. RecommendedBinType stays nil until the vision
// service classifies the photo.
type WastePhoto struct {
	ID                 uint       `gorm:"primaryKey" json:"id"`
	UserID             uint       `gorm:"index;not null" json:"user_id"`
	CompanyID          uint       `gorm:"index;not null" json:"company_id"`
	StorageKey         string     `gorm:"size:255;not null" json:"storage_key"`
	OriginalName       string     `gorm:"size:255" json:"original_name"`
	Status             string     `gorm:"size:16;index;default:pending" json:"status"`
	RecommendedBinType *string    `gorm:"size:16" json:"recommended_bin_type"`
	MatchedBinID       *uint      `json:"matched_bin_id"`
	FailureReason      string     `gorm:"size:255" json:"failure_reason,omitempty"`
	ClassifiedAt       *time.Time `json:"classified_at"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`

	User *User `json:"-"`
}
