package models

import (
	"time"

	"gorm.io/gorm"
)

// Bin types recognized by the classification service.
const (
	BinOrganic = "organic"
	BinPaper   = "paper"
	BinPlastic = "plastic"
	BinGlass   = "glass"
	BinMetal   = "metal"
	BinEwaste  = "ewaste"
	BinGeneral = "general"
)

// ValidBinType reports whether t is one of the recognized bin types.
func ValidBinType(t string) bool {
	switch t {
	case BinOrganic, BinPaper, BinPlastic, BinGlass, BinMetal, BinEwaste, BinGeneral:
		return true
	}
	return false
}

// CollectionArea is a named waste collection location owned by a company.
type CollectionArea struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CompanyID   uint           `gorm:"index;not null" json:"company_id"`
	Name        string         `gorm:"size:128;not null" json:"name"`
	Description string         `gorm:"size:512" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Bins        []Bin          `json:"bins,omitempty"`
}

// Bin is a physical container inside a collection area.
type Bin struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	CollectionAreaID uint           `gorm:"index;not null" json:"collection_area_id"`
	CompanyID        uint           `gorm:"index;not null" json:"company_id"`
	BinType          string         `gorm:"size:16;not null" json:"bin_type"`
	Label            string         `gorm:"size:128" json:"label"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
