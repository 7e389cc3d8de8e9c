package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
)

// criterionValue computes the current absolute value of a criterion for a
// user within a company. Values are re-derived from source data on every
// call; nothing here increments stored counters.
//
// TOTAL_PHOTOS deliberately counts photos in any status while
// CORRECT_BIN_MATCHES only counts classified ones with a recommendation;
// the asymmetry is inherited product behavior.
func criterionValue(db *gorm.DB, userID, companyID uint, criterionType string) (int, error) {
	switch criterionType {
	case models.CriterionTotalPhotos:
		var count int64
		err := db.Model(&models.WastePhoto{}).
			Where("user_id = ? AND company_id = ?", userID, companyID).
			Count(&count).Error
		return int(count), err

	case models.CriterionCorrectBinMatches:
		var count int64
		err := db.Model(&models.WastePhoto{}).
			Where("user_id = ? AND company_id = ?", userID, companyID).
			Where("recommended_bin_type IS NOT NULL").
			Count(&count).Error
		return int(count), err

	case models.CriterionStreakDays:
		return longestPhotoStreak(db, userID, companyID)

	default:
		return 0, fmt.Errorf("unknown criterion type %q", criterionType)
	}
}

// longestPhotoStreak scans the user's classified photos in upload order and
// returns the longest run of exactly-one-day gaps. A gap of more than one
// day resets the run; two photos on the same day leave the run unchanged
// (they neither extend nor break it).
func longestPhotoStreak(db *gorm.DB, userID, companyID uint) (int, error) {
	var photos []models.WastePhoto
	err := db.Select("created_at").
		Where("user_id = ? AND company_id = ? AND status = ?", userID, companyID, models.PhotoClassified).
		Order("created_at ASC").
		Find(&photos).Error
	if err != nil {
		return 0, err
	}
	if len(photos) == 0 {
		return 0, nil
	}

	best, current := 1, 1
	for i := 1; i < len(photos); i++ {
		d := diffDays(photos[i].CreatedAt, photos[i-1].CreatedAt)
		if d == 1 {
			current++
			if current > best {
				best = current
			}
		} else if d > 1 {
			current = 1
		}
	}
	return best, nil
}
