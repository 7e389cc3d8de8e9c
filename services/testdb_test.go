package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wastewise/wastewise/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Company{},
		&models.User{},
		&models.CollectionArea{},
		&models.Bin{},
		&models.WastePhoto{},
		&models.Achievement{},
		&models.EmployeeAchievement{},
		&models.DailyChallenge{},
		&models.DailyChallengeProgress{},
		&models.SeasonalEvent{},
	))
	return db
}

func seedCompany(t *testing.T, db *gorm.DB, name string) models.Company {
	t.Helper()
	company := models.Company{Name: name, IsActive: true}
	require.NoError(t, db.Create(&company).Error)
	return company
}

func seedUser(t *testing.T, db *gorm.DB, companyID uint, username string) models.User {
	t.Helper()
	user := models.User{
		CompanyID: companyID,
		Username:  username,
		Role:      models.RoleEmployee,
		IsActive:  true,
		Level:     1,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedClassifiedPhoto(t *testing.T, db *gorm.DB, userID, companyID uint, createdAt time.Time) models.WastePhoto {
	t.Helper()
	binType := models.BinPlastic
	photo := models.WastePhoto{
		UserID:             userID,
		CompanyID:          companyID,
		StorageKey:         "test.jpg",
		Status:             models.PhotoClassified,
		RecommendedBinType: &binType,
		CreatedAt:          createdAt,
	}
	require.NoError(t, db.Create(&photo).Error)
	return photo
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return user
}

func testGamificationConfig() GamificationConfig {
	return GamificationConfig{
		BaseExpPerLevel: 100,
		StreakBonuses:   map[int]float64{3: 1.1, 7: 1.2, 14: 1.3, 30: 1.5},
	}
}
