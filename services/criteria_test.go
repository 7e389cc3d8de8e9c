package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise/models"
)

func TestLongestPhotoStreakEmpty(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	got, err := longestPhotoStreak(db, user.ID, company.ID)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestLongestPhotoStreakSameDayDoesNotBreakRun(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	seedClassifiedPhoto(t, db, user.ID, company.ID, base)
	seedClassifiedPhoto(t, db, user.ID, company.ID, base.Add(4*time.Hour))
	seedClassifiedPhoto(t, db, user.ID, company.ID, base.AddDate(0, 0, 1))
	seedClassifiedPhoto(t, db, user.ID, company.ID, base.AddDate(0, 0, 2))

	got, err := longestPhotoStreak(db, user.ID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestLongestPhotoStreakIgnoresUnclassified(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	seedClassifiedPhoto(t, db, user.ID, company.ID, base)
	require.NoError(t, db.Create(&models.WastePhoto{
		UserID:    user.ID,
		CompanyID: company.ID,
		Status:    models.PhotoPending,
		CreatedAt: base.AddDate(0, 0, 1),
	}).Error)
	seedClassifiedPhoto(t, db, user.ID, company.ID, base.AddDate(0, 0, 2))

	got, err := longestPhotoStreak(db, user.ID, company.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
}

func TestCriterionTotalPhotosCountsEveryStatus(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	now := time.Now()
	seedClassifiedPhoto(t, db, user.ID, company.ID, now)
	require.NoError(t, db.Create(&models.WastePhoto{
		UserID:    user.ID,
		CompanyID: company.ID,
		Status:    models.PhotoPending,
	}).Error)
	require.NoError(t, db.Create(&models.WastePhoto{
		UserID:    user.ID,
		CompanyID: company.ID,
		Status:    models.PhotoFailed,
	}).Error)

	got, err := criterionValue(db, user.ID, company.ID, models.CriterionTotalPhotos)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestCriterionUnknownType(t *testing.T) {
	db := newTestDB(t)
	_, err := criterionValue(db, 1, 1, "NO_SUCH_CRITERION")
	assert.Error(t, err)
}

func TestDiffDaysAcrossTimes(t *testing.T) {
	a := time.Date(2026, 6, 2, 0, 30, 0, 0, time.UTC)
	b := time.Date(2026, 6, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 1, diffDays(a, b))
	assert.Equal(t, 0, diffDays(b, b.Add(10*time.Hour)))
	assert.Equal(t, -1, diffDays(b, a))
}
