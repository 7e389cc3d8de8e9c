package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
)

func seedChallenge(t *testing.T, db *gorm.DB, companyID uint, criterion string, target int, now time.Time) models.DailyChallenge {
	t.Helper()
	challenge := models.DailyChallenge{
		CompanyID:        companyID,
		Title:            "sort it out",
		CriterionType:    criterion,
		Target:           target,
		RewardPoints:     50,
		RewardExperience: 25,
		StartDate:        now.AddDate(0, 0, -1),
		EndDate:          now.AddDate(0, 0, 1),
		IsActive:         true,
	}
	require.NoError(t, db.Create(&challenge).Error)
	return challenge
}

func TestTrackProgressPartial(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	gamification := NewGamificationService(db, testGamificationConfig())
	svc := NewChallengeService(db, gamification)

	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	seedChallenge(t, db, company.ID, models.CriterionTotalPhotos, 5, now)
	seedClassifiedPhoto(t, db, user.ID, company.ID, now.AddDate(0, 0, -1))
	seedClassifiedPhoto(t, db, user.ID, company.ID, now)

	progress := svc.TrackProgress(user.ID, company.ID, now)
	require.Len(t, progress, 1)
	assert.Equal(t, 2, progress[0].CurrentProgress)
	assert.False(t, progress[0].IsCompleted)
	assert.Nil(t, progress[0].CompletedAt)

	saved := reloadUser(t, db, user.ID)
	assert.Zero(t, saved.TotalPoints)
}

func TestTrackProgressCompletesAndRewardsOnce(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	gamification := NewGamificationService(db, testGamificationConfig())
	svc := NewChallengeService(db, gamification)

	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	seedChallenge(t, db, company.ID, models.CriterionTotalPhotos, 2, now)
	seedClassifiedPhoto(t, db, user.ID, company.ID, now.AddDate(0, 0, -1))
	seedClassifiedPhoto(t, db, user.ID, company.ID, now)

	progress := svc.TrackProgress(user.ID, company.ID, now)
	require.Len(t, progress, 1)
	assert.True(t, progress[0].IsCompleted)
	require.NotNil(t, progress[0].CompletedAt)

	saved := reloadUser(t, db, user.ID)
	assert.Equal(t, 50, saved.TotalPoints)
	assert.Equal(t, 25, saved.Experience)

	// Re-running keeps the row frozen and never pays twice.
	seedClassifiedPhoto(t, db, user.ID, company.ID, now)
	again := svc.TrackProgress(user.ID, company.ID, now.Add(time.Hour))
	require.Len(t, again, 1)
	assert.True(t, again[0].IsCompleted)
	assert.Equal(t, 2, again[0].CurrentProgress)

	saved = reloadUser(t, db, user.ID)
	assert.Equal(t, 50, saved.TotalPoints)
	assert.Equal(t, 25, saved.Experience)
}

func TestTrackProgressSkipsExpiredAndInactiveChallenges(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	gamification := NewGamificationService(db, testGamificationConfig())
	svc := NewChallengeService(db, gamification)

	now := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)

	expired := seedChallenge(t, db, company.ID, models.CriterionTotalPhotos, 1, now)
	expired.StartDate = now.AddDate(0, 0, -10)
	expired.EndDate = now.AddDate(0, 0, -5)
	require.NoError(t, db.Save(&expired).Error)

	disabled := seedChallenge(t, db, company.ID, models.CriterionTotalPhotos, 1, now)
	disabled.IsActive = false
	require.NoError(t, db.Save(&disabled).Error)

	seedClassifiedPhoto(t, db, user.ID, company.ID, now)

	progress := svc.TrackProgress(user.ID, company.ID, now)
	assert.Empty(t, progress)
}

func TestTrackProgressWindowBoundsInclusive(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	gamification := NewGamificationService(db, testGamificationConfig())
	svc := NewChallengeService(db, gamification)

	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	challenge := models.DailyChallenge{
		CompanyID:     company.ID,
		Title:         "one day only",
		CriterionType: models.CriterionTotalPhotos,
		Target:        10,
		StartDate:     day,
		EndDate:       day,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&challenge).Error)

	// Late in the evening of the end date still counts.
	progress := svc.TrackProgress(user.ID, company.ID, day.Add(23*time.Hour))
	assert.Len(t, progress, 1)

	// The next morning does not.
	progress = svc.TrackProgress(user.ID, company.ID, day.AddDate(0, 0, 1))
	assert.Empty(t, progress)
}

func TestTrackProgressWindowIgnoresTimeOfDay(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	gamification := NewGamificationService(db, testGamificationConfig())
	svc := NewChallengeService(db, gamification)

	day := time.Date(2026, 5, 4, 0, 0, 0, 0, time.UTC)
	challenge := models.DailyChallenge{
		CompanyID:     company.ID,
		Title:         "office hours",
		CriterionType: models.CriterionTotalPhotos,
		Target:        10,
		StartDate:     day.Add(9 * time.Hour),
		EndDate:       day.Add(17 * time.Hour),
		IsActive:      true,
	}
	require.NoError(t, db.Create(&challenge).Error)

	// Stored bounds are truncated to midnight, so the whole start day counts.
	progress := svc.TrackProgress(user.ID, company.ID, day.Add(15*time.Hour))
	assert.Len(t, progress, 1)

	progress = svc.TrackProgress(user.ID, company.ID, day.Add(2*time.Hour))
	assert.Len(t, progress, 1)
}

func TestRepeatedSameDayActivityRetracksChallenges(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")

	gamification := NewGamificationService(db, testGamificationConfig())
	svc := NewChallengeService(db, gamification)
	gamification.SetChallengeTracker(svc)

	now := time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)
	challenge := seedChallenge(t, db, company.ID, models.CriterionTotalPhotos, 2, now)

	seedClassifiedPhoto(t, db, user.ID, company.ID, now)
	gamification.RecordActivity(user.ID, now)

	var progress models.DailyChallengeProgress
	require.NoError(t, db.Where("user_id = ? AND daily_challenge_id = ?", user.ID, challenge.ID).First(&progress).Error)
	assert.Equal(t, 1, progress.CurrentProgress)
	assert.False(t, progress.IsCompleted)

	// A second photo on the same day leaves the streak alone but must still
	// push challenge progress forward.
	later := now.Add(2 * time.Hour)
	seedClassifiedPhoto(t, db, user.ID, company.ID, later)
	res := gamification.RecordActivity(user.ID, later)
	assert.False(t, res.Updated)

	require.NoError(t, db.Where("user_id = ? AND daily_challenge_id = ?", user.ID, challenge.ID).First(&progress).Error)
	assert.Equal(t, 2, progress.CurrentProgress)
	assert.True(t, progress.IsCompleted)

	saved := reloadUser(t, db, user.ID)
	assert.Equal(t, 50, saved.TotalPoints)
}

func TestTrackProgressIgnoresForeignUsers(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	other := seedCompany(t, db, "globex")
	user := seedUser(t, db, other.ID, "bob")

	gamification := NewGamificationService(db, testGamificationConfig())
	svc := NewChallengeService(db, gamification)

	now := time.Now()
	seedChallenge(t, db, company.ID, models.CriterionTotalPhotos, 1, now)

	assert.Empty(t, svc.TrackProgress(user.ID, company.ID, now))
	assert.Empty(t, svc.TrackProgress(999, company.ID, now))
}
