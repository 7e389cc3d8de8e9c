package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wastewise/wastewise/models"
)

func TestRecordActivityFirstDay(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	res := svc.RecordActivity(user.ID, now)

	assert.True(t, res.Updated)
	assert.Equal(t, 1, res.CurrentStreak)
	assert.Equal(t, 1, res.BestStreak)

	saved := reloadUser(t, db, user.ID)
	require.NotNil(t, saved.LastActivityDate)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), saved.LastActivityDate.UTC())
}

func TestRecordActivitySameDayIsNoOp(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	morning := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 22, 0, 0, 0, time.UTC)

	first := svc.RecordActivity(user.ID, morning)
	assert.True(t, first.Updated)

	second := svc.RecordActivity(user.ID, evening)
	assert.False(t, second.Updated)
	assert.Equal(t, 1, second.CurrentStreak)

	saved := reloadUser(t, db, user.ID)
	assert.Equal(t, 1, saved.CurrentStreak)
}

func TestRecordActivityConsecutiveDays(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		res := svc.RecordActivity(user.ID, start.AddDate(0, 0, i))
		assert.True(t, res.Updated)
		assert.Equal(t, i+1, res.CurrentStreak)
	}

	saved := reloadUser(t, db, user.ID)
	assert.Equal(t, 5, saved.CurrentStreak)
	assert.Equal(t, 5, saved.BestStreak)
}

func TestRecordActivityGapResetsAndKeepsBest(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		svc.RecordActivity(user.ID, start.AddDate(0, 0, i))
	}

	// Two-day gap after a 5-day run.
	res := svc.RecordActivity(user.ID, start.AddDate(0, 0, 7))
	assert.True(t, res.Updated)
	assert.Equal(t, 1, res.CurrentStreak)
	assert.Equal(t, 5, res.BestStreak)

	saved := reloadUser(t, db, user.ID)
	assert.Equal(t, 1, saved.CurrentStreak)
	assert.Equal(t, 5, saved.BestStreak)
}

func TestRecordActivityMissingUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db, testGamificationConfig())

	res := svc.RecordActivity(999, time.Now())
	assert.True(t, res.Skipped)
	assert.False(t, res.Updated)
}

func TestStreakBonusMultiplier(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db, testGamificationConfig())

	cases := map[int]float64{
		0:  1.0,
		2:  1.0,
		3:  1.1,
		6:  1.1,
		7:  1.2,
		13: 1.2,
		14: 1.3,
		29: 1.3,
		30: 1.5,
		90: 1.5,
	}
	for streak, want := range cases {
		assert.Equal(t, want, svc.StreakBonusMultiplier(streak), "streak %d", streak)
	}
}

func TestAwardWithoutModifiers(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	res := svc.Award(user.ID, 10, 5, &company.ID, time.Now())
	assert.False(t, res.Skipped)
	assert.Equal(t, 10, res.PointsAwarded)
	assert.Equal(t, 5, res.ExperienceAwarded)
	assert.False(t, res.LeveledUp)

	saved := reloadUser(t, db, user.ID)
	assert.Equal(t, 10, saved.TotalPoints)
	assert.Equal(t, 5, saved.Experience)
	assert.Equal(t, 1, saved.Level)
}

func TestAwardStacksSeasonalAndStreakBonus(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	user.CurrentStreak = 7
	user.BestStreak = 7
	require.NoError(t, db.Save(&user).Error)

	now := time.Date(2026, 4, 22, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.SeasonalEvent{
		CompanyID:            &company.ID,
		Name:                 "earth week",
		PointsMultiplier:     2,
		ExperienceMultiplier: 2,
		StartDate:            now.AddDate(0, 0, -1),
		EndDate:              now.AddDate(0, 0, 1),
		IsActive:             true,
	}).Error)

	svc := NewGamificationService(db, testGamificationConfig())
	res := svc.Award(user.ID, 10, 5, &company.ID, now)

	// floor(10 * 2 * 1.2) and floor(5 * 2 * 1.2)
	assert.Equal(t, 24, res.PointsAwarded)
	assert.Equal(t, 12, res.ExperienceAwarded)
}

func TestAwardResolvesEventsOnTransactionConnection(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	// The test pool allows a single connection, so the event lookup must run
	// inside the award transaction or this call never returns.
	now := time.Date(2026, 4, 22, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.SeasonalEvent{
		CompanyID:            &company.ID,
		Name:                 "spring drive",
		PointsMultiplier:     2,
		ExperienceMultiplier: 1,
		StartDate:            now.AddDate(0, 0, -1),
		EndDate:              now.AddDate(0, 0, 1),
		IsActive:             true,
	}).Error)

	done := make(chan AwardResult, 1)
	go func() {
		done <- svc.Award(user.ID, 10, 5, &company.ID, now)
	}()

	select {
	case res := <-done:
		assert.Equal(t, 20, res.PointsAwarded)
		assert.Equal(t, 5, res.ExperienceAwarded)
	case <-time.After(10 * time.Second):
		t.Fatal("award did not complete, event lookup blocked outside the transaction")
	}
}

func TestAwardOverlappingEventsDoNotStack(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	now := time.Date(2026, 4, 22, 12, 0, 0, 0, time.UTC)
	for _, mult := range []int{2, 3} {
		require.NoError(t, db.Create(&models.SeasonalEvent{
			CompanyID:            &company.ID,
			Name:                 "event",
			PointsMultiplier:     mult,
			ExperienceMultiplier: mult,
			StartDate:            now.AddDate(0, 0, -1),
			EndDate:              now.AddDate(0, 0, 1),
			IsActive:             true,
		}).Error)
	}

	res := svc.Award(user.ID, 10, 10, &company.ID, now)
	assert.Equal(t, 30, res.PointsAwarded)
	assert.Equal(t, 30, res.ExperienceAwarded)
}

func TestAwardIgnoresCompanyEventsWithoutScope(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	now := time.Date(2026, 4, 22, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.SeasonalEvent{
		CompanyID:            &company.ID,
		Name:                 "company only",
		PointsMultiplier:     3,
		ExperienceMultiplier: 3,
		StartDate:            now.AddDate(0, 0, -1),
		EndDate:              now.AddDate(0, 0, 1),
		IsActive:             true,
	}).Error)

	res := svc.Award(user.ID, 10, 5, nil, now)
	assert.Equal(t, 10, res.PointsAwarded)
	assert.Equal(t, 5, res.ExperienceAwarded)
}

func TestAwardExpiredAndInactiveEventsIgnored(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	now := time.Date(2026, 4, 22, 12, 0, 0, 0, time.UTC)
	require.NoError(t, db.Create(&models.SeasonalEvent{
		CompanyID:            &company.ID,
		Name:                 "over",
		PointsMultiplier:     5,
		ExperienceMultiplier: 5,
		StartDate:            now.AddDate(0, 0, -10),
		EndDate:              now.AddDate(0, 0, -5),
		IsActive:             true,
	}).Error)
	require.NoError(t, db.Create(&models.SeasonalEvent{
		CompanyID:            &company.ID,
		Name:                 "disabled",
		PointsMultiplier:     5,
		ExperienceMultiplier: 5,
		StartDate:            now.AddDate(0, 0, -1),
		EndDate:              now.AddDate(0, 0, 1),
		IsActive:             false,
	}).Error)

	res := svc.Award(user.ID, 10, 5, &company.ID, now)
	assert.Equal(t, 10, res.PointsAwarded)
	assert.Equal(t, 5, res.ExperienceAwarded)
}

func TestAwardLevelsUp(t *testing.T) {
	db := newTestDB(t)
	company := seedCompany(t, db, "acme")
	user := seedUser(t, db, company.ID, "alice")
	svc := NewGamificationService(db, testGamificationConfig())

	res := svc.Award(user.ID, 0, 300, &company.ID, time.Now())
	assert.True(t, res.LeveledUp)
	assert.Equal(t, 2, res.NewLevel)

	saved := reloadUser(t, db, user.ID)
	assert.Equal(t, 2, saved.Level)
	assert.Equal(t, 300, saved.Experience)
}

func TestAwardMissingUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewGamificationService(db, testGamificationConfig())

	res := svc.Award(999, 10, 5, nil, time.Now())
	assert.True(t, res.Skipped)
	assert.Zero(t, res.PointsAwarded)
}
