package services

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/wastewise/wastewise/models"
	"github.com/wastewise/wastewise/utils"
)

// LeaderboardEntry is one row of a company's points ranking.
type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	Level         int    `json:"level"`
	TotalPoints   int    `json:"total_points"`
	CurrentStreak int    `json:"current_streak"`
}

// LeaderboardService ranks company employees by total points. Results are
// cached in redis for a short TTL and invalidated when rewards land.
type LeaderboardService struct {
	db       *gorm.DB
	size     int
	cacheTTL time.Duration

	// Cache hooks default to the redis helpers; tests leave them nil to
	// bypass caching entirely.
	cacheGet func(key string) ([]byte, bool)
	cacheSet func(key string, v interface{}, ttl time.Duration)
}

// NewLeaderboardService creates the service with redis-backed caching.
func NewLeaderboardService(db *gorm.DB, size int, cacheTTL time.Duration) *LeaderboardService {
	if size <= 0 {
		size = 20
	}
	return &LeaderboardService{
		db:       db,
		size:     size,
		cacheTTL: cacheTTL,
		cacheGet: utils.CacheGetBytes,
		cacheSet: utils.CacheSetJSON,
	}
}

// NewUncachedLeaderboardService creates the service without cache hooks.
func NewUncachedLeaderboardService(db *gorm.DB, size int) *LeaderboardService {
	return &LeaderboardService{db: db, size: size}
}

func leaderboardCacheKey(companyID uint) string {
	return fmt.Sprintf("cache:leaderboard:company:%d", companyID)
}

// CompanyTop returns the company's top employees ordered by points.
func (s *LeaderboardService) CompanyTop(companyID uint) ([]LeaderboardEntry, error) {
	key := leaderboardCacheKey(companyID)
	if s.cacheGet != nil {
		if b, ok := s.cacheGet(key); ok {
			var cached []LeaderboardEntry
			if err := json.Unmarshal(b, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var users []models.User
	err := s.db.
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("total_points DESC, id ASC").
		Limit(s.size).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	entries := make([]LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, LeaderboardEntry{
			Rank:          i + 1,
			UserID:        u.ID,
			Username:      u.Username,
			Level:         u.Level,
			TotalPoints:   u.TotalPoints,
			CurrentStreak: u.CurrentStreak,
		})
	}

	if s.cacheSet != nil {
		s.cacheSet(key, entries, s.cacheTTL)
	}
	return entries, nil
}

// Invalidate drops the cached ranking after rewards change standings.
func (s *LeaderboardService) Invalidate(companyID uint) {
	utils.InvalidateByPrefix(leaderboardCacheKey(companyID))
}
