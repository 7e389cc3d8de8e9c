package utils

import (
	"context"
	"encoding/json"
	"time"
)

// Pub/sub channels consumed by the realtime notification layer.
const (
	ChannelAchievementEarned  = "events:achievement_earned"
	ChannelLeaderboardUpdated = "events:leaderboard_updated"
)

// AchievementEarnedEvent is published whenever a user earns an achievement.
type AchievementEarnedEvent struct {
	UserID          uint      `json:"user_id"`
	CompanyID       uint      `json:"company_id"`
	AchievementID   uint      `json:"achievement_id"`
	AchievementName string    `json:"achievement_name"`
	EarnedAt        time.Time `json:"earned_at"`
}

// LeaderboardUpdatedEvent is published after rewards change company standings.
type LeaderboardUpdatedEvent struct {
	CompanyID uint      `json:"company_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PublishEvent serializes payload and publishes it on the channel.
// Fire-and-forget: failures are logged and never propagated to callers, so a
// broken notification layer cannot fail the classification pipeline.
func PublishEvent(channel string, payload interface{}) {
	rc := GetRedis()
	if rc == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		if Sugar != nil {
			Sugar.Warnf("pubsub marshal failed channel=%s err=%v", channel, err)
		}
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := rc.Publish(ctx, channel, b).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("pubsub publish failed channel=%s err=%v", channel, err)
		}
	}
}
