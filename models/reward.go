package models

import "time"

// RewardType distinguishes what triggered the grant
type RewardType string

const (
	RewardTypeCoins       RewardType = "coins"
	RewardTypeBadgeReward RewardType = "badge_reward"
	RewardTypePoints      RewardType = "points"
	RewardTypeItem        RewardType = "item"
)

// Reward is an immutable ledger entry. MissionProgressID is the idempotency
// key: the composite unique index with UserID is the system's at-most-once
// issuance guarantee and must stay the source of truth, not an application
// read-then-write. Badge payouts reuse the badge id as the key, matching the
// UserBadge unique constraint.
type Reward struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_rewards_user_progress" json:"user_id"`

	// varchar, not uuid: badge-driven grants store the badge id here
	MissionProgressID string `gorm:"size:255;not null;uniqueIndex:idx_rewards_user_progress" json:"mission_progress_id"`

	Amount int        `gorm:"not null" json:"amount"`
	Type   RewardType `gorm:"size:50;not null" json:"type"`

	// nullable: postgres rejects an empty string as jsonb, so "no metadata"
	// must reach the driver as NULL
	Metadata *string   `gorm:"type:jsonb" json:"metadata,omitempty"`
	IssuedAt time.Time `gorm:"autoCreateTime" json:"issued_at"`
}
