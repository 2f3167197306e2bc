package models

import "time"

// BadgeRequirementType selects which user aggregate a badge threshold is
// compared against (>= comparison).
type BadgeRequirementType string

const (
	RequirementXPReached         BadgeRequirementType = "xp_reached"
	RequirementLevelReached      BadgeRequirementType = "level_reached"
	RequirementMissionComplete   BadgeRequirementType = "mission_complete"
	RequirementCorruptionCleared BadgeRequirementType = "corruption_cleared"
	RequirementEcoKarma          BadgeRequirementType = "eco_karma"
)

// Badge: static catalog (seeded from DefaultBadges or authored via DB)
type Badge struct {
	ID               string               `gorm:"primaryKey;type:uuid" json:"id"`
	Code             string               `gorm:"size:100;uniqueIndex;not null" json:"code"` // e.g., "FIRST_MISSION", "KARMA_100"
	Name             string               `gorm:"size:255;not null" json:"name"`
	Description      string               `gorm:"type:text;not null" json:"description"`
	Icon             string               `gorm:"size:100" json:"icon,omitempty"`
	RequirementType  BadgeRequirementType `gorm:"size:50;not null" json:"requirement_type"`
	RequirementValue int                  `gorm:"not null" json:"requirement_value"`
	RewardAmount     int                  `gorm:"default:0;not null" json:"reward_amount"` // coins granted on award
	IsActive         bool                 `gorm:"not null" json:"is_active"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
}

// UserBadge: earned instance. The composite unique index is the authoritative
// guard against concurrent double-grants.
type UserBadge struct {
	ID       string    `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge" json:"user_id"`
	BadgeID  string    `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge" json:"badge_id"`
	EarnedAt time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

// DefaultBadges seeds the catalog on first boot
var DefaultBadges = []Badge{
	{
		Code:             "FIRST_STEPS",
		Name:             "First Steps",
		Description:      "Complete your first mission",
		Icon:             "seedling",
		RequirementType:  RequirementMissionComplete,
		RequirementValue: 1,
		RewardAmount:     50,
	},
	{
		Code:             "MISSION_VETERAN",
		Name:             "Mission Veteran",
		Description:      "Complete 10 missions",
		Icon:             "medal",
		RequirementType:  RequirementMissionComplete,
		RequirementValue: 10,
		RewardAmount:     200,
	},
	{
		Code:             "XP_500",
		Name:             "Rising Hero",
		Description:      "Reach 500 XP",
		Icon:             "star",
		RequirementType:  RequirementXPReached,
		RequirementValue: 500,
		RewardAmount:     100,
	},
	{
		Code:             "LEVEL_5",
		Name:             "Seasoned Guardian",
		Description:      "Reach level 5",
		Icon:             "shield",
		RequirementType:  RequirementLevelReached,
		RequirementValue: 5,
		RewardAmount:     250,
	},
	{
		Code:             "KARMA_100",
		Name:             "Karma Keeper",
		Description:      "Accumulate 100 eco-karma",
		Icon:             "leaf",
		RequirementType:  RequirementEcoKarma,
		RequirementValue: 100,
		RewardAmount:     150,
	},
	{
		Code:             "PURIFIER",
		Name:             "Purifier",
		Description:      "Clear 100 corruption",
		Icon:             "droplet",
		RequirementType:  RequirementCorruptionCleared,
		RequirementValue: 100,
		RewardAmount:     300,
	},
}
