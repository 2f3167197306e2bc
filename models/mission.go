package models

// Mission is a static-ish catalog entry. Authored/seeded externally and
// read-only from the progression core's perspective.
type Mission struct {
	ID          string `gorm:"primaryKey;type:uuid" json:"id"`
	Code        string `gorm:"size:255;uniqueIndex;not null" json:"code"` // slugged title
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Type        string `gorm:"size:50;not null" json:"type"` // "photo", "video", "location", "action"

	Category *string `gorm:"size:50" json:"category,omitempty"`
	God      *string `gorm:"size:50" json:"god,omitempty"`
	Region   *string `gorm:"size:50" json:"region,omitempty"`

	RewardAmount int `gorm:"not null" json:"reward_amount"`

	// Corruption-clearing missions carry the amount of corruption they clear
	CorruptionLevel     int  `gorm:"default:0;not null" json:"corruption_level"`
	IsCorruptionMission bool `gorm:"default:false;not null" json:"is_corruption_mission"`

	// Unlock gating
	UnlocksAfterMissionID     *string `gorm:"type:uuid" json:"unlocks_after_mission_id,omitempty"`
	RequiresCorruptionCleared bool    `gorm:"default:false;not null" json:"requires_corruption_cleared"`

	LessonID *string `gorm:"type:uuid" json:"lesson_id,omitempty"`

	// no column default: an inactive mission stores false, and a gorm default
	// tag would drop that zero from the INSERT
	IsActive     bool    `gorm:"not null" json:"is_active"`
	Requirements *string `gorm:"type:jsonb" json:"requirements,omitempty"` // mission-specific requirements (JSON)

	Timestamps
}

// CorruptionClearedUnlockThreshold gates missions with RequiresCorruptionCleared
// on the user's global corruption_cleared counter.
const CorruptionClearedUnlockThreshold = 100
