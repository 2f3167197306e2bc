package models

import (
	"time"

	"gorm.io/gorm"
)

// User holds identity plus the denormalized progression aggregates that every
// reward-granting flow mutates. Aggregates only ever grow; level is derived
// from XP but never lowered once stored.
type User struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username     string `gorm:"size:100;uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"type:text;not null" json:"-"`

	DeviceID   *string `gorm:"size:255" json:"device_id,omitempty"`
	DeviceInfo *string `gorm:"type:text" json:"device_info,omitempty"` // JSON string

	// Alignment — changeable only with an explicit force flag once set
	SelectedGod *string `gorm:"size:50" json:"selected_god,omitempty"`

	// Progression aggregates (monotonic)
	XP                int `gorm:"default:0;not null" json:"xp"`
	Level             int `gorm:"default:1;not null" json:"level"`
	TotalEcoKarma     int `gorm:"default:0;not null" json:"total_eco_karma"`
	CorruptionCleared int `gorm:"default:0;not null" json:"corruption_cleared"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
