package models

import "time"

// ProofStatus is the review state of submitted proof media
type ProofStatus string

const (
	ProofPending  ProofStatus = "PENDING"
	ProofApproved ProofStatus = "APPROVED"
	ProofRejected ProofStatus = "REJECTED"
)

// Proof records one uploaded piece of mission evidence. AntiCheatScore is the
// heuristic legitimacy score (0.0-1.0, lower is more suspicious).
type Proof struct {
	ID                string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID            string `gorm:"type:uuid;not null;index" json:"user_id"`
	MissionProgressID string `gorm:"type:uuid;not null;index" json:"mission_progress_id"`

	Type       string      `gorm:"size:50;not null" json:"type"` // "photo" or "video"
	StorageURL string      `gorm:"type:text;not null" json:"storage_url"`
	StorageKey string      `gorm:"type:text;not null" json:"storage_key"`
	Status     ProofStatus `gorm:"size:20;default:'PENDING';not null" json:"status"`

	AntiCheatScore *float64   `json:"anti_cheat_score,omitempty"`
	VerifiedAt     *time.Time `json:"verified_at,omitempty"`

	Timestamps
}
