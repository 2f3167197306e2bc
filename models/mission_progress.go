package models

import "time"

// ProgressStatus is the lifecycle state of a user's attempt at a mission.
// NOT_STARTED is represented in storage by the absence of a row; StateOf maps
// that absence back into an explicit value so callers never branch on nil.
type ProgressStatus string

const (
	StatusNotStarted    ProgressStatus = "NOT_STARTED"
	StatusInProgress    ProgressStatus = "IN_PROGRESS"
	StatusPendingReview ProgressStatus = "PENDING_REVIEW"
	StatusCompleted     ProgressStatus = "COMPLETED"
	// StatusFailed is reserved for a future proof-rejection path; no in-scope
	// transition produces it.
	StatusFailed ProgressStatus = "FAILED"
)

// MissionProgress tracks one user's attempt at one mission. One row per
// (user, mission) pair. Once COMPLETED the row is immutable.
type MissionProgress struct {
	ID        string         `gorm:"primaryKey;type:uuid" json:"id"`
	UserID    string         `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_mission" json:"user_id"`
	MissionID string         `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_mission" json:"mission_id"`
	Status    ProgressStatus `gorm:"size:20;default:'NOT_STARTED';not null" json:"status"`
	Progress  int            `gorm:"default:0;not null" json:"progress"` // 0-100

	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Timestamps
}

// StateOf returns the lifecycle state for a progress row that may be absent.
func StateOf(p *MissionProgress) ProgressStatus {
	if p == nil {
		return StatusNotStarted
	}
	return p.Status
}
