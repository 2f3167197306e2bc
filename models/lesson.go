package models

import "time"

// Lesson is a static learning-content entry with an ordered quiz.
// Content is nullable jsonb; postgres rejects an empty string for the type.
type Lesson struct {
	ID               string  `gorm:"primaryKey;type:uuid" json:"id"`
	Title            string  `gorm:"size:255;not null" json:"title"`
	Description      string  `gorm:"type:text;not null" json:"description"`
	Content          *string `gorm:"type:jsonb" json:"content,omitempty"`
	God              *string `gorm:"size:50" json:"god,omitempty"`
	Order            int     `gorm:"column:sort_order;not null" json:"order"`
	UnlocksMissionID *string `gorm:"type:uuid" json:"unlocks_mission_id,omitempty"`
	IsActive         bool    `gorm:"not null" json:"is_active"`

	Timestamps
}

// QuizQuestion belongs to a lesson; Options is a JSON array of answer strings
type QuizQuestion struct {
	ID            string    `gorm:"primaryKey;type:uuid" json:"id"`
	LessonID      string    `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Question      string    `gorm:"type:text;not null" json:"question"`
	Options       string    `gorm:"type:jsonb;not null" json:"options"`
	CorrectAnswer int       `gorm:"not null" json:"-"`
	Explanation   string    `gorm:"type:text" json:"explanation,omitempty"`
	Order         int       `gorm:"column:sort_order;not null" json:"order"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// QuizPassScore is the minimum percent score that completes a lesson
const QuizPassScore = 70

// LearningProgress is the per-(user, lesson) completion record
type LearningProgress struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID   string `gorm:"type:uuid;not null;uniqueIndex:idx_learning_user_lesson" json:"user_id"`
	LessonID string `gorm:"type:uuid;not null;uniqueIndex:idx_learning_user_lesson" json:"lesson_id"`

	Completed    bool       `gorm:"default:false;not null" json:"completed"`
	QuizScore    *int       `json:"quiz_score,omitempty"`
	QuizAttempts int        `gorm:"default:0;not null" json:"quiz_attempts"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	Timestamps
}
