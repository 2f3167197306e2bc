package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IDs are assigned in the application so the schema works the same on
// postgres and on the sqlite databases the test suite runs against.

func ensureID(id *string) {
	if *id == "" {
		*id = uuid.NewString()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error { ensureID(&u.ID); return nil }

func (m *Mission) BeforeCreate(*gorm.DB) error { ensureID(&m.ID); return nil }

func (p *MissionProgress) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }

func (r *Reward) BeforeCreate(*gorm.DB) error { ensureID(&r.ID); return nil }

func (b *Badge) BeforeCreate(*gorm.DB) error { ensureID(&b.ID); return nil }

func (ub *UserBadge) BeforeCreate(*gorm.DB) error { ensureID(&ub.ID); return nil }

func (r *MapRegion) BeforeCreate(*gorm.DB) error { ensureID(&r.ID); return nil }

func (p *Proof) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }

func (l *Lesson) BeforeCreate(*gorm.DB) error { ensureID(&l.ID); return nil }

func (q *QuizQuestion) BeforeCreate(*gorm.DB) error { ensureID(&q.ID); return nil }

func (lp *LearningProgress) BeforeCreate(*gorm.DB) error { ensureID(&lp.ID); return nil }
