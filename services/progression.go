package services

import (
	"fmt"
	"math"

	"eco-quest-system/models"

	"gorm.io/gorm"
)

// Level thresholds follow a triangular sequence: reaching level L from L-1
// costs 100*L XP, so the cumulative XP to enter level L is 50*L*(L-1).
// Level 1 starts at XP 0.
const BaseXPPerLevel = 100

// LevelForXP returns the largest level whose cumulative threshold is <= xp.
func LevelForXP(xp int) int {
	if xp < 0 {
		return 1
	}
	level := 1
	required := BaseXPPerLevel
	for xp >= required {
		level++
		required += BaseXPPerLevel * level
	}
	return level
}

// XPThresholdForLevel returns the cumulative XP required to enter a level
// (0 for level <= 1).
func XPThresholdForLevel(level int) int {
	if level <= 1 {
		return 0
	}
	return 50 * level * (level - 1)
}

// XPRequiredForNextLevel returns the XP cost of the next level-up step.
func XPRequiredForNextLevel(currentLevel int) int {
	return BaseXPPerLevel * (currentLevel + 1)
}

// LevelProgress describes a user's position inside their current level
type LevelProgress struct {
	CurrentLevelXP  int `json:"current_level_xp"`
	NextLevelXP     int `json:"next_level_xp"`
	ProgressPercent int `json:"progress_percent"`
}

// ProgressWithinLevel computes the intra-level completion percentage, clamped
// to [0,100]. A malformed level with a zero-width span reports 100.
func ProgressWithinLevel(xp, level int) LevelProgress {
	currentLevelXP := XPThresholdForLevel(level)
	nextLevelXP := XPThresholdForLevel(level + 1)
	span := nextLevelXP - currentLevelXP

	percent := 100
	if span > 0 {
		percent = int(math.Round(float64(xp-currentLevelXP) / float64(span) * 100))
		if percent < 0 {
			percent = 0
		}
		if percent > 100 {
			percent = 100
		}
	}

	return LevelProgress{
		CurrentLevelXP:  currentLevelXP,
		NextLevelXP:     nextLevelXP,
		ProgressPercent: percent,
	}
}

// ProgressionService owns the named mutations on User aggregates. Each one is
// monotonic: aggregates only ever increase, and the stored level is never
// lowered even if a recompute would derive a smaller value.
type ProgressionService struct {
	DB *gorm.DB
}

func NewProgressionService(db *gorm.DB) *ProgressionService {
	return &ProgressionService{DB: db}
}

// AwardXP adds xp to the user and recomputes the level, raising it only.
// Returns the updated user.
func (s *ProgressionService) AwardXP(userID string, xp int, reason string) (*models.User, error) {
	if xp < 0 {
		return nil, ErrInvalidAmount
	}

	var updated *models.User
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ?", userID).First(&user).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrUserNotFound
			}
			return err
		}

		user.XP += xp
		if newLevel := LevelForXP(user.XP); newLevel > user.Level {
			user.Level = newLevel
		}

		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		updated = &models.User{}
		*updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	fmt.Printf("🌱 XP Awarded: %s → XP=%d, Lvl=%d (reason: %s)\n",
		userID, updated.XP, updated.Level, reason)
	return updated, nil
}

// AddEcoKarma increments the user's cumulative eco-karma.
func (s *ProgressionService) AddEcoKarma(userID string, amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	return s.increment(userID, "total_eco_karma", amount)
}

// AddCorruptionCleared increments the user's global corruption-cleared
// counter (distinct from per-region levels).
func (s *ProgressionService) AddCorruptionCleared(userID string, amount int) error {
	if amount < 0 {
		return ErrInvalidAmount
	}
	return s.increment(userID, "corruption_cleared", amount)
}

func (s *ProgressionService) increment(userID, column string, amount int) error {
	res := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update(column, gorm.Expr(column+" + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
