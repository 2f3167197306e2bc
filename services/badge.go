package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BadgeService struct {
	DB      *gorm.DB
	Rewards *RewardService
}

func NewBadgeService(db *gorm.DB, rewards *RewardService) *BadgeService {
	return &BadgeService{DB: db, Rewards: rewards}
}

// EvaluateAndAward scans the active badge catalog against the user's current
// aggregates and grants every newly satisfied badge. It is called after every
// XP-awarding or corruption-clearing action and is safe to call redundantly:
// nothing happens when nothing newly qualifies.
//
// Grant failure policy is best-effort and non-blocking: a reward-payment
// hiccup never rolls back the UserBadge row and never aborts evaluation of
// the remaining badges. Badge recognition must not be lost to a secondary
// payout failure.
func (s *BadgeService) EvaluateAndAward(userID string) ([]models.Badge, error) {
	var user models.User
	if err := s.DB.Where("id = ?", userID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var missionsCompleted int64
	if err := s.DB.Model(&models.MissionProgress{}).
		Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Count(&missionsCompleted).Error; err != nil {
		return nil, err
	}

	var catalog []models.Badge
	if err := s.DB.Where("is_active = ?", true).Find(&catalog).Error; err != nil {
		return nil, err
	}

	var earned []models.UserBadge
	if err := s.DB.Select("badge_id").Where("user_id = ?", userID).Find(&earned).Error; err != nil {
		return nil, err
	}
	earnedIDs := make(map[string]bool, len(earned))
	for _, ub := range earned {
		earnedIDs[ub.BadgeID] = true
	}

	var awarded []models.Badge
	for _, badge := range catalog {
		if earnedIDs[badge.ID] {
			continue
		}
		if !meetsRequirement(badge, &user, missionsCompleted) {
			continue
		}

		if err := s.grant(userID, badge); err != nil {
			// another evaluation won the race; treat as already earned
			if err == ErrBadgeAlreadyEarned {
				continue
			}
			log.Printf("[BADGE] grant failed for %s (user %s): %v", badge.Code, userID, err)
			continue
		}
		awarded = append(awarded, badge)
		fmt.Printf("🎖️ Badge awarded: %s → %s\n", badge.Name, userID)
	}

	return awarded, nil
}

func meetsRequirement(badge models.Badge, user *models.User, missionsCompleted int64) bool {
	switch badge.RequirementType {
	case models.RequirementXPReached:
		return user.XP >= badge.RequirementValue
	case models.RequirementLevelReached:
		return user.Level >= badge.RequirementValue
	case models.RequirementMissionComplete:
		return missionsCompleted >= int64(badge.RequirementValue)
	case models.RequirementCorruptionCleared:
		return user.CorruptionCleared >= badge.RequirementValue
	case models.RequirementEcoKarma:
		return user.TotalEcoKarma >= badge.RequirementValue
	}
	return false
}

// grant inserts the UserBadge row and pays out the badge reward. The unique
// constraint on (user_id, badge_id) is the race guard; a duplicate insert is
// reported as ErrBadgeAlreadyEarned.
func (s *BadgeService) grant(userID string, badge models.Badge) error {
	userBadge := models.UserBadge{
		ID:      uuid.NewString(),
		UserID:  userID,
		BadgeID: badge.ID,
	}
	if err := s.DB.Create(&userBadge).Error; err != nil {
		if isDuplicateErr(err) {
			return ErrBadgeAlreadyEarned
		}
		return err
	}

	if badge.RewardAmount > 0 {
		meta, _ := json.Marshal(map[string]string{"badgeId": badge.ID, "badgeCode": badge.Code})
		// keyed by badge id — at most one payout per badge per user
		if _, err := s.Rewards.IssueReward(userID, badge.ID, badge.RewardAmount, models.RewardTypeBadgeReward, string(meta)); err != nil {
			log.Printf("[BADGE] reward payout failed for %s (user %s): %v", badge.Code, userID, err)
		}
	}
	return nil
}

// ClaimBadge is the explicit user-action path: grants an active badge the
// user has not yet earned, paying out its reward.
func (s *BadgeService) ClaimBadge(userID, badgeID string) (*models.Badge, error) {
	var badge models.Badge
	if err := s.DB.Where("id = ? AND is_active = ?", badgeID, true).First(&badge).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBadgeNotFound
		}
		return nil, err
	}

	if err := s.grant(userID, badge); err != nil {
		return nil, err
	}
	return &badge, nil
}

// ListBadges returns the active catalog, newest first.
func (s *BadgeService) ListBadges() ([]models.Badge, error) {
	var badges []models.Badge
	err := s.DB.Where("is_active = ?", true).Order("created_at DESC").Find(&badges).Error
	return badges, err
}

// EarnedBadge pairs a catalog entry with when the user earned it
type EarnedBadge struct {
	models.Badge
	EarnedAt time.Time `json:"earned_at"`
}

// GetUserBadges returns the user's earned badges, newest first.
func (s *BadgeService) GetUserBadges(userID string) ([]EarnedBadge, error) {
	var rows []struct {
		models.Badge
		EarnedAt time.Time
	}
	err := s.DB.Model(&models.UserBadge{}).
		Select("badges.*, user_badges.earned_at").
		Joins("INNER JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.earned_at DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]EarnedBadge, 0, len(rows))
	for _, r := range rows {
		out = append(out, EarnedBadge{Badge: r.Badge, EarnedAt: r.EarnedAt})
	}
	return out, nil
}

// SeedBadges inserts the default catalog entries that are not present yet.
// The ID must stay empty until the lookup ran: a pre-assigned primary key
// would be added to the query conditions and shadow the match on code.
func (s *BadgeService) SeedBadges() error {
	for _, badge := range models.DefaultBadges {
		b := badge
		b.IsActive = true
		if err := s.DB.Where("code = ?", b.Code).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}
	return nil
}
