package services

import (
	"fmt"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardService appends immutable ledger entries. Issuance is at-most-once
// per (user, mission-progress) pair; the composite unique index on the
// rewards table is the authoritative guard, so concurrent calls cannot both
// succeed even without an application-level lock.
type RewardService struct {
	DB *gorm.DB
}

func NewRewardService(db *gorm.DB) *RewardService {
	return &RewardService{DB: db}
}

// IssueReward appends one ledger row. Fails with ErrDuplicateReward if a
// reward already exists for (userID, missionProgressID) and performs no
// mutation in that case. The ledger never touches User aggregates — callers
// update xp/eco-karma separately when the reward type warrants it, because
// not every reward maps 1:1 to every stat.
//
// Badge payouts pass the badge id as missionProgressID: a badge pays out at
// most once per user, matching the UserBadge unique constraint.
func (s *RewardService) IssueReward(userID, missionProgressID string, amount int, rewardType models.RewardType, metadata string) (*models.Reward, error) {
	if amount < 0 {
		return nil, ErrInvalidAmount
	}

	reward := models.Reward{
		ID:                uuid.NewString(),
		UserID:            userID,
		MissionProgressID: missionProgressID,
		Amount:            amount,
		Type:              rewardType,
	}
	if metadata != "" {
		reward.Metadata = &metadata
	}

	if err := s.DB.Create(&reward).Error; err != nil {
		if isDuplicateErr(err) {
			return nil, ErrDuplicateReward
		}
		return nil, err
	}

	fmt.Printf("💰 Reward issued: user=%s key=%s amount=%d type=%s\n",
		userID, missionProgressID, amount, rewardType)
	return &reward, nil
}

// ListRewards returns a page of the user's ledger, newest first, optionally
// filtered by type.
func (s *RewardService) ListRewards(userID string, page, limit int, rewardType string) ([]models.Reward, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := s.DB.Model(&models.Reward{}).Where("user_id = ?", userID)
	if rewardType != "" {
		query = query.Where("type = ?", rewardType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rewards []models.Reward
	err := query.Order("issued_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&rewards).Error
	return rewards, total, err
}

// TotalCoins sums the user's coin-type ledger entries (badge payouts count).
func (s *RewardService) TotalCoins(userID string) (int64, error) {
	var total int64
	err := s.DB.Model(&models.Reward{}).
		Where("user_id = ? AND type IN ?", userID, []models.RewardType{models.RewardTypeCoins, models.RewardTypeBadgeReward}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
