package services

import (
	"testing"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueRewardIsIdempotentPerProgress(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewRewardService(db)

	progressID := uuid.NewString()

	first, err := svc.IssueReward(user.ID, progressID, 100, models.RewardTypeCoins, "")
	require.NoError(t, err)
	assert.Equal(t, 100, first.Amount)

	_, err = svc.IssueReward(user.ID, progressID, 100, models.RewardTypeCoins, "")
	assert.ErrorIs(t, err, ErrDuplicateReward)

	var count int64
	require.NoError(t, db.Model(&models.Reward{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// same progress id for a different user is a separate grant
	other := createTestUser(t, db)
	_, err = svc.IssueReward(other.ID, progressID, 100, models.RewardTypeCoins, "")
	assert.NoError(t, err)
}

func TestIssueRewardRejectsNegativeAmount(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewRewardService(db)

	_, err := svc.IssueReward(user.ID, uuid.NewString(), -50, models.RewardTypeCoins, "")
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// zero is a legitimate ledger entry
	_, err = svc.IssueReward(user.ID, uuid.NewString(), 0, models.RewardTypeCoins, "")
	assert.NoError(t, err)
}

func TestIssueRewardMetadataIsNullWhenEmpty(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewRewardService(db)

	// an empty metadata string must land as NULL, never as '' in a jsonb column
	bare, err := svc.IssueReward(user.ID, uuid.NewString(), 10, models.RewardTypeCoins, "")
	require.NoError(t, err)

	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, "id = ?", bare.ID).Error)
	assert.Nil(t, reloaded.Metadata)

	tagged, err := svc.IssueReward(user.ID, uuid.NewString(), 10, models.RewardTypeCoins, `{"source":"test"}`)
	require.NoError(t, err)
	reloaded = models.Reward{}
	require.NoError(t, db.First(&reloaded, "id = ?", tagged.ID).Error)
	require.NotNil(t, reloaded.Metadata)
	assert.JSONEq(t, `{"source":"test"}`, *reloaded.Metadata)
}

func TestListRewardsPaginatesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewRewardService(db)

	for i := 0; i < 5; i++ {
		_, err := svc.IssueReward(user.ID, uuid.NewString(), 10*(i+1), models.RewardTypeCoins, "")
		require.NoError(t, err)
	}
	_, err := svc.IssueReward(user.ID, uuid.NewString(), 7, models.RewardTypePoints, "")
	require.NoError(t, err)

	rewards, total, err := svc.ListRewards(user.ID, 1, 4, "")
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, rewards, 4)

	rewards, total, err = svc.ListRewards(user.ID, 2, 4, "")
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, rewards, 2)

	rewards, total, err = svc.ListRewards(user.ID, 1, 10, string(models.RewardTypePoints))
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, rewards, 1)
	assert.Equal(t, 7, rewards[0].Amount)
}

func TestTotalCoinsCountsBadgePayouts(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewRewardService(db)

	_, err := svc.IssueReward(user.ID, uuid.NewString(), 100, models.RewardTypeCoins, "")
	require.NoError(t, err)
	_, err = svc.IssueReward(user.ID, uuid.NewString(), 50, models.RewardTypeBadgeReward, "")
	require.NoError(t, err)
	_, err = svc.IssueReward(user.ID, uuid.NewString(), 999, models.RewardTypePoints, "")
	require.NoError(t, err)

	total, err := svc.TotalCoins(user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 150, total)
}
