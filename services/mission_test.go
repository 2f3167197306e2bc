package services

import (
	"testing"

	"eco-quest-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMissionService(t *testing.T) (*MissionService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	rewards := NewRewardService(db)
	progression := NewProgressionService(db)
	badges := NewBadgeService(db, rewards)
	mapSvc := NewMapService(db)
	return NewMissionService(db, rewards, progression, badges, mapSvc), db
}

func TestStartCreatesProgress(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)
	mission := createTestMission(t, db, nil)

	progress, got, err := svc.Start(user.ID, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, mission.ID, got.ID)
	assert.Equal(t, models.StatusInProgress, progress.Status)
	assert.Equal(t, 0, progress.Progress)
	assert.NotNil(t, progress.StartedAt)
}

func TestStartRejectsUnknownAndInactive(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)

	_, _, err := svc.Start(user.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrMissionNotFound)

	inactive := createTestMission(t, db, func(m *models.Mission) { m.IsActive = false })

	// the inactive flag must survive the INSERT, not get flipped by a column
	// default dropping the zero value
	var persisted models.Mission
	require.NoError(t, db.First(&persisted, "id = ?", inactive.ID).Error)
	assert.False(t, persisted.IsActive)

	_, _, err = svc.Start(user.ID, inactive.ID)
	assert.ErrorIs(t, err, ErrMissionInactive)
}

func TestStartHonorsPrerequisiteUnlock(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)

	first := createTestMission(t, db, nil)
	second := createTestMission(t, db, func(m *models.Mission) {
		m.UnlocksAfterMissionID = &first.ID
	})

	_, _, err := svc.Start(user.ID, second.ID)
	assert.ErrorIs(t, err, ErrMissionLocked)

	_, _, err = svc.Start(user.ID, first.ID)
	require.NoError(t, err)
	_, _, err = svc.Complete(user.ID, first.ID)
	require.NoError(t, err)

	_, _, err = svc.Start(user.ID, second.ID)
	assert.NoError(t, err)
}

func TestStartHonorsCorruptionGate(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)
	gated := createTestMission(t, db, func(m *models.Mission) {
		m.RequiresCorruptionCleared = true
	})

	_, _, err := svc.Start(user.ID, gated.ID)
	assert.ErrorIs(t, err, ErrCorruptionLocked)

	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("corruption_cleared", models.CorruptionClearedUnlockThreshold).Error)

	_, _, err = svc.Start(user.ID, gated.ID)
	assert.NoError(t, err)
}

func TestRestartKeepsProgressValue(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)
	mission := createTestMission(t, db, nil)

	_, _, err := svc.Start(user.ID, mission.ID)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(user.ID, mission.ID, 60)
	require.NoError(t, err)

	progress, _, err := svc.Start(user.ID, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, progress.Status)
	assert.Equal(t, 60, progress.Progress)
}

func TestStartFailsOnCompletedMission(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)
	mission := createTestMission(t, db, nil)

	_, _, err := svc.Start(user.ID, mission.ID)
	require.NoError(t, err)
	_, _, err = svc.Complete(user.ID, mission.ID)
	require.NoError(t, err)

	_, _, err = svc.Start(user.ID, mission.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestUpdateProgressBoundsAndStates(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)
	mission := createTestMission(t, db, nil)

	_, err := svc.UpdateProgress(user.ID, mission.ID, 50)
	assert.ErrorIs(t, err, ErrProgressNotFound)

	_, _, err = svc.Start(user.ID, mission.ID)
	require.NoError(t, err)

	_, err = svc.UpdateProgress(user.ID, mission.ID, -1)
	assert.ErrorIs(t, err, ErrInvalidProgress)
	_, err = svc.UpdateProgress(user.ID, mission.ID, 101)
	assert.ErrorIs(t, err, ErrInvalidProgress)

	progress, err := svc.UpdateProgress(user.ID, mission.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, progress.Status)

	progress, err = svc.UpdateProgress(user.ID, mission.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingReview, progress.Status)

	_, _, err = svc.Complete(user.ID, mission.ID)
	require.NoError(t, err)
	_, err = svc.UpdateProgress(user.ID, mission.ID, 10)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

func TestCompleteLifecycle(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)
	mission := createTestMission(t, db, nil)

	_, _, err := svc.Complete(user.ID, mission.ID)
	assert.ErrorIs(t, err, ErrProgressNotFound)

	_, _, err = svc.Start(user.ID, mission.ID)
	require.NoError(t, err)

	progress, _, err := svc.Complete(user.ID, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, progress.Status)
	assert.Equal(t, 100, progress.Progress)
	assert.NotNil(t, progress.CompletedAt)

	_, _, err = svc.Complete(user.ID, mission.ID)
	assert.ErrorIs(t, err, ErrAlreadyCompleted)
}

// Completing a corruption mission fans out into coins, XP, karma, the global
// corruption counter, and the mission's region.
func TestCompleteRunsFullCascade(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)

	region := "river_cleanup"
	mission := createTestMission(t, db, func(m *models.Mission) {
		m.RewardAmount = 200
		m.IsCorruptionMission = true
		m.CorruptionLevel = 20
		m.Region = &region
	})

	_, _, err := svc.Start(user.ID, mission.ID)
	require.NoError(t, err)
	progress, _, err := svc.Complete(user.ID, mission.ID)
	require.NoError(t, err)

	// coins ledger entry keyed by the progress row
	var reward models.Reward
	require.NoError(t, db.Where("user_id = ? AND mission_progress_id = ?", user.ID, progress.ID).First(&reward).Error)
	assert.Equal(t, models.RewardTypeCoins, reward.Type)
	assert.Equal(t, 200, reward.Amount)

	// XP is 50 base + rewardAmount/10; 70 XP stays level 1
	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 70, reloaded.XP)
	assert.Equal(t, 1, reloaded.Level)
	assert.Equal(t, 20, reloaded.TotalEcoKarma)
	assert.Equal(t, 20, reloaded.CorruptionCleared)

	// region row created by the mission-driven path
	var row models.MapRegion
	require.NoError(t, db.Where("user_id = ? AND region = ?", user.ID, region).First(&row).Error)
	assert.Equal(t, 80, row.CorruptionLevel)
	assert.True(t, row.IsUnlocked)
	assert.Equal(t, 1, row.MissionsCompleted)
	assert.Equal(t, 1, row.TotalMissions)
}

func TestCompleteSurvivesDuplicateReward(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)
	mission := createTestMission(t, db, nil)

	_, _, err := svc.Start(user.ID, mission.ID)
	require.NoError(t, err)

	// pre-issue the reward so the coins effect hits the duplicate guard
	var progress models.MissionProgress
	require.NoError(t, db.Where("user_id = ? AND mission_id = ?", user.ID, mission.ID).First(&progress).Error)
	_, err = svc.Rewards.IssueReward(user.ID, progress.ID, mission.RewardAmount, models.RewardTypeCoins, "")
	require.NoError(t, err)

	// completion still succeeds and the rest of the cascade still ran
	completed, _, err := svc.Complete(user.ID, mission.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, completed.Status)

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 60, reloaded.XP) // 50 + 100/10
}

func TestListMissionsAnnotatesUnlockAndProgress(t *testing.T) {
	svc, db := newMissionService(t)
	user := createTestUser(t, db)

	first := createTestMission(t, db, nil)
	locked := createTestMission(t, db, func(m *models.Mission) {
		m.UnlocksAfterMissionID = &first.ID
	})

	_, _, err := svc.Start(user.ID, first.ID)
	require.NoError(t, err)

	views, total, err := svc.ListMissions(user.ID, MissionFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	byID := make(map[string]MissionView, len(views))
	for _, v := range views {
		byID[v.Mission.ID] = v
	}
	assert.True(t, byID[first.ID].IsUnlocked)
	require.NotNil(t, byID[first.ID].Progress)
	assert.Equal(t, models.StatusInProgress, byID[first.ID].Progress.Status)

	assert.False(t, byID[locked.ID].IsUnlocked)
	assert.Nil(t, byID[locked.ID].Progress)
}

func TestCreateMissionSlugsCode(t *testing.T) {
	svc, db := newMissionService(t)
	_ = db

	mission := &models.Mission{
		Title:        "Clean the Riverbank!",
		Description:  "Pick up litter along the river",
		Type:         "photo",
		RewardAmount: 80,
		IsActive:     true,
	}
	require.NoError(t, svc.CreateMission(mission))
	assert.Equal(t, "clean-the-riverbank", mission.Code)

	// same title again gets a disambiguated code instead of failing
	dup := &models.Mission{
		Title:        "Clean the Riverbank!",
		Description:  "Pick up litter along the river",
		Type:         "photo",
		RewardAmount: 80,
		IsActive:     true,
	}
	require.NoError(t, svc.CreateMission(dup))
	assert.NotEqual(t, mission.Code, dup.Code)
	assert.Contains(t, dup.Code, "clean-the-riverbank")
}
