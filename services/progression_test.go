package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXPThresholdForLevel(t *testing.T) {
	assert.Equal(t, 0, XPThresholdForLevel(0))
	assert.Equal(t, 0, XPThresholdForLevel(1))
	assert.Equal(t, 100, XPThresholdForLevel(2))
	assert.Equal(t, 300, XPThresholdForLevel(3))
	assert.Equal(t, 600, XPThresholdForLevel(4))
	assert.Equal(t, 1000, XPThresholdForLevel(5))
}

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(-5))
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 2, LevelForXP(299))
	assert.Equal(t, 3, LevelForXP(300))
	assert.Equal(t, 4, LevelForXP(600))

	// the two functions agree at every threshold boundary
	for level := 2; level <= 20; level++ {
		threshold := XPThresholdForLevel(level)
		assert.Equal(t, level, LevelForXP(threshold), "at threshold of level %d", level)
		assert.Equal(t, level-1, LevelForXP(threshold-1), "just below threshold of level %d", level)
	}
}

func TestXPRequiredForNextLevel(t *testing.T) {
	assert.Equal(t, 200, XPRequiredForNextLevel(1))
	assert.Equal(t, 300, XPRequiredForNextLevel(2))
}

func TestProgressWithinLevel(t *testing.T) {
	p := ProgressWithinLevel(50, 1)
	assert.Equal(t, 0, p.CurrentLevelXP)
	assert.Equal(t, 100, p.NextLevelXP)
	assert.Equal(t, 50, p.ProgressPercent)

	// clamped above when xp exceeds the stored level's span
	p = ProgressWithinLevel(250, 1)
	assert.Equal(t, 100, p.ProgressPercent)

	// clamped below when xp is under the stored level's entry threshold
	p = ProgressWithinLevel(50, 3)
	assert.Equal(t, 0, p.ProgressPercent)
}

func TestAwardXPRaisesLevel(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewProgressionService(db)

	updated, err := svc.AwardXP(user.ID, 100, "test")
	require.NoError(t, err)
	assert.Equal(t, 100, updated.XP)
	assert.Equal(t, 2, updated.Level)

	updated, err = svc.AwardXP(user.ID, 500, "test")
	require.NoError(t, err)
	assert.Equal(t, 600, updated.XP)
	assert.Equal(t, 4, updated.Level)
}

func TestAwardXPNeverLowersLevel(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	require.NoError(t, db.Model(user).Update("level", 7).Error)

	svc := NewProgressionService(db)
	updated, err := svc.AwardXP(user.ID, 10, "test")
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Level)
}

func TestAwardXPRejectsNegative(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewProgressionService(db)

	_, err := svc.AwardXP(user.ID, -1, "test")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestAwardXPUnknownUser(t *testing.T) {
	db := newTestDB(t)
	svc := NewProgressionService(db)

	_, err := svc.AwardXP("00000000-0000-0000-0000-000000000000", 10, "test")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAggregateIncrements(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db)
	svc := NewProgressionService(db)

	require.NoError(t, svc.AddEcoKarma(user.ID, 30))
	require.NoError(t, svc.AddEcoKarma(user.ID, 15))
	require.NoError(t, svc.AddCorruptionCleared(user.ID, 20))

	var reloaded = *user
	require.NoError(t, db.First(&reloaded, "id = ?", user.ID).Error)
	assert.Equal(t, 45, reloaded.TotalEcoKarma)
	assert.Equal(t, 20, reloaded.CorruptionCleared)

	assert.ErrorIs(t, svc.AddEcoKarma(user.ID, -1), ErrInvalidAmount)
	assert.ErrorIs(t, svc.AddEcoKarma("00000000-0000-0000-0000-000000000000", 5), ErrUserNotFound)
}
