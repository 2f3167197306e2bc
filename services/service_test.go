package services

import (
	"fmt"
	"testing"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a throwaway in-memory database with the full schema. The
// shared-cache DSN keeps gorm's connection pool pointed at the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Mission{},
		&models.MissionProgress{},
		&models.Reward{},
		&models.Badge{},
		&models.UserBadge{},
		&models.MapRegion{},
		&models.Proof{},
		&models.Lesson{},
		&models.QuizQuestion{},
		&models.LearningProgress{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()

	suffix := uuid.NewString()[:8]
	user := &models.User{
		Email:        fmt.Sprintf("hero-%s@example.com", suffix),
		Username:     "hero-" + suffix,
		PasswordHash: "not-a-real-hash",
		Level:        1,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestMission(t *testing.T, db *gorm.DB, mutate func(*models.Mission)) *models.Mission {
	t.Helper()

	suffix := uuid.NewString()[:8]
	mission := &models.Mission{
		Code:         "plant-a-tree-" + suffix,
		Title:        "Plant a Tree " + suffix,
		Description:  "Plant a sapling and photograph it",
		Type:         "photo",
		RewardAmount: 100,
		IsActive:     true,
	}
	if mutate != nil {
		mutate(mission)
	}
	require.NoError(t, db.Create(mission).Error)
	return mission
}
