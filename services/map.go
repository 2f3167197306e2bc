package services

import (
	"fmt"
	"math"
	"time"

	"eco-quest-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MapService derives per-user regional corruption state from clearing
// actions. Rows are created lazily; corruption is clamped at 0.
type MapService struct {
	DB *gorm.DB
}

func NewMapService(db *gorm.DB) *MapService {
	return &MapService{DB: db}
}

// RegionState is a catalog region merged with the user's per-region row
// (absent rows render as fully corrupted and locked).
type RegionState struct {
	models.RegionInfo
	CorruptionLevel   int        `json:"corruption_level"`
	IsUnlocked        bool       `json:"is_unlocked"`
	MissionsCompleted int        `json:"missions_completed"`
	TotalMissions     int        `json:"total_missions"`
	LastCleared       *time.Time `json:"last_cleared,omitempty"`
}

// MapState is the aggregate world-map view for one user
type MapState struct {
	AverageCorruption int           `json:"average_corruption"`
	TotalRegions      int           `json:"total_regions"`
	Regions           []RegionState `json:"regions"`
}

// ListRegions returns every catalog region with the user's state overlaid.
func (s *MapService) ListRegions(userID string) ([]RegionState, error) {
	var rows []models.MapRegion
	if err := s.DB.Where("user_id = ?", userID).Find(&rows).Error; err != nil {
		return nil, err
	}

	byRegion := make(map[string]models.MapRegion, len(rows))
	for _, r := range rows {
		byRegion[r.Region] = r
	}

	states := make([]RegionState, 0, len(models.Regions))
	for _, info := range models.Regions {
		state := RegionState{
			RegionInfo:      info,
			CorruptionLevel: models.FullCorruption,
		}
		if row, ok := byRegion[info.ID]; ok {
			state.CorruptionLevel = row.CorruptionLevel
			state.IsUnlocked = row.IsUnlocked
			state.MissionsCompleted = row.MissionsCompleted
			state.TotalMissions = row.TotalMissions
			state.LastCleared = row.LastCleared
		}
		states = append(states, state)
	}
	return states, nil
}

// GetMapState summarizes the user's world map: per-region states plus the
// average corruption across the fixed catalog.
func (s *MapService) GetMapState(userID string) (*MapState, error) {
	states, err := s.ListRegions(userID)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, st := range states {
		total += st.CorruptionLevel
	}
	avg := models.FullCorruption
	if len(states) > 0 {
		avg = int(math.Round(float64(total) / float64(len(states))))
	}

	return &MapState{
		AverageCorruption: avg,
		TotalRegions:      len(states),
		Regions:           states,
	}, nil
}

// ClearRegionCorruption is the direct user-action path. The region must name
// a catalog entry. It unlocks the region on first creation only and never
// touches the mission counters — that is the mission-driven path's job.
func (s *MapService) ClearRegionCorruption(userID, region string, amount int) (*models.MapRegion, error) {
	if !models.IsValidRegion(region) {
		return nil, ErrInvalidRegion
	}

	now := time.Now()
	var row models.MapRegion
	err := s.DB.Where("user_id = ? AND region = ?", userID, region).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		row = models.MapRegion{
			ID:              uuid.NewString(),
			UserID:          userID,
			Region:          region,
			CorruptionLevel: clampCorruption(models.FullCorruption - amount),
			IsUnlocked:      true,
			LastCleared:     &now,
		}
		if err := s.DB.Create(&row).Error; err != nil {
			return nil, err
		}
		return &row, nil
	}
	if err != nil {
		return nil, err
	}

	row.CorruptionLevel = clampCorruption(row.CorruptionLevel - amount)
	row.LastCleared = &now
	if err := s.DB.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ApplyMissionCorruptionClear is invoked from mission completion. It trusts
// the mission's configured region, always unlocks, and increments the
// region's completed-mission counter.
func (s *MapService) ApplyMissionCorruptionClear(userID, region string, amount int) (*models.MapRegion, error) {
	now := time.Now()
	var row models.MapRegion
	err := s.DB.Where("user_id = ? AND region = ?", userID, region).First(&row).Error
	if err == gorm.ErrRecordNotFound {
		row = models.MapRegion{
			ID:                uuid.NewString(),
			UserID:            userID,
			Region:            region,
			CorruptionLevel:   clampCorruption(models.FullCorruption - amount),
			IsUnlocked:        true,
			MissionsCompleted: 1,
			TotalMissions:     1,
			LastCleared:       &now,
		}
		if err := s.DB.Create(&row).Error; err != nil {
			return nil, err
		}
		fmt.Printf("🗺️ Region %s created for %s (corruption=%d)\n", region, userID, row.CorruptionLevel)
		return &row, nil
	}
	if err != nil {
		return nil, err
	}

	row.CorruptionLevel = clampCorruption(row.CorruptionLevel - amount)
	row.IsUnlocked = true
	row.MissionsCompleted++
	row.LastCleared = &now
	if err := s.DB.Save(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func clampCorruption(level int) int {
	if level < 0 {
		return 0
	}
	return level
}
