package models

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MapRegion is the per-(user, region) corruption record. Rows are created
// lazily on first interaction; corruption starts at 100 (fully corrupted,
// assigned by the creating service) and is clamped at 0 on decrement.
type MapRegion struct {
	ID     string `gorm:"primaryKey;type:uuid" json:"id"`
	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_map_regions_user_region" json:"user_id"`
	Region string `gorm:"size:50;not null;uniqueIndex:idx_map_regions_user_region" json:"region"`

	// no column default: a fully cleared region legitimately stores 0, and a
	// gorm default tag would drop that zero from the INSERT
	CorruptionLevel   int  `gorm:"not null" json:"corruption_level"` // 0-100
	IsUnlocked        bool `gorm:"default:false;not null" json:"is_unlocked"`
	MissionsCompleted int  `gorm:"default:0;not null" json:"missions_completed"`
	TotalMissions     int  `gorm:"default:0;not null" json:"total_missions"`

	LastCleared *time.Time `json:"last_cleared,omitempty"`

	Timestamps
}

// FullCorruption is the starting corruption level for an untouched region.
const FullCorruption = 100

// RegionInfo describes a world-map region in the fixed catalog
type RegionInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Regions is the fixed enumerated catalog. Direct corruption-clearing actions
// are validated against it; mission-driven updates trust the mission's
// configured region.
var Regions = []RegionInfo{
	{ID: "forest_restoration", Name: "Forest Restoration", Description: "Ancient forests corrupted by waste"},
	{ID: "river_cleanup", Name: "River Cleanup", Description: "Polluted rivers need purification"},
	{ID: "urban_pollution", Name: "Urban Pollution", Description: "Cities drowning in waste"},
}

// IsValidRegion reports whether id names a catalog region
func IsValidRegion(id string) bool {
	for _, r := range Regions {
		if r.ID == id {
			return true
		}
	}
	return false
}

var regionTitle = cases.Title(language.English)

// RegionDisplayName resolves a region id to its catalog name, deriving a
// title-cased fallback for mission-configured regions outside the catalog.
func RegionDisplayName(id string) string {
	for _, r := range Regions {
		if r.ID == id {
			return r.Name
		}
	}
	return regionTitle.String(strings.ReplaceAll(id, "_", " "))
}
