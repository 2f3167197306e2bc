package models

// GodInfo describes one of the patron deities a user can align with
type GodInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Power       string `json:"power"`
	Color       string `json:"color"`
}

// Gods is the fixed deity catalog
var Gods = []GodInfo{
	{
		ID:          "zeus",
		Name:        "Zeus",
		Description: "God of Sky and Thunder. Commands lightning and storms.",
		Power:       "Thunder Strike",
		Color:       "#FFD700",
	},
	{
		ID:          "athena",
		Name:        "Athena",
		Description: "Goddess of Wisdom and Strategy. Master of tactical thinking.",
		Power:       "Wisdom Shield",
		Color:       "#4169E1",
	},
	{
		ID:          "artemis",
		Name:        "Artemis",
		Description: "Goddess of Nature and Hunting. Protector of forests and wildlife.",
		Power:       "Nature's Blessing",
		Color:       "#228B22",
	},
	{
		ID:          "persephone",
		Name:        "Persephone",
		Description: "Goddess of Spring and Renewal. Brings life back to corrupted lands.",
		Power:       "Spring Renewal",
		Color:       "#FF69B4",
	},
}

// GodByID looks up a deity in the catalog
func GodByID(id string) (GodInfo, bool) {
	for _, g := range Gods {
		if g.ID == id {
			return g, true
		}
	}
	return GodInfo{}, false
}
