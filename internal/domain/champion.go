package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Champion is one entry of the Data Dragon champion catalog.
type Champion struct {
	ID           string         `json:"id" gorm:"primaryKey"`     // e.g., "Aatrox"
	Key          string         `json:"key" gorm:"not null"`      // e.g., "266"
	Name         string         `json:"name" gorm:"not null"`     // Localized display name, matches patch note titles
	NameEn       string         `json:"nameEn" gorm:"not null"`   // en_US display name
	Title        string         `json:"title"`                    // e.g., "the Darkin Blade"
	ImageURL     string         `json:"imageUrl" gorm:"not null"` // Full URL to champion square
	Tags         datatypes.JSON `json:"tags" gorm:"type:jsonb"`   // ["Fighter", "Tank"]
	LastSyncedAt time.Time      `json:"lastSyncedAt"`
}

type ChampionTag string

const (
	TagFighter  ChampionTag = "Fighter"
	TagTank     ChampionTag = "Tank"
	TagMage     ChampionTag = "Mage"
	TagAssassin ChampionTag = "Assassin"
	TagSupport  ChampionTag = "Support"
	TagMarksman ChampionTag = "Marksman"
)
