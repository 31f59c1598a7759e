package statsapi

import (
	"github.com/dom/patch-meta/internal/domain"
)

// CatalogEntry is the display data of one champion, keyed by Data Dragon id.
type CatalogEntry struct {
	Name     string
	ImageURL string
}

// ToChampionStats maps rows onto ChampionStats using the catalog for names
// and images. Champions missing from the catalog keep their raw id as name.
func ToChampionStats(rows []Row, catalog map[string]CatalogEntry) []domain.ChampionStats {
	stats := make([]domain.ChampionStats, 0, len(rows))
	for _, row := range rows {
		entry, ok := catalog[row.ChampionID]
		if !ok {
			entry = CatalogEntry{Name: row.ChampionID}
		}

		role := domain.LaneUnknown
		if row.Role != nil {
			role = domain.ParseLaneRole(*row.Role)
		}
		winRate := value(row.WinRate)

		stats = append(stats, domain.ChampionStats{
			ID:           row.ChampionID,
			Name:         entry.Name,
			Tier:         TierFor(winRate),
			Role:         role,
			WinRate:      winRate,
			PickRate:     value(row.PickRate),
			BanRate:      value(row.BanRate),
			ImageURL:     domain.StringPtr(entry.ImageURL),
			CoreItems:    []domain.ItemStat{},
			PopularRunes: []string{},
		})
	}
	return stats
}

// TierFor buckets a win rate (percent) into a letter tier.
func TierFor(winRate float64) string {
	switch {
	case winRate >= 53:
		return "S"
	case winRate >= 51.5:
		return "A"
	case winRate >= 50:
		return "B"
	case winRate >= 48.5:
		return "C"
	default:
		return "D"
	}
}

func value(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
