package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/dom/patch-meta/internal/domain"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"gorm.io/datatypes"
)

type ddragonChampion struct {
	ID    string   `json:"id"`
	Key   string   `json:"key"`
	Name  string   `json:"name"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

type ddragonChampionList struct {
	Data map[string]ddragonChampion `json:"data"`
}

// LatestDataDragonVersion returns the first entry of the Data Dragon versions list.
func (c *Client) LatestDataDragonVersion(ctx context.Context) (string, error) {
	url := c.ddragonBaseURL + "/api/versions.json"
	body, err := c.FetchPage(ctx, url)
	if err != nil {
		return "", err
	}
	var versions []string
	if err := json.Unmarshal(body, &versions); err != nil {
		return "", fmt.Errorf("decode %s: %w", url, err)
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("decode %s: empty version list", url)
	}
	return versions[0], nil
}

// Champions loads the champion catalog of a Data Dragon version in the
// configured locale and in English, sorted by localized name.
func (c *Client) Champions(ctx context.Context, version string) ([]*domain.Champion, error) {
	var localized, english ddragonChampionList

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.fetchChampionList(gctx, version, dataDragonLocale(c.locale), &localized)
	})
	g.Go(func() error {
		return c.fetchChampionList(gctx, version, dataDragonLocale(language.AmericanEnglish), &english)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	champions := make([]*domain.Champion, 0, len(localized.Data))
	for key, champ := range localized.Data {
		tags, err := json.Marshal(champ.Tags)
		if err != nil {
			return nil, err
		}
		nameEn := english.Data[key].Name
		if nameEn == "" {
			nameEn = champ.Name
		}
		champions = append(champions, &domain.Champion{
			ID:           champ.ID,
			Key:          champ.Key,
			Name:         champ.Name,
			NameEn:       nameEn,
			Title:        champ.Title,
			ImageURL:     fmt.Sprintf("%s/cdn/%s/img/champion/%s.png", c.ddragonBaseURL, version, champ.ID),
			Tags:         datatypes.JSON(tags),
			LastSyncedAt: now,
		})
	}

	sort.Slice(champions, func(i, j int) bool {
		return champions[i].Name < champions[j].Name
	})
	return champions, nil
}

func (c *Client) fetchChampionList(ctx context.Context, version, locale string, out *ddragonChampionList) error {
	url := fmt.Sprintf("%s/cdn/%s/data/%s/champion.json", c.ddragonBaseURL, version, locale)
	body, err := c.FetchPage(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}
