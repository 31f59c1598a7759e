package extractor

import (
	"regexp"
	"strings"

	"github.com/dom/patch-meta/internal/domain"
	"golang.org/x/text/cases"
)

type categoryRule struct {
	match    func(id string) bool
	category domain.PatchCategory
}

// First match wins.
var categoryRules = []categoryRule{
	{match: has("champion"), category: domain.CategoryChampions},
	{match: func(id string) bool { return has("item")(id) && !has("rune")(id) }, category: domain.CategoryItems},
	{match: func(id string) bool { return has("rune")(id) && !has("item")(id) }, category: domain.CategoryRunes},
	{match: has("item", "rune"), category: domain.CategoryItemsRunes},
	{match: has("skin", "chroma"), category: domain.CategorySkins},
	{match: has("bug"), category: domain.CategoryBugFixes},
	{match: has("mode", "aram", "arena"), category: domain.CategoryModes},
	{match: has("system", "qol"), category: domain.CategorySystems},
	{match: has("highlight"), category: domain.CategoryNewContent},
}

// CategoryFor maps a section heading id (e.g. "patch-champions") to a category.
// Unmatched ids map to Unknown.
func CategoryFor(headingID string) domain.PatchCategory {
	id := cases.Fold().String(headingID)
	for _, rule := range categoryRules {
		if rule.match(id) {
			return rule.category
		}
	}
	return domain.CategoryUnknown
}

func has(words ...string) func(string) bool {
	return func(id string) bool {
		for _, w := range words {
			if strings.Contains(id, w) {
				return true
			}
		}
		return false
	}
}

// Section and banner headings that are styled like entry titles.
var chromeTitles = toSet(
	"patch notes",
	"patch highlights",
	"champions",
	"items",
	"runes",
	"items & runes",
	"items and runes",
	"bug fixes",
	"bugfixes & qol changes",
	"upcoming skins & chromas",
	"описание патча",
	"основные моменты патча",
	"чемпионы",
	"предметы",
	"руны",
	"предметы и руны",
	"исправления ошибок",
	"будущие образы и цветовые схемы",
)

func toSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

var patchBannerRe = regexp.MustCompile(`^(патч|patch|обновление|update)\s+\d+(\.\d+)*`)

// IsChromeTitle reports whether a title is navigational chrome rather than
// the name of a changed entity.
func IsChromeTitle(title string) bool {
	folded := cases.Fold().String(strings.TrimSpace(title))
	if _, ok := chromeTitles[folded]; ok {
		return true
	}
	return patchBannerRe.MatchString(folded)
}

// CleanImageURL unwraps images proxied through an image CDN with a "?f="
// parameter; other URLs are returned unchanged.
func CleanImageURL(u string) string {
	idx := strings.Index(u, "?f=")
	if idx < 0 {
		return u
	}
	target := u[idx+len("?f="):]
	if strings.Contains(u[:idx], "akamaihd.net") || strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		return target
	}
	return u
}
