// Package trend decides whether patch-note text reads as a buff or a nerf.
package trend

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dom/patch-meta/internal/domain"
	"golang.org/x/text/cases"
)

// Score values returned by Score.
const (
	Buff    = 1
	Nerf    = -1
	Neutral = 0
)

// Line is one change line together with its case-folded form.
type Line struct {
	Raw    string
	Folded string
}

// NewLine folds raw for keyword matching.
func NewLine(raw string) Line {
	return Line{Raw: raw, Folded: cases.Fold().String(raw)}
}

// Rule scores a line or reports that it does not apply.
type Rule struct {
	Name  string
	Apply func(l Line) (int, bool)
}

// LineRules are evaluated in order; the first rule that applies decides.
// Removal and "no longer reduced" must precede the numeric comparison, and
// the numeric comparison must precede keyword sniffing: "cooldown increased
// 8 -> 10" contains "increased" but is a nerf.
var LineRules = []Rule{
	{Name: "hard-nerf", Apply: hardNerf},
	{Name: "no-longer-reduced", Apply: noLongerReduced},
	{Name: "arrow-delta", Apply: arrowDelta},
	{Name: "buff-keyword", Apply: keyword(buffLineRe, Buff)},
	{Name: "nerf-keyword", Apply: keyword(nerfLineRe, Nerf)},
}

var (
	arrowRe  = regexp.MustCompile(`\s*(?:→|⇒|->)\s*`)
	numberRe = regexp.MustCompile(`[-+]?\d+(?:[.,]\d+)?`)

	buffLineRe = regexp.MustCompile(`(увеличен|усилен|increased|buffed|new effect|новый эффект)`)
	nerfLineRe = regexp.MustCompile(`(уменьшен|ослаблен|decreased|nerfed|removed|удалено|удалена|удалены|удалён)`)

	buffEntryRe = regexp.MustCompile(`(?i)(увеличен|усилен|added|increased|дополнительный урон)`)
	nerfEntryRe = regexp.MustCompile(`(?i)(уменьшен|ослаблен|removed|decreased)`)
)

var removalPhrases = []string{"удалено", "удалена", "удалены", "удалён", "removed"}

var noLongerPhrases = []string{"больше не", "no longer"}

var noLongerReducedPhrases = []string{
	"больше не уменьшается",
	"больше не снижается",
	"no longer reduced",
	"no longer decreased",
}

// Stats where a smaller number is better.
var inverseStatKeywords = []string{
	"перезарядк",
	"cooldown",
	"стоимост",
	"cost",
	"mana",
	"маны",
	"energy",
	"энерги",
	"затрат",
	"время",
	"time",
}

// Score rates one change line: +1 buff, -1 nerf, 0 neutral.
func Score(line string) int {
	l := NewLine(line)
	for _, rule := range LineRules {
		if verdict, ok := rule.Apply(l); ok {
			return verdict
		}
	}
	return Neutral
}

// Classify gives the verdict for a whole entry from all of its change text.
func Classify(text string) domain.ChangeType {
	switch {
	case buffEntryRe.MatchString(text):
		return domain.ChangeBuff
	case nerfEntryRe.MatchString(text):
		return domain.ChangeNerf
	default:
		return domain.ChangeAdjusted
	}
}

// IsInverseStat reports whether the line talks about a stat where lower is better.
func IsInverseStat(l Line) bool {
	return containsAny(l.Folded, inverseStatKeywords)
}

func hardNerf(l Line) (int, bool) {
	if containsAny(l.Folded, removalPhrases) {
		return Nerf, true
	}
	if containsAny(l.Folded, noLongerPhrases) && !containsAny(l.Folded, noLongerReducedPhrases) {
		return Nerf, true
	}
	return Neutral, false
}

func noLongerReduced(l Line) (int, bool) {
	if containsAny(l.Folded, noLongerReducedPhrases) {
		return Buff, true
	}
	return Neutral, false
}

func arrowDelta(l Line) (int, bool) {
	parts := arrowRe.Split(l.Raw, -1)
	if len(parts) != 2 {
		return Neutral, false
	}
	from, to := sumNumbers(parts[0]), sumNumbers(parts[1])
	if math.IsNaN(from) || math.IsNaN(to) || math.IsInf(from, 0) || math.IsInf(to, 0) {
		return Neutral, false
	}

	inverse := IsInverseStat(l)
	switch {
	case to > from:
		if inverse {
			return Nerf, true
		}
		return Buff, true
	case to < from:
		if inverse {
			return Buff, true
		}
		return Nerf, true
	}
	return Neutral, false
}

func keyword(re *regexp.Regexp, verdict int) func(Line) (int, bool) {
	return func(l Line) (int, bool) {
		if re.MatchString(l.Folded) {
			return verdict, true
		}
		return Neutral, false
	}
}

// sumNumbers adds every number in s; NaN when there is none.
func sumNumbers(s string) float64 {
	matches := numberRe.FindAllString(s, -1)
	if len(matches) == 0 {
		return math.NaN()
	}
	var sum float64
	parsed := 0
	for _, m := range matches {
		v, err := strconv.ParseFloat(strings.Replace(m, ",", ".", 1), 64)
		if err != nil {
			continue
		}
		sum += v
		parsed++
	}
	if parsed == 0 {
		return math.NaN()
	}
	return sum
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
