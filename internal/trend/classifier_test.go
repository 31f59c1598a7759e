package trend_test

import (
	"testing"

	"github.com/dom/patch-meta/internal/domain"
	"github.com/dom/patch-meta/internal/trend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int
	}{
		{name: "keyword increase", line: "Урон увеличен с 50 до 60", want: trend.Buff},
		{name: "numeric decrease", line: "Урон: 50 → 40", want: trend.Nerf},
		{name: "inverse stat decrease", line: "Перезарядка: 10 → 8", want: trend.Buff},
		{name: "inverse stat increase", line: "Перезарядка: 8 ⇒ 10 сек.", want: trend.Nerf},
		{name: "ability removed", line: "Способность удалена", want: trend.Nerf},
		{name: "distant targets are not a removal", line: "Урон по удаленным целям увеличен", want: trend.Buff},
		{name: "effects removed", line: "Эффекты замедления удалены", want: trend.Nerf},
		{name: "english removed", line: "Passive bonus armor removed", want: trend.Nerf},
		{name: "no longer", line: "Больше не замедляет цели", want: trend.Nerf},
		{name: "no longer reduced", line: "Damage is no longer reduced against minions", want: trend.Buff},
		{name: "no longer reduced russian", line: "Урон больше не уменьшается при попадании", want: trend.Buff},
		{name: "ascii arrow", line: "Base damage: 40/60/80 -> 50/70/90", want: trend.Buff},
		{name: "comma decimals", line: "Attack speed: 0,625 → 0,658", want: trend.Buff},
		{name: "mana cost lower", line: "Mana cost: 60 -> 50", want: trend.Buff},
		{name: "numbers beat keyword", line: "Cooldown increased: 8 -> 10", want: trend.Nerf},
		{name: "equal values fall back to keywords", line: "Урон увеличен: 50 → 50", want: trend.Buff},
		{name: "arrow without numbers on one side", line: "Scaling: AD → AP", want: trend.Neutral},
		{name: "nerf keyword", line: "Armor decreased slightly", want: trend.Nerf},
		{name: "neutral text", line: "Updated the tooltip wording", want: trend.Neutral},
		{name: "empty", line: "", want: trend.Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trend.Score(tt.line))
		})
	}
}

func TestLineRules_Order(t *testing.T) {
	names := make([]string, len(trend.LineRules))
	for i, r := range trend.LineRules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"hard-nerf", "no-longer-reduced", "arrow-delta", "buff-keyword", "nerf-keyword"}, names)
}

func TestLineRules_Independent(t *testing.T) {
	rules := map[string]trend.Rule{}
	for _, r := range trend.LineRules {
		rules[r.Name] = r
	}

	t.Run("hard nerf skips the reduced exception", func(t *testing.T) {
		_, ok := rules["hard-nerf"].Apply(trend.NewLine("no longer reduced by armor"))
		assert.False(t, ok)
	})

	t.Run("arrow delta needs exactly two segments", func(t *testing.T) {
		_, ok := rules["arrow-delta"].Apply(trend.NewLine("10 → 20 → 30"))
		assert.False(t, ok)
	})

	t.Run("arrow delta sums every number on a side", func(t *testing.T) {
		verdict, ok := rules["arrow-delta"].Apply(trend.NewLine("Урон: 10/20/30 → 15/20/30"))
		require.True(t, ok)
		assert.Equal(t, trend.Buff, verdict)
	})

	t.Run("buff keyword is case-insensitive", func(t *testing.T) {
		verdict, ok := rules["buff-keyword"].Apply(trend.NewLine("Damage INCREASED"))
		require.True(t, ok)
		assert.Equal(t, trend.Buff, verdict)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want domain.ChangeType
	}{
		{name: "buff", text: "Урон увеличен", want: domain.ChangeBuff},
		{name: "added counts as buff", text: "Added a shield on cast", want: domain.ChangeBuff},
		{name: "nerf", text: "Скорость уменьшена", want: domain.ChangeNerf},
		{name: "buff wins over nerf", text: "Damage increased. Range decreased.", want: domain.ChangeBuff},
		{name: "adjusted", text: "Урон: 50 → 40", want: domain.ChangeAdjusted},
		{name: "empty", text: "", want: domain.ChangeAdjusted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, trend.Classify(tt.text))
		})
	}
}
