package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/dom/patch-meta/internal/analysis"
	"github.com/dom/patch-meta/internal/domain"
)

var changeColors = map[domain.ChangeType]*color.Color{
	domain.ChangeBuff:     color.New(color.FgGreen),
	domain.ChangeNerf:     color.New(color.FgRed),
	domain.ChangeAdjusted: color.New(color.FgYellow),
	domain.ChangeNew:      color.New(color.FgCyan),
	domain.ChangeFix:      color.New(color.FgBlue),
}

func colorChange(c domain.ChangeType) string {
	if col, ok := changeColors[c]; ok {
		return col.Sprint(string(c))
	}
	return string(c)
}

// colorDelta prints a signed rate change, green when it grew.
func colorDelta(v float64) string {
	s := fmt.Sprintf("%+.1f", v)
	switch {
	case v > 0:
		return color.GreenString(s)
	case v < 0:
		return color.RedString(s)
	}
	return s
}

func colorScore(score int) string {
	s := fmt.Sprintf("%+d", score)
	switch {
	case score > 0:
		return color.GreenString(s)
	case score < 0:
		return color.RedString(s)
	}
	return s
}

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	return tbl
}

func renderPatches(w io.Writer, versions []string, stored []*domain.PatchSnapshot, now time.Time) {
	fetched := make(map[string]time.Time, len(stored))
	for _, s := range stored {
		fetched[s.Version] = s.FetchedAt
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Patch", "Stored"})
	for _, v := range versions {
		status := color.New(color.Faint).Sprint("no")
		if at, ok := fetched[v]; ok {
			status = humanize.RelTime(at, now, "ago", "from now")
		}
		tbl.AppendRow(table.Row{v, status})
	}
	tbl.AppendFooter(table.Row{fmt.Sprintf("%d patches", len(versions)), fmt.Sprintf("%d stored", len(fetched))})
	tbl.Render()
}

func renderSnapshot(w io.Writer, s *domain.PatchSnapshot, now time.Time) {
	fmt.Fprintf(w, "Patch %s, fetched %s: %d champions, %d notes\n",
		s.Version, humanize.RelTime(s.FetchedAt, now, "ago", "from now"), len(s.Champions), len(s.PatchNotes))

	if len(s.PatchNotes) == 0 {
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Title", "Category", "Change", "Lines"})
	for _, n := range s.PatchNotes {
		tbl.AppendRow(table.Row{n.Title, n.Category, colorChange(n.ChangeType), len(n.ChangeLines())})
	}
	tbl.Render()
}

func renderDiffs(w io.Writer, diffs []domain.MetaAnalysisDiff) {
	if len(diffs) == 0 {
		fmt.Fprintln(w, "No changes against the previous stored patch")
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Champion", "Role", "Win rate", "Pick rate", "Patch notes"})
	for _, d := range diffs {
		predicted := "-"
		if d.PredictedChange != nil {
			predicted = colorChange(*d.PredictedChange)
		}
		tbl.AppendRow(table.Row{d.ChampionName, d.Role.DisplayName(), colorDelta(d.WinRateDiff), colorDelta(d.PickRateDiff), predicted})
	}
	tbl.Render()
}

func renderTiers(w io.Writer, entries []domain.TierEntry, category domain.PatchCategory, limit int) {
	entries = analysis.FilterEntries(entries, category, limit)
	if len(entries) == 0 {
		fmt.Fprintln(w, "No changes in the stored patches")
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"#", "Name", "Category", "Buffs", "Nerfs", "Adjusted", "Score"})
	for i, e := range entries {
		tbl.AppendRow(table.Row{i + 1, e.Name, e.Category, e.Buffs, e.Nerfs, e.Adjusted, colorScore(e.Score())})
	}
	tbl.Render()
}

// maxHistoryLines caps how many change lines one history row shows.
const maxHistoryLines = 3

func renderHistory(w io.Writer, name string, entries []domain.HistoryEntry, now time.Time) {
	if len(entries) == 0 {
		fmt.Fprintf(w, "No changes to %s in the stored patches\n", name)
		return
	}

	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Patch", "Fetched", "Change", "Details"})
	for _, e := range entries {
		lines := e.Change.ChangeLines()
		if len(lines) > maxHistoryLines {
			lines = append(lines[:maxHistoryLines:maxHistoryLines], fmt.Sprintf("... %d more", len(lines)-maxHistoryLines))
		}
		details := strings.Join(lines, "\n")
		if details == "" {
			details = e.Change.Summary
		}
		tbl.AppendRow(table.Row{
			e.PatchVersion,
			humanize.RelTime(e.Date, now, "ago", "from now"),
			colorChange(e.Change.ChangeType),
			details,
		})
	}
	tbl.Render()
}

func renderBackfill(w io.Writer, s domain.BackfillSummary) {
	fmt.Fprintf(w, "Checked %d patches: %s fetched, %s failed\n",
		s.Checked, color.GreenString("%d", s.Fetched), color.RedString("%d", s.Failed))
}
