// Package printers renders catalog, Memory Lane and insight views for the
// terminal.
package printers

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/insights"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

type PrettyPrint struct {
	Out io.Writer
	// ShowID prints entry ids in Memory Lane so they can be passed to
	// delete, photo and voice.
	ShowID bool
}

// New returns a printer writing to color.Output.
func New() *PrettyPrint {
	return &PrettyPrint{Out: color.Output}
}

var (
	bold    = color.New(color.Bold)
	title   = color.New(color.Bold, color.Underline)
	faint   = color.New(color.Faint)
	idColor = color.New(color.FgHiYellow, color.Italic, color.Faint)
)

func categoryColor(c models.Category) *color.Color {
	switch c {
	case models.HighEnergyPleasant:
		return color.New(color.FgHiYellow)
	case models.HighEnergyUnpleasant:
		return color.New(color.FgHiRed)
	case models.LowEnergyPleasant:
		return color.New(color.FgHiGreen)
	case models.LowEnergyUnpleasant:
		return color.New(color.FgHiBlue)
	}
	return color.New()
}

func (pp *PrettyPrint) Title(s string) {
	_, _ = title.Fprintln(pp.Out, s)
}

func (pp *PrettyPrint) none() {
	_, _ = color.New(color.Faint, color.Italic).Fprint(pp.Out, " none\n\n")
}

// Catalog prints the moods grouped by category.
func (pp *PrettyPrint) Catalog(moods []models.Mood) {
	if len(moods) == 0 {
		pp.Title("Moods")
		pp.none()
		return
	}
	for _, c := range models.Categories {
		tbl := uitable.New()
		tbl.Separator = "  "
		tbl.MaxColWidth = 60
		tbl.Wrap = true
		n := 0
		for _, m := range moods {
			if m.Category != c {
				continue
			}
			tbl.AddRow(m.Emoji, m.Name, fmt.Sprintf("%.2f", m.HappinessIndex), m.Description)
			n++
		}
		if n == 0 {
			continue
		}
		_, _ = categoryColor(c).Add(color.Bold, color.Underline).Fprintln(pp.Out, c.Label())
		_, _ = fmt.Fprintln(pp.Out, tbl)
		_, _ = fmt.Fprintln(pp.Out)
	}
}

func formatHours(h *float64) string {
	if h == nil {
		return ""
	}
	return strconv.FormatFloat(*h, 'f', -1, 64) + "h"
}

// Lane prints Memory Lane: one block per day, newest first, entries in the
// order given. The current day, if any, is marked.
func (pp *PrettyPrint) Lane(days []models.DayGroup, catalog insights.Catalog) {
	pp.Title("Memory Lane")
	if len(days) == 0 {
		pp.none()
		return
	}
	for _, d := range days {
		head := d.Date.Format("Mon, 02 Jan 2006")
		if d.IsCurrent {
			head = "> " + head
		}
		_, _ = bold.Fprint(pp.Out, head)
		_, _ = faint.Fprintf(pp.Out, " - %d\n", len(d.Entries))

		tbl := uitable.New()
		tbl.Separator = "  "
		for _, e := range d.Entries {
			row := []any{}
			if pp.ShowID {
				row = append(row, idColor.Sprint(e.ID))
			}
			row = append(row, e.Date().Format("15:04"), pp.moods(e.Moods, catalog), details(e))
			tbl.AddRow(row...)
		}
		_, _ = fmt.Fprintln(pp.Out, tbl)
		_, _ = fmt.Fprintln(pp.Out)
	}
}

func (pp *PrettyPrint) moods(names []string, catalog insights.Catalog) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		if catalog == nil {
			parts = append(parts, n)
			continue
		}
		m, ok := catalog.MoodNamed(n)
		if !ok {
			parts = append(parts, n)
			continue
		}
		parts = append(parts, categoryColor(m.Category).Sprint(strings.TrimSpace(m.Emoji+" "+m.Name)))
	}
	return strings.Join(parts, ", ")
}

func details(e models.MoodEntry) string {
	var parts []string
	if e.Place != "" {
		parts = append(parts, string(e.Place))
	}
	if e.Weather != "" {
		parts = append(parts, string(e.Weather))
	}
	if h := formatHours(e.SleepHours); h != "" {
		parts = append(parts, "sleep "+h)
	}
	if h := formatHours(e.ExerciseHours); h != "" {
		parts = append(parts, "exercise "+h)
	}
	if e.ImageID != "" {
		parts = append(parts, "[photo]")
	}
	if e.VoiceNoteID != "" {
		parts = append(parts, "[voice]")
	}
	if e.Notes != "" {
		parts = append(parts, fmt.Sprintf("%q", e.Notes))
	}
	return strings.Join(parts, " · ")
}

// Summary is everything the insights view shows.
type Summary struct {
	Streaks      insights.StreakSummary
	Heatmap      []insights.HeatmapCell
	Distribution map[models.Category]int
	Top          []insights.MoodCount
	Averages     insights.HourAverages
}

// heatLevels maps mean happiness to a glyph, from no entries to happiest.
var heatLevels = []string{"·", "░", "▒", "▓", "█"}

func heatGlyph(c insights.HeatmapCell) string {
	if c.Count == 0 {
		return heatLevels[0]
	}
	i := 1 + int(c.MeanHappiness*float64(len(heatLevels)-1))
	return heatLevels[min(max(i, 1), len(heatLevels)-1)]
}

// Insights prints streaks, a heatmap laid out in weeks, the category split,
// the top moods and hour averages.
func (pp *PrettyPrint) Insights(s Summary) {
	pp.Title("Streaks")
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Current", fmt.Sprintf("%d days", s.Streaks.Current))
	tbl.AddRow("Longest", fmt.Sprintf("%d days", s.Streaks.Longest))
	tbl.AddRow("Check-ins", s.Streaks.TotalEntries)
	tbl.AddRow("Active days", s.Streaks.ActiveDays)
	if !s.Streaks.LastActive.IsZero() {
		tbl.AddRow("Last active", s.Streaks.LastActive.Format(time.DateOnly))
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	_, _ = fmt.Fprintln(pp.Out)

	if len(s.Heatmap) > 0 {
		pp.Title("Heatmap")
		var b strings.Builder
		for i, c := range s.Heatmap {
			if i > 0 && i%7 == 0 {
				b.WriteString("\n")
			}
			b.WriteString(heatGlyph(c))
		}
		_, _ = fmt.Fprintln(pp.Out, b.String())
		_, _ = faint.Fprintf(pp.Out, "%s to %s\n\n", s.Heatmap[0].Date.Format(time.DateOnly), s.Heatmap[len(s.Heatmap)-1].Date.Format(time.DateOnly))
	}

	pp.Title("Categories")
	tbl = uitable.New()
	tbl.Separator = "  "
	for _, c := range models.Categories {
		tbl.AddRow(categoryColor(c).Sprint(c.Label()), s.Distribution[c])
	}
	_, _ = fmt.Fprintln(pp.Out, tbl)
	_, _ = fmt.Fprintln(pp.Out)

	pp.Title("Top moods")
	if len(s.Top) == 0 {
		pp.none()
	} else {
		tbl = uitable.New()
		tbl.Separator = "  "
		for _, m := range s.Top {
			tbl.AddRow(m.Name, m.Count)
		}
		_, _ = fmt.Fprintln(pp.Out, tbl)
		_, _ = fmt.Fprintln(pp.Out)
	}

	pp.Title("Averages")
	tbl = uitable.New()
	tbl.Separator = "  "
	tbl.AddRow("Sleep", averageCell(s.Averages.Sleep, s.Averages.SleepCount))
	tbl.AddRow("Exercise", averageCell(s.Averages.Exercise, s.Averages.ExerciseCount))
	_, _ = fmt.Fprintln(pp.Out, tbl)
}

func averageCell(v float64, n int) string {
	if n == 0 {
		return "-"
	}
	return fmt.Sprintf("%.1fh over %d entries", v, n)
}
