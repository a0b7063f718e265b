// Package insights computes aggregate views over mood entries: streaks,
// a daily heatmap, category distribution, top moods and hour averages.
// Everything here is pure; callers pass the entries and the clock.
package insights

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// Catalog resolves mood names for the views that need mood metadata.
type Catalog interface {
	MoodNamed(name string) (models.Mood, bool)
}

type StreakSummary struct {
	// Current counts consecutive days with entries ending today, or ending
	// yesterday when today has none yet.
	Current      int
	Longest      int
	TotalEntries int
	ActiveDays   int
	LastActive   time.Time
}

func activeDays(entries []models.MoodEntry, loc *time.Location) []time.Time {
	set := map[time.Time]struct{}{}
	for _, e := range entries {
		set[timex.StartOfDay(e.Date(), loc)] = struct{}{}
	}
	days := make([]time.Time, 0, len(set))
	for d := range set {
		days = append(days, d)
	}
	slices.SortFunc(days, func(a, b time.Time) int { return a.Compare(b) })
	return days
}

// Streaks summarizes check-in regularity as of now in loc.
func Streaks(entries []models.MoodEntry, now time.Time, loc *time.Location) StreakSummary {
	if loc == nil {
		loc = time.Local
	}
	days := activeDays(entries, loc)
	s := StreakSummary{TotalEntries: len(entries), ActiveDays: len(days)}
	if len(days) == 0 {
		return s
	}

	run := 1
	s.Longest = 1
	for i := 1; i < len(days); i++ {
		if timex.DaysBetween(days[i-1], days[i], loc) == 1 {
			run++
		} else {
			run = 1
		}
		s.Longest = max(s.Longest, run)
	}

	last := days[len(days)-1]
	s.LastActive = last
	if gap := timex.DaysBetween(last, now, loc); gap == 0 || gap == 1 {
		s.Current = run
	}
	return s
}

// HeatmapCell is one day of the heatmap. MeanHappiness averages the
// happiness index of every known mood on that day and is 0 when Count is 0.
type HeatmapCell struct {
	Date          time.Time
	Count         int
	MeanHappiness float64
}

// Heatmap returns one cell per day from from to to inclusive, oldest first.
func Heatmap(entries []models.MoodEntry, catalog Catalog, from, to time.Time, loc *time.Location) []HeatmapCell {
	if loc == nil {
		loc = time.Local
	}
	start, end := timex.StartOfDay(from, loc), timex.StartOfDay(to, loc)
	if end.Before(start) {
		return nil
	}

	n := timex.DaysBetween(start, end, loc) + 1
	cells := make([]HeatmapCell, n)
	for i := range cells {
		cells[i].Date = start.AddDate(0, 0, i)
	}

	sums := make([]float64, n)
	scored := make([]int, n)
	for _, e := range entries {
		i := timex.DaysBetween(start, e.Date(), loc)
		if i < 0 || i >= n {
			continue
		}
		cells[i].Count++
		for _, name := range e.Moods {
			if m, ok := catalog.MoodNamed(name); ok {
				sums[i] += m.HappinessIndex
				scored[i]++
			}
		}
	}
	for i := range cells {
		if scored[i] > 0 {
			cells[i].MeanHappiness = sums[i] / float64(scored[i])
		}
	}
	return cells
}

// CategoryDistribution counts entries per category of their primary mood.
// Every category is present in the result; unknown moods are not counted.
func CategoryDistribution(entries []models.MoodEntry, catalog Catalog) map[models.Category]int {
	out := make(map[models.Category]int, len(models.Categories))
	for _, c := range models.Categories {
		out[c] = 0
	}
	for _, e := range entries {
		if m, ok := catalog.MoodNamed(e.PrimaryMood()); ok {
			out[m.Category]++
		}
	}
	return out
}

type MoodCount struct {
	Name  string
	Count int
}

// TopMoods returns the n most frequent mood names, most frequent first and
// by name on ties. n <= 0 returns all of them.
func TopMoods(entries []models.MoodEntry, n int) []MoodCount {
	counts := map[string]int{}
	for _, e := range entries {
		for _, m := range e.Moods {
			counts[m]++
		}
	}
	out := make([]MoodCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, MoodCount{Name: name, Count: c})
	}
	slices.SortFunc(out, func(a, b MoodCount) int {
		if a.Count != b.Count {
			return b.Count - a.Count
		}
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// HourAverages holds mean sleep and exercise over the entries that
// recorded them. The counts say how many entries contributed.
type HourAverages struct {
	Sleep         float64
	SleepCount    int
	Exercise      float64
	ExerciseCount int
}

func Averages(entries []models.MoodEntry) HourAverages {
	var a HourAverages
	for _, e := range entries {
		if e.SleepHours != nil {
			a.Sleep += *e.SleepHours
			a.SleepCount++
		}
		if e.ExerciseHours != nil {
			a.Exercise += *e.ExerciseHours
			a.ExerciseCount++
		}
	}
	if a.SleepCount > 0 {
		a.Sleep /= float64(a.SleepCount)
	}
	if a.ExerciseCount > 0 {
		a.Exercise /= float64(a.ExerciseCount)
	}
	return a
}
