package store

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/timex"
)

// GroupByDay partitions entries by the local calendar day of their Date.
// Groups are ordered newest day first and indexed from 0; entries keep
// their input order within a day. A nil loc means time.Local.
func GroupByDay(entries []models.MoodEntry, loc *time.Location) []models.DayGroup {
	if loc == nil {
		loc = time.Local
	}

	var groups []models.DayGroup
	byDay := make(map[time.Time]int)
	for _, e := range entries {
		day := timex.StartOfDay(e.Date(), loc)
		i, ok := byDay[day]
		if !ok {
			i = len(groups)
			byDay[day] = i
			groups = append(groups, models.DayGroup{Date: day})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	slices.SortStableFunc(groups, func(a, b models.DayGroup) int { return b.Date.Compare(a.Date) })
	for i := range groups {
		groups[i].Index = i
	}
	return groups
}
