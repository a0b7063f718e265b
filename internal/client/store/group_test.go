package store

import (
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupByDay_TwoDays(t *testing.T) {
	a := models.MoodEntry{ID: "a", Moods: []string{"Sad"}, Timestamp: "2023-06-01T09:00:00Z"}
	b := models.MoodEntry{ID: "b", Moods: []string{"Joyful"}, Timestamp: "2023-06-01T18:00:00Z"}
	c := models.MoodEntry{ID: "c", Moods: []string{"Joyful"}, Timestamp: "2023-06-02T07:00:00Z"}

	groups := GroupByDay([]models.MoodEntry{a, b, c}, time.UTC)
	require.Len(t, groups, 2)

	assert.Equal(t, time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC), groups[0].Date)
	assert.Equal(t, []models.MoodEntry{c}, groups[0].Entries)
	assert.Equal(t, 0, groups[0].Index)

	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), groups[1].Date)
	assert.Equal(t, []models.MoodEntry{a, b}, groups[1].Entries)
	assert.Equal(t, 1, groups[1].Index)
}

func TestGroupByDay_UsesLocalCalendar(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 20:00 UTC on June 1 is already June 2 in Tokyo
	late := models.MoodEntry{ID: "late", Moods: []string{"Sad"}, Timestamp: "2023-06-01T20:00:00Z"}
	early := models.MoodEntry{ID: "early", Moods: []string{"Sad"}, Timestamp: "2023-06-02T01:00:00Z"}

	assert.Len(t, GroupByDay([]models.MoodEntry{late, early}, time.UTC), 2)

	groups := GroupByDay([]models.MoodEntry{late, early}, tokyo)
	require.Len(t, groups, 1)
	assert.Equal(t, time.Date(2023, 6, 2, 0, 0, 0, 0, tokyo), groups[0].Date)
	assert.Equal(t, []models.MoodEntry{late, early}, groups[0].Entries)
}

func TestGroupByDay_Empty(t *testing.T) {
	assert.Empty(t, GroupByDay(nil, nil))
}

func TestGroupByDay_MalformedTimestampLandsToday(t *testing.T) {
	groups := GroupByDay([]models.MoodEntry{{ID: "x", Moods: []string{"Sad"}, Timestamp: "garbage"}}, time.UTC)
	require.Len(t, groups, 1)
	y, m, d := time.Now().UTC().Date()
	assert.Equal(t, time.Date(y, m, d, 0, 0, 0, 0, time.UTC), groups[0].Date)
}

// Every entry lands in exactly one group, groups are newest first with
// distinct days, and input order survives inside a group.
func TestGroupByDay_IsPartition(t *testing.T) {
	r := rand.New(rand.NewPCG(1, 2))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	loc := time.FixedZone("X", -5*3600)

	for round := 0; round < 50; round++ {
		n := r.IntN(40)
		entries := make([]models.MoodEntry, n)
		for i := range entries {
			at := base.Add(time.Duration(r.IntN(10*24*60)) * time.Minute)
			entries[i] = models.MoodEntry{ID: fmt.Sprint(i), Moods: []string{"Sad"}, Timestamp: at.Format(time.RFC3339)}
		}

		groups := GroupByDay(entries, loc)

		position := map[string]int{}
		for i, e := range entries {
			position[e.ID] = i
		}
		seen := map[string]bool{}
		for gi, g := range groups {
			assert.Equal(t, gi, g.Index)
			if gi > 0 {
				assert.True(t, groups[gi-1].Date.After(g.Date), "groups must be strictly newest first")
			}
			last := -1
			for _, e := range g.Entries {
				assert.False(t, seen[e.ID], "entry %s in two groups", e.ID)
				seen[e.ID] = true
				assert.True(t, g.Date.Equal(startOfDayIn(e.Date(), loc)))
				assert.Greater(t, position[e.ID], last, "order within a day follows input")
				last = position[e.ID]
			}
		}
		assert.Len(t, seen, n)
	}
}

func startOfDayIn(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
