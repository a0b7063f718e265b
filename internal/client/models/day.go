package models

import "time"

// DayGroup is the entries of one local calendar day, as shown in Memory
// Lane. Offset and IsCurrent are view state and are never persisted.
type DayGroup struct {
	Date      time.Time
	Entries   []MoodEntry
	Index     int
	Offset    float64
	IsCurrent bool
}

// focusStep is how much elevation drops per day of distance from the
// current group.
const focusStep = 0.25

// Focus marks groups[current] as current and gives every group an elevation
// in [0, 1] that falls off with distance. An out of range current clears
// the focus.
func Focus(groups []DayGroup, current int) {
	for i := range groups {
		groups[i].IsCurrent = i == current
		groups[i].Offset = 0
		if current < 0 || current >= len(groups) {
			continue
		}
		d := i - current
		if d < 0 {
			d = -d
		}
		if off := 1 - focusStep*float64(d); off > 0 {
			groups[i].Offset = off
		}
	}
}
