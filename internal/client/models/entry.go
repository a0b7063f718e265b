package models

import (
	"fmt"
	"math"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/google/uuid"
)

// Place tags where a check-in happened.
type Place string

const (
	PlaceHome     Place = "home"
	PlaceWork     Place = "work"
	PlaceSchool   Place = "school"
	PlaceOutdoors Place = "outdoors"
	PlaceGym      Place = "gym"
	PlaceTravel   Place = "travel"
	PlaceOther    Place = "other"
)

var Places = []Place{PlaceHome, PlaceWork, PlaceSchool, PlaceOutdoors, PlaceGym, PlaceTravel, PlaceOther}

// Weather tags the conditions at check-in time.
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
	WeatherStormy Weather = "stormy"
	WeatherWindy  Weather = "windy"
	WeatherFoggy  Weather = "foggy"
)

var Weathers = []Weather{WeatherSunny, WeatherCloudy, WeatherRainy, WeatherSnowy, WeatherStormy, WeatherWindy, WeatherFoggy}

func (p Place) Valid() bool {
	for _, v := range Places {
		if p == v {
			return true
		}
	}
	return false
}

func (w Weather) Valid() bool {
	for _, v := range Weathers {
		if w == v {
			return true
		}
	}
	return false
}

// now is replaced in tests.
var now = time.Now

// MoodEntry is one check-in. ID is random at construction; the copy fetched
// back from the remote store carries the store's id. Timestamp is RFC 3339
// and is the canonical time field.
type MoodEntry struct {
	ID            string
	Moods         []string
	Timestamp     string
	ImageID       string
	VoiceNoteID   string
	Notes         string
	Place         Place
	Weather       Weather
	ExerciseHours *float64
	SleepHours    *float64
}

// NewMoodEntry starts an entry for moods at t.
func NewMoodEntry(t time.Time, moods ...string) MoodEntry {
	return MoodEntry{
		ID:        uuid.NewString(),
		Moods:     append([]string(nil), moods...),
		Timestamp: t.Format(time.RFC3339),
	}
}

// Hours is a helper for the optional hour fields.
func Hours(h float64) *float64 { return &h }

// Date parses Timestamp. A missing or malformed value yields the current
// time instead of an error.
func (e MoodEntry) Date() time.Time {
	if t, err := time.Parse(time.RFC3339Nano, e.Timestamp); err == nil {
		return t
	}
	return now()
}

// PrimaryMood is the first mood name, or "" for an entry without moods.
func (e MoodEntry) PrimaryMood() string {
	if len(e.Moods) == 0 {
		return ""
	}
	return e.Moods[0]
}

// Validate checks an entry before it is written. known reports whether a
// mood name exists; pass nil to skip the catalog check.
func (e MoodEntry) Validate(known func(name string) bool) error {
	if len(e.Moods) == 0 {
		return fmt.Errorf("%w: at least one mood is required", common.ErrorValidation)
	}
	for _, m := range e.Moods {
		if m == "" {
			return fmt.Errorf("%w: empty mood name", common.ErrorValidation)
		}
		if known != nil && !known(m) {
			return fmt.Errorf("%w: unknown mood %q", common.ErrorValidation, m)
		}
	}
	if e.Place != "" && !e.Place.Valid() {
		return fmt.Errorf("%w: unknown place %q", common.ErrorValidation, e.Place)
	}
	if e.Weather != "" && !e.Weather.Valid() {
		return fmt.Errorf("%w: unknown weather %q", common.ErrorValidation, e.Weather)
	}
	if err := checkHours("exercise", e.ExerciseHours); err != nil {
		return err
	}
	return checkHours("sleep", e.SleepHours)
}

func checkHours(name string, h *float64) error {
	if h == nil {
		return nil
	}
	if *h < 0 || math.IsNaN(*h) || math.IsInf(*h, 0) {
		return fmt.Errorf("%w: %s hours must be a non-negative number", common.ErrorValidation, name)
	}
	return nil
}
