package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrMalformedDocument = errors.New("malformed mood entry document")

// entryDocument is the stored shape of a MoodEntry. The local id travels
// as local_id; the document id assigned by the store wins on read.
type entryDocument struct {
	LocalID       string   `json:"local_id,omitempty"`
	Moods         []string `json:"moods"`
	Timestamp     string   `json:"timestamp"`
	ImageID       string   `json:"image_id,omitempty"`
	VoiceNoteID   string   `json:"voice_note_id,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Place         string   `json:"place,omitempty"`
	Weather       string   `json:"weather,omitempty"`
	ExerciseHours *float64 `json:"exercise_hours,omitempty"`
	SleepHours    *float64 `json:"sleep_hours,omitempty"`
}

// ToDocument converts the entry into remote store document data.
func (e MoodEntry) ToDocument() map[string]any {
	doc := map[string]any{
		"moods":     toAnySlice(e.Moods),
		"timestamp": e.Timestamp,
	}
	if e.ID != "" {
		doc["local_id"] = e.ID
	}
	setString(doc, "image_id", e.ImageID)
	setString(doc, "voice_note_id", e.VoiceNoteID)
	setString(doc, "notes", e.Notes)
	setString(doc, "place", string(e.Place))
	setString(doc, "weather", string(e.Weather))
	if e.ExerciseHours != nil {
		doc["exercise_hours"] = *e.ExerciseHours
	}
	if e.SleepHours != nil {
		doc["sleep_hours"] = *e.SleepHours
	}
	return doc
}

func setString(doc map[string]any, key, v string) {
	if v != "" {
		doc[key] = v
	}
}

func toAnySlice(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// EntryFromDocument decodes a stored document. Fields of the wrong type and
// a missing or empty mood list are errors; a bad timestamp is not (see
// MoodEntry.Date).
func EntryFromDocument(id string, data map[string]any) (MoodEntry, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return MoodEntry{}, fmt.Errorf("%w %s: %v", ErrMalformedDocument, id, err)
	}

	var d entryDocument
	if err := json.Unmarshal(raw, &d); err != nil {
		return MoodEntry{}, fmt.Errorf("%w %s: %v", ErrMalformedDocument, id, err)
	}
	if len(d.Moods) == 0 {
		return MoodEntry{}, fmt.Errorf("%w %s: no moods", ErrMalformedDocument, id)
	}

	if id == "" {
		id = d.LocalID
	}
	return MoodEntry{
		ID:            id,
		Moods:         d.Moods,
		Timestamp:     d.Timestamp,
		ImageID:       d.ImageID,
		VoiceNoteID:   d.VoiceNoteID,
		Notes:         d.Notes,
		Place:         Place(d.Place),
		Weather:       Weather(d.Weather),
		ExerciseHours: d.ExerciseHours,
		SleepHours:    d.SleepHours,
	}, nil
}
