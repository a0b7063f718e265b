package cli

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/store"
)

// Test seams.
var (
	now      = time.Now
	readFile = os.ReadFile
)

// hintSize is how many sample moods the check-in prompt suggests.
const hintSize = 8

func (a *App) moodHint() string {
	sample := a.catalog.PlaceholderSample()
	if len(sample) > hintSize {
		sample = sample[:hintSize]
	}
	names := make([]string, len(sample))
	for i, m := range sample {
		names[i] = m.Name
	}
	return strings.Join(names, ", ")
}

// resolveMoods maps typed names to catalog spelling. Unknown names are kept
// as typed so validation can report them.
func (a *App) resolveMoods(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		if m, ok := a.catalog.MoodNamed(n); ok {
			out[i] = m.Name
		} else {
			out[i] = n
		}
	}
	return out
}

func optionList[T ~string](values []T) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = string(v)
	}
	return strings.Join(s, "/")
}

func loadBlob(path string) (*store.Blob, error) {
	if path == "" {
		return nil, nil
	}
	data, err := readFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	mt := mime.TypeByExtension(filepath.Ext(path))
	if mt == "" {
		mt = http.DetectContentType(data)
	}
	return &store.Blob{Data: data, Filename: filepath.Base(path), MIME: mt}, nil
}

func (a *App) readCheckIn() (store.CheckIn, error) {
	var ci store.CheckIn

	prompt := "How do you feel? (comma separated moods)"
	if hint := a.moodHint(); hint != "" {
		prompt += "\ne.g. " + hint
	}
	names, err := GetList(a.reader, prompt, a.out)
	if err != nil {
		return ci, err
	}
	if len(names) == 0 {
		if m, ok := a.catalog.DefaultMood(); ok {
			names = []string{m.Name}
			a.println("Using", m.Name)
		}
	}
	entry := models.NewMoodEntry(now(), a.resolveMoods(names)...)

	place, err := GetSimpleText(a.reader, "Where are you? ("+optionList(models.Places)+", empty to skip)", a.out)
	if err != nil {
		return ci, err
	}
	entry.Place = models.Place(strings.ToLower(place))

	weather, err := GetSimpleText(a.reader, "Weather? ("+optionList(models.Weathers)+", empty to skip)", a.out)
	if err != nil {
		return ci, err
	}
	entry.Weather = models.Weather(strings.ToLower(weather))

	if entry.SleepHours, err = GetOptionalFloat(a.reader, "Hours slept (empty to skip)", a.out); err != nil {
		return ci, err
	}
	if entry.ExerciseHours, err = GetOptionalFloat(a.reader, "Hours of exercise (empty to skip)", a.out); err != nil {
		return ci, err
	}
	if entry.Notes, err = GetMultiline(a.reader, "Notes", a.out); err != nil {
		return ci, err
	}

	photo, err := GetSimpleText(a.reader, "Photo file (empty to skip)", a.out)
	if err != nil {
		return ci, err
	}
	if ci.Image, err = loadBlob(photo); err != nil {
		return ci, err
	}
	voice, err := GetSimpleText(a.reader, "Voice note file (empty to skip)", a.out)
	if err != nil {
		return ci, err
	}
	if ci.VoiceNote, err = loadBlob(voice); err != nil {
		return ci, err
	}

	ci.Entry = entry
	return ci, nil
}

// CheckIn records a new entry with its attachments. The save runs as a
// background task; the prompt waits for it.
func (a *App) CheckIn(ctx context.Context) error {
	ci, err := a.readCheckIn()
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	a.println("Saving...")
	task := a.store.SaveCheckInAsync(ctx, ci, nil)
	err = task.Wait(ctx)
	switch {
	case errors.Is(err, store.ErrRefreshFailed):
		a.warn("Saved, but the list could not be refreshed: %v", err)
		return nil
	case err != nil:
		return err
	}
	a.println("Saved.")
	return nil
}
