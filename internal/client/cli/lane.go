package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moodkeeper/internal/client/insights"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/printers"
	"github.com/dmitrijs2005/moodkeeper/internal/client/store"
	"github.com/dmitrijs2005/moodkeeper/internal/filex"
)

const (
	heatmapDays = 28
	topMoods    = 5
)

var errUsageID = errors.New("usage: <command> <entry id>")

// Refresh reloads the entries from the server.
func (a *App) Refresh(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	if err := a.store.GetMoods(ctx); err != nil {
		return err
	}
	a.println(fmt.Sprintf("%d entries loaded.", len(a.store.Entries())))
	return nil
}

// Lane prints Memory Lane with the newest day in focus.
func (a *App) Lane(_ context.Context) error {
	days := a.store.Days(a.loc)
	models.Focus(days, 0)
	a.printer.Lane(days, a.catalog)
	if err := a.store.LastError(); err != nil {
		a.warn("Showing cached entries, last refresh failed: %v", err)
	}
	return nil
}

func (a *App) findEntry(args []string) (models.MoodEntry, error) {
	if len(args) != 1 {
		return models.MoodEntry{}, errUsageID
	}
	for _, e := range a.store.Entries() {
		if e.ID == args[0] {
			return e, nil
		}
	}
	return models.MoodEntry{}, fmt.Errorf("no entry with id %q", args[0])
}

func (a *App) Delete(ctx context.Context, args []string) error {
	e, err := a.findEntry(args)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	err = a.store.Delete(ctx, e)
	switch {
	case errors.Is(err, store.ErrRefreshFailed):
		a.warn("Deleted, but the list could not be refreshed: %v", err)
		return nil
	case err != nil:
		return err
	}
	a.println("Deleted.")
	return nil
}

func (a *App) download(ctx context.Context, args []string, kind string, get func(context.Context, models.MoodEntry) ([]byte, error), name func(models.MoodEntry) string) error {
	e, err := a.findEntry(args)
	if err != nil {
		return err
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()
	data, err := get(ctx, e)
	if errors.Is(err, store.ErrNoBlob) {
		return fmt.Errorf("entry has no %s", kind)
	}
	if err != nil {
		return err
	}

	path, err := filex.SaveDownload(a.config.DownloadDir, name(e), data)
	if err != nil {
		return err
	}
	a.println("Saved", kind, "to", path)
	return nil
}

// Photo downloads the entry's image into the download directory.
func (a *App) Photo(ctx context.Context, args []string) error {
	return a.download(ctx, args, "photo", a.store.GetImage, func(e models.MoodEntry) string { return e.ImageID })
}

// Voice downloads the entry's voice note into the download directory.
func (a *App) Voice(ctx context.Context, args []string) error {
	return a.download(ctx, args, "voice note", a.store.GetVoiceNote, func(e models.MoodEntry) string { return e.VoiceNoteID })
}

func (a *App) Insights(_ context.Context) error {
	entries := a.store.Entries()
	t := now()
	a.printer.Insights(printers.Summary{
		Streaks:      insights.Streaks(entries, t, a.loc),
		Heatmap:      insights.Heatmap(entries, a.catalog, t.AddDate(0, 0, -(heatmapDays-1)), t, a.loc),
		Distribution: insights.CategoryDistribution(entries, a.catalog),
		Top:          insights.TopMoods(entries, topMoods),
		Averages:     insights.Averages(entries),
	})
	return nil
}
