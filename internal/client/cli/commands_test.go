package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var checkInTime = time.Date(2024, 3, 5, 9, 30, 0, 0, time.UTC)

func TestRegister(t *testing.T) {
	ta := newTestApp(t, "")
	stubCredentials(t, "ann", "secret")

	require.NoError(t, ta.Register(context.Background()))
	assert.Equal(t, "ann", ta.auth.regUser)
	assert.Equal(t, "secret", ta.auth.regPass)
	assert.Contains(t, ta.out.String(), "Registered")

	ta.auth.regErr = common.ErrorAlreadyExists
	assert.ErrorIs(t, ta.Register(context.Background()), common.ErrorAlreadyExists)
}

func TestLogin_LoadsEntries(t *testing.T) {
	ta := newTestApp(t, "")
	ta.auth.session = nil
	_, err := ta.remote.CreateDocument(context.Background(), common.MoodEntriesCollection,
		models.NewMoodEntry(checkInTime, "Calm").ToDocument())
	require.NoError(t, err)
	stubCredentials(t, "bob", "pw")

	require.NoError(t, ta.Login(context.Background()))
	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, "(bob)", ta.status())
	assert.Len(t, ta.store.Entries(), 1)
	assert.Contains(t, ta.out.String(), "1 entries loaded.")
}

func TestLogin_Failure(t *testing.T) {
	ta := newTestApp(t, "")
	ta.auth.session = nil
	ta.auth.loginErr = client.ErrUnauthorized
	stubCredentials(t, "bob", "bad")

	require.ErrorIs(t, ta.Login(context.Background()), client.ErrUnauthorized)
	assert.False(t, ta.isLoggedIn())
}

func TestLogout(t *testing.T) {
	ta := newTestApp(t, "")
	require.NoError(t, ta.Logout(context.Background()))
	assert.False(t, ta.isLoggedIn())
	assert.Equal(t, "", ta.status())
}

func TestLogout_NextUserNeverSeesPreviousEntries(t *testing.T) {
	ta := newTestApp(t, "")
	ann := models.NewMoodEntry(checkInTime, "Sad")
	ann.Notes = "ann-private"
	seed(t, ta, ann)
	require.Len(t, ta.store.Entries(), 1)

	require.NoError(t, ta.Logout(context.Background()))
	assert.Empty(t, ta.store.Entries())

	ta.remote.listErr = client.ErrUnavailable
	stubCredentials(t, "bob", "pw")
	require.NoError(t, ta.Login(context.Background()))
	assert.Equal(t, "(bob)", ta.status())

	ta.out.Reset()
	require.NoError(t, ta.Lane(context.Background()))
	assert.NotContains(t, ta.out.String(), "ann-private")
	assert.Empty(t, ta.store.Entries())
}

func TestOnSessionChange(t *testing.T) {
	var persisted []*client.Session
	resets := 0
	hook := onSessionChange(func(s *client.Session) { persisted = append(persisted, s) }, func() { resets++ })

	sess := &client.Session{Username: "ann"}
	hook(sess)
	assert.Zero(t, resets)
	hook(nil)
	assert.Equal(t, 1, resets)
	assert.Equal(t, []*client.Session{sess, nil}, persisted)
}

func TestCheckIn(t *testing.T) {
	stubNow(t, checkInTime)
	photo := filepath.Join(t.TempDir(), "sky.png")
	require.NoError(t, os.WriteFile(photo, []byte("png-bytes"), 0o600))

	ta := newTestApp(t, "")
	ta.feed("joyful, Sad\nHome\nsunny\n7\n\nfelt good\nreally\n\n" + photo + "\n\n")

	require.NoError(t, ta.CheckIn(context.Background()))
	assert.Contains(t, ta.out.String(), "Saved.")

	entries := ta.store.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, "doc-1", e.ID)
	assert.Equal(t, []string{"Joyful", "Sad"}, e.Moods)
	assert.Equal(t, models.PlaceHome, e.Place)
	assert.Equal(t, models.WeatherSunny, e.Weather)
	require.NotNil(t, e.SleepHours)
	assert.Equal(t, 7.0, *e.SleepHours)
	assert.Nil(t, e.ExerciseHours)
	assert.Equal(t, "felt good\nreally", e.Notes)
	assert.Equal(t, "images-sky.png", e.ImageID)
	assert.Empty(t, e.VoiceNoteID)
	assert.True(t, checkInTime.Equal(e.Date()))
	assert.Equal(t, []byte("png-bytes"), ta.remote.files["images-sky.png"])
}

func TestCheckIn_EmptyMoodsUsesDefault(t *testing.T) {
	stubNow(t, checkInTime)
	ta := newTestApp(t, "")
	ta.feed("\n\n\n\n\n\n\n\n")

	require.NoError(t, ta.CheckIn(context.Background()))
	entries := ta.store.Entries()
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Moods, 1)
	assert.True(t, ta.catalog.Has(entries[0].Moods[0]))
}

func TestCheckIn_ValidationErrorWritesNothing(t *testing.T) {
	ta := newTestApp(t, "")
	ta.feed("Grumpy\n\n\n\n\n\n\n\n")

	err := ta.CheckIn(context.Background())
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Empty(t, ta.remote.docs)
	assert.True(t, ta.isLoggedIn())
}

func TestCheckIn_BadNumber(t *testing.T) {
	ta := newTestApp(t, "")
	ta.feed("Calm\n\n\nlots\n")
	require.Error(t, ta.CheckIn(context.Background()))
	assert.Empty(t, ta.remote.docs)
}

func TestCheckIn_WriteFailureLogsOut(t *testing.T) {
	ta := newTestApp(t, "")
	ta.remote.createErr = client.ErrUnavailable
	ta.feed("Calm\n\n\n\n\n\n\n\n")

	require.ErrorIs(t, ta.CheckIn(context.Background()), client.ErrUnavailable)
	assert.False(t, ta.isLoggedIn())
}

func TestCheckIn_WriteFailureDropsEntries(t *testing.T) {
	ta := newTestApp(t, "")
	seed(t, ta, models.NewMoodEntry(checkInTime, "Calm"))
	ta.remote.createErr = client.ErrUnavailable
	ta.feed("Sad\n\n\n\n\n\n\n\n")

	require.Error(t, ta.CheckIn(context.Background()))
	assert.False(t, ta.isLoggedIn())
	assert.Empty(t, ta.store.Entries())
}

func TestCheckIn_RefreshFailureIsAWarning(t *testing.T) {
	ta := newTestApp(t, "")
	ta.remote.listErr = client.ErrUnavailable
	ta.feed("Calm\n\n\n\n\n\n\n\n")

	require.NoError(t, ta.CheckIn(context.Background()))
	assert.Contains(t, ta.out.String(), "Saved, but the list could not be refreshed")
	assert.Len(t, ta.remote.docs, 1)
	assert.True(t, ta.isLoggedIn())
}

func seed(t *testing.T, ta *testApp, entries ...models.MoodEntry) {
	t.Helper()
	for _, e := range entries {
		_, err := ta.remote.CreateDocument(context.Background(), common.MoodEntriesCollection, e.ToDocument())
		require.NoError(t, err)
	}
	require.NoError(t, ta.store.GetMoods(context.Background()))
}

func TestLane(t *testing.T) {
	ta := newTestApp(t, "")
	seed(t, ta,
		models.NewMoodEntry(checkInTime, "Calm"),
		models.NewMoodEntry(checkInTime.AddDate(0, 0, 1), "Joyful"),
	)

	require.NoError(t, ta.Lane(context.Background()))
	s := ta.out.String()
	assert.Contains(t, s, "Memory Lane")
	assert.Contains(t, s, "> Wed, 06 Mar 2024")
	assert.Contains(t, s, "Tue, 05 Mar 2024")
	assert.NotContains(t, s, "> Tue")
	assert.Less(t, strings.Index(s, "06 Mar"), strings.Index(s, "05 Mar"))
}

func TestDelete(t *testing.T) {
	ta := newTestApp(t, "")
	seed(t, ta, models.NewMoodEntry(checkInTime, "Calm"), models.NewMoodEntry(checkInTime, "Sad"))

	require.NoError(t, ta.Delete(context.Background(), []string{"doc-1"}))
	entries := ta.store.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "doc-2", entries[0].ID)

	assert.ErrorIs(t, ta.Delete(context.Background(), nil), errUsageID)
	assert.Error(t, ta.Delete(context.Background(), []string{"nope"}))
}

func TestPhotoAndVoice(t *testing.T) {
	ta := newTestApp(t, "")
	e := models.NewMoodEntry(checkInTime, "Calm")
	e.ImageID = "img-1"
	ta.remote.files["img-1"] = []byte("jpeg")
	seed(t, ta, e)

	require.NoError(t, ta.Photo(context.Background(), []string{"doc-1"}))
	got, err := os.ReadFile(filepath.Join(ta.config.DownloadDir, "img-1"))
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), got)

	err = ta.Voice(context.Background(), []string{"doc-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no voice note")
}

func TestInsights(t *testing.T) {
	stubNow(t, checkInTime.AddDate(0, 0, 1))
	ta := newTestApp(t, "")
	seed(t, ta,
		models.NewMoodEntry(checkInTime, "Calm"),
		models.NewMoodEntry(checkInTime.AddDate(0, 0, 1), "Calm"),
	)

	require.NoError(t, ta.Insights(context.Background()))
	s := ta.out.String()
	assert.Contains(t, s, "Streaks")
	assert.Regexp(t, `Current\s+2 days`, s)
	assert.Regexp(t, `Calm\s+2`, s)
}

func TestRun_RestoresSessionAndExits(t *testing.T) {
	ta := newTestApp(t, "")
	ta.auth.session = nil
	ta.auth.restored = &client.Session{Username: "ann", AccessToken: "A1"}
	seed(t, ta, models.NewMoodEntry(checkInTime, "Calm"))
	ta.feed("exit\n")

	require.NoError(t, ta.Run(context.Background()))
	s := ta.out.String()
	assert.Contains(t, s, "Welcome back, ann")
	assert.Contains(t, s, "1 entries loaded.")
	assert.Contains(t, s, "mk (ann)> ")
	assert.Contains(t, s, "Bye!")
}
