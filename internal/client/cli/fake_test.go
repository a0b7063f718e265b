package cli

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
	"github.com/dmitrijs2005/moodkeeper/internal/client/config"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/client/store"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
	"github.com/stretchr/testify/require"
)

// fakeRemote keeps documents and files in memory and returns them on a
// single page.
type fakeRemote struct {
	client.RemoteStore

	mu        sync.Mutex
	docs      []client.Document
	files     map[string][]byte
	createErr error
	listErr   error
	nextID    int
}

func newFakeRemote() *fakeRemote { return &fakeRemote{files: map[string][]byte{}} }

func (f *fakeRemote) CreateDocument(_ context.Context, collection string, data map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.docs = append(f.docs, client.Document{ID: id, Collection: collection, Data: data})
	return id, nil
}

func (f *fakeRemote) ListDocuments(_ context.Context, collection, _ string) ([]client.Document, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, "", f.listErr
	}
	var out []client.Document
	for _, d := range f.docs {
		if d.Collection == collection {
			out = append(out, d)
		}
	}
	return out, "", nil
}

func (f *fakeRemote) DeleteDocument(_ context.Context, _, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.docs {
		if d.ID == id {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeRemote) UploadFile(_ context.Context, bucket string, data []byte, filename, _ string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := bucket + "-" + filename
	f.files[id] = data
	return id, nil
}

func (f *fakeRemote) DownloadFile(_ context.Context, _, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.files[fileID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return data, nil
}

// fakeAuth is an in-memory authService.
type fakeAuth struct {
	session   *client.Session
	restored  *client.Session
	regUser   string
	regPass   string
	regErr    error
	loginErr  error
	logoutErr error
}

func (f *fakeAuth) Register(_ context.Context, u, p string) error {
	f.regUser, f.regPass = u, p
	return f.regErr
}

func (f *fakeAuth) Login(_ context.Context, u, _ string) (*client.Session, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.session = &client.Session{Username: u, AccessToken: "A1"}
	return f.session, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.session = nil
	return f.logoutErr
}

func (f *fakeAuth) Restore(context.Context) (*client.Session, bool, error) {
	if f.restored == nil {
		return nil, false, nil
	}
	f.session = f.restored
	return f.restored, true, nil
}

func (f *fakeAuth) Session() (*client.Session, bool) { return f.session, f.session != nil }

var testMoods = []models.Mood{
	{Name: "Joyful", Category: models.HighEnergyPleasant, HappinessIndex: 0.9, Emoji: "😄"},
	{Name: "Calm", Category: models.LowEnergyPleasant, HappinessIndex: 0.7, Emoji: "😌"},
	{Name: "Sad", Category: models.LowEnergyUnpleasant, HappinessIndex: 0.1, Emoji: "😢"},
}

type testApp struct {
	*App
	remote *fakeRemote
	auth   *fakeAuth
	out    *bytes.Buffer
}

// newTestApp builds an App over fakes. input feeds the interactive prompts.
func newTestApp(t *testing.T, input string) *testApp {
	t.Helper()
	cat, err := catalog.New(testMoods)
	require.NoError(t, err)

	remote, auth := newFakeRemote(), &fakeAuth{session: &client.Session{Username: "ann"}}
	st := store.New(remote, cat, store.WithInvalidator(store.InvalidatorFunc(func(context.Context, error) { auth.session = nil })))
	cfg := &config.Config{DownloadDir: t.TempDir(), RequestTimeout: 5 * time.Second}

	var out bytes.Buffer
	a := newApp(cfg, logging.NewDiscard(), auth, st, cat, strings.NewReader(input), &out)
	a.loc = time.UTC
	return &testApp{App: a, remote: remote, auth: auth, out: &out}
}

// feed replaces the prompt input.
func (ta *testApp) feed(input string) {
	ta.reader = bufio.NewReader(strings.NewReader(input))
}

func stubNow(t *testing.T, at time.Time) {
	t.Helper()
	old := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = old })
}

func stubCredentials(t *testing.T, username, password string) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	getSimpleText = func(*bufio.Reader, string, io.Writer) (string, error) { return username, nil }
	getPassword = func(io.Writer) ([]byte, error) { return []byte(password), nil }
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})
}
