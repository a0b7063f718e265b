package services

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/dbx"
	"github.com/dmitrijs2005/moodkeeper/internal/server/models"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/documents"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/files"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/moodkeeper/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

type fakeUsers struct {
	byName    map[string]*models.User
	createErr error
	getErr    error
}

func (f *fakeUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byName[u.UserName]; ok {
		return nil, common.ErrorAlreadyExists
	}
	u.ID = "u-" + u.UserName
	f.byName[u.UserName] = u
	return u, nil
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u, nil
}

type fakeTokens struct {
	mu        sync.Mutex
	tokens    map[string]*models.RefreshToken
	createErr error
	deleteErr error
	expired   int64
}

func (f *fakeTokens) Create(_ context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeTokens) Find(_ context.Context, token string) (*models.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeTokens) Delete(_ context.Context, token string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, token)
	return nil
}

func (f *fakeTokens) DeleteExpired(context.Context, time.Time) (int64, error) {
	return f.expired, nil
}

type fakeDocuments struct {
	docs      []*models.Document
	seq       int64
	createErr error
	lastLimit int
}

func (f *fakeDocuments) Create(_ context.Context, d *models.Document) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.seq++
	d.Seq = f.seq
	d.CreatedAt = time.Now()
	f.docs = append(f.docs, d)
	return nil
}

func (f *fakeDocuments) ListAfter(_ context.Context, userID, collection string, after int64, limit int) ([]*models.Document, error) {
	f.lastLimit = limit
	var out []*models.Document
	for _, d := range f.docs {
		if d.UserID == userID && d.Collection == collection && d.Seq > after && len(out) < limit {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) Delete(_ context.Context, userID, collection, id string) error {
	for i, d := range f.docs {
		if d.ID == id && d.UserID == userID && d.Collection == collection {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeFiles struct {
	files     map[string]*models.File
	createErr error
}

func (f *fakeFiles) Create(_ context.Context, file *models.File) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.files[file.ID] = file
	return nil
}

func (f *fakeFiles) MarkUploaded(_ context.Context, userID, id string) error {
	file, ok := f.files[id]
	if !ok || file.UserID != userID {
		return common.ErrorNotFound
	}
	file.Status = models.FileStatusCompleted
	return nil
}

func (f *fakeFiles) Get(_ context.Context, userID, id string) (*models.File, error) {
	file, ok := f.files[id]
	if !ok || file.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return file, nil
}

type fakeRepoManager struct {
	users     *fakeUsers
	tokens    *fakeTokens
	documents *fakeDocuments
	files     *fakeFiles
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		users:     &fakeUsers{byName: map[string]*models.User{}},
		tokens:    &fakeTokens{tokens: map[string]*models.RefreshToken{}},
		documents: &fakeDocuments{},
		files:     &fakeFiles{files: map[string]*models.File{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.users }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.tokens }
func (m *fakeRepoManager) Documents(dbx.DBTX) documents.Repository         { return m.documents }
func (m *fakeRepoManager) Files(dbx.DBTX) files.Repository                 { return m.files }
