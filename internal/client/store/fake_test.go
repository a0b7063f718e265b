package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
)

type storedFile struct {
	bucket string
	data   []byte
	name   string
	mime   string
}

// fakeRemote is an in-memory client.RemoteStore. Documents are listed in
// creation order, pageSize per page.
type fakeRemote struct {
	mu sync.Mutex

	pageSize int
	nextID   int
	docs     []client.Document
	files    map[string]storedFile

	createErr   error
	listErr     error
	deleteErr   error
	uploadErr   map[string]error
	downloadErr error

	createCalls int
	listCalls   int
	// listGate, when set, is consulted on every ListDocuments call and may
	// block it.
	listGate func(call int)
	// loopToken makes every page point at the same next token.
	loopToken bool
}

var _ client.RemoteStore = (*fakeRemote)(nil)

func newFakeRemote() *fakeRemote {
	return &fakeRemote{pageSize: 2, files: map[string]storedFile{}, uploadErr: map[string]error{}}
}

func (f *fakeRemote) Ping(context.Context) error                         { return nil }
func (f *fakeRemote) Register(context.Context, client.Credentials) error { return nil }
func (f *fakeRemote) Logout(context.Context) error                       { return nil }
func (f *fakeRemote) CurrentSession() (*client.Session, bool)            { return &client.Session{UserID: "u1"}, true }
func (f *fakeRemote) Close() error                                       { return nil }
func (f *fakeRemote) Login(context.Context, client.Credentials) (*client.Session, error) {
	return &client.Session{UserID: "u1"}, nil
}

func (f *fakeRemote) put(collection string, data map[string]any) string {
	f.nextID++
	id := fmt.Sprintf("doc-%d", f.nextID)
	f.docs = append(f.docs, client.Document{ID: id, Collection: collection, Data: data})
	return id
}

func (f *fakeRemote) CreateDocument(_ context.Context, collection string, data map[string]any) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.put(collection, data), nil
}

func (f *fakeRemote) ListDocuments(_ context.Context, collection, pageToken string) ([]client.Document, string, error) {
	f.mu.Lock()
	f.listCalls++
	call, gate := f.listCalls, f.listGate
	f.mu.Unlock()

	if gate != nil {
		gate(call)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, "", f.listErr
	}

	var matching []client.Document
	for _, d := range f.docs {
		if d.Collection == collection {
			matching = append(matching, d)
		}
	}

	start := 0
	if pageToken != "" {
		n, err := strconv.Atoi(pageToken)
		if err != nil {
			return nil, "", fmt.Errorf("%w: bad page token", common.ErrorValidation)
		}
		start = n
	}
	if start > len(matching) {
		start = len(matching)
	}
	end := start + f.pageSize
	next := strconv.Itoa(end)
	if end >= len(matching) {
		end = len(matching)
		next = ""
	}
	if f.loopToken {
		next = "1"
	}
	return append([]client.Document(nil), matching[start:end]...), next, nil
}

func (f *fakeRemote) DeleteDocument(_ context.Context, collection, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, d := range f.docs {
		if d.ID == id && d.Collection == collection {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeRemote) UploadFile(_ context.Context, bucket string, data []byte, filename, mime string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.uploadErr[bucket]; err != nil {
		return "", err
	}
	id := fmt.Sprintf("%s-file-%d", bucket, len(f.files)+1)
	f.files[id] = storedFile{bucket: bucket, data: data, name: filename, mime: mime}
	return id, nil
}

func (f *fakeRemote) DownloadFile(_ context.Context, bucket, fileID string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	sf, ok := f.files[fileID]
	if !ok || sf.bucket != bucket {
		return nil, common.ErrorNotFound
	}
	return sf.data, nil
}

type fakeCatalog map[string]bool

func (c fakeCatalog) Has(name string) bool { return c[name] }
func (c fakeCatalog) Len() int             { return len(c) }

type recordingInvalidator struct {
	mu     sync.Mutex
	causes []error
}

func (r *recordingInvalidator) InvalidateSession(_ context.Context, cause error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.causes = append(r.causes, cause)
}

func (r *recordingInvalidator) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.causes)
}
