package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/moodkeeper/internal/client/client"
	"github.com/dmitrijs2005/moodkeeper/internal/client/models"
	"github.com/dmitrijs2005/moodkeeper/internal/common"
	"github.com/dmitrijs2005/moodkeeper/internal/logging"
)

var (
	// ErrRefreshFailed wraps a refresh error that followed a committed write.
	ErrRefreshFailed = errors.New("write committed but refresh failed")
	ErrNoBlob        = errors.New("entry has no such attachment")
	ErrMissingID     = errors.New("entry has no id")
	errPageLoop      = errors.New("remote store repeated a page token")
)

// Catalog is the part of the mood catalog the store needs.
type Catalog interface {
	Has(name string) bool
	Len() int
}

type MoodStore struct {
	remote      client.RemoteStore
	catalog     Catalog
	invalidator SessionInvalidator
	policy      WritePolicy
	logger      logging.Logger
	collection  string

	issued atomic.Uint64

	mu      sync.RWMutex
	entries []models.MoodEntry
	applied uint64
	lastErr error
	writes  writeCounts
}

type Option func(*MoodStore)

func WithWritePolicy(p WritePolicy) Option {
	return func(s *MoodStore) { s.policy = p }
}

func WithInvalidator(inv SessionInvalidator) Option {
	return func(s *MoodStore) { s.invalidator = inv }
}

func WithLogger(l logging.Logger) Option {
	return func(s *MoodStore) { s.logger = l }
}

// WithCollection overrides the document collection holding the entries.
func WithCollection(name string) Option {
	return func(s *MoodStore) { s.collection = name }
}

// New creates a store over remote. catalog may be nil, which disables mood
// name checks, as does an empty catalog.
func New(remote client.RemoteStore, catalog Catalog, opts ...Option) *MoodStore {
	s := &MoodStore{
		remote:     remote,
		catalog:    catalog,
		policy:     PolicyLogout,
		logger:     logging.NewDiscard(),
		collection: common.MoodEntriesCollection,
	}
	for _, o := range opts {
		o(s)
	}
	s.logger = s.logger.With("module", "store")
	return s
}

// Entries returns a copy of the current list in creation order.
func (s *MoodStore) Entries() []models.MoodEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MoodEntry(nil), s.entries...)
}

// Days groups the current list by local day in loc.
func (s *MoodStore) Days(loc *time.Location) []models.DayGroup {
	return GroupByDay(s.Entries(), loc)
}

// LastError is the error of the most recent failed read or write, cleared
// by the next successful refresh.
func (s *MoodStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// State summarizes the writes in flight. See writeCounts.current.
func (s *MoodStore) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.writes.current()
}

// Reset forgets everything held for the current session: the list, the
// last error and the state of writes in flight. Fetches started before
// Reset are dropped when they return. Call it whenever the session ends.
func (s *MoodStore) Reset() {
	s.dropSession(nil)
}

func (s *MoodStore) dropSession(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
	s.applied = s.issued.Add(1)
	s.lastErr = cause
	s.writes.reset()
}

// GetMoods fetches every entry, following page tokens, and replaces the
// list. On error the previous list is kept and LastError is set. A fetch
// that started before the last applied one (or before a Reset) leaves the
// store untouched and returns only its own error.
func (s *MoodStore) GetMoods(ctx context.Context) error {
	gen := s.issued.Add(1)

	entries, err := s.fetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen < s.applied {
		s.logger.Debug(ctx, "stale fetch dropped", "generation", gen, "applied", s.applied)
		return err
	}
	if err != nil {
		s.lastErr = err
		s.logger.Warn(ctx, "fetch failed, keeping previous entries", "error", err)
		return err
	}

	s.entries = entries
	s.applied = gen
	s.lastErr = nil
	return nil
}

func (s *MoodStore) fetchAll(ctx context.Context) ([]models.MoodEntry, error) {
	var entries []models.MoodEntry
	seen := map[string]bool{}
	token := ""
	for {
		docs, next, err := s.remote.ListDocuments(ctx, s.collection, token)
		if err != nil {
			return nil, fmt.Errorf("list entries: %w", err)
		}
		for _, d := range docs {
			e, err := models.EntryFromDocument(d.ID, d.Data)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
		}
		if next == "" {
			return entries, nil
		}
		if seen[next] {
			return nil, errPageLoop
		}
		seen[next] = true
		token = next
	}
}

func (s *MoodStore) knownMood(name string) bool {
	return s.catalog.Has(name)
}

// Append validates entry, creates it remotely and refreshes the list. The
// local id is sent along but the refreshed copy carries the store's id.
// Validation errors are returned before anything is submitted. A write
// error runs the write policy; a refresh error after a committed write is
// wrapped in ErrRefreshFailed.
func (s *MoodStore) Append(ctx context.Context, entry models.MoodEntry) error {
	var known func(string) bool
	if s.catalog != nil && s.catalog.Len() > 0 {
		known = s.knownMood
	}
	if err := entry.Validate(known); err != nil {
		return err
	}

	w := s.beginWrite()
	id, err := s.remote.CreateDocument(ctx, s.collection, entry.ToDocument())
	if err != nil {
		return s.writeFailed(ctx, w, "append", err)
	}
	s.logger.Info(ctx, "entry created", "id", id)

	return s.commit(ctx, w)
}

// Delete removes entry remotely and refreshes the list. An entry that is
// already gone counts as deleted.
func (s *MoodStore) Delete(ctx context.Context, entry models.MoodEntry) error {
	if entry.ID == "" {
		return ErrMissingID
	}

	w := s.beginWrite()
	err := s.remote.DeleteDocument(ctx, s.collection, entry.ID)
	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		return s.writeFailed(ctx, w, "delete", err)
	}
	s.logger.Info(ctx, "entry deleted", "id", entry.ID)

	return s.commit(ctx, w)
}

func (s *MoodStore) commit(ctx context.Context, w *write) error {
	s.moveWrite(w, StateCommitted)
	defer s.endWrite(w)

	if err := s.GetMoods(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	return nil
}

// writeFailed records err and applies the write policy. When the policy
// ends the session the list goes with it; LastError keeps err so the
// caller can tell why.
func (s *MoodStore) writeFailed(ctx context.Context, w *write, op string, err error) error {
	s.mu.Lock()
	s.lastErr = err
	s.mu.Unlock()
	s.moveWrite(w, StateFailed)
	defer s.endWrite(w)

	s.logger.Error(ctx, "write failed", "op", op, "error", err, "policy", string(s.policy))
	if s.invalidator != nil && s.policy.invalidates(err) {
		s.invalidator.InvalidateSession(ctx, err)
		s.dropSession(err)
	}
	return fmt.Errorf("%s entry: %w", op, err)
}
