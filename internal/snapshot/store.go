package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aryannaik/bookmark-relevance/internal/bookmark"
)

// ErrNotFound is returned when a bookmark id is not in the snapshot.
var ErrNotFound = errors.New("bookmark not found")

// file is the on-disk cache of the last snapshot fetched from the provider.
type file struct {
	Bookmarks []bookmark.Bookmark `json:"bookmarks"`
	FetchedAt time.Time           `json:"fetchedAt"`
}

// Store holds the current bookmark snapshot. Readers receive the snapshot
// slice itself, which is never mutated in place: Replace swaps in a new one.
type Store struct {
	mu        sync.RWMutex
	bookmarks []bookmark.Bookmark
	byID      map[string]int
	fetchedAt time.Time
	path      string
}

func NewStore(dataDir string) *Store {
	return &Store{
		byID: make(map[string]int),
		path: filepath.Join(dataDir, "snapshot.json"),
	}
}

// LoadFromDisk loads the cached snapshot. Returns nil if the file doesn't exist.
func (s *Store) LoadFromDisk() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read snapshot file: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(f.Bookmarks, f.FetchedAt)
	return nil
}

// SaveToDisk persists the snapshot so the next start can serve it before
// the provider responds.
func (s *Store) SaveToDisk() error {
	s.mu.RLock()
	f := file{Bookmarks: s.bookmarks, FetchedAt: s.fetchedAt}
	s.mu.RUnlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot file: %w", err)
	}

	return nil
}

// Replace swaps in a freshly fetched snapshot.
func (s *Store) Replace(bookmarks []bookmark.Bookmark) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(bookmarks, time.Now())
}

// Clear drops the snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(nil, time.Time{})
}

func (s *Store) set(bookmarks []bookmark.Bookmark, fetchedAt time.Time) {
	s.bookmarks = bookmarks
	s.fetchedAt = fetchedAt
	s.byID = make(map[string]int, len(bookmarks))
	for i, b := range bookmarks {
		if _, dup := s.byID[b.ID]; !dup {
			s.byID[b.ID] = i
		}
	}
}

// All returns the current snapshot. Callers must not modify it.
func (s *Store) All() []bookmark.Bookmark {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bookmarks
}

// Get returns the bookmark with the given id.
func (s *Store) Get(id string) (bookmark.Bookmark, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.byID[id]
	if !ok {
		return bookmark.Bookmark{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.bookmarks[i], nil
}

// Count returns the number of bookmarks in the snapshot.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bookmarks)
}

// FetchedAt returns when the snapshot was last fetched, or zero time if unknown.
func (s *Store) FetchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fetchedAt
}
