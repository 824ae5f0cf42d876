// Package store keeps uploaded datasets and their profiles in memory for the
// API server.
package store

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kmmelissat/analisis-al-instante/internal/dataset"
	"github.com/kmmelissat/analisis-al-instante/internal/profile"
)

// ErrNotFound is returned for unknown dataset ids.
var ErrNotFound = errors.New("dataset not found")

// Entry is one stored dataset.
type Entry struct {
	ID        string                  `json:"id"`
	Name      string                  `json:"name"`
	Rows      int                     `json:"rows"`
	Columns   int                     `json:"columns"`
	CreatedAt time.Time               `json:"created_at"`
	Table     *dataset.Table          `json:"-"`
	Profile   *profile.DatasetProfile `json:"profile,omitempty"`
}

// Store is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

func New() *Store {
	return &Store{entries: make(map[string]*Entry), now: time.Now}
}

// Put stores a table with its profile and returns the new entry.
func (s *Store) Put(t *dataset.Table, p *profile.DatasetProfile) *Entry {
	e := &Entry{
		ID:        uuid.NewString(),
		Name:      t.Name,
		Rows:      len(t.Rows),
		Columns:   len(t.Columns),
		CreatedAt: s.now(),
		Table:     t,
		Profile:   p,
	}
	s.mu.Lock()
	s.entries[e.ID] = e
	s.mu.Unlock()
	return e
}

func (s *Store) Get(id string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

// List returns entries oldest first.
func (s *Store) List() []*Entry {
	s.mu.RLock()
	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[id]; !ok {
		return ErrNotFound
	}
	delete(s.entries, id)
	return nil
}

// Len reports the number of stored datasets.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
