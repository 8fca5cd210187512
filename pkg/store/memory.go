package store

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/lyphgraph/pkg/model"
)

// MemoryStore keeps documents in a map. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
	now  func() time.Time
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: map[string]*Document{}, now: time.Now}
}

// Put stores a copy of m.
func (s *MemoryStore) Put(_ context.Context, id string, m model.Object) (*Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := newDocument(id, m, s.docs[id], s.now())
	if err != nil {
		return nil, err
	}
	s.docs[doc.ID] = doc
	out := *doc
	return &out, nil
}

// Get returns a copy of the stored document.
func (s *MemoryStore) Get(_ context.Context, id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *doc
	return &out, nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return ErrNotFound
	}
	delete(s.docs, id)
	return nil
}

// List returns the documents ordered by id.
func (s *MemoryStore) List(_ context.Context) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		doc := *d
		doc.Source = nil
		out = append(out, doc)
	}
	slices.SortFunc(out, func(a, b Document) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

// Close does nothing.
func (s *MemoryStore) Close(context.Context) error { return nil }

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
