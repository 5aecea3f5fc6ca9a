// Package memory is the default invocation store: bounded, in-process,
// gone on restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/lambdafront/lambdafront/internal/storage"
)

// DefaultLimit caps retained records when New is given no positive limit.
const DefaultLimit = 256

// Store is an in-memory implementation of storage.Store. Records beyond
// the limit are dropped oldest-first.
type Store struct {
	mu    sync.RWMutex
	limit int
	recs  []*storage.InvocationRecord // newest first
	byID  map[string]*storage.InvocationRecord
}

var _ storage.Store = (*Store)(nil)

// New creates a bounded in-memory store.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{
		limit: limit,
		byID:  make(map[string]*storage.InvocationRecord),
	}
}

func (s *Store) Save(ctx context.Context, rec *storage.InvocationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[rec.ID]; exists {
		return fmt.Errorf("record %s already exists", rec.ID)
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	s.recs = append([]*storage.InvocationRecord{rec}, s.recs...)
	s.byID[rec.ID] = rec

	for len(s.recs) > s.limit {
		oldest := s.recs[len(s.recs)-1]
		delete(s.byID, oldest.ID)
		s.recs = s.recs[:len(s.recs)-1]
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*storage.InvocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.byID[id]
	if !exists {
		return nil, fmt.Errorf("record %s: %w", id, storage.ErrNotFound)
	}
	return rec, nil
}

func (s *Store) List(ctx context.Context, opts storage.ListOptions) ([]*storage.InvocationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*storage.InvocationRecord
	for _, rec := range s.recs {
		if opts.Trigger != "" && rec.Trigger != opts.Trigger {
			continue
		}
		result = append(result, rec)
	}

	start := max(opts.Offset, 0)
	if start >= len(result) {
		return []*storage.InvocationRecord{}, nil
	}
	end := start + opts.Limit
	if opts.Limit <= 0 || end > len(result) {
		end = len(result)
	}
	return result[start:end], nil
}

func (s *Store) Close() error {
	return nil
}
