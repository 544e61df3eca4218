// Package memory implements the VectorStore port with an in-memory
// map and brute-force search. Used in tests and useful for small
// throwaway indexes.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/recall-cli/internal/core/ports/driven"
)

// Store is an in-memory vector store. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]driven.Record
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{records: make(map[string]driven.Record)}
}

var _ driven.VectorStore = (*Store)(nil)

// Upsert inserts records, replacing existing ones by ID.
func (s *Store) Upsert(_ context.Context, records []driven.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range records {
		s.records[rec.ID] = rec
	}
	return nil
}

// Query scans all records, ranking by squared L2 distance.
func (s *Store) Query(_ context.Context, embedding []float32, topK int, filter driven.Filter) ([]driven.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matches := make([]driven.Match, 0, len(s.records))
	for _, rec := range s.records {
		if !filter.Matches(rec.Metadata) {
			continue
		}
		matches = append(matches, driven.Match{
			Record:   rec,
			Distance: squaredL2(embedding, rec.Embedding),
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})
	if topK > 0 && len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Get fetches records by ID or filter. Missing IDs are omitted.
func (s *Store) Get(_ context.Context, req driven.GetRequest) ([]driven.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []driven.Record
	if len(req.IDs) > 0 {
		for _, id := range req.IDs {
			if rec, ok := s.records[id]; ok {
				out = append(out, rec)
			}
		}
		return out, nil
	}

	for _, rec := range s.records {
		if !req.Filter.Matches(rec.Metadata) {
			continue
		}
		out = append(out, rec)
		if req.Limit > 0 && len(out) >= req.Limit {
			break
		}
	}
	return out, nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Reset deletes all records.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]driven.Record)
	return nil
}

// Location identifies the store for diagnostics.
func (s *Store) Location() string {
	return "memory"
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}

// squaredL2 computes squared Euclidean distance. Mismatched lengths
// compare over the shorter prefix; the store never mixes dimensions in
// practice.
func squaredL2(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
