package retrieval

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

var _ Index = (*MemoryIndex)(nil)

// MemoryIndex is an in-process Index using exhaustive cosine search.
// Suitable for tests and small question banks. Safe for concurrent use.
type MemoryIndex struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// NewMemoryIndex creates an empty MemoryIndex.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{entries: make(map[string]Entry)}
}

// Upsert implements Index.
func (m *MemoryIndex) Upsert(ctx context.Context, entries []Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if e.Record.ID == "" {
			return fmt.Errorf("memory index: record without ID")
		}
		if _, ok := m.entries[e.Record.ID]; !ok {
			m.order = append(m.order, e.Record.ID)
		}
		m.entries[e.Record.ID] = e
	}
	return nil
}

// Query implements Index. Ties keep insertion order.
func (m *MemoryIndex) Query(ctx context.Context, vec []float32, topK int) ([]Match, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if topK <= 0 {
		return []Match{}, nil
	}

	m.mu.RLock()
	matches := make([]Match, 0, len(m.order))
	for _, id := range m.order {
		e := m.entries[id]
		if len(e.Embedding) != len(vec) {
			m.mu.RUnlock()
			return nil, fmt.Errorf("memory index: dimension mismatch for %s: %d != %d", id, len(e.Embedding), len(vec))
		}
		matches = append(matches, Match{Record: e.Record, Distance: cosineDistance(vec, e.Embedding)})
	}
	m.mu.RUnlock()

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].Distance < matches[j].Distance })
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Get implements Index.
func (m *MemoryIndex) Get(ctx context.Context, id string) (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	r := e.Record
	return &r, nil
}

// Count implements Index.
func (m *MemoryIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.order), nil
}

// Reset implements Index.
func (m *MemoryIndex) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[string]Entry)
	m.order = nil
	return nil
}

// cosineDistance is 1 - cosine similarity. A zero vector is at distance 1
// from everything.
func cosineDistance(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(na)*math.Sqrt(nb))
}
