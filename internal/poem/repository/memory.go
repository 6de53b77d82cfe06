package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/poem"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memEntry struct {
	poem poem.Poem
	seq  uint64
}

// MemoryRepo is an in-memory repository used by the dev server and unit tests.
// It hands out copies so callers never alias stored poems.
type MemoryRepo struct {
	mu    sync.RWMutex
	seq   uint64
	store map[primitive.ObjectID]*memEntry
	now   func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		store: make(map[primitive.ObjectID]*memEntry),
		now:   func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (m *MemoryRepo) Create(_ context.Context, p *poem.Poem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = m.now()
	m.seq++
	m.store[p.ID] = &memEntry{poem: *p, seq: m.seq}
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, id primitive.ObjectID) (*poem.Poem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.store[id]; ok {
		p := e.poem
		return &p, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List(_ context.Context) ([]*poem.Poem, error) {
	m.mu.RLock()
	entries := make([]*memEntry, 0, len(m.store))
	for _, e := range m.store {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	// newest first; insertion order breaks timestamp ties
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.poem.CreatedAt.Equal(b.poem.CreatedAt) {
			return a.poem.CreatedAt.After(b.poem.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*poem.Poem, 0, len(entries))
	for _, e := range entries {
		p := e.poem
		out = append(out, &p)
	}
	return out, nil
}

func (m *MemoryRepo) Update(_ context.Context, id primitive.ObjectID, patch poem.Patch) (*poem.Poem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	patch.Apply(&e.poem)
	p := e.poem
	return &p, nil
}

func (m *MemoryRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) Titles(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if e, ok := m.store[id]; ok {
			out[id] = e.poem.Title
		}
	}
	return out, nil
}
