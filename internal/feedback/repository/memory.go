package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/poetbyte/poetbyte/backend/go-services/internal/feedback"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memEntry struct {
	fb  feedback.Feedback
	seq uint64
}

// MemoryRepo keeps feedback in process memory.
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

func (m *MemoryRepo) Create(_ context.Context, f *feedback.Feedback) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.ID = primitive.NewObjectID()
	f.CreatedAt = m.now()
	m.seq++
	m.store[f.ID] = &memEntry{fb: *f, seq: m.seq}
	return nil
}

func (m *MemoryRepo) List(_ context.Context, poemID *primitive.ObjectID) ([]*feedback.Feedback, error) {
	m.mu.RLock()
	entries := make([]*memEntry, 0, len(m.store))
	for _, e := range m.store {
		if poemID != nil && e.fb.PoemID != *poemID {
			continue
		}
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.fb.CreatedAt.Equal(b.fb.CreatedAt) {
			return a.fb.CreatedAt.After(b.fb.CreatedAt)
		}
		return a.seq > b.seq
	})
	out := make([]*feedback.Feedback, 0, len(entries))
	for _, e := range entries {
		f := e.fb
		out = append(out, &f)
	}
	return out, nil
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
