package db

import (
	"context"
	"sort"
	"sync"

	"github.com/mithrel/aicode/pkg/api"
)

type memStore struct {
	mu   sync.RWMutex
	byID map[string]api.Review
}

func newMemStore() *memStore {
	return &memStore{byID: make(map[string]api.Review)}
}

func (m *memStore) SaveReview(ctx context.Context, r api.Review) (api.Review, error) {
	r = prepare(r)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[r.ID]; ok {
		return api.Review{}, ErrConflict
	}
	m.byID[r.ID] = r
	return r, nil
}

func (m *memStore) GetReview(ctx context.Context, id string) (api.Review, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.byID[id]
	if !ok {
		return api.Review{}, ErrNotFound
	}
	return r, nil
}

func (m *memStore) ListReviews(ctx context.Context, q api.ListQuery) ([]api.Review, error) {
	m.mu.RLock()
	out := make([]api.Review, 0, len(m.byID))
	for _, r := range m.byID {
		if !q.Since.IsZero() && r.CreatedAt.Before(q.Since) {
			continue
		}
		if !q.Until.IsZero() && r.CreatedAt.After(q.Until) {
			continue
		}
		out = append(out, r)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit := listLimit(q.Limit); len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) DeleteReview(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return ErrNotFound
	}
	delete(m.byID, id)
	return nil
}
