package wish

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"
)

var errStoreDown = errors.New("store unavailable")

type mockRepository struct {
	wishes []Wish
	nextID uint
	now    func() time.Time
	mu     sync.Mutex
	err    error
}

func newMockRepository() *mockRepository {
	base := time.Date(2025, 12, 1, 12, 0, 0, 0, time.UTC)
	var tick time.Duration
	return &mockRepository{
		now: func() time.Time {
			tick += time.Second
			return base.Add(tick)
		},
	}
}

func (r *mockRepository) AddWish(_ context.Context, w *Wish) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	r.nextID++
	w.ID = r.nextID
	w.CreatedAt = r.now()
	r.wishes = append(r.wishes, *w)
	return nil
}

func (r *mockRepository) DeleteWish(_ context.Context, id uint, owner string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	for i, w := range r.wishes {
		if w.ID == id && w.Name == owner {
			r.wishes = append(r.wishes[:i], r.wishes[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *mockRepository) ListWishes(_ context.Context) ([]Wish, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	out := append([]Wish(nil), r.wishes...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *mockRepository) contains(id uint) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, w := range r.wishes {
		if w.ID == id {
			return true
		}
	}
	return false
}
