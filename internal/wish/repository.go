package wish

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	// AddWish stores w, assigning its ID and CreatedAt.
	AddWish(ctx context.Context, w *Wish) error
	// DeleteWish removes the wish only when it belongs to owner. Deleting
	// nothing is not an error.
	DeleteWish(ctx context.Context, id uint, owner string) error
	// ListWishes returns every wish ordered by owner name, newest first
	// within each owner.
	ListWishes(ctx context.Context) ([]Wish, error)
}

type repository struct {
	db  *gorm.DB
	now func() time.Time
}

type RepositoryOption func(*repository)

// WithClock replaces the time source used for created_at.
func WithClock(now func() time.Time) RepositoryOption {
	return func(r *repository) {
		r.now = now
	}
}

func NewRepository(db *gorm.DB, opts ...RepositoryOption) Repository {
	r := &repository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *repository) AddWish(ctx context.Context, w *Wish) error {
	w.ID = 0
	w.CreatedAt = r.now().UTC()
	return r.db.WithContext(ctx).Create(w).Error
}

func (r *repository) DeleteWish(ctx context.Context, id uint, owner string) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND name = ?", id, owner).
		Delete(&Wish{}).Error
}

func (r *repository) ListWishes(ctx context.Context) ([]Wish, error) {
	wishes := make([]Wish, 0)
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Order("created_at DESC").
		Order("id DESC").
		Find(&wishes).Error
	if err != nil {
		return nil, err
	}
	return wishes, nil
}
