package auth

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrIdentityNotFound = errors.New("identity not found")

type Repository interface {
	GetIdentity(ctx context.Context, name string) (*Identity, error)
	// CreateIdentity inserts the identity unless one with the same name
	// exists. It reports whether a row was written.
	CreateIdentity(ctx context.Context, identity *Identity) (bool, error)
	// RecordFailure atomically increments the attempt counter and returns
	// the new value.
	RecordFailure(ctx context.Context, name string) (int, error)
	LockIdentity(ctx context.Context, name string, until time.Time) error
	ClearLockout(ctx context.Context, name string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetIdentity(ctx context.Context, name string) (*Identity, error) {
	var identity Identity
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&identity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIdentityNotFound
		}
		return nil, err
	}
	return &identity, nil
}

func (r *repository) CreateIdentity(ctx context.Context, identity *Identity) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(identity)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *repository) RecordFailure(ctx context.Context, name string) (int, error) {
	var attempts int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Identity{}).
			Where("name = ?", name).
			UpdateColumn("attempts", gorm.Expr("attempts + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrIdentityNotFound
		}

		return tx.Model(&Identity{}).
			Where("name = ?", name).
			Select("attempts").
			Scan(&attempts).Error
	})
	if err != nil {
		return 0, err
	}
	return attempts, nil
}

func (r *repository) LockIdentity(ctx context.Context, name string, until time.Time) error {
	return r.db.WithContext(ctx).Model(&Identity{}).
		Where("name = ?", name).
		UpdateColumn("block_until", until).Error
}

func (r *repository) ClearLockout(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).Model(&Identity{}).
		Where("name = ?", name).
		UpdateColumns(map[string]interface{}{
			"attempts":    0,
			"block_until": nil,
		}).Error
}
