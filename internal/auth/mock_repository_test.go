package auth

import (
	"context"
	"errors"
	"sync"
	"time"
)

type mockRepository struct {
	identities map[string]*Identity
	mu         sync.RWMutex

	// err, when set, is returned by every call.
	err error
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		identities: make(map[string]*Identity),
	}
}

func (r *mockRepository) GetIdentity(_ context.Context, name string) (*Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.err != nil {
		return nil, r.err
	}

	identity, exists := r.identities[name]
	if !exists {
		return nil, ErrIdentityNotFound
	}

	// Clone the identity to prevent external modifications
	clone := *identity
	if identity.BlockUntil != nil {
		until := *identity.BlockUntil
		clone.BlockUntil = &until
	}
	return &clone, nil
}

func (r *mockRepository) CreateIdentity(_ context.Context, identity *Identity) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return false, r.err
	}
	if _, exists := r.identities[identity.Name]; exists {
		return false, nil
	}

	clone := *identity
	r.identities[identity.Name] = &clone
	return true, nil
}

func (r *mockRepository) RecordFailure(_ context.Context, name string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, err := r.find(name)
	if err != nil {
		return 0, err
	}
	identity.Attempts++
	return identity.Attempts, nil
}

func (r *mockRepository) LockIdentity(_ context.Context, name string, until time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, err := r.find(name)
	if err != nil {
		return err
	}
	identity.BlockUntil = &until
	return nil
}

func (r *mockRepository) ClearLockout(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	identity, err := r.find(name)
	if err != nil {
		return err
	}
	identity.Attempts = 0
	identity.BlockUntil = nil
	return nil
}

func (r *mockRepository) find(name string) (*Identity, error) {
	if r.err != nil {
		return nil, r.err
	}
	identity, exists := r.identities[name]
	if !exists {
		return nil, ErrIdentityNotFound
	}
	return identity, nil
}

func (r *mockRepository) snapshot(name string) Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return *r.identities[name]
}

var errStoreDown = errors.New("store unavailable")
