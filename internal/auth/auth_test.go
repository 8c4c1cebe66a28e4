package auth

import (
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/elskow/naviwish/internal/config"
)

func newTestLogger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}

func newTestConfig() *config.AuthConfig {
	return &config.AuthConfig{
		JWTSecret:         "test-secret-key",
		TokenExpiration:   10 * time.Minute,
		AllowedNames:      []string{"NESTOR", "KEYKA", "MARIA"},
		MaxFailedAttempts: 3,
		LockoutDuration:   2 * time.Minute,
		MaxInputLength:    255,
		HashCost:          bcrypt.MinCost,
	}
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 12, 20, 18, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestService(t *testing.T) (*Service, *mockRepository, *fakeClock) {
	t.Helper()
	repo := newMockRepository()
	clock := newFakeClock()
	cfg := newTestConfig()
	svc := NewService(cfg, newTestLogger(t), repo, NewTokenIssuer(cfg), WithClock(clock.Now))
	return svc, repo, clock
}
