package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/elskow/naviwish/internal/config"
)

var (
	ErrMissingCredentials = errors.New("name and code are required")
	ErrNameNotAllowed     = errors.New("name not allowed")
	ErrWrongCode          = errors.New("wrong code")
	ErrLocked             = errors.New("identity locked")
)

// RefusalError describes a login refused by the lockout policy. Attempt is
// zero when the identity was already locked before this attempt.
type RefusalError struct {
	Attempt     int
	MaxAttempts int
	Locked      bool
	Remaining   time.Duration
}

func (e *RefusalError) Error() string {
	if e.Attempt == 0 {
		return fmt.Sprintf("identity locked for another %s", e.Remaining)
	}
	if e.Locked {
		return fmt.Sprintf("wrong code, attempt %d/%d, identity locked", e.Attempt, e.MaxAttempts)
	}
	return fmt.Sprintf("wrong code, attempt %d/%d", e.Attempt, e.MaxAttempts)
}

func (e *RefusalError) Unwrap() error {
	if e.Attempt == 0 {
		return ErrLocked
	}
	return ErrWrongCode
}

type Session struct {
	Name      string
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	config     *config.AuthConfig
	log        *zap.Logger
	repository Repository
	tokens     *TokenIssuer
	policy     Policy
	allowed    map[string]struct{}
	metrics    *Metrics
	now        func() time.Time
}

type Option func(*Service)

// WithClock replaces the time source used for lockout decisions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithMetrics(m *Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(config *config.AuthConfig, log *zap.Logger, repo Repository, tokens *TokenIssuer, opts ...Option) *Service {
	allowed := make(map[string]struct{}, len(config.AllowedNames))
	for _, name := range config.AllowedNames {
		allowed[strings.ToUpper(name)] = struct{}{}
	}

	s := &Service{
		config:     config,
		log:        log,
		repository: repo,
		tokens:     tokens,
		policy:     NewPolicy(config),
		allowed:    allowed,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) IsAllowed(name string) bool {
	_, ok := s.allowed[strings.ToUpper(name)]
	return ok
}

// Login runs one attempt through the lockout state machine and issues a
// session token on success. Name and code compare case-insensitively.
func (s *Service) Login(ctx context.Context, name, code string) (*Session, error) {
	name = strings.ToUpper(name)
	code = strings.ToUpper(code)

	if name == "" || code == "" {
		return nil, ErrMissingCredentials
	}
	if !s.IsAllowed(name) {
		s.metrics.observe(outcomeNotAllowed)
		return nil, ErrNameNotAllowed
	}

	now := s.now()

	identity, err := s.repository.GetIdentity(ctx, name)
	switch {
	case errors.Is(err, ErrIdentityNotFound):
		created, err := s.register(ctx, name, code)
		if err != nil {
			return nil, err
		}
		if created {
			s.log.Info("identity registered", zap.String("name", name))
			s.metrics.observe(outcomeRegistered)
			return s.issue(name)
		}

		// Lost a race with a concurrent first login; continue as a normal login.
		identity, err = s.repository.GetIdentity(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("get identity: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get identity: %w", err)
	}

	return s.authenticate(ctx, identity, code, now)
}

func (s *Service) authenticate(ctx context.Context, identity *Identity, code string, now time.Time) (*Session, error) {
	if s.policy.StateOf(identity, now) == StateLocked {
		s.metrics.observe(outcomeRefusedLocked)
		return nil, &RefusalError{
			MaxAttempts: s.policy.MaxAttempts,
			Locked:      true,
			Remaining:   s.policy.Remaining(identity, now),
		}
	}

	if s.checkCode(code, identity.Code) {
		if err := s.repository.ClearLockout(ctx, identity.Name); err != nil {
			return nil, fmt.Errorf("clear lockout: %w", err)
		}
		s.metrics.observe(outcomeGranted)
		return s.issue(identity.Name)
	}

	attempts, err := s.repository.RecordFailure(ctx, identity.Name)
	if err != nil {
		return nil, fmt.Errorf("record failure: %w", err)
	}

	refusal := &RefusalError{
		Attempt:     attempts,
		MaxAttempts: s.policy.MaxAttempts,
	}

	if until := s.policy.AfterFailure(attempts, now); until != nil {
		if err := s.repository.LockIdentity(ctx, identity.Name, *until); err != nil {
			return nil, fmt.Errorf("lock identity: %w", err)
		}
		refusal.Locked = true
		refusal.Remaining = until.Sub(now)

		s.log.Warn("identity locked",
			zap.String("name", identity.Name),
			zap.Int("attempts", attempts),
			zap.Time("until", *until))
		s.metrics.observe(outcomeLocked)
	} else {
		s.metrics.observe(outcomeWrongCode)
	}

	return nil, refusal
}

func (s *Service) register(ctx context.Context, name, code string) (bool, error) {
	hash, err := s.hashCode(code)
	if err != nil {
		return false, fmt.Errorf("hash code: %w", err)
	}

	created, err := s.repository.CreateIdentity(ctx, &Identity{
		Name: name,
		Code: hash,
	})
	if err != nil {
		return false, fmt.Errorf("create identity: %w", err)
	}
	return created, nil
}

func (s *Service) issue(name string) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(name)
	if err != nil {
		return nil, err
	}
	return &Session{
		Name:      name,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// Codes are pre-hashed with SHA-256 so bcrypt's 72 byte input limit never
// truncates them.
func (s *Service) hashCode(code string) (string, error) {
	cost := s.config.HashCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword(codeDigest(code), cost)
	return string(bytes), err
}

func (s *Service) checkCode(code, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), codeDigest(code)) == nil
}

func codeDigest(code string) []byte {
	sum := sha256.Sum256([]byte(strings.ToUpper(code)))
	return []byte(hex.EncodeToString(sum[:]))
}
