package wish

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/elskow/naviwish/internal/config"
	"github.com/elskow/naviwish/internal/sanitize"
)

var ErrEmptyWish = errors.New("wish is empty")

type Service struct {
	config     *config.WishConfig
	log        *zap.Logger
	repository Repository
}

func NewService(config *config.WishConfig, log *zap.Logger, repo Repository) *Service {
	return &Service{
		config:     config,
		log:        log,
		repository: repo,
	}
}

// Add cleans text and stores it under owner.
func (s *Service) Add(ctx context.Context, owner, text string) (*Wish, error) {
	clean := sanitize.Clean(text, s.config.MaxLength)
	if clean == "" {
		return nil, ErrEmptyWish
	}

	w := &Wish{Name: owner, Text: clean}
	if err := s.repository.AddWish(ctx, w); err != nil {
		return nil, fmt.Errorf("add wish: %w", err)
	}

	s.log.Debug("wish added", zap.String("name", owner), zap.Uint("id", w.ID))
	return w, nil
}

func (s *Service) Delete(ctx context.Context, id uint, owner string) error {
	if err := s.repository.DeleteWish(ctx, id, owner); err != nil {
		return fmt.Errorf("delete wish %d: %w", id, err)
	}
	return nil
}

func (s *Service) List(ctx context.Context) ([]Wish, error) {
	wishes, err := s.repository.ListWishes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list wishes: %w", err)
	}
	return wishes, nil
}
