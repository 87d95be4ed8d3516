package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
	postgresrepo "github.com/naksyetu/naksyetu-go/internal/repository/postgres"
	redisrepo "github.com/naksyetu/naksyetu-go/internal/repository/redis"
)

type Config struct {
	SnapshotTTL     time.Duration
	AvailabilityTTL time.Duration
}

// Service serves the read side of the catalog: event snapshots for checkout
// and availability counts, both behind the Redis cache.
type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	cfg   Config
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.SnapshotTTL <= 0 {
		cfg.SnapshotTTL = 60 * time.Second
	}

	if cfg.AvailabilityTTL <= 0 {
		cfg.AvailabilityTTL = 15 * time.Second
	}

	return &Service{
		store: store,
		cache: cache,
		cfg:   cfg,
	}
}

// GetEventSnapshot retrieves an event with its ticket types, utilizing the
// caching layer. Checkout denormalizes this snapshot onto the session.
//
// Returns:
//   - *domain.EventSnapshot: the event with its ticket types.
//   - error: catalog.ErrEventNotFound if the event is not found.
func (s *Service) GetEventSnapshot(ctx context.Context, id int64) (*domain.EventSnapshot, error) {
	const op = "service.catalog.GetEventSnapshot"

	key := redisrepo.KeyEventSnapshot(id)

	snap, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.SnapshotTTL,
		func(ctx context.Context) (domain.EventSnapshot, error) {
			e, err := s.store.Catalog().GetEventSnapshot(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.EventSnapshot{}, ErrEventNotFound
				}

				return domain.EventSnapshot{}, err
			}

			return *e, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &snap, nil
}

// CountsByEvent retrieves the per-ticket-type and aggregate capacity counts
// for an event, utilizing the caching layer.
//
// Returns:
//   - *domain.EventCounts: per-type counters plus totals.
//   - error: catalog.ErrEventNotFound if the event is not found.
func (s *Service) CountsByEvent(ctx context.Context, eventID int64) (*domain.EventCounts, error) {
	const op = "service.catalog.CountsByEvent"

	key := redisrepo.KeyEventAvailability(eventID)

	counts, err := redisrepo.GetOrSetJSON(
		ctx,
		s.cache,
		key,
		s.cfg.AvailabilityTTL,
		func(ctx context.Context) (domain.EventCounts, error) {
			ec, err := s.store.Catalog().CountsByEvent(ctx, eventID)
			if err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					return domain.EventCounts{}, ErrEventNotFound
				}

				return domain.EventCounts{}, err
			}

			return *ec, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &counts, nil
}
