package admin

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
	postgresrepo "github.com/naksyetu/naksyetu-go/internal/repository/postgres"
	redisrepo "github.com/naksyetu/naksyetu-go/internal/repository/redis"
	"github.com/naksyetu/naksyetu-go/internal/uow"
)

type Service struct {
	store *postgresrepo.Store
	cache *redisrepo.Cache
	uow   *uow.UoW
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache) *Service {
	return &Service{
		store: store,
		cache: cache,
		uow:   uow.NewUoW(store),
	}
}

// CreateEvent creates an event and its ticket types within one transactional
// Unit of Work.
//
// Returns:
//   - int64: the created event ID.
//   - error: admin.ErrEventConflict on a uniqueness violation.
func (s *Service) CreateEvent(
	ctx context.Context,
	title, venue string,
	starts, ends time.Time,
	ticketTypes []domain.TicketType,
) (int64, error) {
	const op = "service.admin.CreateEvent"

	var eventID int64

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		eventID, err = s.store.Catalog().With(tx).CreateEvent(ctx, title, venue, starts, ends)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrEventConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}

		for _, tt := range ticketTypes {
			tt.EventID = eventID
			if _, err := s.store.Catalog().With(tx).CreateTicketType(ctx, tt); err != nil {
				return fmt.Errorf("%s: %w", op, err)
			}
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateEvent(ctx, eventID)
		})
		return nil
	})

	return eventID, err
}

// CreateTicketType adds a ticket type to an existing event.
//
// Returns:
//   - int64: the created ticket type ID.
//   - error: admin.ErrEventNotFound if the event does not exist.
func (s *Service) CreateTicketType(ctx context.Context, tt domain.TicketType) (int64, error) {
	const op = "service.admin.CreateTicketType"

	if _, err := s.store.Catalog().GetEvent(ctx, tt.EventID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%s: %w", op, ErrEventNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Catalog().With(tx).CreateTicketType(ctx, tt)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateEvent(ctx, tt.EventID)
		})
		return nil
	})

	return id, err
}

// CreateCoupon registers a discount rule. Codes are matched
// case-insensitively at application time, so uniqueness is enforced on the
// lowercased code.
//
// Returns:
//   - int64: the created coupon ID.
//   - error: admin.ErrCouponConflict if the code already exists.
func (s *Service) CreateCoupon(ctx context.Context, c domain.Coupon) (int64, error) {
	const op = "service.admin.CreateCoupon"

	var id int64
	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		var err error
		id, err = s.store.Coupons().With(tx).Create(ctx, c)
		if err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("%s: %w", op, ErrCouponConflict)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	})

	return id, err
}
