package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naksyetu/naksyetu-go/internal/cart"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
	"github.com/naksyetu/naksyetu-go/internal/repository/postgres"
	"github.com/naksyetu/naksyetu-go/internal/uow"
)

var ErrOrderNotFound = errors.New("order not found")

// Invalidator drops cached event state after the sold counters move.
type Invalidator interface {
	InvalidateEvent(ctx context.Context, eventID int64) error
}

type Service struct {
	store *postgres.Store
	uow   *uow.UoW
	cache Invalidator
}

func New(store *postgres.Store, u *uow.UoW, cache Invalidator) *Service {
	return &Service{store: store, uow: u, cache: cache}
}

// IssueRequest describes the order to issue for one completed payment.
type IssueRequest struct {
	PaymentID     uuid.UUID
	EventID       int64
	CustomerName  string
	CustomerEmail string
	Lines         []cart.LineItem
	Total         decimal.Decimal
}

// Issue creates the order and its tickets for a completed payment. The
// operation is idempotent per payment: a repeated callback finds the
// existing order and returns it instead of issuing twice.
//
// Returns:
//   - error: repository.ErrCapacityExceeded if the event oversold between
//     selection and issuance.
func (s *Service) Issue(ctx context.Context, req IssueRequest) (*domain.Order, error) {
	const op = "service.orders.Issue"

	if existing, err := s.store.Orders().GetByPayment(ctx, req.PaymentID); err == nil {
		return existing, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	o := &domain.Order{
		ID:            uuid.New(),
		PaymentID:     req.PaymentID,
		EventID:       req.EventID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Total:         req.Total,
		CreatedAt:     time.Now(),
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgres.DB, after func(uow.AfterCommit)) error {
		if err := s.store.Orders().With(tx).CreateWithTickets(ctx, o, req.Lines); err != nil {
			return err
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateEvent(ctx, req.EventID)
		})

		return nil
	})
	if err != nil {
		// a concurrent duplicate callback may have issued the order first
		if errors.Is(err, repository.ErrConflict) {
			if existing, gerr := s.store.Orders().GetByPayment(ctx, req.PaymentID); gerr == nil {
				return existing, nil
			}
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return o, nil
}

// Get retrieves an order with its tickets.
func (s *Service) Get(ctx context.Context, orderID uuid.UUID) (*domain.OrderWithTickets, error) {
	const op = "service.orders.Get"

	out, err := s.store.Orders().GetWithTickets(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// GetByPayment retrieves the order issued for a payment, if one exists.
func (s *Service) GetByPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Order, error) {
	const op = "service.orders.GetByPayment"

	o, err := s.store.Orders().GetByPayment(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrOrderNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return o, nil
}
