package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/naksyetu/naksyetu-go/internal/domain"
)

// WatchResult is the outcome of watching one payment. TimedOut marks the
// ambiguous case: the record never reached a terminal state within the
// configured wait, and the caller should suggest checking back later rather
// than implying failure.
type WatchResult struct {
	Status   domain.PaymentStatus
	Receipt  string
	Reason   string
	TimedOut bool
}

// Watch observes a payment until it reaches a terminal state, the configured
// watch timeout elapses, or ctx is cancelled. It subscribes for push
// notifications and polls the record as a fallback, and releases the
// subscription exactly once on every exit path.
func (s *Service) Watch(ctx context.Context, paymentID uuid.UUID) (*WatchResult, error) {
	const op = "service.payment.Watch"

	p, err := s.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if p.Status.Terminal() {
		return resultOf(p), nil
	}

	changed := make(chan struct{}, 1)

	unsubscribe, err := s.sub.Subscribe(ctx, paymentID, func(st domain.PaymentStatus) {
		if st.Terminal() {
			select {
			case changed <- struct{}{}:
			default:
			}
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	defer unsubscribe()

	// the record may have gone terminal between Get and Subscribe
	if p, err = s.Get(ctx, paymentID); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if p.Status.Terminal() {
		return resultOf(p), nil
	}

	deadline := time.NewTimer(s.cfg.WatchTimeout)
	defer deadline.Stop()

	poll := time.NewTicker(s.cfg.PollInterval)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%s:%w", op, ctx.Err())
		case <-deadline.C:
			return &WatchResult{Status: domain.PaymentUnknown, TimedOut: true}, nil
		case <-changed:
		case <-poll.C:
		}

		p, err = s.Get(ctx, paymentID)
		if err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}

		if p.Status.Terminal() {
			return resultOf(p), nil
		}
	}
}

func resultOf(p *domain.Payment) *WatchResult {
	return &WatchResult{
		Status:  p.Status,
		Receipt: p.MpesaReceipt,
		Reason:  p.ErrorReason,
	}
}
