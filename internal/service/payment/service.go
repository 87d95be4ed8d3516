package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/naksyetu/naksyetu-go/internal/daraja"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
	"github.com/shopspring/decimal"
)

// Gateway initiates an STK push. The push is single-shot: a failed initiation
// is never retried automatically, since a retry would fire a second prompt on
// the payer's phone.
type Gateway interface {
	STKPush(
		ctx context.Context,
		phone string,
		amount decimal.Decimal,
		accountRef, description string,
	) (*daraja.STKPushResponse, error)
}

// Records is the authoritative payment record store. The backend is the sole
// writer of payment outcomes; clients only read.
type Records interface {
	Create(ctx context.Context, p *domain.Payment) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error)
	SetPending(ctx context.Context, id uuid.UUID, providerRef string) error
	SetProcessing(ctx context.Context, id uuid.UUID, detail string) error
	SetTerminal(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, receipt, reason string) error
	Logs(ctx context.Context, id uuid.UUID) ([]domain.PaymentLogEntry, error)
}

// Notifier broadcasts a payment status change to watchers.
type Notifier interface {
	PublishPaymentChanged(ctx context.Context, paymentID uuid.UUID, status domain.PaymentStatus) error
}

// Subscriber delivers payment status changes for one payment until the
// returned unsubscribe handle is called.
type Subscriber interface {
	Subscribe(ctx context.Context, paymentID uuid.UUID, onChange func(domain.PaymentStatus)) (func(), error)
}

type Config struct {
	AccountPrefix string
	WatchTimeout  time.Duration
	PollInterval  time.Duration
}

type Service struct {
	gw       Gateway
	records  Records
	notifier Notifier
	sub      Subscriber
	cfg      Config
}

func New(gw Gateway, records Records, notifier Notifier, sub Subscriber, cfg Config) *Service {
	if cfg.AccountPrefix == "" {
		cfg.AccountPrefix = "NAKSYETU"
	}

	if cfg.WatchTimeout <= 0 {
		cfg.WatchTimeout = 90 * time.Second
	}

	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}

	return &Service{
		gw:       gw,
		records:  records,
		notifier: notifier,
		sub:      sub,
		cfg:      cfg,
	}
}

// InitiateRequest carries everything needed to trigger one STK push.
type InitiateRequest struct {
	SessionID     uuid.UUID
	EventID       int64
	EventTitle    string
	Phone         string
	Amount        decimal.Decimal
	CustomerName  string
	CustomerEmail string
}

// Initiate validates preconditions, writes an initiating payment record,
// fires the STK push, and promotes the record to pending with the gateway's
// request reference. The record exists before the push goes out, so a prompt
// can never reach the payer's phone without a record tracking it.
// Preconditions are checked before any write: an invalid phone or
// non-positive amount never creates a record and never reaches the gateway.
//
// Returns:
//   - *domain.Payment: the pending record on success.
//   - error: *ValidationError when a precondition fails (no record, no
//     gateway call).
//   - error: *InitiationError when the gateway rejected the push; the record
//     is marked failed.
//   - *domain.Payment and error: when the push went out but the record could
//     not be promoted to pending. The caller must keep hold of the payment
//     instead of initiating again.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*domain.Payment, error) {
	const op = "service.payment.Initiate"

	phone, err := NormalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	if !req.Amount.IsPositive() {
		return nil, &ValidationError{Fields: map[string]string{
			"amount": "amount must be greater than zero",
		}}
	}

	accountRef := s.accountReference(req.EventID)

	p := &domain.Payment{
		ID:         uuid.New(),
		SessionID:  req.SessionID,
		EventID:    req.EventID,
		Phone:      phone,
		Amount:     req.Amount,
		AccountRef: accountRef,
		Status:     domain.PaymentInitiating,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}

	if err := s.records.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	resp, err := s.gw.STKPush(ctx, phone, req.Amount, accountRef, req.EventTitle)
	if err != nil {
		ierr := &InitiationError{}
		var apiErr *daraja.APIError
		if errors.As(err, &apiErr) {
			ierr.Reason = apiErr.ErrorMessage
			ierr.Code = apiErr.ErrorCode
		}

		// best effort: an initiating record that cannot be marked failed is
		// still terminal for the caller
		_ = s.records.SetTerminal(ctx, p.ID, domain.PaymentFailed, "", ierr.Error())

		return nil, ierr
	}

	if err := s.records.SetPending(ctx, p.ID, resp.CheckoutRequestID); err != nil {
		// the prompt is already on the payer's phone; hand the record back
		// so the caller holds on to it instead of firing a second push
		p.Status = domain.PaymentUnknown
		p.ProviderRequestID = resp.CheckoutRequestID
		return p, fmt.Errorf("%s:%w", op, err)
	}

	p.Status = domain.PaymentPending
	p.ProviderRequestID = resp.CheckoutRequestID

	return p, nil
}

// Get retrieves a payment record.
//
// Returns:
//   - error: payment.ErrPaymentNotFound if the record does not exist.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	const op = "service.payment.Get"

	p, err := s.records.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrPaymentNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return p, nil
}

// ApplyCallback records the gateway's verdict for one push and notifies
// watchers. Terminal states absorb: a duplicate callback for an already
// terminal payment is ignored and the stored record returned unchanged.
//
// Returns:
//   - *domain.Payment: the record after the update.
//   - error: payment.ErrPaymentNotFound for an unknown provider reference.
func (s *Service) ApplyCallback(ctx context.Context, cb *daraja.CallbackResult) (*domain.Payment, error) {
	const op = "service.payment.ApplyCallback"

	p, err := s.records.GetByProviderRef(ctx, cb.CheckoutRequestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrPaymentNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	// best effort: records callback receipt in the log and moves a pending
	// payment to processing before the terminal write
	_ = s.records.SetProcessing(ctx, p.ID, "gateway callback received")

	status := domain.PaymentFailed
	receipt := ""
	reason := cb.ResultDesc
	if cb.Success {
		status = domain.PaymentCompleted
		receipt = cb.Receipt
		reason = ""
	}

	if err := s.records.SetTerminal(ctx, p.ID, status, receipt, reason); err != nil {
		if errors.Is(err, repository.ErrPaymentTerminal) {
			return p, nil
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if s.notifier != nil {
		_ = s.notifier.PublishPaymentChanged(ctx, p.ID, status)
	}

	updated, err := s.records.Get(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return updated, nil
}

// Logs returns the append-only status-change log for a payment, oldest
// first.
func (s *Service) Logs(ctx context.Context, id uuid.UUID) ([]domain.PaymentLogEntry, error) {
	const op = "service.payment.Logs"

	entries, err := s.records.Logs(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrPaymentNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return entries, nil
}

func (s *Service) accountReference(eventID int64) string {
	// the gateway truncates references past 12 characters, so we do it first
	ref := fmt.Sprintf("%s-%d", s.cfg.AccountPrefix, eventID)
	if len(ref) > 12 {
		ref = ref[:12]
	}
	return ref
}
