package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naksyetu/naksyetu-go/internal/daraja"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
	"github.com/naksyetu/naksyetu-go/internal/service/catalog"
	"github.com/naksyetu/naksyetu-go/internal/service/coupon"
	"github.com/naksyetu/naksyetu-go/internal/service/orders"
	"github.com/naksyetu/naksyetu-go/internal/service/payment"
)

// Catalog supplies event snapshots with current ticket-type availability.
type Catalog interface {
	GetEventSnapshot(ctx context.Context, eventID int64) (*domain.EventSnapshot, error)
}

// Sessions persists checkout state for the session TTL.
type Sessions interface {
	Save(ctx context.Context, sessionID string, v any) error
	Load(ctx context.Context, sessionID string, dst any) (bool, error)
	Delete(ctx context.Context, sessionID string) error
}

// CouponResolver validates a code against the current subtotal.
type CouponResolver interface {
	Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*coupon.Result, error)
}

// Payments fronts STK push initiation and the authoritative payment record.
type Payments interface {
	Initiate(ctx context.Context, req payment.InitiateRequest) (*domain.Payment, error)
	ApplyCallback(ctx context.Context, cb *daraja.CallbackResult) (*domain.Payment, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
}

// OrderIssuer turns a completed payment into an order with tickets.
type OrderIssuer interface {
	Issue(ctx context.Context, req orders.IssueRequest) (*domain.Order, error)
}

// Service is the checkout orchestrator. It owns the canonical Session,
// sequences the steps, and is the only writer of session state. Mutations
// for one session are serialized through a per-session lock.
type Service struct {
	catalog  Catalog
	sessions Sessions
	coupons  CouponResolver
	payments Payments
	issuer   OrderIssuer
	log      *slog.Logger

	locks sync.Map // session id -> *sync.Mutex
}

func New(
	catalog Catalog,
	sessions Sessions,
	coupons CouponResolver,
	payments Payments,
	issuer OrderIssuer,
	log *slog.Logger,
) *Service {
	if log == nil {
		log = slog.Default()
	}

	return &Service{
		catalog:  catalog,
		sessions: sessions,
		coupons:  coupons,
		payments: payments,
		issuer:   issuer,
		log:      log,
	}
}

func (s *Service) lockFor(id uuid.UUID) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Create starts a checkout session for one event. The event snapshot is
// denormalized onto the session for display and for the payment account
// reference.
func (s *Service) Create(ctx context.Context, eventID int64) (*Session, error) {
	const op = "service.checkout.Create"

	snap, err := s.catalog.GetEventSnapshot(ctx, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, catalog.ErrEventNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrEventNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	sess := newSession(EventInfo{
		ID:     snap.ID,
		Title:  snap.Title,
		Venue:  snap.Venue,
		Starts: snap.Starts,
	})

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// Get loads a session.
//
// Returns:
//   - error: checkout.ErrSessionNotFound if the session does not exist or
//     its TTL expired.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	const op = "service.checkout.Get"

	var sess Session
	ok, err := s.sessions.Load(ctx, id.String(), &sess)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrSessionNotFound)
	}

	return &sess, nil
}

// AdjustTicket changes a line item quantity by delta, guarding against the
// ticket type's current availability. When a coupon is applied, its discount
// is recomputed from the new subtotal; a coupon the new subtotal no longer
// qualifies for is dropped.
func (s *Service) AdjustTicket(ctx context.Context, sessionID uuid.UUID, ticketTypeID int64, delta int) (*Session, error) {
	const op = "service.checkout.AdjustTicket"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.locked() {
		return nil, fmt.Errorf("%s:%w", op, ErrCheckoutLocked)
	}

	snap, err := s.catalog.GetEventSnapshot(ctx, sess.Event.ID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	tt, ok := findTicketType(snap, ticketTypeID)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, ErrTicketTypeNotFound)
	}

	if err := sess.Order.Adjust(tt, delta); err != nil {
		return nil, err
	}

	if err := s.refreshCoupon(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	sess.recalcTotals()

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// RemoveTicket zeroes a line item and recomputes totals and coupon state.
func (s *Service) RemoveTicket(ctx context.Context, sessionID uuid.UUID, ticketTypeID int64) (*Session, error) {
	const op = "service.checkout.RemoveTicket"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.locked() {
		return nil, fmt.Errorf("%s:%w", op, ErrCheckoutLocked)
	}

	sess.Order.Remove(ticketTypeID)

	if err := s.refreshCoupon(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	sess.recalcTotals()

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// CustomerInfo is the delivery identity for the checkout. Authenticated
// sessions carry identity-provider prefill; guests type the fields in.
type CustomerInfo struct {
	Name           string
	Email          string
	Phone          string
	DeliveryMethod string
	Authenticated  bool
}

// SetCustomer records customer info on the session. Name and email shape
// are validated immediately; failures are field-keyed and block nothing but
// forward navigation.
func (s *Service) SetCustomer(ctx context.Context, sessionID uuid.UUID, info CustomerInfo) (*Session, error) {
	const op = "service.checkout.SetCustomer"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.locked() {
		return nil, fmt.Errorf("%s:%w", op, ErrCheckoutLocked)
	}

	sess.CustomerName = info.Name
	sess.CustomerEmail = info.Email
	sess.DeliveryMethod = info.DeliveryMethod
	sess.Authenticated = info.Authenticated
	if info.Phone != "" {
		sess.MpesaPhone = info.Phone
	}

	if errs := sess.validateCustomer(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// ApplyCoupon validates a code against the current subtotal and records the
// discount. Rejections pass through as *coupon.RejectedError and leave the
// session untouched.
func (s *Service) ApplyCoupon(ctx context.Context, sessionID uuid.UUID, code string) (*Session, error) {
	const op = "service.checkout.ApplyCoupon"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.locked() {
		return nil, fmt.Errorf("%s:%w", op, ErrCheckoutLocked)
	}

	res, err := s.coupons.Apply(ctx, code, sess.Order.Subtotal())
	if err != nil {
		return nil, err
	}

	sess.CouponCode = res.Coupon.Code
	sess.CouponDiscount = res.Discount
	sess.recalcTotals()

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// RemoveCoupon resets the discount to zero and restores the full total.
func (s *Service) RemoveCoupon(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	const op = "service.checkout.RemoveCoupon"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.locked() {
		return nil, fmt.Errorf("%s:%w", op, ErrCheckoutLocked)
	}

	sess.CouponCode = ""
	sess.CouponDiscount = decimal.Zero
	sess.recalcTotals()

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// Advance moves to the next step if the current step validates. The
// payment_details step cannot be advanced here; its forward transition is
// the initiation call itself.
func (s *Service) Advance(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	const op = "service.checkout.Advance"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch sess.Step {
	case StepConfirmation:
		return sess, nil
	case StepPaymentDetails:
		return nil, fmt.Errorf("%s:%w", op, ErrInitiateRequired)
	}

	if errs := sess.validate(sess.Step); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	sess.Step = stepOrder[sess.Step.index()+1]

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// Back moves to the previous step. Backward movement is always permitted
// and never re-validates; at the first step it is a no-op.
func (s *Service) Back(ctx context.Context, sessionID uuid.UUID) (*Session, error) {
	const op = "service.checkout.Back"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if idx := sess.Step.index(); idx > 0 {
		sess.Step = stepOrder[idx-1]

		if err := s.save(ctx, sess); err != nil {
			return nil, fmt.Errorf("%s:%w", op, err)
		}
	}

	return sess, nil
}

// Initiate fires the STK push for the session and advances to confirmation
// once the gateway responds. The per-session lock plus the
// IsProcessingPayment flag make the push at-most-once per session: a session
// that already holds a payment id reattaches to it and never re-initiates.
//
// Returns:
//   - *Session: with Step confirmation and status pending on success.
//   - error: *ValidationError when preconditions fail.
//   - error: *payment.InitiationError when the gateway rejected the push;
//     the session stays on payment_details with the pay action re-enabled.
func (s *Service) Initiate(ctx context.Context, sessionID uuid.UUID, phone string) (*Session, error) {
	const op = "service.checkout.Initiate"

	mu := s.lockFor(sessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if sess.initiated() {
		// reattach: the push already went out, repeating it would put a
		// second prompt on the payer's phone
		return sess, nil
	}

	if sess.IsProcessingPayment {
		return nil, fmt.Errorf("%s:%w", op, ErrInitiationInFlight)
	}

	// initiation is the payment_details -> confirmation transition; the
	// earlier steps must have been advanced through first
	if sess.Step != StepPaymentDetails {
		return nil, fmt.Errorf("%s:%w", op, ErrNotAtPaymentStep)
	}

	if phone != "" {
		sess.MpesaPhone = phone
	}

	errs := sess.validate(StepReviewOrder)
	for k, v := range sess.validate(StepPaymentDetails) {
		errs[k] = v
	}
	if len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}

	sess.IsProcessingPayment = true
	sess.PaymentStatus = domain.PaymentInitiating
	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	p, err := s.payments.Initiate(ctx, payment.InitiateRequest{
		SessionID:     sess.ID,
		EventID:       sess.Event.ID,
		EventTitle:    sess.Event.Title,
		Phone:         sess.MpesaPhone,
		Amount:        sess.Total,
		CustomerName:  sess.CustomerName,
		CustomerEmail: sess.CustomerEmail,
	})
	if err != nil {
		sess.IsProcessingPayment = false

		var ierr *payment.InitiationError
		switch {
		case errors.As(err, &ierr):
			// the record is marked failed; the user may retry explicitly
			sess.PaymentStatus = domain.PaymentFailed
			sess.PaymentError = ierr.Error()
		case p != nil:
			// the push went out but the record could not be promoted; keep
			// the payment attached so a second prompt can never fire
			sess.PaymentID = &p.ID
			sess.ProviderRequestID = p.ProviderRequestID
			sess.PaymentStatus = domain.PaymentUnknown
			sess.PaymentError = "payment status could not be confirmed"
		default:
			sess.PaymentStatus = domain.PaymentIdle
		}

		if serr := s.save(ctx, sess); serr != nil {
			s.log.Error("saving session after failed initiation", "session_id", sess.ID, "error", serr)
		}

		return nil, err
	}

	sess.IsProcessingPayment = false
	sess.PaymentID = &p.ID
	sess.ProviderRequestID = p.ProviderRequestID
	sess.PaymentStatus = domain.PaymentPending
	sess.PaymentError = ""
	sess.Step = StepConfirmation

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return sess, nil
}

// CompleteFromCallback applies the gateway's verdict to the payment record
// and the session, and issues the order when the payment completed. The
// backend is the sole writer of payment outcomes; a duplicate callback is
// absorbed by the terminal state.
func (s *Service) CompleteFromCallback(ctx context.Context, cb *daraja.CallbackResult) (*domain.Payment, error) {
	const op = "service.checkout.CompleteFromCallback"

	p, err := s.payments.ApplyCallback(ctx, cb)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	mu := s.lockFor(p.SessionID)
	mu.Lock()
	defer mu.Unlock()

	sess, err := s.Get(ctx, p.SessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			// the session TTL expired while the prompt sat on the payer's
			// phone; the payment record still carries the receipt
			s.log.Warn("callback for expired session", "payment_id", p.ID, "session_id", p.SessionID)
			return p, nil
		}

		return nil, err
	}

	if !sess.applyStatus(p.Status, p.MpesaReceipt, p.ErrorReason) {
		return p, nil
	}

	if p.Status == domain.PaymentCompleted {
		o, err := s.issuer.Issue(ctx, orders.IssueRequest{
			PaymentID:     p.ID,
			EventID:       sess.Event.ID,
			CustomerName:  sess.CustomerName,
			CustomerEmail: sess.CustomerEmail,
			Lines:         sess.Order.Lines(),
			Total:         sess.Total,
		})
		if err != nil {
			s.log.Error("issuing order for completed payment", "payment_id", p.ID, "error", err)
		} else {
			sess.OrderID = &o.ID
		}
	}

	if err := s.save(ctx, sess); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return p, nil
}

// refreshCoupon recomputes the applied coupon against the current subtotal.
// Discounts always derive from the subtotal as it stands now, never from
// the subtotal at application time. A coupon the order no longer qualifies
// for is dropped.
func (s *Service) refreshCoupon(ctx context.Context, sess *Session) error {
	if sess.CouponCode == "" {
		return nil
	}

	res, err := s.coupons.Apply(ctx, sess.CouponCode, sess.Order.Subtotal())
	if err != nil {
		var rej *coupon.RejectedError
		if errors.As(err, &rej) {
			sess.CouponCode = ""
			sess.CouponDiscount = decimal.Zero
			return nil
		}

		return err
	}

	sess.CouponDiscount = res.Discount
	return nil
}

func (s *Service) save(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now()
	return s.sessions.Save(ctx, sess.ID.String(), sess)
}

func findTicketType(snap *domain.EventSnapshot, id int64) (domain.TicketType, bool) {
	for _, tt := range snap.TicketTypes {
		if tt.ID == id {
			return tt, true
		}
	}
	return domain.TicketType{}, false
}
