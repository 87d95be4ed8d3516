package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/naksyetu/naksyetu-go/internal/cart"
	"github.com/naksyetu/naksyetu-go/internal/domain"
)

// Step is the checkout step pointer. Forward movement requires the current
// step's validator to pass; backward movement never re-validates.
type Step string

const (
	StepReviewOrder    Step = "review_order"
	StepCoupon         Step = "coupon"
	StepPaymentDetails Step = "payment_details"
	StepConfirmation   Step = "confirmation"
)

var stepOrder = []Step{StepReviewOrder, StepCoupon, StepPaymentDetails, StepConfirmation}

func (s Step) index() int {
	for i, st := range stepOrder {
		if st == s {
			return i
		}
	}
	return 0
}

// EventInfo is the denormalized event snapshot kept on the session for
// display and for building the payment account reference.
type EventInfo struct {
	ID     int64     `json:"id"`
	Title  string    `json:"title"`
	Venue  string    `json:"venue"`
	Starts time.Time `json:"starts_at"`
}

// Session is the canonical checkout state, owned exclusively by the checkout
// service and persisted in Redis for the session TTL. Step components request
// mutations through the service; nothing else writes it.
type Session struct {
	ID    uuid.UUID  `json:"id"`
	Event EventInfo  `json:"event"`
	Order cart.Order `json:"order"`

	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	MpesaPhone     string `json:"mpesa_phone"`
	DeliveryMethod string `json:"delivery_method"`
	Authenticated  bool   `json:"authenticated"`

	CouponCode     string          `json:"coupon_code"`
	CouponDiscount decimal.Decimal `json:"coupon_discount"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Total    decimal.Decimal `json:"total"`

	Step                Step                 `json:"step"`
	PaymentStatus       domain.PaymentStatus `json:"payment_status"`
	PaymentID           *uuid.UUID           `json:"payment_id,omitempty"`
	ProviderRequestID   string               `json:"provider_request_id,omitempty"`
	PaymentReceipt      string               `json:"payment_receipt,omitempty"`
	PaymentError        string               `json:"payment_error,omitempty"`
	IsProcessingPayment bool                 `json:"is_processing_payment"`
	OrderID             *uuid.UUID           `json:"order_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSession(ev EventInfo) *Session {
	now := time.Now()
	return &Session{
		ID:             uuid.New(),
		Event:          ev,
		Order:          *cart.New(ev.ID),
		CouponDiscount: decimal.Zero,
		Subtotal:       decimal.Zero,
		Total:          decimal.Zero,
		Step:           StepReviewOrder,
		PaymentStatus:  domain.PaymentIdle,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// recalcTotals re-derives the money fields from the order and coupon state.
// The payable total is clamped at zero so a discount can never push it
// negative.
func (s *Session) recalcTotals() {
	s.Subtotal = s.Order.Subtotal()

	total := s.Subtotal.Sub(s.CouponDiscount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	s.Total = total
}

// initiated reports whether an STK push has been fired for this session.
// Once true, order mutations are locked and initiation must never repeat.
func (s *Session) initiated() bool {
	return s.PaymentID != nil
}

func (s *Session) locked() bool {
	return s.initiated() || s.IsProcessingPayment
}

// applyStatus records a watcher/callback-observed payment status. Terminal
// states absorb: once completed or failed has been recorded for an initiated
// payment, no further transition is accepted. Reports whether the session
// changed.
func (s *Session) applyStatus(st domain.PaymentStatus, receipt, reason string) bool {
	if s.PaymentStatus.Terminal() {
		return false
	}

	s.PaymentStatus = st
	if receipt != "" {
		s.PaymentReceipt = receipt
	}
	if reason != "" {
		s.PaymentError = reason
	}

	return true
}

// validate runs the given step's validation against the current session
// state. Validators are pure: they report field-keyed messages and never
// mutate the session.
func (s *Session) validate(step Step) map[string]string {
	errs := map[string]string{}

	switch step {
	case StepReviewOrder:
		if s.Order.Empty() {
			errs["tickets"] = "select at least one ticket"
		}
	case StepCoupon:
		// optional step, nothing to hold back
	case StepPaymentDetails:
		for k, v := range s.validateCustomer() {
			errs[k] = v
		}
		for k, v := range validatePhone(s.MpesaPhone) {
			errs[k] = v
		}
	}

	return errs
}

func (s *Session) validateCustomer() map[string]string {
	errs := map[string]string{}

	if s.CustomerName == "" {
		errs["customerName"] = "name is required"
	}

	if s.CustomerEmail == "" {
		errs["customerEmail"] = "email is required"
	} else if !emailRx.MatchString(s.CustomerEmail) {
		errs["customerEmail"] = "enter a valid email address"
	}

	return errs
}
