package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentIdle       PaymentStatus = "idle"
	PaymentInitiating PaymentStatus = "initiating"
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentUnknown    PaymentStatus = "unknown"
)

// Terminal reports whether no further status transition is accepted.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentCompleted || s == PaymentFailed
}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

type Event struct {
	ID     int64
	Title  string
	Venue  string
	Starts time.Time
	Ends   time.Time
}

type TicketType struct {
	ID       int64
	EventID  int64
	Name     string
	Price    decimal.Decimal
	Capacity int
	Sold     int
}

// Available returns the number of tickets still purchasable for this type.
func (t TicketType) Available() int {
	if n := t.Capacity - t.Sold; n > 0 {
		return n
	}
	return 0
}

type EventSnapshot struct {
	Event
	TicketTypes []TicketType
}

// TicketTypeCounts is the availability counter for one ticket type.
type TicketTypeCounts struct {
	TicketTypeID int64
	Capacity     int
	Sold         int
	Left         int
}

// EventCounts aggregates the per-ticket-type counters for one event.
type EventCounts struct {
	Capacity int
	Sold     int
	Left     int
	PerType  []TicketTypeCounts
}

// CountsOf builds the availability counters over the given ticket types.
func CountsOf(tts []TicketType) EventCounts {
	var ec EventCounts
	for _, tt := range tts {
		tc := TicketTypeCounts{
			TicketTypeID: tt.ID,
			Capacity:     tt.Capacity,
			Sold:         tt.Sold,
			Left:         tt.Available(),
		}

		ec.Capacity += tc.Capacity
		ec.Sold += tc.Sold
		ec.Left += tc.Left
		ec.PerType = append(ec.PerType, tc)
	}

	return ec
}

type Coupon struct {
	ID             int64
	Code           string
	DiscountType   DiscountType
	DiscountValue  decimal.Decimal
	MinOrderAmount decimal.Decimal
	ExpiresAt      *time.Time
}

// Expired reports whether the coupon is past its expiry at the given time.
// A coupon without an expiry never expires.
func (c Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && now.After(*c.ExpiresAt)
}

// Payment is the authoritative record of one STK push, owned by the backend.
// Clients only ever read it; status changes come from the gateway callback.
type Payment struct {
	ID                uuid.UUID
	SessionID         uuid.UUID
	EventID           int64
	Phone             string
	Amount            decimal.Decimal
	AccountRef        string
	Status            PaymentStatus
	MpesaReceipt      string
	ErrorReason       string
	ProviderRequestID string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// PaymentLogEntry is one row of the append-only status-change log.
type PaymentLogEntry struct {
	ID        int64
	PaymentID uuid.UUID
	Status    PaymentStatus
	Detail    string
	CreatedAt time.Time
}

type Order struct {
	ID            uuid.UUID
	PaymentID     uuid.UUID
	EventID       int64
	CustomerName  string
	CustomerEmail string
	Total         decimal.Decimal
	CreatedAt     time.Time
}

type Ticket struct {
	ID           uuid.UUID
	OrderID      uuid.UUID
	TicketTypeID int64
	CreatedAt    time.Time
}

type OrderWithTickets struct {
	Order   Order
	Tickets []Ticket
}
