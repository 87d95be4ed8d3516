package cart

import (
	"fmt"

	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/shopspring/decimal"
)

// LineItem is one ticket type and its selected quantity within an order.
type LineItem struct {
	TicketTypeID int64           `json:"ticket_type_id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
}

// Order is the in-memory shopping selection for one event. Items keep
// insertion order and there is at most one line item per ticket type; a
// quantity of zero means the line is logically absent.
type Order struct {
	EventID int64      `json:"event_id"`
	Items   []LineItem `json:"line_items"`
}

type CapacityExceededError struct {
	TicketTypeID int64
	Requested    int
	Available    int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf(
		"ticket type %d: requested %d, only %d available",
		e.TicketTypeID, e.Requested, e.Available,
	)
}

func New(eventID int64) *Order {
	return &Order{EventID: eventID}
}

// Adjust changes the quantity for the given ticket type by delta, clamping
// at zero. A ticket type not yet present is inserted when delta is positive.
// Incrementing past the type's availability returns *CapacityExceededError
// and leaves the order unchanged.
func (o *Order) Adjust(tt domain.TicketType, delta int) error {
	idx := o.find(tt.ID)

	current := 0
	if idx >= 0 {
		current = o.Items[idx].Quantity
	}

	next := current + delta
	if next < 0 {
		next = 0
	}

	// Only increments are capacity-checked. A decrement must always succeed,
	// even when other buyers have since pushed availability below the
	// quantity already held here.
	if next > current && next > tt.Available() {
		return &CapacityExceededError{
			TicketTypeID: tt.ID,
			Requested:    next,
			Available:    tt.Available(),
		}
	}

	if idx >= 0 {
		o.Items[idx].Quantity = next
		return nil
	}

	if next > 0 {
		o.Items = append(o.Items, LineItem{
			TicketTypeID: tt.ID,
			Name:         tt.Name,
			UnitPrice:    tt.Price,
			Quantity:     next,
		})
	}

	return nil
}

// Remove zeroes the quantity for the given ticket type.
func (o *Order) Remove(ticketTypeID int64) {
	if idx := o.find(ticketTypeID); idx >= 0 {
		o.Items[idx].Quantity = 0
	}
}

// Quantity returns the selected quantity for the given ticket type.
func (o *Order) Quantity(ticketTypeID int64) int {
	if idx := o.find(ticketTypeID); idx >= 0 {
		return o.Items[idx].Quantity
	}
	return 0
}

// Lines returns the active line items (quantity > 0) in insertion order.
func (o *Order) Lines() []LineItem {
	out := make([]LineItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Quantity > 0 {
			out = append(out, it)
		}
	}
	return out
}

// Subtotal sums unitPrice*quantity over the line items. The result is exact;
// rounding to two decimal places happens only at display time.
func (o *Order) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		if it.Quantity > 0 {
			total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
		}
	}
	return total
}

// TotalQuantity returns the number of tickets selected across all types.
func (o *Order) TotalQuantity() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// Empty reports whether no tickets are selected.
func (o *Order) Empty() bool {
	return o.TotalQuantity() == 0
}

func (o *Order) find(ticketTypeID int64) int {
	for i := range o.Items {
		if o.Items[i].TicketTypeID == ticketTypeID {
			return i
		}
	}
	return -1
}
