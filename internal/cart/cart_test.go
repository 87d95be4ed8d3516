package cart

import (
	"testing"

	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ticketType(id int64, price int64, capacity, sold int) domain.TicketType {
	return domain.TicketType{
		ID:       id,
		EventID:  1,
		Name:     "type",
		Price:    decimal.NewFromInt(price),
		Capacity: capacity,
		Sold:     sold,
	}
}

func TestSubtotalTwoLineItems(t *testing.T) {
	ga := ticketType(1, 1500, 100, 0)
	vip := ticketType(2, 3000, 20, 0)

	o := New(1)
	require.NoError(t, o.Adjust(ga, 2))
	require.NoError(t, o.Adjust(vip, 1))

	assert.True(t, o.Subtotal().Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, 3, o.TotalQuantity())
}

func TestAdjustClampsAtZero(t *testing.T) {
	tt := ticketType(1, 500, 10, 0)

	o := New(1)
	require.NoError(t, o.Adjust(tt, 2))
	require.NoError(t, o.Adjust(tt, -5))

	assert.Equal(t, 0, o.Quantity(1))
	assert.True(t, o.Subtotal().IsZero())
	assert.True(t, o.Empty())
}

func TestAdjustInsertsOnlyOnPositiveDelta(t *testing.T) {
	tt := ticketType(1, 500, 10, 0)

	o := New(1)
	require.NoError(t, o.Adjust(tt, -1))
	assert.Empty(t, o.Lines())

	require.NoError(t, o.Adjust(tt, 1))
	assert.Len(t, o.Lines(), 1)
}

func TestAdjustRejectsOverCapacity(t *testing.T) {
	tt := ticketType(1, 500, 10, 8)

	o := New(1)
	require.NoError(t, o.Adjust(tt, 2))

	err := o.Adjust(tt, 1)
	var capErr *CapacityExceededError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, int64(1), capErr.TicketTypeID)
	assert.Equal(t, 3, capErr.Requested)
	assert.Equal(t, 2, capErr.Available)

	// order unchanged on rejection
	assert.Equal(t, 2, o.Quantity(1))
}

func TestAdjustDecrementSucceedsWhenAvailabilityShrank(t *testing.T) {
	o := New(1)
	require.NoError(t, o.Adjust(ticketType(1, 500, 10, 0), 3))

	// other buyers have taken most of the capacity since
	shrunk := ticketType(1, 500, 10, 9)
	require.Equal(t, 1, shrunk.Available())

	require.NoError(t, o.Adjust(shrunk, -1))
	assert.Equal(t, 2, o.Quantity(1))

	require.NoError(t, o.Adjust(shrunk, -2))
	assert.True(t, o.Empty())
}

func TestNoDuplicateLineItems(t *testing.T) {
	tt := ticketType(1, 500, 10, 0)

	o := New(1)
	require.NoError(t, o.Adjust(tt, 1))
	require.NoError(t, o.Adjust(tt, 1))
	require.NoError(t, o.Adjust(tt, 1))

	require.Len(t, o.Lines(), 1)
	assert.Equal(t, 3, o.Lines()[0].Quantity)
}

func TestRemoveZeroesQuantityAndKeepsOthers(t *testing.T) {
	ga := ticketType(1, 1500, 100, 0)
	vip := ticketType(2, 3000, 20, 0)

	o := New(1)
	require.NoError(t, o.Adjust(ga, 2))
	require.NoError(t, o.Adjust(vip, 1))

	o.Remove(1)

	require.Len(t, o.Lines(), 1)
	assert.Equal(t, int64(2), o.Lines()[0].TicketTypeID)
	assert.True(t, o.Subtotal().Equal(decimal.NewFromInt(3000)))
}

func TestLinesPreserveInsertionOrder(t *testing.T) {
	o := New(1)
	require.NoError(t, o.Adjust(ticketType(3, 100, 10, 0), 1))
	require.NoError(t, o.Adjust(ticketType(1, 100, 10, 0), 1))
	require.NoError(t, o.Adjust(ticketType(2, 100, 10, 0), 1))

	lines := o.Lines()
	require.Len(t, lines, 3)
	assert.Equal(t, int64(3), lines[0].TicketTypeID)
	assert.Equal(t, int64(1), lines[1].TicketTypeID)
	assert.Equal(t, int64(2), lines[2].TicketTypeID)
}

func TestSubtotalExactWithFractionalPrices(t *testing.T) {
	tt := domain.TicketType{
		ID:       1,
		Price:    decimal.RequireFromString("10.10"),
		Capacity: 100,
	}

	o := New(1)
	require.NoError(t, o.Adjust(tt, 3))

	assert.Equal(t, "30.30", o.Subtotal().StringFixed(2))
}
