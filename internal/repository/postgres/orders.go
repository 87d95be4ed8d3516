package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naksyetu/naksyetu-go/internal/cart"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
)

type OrderRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *OrderRepo) With(db DB) *OrderRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *OrderRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// CreateWithTickets inserts an order, issues one ticket row per selected
// seat, and bumps the sold counter of each ticket type. The sold update is
// guarded against capacity so an oversold type aborts the whole insert.
//
// Returns:
//   - error: repository.ErrCapacityExceeded if any line exceeds capacity.
//   - error: repository.ErrConflict if an order for the payment already exists.
func (r *OrderRepo) CreateWithTickets(
	ctx context.Context,
	o *domain.Order,
	lines []cart.LineItem,
) error {
	const op = "postgres.OrderRepo.CreateWithTickets"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO orders(id, payment_id, event_id, customer_name, customer_email, total)
       	 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.PaymentID, o.EventID, o.CustomerName, o.CustomerEmail, o.Total,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	for _, line := range lines {
		tag, err := db.Exec(ctx,
			`UPDATE ticket_types
             SET sold = sold + $2
          	 WHERE id = $1 AND sold + $2 <= capacity`,
			line.TicketTypeID, line.Quantity,
		)
		if err != nil {
			return fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%s:%w", op, repository.ErrCapacityExceeded)
		}
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		for i := 0; i < line.Quantity; i++ {
			batch.Queue(
				`INSERT INTO tickets(id, order_id, ticket_type_id)
         	 	 VALUES ($1, $2, $3)`,
				uuid.New(), o.ID, line.TicketTypeID,
			)
		}
	}
	if err := db.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// GetWithTickets retrieves an order along with its tickets.
//
// Returns:
//   - error: repository.ErrNotFound if the order is not found.
func (r *OrderRepo) GetWithTickets(ctx context.Context, orderID uuid.UUID) (*domain.OrderWithTickets, error) {
	const op = "postgres.OrderRepo.GetWithTickets"

	db := r.handle()

	var out domain.OrderWithTickets

	err := db.QueryRow(ctx,
		`SELECT id, payment_id, event_id, customer_name, customer_email, total, created_at
         FROM orders
         WHERE id = $1`,
		orderID,
	).Scan(
		&out.Order.ID,
		&out.Order.PaymentID,
		&out.Order.EventID,
		&out.Order.CustomerName,
		&out.Order.CustomerEmail,
		&out.Order.Total,
		&out.Order.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	rows, err := db.Query(ctx,
		`SELECT id, order_id, ticket_type_id, created_at
         FROM tickets
      	 WHERE order_id = $1
       	 ORDER BY created_at`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	for rows.Next() {
		var t domain.Ticket
		if err := rows.Scan(&t.ID, &t.OrderID, &t.TicketTypeID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out.Tickets = append(out.Tickets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &out, nil
}

// GetByPayment retrieves the order issued for a payment, if any.
func (r *OrderRepo) GetByPayment(ctx context.Context, paymentID uuid.UUID) (*domain.Order, error) {
	const op = "postgres.OrderRepo.GetByPayment"

	db := r.handle()

	var o domain.Order
	err := db.QueryRow(ctx,
		`SELECT id, payment_id, event_id, customer_name, customer_email, total, created_at
       	 FROM orders WHERE payment_id = $1`,
		paymentID,
	).Scan(&o.ID, &o.PaymentID, &o.EventID, &o.CustomerName, &o.CustomerEmail, &o.Total, &o.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &o, nil
}
