package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naksyetu/naksyetu-go/internal/domain"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetEvent retrieves an event by its ID.
//
// Returns:
//   - *domain.Event: the event when found.
//   - error: repository.ErrNotFound if the event is not found.
func (r *CatalogRepo) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	const op = "postgres.CatalogRepo.GetEvent"

	db := r.handle()

	var e domain.Event
	err := db.QueryRow(ctx,
		`SELECT id, title, venue, starts_at, ends_at
       	 FROM events WHERE id = $1`,
		id,
	).Scan(&e.ID, &e.Title, &e.Venue, &e.Starts, &e.Ends)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &e, nil
}

// ListTicketTypes lists the ticket types configured for an event, in the
// order they were created.
func (r *CatalogRepo) ListTicketTypes(ctx context.Context, eventID int64) ([]domain.TicketType, error) {
	const op = "postgres.CatalogRepo.ListTicketTypes"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, event_id, name, price, capacity, sold
		 FROM ticket_types
		 WHERE event_id = $1
		 ORDER BY id`,
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.TicketType
	for rows.Next() {
		var tt domain.TicketType
		if err := rows.Scan(&tt.ID, &tt.EventID, &tt.Name, &tt.Price, &tt.Capacity, &tt.Sold); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}

		out = append(out, tt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// GetEventSnapshot retrieves an event together with its ticket types.
//
// Returns:
//   - *domain.EventSnapshot: the snapshot when found.
//   - error: repository.ErrNotFound if the event is not found.
func (r *CatalogRepo) GetEventSnapshot(ctx context.Context, id int64) (*domain.EventSnapshot, error) {
	const op = "postgres.CatalogRepo.GetEventSnapshot"

	e, err := r.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	tts, err := r.ListTicketTypes(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &domain.EventSnapshot{Event: *e, TicketTypes: tts}, nil
}

// CountsByEvent returns the remaining capacity per ticket type of an event,
// together with the aggregate totals.
func (r *CatalogRepo) CountsByEvent(ctx context.Context, eventID int64) (*domain.EventCounts, error) {
	const op = "postgres.CatalogRepo.CountsByEvent"

	tts, err := r.ListTicketTypes(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	ec := domain.CountsOf(tts)

	return &ec, nil
}

// CreateEvent creates an event record and returns its ID.
//
// Returns:
//   - error: repository.ErrConflict on a uniqueness violation.
func (r *CatalogRepo) CreateEvent(
	ctx context.Context,
	title, venue string,
	starts, ends time.Time,
) (int64, error) {
	const op = "postgres.CatalogRepo.CreateEvent"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO events(title, venue, starts_at, ends_at)
       	 VALUES ($1, $2, $3, $4)
     	 RETURNING id`,
		title, venue, starts, ends,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}

// CreateTicketType creates a ticket type for an event and returns its ID.
func (r *CatalogRepo) CreateTicketType(ctx context.Context, tt domain.TicketType) (int64, error) {
	const op = "postgres.CatalogRepo.CreateTicketType"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO ticket_types(event_id, name, price, capacity, sold)
       	 VALUES ($1, $2, $3, $4, 0)
     	 RETURNING id`,
		tt.EventID, tt.Name, tt.Price, tt.Capacity,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}
