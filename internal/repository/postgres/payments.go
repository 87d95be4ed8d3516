package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
)

type PaymentRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *PaymentRepo) With(db DB) *PaymentRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *PaymentRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// Create inserts a payment record together with its first log entry. The
// provider request reference is usually still empty at this point; it is
// attached by SetPending once the gateway has accepted the push.
//
// Returns:
//   - error: repository.ErrConflict if the payment or its provider request
//     reference already exists.
func (r *PaymentRepo) Create(ctx context.Context, p *domain.Payment) error {
	const op = "postgres.PaymentRepo.Create"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO payments(
			id, session_id, event_id, phone, amount, account_ref,
			status, provider_request_id
		 )
       	 VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''))`,
		p.ID, p.SessionID, p.EventID, p.Phone, p.Amount, p.AccountRef,
		p.Status, p.ProviderRequestID,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO payment_logs(payment_id, status, detail)
       	 VALUES ($1, $2, $3)`,
		p.ID, p.Status, "payment initiated",
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Get retrieves a payment record by its ID.
//
// Returns:
//   - error: repository.ErrNotFound if the payment is not found.
func (r *PaymentRepo) Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	const op = "postgres.PaymentRepo.Get"

	db := r.handle()

	var p domain.Payment
	err := db.QueryRow(ctx,
		`SELECT id, session_id, event_id, phone, amount, account_ref,
		        status, COALESCE(mpesa_receipt, ''), COALESCE(error_reason, ''),
		        COALESCE(provider_request_id, ''), created_at, updated_at
       	 FROM payments WHERE id = $1`,
		id,
	).Scan(
		&p.ID, &p.SessionID, &p.EventID, &p.Phone, &p.Amount, &p.AccountRef,
		&p.Status, &p.MpesaReceipt, &p.ErrorReason,
		&p.ProviderRequestID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &p, nil
}

// GetByProviderRef retrieves a payment by the gateway's request identifier.
// Gateway callbacks are keyed by this reference, not by our payment ID.
func (r *PaymentRepo) GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	const op = "postgres.PaymentRepo.GetByProviderRef"

	db := r.handle()

	var p domain.Payment
	err := db.QueryRow(ctx,
		`SELECT id, session_id, event_id, phone, amount, account_ref,
		        status, COALESCE(mpesa_receipt, ''), COALESCE(error_reason, ''),
		        COALESCE(provider_request_id, ''), created_at, updated_at
       	 FROM payments WHERE provider_request_id = $1`,
		ref,
	).Scan(
		&p.ID, &p.SessionID, &p.EventID, &p.Phone, &p.Amount, &p.AccountRef,
		&p.Status, &p.MpesaReceipt, &p.ErrorReason,
		&p.ProviderRequestID, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &p, nil
}

// SetPending attaches the gateway's request reference and moves an
// initiating payment to pending, appending a log entry.
//
// Returns:
//   - error: repository.ErrNotFound if the payment does not exist.
//   - error: repository.ErrPaymentTerminal if the payment already moved past
//     initiating.
func (r *PaymentRepo) SetPending(ctx context.Context, id uuid.UUID, providerRef string) error {
	const op = "postgres.PaymentRepo.SetPending"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE payments
         SET status = $2, provider_request_id = $3, updated_at = now()
      	 WHERE id = $1 AND status = $4`,
		id, domain.PaymentPending, providerRef, domain.PaymentInitiating,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		return fmt.Errorf("%s:%w", op, repository.ErrPaymentTerminal)
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO payment_logs(payment_id, status, detail)
       	 VALUES ($1, $2, $3)`,
		id, domain.PaymentPending, "stk push accepted, ref "+providerRef,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// SetProcessing moves a pending payment to processing and appends a log
// entry. A payment that is no longer pending is left untouched.
func (r *PaymentRepo) SetProcessing(ctx context.Context, id uuid.UUID, detail string) error {
	const op = "postgres.PaymentRepo.SetProcessing"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE payments
         SET status = $2, updated_at = now()
      	 WHERE id = $1 AND status = $3`,
		id, domain.PaymentProcessing, domain.PaymentPending,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		return nil
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO payment_logs(payment_id, status, detail)
       	 VALUES ($1, $2, $3)`,
		id, domain.PaymentProcessing, detail,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// SetTerminal moves a payment to a terminal status. Terminal states are
// absorbing: a payment already completed or failed is never updated again.
//
// Returns:
//   - error: repository.ErrPaymentTerminal if the payment is already terminal.
//   - error: repository.ErrNotFound if the payment does not exist.
func (r *PaymentRepo) SetTerminal(
	ctx context.Context,
	id uuid.UUID,
	status domain.PaymentStatus,
	receipt, reason string,
) error {
	const op = "postgres.PaymentRepo.SetTerminal"

	if !status.Terminal() {
		return fmt.Errorf("%s: %q is not a terminal status", op, status)
	}

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE payments
         SET status = $2,
             mpesa_receipt = NULLIF($3, ''),
             error_reason = NULLIF($4, ''),
             updated_at = now()
      	 WHERE id = $1 AND status IN ($5, $6, $7)`,
		id, status, receipt, reason,
		domain.PaymentInitiating, domain.PaymentPending, domain.PaymentProcessing,
	)
	if err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	if tag.RowsAffected() == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return fmt.Errorf("%s:%w", op, repository.ErrNotFound)
		}
		return fmt.Errorf("%s:%w", op, repository.ErrPaymentTerminal)
	}

	detail := reason
	if detail == "" {
		detail = "receipt " + receipt
	}

	if _, err := db.Exec(ctx,
		`INSERT INTO payment_logs(payment_id, status, detail)
       	 VALUES ($1, $2, $3)`,
		id, status, detail,
	); err != nil {
		return fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return nil
}

// Logs returns the append-only status-change log for a payment, oldest first.
func (r *PaymentRepo) Logs(ctx context.Context, id uuid.UUID) ([]domain.PaymentLogEntry, error) {
	const op = "postgres.PaymentRepo.Logs"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, payment_id, status, detail, created_at
       	 FROM payment_logs
      	 WHERE payment_id = $1
      	 ORDER BY id`,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	defer rows.Close()

	var out []domain.PaymentLogEntry
	for rows.Next() {
		var e domain.PaymentLogEntry
		if err := rows.Scan(&e.ID, &e.PaymentID, &e.Status, &e.Detail, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
