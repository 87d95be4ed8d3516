package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/naksyetu/naksyetu-go/internal/domain"
)

type CouponRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CouponRepo) With(db DB) *CouponRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CouponRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetByCode retrieves a coupon by its code. Matching is case-insensitive.
//
// Returns:
//   - *domain.Coupon: the coupon when found.
//   - error: repository.ErrNotFound if no coupon matches the code.
func (r *CouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const op = "postgres.CouponRepo.GetByCode"

	db := r.handle()

	var c domain.Coupon
	err := db.QueryRow(ctx,
		`SELECT id, code, discount_type, discount_value, min_order_amount, expires_at
       	 FROM coupons
      	 WHERE lower(code) = lower($1)`,
		code,
	).Scan(&c.ID, &c.Code, &c.DiscountType, &c.DiscountValue, &c.MinOrderAmount, &c.ExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return &c, nil
}

// Create creates a coupon and returns its ID.
//
// Returns:
//   - error: repository.ErrConflict if a coupon with the same code exists.
func (r *CouponRepo) Create(ctx context.Context, c domain.Coupon) (int64, error) {
	const op = "postgres.CouponRepo.Create"

	db := r.handle()

	var id int64
	if err := db.QueryRow(ctx,
		`INSERT INTO coupons(code, discount_type, discount_value, min_order_amount, expires_at)
       	 VALUES ($1, $2, $3, $4, $5)
     	 RETURNING id`,
		c.Code, c.DiscountType, c.DiscountValue, c.MinOrderAmount, c.ExpiresAt,
	).Scan(&id); err != nil {
		return 0, fmt.Errorf("%s:%w", op, translateDBErr(err))
	}

	return id, nil
}
