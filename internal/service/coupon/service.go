package coupon

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
	"github.com/shopspring/decimal"
)

// Rules is the authoritative coupon rule source. Discount terms always come
// from the backend; a client-supplied discount is never trusted.
type Rules interface {
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

type Service struct {
	rules Rules
	now   func() time.Time
}

func New(rules Rules) *Service {
	return &Service{
		rules: rules,
		now:   time.Now,
	}
}

// Result is a successful coupon application. Discount is computed from the
// subtotal passed to Apply, so re-applying after the subtotal changes always
// recomputes from the current value.
type Result struct {
	Coupon   domain.Coupon
	Discount decimal.Decimal
}

// Apply validates a coupon code against the current subtotal and computes the
// discount. Validation order: non-empty code, rule lookup (case-insensitive),
// minimum order amount, expiry. Rejections are recoverable and carry a
// human-readable reason.
//
// Returns:
//   - *Result: the coupon and its discount amount.
//   - error: *RejectedError when the code is invalid for this order.
func (s *Service) Apply(ctx context.Context, code string, subtotal decimal.Decimal) (*Result, error) {
	const op = "service.coupon.Apply"

	code = strings.TrimSpace(code)
	if code == "" {
		return nil, &RejectedError{Code: code, Reason: "enter a coupon code"}
	}

	c, err := s.rules.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &RejectedError{Code: code, Reason: "coupon code is not valid"}
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if subtotal.LessThan(c.MinOrderAmount) {
		return nil, &RejectedError{
			Code: code,
			Reason: fmt.Sprintf(
				"coupon requires a minimum order of %s",
				c.MinOrderAmount.StringFixed(2),
			),
		}
	}

	if c.Expired(s.now()) {
		return nil, &RejectedError{Code: code, Reason: "coupon has expired"}
	}

	return &Result{
		Coupon:   *c,
		Discount: Discount(*c, subtotal),
	}, nil
}

// Discount computes the discount a coupon yields for a subtotal. A fixed
// coupon is clamped to the subtotal so the payable total never goes negative.
func Discount(c domain.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if c.DiscountValue.IsNegative() {
		return decimal.Zero
	}

	switch c.DiscountType {
	case domain.DiscountPercentage:
		return subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100))
	case domain.DiscountFixed:
		if c.DiscountValue.GreaterThan(subtotal) {
			return subtotal
		}
		return c.DiscountValue
	default:
		return decimal.Zero
	}
}
