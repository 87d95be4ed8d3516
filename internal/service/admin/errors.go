package admin

import "errors"

var (
	ErrEventConflict  = errors.New("event already exists")
	ErrCouponConflict = errors.New("coupon code already exists")
	ErrEventNotFound  = errors.New("event not found")
)
