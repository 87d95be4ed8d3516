package coupon

import "fmt"

// RejectedError is a recoverable validation failure: the code is invalid,
// expired, or the order does not meet the coupon's minimum. It never affects
// order or payment state.
type RejectedError struct {
	Code   string
	Reason string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.Code, e.Reason)
}
