package repository

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrCapacityExceeded = errors.New("ticket capacity exceeded")
	ErrPaymentTerminal  = errors.New("payment already in a terminal state")
)
