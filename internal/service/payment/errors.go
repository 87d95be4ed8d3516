package payment

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrPaymentNotFound = errors.New("payment not found")
	ErrAlreadyTerminal = errors.New("payment already in a terminal state")
)

// ValidationError is a local, recoverable precondition failure. Errors are
// keyed by field name so the caller can surface them inline.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// InitiationError is a gateway rejection of the push request. The payment
// record is marked failed; the caller may re-enable the pay action and let
// the user retry explicitly. Reason carries the provider's message verbatim
// when the gateway supplied one.
type InitiationError struct {
	Reason string
	Code   string
}

func (e *InitiationError) Error() string {
	if e.Reason == "" {
		return "payment could not be initiated, please try again"
	}
	return e.Reason
}
