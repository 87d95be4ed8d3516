package checkout

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/naksyetu/naksyetu-go/internal/service/payment"
)

var (
	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrTicketTypeNotFound = errors.New("ticket type not found")
	ErrCheckoutLocked     = errors.New("checkout is locked after payment initiation")
	ErrInitiationInFlight = errors.New("a payment initiation is already in flight")
	ErrInitiateRequired   = errors.New("advancing past payment details requires initiating payment")
	ErrNotAtPaymentStep   = errors.New("payment can only be initiated from the payment details step")
)

var emailRx = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// ValidationError blocks forward navigation. Messages are keyed by field
// name so the caller can surface them inline; nothing else about the
// checkout is affected.
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

func validatePhone(raw string) map[string]string {
	if raw == "" {
		return map[string]string{"mpesaPhoneNumber": "phone number is required"}
	}

	if _, err := payment.NormalizePhone(raw); err != nil {
		var verr *payment.ValidationError
		if errors.As(err, &verr) {
			return verr.Fields
		}
		return map[string]string{"mpesaPhoneNumber": "enter a valid phone number"}
	}

	return nil
}
