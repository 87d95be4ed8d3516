package payment

import (
	"strings"
)

// NormalizePhone converts a Kenyan mobile-money number to the 12-digit
// country-code form the gateway expects (2547XXXXXXXX or 2541XXXXXXXX).
// Accepted inputs: 07XXXXXXXX, 01XXXXXXXX, 2547.../2541..., +2547.../+2541...
// Anything else fails the initiation precondition before a network call.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '+':
			// separators and leading plus are tolerated
		default:
			return "", &ValidationError{Fields: map[string]string{
				"mpesaPhoneNumber": "phone number contains invalid characters",
			}}
		}
	}

	digits := b.String()

	switch {
	case len(digits) == 10 && (strings.HasPrefix(digits, "07") || strings.HasPrefix(digits, "01")):
		digits = "254" + digits[1:]
	case len(digits) == 12 && (strings.HasPrefix(digits, "2547") || strings.HasPrefix(digits, "2541")):
		// already normalized
	default:
		return "", &ValidationError{Fields: map[string]string{
			"mpesaPhoneNumber": "enter a valid Safaricom number (07XX or 01XX)",
		}}
	}

	return digits, nil
}
