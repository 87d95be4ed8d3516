package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhoneAcceptedForms(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0712345678", "254712345678"},
		{"0112345678", "254112345678"},
		{"254712345678", "254712345678"},
		{"+254712345678", "254712345678"},
		{"0712 345 678", "254712345678"},
		{"0712-345-678", "254712345678"},
	}

	for _, tc := range cases {
		got, err := NormalizePhone(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
		assert.Len(t, got, 12, tc.in)
	}
}

func TestNormalizePhoneRejected(t *testing.T) {
	cases := []string{
		"12345",
		"",
		"0812345678",      // unsupported local prefix
		"255712345678",    // wrong country code
		"07123456789",     // too long
		"071234567",       // too short
		"email@test.com",  // not a number at all
		"2547123456789",   // 13 digits
	}

	for _, in := range cases {
		_, err := NormalizePhone(in)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, "input %q", in)
		assert.Contains(t, verr.Fields, "mpesaPhoneNumber", "input %q", in)
	}
}
