package daraja

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

// stkCallbackEnvelope mirrors the wire shape of a Daraja STK callback.
type stkCallbackEnvelope struct {
	Body struct {
		StkCallback struct {
			MerchantRequestID string `json:"MerchantRequestID"`
			CheckoutRequestID string `json:"CheckoutRequestID"`
			ResultCode        int    `json:"ResultCode"`
			ResultDesc        string `json:"ResultDesc"`
			CallbackMetadata  struct {
				Item []struct {
					Name  string `json:"Name"`
					Value any    `json:"Value"`
				} `json:"Item"`
			} `json:"CallbackMetadata"`
		} `json:"stkCallback"`
	} `json:"Body"`
}

// CallbackResult is the decoded outcome of one STK push.
type CallbackResult struct {
	CheckoutRequestID string
	MerchantRequestID string
	Success           bool
	ResultCode        int
	ResultDesc        string
	Receipt           string
	Amount            decimal.Decimal
	Phone             string
}

// ParseCallback decodes an STK callback payload. A non-zero result code means
// the payer declined, timed out, or the charge failed; the result description
// carries the gateway's reason.
func ParseCallback(r io.Reader) (*CallbackResult, error) {
	const op = "daraja.ParseCallback"

	var env stkCallbackEnvelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	cb := env.Body.StkCallback
	if cb.CheckoutRequestID == "" {
		return nil, fmt.Errorf("%s: missing CheckoutRequestID", op)
	}

	out := &CallbackResult{
		CheckoutRequestID: cb.CheckoutRequestID,
		MerchantRequestID: cb.MerchantRequestID,
		Success:           cb.ResultCode == 0,
		ResultCode:        cb.ResultCode,
		ResultDesc:        cb.ResultDesc,
	}

	for _, item := range cb.CallbackMetadata.Item {
		switch item.Name {
		case "MpesaReceiptNumber":
			if s, ok := item.Value.(string); ok {
				out.Receipt = s
			}
		case "Amount":
			switch v := item.Value.(type) {
			case float64:
				out.Amount = decimal.NewFromFloat(v)
			case string:
				if d, err := decimal.NewFromString(v); err == nil {
					out.Amount = d
				}
			}
		case "PhoneNumber":
			switch v := item.Value.(type) {
			case float64:
				out.Phone = decimal.NewFromFloat(v).String()
			case string:
				out.Phone = v
			}
		}
	}

	return out, nil
}
