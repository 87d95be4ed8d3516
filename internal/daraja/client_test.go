package daraja

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New(Config{
		ConsumerKey:    "key",
		ConsumerSecret: "secret",
		Shortcode:      "174379",
		Passkey:        "passkey",
		Environment:    "sandbox",
		CallbackURL:    "https://example.com/mpesa/callback",
	})
	c.baseURL = srv.URL

	return c
}

func TestSTKPushSuccess(t *testing.T) {
	var pushReq stkPushRequest

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok", "expires_in": "3599"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&pushReq))
		json.NewEncoder(w).Encode(STKPushResponse{
			MerchantRequestID:   "29115-34620561-1",
			CheckoutRequestID:   "ws_CO_191220191020363925",
			ResponseCode:        "0",
			ResponseDescription: "Success. Request accepted for processing",
			CustomerMessage:     "Success. Request accepted for processing",
		})
	})

	c := testClient(t, mux)

	resp, err := c.STKPush(
		context.Background(),
		"254712345678",
		decimal.NewFromInt(4800),
		"NAKSYETU-42",
		"Event tickets",
	)
	require.NoError(t, err)

	assert.Equal(t, "ws_CO_191220191020363925", resp.CheckoutRequestID)
	assert.Equal(t, "254712345678", pushReq.PhoneNumber)
	assert.Equal(t, "254712345678", pushReq.PartyA)
	assert.Equal(t, "174379", pushReq.PartyB)
	assert.Equal(t, "4800", pushReq.Amount)
	assert.Equal(t, "NAKSYETU-42", pushReq.AccountReference)
	assert.Equal(t, "CustomerPayBillOnline", pushReq.TransactionType)
	assert.NotEmpty(t, pushReq.Password)
}

func TestSTKPushGatewayRejection(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"access_token": "tok"})
	})
	mux.HandleFunc("/mpesa/stkpush/v1/processrequest", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{
			"requestId":    "16813-15155-1",
			"errorCode":    "400.002.02",
			"errorMessage": "Bad Request - Invalid PhoneNumber",
		})
	})

	c := testClient(t, mux)

	_, err := c.STKPush(context.Background(), "254712345678", decimal.NewFromInt(100), "REF", "desc")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "400.002.02", apiErr.ErrorCode)
	assert.Equal(t, "Bad Request - Invalid PhoneNumber", apiErr.ErrorMessage)
}

func TestAuthenticateFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/v1/generate", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{
			"errorCode":    "401.002.01",
			"errorMessage": "Invalid Authentication passed",
		})
	})

	c := testClient(t, mux)

	err := c.TestConnection(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
}

func TestParseCallbackSuccess(t *testing.T) {
	payload := `{
	  "Body": {
	    "stkCallback": {
	      "MerchantRequestID": "29115-34620561-1",
	      "CheckoutRequestID": "ws_CO_191220191020363925",
	      "ResultCode": 0,
	      "ResultDesc": "The service request is processed successfully.",
	      "CallbackMetadata": {
	        "Item": [
	          {"Name": "Amount", "Value": 4800.00},
	          {"Name": "MpesaReceiptNumber", "Value": "NLJ7RT61SV"},
	          {"Name": "TransactionDate", "Value": 20191219102115},
	          {"Name": "PhoneNumber", "Value": 254712345678}
	        ]
	      }
	    }
	  }
	}`

	res, err := ParseCallback(strings.NewReader(payload))
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, "ws_CO_191220191020363925", res.CheckoutRequestID)
	assert.Equal(t, "NLJ7RT61SV", res.Receipt)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(4800)))
	assert.Equal(t, "254712345678", res.Phone)
}

func TestParseCallbackDeclined(t *testing.T) {
	payload := `{
	  "Body": {
	    "stkCallback": {
	      "MerchantRequestID": "29115-34620561-1",
	      "CheckoutRequestID": "ws_CO_191220191020363925",
	      "ResultCode": 1032,
	      "ResultDesc": "Request cancelled by user"
	    }
	  }
	}`

	res, err := ParseCallback(strings.NewReader(payload))
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, 1032, res.ResultCode)
	assert.Equal(t, "Request cancelled by user", res.ResultDesc)
	assert.Empty(t, res.Receipt)
}

func TestParseCallbackMissingReference(t *testing.T) {
	_, err := ParseCallback(strings.NewReader(`{"Body":{"stkCallback":{}}}`))
	require.Error(t, err)
}
