package daraja

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds Safaricom Daraja API credentials.
type Config struct {
	ConsumerKey    string
	ConsumerSecret string
	Shortcode      string
	Passkey        string
	Environment    string // "sandbox" or "production"
	CallbackURL    string
}

// Client talks to the Daraja STK push API. Initiating a push causes an
// out-of-band prompt on the payer's phone; completion is only knowable via
// the asynchronous callback.
type Client struct {
	cfg     Config
	client  *http.Client
	baseURL string
	now     func() time.Time
}

func New(cfg Config) *Client {
	baseURL := "https://api.safaricom.co.ke"
	if cfg.Environment != "production" {
		baseURL = "https://sandbox.safaricom.co.ke"
	}

	return &Client{
		cfg:     cfg,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
		now:     time.Now,
	}
}

// APIError is a rejection payload returned by the Daraja API. The message is
// surfaced to the user verbatim, so it is kept as the gateway sent it.
type APIError struct {
	RequestID    string `json:"requestId"`
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	HTTPStatus   int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("daraja: %s (code %s)", e.ErrorMessage, e.ErrorCode)
}

type authResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   string `json:"expires_in"`
}

type stkPushRequest struct {
	BusinessShortCode string `json:"BusinessShortCode"`
	Password          string `json:"Password"`
	Timestamp         string `json:"Timestamp"`
	TransactionType   string `json:"TransactionType"`
	Amount            string `json:"Amount"`
	PartyA            string `json:"PartyA"`
	PartyB            string `json:"PartyB"`
	PhoneNumber       string `json:"PhoneNumber"`
	CallBackURL       string `json:"CallBackURL"`
	AccountReference  string `json:"AccountReference"`
	TransactionDesc   string `json:"TransactionDesc"`
}

// STKPushResponse is the synchronous acknowledgement of an STK push request.
type STKPushResponse struct {
	MerchantRequestID   string `json:"MerchantRequestID"`
	CheckoutRequestID   string `json:"CheckoutRequestID"`
	ResponseCode        string `json:"ResponseCode"`
	ResponseDescription string `json:"ResponseDescription"`
	CustomerMessage     string `json:"CustomerMessage"`
}

// STKPush submits a payment prompt to the payer's phone. The phone number
// must already be in the normalized 2547XXXXXXXX/2541XXXXXXXX form.
//
// Returns:
//   - *STKPushResponse: the gateway acknowledgement on acceptance.
//   - error: *APIError when the gateway rejected the request.
func (c *Client) STKPush(
	ctx context.Context,
	phone string,
	amount decimal.Decimal,
	accountRef, description string,
) (*STKPushResponse, error) {
	const op = "daraja.Client.STKPush"

	token, err := c.authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	ts := c.now().Format("20060102150405")
	password := base64.StdEncoding.EncodeToString(
		[]byte(c.cfg.Shortcode + c.cfg.Passkey + ts),
	)

	reqBody := stkPushRequest{
		BusinessShortCode: c.cfg.Shortcode,
		Password:          password,
		Timestamp:         ts,
		TransactionType:   "CustomerPayBillOnline",
		Amount:            amount.Round(0).String(),
		PartyA:            phone,
		PartyB:            c.cfg.Shortcode,
		PhoneNumber:       phone,
		CallBackURL:       c.cfg.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   description,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/mpesa/stkpush/v1/processrequest",
		bytes.NewBuffer(jsonData),
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.ErrorMessage == "" {
			apiErr.ErrorMessage = fmt.Sprintf("gateway returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("%s:%w", op, apiErr)
	}

	var out STKPushResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if out.ResponseCode != "0" {
		return nil, fmt.Errorf("%s:%w", op, &APIError{
			ErrorCode:    out.ResponseCode,
			ErrorMessage: out.ResponseDescription,
		})
	}

	return &out, nil
}

// TestConnection verifies the credentials by requesting a token.
func (c *Client) TestConnection(ctx context.Context) error {
	if _, err := c.authenticate(ctx); err != nil {
		return fmt.Errorf("daraja: authentication failed: %w", err)
	}
	return nil
}

func (c *Client) authenticate(ctx context.Context) (string, error) {
	const op = "daraja.Client.authenticate"

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		c.baseURL+"/oauth/v1/generate?grant_type=client_credentials",
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	req.SetBasicAuth(c.cfg.ConsumerKey, c.cfg.ConsumerSecret)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{HTTPStatus: resp.StatusCode}
		if err := json.Unmarshal(body, apiErr); err != nil || apiErr.ErrorMessage == "" {
			apiErr.ErrorMessage = fmt.Sprintf("auth returned status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("%s:%w", op, apiErr)
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return "", fmt.Errorf("%s:%w", op, err)
	}

	if auth.AccessToken == "" {
		return "", fmt.Errorf("%s: empty access token", op)
	}

	return auth.AccessToken, nil
}
