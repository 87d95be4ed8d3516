package httpgin

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/naksyetu/naksyetu-go/internal/domain"
)

type CreateCheckoutRequest struct {
	EventID int64 `json:"event_id" binding:"required"`
}

type AdjustTicketRequest struct {
	TicketTypeID int64 `json:"ticket_type_id" binding:"required"`
	Delta        int   `json:"delta" binding:"required"`
}

type CustomerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	DeliveryMethod string `json:"delivery_method"`
	Authenticated  bool   `json:"authenticated"`
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type ValidateCouponRequest struct {
	Code     string          `json:"code" binding:"required"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

type ValidateCouponResponse struct {
	Valid    bool            `json:"valid"`
	Code     string          `json:"code,omitempty"`
	Discount decimal.Decimal `json:"discount_amount"`
	Reason   string          `json:"reason,omitempty"`
}

type InitiatePaymentRequest struct {
	Phone string `json:"phone"`
}

type PaymentLogResponse struct {
	Status    domain.PaymentStatus `json:"status"`
	Detail    string               `json:"detail"`
	CreatedAt time.Time            `json:"created_at"`
}

type PaymentResponse struct {
	ID                string               `json:"id"`
	SessionID         string               `json:"session_id"`
	EventID           int64                `json:"event_id"`
	Phone             string               `json:"phone"`
	Amount            decimal.Decimal      `json:"amount"`
	AccountRef        string               `json:"account_ref"`
	Status            domain.PaymentStatus `json:"status"`
	MpesaReceipt      string               `json:"mpesa_receipt,omitempty"`
	ErrorReason       string               `json:"error_reason,omitempty"`
	ProviderRequestID string               `json:"provider_request_id"`
	CreatedAt         time.Time            `json:"created_at"`
	UpdatedAt         time.Time            `json:"updated_at"`
	Logs              []PaymentLogResponse `json:"logs,omitempty"`
}

type WaitPaymentResponse struct {
	Status   domain.PaymentStatus `json:"status"`
	Receipt  string               `json:"receipt,omitempty"`
	Reason   string               `json:"reason,omitempty"`
	TimedOut bool                 `json:"timed_out"`
}

type CreateEventRequest struct {
	Title       string            `json:"title" binding:"required"`
	Venue       string            `json:"venue" binding:"required"`
	StartsAt    string            `json:"starts_at" binding:"required"`
	EndsAt      string            `json:"ends_at" binding:"required"`
	TicketTypes []TicketTypeInput `json:"ticket_types"`
}

type TicketTypeInput struct {
	Name     string          `json:"name" binding:"required"`
	Price    decimal.Decimal `json:"price" binding:"required"`
	Capacity int             `json:"capacity" binding:"required,gt=0"`
}

type CreateEventResponse struct {
	EventID int64 `json:"event_id"`
}

type CreateTicketTypeResponse struct {
	TicketTypeID int64 `json:"ticket_type_id"`
}

type CreateCouponRequest struct {
	Code           string          `json:"code" binding:"required"`
	DiscountType   string          `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue  decimal.Decimal `json:"discount_value" binding:"required"`
	MinOrderAmount decimal.Decimal `json:"min_order_amount"`
	ExpiresAt      string          `json:"expires_at"`
}

type CreateCouponResponse struct {
	CouponID int64 `json:"coupon_id"`
}

type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func paymentToResponse(p *domain.Payment, logs []domain.PaymentLogEntry) PaymentResponse {
	resp := PaymentResponse{
		ID:                p.ID.String(),
		SessionID:         p.SessionID.String(),
		EventID:           p.EventID,
		Phone:             p.Phone,
		Amount:            p.Amount,
		AccountRef:        p.AccountRef,
		Status:            p.Status,
		MpesaReceipt:      p.MpesaReceipt,
		ErrorReason:       p.ErrorReason,
		ProviderRequestID: p.ProviderRequestID,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}

	for _, e := range logs {
		resp.Logs = append(resp.Logs, PaymentLogResponse{
			Status:    e.Status,
			Detail:    e.Detail,
			CreatedAt: e.CreatedAt,
		})
	}

	return resp
}

func parseRFC3339(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}
