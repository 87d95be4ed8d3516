package httpgin

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/naksyetu/naksyetu-go/internal/cart"
	"github.com/naksyetu/naksyetu-go/internal/daraja"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
	redisrepo "github.com/naksyetu/naksyetu-go/internal/repository/redis"
	"github.com/naksyetu/naksyetu-go/internal/service"
	"github.com/naksyetu/naksyetu-go/internal/service/admin"
	"github.com/naksyetu/naksyetu-go/internal/service/catalog"
	"github.com/naksyetu/naksyetu-go/internal/service/checkout"
	"github.com/naksyetu/naksyetu-go/internal/service/coupon"
	"github.com/naksyetu/naksyetu-go/internal/service/orders"
	"github.com/naksyetu/naksyetu-go/internal/service/payment"
)

func NewRouter(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
	logger *slog.Logger,
	corsOrigins []string,
	middlewares ...gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), LoggingMiddleware(logger), RequestIDMiddleware(), CORS(corsOrigins...))
	for _, m := range middlewares {
		if m != nil {
			r.Use(m)
		}
	}

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public API
	r.GET("/events/:id", handleGetEvent(svcs))
	r.GET("/events/:id/availability", handleGetAvailability(svcs))

	co := r.Group("/checkout")
	{
		co.POST("", handleCreateCheckout(svcs))
		co.GET("/:id", handleGetCheckout(svcs))
		co.POST("/:id/tickets", handleAdjustTicket(svcs))
		co.DELETE("/:id/tickets/:ticket_type_id", handleRemoveTicket(svcs))
		co.POST("/:id/customer", handleSetCustomer(svcs))
		co.POST("/:id/coupon", handleApplyCoupon(svcs))
		co.DELETE("/:id/coupon", handleRemoveCoupon(svcs))
		co.POST("/:id/advance", handleAdvance(svcs))
		co.POST("/:id/back", handleBack(svcs))
		co.POST("/:id/initiate", handleInitiate(svcs, idem, limiter))
	}

	r.GET("/payments/:id", handleGetPayment(svcs))
	r.GET("/payments/:id/wait", handleWaitPayment(svcs))
	r.POST("/mpesa/callback", handleMpesaCallback(svcs, logger))

	r.POST("/coupons/validate", handleValidateCoupon(svcs))

	r.GET("/orders/:id", handleGetOrder(svcs))

	// Admin-API
	// TODO: add admin middleware
	adm := r.Group("/admin")
	{
		adm.POST("/events", handleCreateEvent(svcs))
		adm.POST("/events/:id/ticket-types", handleCreateTicketType(svcs))
		adm.POST("/coupons", handleCreateCoupon(svcs))
	}

	return r
}

// --- Handlers with Swagger annotations ---

// @Summary  Get event snapshot with ticket types
// @Param    id  path  int  true  "Event ID"
// @Success  200  {object}  domain.EventSnapshot
// @Failure  404  {object}  ErrorResponse
// @Router   /events/{id} [get]
func handleGetEvent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		snap, err := svcs.Catalog.GetEventSnapshot(c.Request.Context(), eventID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 60s
		writeJSONWithCache(c, http.StatusOK, snap, "public, max-age=60", true)
	}
}

// @Summary  Get availability counters
// @Param    id  path  int  true  "Event ID"
// @Success  200  {object}  domain.EventCounts
// @Router   /events/{id}/availability [get]
func handleGetAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		cnt, err := svcs.Catalog.CountsByEvent(c.Request.Context(), eventID)
		if err != nil {
			respondErr(c, err)
			return
		}
		// ETag + Cache-Control 15s
		writeJSONWithCache(c, http.StatusOK, cnt, "public, max-age=15", true)
	}
}

// @Summary  Start a checkout session
// @Param    req body  CreateCheckoutRequest true "payload"
// @Success  201 {object} checkout.Session
// @Failure  404 {object} ErrorResponse
// @Router   /checkout [post]
func handleCreateCheckout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sess, err := svcs.Checkout.Create(c.Request.Context(), req.EventID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, sess)
	}
}

// @Summary  Get checkout session
// @Param    id  path  string  true  "Session ID (uuid)"
// @Success  200 {object} checkout.Session
// @Failure  404 {object} ErrorResponse
// @Router   /checkout/{id} [get]
func handleGetCheckout(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		sess, err := svcs.Checkout.Get(c.Request.Context(), sessionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Adjust a ticket line item quantity
// @Param    id  path  string  true  "Session ID (uuid)"
// @Param    req body  AdjustTicketRequest true "payload"
// @Success  200 {object} checkout.Session
// @Failure  409 {object} ErrorResponse "capacity exceeded / checkout locked"
// @Router   /checkout/{id}/tickets [post]
func handleAdjustTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req AdjustTicketRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sess, err := svcs.Checkout.AdjustTicket(
			c.Request.Context(),
			sessionID,
			req.TicketTypeID,
			req.Delta,
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Remove a ticket line item
// @Param    id              path  string  true  "Session ID (uuid)"
// @Param    ticket_type_id  path  int     true  "Ticket type ID"
// @Success  200 {object} checkout.Session
// @Router   /checkout/{id}/tickets/{ticket_type_id} [delete]
func handleRemoveTicket(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		ticketTypeID, ok := parseInt64Param(c, "ticket_type_id")
		if !ok {
			return
		}
		sess, err := svcs.Checkout.RemoveTicket(c.Request.Context(), sessionID, ticketTypeID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Set customer info
// @Param    id  path  string  true  "Session ID (uuid)"
// @Param    req body  CustomerRequest true "payload"
// @Success  200 {object} checkout.Session
// @Failure  422 {object} ErrorResponse "field validation"
// @Router   /checkout/{id}/customer [post]
func handleSetCustomer(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req CustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sess, err := svcs.Checkout.SetCustomer(c.Request.Context(), sessionID, checkout.CustomerInfo{
			Name:           req.Name,
			Email:          req.Email,
			Phone:          req.Phone,
			DeliveryMethod: req.DeliveryMethod,
			Authenticated:  req.Authenticated,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Apply a coupon code
// @Param    id  path  string  true  "Session ID (uuid)"
// @Param    req body  ApplyCouponRequest true "payload"
// @Success  200 {object} checkout.Session
// @Failure  422 {object} ErrorResponse "coupon rejected"
// @Router   /checkout/{id}/coupon [post]
func handleApplyCoupon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		var req ApplyCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		sess, err := svcs.Checkout.ApplyCoupon(c.Request.Context(), sessionID, req.Code)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Remove the applied coupon
// @Param    id  path  string  true  "Session ID (uuid)"
// @Success  200 {object} checkout.Session
// @Router   /checkout/{id}/coupon [delete]
func handleRemoveCoupon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		sess, err := svcs.Checkout.RemoveCoupon(c.Request.Context(), sessionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Advance to the next step
// @Param    id  path  string  true  "Session ID (uuid)"
// @Success  200 {object} checkout.Session
// @Failure  422 {object} ErrorResponse "step validation"
// @Router   /checkout/{id}/advance [post]
func handleAdvance(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		sess, err := svcs.Checkout.Advance(c.Request.Context(), sessionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Go back one step
// @Param    id  path  string  true  "Session ID (uuid)"
// @Success  200 {object} checkout.Session
// @Router   /checkout/{id}/back [post]
func handleBack(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		sess, err := svcs.Checkout.Back(c.Request.Context(), sessionID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Initiate M-Pesa payment (idempotent)
// @Param    id  path  string  true  "Session ID (uuid)"
// @Param    req body  InitiatePaymentRequest true "payload"
// @Header   200 {string} Idempotency-Key "echo"
// @Success  200 {object} checkout.Session
// @Failure  409 {object} ErrorResponse "initiation in flight / idem in progress"
// @Failure  422 {object} ErrorResponse "precondition failed"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Failure  502 {object} ErrorResponse "gateway rejected"
// @Router   /checkout/{id}/initiate [post]
func handleInitiate(
	svcs *service.Services,
	idem *redisrepo.IdempotencyStore,
	limiter *redisrepo.SlidingWindowLimiter,
) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		// body is optional when the phone is already on the session
		var req InitiatePaymentRequest
		_ = c.ShouldBindJSON(&req)

		if limiter != nil {
			allowed, _, retryAfter, err := limiter.Allow(c.Request.Context(), "ip:"+c.ClientIP())
			if err == nil && !allowed {
				c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
				c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
				return
			}
		}

		idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
		var idemStorageKey string
		if idem != nil && idemKey != "" {
			idemStorageKey = redisrepo.KeyIdemInitiate(sessionID.String(), idemKey)

			if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
				c.Header("Idempotency-Key", idemKey)
				c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
				return
			}

			locked, err := idem.AcquireLock(c.Request.Context(), idemStorageKey, 60*time.Second)
			if err != nil {
				respondErr(c, err)
				return
			}
			if !locked {
				if payload, ok, _ := idem.GetResult(c.Request.Context(), idemStorageKey); ok {
					c.Header("Idempotency-Key", idemKey)
					c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(payload))
					return
				}
				c.Header("Retry-After", "1")
				if inProgress, _ := idem.IsLocked(c.Request.Context(), idemStorageKey); inProgress {
					c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
					return
				}
				// the lock expired between the two reads; the client retries
				c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key contention"})
				return
			}
		}

		sess, err := svcs.Checkout.Initiate(c.Request.Context(), sessionID, req.Phone)
		if err != nil {
			if idemStorageKey != "" && idem != nil {
				_ = idem.Release(c.Request.Context(), idemStorageKey)
			}
			respondErr(c, err)
			return
		}

		if idemStorageKey != "" && idem != nil {
			b, _ := json.Marshal(sess)
			_ = idem.SaveResult(c.Request.Context(), idemStorageKey, string(b))
			c.Header("Idempotency-Key", idemKey)
		}

		c.JSON(http.StatusOK, sess)
	}
}

// @Summary  Get payment record with status log
// @Param    id  path  string  true  "Payment ID (uuid)"
// @Success  200 {object} PaymentResponse
// @Failure  404 {object} ErrorResponse
// @Router   /payments/{id} [get]
func handleGetPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		p, err := svcs.Payment.Get(c.Request.Context(), paymentID)
		if err != nil {
			respondErr(c, err)
			return
		}
		logs, err := svcs.Payment.Logs(c.Request.Context(), paymentID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, paymentToResponse(p, logs))
	}
}

// @Summary  Wait for a terminal payment status (long poll)
// @Param    id  path  string  true  "Payment ID (uuid)"
// @Success  200 {object} WaitPaymentResponse
// @Failure  404 {object} ErrorResponse
// @Router   /payments/{id}/wait [get]
func handleWaitPayment(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		paymentID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		res, err := svcs.Payment.Watch(c.Request.Context(), paymentID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, WaitPaymentResponse{
			Status:   res.Status,
			Receipt:  res.Receipt,
			Reason:   res.Reason,
			TimedOut: res.TimedOut,
		})
	}
}

// @Summary  Daraja STK push callback
// @Success  200 {object} map[string]any
// @Router   /mpesa/callback [post]
func handleMpesaCallback(svcs *service.Services, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// the gateway retries on non-200, so the callback always acks;
		// failures are logged and reconciled out of band
		ack := gin.H{"ResultCode": 0, "ResultDesc": "Accepted"}

		cb, err := daraja.ParseCallback(c.Request.Body)
		if err != nil {
			logger.Error("malformed mpesa callback", "error", err)
			c.JSON(http.StatusOK, ack)
			return
		}

		if _, err := svcs.Checkout.CompleteFromCallback(c.Request.Context(), cb); err != nil {
			logger.Error("processing mpesa callback",
				"checkout_request_id", cb.CheckoutRequestID, "error", err)
		}

		c.JSON(http.StatusOK, ack)
	}
}

// @Summary  Validate a coupon against a subtotal
// @Param    req body  ValidateCouponRequest true "payload"
// @Success  200 {object} ValidateCouponResponse
// @Router   /coupons/validate [post]
func handleValidateCoupon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ValidateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		res, err := svcs.Coupon.Apply(c.Request.Context(), req.Code, req.Subtotal)
		if err != nil {
			var rej *coupon.RejectedError
			if errors.As(err, &rej) {
				c.JSON(http.StatusOK, ValidateCouponResponse{Valid: false, Reason: rej.Reason})
				return
			}
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, ValidateCouponResponse{
			Valid:    true,
			Code:     res.Coupon.Code,
			Discount: res.Discount,
		})
	}
}

// @Summary  Get order with tickets
// @Param    id  path  string  true  "Order ID (uuid)"
// @Success  200 {object} domain.OrderWithTickets
// @Router   /orders/{id} [get]
func handleGetOrder(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseUUIDParam(c, "id")
		if !ok {
			return
		}
		o, err := svcs.Orders.Get(c.Request.Context(), orderID)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	}
}

// @Summary  Create event with ticket types
// @Param    req body  CreateEventRequest true "payload"
// @Success  201 {object} CreateEventResponse
// @Router   /admin/events [post]
func handleCreateEvent(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		starts, err := parseRFC3339(req.StartsAt)
		if err != nil {
			badRequest(c, "invalid starts_at (RFC3339)")
			return
		}
		ends, err := parseRFC3339(req.EndsAt)
		if err != nil {
			badRequest(c, "invalid ends_at (RFC3339)")
			return
		}

		var tts []domain.TicketType
		for _, in := range req.TicketTypes {
			tts = append(tts, domain.TicketType{
				Name:     in.Name,
				Price:    in.Price,
				Capacity: in.Capacity,
			})
		}

		id, err := svcs.Admin.CreateEvent(c.Request.Context(), req.Title, req.Venue, starts, ends, tts)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateEventResponse{EventID: id})
	}
}

// @Summary  Add a ticket type to an event
// @Param    id  path  int  true  "Event ID"
// @Param    req body  TicketTypeInput true "payload"
// @Success  201 {object} CreateTicketTypeResponse
// @Router   /admin/events/{id}/ticket-types [post]
func handleCreateTicketType(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req TicketTypeInput
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		id, err := svcs.Admin.CreateTicketType(c.Request.Context(), domain.TicketType{
			EventID:  eventID,
			Name:     req.Name,
			Price:    req.Price,
			Capacity: req.Capacity,
		})
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateTicketTypeResponse{TicketTypeID: id})
	}
}

// @Summary  Create coupon
// @Param    req body  CreateCouponRequest true "payload"
// @Success  201 {object} CreateCouponResponse
// @Failure  409 {object} ErrorResponse
// @Router   /admin/coupons [post]
func handleCreateCoupon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateCouponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		cpn := domain.Coupon{
			Code:           req.Code,
			DiscountType:   domain.DiscountType(req.DiscountType),
			DiscountValue:  req.DiscountValue,
			MinOrderAmount: req.MinOrderAmount,
		}
		if req.ExpiresAt != "" {
			exp, err := parseRFC3339(req.ExpiresAt)
			if err != nil {
				badRequest(c, "invalid expires_at (RFC3339)")
				return
			}
			cpn.ExpiresAt = &exp
		}

		id, err := svcs.Admin.CreateCoupon(c.Request.Context(), cpn)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, CreateCouponResponse{CouponID: id})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	v, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return uuid.Nil, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var verr *checkout.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Fields: verr.Fields,
		})
		return
	}

	var pverr *payment.ValidationError
	if errors.As(err, &pverr) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:  "validation failed",
			Fields: pverr.Fields,
		})
		return
	}

	var rej *coupon.RejectedError
	if errors.As(err, &rej) {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: rej.Reason})
		return
	}

	var capErr *cart.CapacityExceededError
	if errors.As(err, &capErr) {
		c.JSON(http.StatusConflict, ErrorResponse{Error: capErr.Error()})
		return
	}

	var ierr *payment.InitiationError
	if errors.As(err, &ierr) {
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: ierr.Error()})
		return
	}

	switch {
	// checkout service
	case errors.Is(err, checkout.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "checkout session not found"})
	case errors.Is(err, checkout.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
	case errors.Is(err, checkout.ErrTicketTypeNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "ticket type not found"})
	case errors.Is(err, checkout.ErrCheckoutLocked):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "checkout is locked after payment initiation"})
	case errors.Is(err, checkout.ErrInitiationInFlight):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "payment initiation already in flight"})
	case errors.Is(err, checkout.ErrInitiateRequired):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "use the initiate endpoint to proceed to confirmation"})
	case errors.Is(err, checkout.ErrNotAtPaymentStep):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "payment can only be initiated from the payment details step"})
	// catalog service
	case errors.Is(err, catalog.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
	// payment service
	case errors.Is(err, payment.ErrPaymentNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "payment not found"})
	// orders service
	case errors.Is(err, orders.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "order not found"})
	// admin service
	case errors.Is(err, admin.ErrEventConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "event conflict"})
	case errors.Is(err, admin.ErrCouponConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "coupon code already exists"})
	case errors.Is(err, admin.ErrEventNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "event not found"})
	// repository
	case errors.Is(err, repository.ErrCapacityExceeded):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "not enough tickets available"})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
