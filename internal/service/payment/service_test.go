package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/naksyetu/naksyetu-go/internal/daraja"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/naksyetu/naksyetu-go/internal/repository"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) STKPush(ctx context.Context, phone string, amount decimal.Decimal, accountRef, description string) (*daraja.STKPushResponse, error) {
	args := m.Called(ctx, phone, amount, accountRef, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*daraja.STKPushResponse), args.Error(1)
}

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) Create(ctx context.Context, p *domain.Payment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockRecords) Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockRecords) GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *mockRecords) SetPending(ctx context.Context, id uuid.UUID, providerRef string) error {
	args := m.Called(ctx, id, providerRef)
	return args.Error(0)
}

func (m *mockRecords) SetProcessing(ctx context.Context, id uuid.UUID, detail string) error {
	args := m.Called(ctx, id, detail)
	return args.Error(0)
}

func (m *mockRecords) SetTerminal(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, receipt, reason string) error {
	args := m.Called(ctx, id, status, receipt, reason)
	return args.Error(0)
}

func (m *mockRecords) Logs(ctx context.Context, id uuid.UUID) ([]domain.PaymentLogEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentLogEntry), args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) PublishPaymentChanged(ctx context.Context, paymentID uuid.UUID, status domain.PaymentStatus) error {
	args := m.Called(ctx, paymentID, status)
	return args.Error(0)
}

func newTestService(gw Gateway, records Records, notifier Notifier) *Service {
	return New(gw, records, notifier, nil, Config{AccountPrefix: "NAKSYETU"})
}

func TestInitiateInvalidPhoneSkipsGateway(t *testing.T) {
	gw := new(mockGateway)
	records := new(mockRecords)
	svc := newTestService(gw, records, nil)

	_, err := svc.Initiate(context.Background(), InitiateRequest{
		SessionID: uuid.New(),
		EventID:   7,
		Phone:     "12345",
		Amount:    decimal.NewFromInt(4800),
	})

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "mpesaPhoneNumber")

	gw.AssertNotCalled(t, "STKPush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInitiateNonPositiveAmountSkipsGateway(t *testing.T) {
	gw := new(mockGateway)
	records := new(mockRecords)
	svc := newTestService(gw, records, nil)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-100)} {
		_, err := svc.Initiate(context.Background(), InitiateRequest{
			SessionID: uuid.New(),
			EventID:   7,
			Phone:     "0712345678",
			Amount:    amount,
		})

		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "amount")
	}

	gw.AssertNotCalled(t, "STKPush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	records.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestInitiateGatewayRejectionMarksRecordFailed(t *testing.T) {
	gw := new(mockGateway)
	records := new(mockRecords)
	svc := newTestService(gw, records, nil)

	records.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.Status == domain.PaymentInitiating && p.ProviderRequestID == ""
	})).Return(nil)
	gw.On("STKPush", mock.Anything, "254712345678", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &daraja.APIError{ErrorCode: "500.001.1001", ErrorMessage: "Unable to lock subscriber"})
	records.On("SetTerminal", mock.Anything, mock.Anything, domain.PaymentFailed, "", "Unable to lock subscriber").
		Return(nil)

	_, err := svc.Initiate(context.Background(), InitiateRequest{
		SessionID: uuid.New(),
		EventID:   7,
		Phone:     "0712345678",
		Amount:    decimal.NewFromInt(4800),
	})

	var ierr *InitiationError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "Unable to lock subscriber", ierr.Reason)
	assert.Equal(t, "500.001.1001", ierr.Code)

	records.AssertExpectations(t)
}

func TestInitiateTransportErrorYieldsGenericMessage(t *testing.T) {
	gw := new(mockGateway)
	records := new(mockRecords)
	svc := newTestService(gw, records, nil)

	records.On("Create", mock.Anything, mock.Anything).Return(nil)
	gw.On("STKPush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("dial tcp: connection refused"))
	records.On("SetTerminal", mock.Anything, mock.Anything, domain.PaymentFailed, "",
		"payment could not be initiated, please try again").Return(nil)

	_, err := svc.Initiate(context.Background(), InitiateRequest{
		SessionID: uuid.New(),
		EventID:   7,
		Phone:     "0712345678",
		Amount:    decimal.NewFromInt(4800),
	})

	var ierr *InitiationError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "payment could not be initiated, please try again", ierr.Error())
	records.AssertExpectations(t)
}

func TestInitiateSuccessCreatesPendingRecord(t *testing.T) {
	gw := new(mockGateway)
	records := new(mockRecords)
	svc := newTestService(gw, records, nil)

	sessionID := uuid.New()

	// the record is written before the gateway call, without a reference
	records.On("Create", mock.Anything, mock.MatchedBy(func(p *domain.Payment) bool {
		return p.SessionID == sessionID &&
			p.Status == domain.PaymentInitiating &&
			p.Phone == "254712345678" &&
			p.ProviderRequestID == ""
	})).Return(nil)

	gw.On("STKPush", mock.Anything, "254712345678", mock.Anything, "NAKSYETU-7", "Rift Valley Festival").
		Return(&daraja.STKPushResponse{
			MerchantRequestID: "29115-34620561-1",
			CheckoutRequestID: "ws_CO_191220191020363925",
			ResponseCode:      "0",
		}, nil)

	records.On("SetPending", mock.Anything, mock.Anything, "ws_CO_191220191020363925").Return(nil)

	p, err := svc.Initiate(context.Background(), InitiateRequest{
		SessionID:  sessionID,
		EventID:    7,
		EventTitle: "Rift Valley Festival",
		Phone:      "0712 345 678",
		Amount:     decimal.NewFromInt(4800),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPending, p.Status)
	assert.Equal(t, "ws_CO_191220191020363925", p.ProviderRequestID)
	assert.False(t, p.Status.Terminal())
	assert.True(t, p.Amount.Equal(decimal.NewFromInt(4800)))

	records.AssertExpectations(t)
	gw.AssertExpectations(t)
}

func TestInitiatePromotionFailureReturnsPaymentForReattach(t *testing.T) {
	gw := new(mockGateway)
	records := new(mockRecords)
	svc := newTestService(gw, records, nil)

	records.On("Create", mock.Anything, mock.Anything).Return(nil)
	gw.On("STKPush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&daraja.STKPushResponse{CheckoutRequestID: "ws_CO_9"}, nil)
	records.On("SetPending", mock.Anything, mock.Anything, "ws_CO_9").
		Return(errors.New("connection reset"))

	p, err := svc.Initiate(context.Background(), InitiateRequest{
		SessionID: uuid.New(),
		EventID:   7,
		Phone:     "0712345678",
		Amount:    decimal.NewFromInt(4800),
	})

	// the push went out; the caller gets the record back with the error so
	// it can reattach instead of prompting the payer again
	require.Error(t, err)
	require.NotNil(t, p)
	assert.Equal(t, domain.PaymentUnknown, p.Status)
	assert.Equal(t, "ws_CO_9", p.ProviderRequestID)
}

func TestInitiateAccountReferenceTruncated(t *testing.T) {
	gw := new(mockGateway)
	records := new(mockRecords)
	svc := newTestService(gw, records, nil)

	var gotRef string
	gw.On("STKPush", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			gotRef = args.String(3)
		}).
		Return(&daraja.STKPushResponse{CheckoutRequestID: "ws_CO_1"}, nil)
	records.On("Create", mock.Anything, mock.Anything).Return(nil)
	records.On("SetPending", mock.Anything, mock.Anything, "ws_CO_1").Return(nil)

	_, err := svc.Initiate(context.Background(), InitiateRequest{
		SessionID: uuid.New(),
		EventID:   123456789,
		Phone:     "0712345678",
		Amount:    decimal.NewFromInt(100),
	})

	require.NoError(t, err)
	assert.Len(t, gotRef, 12)
	assert.Equal(t, "NAKSYETU-123", gotRef)
}

func TestGetNotFound(t *testing.T) {
	records := new(mockRecords)
	svc := newTestService(nil, records, nil)

	id := uuid.New()
	records.On("Get", mock.Anything, id).Return(nil, repository.ErrNotFound)

	_, err := svc.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}

func TestApplyCallbackSuccess(t *testing.T) {
	records := new(mockRecords)
	notifier := new(mockNotifier)
	svc := newTestService(nil, records, notifier)

	id := uuid.New()
	pending := &domain.Payment{ID: id, Status: domain.PaymentPending, ProviderRequestID: "ws_CO_1"}
	completed := &domain.Payment{ID: id, Status: domain.PaymentCompleted, MpesaReceipt: "NLJ7RT61SV"}

	records.On("GetByProviderRef", mock.Anything, "ws_CO_1").Return(pending, nil)
	records.On("SetProcessing", mock.Anything, id, mock.Anything).Return(nil)
	records.On("SetTerminal", mock.Anything, id, domain.PaymentCompleted, "NLJ7RT61SV", "").Return(nil)
	records.On("Get", mock.Anything, id).Return(completed, nil)
	notifier.On("PublishPaymentChanged", mock.Anything, id, domain.PaymentCompleted).Return(nil)

	p, err := svc.ApplyCallback(context.Background(), &daraja.CallbackResult{
		CheckoutRequestID: "ws_CO_1",
		Success:           true,
		Receipt:           "NLJ7RT61SV",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
	assert.Equal(t, "NLJ7RT61SV", p.MpesaReceipt)

	records.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestApplyCallbackFailureCarriesReason(t *testing.T) {
	records := new(mockRecords)
	notifier := new(mockNotifier)
	svc := newTestService(nil, records, notifier)

	id := uuid.New()
	pending := &domain.Payment{ID: id, Status: domain.PaymentPending, ProviderRequestID: "ws_CO_2"}
	failed := &domain.Payment{ID: id, Status: domain.PaymentFailed, ErrorReason: "Request cancelled by user"}

	records.On("GetByProviderRef", mock.Anything, "ws_CO_2").Return(pending, nil)
	records.On("SetProcessing", mock.Anything, id, mock.Anything).Return(nil)
	records.On("SetTerminal", mock.Anything, id, domain.PaymentFailed, "", "Request cancelled by user").Return(nil)
	records.On("Get", mock.Anything, id).Return(failed, nil)
	notifier.On("PublishPaymentChanged", mock.Anything, id, domain.PaymentFailed).Return(nil)

	p, err := svc.ApplyCallback(context.Background(), &daraja.CallbackResult{
		CheckoutRequestID: "ws_CO_2",
		Success:           false,
		ResultCode:        1032,
		ResultDesc:        "Request cancelled by user",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, p.Status)
	assert.Equal(t, "Request cancelled by user", p.ErrorReason)
}

func TestApplyCallbackDuplicateAbsorbed(t *testing.T) {
	records := new(mockRecords)
	notifier := new(mockNotifier)
	svc := newTestService(nil, records, notifier)

	id := uuid.New()
	stored := &domain.Payment{ID: id, Status: domain.PaymentCompleted, MpesaReceipt: "NLJ7RT61SV", ProviderRequestID: "ws_CO_3"}

	records.On("GetByProviderRef", mock.Anything, "ws_CO_3").Return(stored, nil)
	records.On("SetProcessing", mock.Anything, id, mock.Anything).Return(nil)
	records.On("SetTerminal", mock.Anything, id, domain.PaymentFailed, "", "late failure").
		Return(repository.ErrPaymentTerminal)

	p, err := svc.ApplyCallback(context.Background(), &daraja.CallbackResult{
		CheckoutRequestID: "ws_CO_3",
		Success:           false,
		ResultDesc:        "late failure",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, p.Status)
	assert.Equal(t, "NLJ7RT61SV", p.MpesaReceipt)

	notifier.AssertNotCalled(t, "PublishPaymentChanged", mock.Anything, mock.Anything, mock.Anything)
}

func TestApplyCallbackUnknownReference(t *testing.T) {
	records := new(mockRecords)
	svc := newTestService(nil, records, nil)

	records.On("GetByProviderRef", mock.Anything, "ws_CO_unknown").Return(nil, repository.ErrNotFound)

	_, err := svc.ApplyCallback(context.Background(), &daraja.CallbackResult{CheckoutRequestID: "ws_CO_unknown"})
	assert.ErrorIs(t, err, ErrPaymentNotFound)
}
