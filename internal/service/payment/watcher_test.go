package payment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naksyetu/naksyetu-go/internal/domain"
)

// fakeWatchRecords is a Records stand-in whose status can flip mid-watch.
type fakeWatchRecords struct {
	mu sync.Mutex
	p  domain.Payment
}

func (f *fakeWatchRecords) Create(ctx context.Context, p *domain.Payment) error { return nil }

func (f *fakeWatchRecords) Get(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := f.p
	return &p, nil
}

func (f *fakeWatchRecords) GetByProviderRef(ctx context.Context, ref string) (*domain.Payment, error) {
	return f.Get(ctx, uuid.Nil)
}

func (f *fakeWatchRecords) SetPending(ctx context.Context, id uuid.UUID, providerRef string) error {
	return nil
}

func (f *fakeWatchRecords) SetProcessing(ctx context.Context, id uuid.UUID, detail string) error {
	return nil
}

func (f *fakeWatchRecords) SetTerminal(ctx context.Context, id uuid.UUID, status domain.PaymentStatus, receipt, reason string) error {
	f.setStatus(status, receipt, reason)
	return nil
}

func (f *fakeWatchRecords) Logs(ctx context.Context, id uuid.UUID) ([]domain.PaymentLogEntry, error) {
	return nil, nil
}

func (f *fakeWatchRecords) setStatus(status domain.PaymentStatus, receipt, reason string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.p.Status = status
	f.p.MpesaReceipt = receipt
	f.p.ErrorReason = reason
}

// fakeSubscriber counts subscribe and unsubscribe calls and hands the test
// the registered onChange callback so it can fire notifications directly.
type fakeSubscriber struct {
	mu           sync.Mutex
	subscribes   int
	unsubscribes int
	onChange     func(domain.PaymentStatus)
	beforeReturn func()
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, paymentID uuid.UUID, onChange func(domain.PaymentStatus)) (func(), error) {
	f.mu.Lock()
	f.subscribes++
	f.onChange = onChange
	hook := f.beforeReturn
	f.mu.Unlock()

	if hook != nil {
		hook()
	}

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubscribes++
	}, nil
}

func (f *fakeSubscriber) notify(status domain.PaymentStatus) {
	f.mu.Lock()
	cb := f.onChange
	f.mu.Unlock()
	if cb != nil {
		cb(status)
	}
}

func (f *fakeSubscriber) counts() (subs, unsubs int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribes, f.unsubscribes
}

func newWatchService(records Records, sub Subscriber, timeout, poll time.Duration) *Service {
	return New(nil, records, nil, sub, Config{WatchTimeout: timeout, PollInterval: poll})
}

func TestWatchAlreadyTerminalSkipsSubscription(t *testing.T) {
	records := &fakeWatchRecords{p: domain.Payment{
		ID:           uuid.New(),
		Status:       domain.PaymentCompleted,
		MpesaReceipt: "NLJ7RT61SV",
	}}
	sub := &fakeSubscriber{}
	svc := newWatchService(records, sub, time.Second, 10*time.Millisecond)

	res, err := svc.Watch(context.Background(), records.p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, res.Status)
	assert.Equal(t, "NLJ7RT61SV", res.Receipt)
	assert.False(t, res.TimedOut)

	subs, unsubs := sub.counts()
	assert.Zero(t, subs)
	assert.Zero(t, unsubs)
}

func TestWatchNotificationResolvesWatch(t *testing.T) {
	id := uuid.New()
	records := &fakeWatchRecords{p: domain.Payment{ID: id, Status: domain.PaymentPending}}
	sub := &fakeSubscriber{}
	svc := newWatchService(records, sub, 5*time.Second, time.Second)

	go func() {
		time.Sleep(20 * time.Millisecond)
		records.setStatus(domain.PaymentCompleted, "NLJ7RT61SV", "")
		sub.notify(domain.PaymentCompleted)
	}()

	res, err := svc.Watch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, res.Status)
	assert.Equal(t, "NLJ7RT61SV", res.Receipt)

	subs, unsubs := sub.counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, unsubs)
}

func TestWatchPollFallbackResolvesWatch(t *testing.T) {
	id := uuid.New()
	records := &fakeWatchRecords{p: domain.Payment{ID: id, Status: domain.PaymentPending}}
	sub := &fakeSubscriber{}
	svc := newWatchService(records, sub, 5*time.Second, 10*time.Millisecond)

	// the status flips but no notification ever arrives
	go func() {
		time.Sleep(25 * time.Millisecond)
		records.setStatus(domain.PaymentFailed, "", "Request cancelled by user")
	}()

	res, err := svc.Watch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentFailed, res.Status)
	assert.Equal(t, "Request cancelled by user", res.Reason)

	subs, unsubs := sub.counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, unsubs)
}

func TestWatchTimeoutYieldsUnknown(t *testing.T) {
	id := uuid.New()
	records := &fakeWatchRecords{p: domain.Payment{ID: id, Status: domain.PaymentPending}}
	sub := &fakeSubscriber{}
	svc := newWatchService(records, sub, 30*time.Millisecond, 10*time.Millisecond)

	res, err := svc.Watch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentUnknown, res.Status)
	assert.True(t, res.TimedOut)

	subs, unsubs := sub.counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, unsubs)
}

func TestWatchContextCancelReleasesSubscription(t *testing.T) {
	id := uuid.New()
	records := &fakeWatchRecords{p: domain.Payment{ID: id, Status: domain.PaymentPending}}
	sub := &fakeSubscriber{}
	svc := newWatchService(records, sub, 5*time.Second, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := svc.Watch(ctx, id)
	require.ErrorIs(t, err, context.Canceled)

	subs, unsubs := sub.counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, unsubs)
}

func TestWatchTerminalRaceBetweenGetAndSubscribe(t *testing.T) {
	// the record goes terminal after the first read but before the post
	// subscribe re-read; the watch must still resolve and release exactly
	// one subscription
	id := uuid.New()
	records := &fakeWatchRecords{p: domain.Payment{ID: id, Status: domain.PaymentPending}}
	sub := &fakeSubscriber{}
	sub.beforeReturn = func() {
		records.setStatus(domain.PaymentCompleted, "NLJ7RT61SV", "")
	}
	svc := newWatchService(records, sub, 5*time.Second, time.Second)

	res, err := svc.Watch(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentCompleted, res.Status)
	assert.Equal(t, "NLJ7RT61SV", res.Receipt)

	subs, unsubs := sub.counts()
	assert.Equal(t, 1, subs)
	assert.Equal(t, 1, unsubs)
}
