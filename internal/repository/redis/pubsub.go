package redis

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/naksyetu/naksyetu-go/internal/domain"
	"github.com/redis/go-redis/v9"
)

// PaymentsPubSub broadcasts payment status changes over a single channel.
// Watchers subscribe per payment ID and filter locally.
type PaymentsPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewPaymentsPubSub(rdb *redis.Client) *PaymentsPubSub {
	return &PaymentsPubSub{
		rdb:     rdb,
		channel: ChannelPaymentsChanged(),
	}
}

type paymentChangedMsg struct {
	Type      string `json:"type"`
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
	TsUnix    int64  `json:"ts_unix"`
}

func (p *PaymentsPubSub) PublishPaymentChanged(
	ctx context.Context,
	paymentID uuid.UUID,
	status domain.PaymentStatus,
) error {
	msg := paymentChangedMsg{
		Type:      "payment_changed",
		PaymentID: paymentID.String(),
		Status:    string(status),
		TsUnix:    time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

// Subscribe starts watching for status changes of one payment and returns an
// unsubscribe handle. The handle is safe to call more than once; the
// underlying subscription is released exactly once.
func (p *PaymentsPubSub) Subscribe(
	ctx context.Context,
	paymentID uuid.UUID,
	onChange func(status domain.PaymentStatus),
) (func(), error) {
	sub := p.rdb.Subscribe(ctx, p.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, err
	}

	done := make(chan struct{})
	want := paymentID.String()

	go func() {
		ch := sub.Channel(redis.WithChannelSize(64))
		for {
			select {
			case <-ctx.Done():
				return
			case <-done:
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg paymentChangedMsg
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					continue
				}
				if msg.PaymentID == want {
					onChange(domain.PaymentStatus(msg.Status))
				}
			}
		}
	}()

	var once sync.Once
	unsubscribe := func() {
		once.Do(func() {
			close(done)
			_ = sub.Close()
		})
	}

	return unsubscribe, nil
}
