package service

import (
	"log/slog"

	"github.com/naksyetu/naksyetu-go/internal/daraja"
	postgres "github.com/naksyetu/naksyetu-go/internal/repository/postgres"
	redis "github.com/naksyetu/naksyetu-go/internal/repository/redis"
	"github.com/naksyetu/naksyetu-go/internal/service/admin"
	"github.com/naksyetu/naksyetu-go/internal/service/catalog"
	"github.com/naksyetu/naksyetu-go/internal/service/checkout"
	"github.com/naksyetu/naksyetu-go/internal/service/coupon"
	"github.com/naksyetu/naksyetu-go/internal/service/orders"
	"github.com/naksyetu/naksyetu-go/internal/service/payment"
	"github.com/naksyetu/naksyetu-go/internal/uow"
)

type Services struct {
	Catalog  *catalog.Service
	Coupon   *coupon.Service
	Payment  *payment.Service
	Checkout *checkout.Service
	Orders   *orders.Service
	Admin    *admin.Service
}

type Config struct {
	Catalog catalog.Config
	Payment payment.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	sessions *redis.SessionStore,
	pubsub *redis.PaymentsPubSub,
	gateway *daraja.Client,
	logger *slog.Logger,
	cfg Config,
) *Services {
	catalogSvc := catalog.New(store, cache, cfg.Catalog)
	couponSvc := coupon.New(store.Coupons())
	ordersSvc := orders.New(store, uow.NewUoW(store), cache)
	paymentSvc := payment.New(gateway, store.Payments(), pubsub, pubsub, cfg.Payment)
	checkoutSvc := checkout.New(catalogSvc, sessions, couponSvc, paymentSvc, ordersSvc, logger)

	return &Services{
		Catalog:  catalogSvc,
		Coupon:   couponSvc,
		Payment:  paymentSvc,
		Checkout: checkoutSvc,
		Orders:   ordersSvc,
		Admin:    admin.New(store, cache),
	}
}
