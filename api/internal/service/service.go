package service

import (
	"context"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/infra/nats"
	"tronwatch/api/internal/infra/trongrid"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/repository"

	"gorm.io/gorm"
)

type Payments interface {
	Create(data *NewPaymentData) (*domain.Payments, error)
	// public status shape, internal fields stripped
	GetStatus(paymentId string) (*domain.ResponsePaymentInfo, error)
	Stats() (*domain.ResponseStats, error)
}

// Ledger is the transaction-history query surface of the chain API
type Ledger interface {
	FetchTransfers(ctx context.Context, address string, minTimestamp int64) ([]trongrid.Transfer, error)
}

type Matcher interface {
	ProcessPayment(ctx context.Context, payment *domain.Payments) Outcome
}

type Monitor interface {
	Start()
	Stop()
}

type WebhookSender interface {
	Deliver(payment *domain.Payments, info domain.WebhookPayload) error
	UpdateList(proxies []string)
	GetList() []string
}

type QrCodes interface {
	// generates qr code and saves it to cache
	New(content string) (string, error)
	// returns qr code from cache or generates new one
	FindOrNew(content string) (string, error)
}

type Services struct {
	Payments      Payments
	Matcher       Matcher
	Monitor       Monitor
	WebhookSender WebhookSender
	QrCodes       QrCodes
}

func NewServices(db *gorm.DB, natsinfra *nats.NatsInfra, l logger.Logger, config *config.Config) *Services {
	repos := repository.New()

	ledger := trongrid.New(config.TronGrid.BaseUrl, config.TronGrid.ApiKey)

	webhookSender := NewWebhookSenderService(config.ProxyList, repos.Payments, repos.PaymentEvents, db, l)
	matcher := NewMatcherService(db, repos.Payments, repos.PaymentEvents, ledger, webhookSender, natsinfra, l, config)
	monitor := NewMonitorService(db, repos.Payments, repos.PaymentEvents, matcher, natsinfra, l, config)

	return &Services{
		Payments:      NewPaymentsService(db, repos.Payments, repos.PaymentEvents, l, config),
		Matcher:       matcher,
		Monitor:       monitor,
		WebhookSender: webhookSender,
		QrCodes:       NewQrCodesService(),
	}
}
