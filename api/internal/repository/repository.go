package repository

import (
	"time"

	"tronwatch/api/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payments interface {
	Create(tx *gorm.DB, payment *domain.Payments) error
	FindByID(tx *gorm.DB, paymentId string) (*domain.Payments, error)
	FindPendingByOrderID(tx *gorm.DB, orderId string) (*domain.Payments, error)
	ListPending(tx *gorm.DB) ([]domain.Payments, error)
	ListExpirable(tx *gorm.DB, cutoff time.Time) ([]domain.Payments, error)
	// conditional transitions, guarded by status = pending
	MarkCompleted(tx *gorm.DB, paymentId string, txHash string, received decimal.Decimal) error
	MarkExpired(tx *gorm.DB, paymentId string) error
	AdvanceCheckpoint(tx *gorm.DB, paymentId string, timestampMs int64) error
	MarkCallbackAttempt(tx *gorm.DB, paymentId string) error
	MarkCallbackDelivered(tx *gorm.DB, paymentId string) error
	CountByStatus(tx *gorm.DB) (map[domain.Status]int64, error)
}

type PaymentEvents interface {
	Create(tx *gorm.DB, paymentId string, eventType string, message string, payload string) error
	ListByPayment(tx *gorm.DB, paymentId string) ([]domain.PaymentEvents, error)
}

type Repositories struct {
	Payments      Payments
	PaymentEvents PaymentEvents
}

func New() *Repositories {
	return &Repositories{
		Payments:      InitPaymentsRepo(),
		PaymentEvents: InitPaymentEventsRepo(),
	}
}
