package service

import (
	"errors"
	"time"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/infra/postgres"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentsService struct {
	repo   repository.Payments
	events repository.PaymentEvents
	db     *gorm.DB
	l      logger.Logger
	config *config.Config
}

func NewPaymentsService(db *gorm.DB, repo repository.Payments, events repository.PaymentEvents, l logger.Logger, config *config.Config) *PaymentsService {
	return &PaymentsService{repo: repo, events: events, db: db, l: l, config: config}
}

// validated input from the delivery layer
type NewPaymentData struct {
	WalletAddress  string
	ExpectedAmount decimal.Decimal
	CallbackURL    string
	OrderID        string
}

func (s *PaymentsService) Create(data *NewPaymentData) (*domain.Payments, error) {
	var errid = logger.GenErrorId()

	payment := &domain.Payments{
		PaymentID:      uuid.NewString(),
		OrderID:        data.OrderID,
		WalletAddress:  data.WalletAddress,
		ExpectedAmount: data.ExpectedAmount,
		CallbackURL:    data.CallbackURL,
		Status:         domain.STATUS_PENDING,
		// start scanning at creation time, older transfers cannot pay
		// this request
		LastCheckedTimestamp: time.Now().UnixMilli(),
	}

	err := s.repo.Create(s.db, payment)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateOrderId) {
			return nil, err
		}

		s.l.TemplPaymentErr("payment create error: "+err.Error(), errid, payment.PaymentID, payment.ExpectedAmount, payment.OrderID, logger.NA, logger.NA)
		return nil, domain.ErrInternalServerError
	}

	if err := s.events.Create(s.db, payment.PaymentID, domain.EVENT_CREATED, "payment watch created", ""); err != nil {
		s.l.Debug("create event error: "+err.Error(), "payment_id", payment.PaymentID)
	}

	s.l.TemplPaymentInfo("payment watch created", payment.PaymentID, payment.ExpectedAmount, payment.OrderID)

	return payment, nil
}

func (s *PaymentsService) GetStatus(paymentId string) (*domain.ResponsePaymentInfo, error) {
	// validate uuid (to avoid unnecessary database queries)
	if uuid.Validate(paymentId) != nil {
		return nil, domain.ErrInvalidPaymentId
	}

	var errid = logger.GenErrorId()

	payment, err := s.repo.FindByID(s.db, paymentId)
	if err != nil {
		if postgres.IsNotFound(err) {
			return nil, domain.ErrPaymentNotFound
		}

		s.l.TemplPaymentErr("find payment by id error: "+err.Error(), errid, paymentId, decimal.Zero, logger.NA, logger.NA, logger.NA)
		return nil, domain.ErrInternalServerError
	}

	return paymentInfo(payment), nil
}

func (s *PaymentsService) Stats() (*domain.ResponseStats, error) {
	counts, err := s.repo.CountByStatus(s.db)
	if err != nil {
		s.l.Error("count by status error", logger.LS_PAYMENTS, false, "error", err.Error())
		return nil, domain.ErrInternalServerError
	}

	stats := &domain.ResponseStats{
		PendingPayments:   counts[domain.STATUS_PENDING],
		CompletedPayments: counts[domain.STATUS_COMPLETED],
		FailedPayments:    counts[domain.STATUS_FAILED],
		ExpiredPayments:   counts[domain.STATUS_EXPIRED],
	}
	stats.TotalPayments = stats.PendingPayments + stats.CompletedPayments + stats.FailedPayments + stats.ExpiredPayments

	return stats, nil
}

func paymentInfo(p *domain.Payments) *domain.ResponsePaymentInfo {
	info := &domain.ResponsePaymentInfo{
		Id:                 p.PaymentID,
		WalletAddress:      p.WalletAddress,
		ExpectedAmountUsdt: p.ExpectedAmount,
		OrderId:            p.OrderID,
		Status:             p.Status.ToString(),
		TransactionHash:    p.TxHash,
		ReceivedAmountUsdt: p.ReceivedAmount,
		CreatedAt:          p.CreatedAt.Unix(),
	}

	if p.CompletedAt != nil {
		completedAt := p.CompletedAt.Unix()
		info.CompletedAt = &completedAt
	}

	return info
}
