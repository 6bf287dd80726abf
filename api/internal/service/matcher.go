package service

import (
	"context"
	"errors"
	"time"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/infra/nats"
	"tronwatch/api/internal/infra/trongrid"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/repository"
	"tronwatch/pkg/nats/natsdomain"
	"tronwatch/pkg/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Outcome uint8

const (
	OutcomeNoMatch Outcome = iota
	OutcomeMatched
	OutcomeQueryFailed
)

var Outcomes = [...]string{"no_match", "matched", "query_failed"}

func (o Outcome) ToString() string {
	return Outcomes[o]
}

type MatcherService struct {
	payments  repository.Payments
	events    repository.PaymentEvents
	ledger    Ledger
	webhook   WebhookSender
	natsinfra *nats.NatsInfra
	db        *gorm.DB
	l         logger.Logger
	config    *config.Config
}

func NewMatcherService(db *gorm.DB, payments repository.Payments, events repository.PaymentEvents, ledger Ledger, webhook WebhookSender, natsinfra *nats.NatsInfra, l logger.Logger, config *config.Config) *MatcherService {
	return &MatcherService{payments: payments, events: events, ledger: ledger, webhook: webhook, natsinfra: natsinfra, db: db, l: l, config: config}
}

// ProcessPayment scans new transfers for one pending payment. on a query
// failure the checkpoint is frozen so no transfer is skipped, on success
// it advances to the fetch wall-clock whether or not a match was found
func (s *MatcherService) ProcessPayment(ctx context.Context, payment *domain.Payments) Outcome {
	fetchTime := time.Now().UnixMilli()

	if err := s.events.Create(s.db, payment.PaymentID, domain.EVENT_CHECKING, "checking transfers", ""); err != nil {
		s.l.Debug("create event error: "+err.Error(), "payment_id", payment.PaymentID)
	}

	transfers, err := s.ledger.FetchTransfers(ctx, payment.WalletAddress, payment.LastCheckedTimestamp)
	if err != nil {
		// no new information. checkpoint stays put, retried next tick
		s.events.Create(s.db, payment.PaymentID, domain.EVENT_API_ERROR, err.Error(), "")
		s.l.TemplMonitorErr("fetch transfers error", payment.PaymentID, err)
		return OutcomeQueryFailed
	}

	outcome := OutcomeNoMatch
	for _, tx := range transfers {
		received, ok := s.qualifies(payment, tx)
		if !ok {
			continue
		}

		// first qualifying transfer wins, the rest of the batch is
		// ignored this cycle
		s.complete(payment, tx, received)
		outcome = OutcomeMatched
		break
	}

	if err := s.payments.AdvanceCheckpoint(s.db, payment.PaymentID, fetchTime); err != nil {
		s.l.TemplMonitorErr("advance checkpoint error", payment.PaymentID, err)
	}

	return outcome
}

func (s *MatcherService) qualifies(payment *domain.Payments, tx trongrid.Transfer) (decimal.Decimal, bool) {
	if tx.To != payment.WalletAddress {
		return decimal.Zero, false
	}
	if tx.TokenInfo.Address != s.config.UsdtContract {
		return decimal.Zero, false
	}

	received, err := domain.AmountFromRaw(tx.Value, tx.TokenInfo.Decimals)
	if err != nil {
		s.l.Debug("bad transfer value: "+err.Error(), "tx_hash", tx.TransactionID, "value", tx.Value)
		return decimal.Zero, false
	}

	if !domain.MatchesExpected(received, payment.ExpectedAmount) {
		return decimal.Zero, false
	}

	return received, true
}

func (s *MatcherService) complete(payment *domain.Payments, tx trongrid.Transfer, received decimal.Decimal) {
	if err := s.events.Create(s.db, payment.PaymentID, domain.EVENT_MATCHED, "transfer "+tx.TransactionID+" amount "+received.String(), ""); err != nil {
		s.l.Debug("create event error: "+err.Error(), "payment_id", payment.PaymentID)
	}

	err := s.payments.MarkCompleted(s.db, payment.PaymentID, tx.TransactionID, received)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyTerminal) {
			// another writer won the transition, nothing to do
			s.l.Debug("payment already terminal", "payment_id", payment.PaymentID)
			return
		}

		s.l.TemplMonitorErr("mark completed error", payment.PaymentID, err)
		return
	}

	now := time.Now().UTC()
	payment.Status = domain.STATUS_COMPLETED
	payment.TxHash = tx.TransactionID
	payment.ReceivedAmount = decimal.NewNullDecimal(received)
	payment.CompletedAt = &now

	info := domain.WebhookPayload{
		PaymentID:          payment.PaymentID,
		OrderID:            payment.OrderID,
		WalletAddress:      payment.WalletAddress,
		Currency:           domain.CURRENCY_USDT_TRC20,
		ExpectedAmountUsdt: payment.ExpectedAmount,
		ReceivedAmountUsdt: received,
		TransactionHash:    tx.TransactionID,
		BlockTimestamp:     tx.BlockTimestamp,
		Status:             domain.STATUS_COMPLETED.ToString(),
	}

	if err := s.events.Create(s.db, payment.PaymentID, domain.EVENT_COMPLETED, "matched transfer "+tx.TransactionID, string(utils.MustMarshal(info))); err != nil {
		s.l.Debug("create event error: "+err.Error(), "payment_id", payment.PaymentID)
	}

	s.l.TemplPaymentInfo("payment completed", payment.PaymentID, received, payment.OrderID)

	if err := s.natsinfra.PublishPaymentEvent(natsdomain.SubjJsCompleted, natsdomain.MsgActionCompleted, payment); err != nil {
		s.l.TemplNatsError("publish completed event error", logger.NA, err)
	}

	// delivery is best-effort, a failure never reverts completion
	if err := s.webhook.Deliver(payment, info); err != nil {
		s.l.Debug("send webhook error: "+err.Error(), "payment_id", payment.PaymentID, "url", payment.CallbackURL)
	}
}
