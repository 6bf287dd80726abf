package service

import (
	"context"
	"errors"
	"time"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/infra/nats"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/repository"
	"tronwatch/pkg/nats/natsdomain"

	"gorm.io/gorm"
)

type MonitorService struct {
	payments  repository.Payments
	events    repository.PaymentEvents
	matcher   Matcher
	natsinfra *nats.NatsInfra
	db        *gorm.DB
	l         logger.Logger
	config    *config.Config

	stop chan struct{}
	done chan struct{}
}

func NewMonitorService(db *gorm.DB, payments repository.Payments, events repository.PaymentEvents, matcher Matcher, natsinfra *nats.NatsInfra, l logger.Logger, config *config.Config) *MonitorService {
	return &MonitorService{
		payments:  payments,
		events:    events,
		matcher:   matcher,
		natsinfra: natsinfra,
		db:        db,
		l:         l,
		config:    config,
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// Start launches the polling loop. one cycle runs immediately, then one
// per interval. call Stop to shut the loop down
func (s *MonitorService) Start() {
	go s.run()
}

func (s *MonitorService) Stop() {
	close(s.stop)
	<-s.done
}

func (s *MonitorService) run() {
	defer close(s.done)

	ticker := time.NewTicker(s.config.PollingInterval())
	defer ticker.Stop()

	for {
		s.Tick(context.Background())

		select {
		case <-s.stop:
			return
		case <-ticker.C:
		}
	}
}

// Tick runs a single reconciliation cycle: expire stale payments, then
// scan the remaining pending ones
func (s *MonitorService) Tick(ctx context.Context) {
	expired := s.sweepExpired()

	pending, err := s.payments.ListPending(s.db)
	if err != nil {
		s.l.Error("list pending error: "+err.Error(), logger.LS_MONITOR, false)
		return
	}

	for i := range pending {
		select {
		case <-s.stop:
			return
		default:
		}

		s.processOne(ctx, &pending[i])
	}

	if len(pending) > 0 || expired > 0 {
		s.l.TemplMonitorInfo("reconciliation cycle done", len(pending), expired)
	}
}

// processOne shields the cycle from a single bad payment
func (s *MonitorService) processOne(ctx context.Context, payment *domain.Payments) {
	defer func() {
		if r := recover(); r != nil {
			s.l.Error("process payment panic: "+logger.AnyToStr(r), logger.LS_MONITOR, false, "payment_id", payment.PaymentID)
		}
	}()

	s.matcher.ProcessPayment(ctx, payment)
}

func (s *MonitorService) sweepExpired() int {
	cutoff := time.Now().UTC().Add(-s.config.MaxPaymentLifetime())

	stale, err := s.payments.ListExpirable(s.db, cutoff)
	if err != nil {
		s.l.Error("list expirable error: "+err.Error(), logger.LS_MONITOR, false)
		return 0
	}

	expired := 0
	for i := range stale {
		payment := &stale[i]

		err := s.payments.MarkExpired(s.db, payment.PaymentID)
		if err != nil {
			if errors.Is(err, domain.ErrAlreadyTerminal) {
				continue
			}

			s.l.TemplMonitorErr("mark expired error", payment.PaymentID, err)
			continue
		}

		expired++
		payment.Status = domain.STATUS_EXPIRED

		if err := s.events.Create(s.db, payment.PaymentID, domain.EVENT_EXPIRED, "payment lifetime exceeded", ""); err != nil {
			s.l.Debug("create event error: "+err.Error(), "payment_id", payment.PaymentID)
		}

		if err := s.natsinfra.PublishPaymentEvent(natsdomain.SubjJsExpired, natsdomain.MsgActionExpired, payment); err != nil {
			s.l.TemplNatsError("publish expired event error", logger.NA, err)
		}
	}

	return expired
}
