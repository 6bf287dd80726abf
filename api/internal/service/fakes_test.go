package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/infra/trongrid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// in-memory stand-ins for the postgres repos, keyed the same way

type fakePaymentsRepo struct {
	mu       sync.Mutex
	payments map[string]*domain.Payments
}

func newFakePaymentsRepo() *fakePaymentsRepo {
	return &fakePaymentsRepo{payments: map[string]*domain.Payments{}}
}

func (r *fakePaymentsRepo) add(p *domain.Payments) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.PaymentID] = p
}

func (r *fakePaymentsRepo) get(paymentId string) domain.Payments {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.payments[paymentId]
}

func (r *fakePaymentsRepo) Create(tx *gorm.DB, payment *domain.Payments) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.OrderID == payment.OrderID && p.Status.IsPending() {
			return domain.ErrDuplicateOrderId
		}
	}
	r.payments[payment.PaymentID] = payment
	return nil
}

func (r *fakePaymentsRepo) FindByID(tx *gorm.DB, paymentId string) (*domain.Payments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentId]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePaymentsRepo) FindPendingByOrderID(tx *gorm.DB, orderId string) (*domain.Payments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.OrderID == orderId && p.Status.IsPending() {
			copied := *p
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakePaymentsRepo) ListPending(tx *gorm.DB) ([]domain.Payments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Payments
	for _, p := range r.payments {
		if p.Status.IsPending() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentsRepo) ListExpirable(tx *gorm.DB, cutoff time.Time) ([]domain.Payments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.Payments
	for _, p := range r.payments {
		if p.IsExpirable(cutoff) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePaymentsRepo) MarkCompleted(tx *gorm.DB, paymentId string, txHash string, received decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentId]
	if !ok || p.Status.IsTerminal() {
		return domain.ErrAlreadyTerminal
	}

	now := time.Now().UTC()
	p.Status = domain.STATUS_COMPLETED
	p.TxHash = txHash
	p.ReceivedAmount = decimal.NewNullDecimal(received)
	p.CompletedAt = &now
	return nil
}

func (r *fakePaymentsRepo) MarkExpired(tx *gorm.DB, paymentId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentId]
	if !ok || p.Status.IsTerminal() {
		return domain.ErrAlreadyTerminal
	}

	p.Status = domain.STATUS_EXPIRED
	return nil
}

func (r *fakePaymentsRepo) AdvanceCheckpoint(tx *gorm.DB, paymentId string, timestampMs int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentId]
	if !ok {
		return nil
	}
	if p.LastCheckedTimestamp < timestampMs {
		p.LastCheckedTimestamp = timestampMs
	}
	return nil
}

func (r *fakePaymentsRepo) MarkCallbackAttempt(tx *gorm.DB, paymentId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentId]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	now := time.Now().UTC()
	p.CallbackAttempts++
	p.LastCallbackAt = &now
	return nil
}

func (r *fakePaymentsRepo) MarkCallbackDelivered(tx *gorm.DB, paymentId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.payments[paymentId]
	if !ok {
		return gorm.ErrRecordNotFound
	}

	p.CallbackDelivered = true
	return nil
}

func (r *fakePaymentsRepo) CountByStatus(tx *gorm.DB) (map[domain.Status]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	counts := map[domain.Status]int64{}
	for _, p := range r.payments {
		counts[p.Status]++
	}
	return counts, nil
}

type fakeEvent struct {
	paymentId string
	eventType string
	message   string
}

type fakeEventsRepo struct {
	mu     sync.Mutex
	events []fakeEvent
}

func (r *fakeEventsRepo) Create(tx *gorm.DB, paymentId string, eventType string, message string, payload string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, fakeEvent{paymentId: paymentId, eventType: eventType, message: message})
	return nil
}

func (r *fakeEventsRepo) ListByPayment(tx *gorm.DB, paymentId string) ([]domain.PaymentEvents, error) {
	return nil, nil
}

func (r *fakeEventsRepo) typesFor(paymentId string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var types []string
	for _, e := range r.events {
		if e.paymentId == paymentId {
			types = append(types, e.eventType)
		}
	}
	return types
}

type fakeLedger struct {
	transfers []trongrid.Transfer
	err       error
	failures  int // error out this many calls before succeeding
	calls     int
	since     []int64
}

func (l *fakeLedger) FetchTransfers(ctx context.Context, address string, minTimestamp int64) ([]trongrid.Transfer, error) {
	l.calls++
	l.since = append(l.since, minTimestamp)
	if l.err != nil {
		return nil, l.err
	}
	if l.calls <= l.failures {
		return nil, &trongrid.TransientError{Op: "fetch", Err: errors.New("upstream down")}
	}
	return l.transfers, nil
}

type fakeWebhook struct {
	mu        sync.Mutex
	delivered []domain.WebhookPayload
	err       error
}

func (w *fakeWebhook) Deliver(payment *domain.Payments, info domain.WebhookPayload) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.err != nil {
		return w.err
	}
	w.delivered = append(w.delivered, info)
	return nil
}

func (w *fakeWebhook) UpdateList(proxies []string) {}

func (w *fakeWebhook) GetList() []string { return nil }

type fakeMatcher struct {
	mu        sync.Mutex
	processed []string
	panicOn   string
}

func (m *fakeMatcher) ProcessPayment(ctx context.Context, payment *domain.Payments) Outcome {
	m.mu.Lock()
	m.processed = append(m.processed, payment.PaymentID)
	m.mu.Unlock()

	if payment.PaymentID == m.panicOn {
		panic("bad payment")
	}
	return OutcomeNoMatch
}
