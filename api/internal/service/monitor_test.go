package service

import (
	"context"
	"testing"
	"time"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/logger"
)

func testMonitor(matcher Matcher) (*MonitorService, *fakePaymentsRepo, *fakeEventsRepo) {
	cfg := &config.Config{
		PollingIntervalSeconds:    1,
		MaxPaymentLifetimeSeconds: 3600,
	}
	l := logger.Init(cfg)

	payments := newFakePaymentsRepo()
	events := &fakeEventsRepo{}

	return NewMonitorService(nil, payments, events, matcher, nil, l, cfg), payments, events
}

func stalePayment(age time.Duration) *domain.Payments {
	p := pendingPayment("10")
	p.CreatedAt = time.Now().UTC().Add(-age)
	return p
}

func TestTickSweepsExpired(t *testing.T) {
	matcher := &fakeMatcher{}
	s, payments, events := testMonitor(matcher)

	stale := stalePayment(2 * time.Hour)
	fresh := stalePayment(time.Minute)
	payments.add(stale)
	payments.add(fresh)

	s.Tick(context.Background())

	if got := payments.get(stale.PaymentID); got.Status != domain.STATUS_EXPIRED {
		t.Fatalf("stale payment status = %s, want expired", got.Status.ToString())
	}
	if got := payments.get(fresh.PaymentID); !got.Status.IsPending() {
		t.Fatalf("fresh payment status = %s, want pending", got.Status.ToString())
	}

	types := events.typesFor(stale.PaymentID)
	if len(types) == 0 || types[0] != domain.EVENT_EXPIRED {
		t.Fatalf("events for stale payment: %v", types)
	}
}

func TestTickExpiredSkipsScan(t *testing.T) {
	matcher := &fakeMatcher{}
	s, payments, _ := testMonitor(matcher)

	stale := stalePayment(2 * time.Hour)
	fresh := stalePayment(time.Minute)
	payments.add(stale)
	payments.add(fresh)

	s.Tick(context.Background())

	// the expired payment left the pending set before the scan
	for _, id := range matcher.processed {
		if id == stale.PaymentID {
			t.Fatal("expired payment must not be scanned")
		}
	}
	if len(matcher.processed) != 1 || matcher.processed[0] != fresh.PaymentID {
		t.Fatalf("processed: %v", matcher.processed)
	}
}

func TestSweepExpiredIdempotent(t *testing.T) {
	matcher := &fakeMatcher{}
	s, payments, events := testMonitor(matcher)

	stale := stalePayment(2 * time.Hour)
	payments.add(stale)

	if expired := s.sweepExpired(); expired != 1 {
		t.Fatalf("first sweep expired %d, want 1", expired)
	}
	if expired := s.sweepExpired(); expired != 0 {
		t.Fatalf("second sweep expired %d, want 0", expired)
	}

	types := events.typesFor(stale.PaymentID)
	if len(types) != 1 {
		t.Fatalf("expired event written %d times", len(types))
	}
}

func TestTickIsolatesPanics(t *testing.T) {
	matcher := &fakeMatcher{}
	s, payments, _ := testMonitor(matcher)

	a := pendingPayment("10")
	b := pendingPayment("20")
	c := pendingPayment("30")
	payments.add(a)
	payments.add(b)
	payments.add(c)

	matcher.panicOn = b.PaymentID

	s.Tick(context.Background())

	if len(matcher.processed) != 3 {
		t.Fatalf("processed %d payments, want all 3", len(matcher.processed))
	}
}

func TestStartStop(t *testing.T) {
	matcher := &fakeMatcher{}
	s, payments, _ := testMonitor(matcher)

	payments.add(pendingPayment("10"))

	s.Start()

	deadline := time.After(2 * time.Second)
	for {
		matcher.mu.Lock()
		n := len(matcher.processed)
		matcher.mu.Unlock()
		if n > 0 {
			break
		}

		select {
		case <-deadline:
			t.Fatal("monitor never ran a cycle")
		case <-time.After(10 * time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("Stop did not return")
	}
}
