package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/logger"

	"github.com/shopspring/decimal"
)

func testWebhookSender(proxies []string) (*WebhookSenderService, *fakePaymentsRepo, *fakeEventsRepo) {
	l := logger.Init(&config.Config{})

	payments := newFakePaymentsRepo()
	events := &fakeEventsRepo{}

	return NewWebhookSenderService(proxies, payments, events, nil, l), payments, events
}

func completedPayload(payment *domain.Payments) domain.WebhookPayload {
	return domain.WebhookPayload{
		PaymentID:          payment.PaymentID,
		OrderID:            payment.OrderID,
		WalletAddress:      payment.WalletAddress,
		Currency:           domain.CURRENCY_USDT_TRC20,
		ExpectedAmountUsdt: payment.ExpectedAmount,
		ReceivedAmountUsdt: payment.ExpectedAmount,
		TransactionHash:    "deadbeef",
		BlockTimestamp:     1700000000000,
		Status:             domain.STATUS_COMPLETED.ToString(),
	}
}

func TestDeliver(t *testing.T) {
	var received domain.WebhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("content type = %s", ct)
		}
		if ua := r.Header.Get("User-Agent"); ua != "tronwatch-webhook" {
			t.Errorf("user agent = %s", ua)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Error(err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, payments, events := testWebhookSender(nil)

	payment := pendingPayment("12.34")
	payment.Status = domain.STATUS_COMPLETED
	payment.CallbackURL = srv.URL
	payments.add(payment)

	if err := s.Deliver(payment, completedPayload(payment)); err != nil {
		t.Fatal(err)
	}

	if received.PaymentID != payment.PaymentID || received.Status != "completed" {
		t.Fatalf("received payload: %+v", received)
	}
	if !received.ExpectedAmountUsdt.Equal(decimal.RequireFromString("12.34")) {
		t.Fatalf("expected_amount_usdt = %s", received.ExpectedAmountUsdt)
	}

	stored := payments.get(payment.PaymentID)
	if stored.CallbackAttempts != 1 {
		t.Fatalf("callback attempts = %d, want 1", stored.CallbackAttempts)
	}
	if !stored.CallbackDelivered {
		t.Fatal("callback not marked delivered")
	}
	if stored.LastCallbackAt == nil {
		t.Fatal("last callback time not recorded")
	}

	types := events.typesFor(payment.PaymentID)
	if len(types) != 1 || types[0] != domain.EVENT_CALLBACK_SENT {
		t.Fatalf("events: %v", types)
	}
}

func TestDeliverServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, payments, events := testWebhookSender(nil)

	payment := pendingPayment("12.34")
	payment.Status = domain.STATUS_COMPLETED
	payment.CallbackURL = srv.URL
	payments.add(payment)

	if err := s.Deliver(payment, completedPayload(payment)); err == nil {
		t.Fatal("expected error for 500 response")
	}

	stored := payments.get(payment.PaymentID)
	if stored.CallbackAttempts != 1 {
		t.Fatalf("callback attempts = %d, want 1", stored.CallbackAttempts)
	}
	if stored.CallbackDelivered {
		t.Fatal("failed delivery must not be marked delivered")
	}

	types := events.typesFor(payment.PaymentID)
	if len(types) != 1 || types[0] != domain.EVENT_CALLBACK_FAILED {
		t.Fatalf("events: %v", types)
	}
}

func TestDeliverDedupe(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, payments, _ := testWebhookSender(nil)

	payment := pendingPayment("12.34")
	payment.Status = domain.STATUS_COMPLETED
	payment.CallbackURL = srv.URL
	payments.add(payment)

	info := completedPayload(payment)

	if err := s.Deliver(payment, info); err != nil {
		t.Fatal(err)
	}
	if err := s.Deliver(payment, info); err == nil {
		t.Fatal("second delivery must be refused")
	}

	if hits != 1 {
		t.Fatalf("callback url hit %d times, want 1", hits)
	}

	stored := payments.get(payment.PaymentID)
	if stored.CallbackAttempts != 1 {
		t.Fatalf("callback attempts = %d, want 1", stored.CallbackAttempts)
	}
}

func TestDeliverNoCallbackURL(t *testing.T) {
	s, payments, events := testWebhookSender(nil)

	payment := pendingPayment("12.34")
	payment.CallbackURL = ""
	payments.add(payment)

	if err := s.Deliver(payment, completedPayload(payment)); err != nil {
		t.Fatal(err)
	}

	stored := payments.get(payment.PaymentID)
	if stored.CallbackAttempts != 0 {
		t.Fatal("no url means no attempt")
	}
	if len(events.typesFor(payment.PaymentID)) != 0 {
		t.Fatal("no url means no events")
	}
}

func TestParseProxy(t *testing.T) {
	proxies := []struct {
		str   string
		valid bool
	}{
		{"login:password@ip:port", true},
		{"login:password:ip:port", false},
		{"login", false},
		{"login:password:", false},
		{"login:password:127.0.0.1:1234:", false},
		{"login:password@127.0.0.1:1234", true},
		{"", false},
		{" ", false},
	}

	s := WebhookSenderService{}

	for _, i := range proxies {
		_, err := s.parseProxy(i.str)
		if err != nil && i.valid {
			t.Fatal(err)
		}
		if err == nil && !i.valid {
			t.Fatalf("parsed invalid proxy: %q", i.str)
		}
	}
}

func TestUpdateList(t *testing.T) {
	s, _, _ := testWebhookSender([]string{"login:password@127.0.0.1:1080"})

	s.UpdateList([]string{
		"user:pass@10.0.0.1:1080",
		"garbage",
		"user:pass@10.0.0.2:1080",
	})

	list := s.GetList()
	if len(list) != 2 {
		t.Fatalf("list = %v", list)
	}
}
