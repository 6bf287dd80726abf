package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/infra/cache"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/repository"
	"tronwatch/pkg/rr"

	"golang.org/x/net/proxy"
	"gorm.io/gorm"
)

type WebhookSenderService struct {
	rr       rr.RoundRobin
	list     *atomic.Pointer[[]string]
	payments repository.Payments
	events   repository.PaymentEvents
	db       *gorm.DB
	l        logger.Logger
	cache    *cache.Cache
}

func NewWebhookSenderService(proxyList []string, payments repository.Payments, events repository.PaymentEvents, db *gorm.DB, l logger.Logger) *WebhookSenderService {
	var list atomic.Pointer[[]string]
	list.Store(&proxyList)

	return &WebhookSenderService{
		rr:       rr.New(&list),
		list:     &list,
		payments: payments,
		events:   events,
		db:       db,
		l:        l,
		cache:    cache.InitStorage(),
	}
}

type webhookRoundTripper struct {
	r http.RoundTripper
}

func (wrt webhookRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	r.Header.Add("User-Agent", "tronwatch-webhook")
	return wrt.r.RoundTrip(r)
}

func (s *WebhookSenderService) sendWithoutProxy(url string, payload []byte) error {
	client := http.Client{
		Timeout: time.Second * 5,
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "tronwatch-webhook")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	return nil
}

func (s *WebhookSenderService) sendWithProxy(url string, stringProxy string, payload []byte) error {
	socks, err := s.parseProxy(stringProxy)
	if err != nil {
		return fmt.Errorf("can't parse proxy: " + err.Error())
	}

	auth := proxy.Auth{
		User:     socks.user,
		Password: socks.pass,
	}

	dialer, err := proxy.SOCKS5("tcp", socks.ip+":"+socks.port, &auth, proxy.Direct)
	if err != nil {
		return err
	}

	dialContext := func(ctx context.Context, network, address string) (net.Conn, error) {
		return dialer.Dial(network, address)
	}

	transport := &http.Transport{
		DialContext:       dialContext,
		DisableKeepAlives: true,
	}

	client := &http.Client{
		Transport: webhookRoundTripper{r: transport},
		Timeout:   5 * time.Second,
	}

	resp, err := client.Post(url, "application/json", bytes.NewBuffer(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	return nil
}

// Deliver posts the completion payload to the payment's callback url.
// the attempt is recorded before the request goes out, so a crash
// mid-send still leaves a trace. a delivered payment is never resent
func (s *WebhookSenderService) Deliver(payment *domain.Payments, info domain.WebhookPayload) error {
	if payment.CallbackURL == "" {
		return nil
	}

	if exists := s.cache.Load(payment.PaymentID); exists != nil {
		return fmt.Errorf("webhook already sent")
	}

	payload, err := json.Marshal(info)
	if err != nil {
		return err
	}

	if err := s.payments.MarkCallbackAttempt(s.db, payment.PaymentID); err != nil {
		s.l.TemplWebhookErr("mark callback attempt error: "+err.Error(), payment.CallbackURL, 0, logger.NA, payload)
	}

	err = s.send(payment.CallbackURL, payload)
	if err != nil {
		s.events.Create(s.db, payment.PaymentID, domain.EVENT_CALLBACK_FAILED, err.Error(), "")
		return err
	}

	s.cache.SetNoExp(payment.PaymentID, true)

	if err := s.payments.MarkCallbackDelivered(s.db, payment.PaymentID); err != nil {
		s.l.TemplWebhookErr("mark callback delivered error: "+err.Error(), payment.CallbackURL, 0, logger.NA, payload)
	}
	if err := s.events.Create(s.db, payment.PaymentID, domain.EVENT_CALLBACK_SENT, "delivered to "+payment.CallbackURL, ""); err != nil {
		s.l.Debug("create event error: "+err.Error(), "payment_id", payment.PaymentID)
	}

	s.l.TemplWebhookInfo("webhook delivered", payment.CallbackURL, payment.PaymentID)
	return nil
}

// send walks the proxy pool round-robin, falling back to a direct
// request when no proxies are configured
func (s *WebhookSenderService) send(url string, payload []byte) error {
	var MAX_ATTEMPTS = s.rr.GetProxyCount()

	stringProxy, ok := s.rr.Next()
	if !ok {
		if err := s.sendWithoutProxy(url, payload); err != nil {
			s.l.TemplWebhookErr("send without proxy error: "+err.Error(), url, 1, logger.NA, payload)
			return err
		}
		return nil
	}

	var attempts int

sendReq:
	attempts++

	if attempts > MAX_ATTEMPTS {
		return fmt.Errorf("max attempts exceeded")
	}

	if err := s.sendWithProxy(url, stringProxy, payload); err != nil {
		s.l.TemplWebhookErr("send with proxy error: "+err.Error(), url, attempts, stringProxy, payload)

		stringProxy, ok = s.rr.Next()
		if !ok {
			return err
		}
		goto sendReq
	}

	return nil
}

type parsedProxy struct {
	user string
	pass string
	ip   string
	port string
}

// login:password@ip:port
func (s *WebhookSenderService) parseProxy(str string) (parsedProxy, error) {
	splitA := strings.Split(str, ":") //  to [user pass@ip port]

	if len(splitA) != 3 {
		return parsedProxy{}, fmt.Errorf("invalid proxy format: given: " + str)
	}

	splitB := strings.Split(splitA[1], "@") // to [pass ip]

	if len(splitB) != 2 {
		return parsedProxy{}, fmt.Errorf("invalid proxy format: given: " + str)
	}

	pp := parsedProxy{
		user: splitA[0],
		pass: splitB[0],
		ip:   splitB[1],
		port: splitA[2],
	}

	for _, part := range []string{pp.user, pp.pass, pp.ip, pp.port} {
		if len(part) < 2 {
			return parsedProxy{}, fmt.Errorf("invalid proxy format: given: " + str)
		}
	}

	return pp, nil
}

func (s *WebhookSenderService) UpdateList(proxies []string) {
	var validProxies []string

	for _, p := range proxies {
		if _, err := s.parseProxy(p); err != nil {
			s.l.Debug("invalid proxy skipped", "proxy", p)
			continue
		}
		validProxies = append(validProxies, p)
	}

	s.list.Store(&validProxies)
}

func (s *WebhookSenderService) GetList() []string {
	listPtr := s.list.Load()
	if listPtr == nil {
		return []string{}
	}

	return *listPtr
}
