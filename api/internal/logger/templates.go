package logger

import (
	"github.com/shopspring/decimal"
)

func (l Logger) TemplPaymentErr(message string, errorId string, paymentId string, amount decimal.Decimal, orderId string, uri string, ip string) string {
	l.Error(message, LS_PAYMENTS, true, "payment_id", paymentId, "amount", amount.String(), "order_id", orderId, "uri", uri, "error_id", errorId, "ip", ip)
	return errorId
}

func (l Logger) TemplPaymentInfo(message string, paymentId string, amount decimal.Decimal, orderId string) {
	l.Info(message, LS_PAYMENTS, true, "payment_id", paymentId, "amount", amount.String(), "order_id", orderId)
}

func (l Logger) TemplMonitorErr(message string, paymentId string, err error) {
	l.Error(message, LS_MONITOR, true, "payment_id", paymentId, "error", err.Error())
}

func (l Logger) TemplMonitorInfo(message string, pending int, expired int) {
	l.Info(message, LS_MONITOR, true, "pending", pending, "expired", expired)
}

// use only for fatal errors
func (l Logger) TemplHTTPError(message string, ipv4 string, err error) {
	l.Fatal(message, LS_FATAL, true, "error", err.Error(), "ipv4", ipv4)
}

func (l Logger) TemplWebhookErr(message, url string, attempts int, proxy string, payload []byte) {
	l.Error(message, LS_WEBHOOKS, true, "url", url, "attempts", attempts, "proxy", proxy, "payload", string(payload))
}

func (l Logger) TemplWebhookInfo(message, url string, paymentId string) {
	l.Info(message, LS_WEBHOOKS, true, "url", url, "payment_id", paymentId)
}

func (l Logger) TemplNatsError(message, natsUrl string, err error) {
	l.Error(message, LS_NATS, true, "nats_url", natsUrl, "error", err.Error())
}

func (l Logger) TemplNatsInfo(message, natsUrl string) {
	l.Info(message, LS_NATS, true, "nats_url", natsUrl, "error", NA)
}
