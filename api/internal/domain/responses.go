package domain

import (
	"errors"
	"net/http"

	"github.com/shopspring/decimal"
)

// public status shape. callback url and checkpoint are internal and
// never surfaced here
type ResponsePaymentInfo struct {
	Id                 string              `json:"id"`
	WalletAddress      string              `json:"wallet_address"`
	ExpectedAmountUsdt decimal.Decimal     `json:"expected_amount_usdt"`
	OrderId            string              `json:"order_id"`
	Status             string              `json:"status"`
	TransactionHash    string              `json:"transaction_hash,omitempty"`
	ReceivedAmountUsdt decimal.NullDecimal `json:"received_amount_usdt"`
	CreatedAt          int64               `json:"created_at"`
	CompletedAt        *int64              `json:"completed_at"`
}

type ResponseStats struct {
	TotalPayments     int64 `json:"total_payments"`
	PendingPayments   int64 `json:"pending_payments"`
	CompletedPayments int64 `json:"completed_payments"`
	FailedPayments    int64 `json:"failed_payments"`
	ExpiredPayments   int64 `json:"expired_payments"`
}

const (
	ErrMsgRateLimitExceeded   = "rate limit exceeded"
	ErrMsgInternalServerError = "internal server error"
	ErrMsgBadRequest          = "bad request"

	ErrMsgPaymentNotFound    = "payment id not found"
	ErrMsgInvalidPaymentId   = "invalid payment id"
	ErrMsgDuplicateOrderId   = "order id already has a pending payment"
	ErrMsgInvalidTronAddress = "wallet_address must be a valid TRON address"
	ErrMsgInvalidCallbackUrl = "callback_url must be an absolute http(s) url"
)

var (
	ErrInvalidPaymentId    = errors.New(ErrMsgInvalidPaymentId)
	ErrPaymentNotFound     = errors.New(ErrMsgPaymentNotFound)
	ErrDuplicateOrderId    = errors.New(ErrMsgDuplicateOrderId)
	ErrAlreadyTerminal     = errors.New("payment is already in a terminal status")
	ErrInternalServerError = errors.New(ErrMsgInternalServerError)
)

func GetStatusByErr(err error) (status int) {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, ErrInvalidPaymentId):
		status = http.StatusBadRequest
	case errors.Is(err, ErrPaymentNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrDuplicateOrderId):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}
	return status
}
