package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// event types for the payment audit log
const (
	EVENT_CREATED         = "created"
	EVENT_CHECKING        = "checking"
	EVENT_MATCHED         = "matched"
	EVENT_API_ERROR       = "api_error"
	EVENT_COMPLETED       = "completed"
	EVENT_CALLBACK_SENT   = "callback_sent"
	EVENT_CALLBACK_FAILED = "callback_failed"
	EVENT_EXPIRED         = "expired"
)

// append-only. rows are never mutated, retention is an external sweep
type PaymentEvents struct {
	ID        uint   `gorm:"primaryKey"`
	PaymentID string `gorm:"size:36;not null;index"`
	Type      string `gorm:"type:varchar(50);index"` // const EVENT_*
	Message   string `gorm:"type:text"`
	Payload   string // optional json
	CreatedAt time.Time
}

// WebhookPayload is POSTed to the callback url once a payment completes.
// the receiver is an external system, the shape is fixed
type WebhookPayload struct {
	PaymentID          string          `json:"payment_id"`
	OrderID            string          `json:"order_id"`
	WalletAddress      string          `json:"wallet_address"`
	Currency           string          `json:"currency"`
	ExpectedAmountUsdt decimal.Decimal `json:"expected_amount_usdt"`
	ReceivedAmountUsdt decimal.Decimal `json:"received_amount_usdt"`
	TransactionHash    string          `json:"transaction_hash"`
	BlockTimestamp     int64           `json:"block_timestamp"`
	Status             string          `json:"status"`
}
