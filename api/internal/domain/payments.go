package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// USDT (TRC20) contract on TRON mainnet
const USDT_TRC20_CONTRACT = "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t"

const CURRENCY_USDT_TRC20 = "USDT_TRC20"

// absolute tolerance for amount comparison. compensates float rounding
// from decimal division, not a business allowance
var AmountTolerance = decimal.New(1, -6) // 0.000001

type Payments struct {
	Model
	ID        uint   `gorm:"primaryKey"`
	PaymentID string `gorm:"size:36;unique;not null"` // uuid
	OrderID   string `gorm:"size:100;not null;index"`

	WalletAddress  string          `gorm:"size:34;not null;index"`
	ExpectedAmount decimal.Decimal `gorm:"type:numeric(18,6);not null"`
	CallbackURL    string          `gorm:"type:text;not null"` // used in webhook sender service

	Status         Status              `gorm:"type:int8;index"`
	TxHash         string              `gorm:"size:64"`
	ReceivedAmount decimal.NullDecimal `gorm:"type:numeric(18,6)"`
	CompletedAt    *time.Time

	// exclusive lower bound (ms, block time) for the next trongrid fetch.
	// never decreases
	LastCheckedTimestamp int64 `gorm:"not null;default:0"`

	CallbackAttempts  int `gorm:"not null;default:0"`
	LastCallbackAt    *time.Time
	CallbackDelivered bool `gorm:"not null;default:false"`
}

type Status uint8

const (
	STATUS_PENDING Status = iota
	STATUS_COMPLETED
	STATUS_FAILED
	STATUS_EXPIRED
)

var Statuses = [...]string{"pending", "completed", "failed", "expired"}

// methods

func StrToStatus(s string) Status {
	for i, statusName := range Statuses {
		if s == statusName {
			return Status(i)
		}
	}
	return STATUS_PENDING
}

func (s Status) ToString() string {
	return Statuses[s]
}

func (s Status) IsPending() bool {
	return s == STATUS_PENDING
}

func (s Status) IsCompleted() bool {
	return s == STATUS_COMPLETED
}

// completed, failed and expired are terminal. no transition leaves them
func (s Status) IsTerminal() bool {
	return s != STATUS_PENDING
}

func (p *Payments) IsExpirable(cutoff time.Time) bool {
	return p.Status.IsPending() && p.CreatedAt.Before(cutoff)
}

// AmountFromRaw converts a raw token value (smallest unit, decimal string)
// to the token amount. 12340000 with 6 decimals -> 12.34
func AmountFromRaw(value string, decimals int32) (decimal.Decimal, error) {
	raw, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, err
	}
	return raw.Shift(-decimals), nil
}

// MatchesExpected reports whether |received - expected| < AmountTolerance
func MatchesExpected(received, expected decimal.Decimal) bool {
	return received.Sub(expected).Abs().LessThan(AmountTolerance)
}
