package natsdomain

import (
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/shopspring/decimal"
)

// nats struct
type Ns struct {
	Nc *nats.Conn
	Js jetstream.JetStream
}

// ResPaymentEvent mirrors a payment lifecycle event to the stream.
// consumed by external services, keep the shape stable
type ResPaymentEvent struct {
	PaymentId string
	OrderId   string
	Status    string
	TxHash    string
	Amount    decimal.Decimal
	Timestamp time.Time
}
