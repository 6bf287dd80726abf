package nats

import (
	"context"
	"fmt"
	"time"

	"tronwatch/api/internal/config"
	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/logger"
	"tronwatch/pkg/nats/natsdomain"
	"tronwatch/pkg/utils"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type NatsInfra struct {
	*natsdomain.Ns
}

// Init connects to nats when NATS_SERVERS is set. returns nil otherwise,
// the event mirror is optional and a nil infra publishes nothing
func Init(config *config.Config, log logger.Logger) *NatsInfra {
	if config.Nats.Servers == "" {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	nc, err := nats.Connect(config.Nats.Servers,
		nats.MaxReconnects(100),
		nats.ReconnectWait(3*time.Second),
		nats.DisconnectHandler(func(nc *nats.Conn) {
			log.TemplNatsInfo("disconnected", nc.ConnectedUrl())
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.TemplNatsInfo("reconnected", nc.ConnectedUrl())
		}))
	if err != nil {
		panic("NATS: connect failed: " + err.Error())
	}

	js, err := jetstream.New(nc)
	if err != nil {
		panic(err)
	}

	if _, err := InitPaymentsStream(ctx, js); err != nil {
		panic("NATS: create stream failed: " + err.Error())
	}

	fmt.Println("nats: Connected to", nc.ConnectedAddr())
	return &NatsInfra{&natsdomain.Ns{Nc: nc, Js: js}}
}

func InitPaymentsStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     "payments",
		Subjects: natsdomain.SubjectsJetStream[:],
	})
}

// PublishPaymentEvent mirrors a terminal transition to the stream. msgId
// dedupe keeps redeliveries idempotent for consumers. nil-safe
func (n *NatsInfra) PublishPaymentEvent(subj natsdomain.SubjJsType, action natsdomain.ActionType, payment *domain.Payments) error {
	if n == nil || n.Ns == nil {
		return nil
	}

	event := natsdomain.ResPaymentEvent{
		PaymentId: payment.PaymentID,
		OrderId:   payment.OrderID,
		Status:    payment.Status.ToString(),
		TxHash:    payment.TxHash,
		Amount:    payment.ExpectedAmount,
		Timestamp: time.Now().UTC(),
	}

	return n.JsPublishMsgId(subj.String(), utils.MustMarshal(event), natsdomain.NewMsgId(payment.PaymentID, action))
}
