package natsdomain

import (
	"context"

	"github.com/nats-io/nats.go/jetstream"
)

func (ns *Ns) JsPublish(subj string, jsonMsg []byte) error {
	return ns.jsPublishOpts(subj, jsonMsg)
}

// jetstream publish with msgId
func (ns *Ns) JsPublishMsgId(subj string, jsonMsg []byte, msgId string) error {
	return ns.jsPublishOpts(subj, jsonMsg, jetstream.WithMsgID(msgId))
}

func (ns *Ns) jsPublishOpts(subj string, jsonMsg []byte, opts ...jetstream.PublishOpt) error {
	_, err := ns.Js.Publish(context.Background(), subj, jsonMsg, opts...)
	if err != nil {
		return err
	}
	return nil
}
