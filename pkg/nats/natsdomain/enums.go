package natsdomain

type ActionType string

const (
	MsgActionCompleted ActionType = "completed"
	MsgActionExpired   ActionType = "expired"
)

// subjects for nats

// .js. - jetstream
var SubjectsJetStream = [...]string{"payments.js.completed", "payments.js.expired"}

type SubjJsType uint8

const (
	SubjJsCompleted SubjJsType = iota
	SubjJsExpired
)

func (s SubjJsType) String() string {
	return SubjectsJetStream[s]
}

// msg id for jetstream dedupe
func NewMsgId(paymentId string, action ActionType) string {
	return paymentId + "." + string(action)
}
