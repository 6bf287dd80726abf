package logger

const NA = "N/A"

// log level
const (
	LL_ERROR LogLevel = iota
	LL_FATAL
	LL_INFO
	LL_DEBUG
)

// log stream
const (
	LS_PAYMENTS Logstream = iota
	LS_FATAL
	LS_MONITOR
	LS_WEBHOOKS
	LS_NATS
)

type Logstream uint8
type LogLevel uint8

func (l Logstream) ToString() string {
	return [...]string{"payments", "fatal", "monitor", "webhooks", "nats"}[l]
}

func (l LogLevel) ToString() string {
	return [...]string{"ERROR", "FATAL", "INFO", "DEBUG"}[l]
}
