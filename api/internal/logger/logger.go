package logger

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strconv"

	"tronwatch/api/internal/config"

	"github.com/golang-cz/devslog"
	"github.com/google/uuid"
)

type Logger struct {
	l *slog.Logger
}

func Init(config *config.Config) Logger {
	slogOpts := &slog.HandlerOptions{}

	if !config.ProdEnv {
		slogOpts.Level = slog.LevelDebug
	}

	// new logger with options
	opts := &devslog.Options{
		HandlerOptions:    slogOpts,
		MaxSlicePrintSize: 4,
		SortKeys:          true,
		NewLineAfterLog:   true,
	}

	logger := slog.New(devslog.NewHandler(os.Stdout, opts))

	slog.SetDefault(logger)

	return Logger{l: logger}
}

// example Info("watching", LS_PAYMENTS, false, "payment_id", id)
func (l Logger) Info(message string, logStream Logstream, isTemplate bool, args ...any) {
	_, file, line, _ := runtime.Caller(callerSkip(isTemplate))
	l.printLog(LL_INFO, message, logStream, file, line, args...)
}

// example Error("fetch error", LS_PAYMENTS, false, "payment_id", id, "error", err.Error())
func (l Logger) Error(message string, logStream Logstream, isTemplate bool, args ...any) {
	_, file, line, _ := runtime.Caller(callerSkip(isTemplate))
	l.printLog(LL_ERROR, message, logStream, file, line, args...)
}

// use only for unrecoverable errors
func (l Logger) Fatal(message string, logStream Logstream, isTemplate bool, args ...any) {
	_, file, line, _ := runtime.Caller(callerSkip(isTemplate))
	l.printLog(LL_FATAL, message, logStream, file, line, args...)
}

func (l Logger) Debug(message string, args ...any) {
	_, file, line, _ := runtime.Caller(1)
	l.printLog(LL_DEBUG, message, LS_PAYMENTS, file, line, args...)
}

// template helpers add one stack frame
func callerSkip(isTemplate bool) int {
	if isTemplate {
		return 2
	}
	return 1
}

func (l Logger) printLog(ll LogLevel, message string, logStream Logstream, file string, line int, args ...any) {
	args = append(args, "stream", logStream.ToString(), "source", file+":"+strconv.Itoa(line))

	switch ll {
	case LL_ERROR, LL_FATAL:
		l.l.Error(message, args...)
	case LL_INFO:
		l.l.Info(message, args...)
	case LL_DEBUG:
		l.l.Debug(message, args...)
	}
}

func AnyToStr(t any) string {
	return fmt.Sprintf("%v", t)
}

func GenErrorId() string {
	var errorId string
	uuid, err := uuid.NewRandom()
	if err != nil {
		errorId = NA
	} else {
		errorId = uuid.String()
	}
	return errorId
}
