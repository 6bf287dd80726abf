package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type responseError struct {
	Error   bool   `json:"error"`
	ErrorID string `json:"error_id"`
	Msg     string `json:"msg"`
}

// /payment/create
type responsePaymentCreated struct {
	Error   bool                       `json:"error"`
	Payment responsePaymentCreatedInfo `json:"payment"`
}

type responsePaymentCreatedInfo struct {
	Id                 string          `json:"id"`
	WalletAddress      string          `json:"wallet_address"`
	ExpectedAmountUsdt decimal.Decimal `json:"expected_amount_usdt"`
	Currency           string          `json:"currency"`
	QrCode             string          `json:"qr_code"`
}

// /health
type responseHealth struct {
	Status  string `json:"status"`
	Monitor string `json:"monitor"`
}

func responseErr(c *gin.Context, statusCode int, msg, errorID string) {
	c.AbortWithStatusJSON(statusCode, responseError{true, errorID, msg})
}
