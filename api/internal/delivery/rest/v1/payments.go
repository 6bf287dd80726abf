package v1

import (
	"encoding/base64"
	"fmt"
	"net/http"

	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/logger"
	"tronwatch/api/internal/service"

	"github.com/gin-gonic/gin"
)

// POST /{version}/payment/create
func (h *Handler) paymentCreate(c *gin.Context) {
	var errid = logger.GenErrorId()

	if rateLimited(c.ClientIP(), DEFAULT_LIMIT) {
		responseErr(c, http.StatusTooManyRequests, domain.ErrMsgRateLimitExceeded, "")
		return
	}

	data, ok := filterQuery(c)
	if !ok || data == nil {
		return
	}

	payment, err := h.services.Payments.Create(&service.NewPaymentData{
		WalletAddress:  data.WalletAddress,
		ExpectedAmount: data.Amount,
		CallbackURL:    data.CallbackURL,
		OrderID:        data.OrderID,
	})
	if err != nil {
		responseErr(c, domain.GetStatusByErr(err), err.Error(), errid)
		return
	}

	if _, err := h.services.QrCodes.New(payment.WalletAddress); err != nil {
		// the payment is live either way, the code is re-generated on
		// demand
		h.log.TemplPaymentErr("qr code new error: "+err.Error(), errid, payment.PaymentID, payment.ExpectedAmount, payment.OrderID, c.Request.RequestURI, c.ClientIP())
	}

	c.AbortWithStatusJSON(http.StatusCreated, responsePaymentCreated{
		Error: false,
		Payment: responsePaymentCreatedInfo{
			Id:                 payment.PaymentID,
			WalletAddress:      payment.WalletAddress,
			ExpectedAmountUsdt: payment.ExpectedAmount,
			Currency:           domain.CURRENCY_USDT_TRC20,
			QrCode:             fmt.Sprintf("%s://%s/v1/payment/qr-code/%s", h.config.Api.Proto, h.config.Api.Ipv4, payment.PaymentID),
		},
	})
}

// GET /{version}/payment/status/:payment_id
func (h *Handler) paymentStatus(c *gin.Context) {
	var errid = logger.GenErrorId()

	paymentId := c.Param("payment_id")

	info, err := h.services.Payments.GetStatus(paymentId)
	if err != nil {
		status := domain.GetStatusByErr(err)
		if status == http.StatusInternalServerError {
			responseErr(c, status, domain.ErrMsgInternalServerError, errid)
			return
		}
		responseErr(c, status, err.Error(), "")
		return
	}

	c.AbortWithStatusJSON(http.StatusOK, info)
}

// GET /{version}/payment/qr-code/:payment_id
func (h *Handler) qrCode(c *gin.Context) {
	var errid = logger.GenErrorId()

	info, err := h.services.Payments.GetStatus(c.Param("payment_id"))
	if err != nil {
		responseErr(c, domain.GetStatusByErr(err), err.Error(), "")
		return
	}

	qrCode, err := h.services.QrCodes.FindOrNew(info.WalletAddress)
	if err != nil {
		responseErr(c, http.StatusInternalServerError, domain.ErrMsgInternalServerError, errid)
		h.log.TemplPaymentErr("qr code find or new error: "+err.Error(), errid, info.Id, info.ExpectedAmountUsdt, info.OrderId, c.Request.RequestURI, c.ClientIP())
		return
	}

	imageData, err := base64.RawStdEncoding.DecodeString(qrCode)
	if err != nil {
		responseErr(c, http.StatusInternalServerError, domain.ErrMsgInternalServerError, errid)
		h.log.TemplPaymentErr("qr code decode error: "+err.Error(), errid, info.Id, info.ExpectedAmountUsdt, info.OrderId, c.Request.RequestURI, c.ClientIP())
		return
	}

	c.Data(http.StatusOK, "image/png", imageData)
}

func (h *Handler) initPaymentRoutes(g *gin.RouterGroup) {
	g.POST("/payment/create", h.paymentCreate)
	g.GET("/payment/status/:payment_id", h.paymentStatus)
	g.GET("/payment/qr-code/:payment_id", h.qrCode)
}
