package repository

import (
	"encoding/json"
	"fmt"

	"tronwatch/api/internal/domain"

	"gorm.io/gorm"
)

type PaymentEventsRepo struct {
}

func InitPaymentEventsRepo() *PaymentEventsRepo {
	return &PaymentEventsRepo{}
}

// append-only audit log. payload is optional json
func (r *PaymentEventsRepo) Create(tx *gorm.DB, paymentId string, eventType string, message string, payload string) error {
	if payload != "" && !json.Valid([]byte(payload)) {
		return fmt.Errorf("invalid payload: %s", payload)
	}

	return tx.Create(&domain.PaymentEvents{
		PaymentID: paymentId,
		Type:      eventType,
		Message:   message,
		Payload:   payload,
	}).Error
}

func (r *PaymentEventsRepo) ListByPayment(tx *gorm.DB, paymentId string) ([]domain.PaymentEvents, error) {
	var events []domain.PaymentEvents
	return events, tx.Where(&domain.PaymentEvents{PaymentID: paymentId}).Order("id").Find(&events).Error
}
