package repository

import (
	"time"

	"tronwatch/api/internal/domain"
	"tronwatch/api/internal/infra/postgres"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentsRepo struct {
}

func InitPaymentsRepo() *PaymentsRepo {
	return &PaymentsRepo{}
}

func (r *PaymentsRepo) Create(tx *gorm.DB, payment *domain.Payments) error {
	// order id is unique among pending payments only. a terminal payment
	// releases its order id for reuse
	_, err := r.FindPendingByOrderID(tx, payment.OrderID)
	if err == nil {
		return domain.ErrDuplicateOrderId
	}
	if !postgres.IsNotFound(err) {
		return err
	}

	return tx.Create(payment).Error
}

func (r *PaymentsRepo) FindByID(tx *gorm.DB, paymentId string) (*domain.Payments, error) {
	var payment domain.Payments
	return &payment, tx.Where(&domain.Payments{PaymentID: paymentId}).First(&payment).Error
}

func (r *PaymentsRepo) FindPendingByOrderID(tx *gorm.DB, orderId string) (*domain.Payments, error) {
	var payment domain.Payments
	return &payment, tx.Where("order_id = ? AND status = ?", orderId, domain.STATUS_PENDING).First(&payment).Error
}

func (r *PaymentsRepo) ListPending(tx *gorm.DB) ([]domain.Payments, error) {
	var payments []domain.Payments
	return payments, tx.Where("status = ?", domain.STATUS_PENDING).Order("id").Find(&payments).Error
}

func (r *PaymentsRepo) ListExpirable(tx *gorm.DB, cutoff time.Time) ([]domain.Payments, error) {
	var payments []domain.Payments
	return payments, tx.Where("status = ? AND created_at < ?", domain.STATUS_PENDING, cutoff).Order("id").Find(&payments).Error
}

// MarkCompleted transitions pending -> completed and stamps the match.
// the status guard makes concurrent writers (expiry sweep, double match)
// lose cleanly with ErrAlreadyTerminal
func (r *PaymentsRepo) MarkCompleted(tx *gorm.DB, paymentId string, txHash string, received decimal.Decimal) error {
	now := time.Now().UTC()

	res := tx.Model(&domain.Payments{}).
		Where("payment_id = ? AND status = ?", paymentId, domain.STATUS_PENDING).
		Updates(map[string]any{
			"status":          domain.STATUS_COMPLETED,
			"tx_hash":         txHash,
			"received_amount": received,
			"completed_at":    now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyTerminal
	}
	return nil
}

func (r *PaymentsRepo) MarkExpired(tx *gorm.DB, paymentId string) error {
	res := tx.Model(&domain.Payments{}).
		Where("payment_id = ? AND status = ?", paymentId, domain.STATUS_PENDING).
		Update("status", domain.STATUS_EXPIRED)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyTerminal
	}
	return nil
}

// AdvanceCheckpoint moves the fetch lower bound forward. the guard keeps
// it monotonic, a stale writer affects zero rows and that is not an error
func (r *PaymentsRepo) AdvanceCheckpoint(tx *gorm.DB, paymentId string, timestampMs int64) error {
	return tx.Model(&domain.Payments{}).
		Where("payment_id = ? AND last_checked_timestamp < ?", paymentId, timestampMs).
		Update("last_checked_timestamp", timestampMs).Error
}

func (r *PaymentsRepo) MarkCallbackAttempt(tx *gorm.DB, paymentId string) error {
	now := time.Now().UTC()

	return tx.Model(&domain.Payments{}).
		Where("payment_id = ?", paymentId).
		Updates(map[string]any{
			"callback_attempts": gorm.Expr("callback_attempts + 1"),
			"last_callback_at":  now,
		}).Error
}

func (r *PaymentsRepo) MarkCallbackDelivered(tx *gorm.DB, paymentId string) error {
	return tx.Model(&domain.Payments{}).
		Where("payment_id = ?", paymentId).
		Update("callback_delivered", true).Error
}

func (r *PaymentsRepo) CountByStatus(tx *gorm.DB) (map[domain.Status]int64, error) {
	var rows []struct {
		Status domain.Status
		Count  int64
	}

	err := tx.Model(&domain.Payments{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
