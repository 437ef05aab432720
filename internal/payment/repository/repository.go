package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/merchantdesk/backoffice/internal/payment/domain"
	"github.com/merchantdesk/backoffice/pkg/apperr"
)

// GormPaymentRepository implements domain.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GORM payment repository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

func (r *GormPaymentRepository) Create(payment *domain.Payment) error {
	return r.db.Create(payment).Error
}

func (r *GormPaymentRepository) FindByID(id uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "payment not found")
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByIDWithRefunds(id uint) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.Preload("Refunds").First(&payment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "payment not found")
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByOrderID(orderID string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "payment not found")
		}
		return nil, err
	}
	return &payment, nil
}

func (r *GormPaymentRepository) FindByUserID(userID uint, limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).Offset(offset).
		Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) FindAll(limit, offset int) ([]domain.Payment, error) {
	var payments []domain.Payment
	err := r.db.Order("created_at DESC").Limit(limit).Offset(offset).Find(&payments).Error
	return payments, err
}

func (r *GormPaymentRepository) Update(payment *domain.Payment) error {
	return r.db.Save(payment).Error
}

// UpdateStatusChecked transitions the payment under a row lock so that
// concurrent transitions of the same payment serialize, then validates the
// move against the transition table before writing.
func (r *GormPaymentRepository) UpdateStatusChecked(ctx context.Context, id uint, newStatus string) (*domain.Payment, error) {
	var payment domain.Payment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeNotFound, "payment not found")
			}
			return err
		}
		if !domain.CanTransition(payment.Status, newStatus) {
			return apperr.New(apperr.CodeInvalidState, "cannot transition payment from "+payment.Status+" to "+newStatus)
		}
		payment.Status = newStatus
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, err
	}
	return &payment, nil
}

// ApplyRefundResult finalizes a successful gateway refund. The payment row is
// locked, the refunded amount bound is re-checked under the lock, and the
// refund row and payment row are updated in the same transaction.
func (r *GormPaymentRepository) ApplyRefundResult(ctx context.Context, refundID uint, gatewayTransactionID string) (*domain.Payment, *domain.Refund, error) {
	var payment domain.Payment
	var refund domain.Refund
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&refund, refundID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeNotFound, "refund not found")
			}
			return err
		}
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&payment, refund.PaymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.New(apperr.CodeNotFound, "payment not found")
			}
			return err
		}

		newRefunded := payment.RefundedAmount.Add(refund.Amount)
		if newRefunded.GreaterThan(payment.Amount) {
			return apperr.New(apperr.CodeAmountExceeded, "refund would exceed payment amount")
		}

		refund.Status = domain.RefundStatusCompleted
		refund.TransactionID = gatewayTransactionID
		if err := tx.Save(&refund).Error; err != nil {
			return err
		}

		payment.RefundedAmount = newRefunded
		if newRefunded.Equal(payment.Amount) {
			payment.Status = domain.StatusRefunded
		}
		return tx.Save(&payment).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &payment, &refund, nil
}

// GormRefundRepository implements domain.RefundRepository using GORM
type GormRefundRepository struct {
	db *gorm.DB
}

// NewGormRefundRepository creates a new GORM refund repository
func NewGormRefundRepository(db *gorm.DB) *GormRefundRepository {
	return &GormRefundRepository{db: db}
}

func (r *GormRefundRepository) Create(refund *domain.Refund) error {
	return r.db.Create(refund).Error
}

func (r *GormRefundRepository) FindByID(id uint) (*domain.Refund, error) {
	var refund domain.Refund
	err := r.db.First(&refund, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "refund not found")
		}
		return nil, err
	}
	return &refund, nil
}

func (r *GormRefundRepository) FindByPaymentID(paymentID uint) ([]domain.Refund, error) {
	var refunds []domain.Refund
	err := r.db.Where("payment_id = ?", paymentID).Order("created_at ASC").Find(&refunds).Error
	return refunds, err
}

func (r *GormRefundRepository) FindByIdempotencyKey(key string) (*domain.Refund, error) {
	var refund domain.Refund
	err := r.db.Where("idempotency_key = ?", key).First(&refund).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.New(apperr.CodeNotFound, "refund not found")
		}
		return nil, err
	}
	return &refund, nil
}

func (r *GormRefundRepository) Update(refund *domain.Refund) error {
	return r.db.Save(refund).Error
}

func (r *GormRefundRepository) MarkFailed(id uint, reason string) error {
	return r.db.Model(&domain.Refund{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":         domain.RefundStatusFailed,
			"failure_reason": reason,
		}).Error
}
