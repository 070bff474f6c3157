// services/billing_service.go
package services

import (
	"errors"
	"time"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PaymentInput struct {
	InvoiceID         uint            `json:"invoice_id" validate:"required"`
	Amount            decimal.Decimal `json:"amount"`
	PaymentType       string          `json:"payment_type" validate:"omitempty,oneof=cash bank"`
	AllocatedDoctorID *uint           `json:"allocated_doctor_id"`
}

// BillingService tracks invoice payment state. Invoice rows are mutated only
// inside its locked transaction, and every payment insert happens in the
// same transaction as the invoice update.
type BillingService struct {
	log   *logrus.Logger
	bonus *BonusService
}

func NewBillingService() *BillingService {
	return &BillingService{log: config.GetLogger(), bonus: NewBonusService()}
}

// RecordPayment posts a payment against an invoice. The invoice row is
// locked for the duration; paid_amount only ever grows and the status moves
// forward along unpaid -> partial -> paid. A payment above the remaining
// balance is rejected, not capped. When the invoice becomes fully paid and
// the payment is allocated to a doctor, bonus accruals for every line item
// of the originating reservation are posted atomically with the payment.
func (s *BillingService) RecordPayment(db *gorm.DB, in PaymentInput, processorID uint) (*models.Payment, error) {
	if err := utils.Validate.Struct(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	paymentType := in.PaymentType
	if paymentType == "" {
		paymentType = models.PaymentBank
	}

	var payment models.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		if err := forUpdate(tx).First(&invoice, in.InvoiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInvoiceNotFound
			}
			return err
		}

		if invoice.Status == models.InvoicePaid {
			return ErrInvoiceAlreadyPaid
		}
		remaining := invoice.TotalAmount.Sub(invoice.PaidAmount)
		if in.Amount.GreaterThan(remaining) {
			return &OverpaymentError{Remaining: remaining, Requested: in.Amount}
		}

		invoice.PaidAmount = invoice.PaidAmount.Add(in.Amount)
		if invoice.PaidAmount.GreaterThanOrEqual(invoice.TotalAmount) {
			invoice.Status = models.InvoicePaid
		} else {
			invoice.Status = models.InvoicePartial
		}
		if err := tx.Model(&models.Invoice{}).Where("id = ?", invoice.ID).
			Updates(map[string]interface{}{
				"paid_amount": invoice.PaidAmount,
				"status":      invoice.Status,
			}).Error; err != nil {
			return err
		}

		payment = models.Payment{
			InvoiceID:         invoice.ID,
			Amount:            in.Amount,
			PaymentType:       paymentType,
			ProcessedByID:     processorID,
			AllocatedDoctorID: in.AllocatedDoctorID,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		if invoice.Status == models.InvoicePaid && in.AllocatedDoctorID != nil {
			var items []models.ReservationItem
			if err := tx.Where("reservation_id = ?", invoice.ReservationID).Find(&items).Error; err != nil {
				return err
			}
			now := time.Now()
			if err := s.bonus.postAccruals(tx, *in.AllocatedDoctorID, items, payment.ID, int(now.Month()), now.Year()); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"invoice_id":   in.InvoiceID,
		"payment_id":   payment.ID,
		"amount":       in.Amount.String(),
		"processed_by": processorID,
	}).Info("payment recorded")
	return &payment, nil
}
