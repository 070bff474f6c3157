// services/bonus_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type BonusPayoutInput struct {
	MedRepID  uint            `json:"med_rep_id" validate:"required"`
	DoctorID  *uint           `json:"doctor_id"`
	ProductID *uint           `json:"product_id"`
	Amount    decimal.Decimal `json:"amount"`
	ForMonth  int             `json:"for_month" validate:"required,min=1,max=12"`
	ForYear   int             `json:"for_year" validate:"required"`
	PaidDate  time.Time       `json:"paid_date"`
	Notes     string          `json:"notes"`
}

// BonusService owns the incentive ledger and its denormalized monthly
// counters. Ledger rows are append-only; the counters are a cache that must
// always be re-derivable by replaying the ledger.
type BonusService struct {
	log *logrus.Logger
}

func NewBonusService() *BonusService {
	return &BonusService{log: config.GetLogger()}
}

// postAccruals runs inside the caller's transaction. For every reservation
// line item it accrues quantity x per-unit marketing allowance to the
// allocated doctor: the monthly stat row is upserted and one immutable
// accrual entry is appended, linked to the item and the payment.
func (s *BonusService) postAccruals(tx *gorm.DB, doctorID uint, items []models.ReservationItem, paymentID uint, month, year int) error {
	for i := range items {
		item := &items[i]

		var product models.Product
		if err := tx.First(&product, item.ProductID).Error; err != nil {
			return err
		}
		earned := product.MarketingExpense.Mul(decimal.NewFromInt(int64(item.Quantity)))

		if err := s.applyToMonthlyStat(tx, doctorID, item.ProductID, month, year,
			item.Quantity, item.TotalPrice, earned); err != nil {
			return err
		}

		entry := models.BonusLedger{
			DoctorID:      &doctorID,
			Amount:        earned,
			LedgerType:    models.LedgerAccrual,
			InvoiceItemID: &item.ID,
			PaymentID:     &paymentID,
			Notes:         fmt.Sprintf("Bonus for product %d", item.ProductID),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}
	}
	return nil
}

// applyToMonthlyStat upserts the (doctor, product, month, year) counter row
// under a row lock and bumps its paid counters in place.
func (s *BonusService) applyToMonthlyStat(tx *gorm.DB, doctorID, productID uint, month, year int, paidQty int, paidAmount, bonus decimal.Decimal) error {
	stat := models.DoctorMonthlyStat{
		DoctorID:  doctorID,
		ProductID: productID,
		Month:     month,
		Year:      year,
	}
	if err := forUpdate(tx).
		Where("doctor_id = ? AND product_id = ? AND month = ? AND year = ?", doctorID, productID, month, year).
		FirstOrCreate(&stat).Error; err != nil {
		return err
	}
	return tx.Model(&models.DoctorMonthlyStat{}).Where("id = ?", stat.ID).
		Updates(map[string]interface{}{
			"paid_quantity": gorm.Expr("paid_quantity + ?", paidQty),
			"paid_amount":   gorm.Expr("paid_amount + ?", paidAmount),
			"bonus_amount":  gorm.Expr("bonus_amount + ?", bonus),
		}).Error
}

// ReverseAccrual appends a compensating entry with the opposite sign for an
// accrual, and backs the doctor's monthly counters out through the same
// upsert path so the cache stays in step with the ledger. The accrual itself
// is never touched.
func (s *BonusService) ReverseAccrual(db *gorm.DB, entryID uint, notes string) (*models.BonusLedger, error) {
	var reversal models.BonusLedger
	err := db.Transaction(func(tx *gorm.DB) error {
		var entry models.BonusLedger
		if err := tx.First(&entry, entryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLedgerEntryNotFound
			}
			return err
		}
		if entry.LedgerType != models.LedgerAccrual {
			return ErrNotAccrualEntry
		}

		reversal = models.BonusLedger{
			UserID:        entry.UserID,
			DoctorID:      entry.DoctorID,
			Amount:        entry.Amount.Neg(),
			LedgerType:    models.LedgerReversal,
			InvoiceItemID: entry.InvoiceItemID,
			PaymentID:     entry.PaymentID,
			Notes:         notes,
		}
		if err := tx.Create(&reversal).Error; err != nil {
			return err
		}

		if entry.DoctorID != nil && entry.InvoiceItemID != nil {
			var item models.ReservationItem
			if err := tx.First(&item, *entry.InvoiceItemID).Error; err != nil {
				return err
			}
			// The reversal belongs to the month it is posted in, the same
			// month its own CreatedAt lands the entry in on replay. Backing
			// out the accrual's month instead would leave the cache
			// disagreeing with the ledger for both months.
			now := time.Now()
			return s.applyToMonthlyStat(tx, *entry.DoctorID, item.ProductID,
				int(now.Month()), now.Year(),
				-item.Quantity, item.TotalPrice.Neg(), entry.Amount.Neg())
		}
		return nil
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"entry_id":    entryID,
		"reversal_id": reversal.ID,
		"amount":      reversal.Amount.String(),
	}).Info("accrual reversed")
	return &reversal, nil
}

// RecordPayout records a company bonus disbursement: the BonusPayment row
// for reporting plus the matching negative payout entry in the ledger.
func (s *BonusService) RecordPayout(db *gorm.DB, in BonusPayoutInput) (*models.BonusPayment, error) {
	if err := utils.Validate.Struct(in); err != nil {
		return nil, err
	}
	if !in.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	paidDate := in.PaidDate
	if paidDate.IsZero() {
		paidDate = time.Now()
	}

	var payout models.BonusPayment
	err := db.Transaction(func(tx *gorm.DB) error {
		payout = models.BonusPayment{
			MedRepID:  in.MedRepID,
			DoctorID:  in.DoctorID,
			ProductID: in.ProductID,
			Amount:    in.Amount,
			ForMonth:  in.ForMonth,
			ForYear:   in.ForYear,
			PaidDate:  paidDate,
			Notes:     in.Notes,
		}
		if err := tx.Create(&payout).Error; err != nil {
			return err
		}

		entry := models.BonusLedger{
			UserID:     &in.MedRepID,
			DoctorID:   in.DoctorID,
			Amount:     in.Amount.Neg(),
			LedgerType: models.LedgerPayout,
			Notes:      in.Notes,
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"med_rep_id": in.MedRepID,
		"amount":     in.Amount.String(),
		"for_month":  in.ForMonth,
		"for_year":   in.ForYear,
	}).Info("bonus payout recorded")
	return &payout, nil
}

// DoctorBalance is the signed sum of the doctor's ledger entries.
func (s *BonusService) DoctorBalance(db *gorm.DB, doctorID uint) (decimal.Decimal, error) {
	return s.ledgerSum(db, "doctor_id = ?", doctorID)
}

// UserBalance is the signed sum of the med rep's ledger entries.
func (s *BonusService) UserBalance(db *gorm.DB, userID uint) (decimal.Decimal, error) {
	return s.ledgerSum(db, "user_id = ?", userID)
}

func (s *BonusService) ledgerSum(db *gorm.DB, cond string, arg interface{}) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	err := db.Model(&models.BonusLedger{}).
		Select("COALESCE(SUM(amount), 0) AS total").
		Where(cond, arg).
		Scan(&result).Error
	if err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// RebuildMonthlyStat replays the accrual and reversal entries for a
// (doctor, product, month, year) key and overwrites the cached bonus_amount
// with the replayed sum. Used to repair counter drift; the ledger is the
// source of truth.
func (s *BonusService) RebuildMonthlyStat(db *gorm.DB, doctorID, productID uint, month, year int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := db.Transaction(func(tx *gorm.DB) error {
		type ledgerRow struct {
			Amount    decimal.Decimal
			CreatedAt time.Time
		}
		var rows []ledgerRow
		if err := tx.Model(&models.BonusLedger{}).
			Select("bonus_ledgers.amount, bonus_ledgers.created_at").
			Joins("JOIN reservation_items ON reservation_items.id = bonus_ledgers.invoice_item_id").
			Where("bonus_ledgers.doctor_id = ? AND reservation_items.product_id = ? AND bonus_ledgers.ledger_type IN ?",
				doctorID, productID, []string{models.LedgerAccrual, models.LedgerReversal}).
			Scan(&rows).Error; err != nil {
			return err
		}

		total = decimal.Zero
		for _, row := range rows {
			if int(row.CreatedAt.Month()) == month && row.CreatedAt.Year() == year {
				total = total.Add(row.Amount)
			}
		}

		stat := models.DoctorMonthlyStat{
			DoctorID:  doctorID,
			ProductID: productID,
			Month:     month,
			Year:      year,
		}
		if err := forUpdate(tx).
			Where("doctor_id = ? AND product_id = ? AND month = ? AND year = ?", doctorID, productID, month, year).
			FirstOrCreate(&stat).Error; err != nil {
			return err
		}
		return tx.Model(&models.DoctorMonthlyStat{}).Where("id = ?", stat.ID).
			Update("bonus_amount", total).Error
	})
	if err != nil {
		return decimal.Zero, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"doctor_id":  doctorID,
		"product_id": productID,
		"month":      month,
		"year":       year,
		"bonus":      total.String(),
	}).Info("monthly stat rebuilt from ledger")
	return total, nil
}
