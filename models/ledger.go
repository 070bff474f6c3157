package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	LedgerAdvance  = "advance"
	LedgerPayout   = "payout"
	LedgerOffset   = "offset"
	LedgerAccrual  = "accrual"
	LedgerReversal = "reversal"
)

// BonusLedger is the append-only ledger of record for incentive money, for
// both doctors and med reps. Rows are never edited in place; corrections go
// through reversal entries. The current balance of a holder is the signed
// sum of their entries.
type BonusLedger struct {
	ID uint `gorm:"primaryKey" json:"id"`

	// Exactly one of UserID (med rep) or DoctorID is expected to be set.
	UserID   *uint `gorm:"index" json:"user_id"`
	DoctorID *uint `gorm:"index" json:"doctor_id"`

	// Positive is credit (earned), negative is debit (paid out / advance).
	Amount     decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	LedgerType string          `gorm:"not null;default:'accrual'" json:"ledger_type"`

	InvoiceItemID *uint `json:"invoice_item_id"`
	PaymentID     *uint `json:"payment_id"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	Notes     string    `json:"notes"`
}

// DoctorMonthlyStat is a denormalized counter row keyed by
// (doctor, product, month, year), kept to spare dashboards the aggregation
// joins. The bonus ledger stays the source of truth; BonusAmount must always
// be re-derivable by replaying accrual and reversal entries for the key.
type DoctorMonthlyStat struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	DoctorID  uint `gorm:"not null;uniqueIndex:idx_doctor_stat_key,priority:1" json:"doctor_id"`
	ProductID uint `gorm:"not null;uniqueIndex:idx_doctor_stat_key,priority:2" json:"product_id"`
	Month     int  `gorm:"not null;uniqueIndex:idx_doctor_stat_key,priority:3;index" json:"month"`
	Year      int  `gorm:"not null;uniqueIndex:idx_doctor_stat_key,priority:4;index" json:"year"`

	PlanQuantity int `gorm:"default:0" json:"plan_quantity"`
	SoldQuantity int `gorm:"default:0" json:"sold_quantity"`
	PaidQuantity int `gorm:"default:0" json:"paid_quantity"`

	PaidAmount  decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"paid_amount"`
	BonusAmount decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"bonus_amount"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
