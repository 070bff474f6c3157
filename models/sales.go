package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ReservationDraft     = "draft"
	ReservationPending   = "pending"
	ReservationApproved  = "approved"
	ReservationCancelled = "cancelled"
)

const (
	InvoiceUnpaid    = "unpaid"
	InvoicePartial   = "partial"
	InvoicePaid      = "paid"
	InvoiceReturned  = "returned"
	InvoiceCancelled = "cancelled"
)

const (
	PaymentCash = "cash"
	PaymentBank = "bank"
)

// Reservation is a tentative order against warehouse stock, pending
// confirmation. Stock is deducted at creation time under row locks.
type Reservation struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	CreatedByID  uint       `gorm:"not null" json:"created_by_id"`
	CustomerName string     `gorm:"not null" json:"customer_name"`
	MedOrgID     *uint      `json:"med_org_id"`
	WarehouseID  uint       `gorm:"not null" json:"warehouse_id"`
	Date         time.Time  `gorm:"autoCreateTime" json:"date"`
	ValidityDate *time.Time `json:"validity_date"`

	Status      string          `gorm:"default:'pending';index" json:"status"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total_amount"`
	Description string          `json:"description"`

	CreatedBy *User             `gorm:"foreignKey:CreatedByID" json:"-"`
	Items     []ReservationItem `gorm:"foreignKey:ReservationID;constraint:OnDelete:CASCADE" json:"items"`
	Invoice   *Invoice          `gorm:"foreignKey:ReservationID" json:"invoice,omitempty"`
}

type ReservationItem struct {
	ID             uint  `gorm:"primaryKey" json:"id"`
	ReservationID  uint  `gorm:"not null;index" json:"reservation_id"`
	ProductID      uint  `gorm:"not null" json:"product_id"`
	ManufacturerID *uint `json:"manufacturer_id"`
	Quantity       int   `gorm:"not null" json:"quantity"`

	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"total_price"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

// Invoice is the billable record created exactly once per approved
// reservation.
type Invoice struct {
	ID     uint      `gorm:"primaryKey" json:"id"`
	Number string    `gorm:"uniqueIndex;not null" json:"number"`
	Date   time.Time `gorm:"autoCreateTime" json:"date"`

	TotalAmount decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"total_amount"`
	PaidAmount  decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"paid_amount"`
	Status      string          `gorm:"default:'unpaid';index" json:"status"`
	Currency    string          `gorm:"default:'UZS'" json:"currency"`

	ReservationID uint `gorm:"uniqueIndex;not null" json:"reservation_id"`

	Reservation *Reservation `gorm:"foreignKey:ReservationID" json:"-"`
	Payments    []Payment    `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
}

// Payment is an immutable record of money received against an invoice.
type Payment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	InvoiceID uint            `gorm:"not null;index" json:"invoice_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	Date      time.Time       `gorm:"autoCreateTime" json:"date"`

	PaymentType   string `gorm:"default:'bank'" json:"payment_type"`
	ProcessedByID uint   `gorm:"not null" json:"processed_by_id"`
	// AllocatedDoctorID is set when the payment is attributed to a doctor
	// for bonus accrual. Can be null until a med rep allocates it.
	AllocatedDoctorID *uint `json:"allocated_doctor_id"`
}

type Plan struct {
	ID        uint  `gorm:"primaryKey" json:"id"`
	MedRepID  uint  `gorm:"not null;index" json:"med_rep_id"`
	DoctorID  *uint `json:"doctor_id"`
	MedOrgID  *uint `json:"med_org_id"`
	ProductID uint  `gorm:"not null" json:"product_id"`
	Month     int   `gorm:"not null" json:"month"`
	Year      int   `gorm:"not null" json:"year"`

	TargetAmount   decimal.Decimal `gorm:"type:decimal(14,2);default:0" json:"target_amount"`
	TargetQuantity int             `gorm:"default:0" json:"target_quantity"`
	Deadline       *time.Time      `json:"deadline"`
}

// DoctorFactAssignment records bonus quantities a med rep has manually
// attributed to a doctor for a month.
type DoctorFactAssignment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	MedRepID  uint      `gorm:"not null;index" json:"med_rep_id"`
	DoctorID  uint      `gorm:"not null" json:"doctor_id"`
	ProductID uint      `gorm:"not null" json:"product_id"`
	Quantity  int       `gorm:"not null;default:0" json:"quantity"`
	Month     int       `gorm:"not null" json:"month"`
	Year      int       `gorm:"not null" json:"year"`
	CreatedAt time.Time `json:"created_at"`
}

// BonusPayment records a bonus disbursement made by the company through a
// med rep. The matching debit lives in the bonus ledger.
type BonusPayment struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	MedRepID  uint            `gorm:"not null;index" json:"med_rep_id"`
	DoctorID  *uint           `json:"doctor_id"`
	ProductID *uint           `json:"product_id"`
	Amount    decimal.Decimal `gorm:"type:decimal(14,2);not null" json:"amount"`
	ForMonth  int             `gorm:"not null" json:"for_month"`
	ForYear   int             `gorm:"not null" json:"for_year"`
	PaidDate  time.Time       `gorm:"type:date;not null" json:"paid_date"`
	Notes     string          `json:"notes"`
	CreatedAt time.Time       `json:"created_at"`
}
