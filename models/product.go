package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

type Manufacturer struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"index;not null" json:"name"`

	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	ProductionPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"production_price"`

	CategoryID *uint     `json:"category_id"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"-"`

	Manufacturers []Manufacturer `gorm:"many2many:product_manufacturers" json:"-"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	// MarketingExpense is the per-unit marketing allowance used for doctor
	// bonus accrual.
	MarketingExpense decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"marketing_expense"`
	SalaryExpense    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"salary_expense"`
	OtherExpenses    decimal.Decimal `gorm:"type:decimal(12,2);default:0" json:"other_expenses"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
