package models

import "time"

const (
	WarehouseCentral  = "central"
	WarehousePharmacy = "pharmacy"
)

// Stock movement types. One immutable movement row is written for every
// quantity change, with the sign of the change in QuantityChange.
const (
	MovementReservation = "reservation"
	MovementReturn      = "return"
	MovementAdjustment  = "adjustment"
	MovementPurchase    = "purchase"
)

type Warehouse struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"uniqueIndex;not null" json:"name"`
	WarehouseType string `gorm:"default:'central'" json:"warehouse_type"`

	// Set when the warehouse belongs to a specific pharmacy organization.
	MedOrgID *uint `json:"med_org_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Stocks []Stock `gorm:"foreignKey:WarehouseID;constraint:OnDelete:CASCADE" json:"-"`
}

type Stock struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WarehouseID uint `gorm:"not null;uniqueIndex:idx_stock_warehouse_product,priority:1" json:"warehouse_id"`
	ProductID   uint `gorm:"not null;uniqueIndex:idx_stock_warehouse_product,priority:2;index" json:"product_id"`
	Quantity    int  `gorm:"not null;default:0" json:"quantity"`

	Product *Product `gorm:"foreignKey:ProductID" json:"-"`
}

type StockMovement struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	StockID      uint   `gorm:"not null;index" json:"stock_id"`
	MovementType string `gorm:"not null" json:"movement_type"`
	// Positive for incoming, negative for outgoing.
	QuantityChange int `gorm:"not null" json:"quantity_change"`
	// ReferenceID points at the originating document, e.g. a reservation.
	ReferenceID *uint     `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
}
