// services/reservation_service.go
package services

import (
	"errors"
	"sort"
	"time"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ReservationItemInput struct {
	ProductID       uint            `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	ManufacturerID  *uint           `json:"manufacturer_id"`
}

type CreateReservationInput struct {
	WarehouseID  uint                   `json:"warehouse_id" validate:"required"`
	CustomerName string                 `json:"customer_name" validate:"required"`
	MedOrgID     *uint                  `json:"med_org_id"`
	ValidityDate *time.Time             `json:"validity_date"`
	Description  string                 `json:"description"`
	Items        []ReservationItemInput `json:"items" validate:"required,min=1,dive"`
}

type StockAdjustmentInput struct {
	WarehouseID    uint   `json:"warehouse_id" validate:"required"`
	ProductID      uint   `json:"product_id" validate:"required"`
	QuantityChange int    `json:"quantity_change" validate:"required"`
	MovementType   string `json:"movement_type" validate:"required,oneof=purchase adjustment"`
}

// ReservationService guards the stock ledger: every quantity change goes
// through one of its locked transactions together with its movement row.
type ReservationService struct {
	log *logrus.Logger
}

func NewReservationService() *ReservationService {
	return &ReservationService{log: config.GetLogger()}
}

var hundred = decimal.NewFromInt(100)

// Create reserves stock for a new order. All stock rows involved are locked
// before any check or mutation so concurrent reservations against the same
// warehouse cannot oversell. Fails as a whole: either every line is deducted
// and recorded, or nothing is.
func (s *ReservationService) Create(db *gorm.DB, in CreateReservationInput, actorID uint) (*models.Reservation, error) {
	if err := utils.Validate.Struct(in); err != nil {
		return nil, err
	}
	for _, it := range in.Items {
		if it.Price.IsNegative() || it.DiscountPercent.IsNegative() || it.DiscountPercent.GreaterThan(hundred) {
			return nil, ErrInvalidItem
		}
	}

	// Total requested per product; a product may appear on several lines.
	requested := make(map[uint]int, len(in.Items))
	productIDs := make([]uint, 0, len(in.Items))
	for _, it := range in.Items {
		if _, seen := requested[it.ProductID]; !seen {
			productIDs = append(productIDs, it.ProductID)
		}
		requested[it.ProductID] += it.Quantity
	}
	// Fixed lock order: overlapping reservations always lock stock rows in
	// ascending product order, whatever order the request listed them in.
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	var reservation models.Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		var warehouse models.Warehouse
		if err := tx.First(&warehouse, in.WarehouseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWarehouseNotFound
			}
			return err
		}

		var stocks []models.Stock
		if err := forUpdate(tx).
			Where("warehouse_id = ? AND product_id IN ?", in.WarehouseID, productIDs).
			Order("product_id").
			Find(&stocks).Error; err != nil {
			return err
		}
		byProduct := make(map[uint]*models.Stock, len(stocks))
		for i := range stocks {
			byProduct[stocks[i].ProductID] = &stocks[i]
		}

		for _, pid := range productIDs {
			stock, ok := byProduct[pid]
			if !ok {
				return &InsufficientStockError{ProductID: pid, Requested: requested[pid], Available: 0}
			}
			if stock.Quantity < requested[pid] {
				return &InsufficientStockError{ProductID: pid, Requested: requested[pid], Available: stock.Quantity}
			}
		}

		total := decimal.Zero
		items := make([]models.ReservationItem, 0, len(in.Items))
		for _, it := range in.Items {
			lineTotal := it.Price.
				Mul(decimal.NewFromInt(int64(it.Quantity))).
				Mul(hundred.Sub(it.DiscountPercent)).
				Div(hundred)
			total = total.Add(lineTotal)
			items = append(items, models.ReservationItem{
				ProductID:       it.ProductID,
				ManufacturerID:  it.ManufacturerID,
				Quantity:        it.Quantity,
				Price:           it.Price,
				DiscountPercent: it.DiscountPercent,
				TotalPrice:      lineTotal,
			})
		}

		reservation = models.Reservation{
			CreatedByID:  actorID,
			CustomerName: in.CustomerName,
			MedOrgID:     in.MedOrgID,
			WarehouseID:  in.WarehouseID,
			ValidityDate: in.ValidityDate,
			Description:  in.Description,
			Status:       models.ReservationPending,
			TotalAmount:  total,
			Items:        items,
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return err
		}

		for _, pid := range productIDs {
			if err := tx.Model(&models.Stock{}).Where("id = ?", byProduct[pid].ID).
				Update("quantity", gorm.Expr("quantity - ?", requested[pid])).Error; err != nil {
				return err
			}
		}

		// One audit row per line item.
		movements := make([]models.StockMovement, 0, len(reservation.Items))
		for _, item := range reservation.Items {
			movements = append(movements, models.StockMovement{
				StockID:        byProduct[item.ProductID].ID,
				MovementType:   models.MovementReservation,
				QuantityChange: -item.Quantity,
				ReferenceID:    &reservation.ID,
			})
		}
		return tx.Create(&movements).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"warehouse_id":   in.WarehouseID,
		"total_amount":   reservation.TotalAmount.String(),
		"created_by":     actorID,
	}).Info("reservation created")
	return &reservation, nil
}

// Confirm moves a pending reservation to approved and creates its invoice.
// The unique reservation_id on invoices backs the exactly-once guarantee;
// confirming an already-invoiced reservation is rejected, never duplicated.
func (s *ReservationService) Confirm(db *gorm.DB, id uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := db.Transaction(func(tx *gorm.DB) error {
		var reservation models.Reservation
		if err := forUpdate(tx).First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}

		var existing int64
		if err := tx.Model(&models.Invoice{}).Where("reservation_id = ?", id).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrAlreadyInvoiced
		}
		if reservation.Status != models.ReservationPending && reservation.Status != models.ReservationDraft {
			return ErrReservationNotOpen
		}

		if err := tx.Model(&models.Reservation{}).Where("id = ?", id).
			Update("status", models.ReservationApproved).Error; err != nil {
			return err
		}

		invoice = models.Invoice{
			Number:        utils.DocumentNumber("INV"),
			TotalAmount:   reservation.TotalAmount,
			PaidAmount:    decimal.Zero,
			Status:        models.InvoiceUnpaid,
			ReservationID: reservation.ID,
		}
		return tx.Create(&invoice).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"reservation_id": id,
		"invoice_id":     invoice.ID,
		"invoice_number": invoice.Number,
	}).Info("reservation confirmed")
	return &invoice, nil
}

// Cancel voids a draft or pending reservation and returns its quantities to
// stock, with one positive return movement per line item.
func (s *ReservationService) Cancel(db *gorm.DB, id uint) (*models.Reservation, error) {
	var reservation models.Reservation
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := forUpdate(tx).Preload("Items").First(&reservation, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReservationNotFound
			}
			return err
		}
		if reservation.Status != models.ReservationPending && reservation.Status != models.ReservationDraft {
			return ErrReservationNotOpen
		}

		returned := make(map[uint]int, len(reservation.Items))
		productIDs := make([]uint, 0, len(reservation.Items))
		for _, item := range reservation.Items {
			if _, seen := returned[item.ProductID]; !seen {
				productIDs = append(productIDs, item.ProductID)
			}
			returned[item.ProductID] += item.Quantity
		}
		sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

		var stocks []models.Stock
		if err := forUpdate(tx).
			Where("warehouse_id = ? AND product_id IN ?", reservation.WarehouseID, productIDs).
			Order("product_id").
			Find(&stocks).Error; err != nil {
			return err
		}
		byProduct := make(map[uint]*models.Stock, len(stocks))
		for i := range stocks {
			byProduct[stocks[i].ProductID] = &stocks[i]
		}

		for _, pid := range productIDs {
			stock, ok := byProduct[pid]
			if !ok {
				// Stock row was deleted since the reservation was taken.
				stock = &models.Stock{WarehouseID: reservation.WarehouseID, ProductID: pid}
				if err := tx.Create(stock).Error; err != nil {
					return err
				}
				byProduct[pid] = stock
			}
			if err := tx.Model(&models.Stock{}).Where("id = ?", stock.ID).
				Update("quantity", gorm.Expr("quantity + ?", returned[pid])).Error; err != nil {
				return err
			}
		}

		movements := make([]models.StockMovement, 0, len(reservation.Items))
		for _, item := range reservation.Items {
			movements = append(movements, models.StockMovement{
				StockID:        byProduct[item.ProductID].ID,
				MovementType:   models.MovementReturn,
				QuantityChange: item.Quantity,
				ReferenceID:    &reservation.ID,
			})
		}
		if err := tx.Create(&movements).Error; err != nil {
			return err
		}

		reservation.Status = models.ReservationCancelled
		return tx.Model(&models.Reservation{}).Where("id = ?", id).
			Update("status", models.ReservationCancelled).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithField("reservation_id", id).Info("reservation cancelled, stock restored")
	return &reservation, nil
}

// AdjustStock applies a signed purchase or manual adjustment to a single
// stock row, creating the row on first purchase. Decrements below zero are
// rejected.
func (s *ReservationService) AdjustStock(db *gorm.DB, in StockAdjustmentInput, actorID uint) (*models.Stock, error) {
	if err := utils.Validate.Struct(in); err != nil {
		return nil, err
	}

	var stock models.Stock
	err := db.Transaction(func(tx *gorm.DB) error {
		var warehouse models.Warehouse
		if err := tx.First(&warehouse, in.WarehouseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWarehouseNotFound
			}
			return err
		}

		stock = models.Stock{WarehouseID: in.WarehouseID, ProductID: in.ProductID}
		if err := forUpdate(tx).
			Where("warehouse_id = ? AND product_id = ?", in.WarehouseID, in.ProductID).
			FirstOrCreate(&stock).Error; err != nil {
			return err
		}

		if stock.Quantity+in.QuantityChange < 0 {
			return &InsufficientStockError{
				ProductID: in.ProductID,
				Requested: -in.QuantityChange,
				Available: stock.Quantity,
			}
		}

		if err := tx.Model(&models.Stock{}).Where("id = ?", stock.ID).
			Update("quantity", gorm.Expr("quantity + ?", in.QuantityChange)).Error; err != nil {
			return err
		}
		stock.Quantity += in.QuantityChange

		movement := models.StockMovement{
			StockID:        stock.ID,
			MovementType:   in.MovementType,
			QuantityChange: in.QuantityChange,
		}
		return tx.Create(&movement).Error
	})
	if err != nil {
		return nil, wrapTxError(err)
	}

	s.log.WithFields(logrus.Fields{
		"warehouse_id": in.WarehouseID,
		"product_id":   in.ProductID,
		"change":       in.QuantityChange,
		"type":         in.MovementType,
		"actor":        actorID,
	}).Info("stock adjusted")
	return &stock, nil
}
