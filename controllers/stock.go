// controllers/stock.go
package controllers

import (
	"net/http"
	"strconv"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/services"
	"pharmacrm-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateWarehouseInput struct {
	Name          string `json:"name" binding:"required"`
	WarehouseType string `json:"warehouse_type" binding:"omitempty,oneof=central pharmacy"`
	MedOrgID      *uint  `json:"med_org_id"`
}

func CreateWarehouse(c *gin.Context) {
	var input CreateWarehouseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	warehouseType := input.WarehouseType
	if warehouseType == "" {
		warehouseType = models.WarehouseCentral
	}

	warehouse := models.Warehouse{
		Name:          input.Name,
		WarehouseType: warehouseType,
		MedOrgID:      input.MedOrgID,
	}
	if err := config.DB.Create(&warehouse).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create warehouse")
		return
	}

	c.JSON(http.StatusCreated, warehouse)
}

func GetWarehouses(c *gin.Context) {
	var warehouses []models.Warehouse
	if err := config.DB.Find(&warehouses).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve warehouses")
		return
	}

	c.JSON(http.StatusOK, warehouses)
}

// GetWarehouseStock lists the stock rows of one warehouse.
func GetWarehouseStock(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid warehouse ID")
		return
	}

	var stocks []models.Stock
	if err := config.DB.Where("warehouse_id = ?", id).Find(&stocks).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve stock")
		return
	}

	c.JSON(http.StatusOK, stocks)
}

// GetStockMovements lists the audit trail of one stock row.
func GetStockMovements(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid stock ID")
		return
	}

	var movements []models.StockMovement
	if err := config.DB.Where("stock_id = ?", id).
		Order("created_at DESC").
		Find(&movements).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve movements")
		return
	}

	c.JSON(http.StatusOK, movements)
}

// AdjustStock applies a purchase or manual adjustment through the
// reservation engine's locked path.
func AdjustStock(c *gin.Context) {
	actorID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input services.StockAdjustmentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	stock, err := services.NewReservationService().AdjustStock(config.DB, input, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stock)
}
