// controllers/product.go
package controllers

import (
	"net/http"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreateProductInput struct {
	Name             string           `json:"name" binding:"required"`
	Price            decimal.Decimal  `json:"price" binding:"required"`
	ProductionPrice  decimal.Decimal  `json:"production_price"`
	CategoryID       *uint            `json:"category_id"`
	MarketingExpense *decimal.Decimal `json:"marketing_expense"`
	SalaryExpense    *decimal.Decimal `json:"salary_expense"`
	OtherExpenses    *decimal.Decimal `json:"other_expenses"`
}

func CreateProduct(c *gin.Context) {
	var input CreateProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.Price.IsNegative() {
		utils.RespondWithError(c, http.StatusBadRequest, "Price must not be negative")
		return
	}

	product := models.Product{
		Name:            input.Name,
		Price:           input.Price,
		ProductionPrice: input.ProductionPrice,
		CategoryID:      input.CategoryID,
		IsActive:        true,
	}
	if input.MarketingExpense != nil {
		product.MarketingExpense = *input.MarketingExpense
	}
	if input.SalaryExpense != nil {
		product.SalaryExpense = *input.SalaryExpense
	}
	if input.OtherExpenses != nil {
		product.OtherExpenses = *input.OtherExpenses
	}

	if err := config.DB.Create(&product).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, product)
}

func GetProducts(c *gin.Context) {
	var products []models.Product
	if err := config.DB.Where("is_active = true").Order("name").Find(&products).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve products")
		return
	}

	c.JSON(http.StatusOK, products)
}
