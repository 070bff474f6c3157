// controllers/payment.go
package controllers

import (
	"net/http"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/services"
	"pharmacrm-backend/utils"

	"github.com/gin-gonic/gin"
)

// CreatePayment posts a payment against an invoice. When the invoice
// becomes fully paid and a doctor is allocated, bonus accruals are posted
// in the same transaction.
func CreatePayment(c *gin.Context) {
	processorID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input services.PaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payment, err := services.NewBillingService().RecordPayment(config.DB, input, processorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payment)
}

func GetInvoices(c *gin.Context) {
	var invoices []models.Invoice
	if err := config.DB.Preload("Payments").
		Order("date DESC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	c.JSON(http.StatusOK, invoices)
}

// GetDebtors lists unpaid and partially paid invoices.
func GetDebtors(c *gin.Context) {
	var invoices []models.Invoice
	if err := config.DB.
		Where("status IN ?", []string{models.InvoiceUnpaid, models.InvoicePartial}).
		Order("date DESC").
		Find(&invoices).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve debtors")
		return
	}

	c.JSON(http.StatusOK, invoices)
}
