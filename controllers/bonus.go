// controllers/bonus.go
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

type ReverseEntryInput struct {
	Notes string `json:"notes"`
}

type RebuildStatInput struct {
	DoctorID  uint `json:"doctor_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Month     int  `json:"month" binding:"required,min=1,max=12"`
	Year      int  `json:"year" binding:"required"`
}

// GetDoctorLedger returns a doctor's ledger entries with their current
// signed balance.
func GetDoctorLedger(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid doctor ID")
		return
	}

	var entries []models.BonusLedger
	if err := config.DB.Where("doctor_id = ?", doctorID).
		Order("created_at DESC").
		Find(&entries).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve ledger")
		return
	}

	balance, err := services.NewBonusService().DoctorBalance(config.DB, uint(doctorID))
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to compute balance")
		return
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "balance": balance})
}

// ReverseLedgerEntry appends a compensating reversal for an accrual.
func ReverseLedgerEntry(c *gin.Context) {
	entryID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ledger entry ID")
		return
	}

	var input ReverseEntryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reversal, err := services.NewBonusService().ReverseAccrual(config.DB, uint(entryID), input.Notes)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reversal)
}

func GetBonusPayments(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if medRepID := c.Query("med_rep_id"); medRepID != "" {
		query = query.Where("med_rep_id = ?", medRepID)
	}

	var payments []models.BonusPayment
	if err := query.Find(&payments).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve bonus payments")
		return
	}

	c.JSON(http.StatusOK, payments)
}

// CreateBonusPayout records a bonus disbursement plus its ledger debit.
func CreateBonusPayout(c *gin.Context) {
	var input services.BonusPayoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	payout, err := services.NewBonusService().RecordPayout(config.DB, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, payout)
}

// RebuildMonthlyStat re-derives a cached monthly counter from the ledger.
func RebuildMonthlyStat(c *gin.Context) {
	var input RebuildStatInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	total, err := services.NewBonusService().RebuildMonthlyStat(
		config.DB, input.DoctorID, input.ProductID, input.Month, input.Year)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bonus_amount": total})
}
