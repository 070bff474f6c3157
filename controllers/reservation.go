// controllers/reservation.go
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

type ReservationStatusInput struct {
	Status string `json:"status" binding:"required,oneof=approved cancelled"`
}

// CreateReservation books stock for a new order through the reservation
// engine.
func CreateReservation(c *gin.Context) {
	actorID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input services.CreateReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	reservation, err := services.NewReservationService().Create(config.DB, input, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func GetReservations(c *gin.Context) {
	var reservations []models.Reservation
	if err := config.DB.Preload("Items").
		Order("date DESC").
		Find(&reservations).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve reservations")
		return
	}

	c.JSON(http.StatusOK, reservations)
}

func GetReservation(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var reservation models.Reservation
	if err := config.DB.Preload("Items").Preload("Invoice").
		First(&reservation, id).Error; err != nil {
		utils.RespondWithError(c, http.StatusNotFound, "Reservation not found")
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// UpdateReservationStatus confirms or cancels a pending reservation.
// Confirmation creates the invoice; cancellation restores the stock.
func UpdateReservationStatus(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid reservation ID")
		return
	}

	var input ReservationStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	svc := services.NewReservationService()
	switch input.Status {
	case models.ReservationApproved:
		invoice, err := svc.Confirm(config.DB, uint(id))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": models.ReservationApproved, "invoice": invoice})
	case models.ReservationCancelled:
		reservation, err := svc.Cancel(config.DB, uint(id))
		if err != nil {
			respondServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, reservation)
	}
}
