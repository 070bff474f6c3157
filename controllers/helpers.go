package controllers

import (
	"errors"
	"net/http"

	"pharmacrm-backend/services"
	"pharmacrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// respondServiceError maps the service layer's typed failures to HTTP
// status codes. Contention is reported as 503 so clients know the whole
// operation is safe to retry.
func respondServiceError(c *gin.Context, err error) {
	var (
		insufficientStock *services.InsufficientStockError
		overpayment       *services.OverpaymentError
		validationErrs    validator.ValidationErrors
	)

	switch {
	case errors.As(err, &validationErrs):
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
	case errors.As(err, &insufficientStock):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.As(err, &overpayment):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrWarehouseNotFound),
		errors.Is(err, services.ErrReservationNotFound),
		errors.Is(err, services.ErrInvoiceNotFound),
		errors.Is(err, services.ErrLedgerEntryNotFound),
		errors.Is(err, services.ErrAgentNotFound):
		utils.RespondWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAlreadyInvoiced),
		errors.Is(err, services.ErrInvoiceAlreadyPaid),
		errors.Is(err, services.ErrReservationNotOpen):
		utils.RespondWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidItem),
		errors.Is(err, services.ErrNotAccrualEntry),
		errors.Is(err, services.ErrRoleMismatch),
		errors.Is(err, services.ErrSameAgent):
		utils.RespondWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrContention):
		utils.RespondWithError(c, http.StatusServiceUnavailable, err.Error())
	default:
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
	}
}
