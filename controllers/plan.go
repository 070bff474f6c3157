// controllers/plan.go
package controllers

import (
	"net/http"
	"time"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreatePlanInput struct {
	MedRepID       uint            `json:"med_rep_id" binding:"required"`
	DoctorID       *uint           `json:"doctor_id"`
	MedOrgID       *uint           `json:"med_org_id"`
	ProductID      uint            `json:"product_id" binding:"required"`
	Month          int             `json:"month" binding:"required,min=1,max=12"`
	Year           int             `json:"year" binding:"required"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	TargetQuantity int             `json:"target_quantity"`
	Deadline       *time.Time      `json:"deadline"`
}

type CreateDoctorFactInput struct {
	MedRepID  uint `json:"med_rep_id" binding:"required"`
	DoctorID  uint `json:"doctor_id" binding:"required"`
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
	Month     int  `json:"month" binding:"required,min=1,max=12"`
	Year      int  `json:"year" binding:"required"`
}

func CreatePlan(c *gin.Context) {
	var input CreatePlanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	plan := models.Plan{
		MedRepID:       input.MedRepID,
		DoctorID:       input.DoctorID,
		MedOrgID:       input.MedOrgID,
		ProductID:      input.ProductID,
		Month:          input.Month,
		Year:           input.Year,
		TargetAmount:   input.TargetAmount,
		TargetQuantity: input.TargetQuantity,
		Deadline:       input.Deadline,
	}
	if err := config.DB.Create(&plan).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create plan")
		return
	}

	c.JSON(http.StatusCreated, plan)
}

func GetPlans(c *gin.Context) {
	query := config.DB.Order("year DESC, month DESC")
	if medRepID := c.Query("med_rep_id"); medRepID != "" {
		query = query.Where("med_rep_id = ?", medRepID)
	}
	if month := c.Query("month"); month != "" {
		query = query.Where("month = ?", month)
	}
	if year := c.Query("year"); year != "" {
		query = query.Where("year = ?", year)
	}

	var plans []models.Plan
	if err := query.Find(&plans).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve plans")
		return
	}

	c.JSON(http.StatusOK, plans)
}

func CreateDoctorFact(c *gin.Context) {
	var input CreateDoctorFactInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	fact := models.DoctorFactAssignment{
		MedRepID:  input.MedRepID,
		DoctorID:  input.DoctorID,
		ProductID: input.ProductID,
		Quantity:  input.Quantity,
		Month:     input.Month,
		Year:      input.Year,
	}
	if err := config.DB.Create(&fact).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create fact assignment")
		return
	}

	c.JSON(http.StatusCreated, fact)
}

func GetDoctorFacts(c *gin.Context) {
	query := config.DB.Order("created_at DESC")
	if medRepID := c.Query("med_rep_id"); medRepID != "" {
		query = query.Where("med_rep_id = ?", medRepID)
	}

	var facts []models.DoctorFactAssignment
	if err := query.Find(&facts).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve fact assignments")
		return
	}

	c.JSON(http.StatusOK, facts)
}
