// controllers/crm.go
package controllers

import (
	"net/http"
	"strconv"

	"pharmacrm-backend/config"
	"pharmacrm-backend/models"
	"pharmacrm-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreateDoctorInput struct {
	FullName      string `json:"full_name" binding:"required"`
	Contact1      string `json:"contact1"`
	Email         string `json:"email" binding:"omitempty,email"`
	Address       string `json:"address"`
	RegionID      *uint  `json:"region_id"`
	SpecialtyID   *uint  `json:"specialty_id"`
	CategoryID    *uint  `json:"category_id"`
	MedOrgID      *uint  `json:"med_org_id"`
	AssignedRepID *uint  `json:"assigned_rep_id"`
}

type CreateOrganizationInput struct {
	Name         string `json:"name" binding:"required"`
	Address      string `json:"address"`
	RegionID     *uint  `json:"region_id"`
	OrgType      string `json:"org_type" binding:"omitempty,oneof=clinic pharmacy hospital"`
	Brand        string `json:"brand"`
	DirectorName string `json:"director_name"`
	ContactPhone string `json:"contact_phone"`
}

type AssignRepInput struct {
	UserID uint `json:"user_id" binding:"required"`
}

func CreateDoctor(c *gin.Context) {
	var input CreateDoctorInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	doctor := models.Doctor{
		FullName:      input.FullName,
		Contact1:      input.Contact1,
		Email:         input.Email,
		Address:       input.Address,
		RegionID:      input.RegionID,
		SpecialtyID:   input.SpecialtyID,
		CategoryID:    input.CategoryID,
		MedOrgID:      input.MedOrgID,
		AssignedRepID: input.AssignedRepID,
		IsActive:      true,
	}
	if err := config.DB.Create(&doctor).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create doctor")
		return
	}

	c.JSON(http.StatusCreated, doctor)
}

func GetDoctors(c *gin.Context) {
	query := config.DB.Order("full_name")
	if repID := c.Query("assigned_rep_id"); repID != "" {
		query = query.Where("assigned_rep_id = ?", repID)
	}

	var doctors []models.Doctor
	if err := query.Find(&doctors).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve doctors")
		return
	}

	c.JSON(http.StatusOK, doctors)
}

func CreateOrganization(c *gin.Context) {
	var input CreateOrganizationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	orgType := input.OrgType
	if orgType == "" {
		orgType = models.OrgTypeClinic
	}

	org := models.MedicalOrganization{
		Name:         input.Name,
		Address:      input.Address,
		RegionID:     input.RegionID,
		OrgType:      orgType,
		Brand:        input.Brand,
		DirectorName: input.DirectorName,
		ContactPhone: input.ContactPhone,
	}
	if err := config.DB.Create(&org).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create organization")
		return
	}

	c.JSON(http.StatusCreated, org)
}

func GetOrganizations(c *gin.Context) {
	var orgs []models.MedicalOrganization
	if err := config.DB.Order("name").Find(&orgs).Error; err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve organizations")
		return
	}

	c.JSON(http.StatusOK, orgs)
}

// AssignOrganizationRep links a med rep to an organization. The composite
// primary key makes a duplicate link a conflict, not a second row.
func AssignOrganizationRep(c *gin.Context) {
	orgID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid organization ID")
		return
	}

	var input AssignRepInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	edge := models.MedRepOrganization{UserID: input.UserID, OrganizationID: uint(orgID)}
	if err := config.DB.Create(&edge).Error; err != nil {
		utils.RespondWithError(c, http.StatusConflict, "Organization is already linked to this rep")
		return
	}

	c.JSON(http.StatusCreated, edge)
}
