// controllers/reassignment.go
package controllers

import (
	"net/http"

	"pharmacrm-backend/config"
	"pharmacrm-backend/services"
	"pharmacrm-backend/utils"

	"github.com/gin-gonic/gin"
)

type ReassignInput struct {
	FromAgentID uint `json:"from_agent_id" binding:"required"`
	ToAgentID   uint `json:"to_agent_id" binding:"required"`
}

// ReassignTerritory moves every doctor, organization link, plan and ledger
// row from one agent to another in a single transaction.
func ReassignTerritory(c *gin.Context) {
	actorID, ok := utils.CurrentUserID(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var input ReassignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result, err := services.NewReassignmentService().Reassign(config.DB, input.FromAgentID, input.ToAgentID, actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
