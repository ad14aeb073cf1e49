package server

import (
	"net/http"

	"townbank/domain/entities"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// accountAction handles the admin routes that act on /:id and return the updated account
func (a *api) accountAction(c *gin.Context, action func(actorID, targetID int64) (*entities.Account, error)) {
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}

	account, err := action(callerID(c), targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(account))
}

func (a *api) promoteMayor(c *gin.Context) {
	a.accountAction(c, func(actorID, targetID int64) (*entities.Account, error) {
		return a.Roles.PromoteMayor(c.Request.Context(), actorID, targetID)
	})
}

func (a *api) demoteMayor(c *gin.Context) {
	a.accountAction(c, func(actorID, targetID int64) (*entities.Account, error) {
		return a.Roles.DemoteMayor(c.Request.Context(), actorID, targetID)
	})
}

func (a *api) assignJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "title is required and salary must be an integer")
		return
	}
	a.accountAction(c, func(actorID, targetID int64) (*entities.Account, error) {
		return a.Roles.AssignJob(c.Request.Context(), actorID, targetID, entities.Job{Title: req.Title, Salary: req.Salary})
	})
}

func (a *api) removeJob(c *gin.Context) {
	a.accountAction(c, func(actorID, targetID int64) (*entities.Account, error) {
		return a.Roles.RemoveJob(c.Request.Context(), actorID, targetID)
	})
}

func (a *api) setCasinoStaff(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "value is required")
		return
	}
	a.accountAction(c, func(actorID, targetID int64) (*entities.Account, error) {
		return a.Roles.SetCasinoStaff(c.Request.Context(), actorID, targetID, *req.Value)
	})
}

func (a *api) setActive(c *gin.Context) {
	var req flagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "value is required")
		return
	}
	a.accountAction(c, func(actorID, targetID int64) (*entities.Account, error) {
		return a.Roles.SetAccountActive(c.Request.Context(), actorID, targetID, *req.Value)
	})
}

func (a *api) forceAdjust(c *gin.Context) {
	targetID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req adjustRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "reason is required and delta must be an integer")
		return
	}

	entry, err := a.Roles.ForceAdjustBalance(c.Request.Context(), callerID(c), targetID, req.Delta, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newHistoryResponse(entry))
}

func (a *api) issueSecret(c *gin.Context) {
	actorID := callerID(c)
	issued, err := a.Roles.IssueCreatorSecret(c.Request.Context(), &actorID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":        issued.Secret.ID,
		"secret":    issued.Token,
		"createdAt": issued.Secret.CreatedAt,
	})
}

func (a *api) revokeSecret(c *gin.Context) {
	secretID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "id must be a uuid")
		return
	}

	if err := a.Roles.RevokeCreatorSecret(c.Request.Context(), callerID(c), secretID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (a *api) claimCreator(c *gin.Context) {
	var req claimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "secret is required")
		return
	}

	account, err := a.Roles.ClaimCreator(c.Request.Context(), callerID(c), req.Secret)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(account))
}
