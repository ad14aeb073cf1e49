package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *api) getCycle(c *gin.Context) {
	state, err := a.Cycle.GetCycle(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCycleResponse(*state, nil))
}

func (a *api) advanceCycle(c *gin.Context) {
	var req advanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "direction is required")
		return
	}

	requester := callerID(c)
	result, err := a.Cycle.AdvanceCycle(c.Request.Context(), &requester, req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCycleResponse(result.State, result.Payroll))
}
