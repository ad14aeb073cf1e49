package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (a *api) takeLoan(c *gin.Context) {
	var req loanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "principal must be an integer")
		return
	}

	result, err := a.Credits.TakeLoan(c.Request.Context(), callerID(c), req.Principal)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"credit":     newCreditResponse(result.Credit, result.Snapshot),
		"newBalance": result.NewBalance,
	})
}

func (a *api) listCredits(c *gin.Context) {
	includePaid, ok := boolQuery(c, "includePaid", false)
	if !ok {
		return
	}

	credits, err := a.Credits.ListCredits(c.Request.Context(), callerID(c), includePaid)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	out := make([]creditResponse, 0, len(credits))
	for _, credit := range credits {
		out = append(out, newCreditResponse(credit, credit.Snapshot(now)))
	}
	c.JSON(http.StatusOK, gin.H{"credits": out})
}

func (a *api) getCredit(c *gin.Context) {
	creditID, ok := idParam(c, "id")
	if !ok {
		return
	}

	credit, err := a.Credits.GetCredit(c.Request.Context(), callerID(c), creditID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCreditResponse(credit, credit.Snapshot(time.Now())))
}

func (a *api) repay(c *gin.Context) {
	creditID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req repayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "amount must be an integer")
		return
	}

	result, err := a.Credits.Repay(c.Request.Context(), creditID, callerID(c), req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"credit":     newCreditResponse(result.Credit, result.Snapshot),
		"newBalance": result.NewBalance,
		"fullyPaid":  result.FullyPaid,
	})
}
