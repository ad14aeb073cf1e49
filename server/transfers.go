package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *api) transfer(c *gin.Context) {
	var req transferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "receiverNickname is required and amount must be an integer")
		return
	}

	result, err := a.Transfers.Transfer(c.Request.Context(), callerID(c), req.ReceiverNickname, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"transfer":   newTransferResponse(result.Transfer),
		"fee":        result.Fee,
		"newBalance": result.SenderBalance,
	})
}

func (a *api) listTransfers(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}

	transfers, err := a.Transfers.ListTransfers(c.Request.Context(), callerID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]transferResponse, 0, len(transfers))
	for _, transfer := range transfers {
		out = append(out, newTransferResponse(transfer))
	}
	c.JSON(http.StatusOK, gin.H{"transfers": out})
}
