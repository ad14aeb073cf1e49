package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (a *api) initiateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "targetId is required")
		return
	}

	session, err := a.Wagers.InitiateSession(c.Request.Context(), callerID(c), req.TargetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newSessionResponse(session))
}

func (a *api) listSessions(c *gin.Context) {
	activeOnly, ok := boolQuery(c, "active", false)
	if !ok {
		return
	}

	sessions, err := a.Wagers.ListSessions(c.Request.Context(), callerID(c), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]sessionResponse, 0, len(sessions))
	for _, session := range sessions {
		out = append(out, newSessionResponse(session))
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

func (a *api) getSession(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := a.Wagers.GetSession(c.Request.Context(), sessionID, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

func (a *api) commitStake(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req stakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "stake must be an integer")
		return
	}

	result, err := a.Wagers.CommitStake(c.Request.Context(), sessionID, callerID(c), req.Stake)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":    newSessionResponse(result.Session),
		"game":       newGameResponse(result.Game),
		"newBalance": result.NewBalance,
	})
}

func (a *api) cancelSession(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := a.Wagers.CancelSession(c.Request.Context(), sessionID, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

func (a *api) declineSession(c *gin.Context) {
	sessionID, ok := idParam(c, "id")
	if !ok {
		return
	}

	session, err := a.Wagers.DeclineSession(c.Request.Context(), sessionID, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newSessionResponse(session))
}

func (a *api) getGame(c *gin.Context) {
	gameID, ok := idParam(c, "id")
	if !ok {
		return
	}

	game, err := a.Wagers.GetGame(c.Request.Context(), gameID, callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newGameResponse(game))
}

func (a *api) resolveGame(c *gin.Context) {
	gameID, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req resolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "winProbability and multiplier must be numbers")
		return
	}

	result, err := a.Wagers.ResolveGame(c.Request.Context(), gameID, callerID(c), req.WinProbability, req.Multiplier)
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{
		"session":       newSessionResponse(result.Session),
		"game":          newGameResponse(result.Game),
		"playerBalance": result.NewBalance,
		"payout":        result.Payout,
	}
	if result.Transfer != nil {
		body["transfer"] = newTransferResponse(result.Transfer)
	}
	c.JSON(http.StatusOK, body)
}
