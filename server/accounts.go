package server

import (
	"net/http"

	"townbank/application"

	"github.com/gin-gonic/gin"
)

type loginResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

func newLoginResponse(result *application.LoginResult) loginResponse {
	return loginResponse{Token: result.Token, Account: newAccountResponse(result.Account)}
}

func (a *api) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "login and password are required")
		return
	}

	result, err := a.Accounts.Register(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, newLoginResponse(result))
}

func (a *api) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "login and password are required")
		return
	}

	result, err := a.Accounts.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newLoginResponse(result))
}

func (a *api) me(c *gin.Context) {
	account, err := a.Accounts.GetAccount(c.Request.Context(), callerID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(account))
}

func (a *api) history(c *gin.Context) {
	limit, ok := intQuery(c, "limit", 0)
	if !ok {
		return
	}

	entries, err := a.Accounts.GetHistory(c.Request.Context(), callerID(c), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]historyResponse, 0, len(entries))
	for _, entry := range entries {
		out = append(out, newHistoryResponse(entry))
	}
	c.JSON(http.StatusOK, gin.H{"history": out})
}

func (a *api) setNickname(c *gin.Context) {
	var req nicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "nickname is required")
		return
	}

	account, err := a.Accounts.SetNickname(c.Request.Context(), callerID(c), req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newAccountResponse(account))
}
