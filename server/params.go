package server

import (
	"strconv"

	"townbank/server/middleware"

	"github.com/gin-gonic/gin"
)

// callerID returns the authenticated account; Auth guarantees it on protected routes
func callerID(c *gin.Context) int64 {
	id, _ := middleware.AccountID(c)
	return id
}

// idParam parses a positive integer path parameter, responding 400 when it is malformed
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondBadRequest(c, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// intQuery parses an optional integer query parameter
func intQuery(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		respondBadRequest(c, name+" must be an integer")
		return 0, false
	}
	return value, true
}

// boolQuery parses an optional boolean query parameter
func boolQuery(c *gin.Context, name string, fallback bool) (bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		respondBadRequest(c, name+" must be true or false")
		return false, false
	}
	return value, true
}
