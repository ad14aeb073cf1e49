package server

import (
	"errors"
	"net/http"

	"townbank/domain/apperrors"
	"townbank/server/middleware"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// errorBody is the JSON shape of every failed response
type errorBody struct {
	Kind    apperrors.Kind `json:"kind"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
}

func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindConflict:
		return http.StatusConflict
	case apperrors.KindInsufficientResource:
		return http.StatusUnprocessableEntity
	case apperrors.KindAuthorization:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a typed error body; internal details are logged, never returned
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		appErr = apperrors.Internal(err, "internal error")
	}

	if appErr.Kind == apperrors.KindInternal {
		accountID, _ := middleware.AccountID(c)
		log.WithFields(log.Fields{
			"request_id": c.GetString(middleware.RequestIDKey),
			"route":      c.FullPath(),
			"account_id": accountID,
			"error":      err,
		}).Error("Internal error while handling request")

		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": errorBody{
			Kind:    apperrors.KindInternal,
			Code:    "internal_error",
			Message: "internal server error",
		}})
		return
	}

	c.AbortWithStatusJSON(statusForKind(appErr.Kind), gin.H{"error": errorBody{
		Kind:    appErr.Kind,
		Code:    appErr.Code,
		Message: appErr.Message,
	}})
}

// respondBadRequest reports a malformed request body or parameter
func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": errorBody{
		Kind:    apperrors.KindValidation,
		Code:    "invalid_request",
		Message: message,
	}})
}
