package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"intellibiz-backend/apperrors"
)

var statusByType = map[apperrors.ErrorType]int{
	apperrors.ErrorTypeNotFound:          http.StatusNotFound,
	apperrors.ErrorTypeValidation:        http.StatusBadRequest,
	apperrors.ErrorTypeConflict:          http.StatusConflict,
	apperrors.ErrorTypeInvalidTransition: http.StatusConflict,
	apperrors.ErrorTypeUnauthorized:      http.StatusUnauthorized,
	apperrors.ErrorTypeForbidden:         http.StatusForbidden,
	apperrors.ErrorTypeExternal:          http.StatusBadGateway,
	apperrors.ErrorTypeInternal:          http.StatusInternalServerError,
}

var typeByStatus = map[int]apperrors.ErrorType{
	http.StatusBadRequest:          apperrors.ErrorTypeValidation,
	http.StatusUnauthorized:        apperrors.ErrorTypeUnauthorized,
	http.StatusForbidden:           apperrors.ErrorTypeForbidden,
	http.StatusNotFound:            apperrors.ErrorTypeNotFound,
	http.StatusConflict:            apperrors.ErrorTypeConflict,
	http.StatusInternalServerError: apperrors.ErrorTypeInternal,
}

// RespondWithError aborts the request with a JSON error body.
func RespondWithError(c *gin.Context, status int, message string) {
	code, ok := typeByStatus[status]
	if !ok {
		code = apperrors.ErrorTypeInternal
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": code})
}

// RespondWithAppError maps err to its HTTP status. Internal details are
// logged, not returned.
func RespondWithAppError(c *gin.Context, err error) {
	errType := apperrors.TypeOf(err)
	status, ok := statusByType[errType]
	if !ok {
		status = http.StatusInternalServerError
	}

	message := "Internal server error"
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && errType != apperrors.ErrorTypeInternal {
		message = appErr.Message
	}
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("request failed")
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message, "code": errType})
}
