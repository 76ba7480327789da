package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/clinica-bage/app-rx/internal/middleware"
	"github.com/clinica-bage/app-rx/internal/models"
	"github.com/clinica-bage/app-rx/internal/observability"
	"github.com/clinica-bage/app-rx/internal/utils"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists every field that failed validation
type ValidationErrorResponse struct {
	Error  string                  `json:"error"`
	Errors []utils.ValidationError `json:"errors"`
}

// httpStatusError is implemented by errors that carry the backend's status
type httpStatusError interface {
	HTTPStatus() int
}

// errorStatus maps a service error onto the response status
func errorStatus(err error) int {
	var withStatus httpStatusError
	switch {
	case errors.Is(err, models.ErrEmptySearchQuery):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrInvalidToken), errors.Is(err, models.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrBackendTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, models.ErrSessionStore):
		return http.StatusServiceUnavailable
	case errors.As(err, &withStatus):
		switch s := withStatus.HTTPStatus(); s {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusConflict:
			return s
		}
	}
	return http.StatusBadGateway
}

// respondError writes the JSON error for a failed operation. Validation
// failures list their fields; everything else names the operation.
func respondError(c *gin.Context, operation string, err error) {
	var validation *utils.ValidationResult
	if errors.As(err, &validation) {
		c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:  operation + " failed: invalid request",
			Errors: validation.Errors,
		})
		return
	}

	status := errorStatus(err)
	logger := observability.Logger().With(
		zap.String("operation", operation),
		zap.String("request_id", c.GetString(middleware.RequestIDKey)),
		zap.Int("status", status),
	)
	if status >= http.StatusInternalServerError {
		logger.Error("operation failed", zap.Error(err))
	} else {
		logger.Warn("operation failed", zap.Error(err))
	}

	c.JSON(status, ErrorResponse{Error: operation + " failed: " + err.Error()})
}

// badRequest answers 400 for a body or query that could not be bound
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
}

// sessionOrAbort returns the session set by the auth middleware
func sessionOrAbort(c *gin.Context) (*models.Session, bool) {
	session, ok := middleware.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Session not found"})
		return nil, false
	}
	return session, true
}
