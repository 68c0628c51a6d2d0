package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/fitlife-app/backend/internal/middleware"
	"github.com/fitlife-app/backend/internal/policy"
	"github.com/fitlife-app/backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the JSON error body every endpoint returns
type ErrorResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Details *string `json:"details,omitempty"`
}

// actorFrom extracts the authenticated actor stored by the auth middleware
func actorFrom(c *gin.Context) policy.Actor {
	if v, ok := c.Get(middleware.ActorKey); ok {
		if actor, ok := v.(policy.Actor); ok {
			return actor
		}
	}
	return policy.Actor{}
}

// respondError maps a service error to its HTTP status: invalid input to
// 400, forbidden to 403, not found to 404, anything else to 500
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Code:    "FORBIDDEN",
			Message: err.Error(),
		})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Code:    "NOT_FOUND",
			Message: err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
			Details: stringPtr(err.Error()),
		})
	}
}

// respondBindError reports a malformed request body
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    "VALIDATION_ERROR",
		Message: "Invalid request body",
		Details: stringPtr(err.Error()),
	})
}

// stringPtr creates a pointer to a string
func stringPtr(s string) *string {
	return &s
}

// parseDateParam parses an optional RFC 3339 or date-only query parameter
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t, err = time.Parse("2006-01-02", value)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
