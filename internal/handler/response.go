package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campusride/internal/repository"
	"campusride/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Message: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors. An already handled booking is reported the
	// same way as a missing one, so the response leaks nothing about
	// which race the caller lost.
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrAlreadyHandled):
		return http.StatusNotFound

	// Validation and precondition errors - Bad Request
	case errors.Is(err, service.ErrMissingFields),
		errors.Is(err, service.ErrInvalidSeatCount),
		errors.Is(err, service.ErrInvalidClock),
		errors.Is(err, service.ErrInvalidRideID),
		errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrSeatUnavailable),
		errors.Is(err, service.ErrCannotCancel):
		return http.StatusBadRequest

	// Authorization errors
	case errors.Is(err, service.ErrNotOfferer):
		return http.StatusForbidden

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
