package common

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ErrorBody is the wire shape for error responses:
// {timestamp, message, status}.
type ErrorBody struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Status    int       `json:"status"`
}

// ValidationErrorBody carries field-level detail instead of a single message:
// {timestamp, errors, status}.
type ValidationErrorBody struct {
	Timestamp time.Time         `json:"timestamp"`
	Errors    map[string]string `json:"errors"`
	Status    int               `json:"status"`
}

// RespondError maps a domain error to the HTTP error body.
// NotFound -> 404, BadRequest -> 400, anything else -> 500 with a generic message.
func RespondError(c echo.Context, err error) error {
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, ErrorBody{
			Timestamp: time.Now(),
			Message:   nf.Error(),
			Status:    http.StatusNotFound,
		})
	}

	var br *BadRequestError
	if errors.As(err, &br) {
		return c.JSON(http.StatusBadRequest, ErrorBody{
			Timestamp: time.Now(),
			Message:   br.Message,
			Status:    http.StatusBadRequest,
		})
	}

	log.Printf("internal error: %v", err)
	return c.JSON(http.StatusInternalServerError, ErrorBody{
		Timestamp: time.Now(),
		Message:   "an internal server error occurred",
		Status:    http.StatusInternalServerError,
	})
}

// RespondValidationError sends a 400 with per-field messages.
func RespondValidationError(c echo.Context, fields map[string]string) error {
	return c.JSON(http.StatusBadRequest, ValidationErrorBody{
		Timestamp: time.Now(),
		Errors:    fields,
		Status:    http.StatusBadRequest,
	})
}

// ParseUUIDParam validates a UUID path or query parameter.
func ParseUUIDParam(idStr, fieldName string) (uuid.UUID, error) {
	idStr = strings.TrimSpace(idStr)
	if idStr == "" {
		return uuid.Nil, NewBadRequest("%s is required", fieldName)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, NewBadRequest("%s is not a valid UUID", fieldName)
	}
	return id, nil
}

// ParseDateTimeParam parses an ISO-8601 datetime query parameter. Values with
// and without a zone offset are both accepted.
func ParseDateTimeParam(value, fieldName string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, NewBadRequest("%s is required", fieldName)
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02T15:04:05", value); err == nil {
		return t, nil
	}
	return time.Time{}, NewBadRequest("%s must be an ISO-8601 datetime", fieldName)
}
