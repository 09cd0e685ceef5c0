package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/fagaru/fagaru/backend/internal/service"
)

// FieldErrors maps request fields to human readable messages.
type FieldErrors map[string]string

// ValidationErrorResponse is the body of every 400 caused by bad input.
type ValidationErrorResponse struct {
	Error  string      `json:"error"`
	Fields FieldErrors `json:"fields"`
}

func respondFields(c *gin.Context, fields FieldErrors) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{Error: "validation failed", Fields: fields})
}

// respondValidation converts binding errors into field messages.
func respondValidation(c *gin.Context, err error) {
	fields := FieldErrors{}

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			fields[fe.Field()] = fieldMessage(fe)
		}
	case errors.As(err, &typeErr):
		fields[typeErr.Field] = fmt.Sprintf("Expected a value of type %s.", typeErr.Type)
	default:
		fields["non_field_errors"] = "Invalid request body."
	}
	respondFields(c, fields)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	case "gte":
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "lte":
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "profile_type", "language", "symptom":
		return fmt.Sprintf("%q is not a valid choice.", fe.Value())
	default:
		return fmt.Sprintf("Failed on the %s rule.", fe.Tag())
	}
}

func respondNotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, gin.H{"error": msg})
}

// respondError maps service errors to HTTP responses. Unknown errors are
// attached to the context for logging and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAlertNotFound),
		errors.Is(err, service.ErrNotificationNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrNoWeatherData),
		errors.Is(err, service.ErrCityNotFound):
		respondNotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidToken), errors.Is(err, service.ErrTokenRevoked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
