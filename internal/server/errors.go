package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	bikedomain "github.com/pedalworks/rentora/internal/bike/domain"
	categorydomain "github.com/pedalworks/rentora/internal/category/domain"
	customerdomain "github.com/pedalworks/rentora/internal/customer/domain"
	discountdomain "github.com/pedalworks/rentora/internal/discount/domain"
	durationdomain "github.com/pedalworks/rentora/internal/duration/domain"
	maintenancedomain "github.com/pedalworks/rentora/internal/maintenance/domain"
	pricingdomain "github.com/pedalworks/rentora/internal/pricing/domain"
	classdomain "github.com/pedalworks/rentora/internal/pricingclass/domain"
	ratedomain "github.com/pedalworks/rentora/internal/rate/domain"
	rentaldomain "github.com/pedalworks/rentora/internal/rental/domain"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized    = errors.New("unauthorized")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal_error")
	ErrNotFound        = errors.New("not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrTooManyRequests = errors.New("too_many_requests")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, errorPayload{
			Type:    "unauthorized",
			Message: "unauthorized",
		}
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "conflict",
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, ErrTooManyRequests):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "too_many_requests",
			Message: "too many requests",
		}
	case errors.Is(err, ErrInternal):
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isClassValidationError(err),
		isDurationValidationError(err),
		isCategoryValidationError(err),
		isRateValidationError(err),
		isDiscountValidationError(err),
		isPricingValidationError(err),
		isBikeValidationError(err),
		isCustomerValidationError(err),
		isRentalValidationError(err),
		isMaintenanceValidationError(err):
		return true
	default:
		return false
	}
}

func isClassValidationError(err error) bool {
	return errors.Is(err, classdomain.ErrInvalidOrganization) ||
		errors.Is(err, classdomain.ErrInvalidCode) ||
		errors.Is(err, classdomain.ErrInvalidLabel) ||
		errors.Is(err, classdomain.ErrInvalidColor) ||
		errors.Is(err, classdomain.ErrInvalidID)
}

func isDurationValidationError(err error) bool {
	return errors.Is(err, durationdomain.ErrInvalidOrganization) ||
		errors.Is(err, durationdomain.ErrInvalidCode) ||
		errors.Is(err, durationdomain.ErrInvalidLabel) ||
		errors.Is(err, durationdomain.ErrInvalidLength) ||
		errors.Is(err, durationdomain.ErrInvalidID)
}

func isCategoryValidationError(err error) bool {
	return errors.Is(err, categorydomain.ErrInvalidOrganization) ||
		errors.Is(err, categorydomain.ErrInvalidCode) ||
		errors.Is(err, categorydomain.ErrInvalidLabel) ||
		errors.Is(err, categorydomain.ErrInvalidID)
}

func isRateValidationError(err error) bool {
	return errors.Is(err, ratedomain.ErrInvalidOrganization) ||
		errors.Is(err, ratedomain.ErrInvalidCategory) ||
		errors.Is(err, ratedomain.ErrInvalidPricingClass) ||
		errors.Is(err, ratedomain.ErrInvalidDuration) ||
		errors.Is(err, ratedomain.ErrInvalidPrice) ||
		errors.Is(err, ratedomain.ErrEmptyBatch) ||
		errors.Is(err, ratedomain.ErrInvalidID)
}

func isDiscountValidationError(err error) bool {
	return errors.Is(err, discountdomain.ErrInvalidOrganization) ||
		errors.Is(err, discountdomain.ErrInvalidLabel) ||
		errors.Is(err, discountdomain.ErrMissingThreshold) ||
		errors.Is(err, discountdomain.ErrInvalidDiscountType) ||
		errors.Is(err, discountdomain.ErrInvalidDiscountValue) ||
		errors.Is(err, discountdomain.ErrInvalidPriority) ||
		errors.Is(err, discountdomain.ErrInvalidMinDays) ||
		errors.Is(err, discountdomain.ErrInvalidCategory) ||
		errors.Is(err, discountdomain.ErrInvalidPricingClass) ||
		errors.Is(err, discountdomain.ErrInvalidMinDuration) ||
		errors.Is(err, discountdomain.ErrInvalidID)
}

func isPricingValidationError(err error) bool {
	return errors.Is(err, pricingdomain.ErrInvalidOrganization) ||
		errors.Is(err, pricingdomain.ErrInvalidCategory) ||
		errors.Is(err, pricingdomain.ErrInvalidPricingClass) ||
		errors.Is(err, pricingdomain.ErrInvalidDuration) ||
		errors.Is(err, pricingdomain.ErrCustomDaysRequired) ||
		errors.Is(err, pricingdomain.ErrInvalidCustomDays)
}

func isBikeValidationError(err error) bool {
	return errors.Is(err, bikedomain.ErrInvalidOrganization) ||
		errors.Is(err, bikedomain.ErrInvalidCategory) ||
		errors.Is(err, bikedomain.ErrInvalidPricingClass) ||
		errors.Is(err, bikedomain.ErrInvalidStatus) ||
		errors.Is(err, bikedomain.ErrInvalidID)
}

func isCustomerValidationError(err error) bool {
	return errors.Is(err, customerdomain.ErrInvalidOrganization) ||
		errors.Is(err, customerdomain.ErrInvalidName) ||
		errors.Is(err, customerdomain.ErrInvalidEmail) ||
		errors.Is(err, customerdomain.ErrInvalidPageToken) ||
		errors.Is(err, customerdomain.ErrInvalidID)
}

func isRentalValidationError(err error) bool {
	return errors.Is(err, rentaldomain.ErrInvalidOrganization) ||
		errors.Is(err, rentaldomain.ErrInvalidCustomer) ||
		errors.Is(err, rentaldomain.ErrInvalidBike) ||
		errors.Is(err, rentaldomain.ErrInvalidStartDate) ||
		errors.Is(err, rentaldomain.ErrInvalidStatus) ||
		errors.Is(err, rentaldomain.ErrInvalidID)
}

func isMaintenanceValidationError(err error) bool {
	return errors.Is(err, maintenancedomain.ErrInvalidOrganization) ||
		errors.Is(err, maintenancedomain.ErrInvalidBike) ||
		errors.Is(err, maintenancedomain.ErrInvalidType) ||
		errors.Is(err, maintenancedomain.ErrInvalidStatus) ||
		errors.Is(err, maintenancedomain.ErrInvalidCost) ||
		errors.Is(err, maintenancedomain.ErrInvalidID)
}

func isConflictError(err error) bool {
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, classdomain.ErrCodeExists),
		errors.Is(err, durationdomain.ErrCodeExists),
		errors.Is(err, categorydomain.ErrCodeExists),
		errors.Is(err, customerdomain.ErrEmailExists),
		errors.Is(err, bikedomain.ErrInvalidTransition),
		errors.Is(err, rentaldomain.ErrBikeUnavailable),
		errors.Is(err, rentaldomain.ErrInvalidTransition),
		errors.Is(err, maintenancedomain.ErrAlreadyCompleted):
		return true
	default:
		return false
	}
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, classdomain.ErrNotFound),
		errors.Is(err, durationdomain.ErrNotFound),
		errors.Is(err, categorydomain.ErrNotFound),
		errors.Is(err, ratedomain.ErrNotFound),
		errors.Is(err, discountdomain.ErrNotFound),
		errors.Is(err, pricingdomain.ErrNoRateConfigured),
		errors.Is(err, bikedomain.ErrNotFound),
		errors.Is(err, customerdomain.ErrNotFound),
		errors.Is(err, rentaldomain.ErrNotFound),
		errors.Is(err, maintenancedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if strings.HasPrefix(code, "missing_") {
		return strings.TrimPrefix(code, "missing_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "custom_days_required":
		return "custom duration requires a day count"
	default:
		return "invalid value"
	}
}

func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= 500:
		return "server_error", payload.Type
	case status >= 400:
		return "client_error", payload.Type
	default:
		return "none", ""
	}
}
