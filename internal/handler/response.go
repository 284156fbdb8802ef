package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexbill/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrScheduleNotFound):
		return http.StatusNotFound, "SCHEDULE_NOT_FOUND", "no tariff schedule for the requested court and scale"
	case errors.Is(err, domain.ErrItemNotFound):
		return http.StatusNotFound, "TARIFF_ITEM_NOT_FOUND", "tariff item not found in schedule"
	case errors.Is(err, domain.ErrNoTariffInForce):
		return http.StatusNotFound, "NO_TARIFF_IN_FORCE", "no tariff version in force on the work date"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "INVALID_QUANTITY", "quantity must be greater than zero"
	case errors.Is(err, domain.ErrActualCostRequired):
		return http.StatusBadRequest, "ACTUAL_COST_REQUIRED", "actual-cost item requires an externally supplied amount"
	case errors.Is(err, domain.ErrMissingVoucherBlocked):
		return http.StatusUnprocessableEntity, "MISSING_VOUCHER", "party-and-party disbursement requires a voucher"
	case errors.Is(err, domain.ErrEthicsViolationBlocked):
		return http.StatusUnprocessableEntity, "ETHICS_VIOLATION", "prohibited fee arrangement detected"
	case errors.Is(err, domain.ErrMatterNotFound):
		return http.StatusNotFound, "MATTER_NOT_FOUND", "matter not found"
	case errors.Is(err, domain.ErrBillNotFound):
		return http.StatusNotFound, "BILL_NOT_FOUND", "bill not found"
	case errors.Is(err, domain.ErrLineNotFound):
		return http.StatusNotFound, "LINE_NOT_FOUND", "bill line item not found"
	case errors.Is(err, domain.ErrBillFinalized):
		return http.StatusConflict, "BILL_FINALIZED", "bill is finalized and cannot be modified"
	case errors.Is(err, domain.ErrBillNotDraft):
		return http.StatusConflict, "BILL_NOT_DRAFT", "bill has already been finalized"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported voucher file type; allowed: pdf, jpg, png"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "voucher exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "voucher upload to storage failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] internal error: %v", requestID, err)
	}
	RespondError(c, status, code, msg)
}
