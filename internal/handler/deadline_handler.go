package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lexbill/internal/deadline"
	"lexbill/internal/domain"
)

// DeadlineHandler handles court deadline endpoints.
type DeadlineHandler struct {
	calc *deadline.Calculator
}

// NewDeadlineHandler creates a new DeadlineHandler.
func NewDeadlineHandler(calc *deadline.Calculator) *DeadlineHandler {
	return &DeadlineHandler{calc: calc}
}

// CalculateRequest is the body for POST /api/v1/deadlines/calculate.
type CalculateRequest struct {
	StartDate    string            `json:"start_date" binding:"required"`
	BusinessDays int               `json:"business_days" binding:"required,gt=0"`
	MatterType   domain.MatterType `json:"matter_type"`
}

// Calculate handles POST /api/v1/deadlines/calculate
func (h *DeadlineHandler) Calculate(c *gin.Context) {
	var req CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "start_date must be YYYY-MM-DD")
		return
	}
	if req.MatterType == "" {
		req.MatterType = domain.MatterOrdinary
	}

	RespondOK(c, h.calc.CalculateDeadline(start, req.BusinessDays, req.MatterType))
}

// Check handles GET /api/v1/deadlines/check
func (h *DeadlineHandler) Check(c *gin.Context) {
	d, err := time.Parse("2006-01-02", c.Query("date"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
		return
	}

	RespondOK(c, gin.H{
		"date":           d.Format("2006-01-02"),
		"business_day":   h.calc.IsBusinessDay(d),
		"public_holiday": h.calc.IsPublicHoliday(d),
		"in_blackout":    h.calc.IsInBlackout(d),
	})
}
