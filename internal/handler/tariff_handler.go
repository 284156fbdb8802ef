package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"lexbill/internal/domain"
	"lexbill/internal/service"
)

// TariffHandler handles tariff schedule endpoints.
type TariffHandler struct {
	tariffService service.TariffService
}

// NewTariffHandler creates a new TariffHandler.
func NewTariffHandler(tariffService service.TariffService) *TariffHandler {
	return &TariffHandler{tariffService: tariffService}
}

// Schedules handles GET /api/v1/tariffs
func (h *TariffHandler) Schedules(c *gin.Context) {
	RespondOK(c, h.tariffService.Schedules())
}

// Resolve handles GET /api/v1/tariffs/resolve
func (h *TariffHandler) Resolve(c *gin.Context) {
	court := domain.CourtType(c.Query("court"))
	scale := domain.TariffScale(c.Query("scale"))
	itemCode := c.Query("item_code")
	if court == "" || scale == "" || itemCode == "" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "court, scale and item_code are required")
		return
	}

	onDate := time.Now().UTC()
	if d := c.Query("date"); d != "" {
		var err error
		onDate, err = time.Parse("2006-01-02", d)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			return
		}
	}

	res, err := h.tariffService.Resolve(court, scale, itemCode, onDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, res)
}

// Reload handles POST /api/v1/tariffs/reload
func (h *TariffHandler) Reload(c *gin.Context) {
	n, err := h.tariffService.Reload(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"schedules_loaded": n})
}
