package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lexbill/internal/service"
)

// MatterHandler handles matter management endpoints.
type MatterHandler struct {
	matterService service.MatterService
	billService   service.BillService
}

// NewMatterHandler creates a new MatterHandler.
func NewMatterHandler(matterService service.MatterService, billService service.BillService) *MatterHandler {
	return &MatterHandler{matterService: matterService, billService: billService}
}

// Create handles POST /api/v1/matters
func (h *MatterHandler) Create(c *gin.Context) {
	var input service.CreateMatterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	matter, err := h.matterService.Create(c.Request.Context(), input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, matter)
}

// List handles GET /api/v1/matters
func (h *MatterHandler) List(c *gin.Context) {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	matters, total, err := h.matterService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, matters, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/matters/:id
func (h *MatterHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid matter ID")
		return
	}

	matter, err := h.matterService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, matter)
}

// Update handles PUT /api/v1/matters/:id
func (h *MatterHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid matter ID")
		return
	}

	var input service.UpdateMatterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	matter, err := h.matterService.Update(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, matter)
}

// ListBills handles GET /api/v1/matters/:id/bills
func (h *MatterHandler) ListBills(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid matter ID")
		return
	}

	bills, err := h.billService.ListByMatter(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, bills)
}

// CreateBill handles POST /api/v1/matters/:id/bills
func (h *MatterHandler) CreateBill(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid matter ID")
		return
	}

	var input service.CreateBillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	bill, err := h.billService.Create(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, bill)
}
