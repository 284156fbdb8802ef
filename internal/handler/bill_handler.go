package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lexbill/internal/csvexport"
	"lexbill/internal/domain"
	"lexbill/internal/service"
	"lexbill/internal/xlsxexport"
)

// BillHandler handles bill of costs endpoints.
type BillHandler struct {
	billService    service.BillService
	matterService  service.MatterService
	voucherService service.VoucherService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(billService service.BillService, matterService service.MatterService, voucherService service.VoucherService) *BillHandler {
	return &BillHandler{
		billService:    billService,
		matterService:  matterService,
		voucherService: voucherService,
	}
}

// GetByID handles GET /api/v1/bills/:id
func (h *BillHandler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, bill)
}

// AddLine handles POST /api/v1/bills/:id/lines
func (h *BillHandler) AddLine(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	var input service.AddLineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	result, err := h.billService.AddLine(c.Request.Context(), id, input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// RemoveLine handles DELETE /api/v1/bills/:id/lines/:lineId
func (h *BillHandler) RemoveLine(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid line ID")
		return
	}

	if err := h.billService.RemoveLine(c.Request.Context(), billID, lineID); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"removed": lineID})
}

// Totals handles GET /api/v1/bills/:id/totals
func (h *BillHandler) Totals(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	totals, err := h.billService.Totals(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, totals)
}

// FinalizeRequest is the body for POST /api/v1/bills/:id/finalize. An
// empty date means the bill is finalized as of today.
type FinalizeRequest struct {
	FinalizedOn string `json:"finalized_on"`
}

// Finalize handles POST /api/v1/bills/:id/finalize
func (h *BillHandler) Finalize(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	var req FinalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}

	finalizedOn := time.Now().UTC()
	if req.FinalizedOn != "" {
		finalizedOn, err = time.Parse("2006-01-02", req.FinalizedOn)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_DATE", "finalized_on must be YYYY-MM-DD")
			return
		}
	}

	schedule, err := h.billService.Finalize(c.Request.Context(), id, finalizedOn)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, schedule)
}

// Export handles GET /api/v1/bills/:id/export and streams the bill of
// costs as an xlsx workbook, or as CSV when ?format=csv.
func (h *BillHandler) Export(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	matter, err := h.matterService.GetByID(c.Request.Context(), bill.MatterID)
	if err != nil {
		HandleError(c, err)
		return
	}

	if c.Query("format") == "csv" {
		h.exportCSV(c, matter, bill)
		return
	}

	filename := fmt.Sprintf("bill-of-costs-%s.xlsx", matter.Reference)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")

	if err := xlsxexport.Write(c.Writer, matter, bill); err != nil {
		HandleError(c, err)
		return
	}
}

func (h *BillHandler) exportCSV(c *gin.Context, matter *domain.Matter, bill *domain.Bill) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, csvexport.BuildFilename(matter.Reference)))
	c.Header("Content-Type", "text/csv; charset=utf-8")

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		HandleError(c, err)
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteBill(bill); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
	}
}

// UploadVoucher handles POST /api/v1/bills/:id/lines/:lineId/voucher
func (h *BillHandler) UploadVoucher(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid line ID")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	reference, err := h.voucherService.Upload(c.Request.Context(), service.VoucherUploadInput{
		BillID: billID,
		LineID: lineID,
		File:   file,
		Header: header,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, gin.H{"voucher_reference": reference})
}

// VoucherURL handles GET /api/v1/bills/:id/lines/:lineId/voucher
func (h *BillHandler) VoucherURL(c *gin.Context) {
	billID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid bill ID")
		return
	}
	lineID, err := uuid.Parse(c.Param("lineId"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid line ID")
		return
	}

	bill, err := h.billService.GetByID(c.Request.Context(), billID)
	if err != nil {
		HandleError(c, err)
		return
	}

	reference := ""
	for _, line := range bill.Lines {
		if line.ID == lineID {
			reference = line.VoucherReference
			break
		}
	}
	if reference == "" {
		RespondError(c, http.StatusNotFound, "VOUCHER_NOT_FOUND", "no voucher linked to this line")
		return
	}

	url, err := h.voucherService.GetDownloadURL(c.Request.Context(), reference)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"url": url})
}
