package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"lexbill/internal/domain"
	"lexbill/internal/forum"
)

// ForumHandler handles forum detection endpoints.
type ForumHandler struct{}

// NewForumHandler creates a new ForumHandler.
func NewForumHandler() *ForumHandler {
	return &ForumHandler{}
}

// Detect handles GET /api/v1/forum/detect
func (h *ForumHandler) Detect(c *gin.Context) {
	claimValue, err := decimal.NewFromString(c.Query("claim_value"))
	if err != nil || claimValue.IsNegative() {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "claim_value must be a non-negative amount")
		return
	}

	matterType := domain.MatterType(c.DefaultQuery("matter_type", string(domain.MatterOrdinary)))

	RespondOK(c, forum.Detect(claimValue, matterType))
}
