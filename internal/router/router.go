package router

import (
	"github.com/gin-gonic/gin"

	"lexbill/internal/handler"
	"lexbill/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	matterH *handler.MatterHandler,
	billH *handler.BillHandler,
	tariffH *handler.TariffHandler,
	deadlineH *handler.DeadlineHandler,
	forumH *handler.ForumHandler,
	healthH *handler.HealthHandler,
	allowedOrigins []string,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Matters
	matters := v1.Group("/matters")
	matters.POST("", matterH.Create)
	matters.GET("", matterH.List)
	matters.GET("/:id", matterH.GetByID)
	matters.PUT("/:id", matterH.Update)
	matters.GET("/:id/bills", matterH.ListBills)
	matters.POST("/:id/bills", matterH.CreateBill)

	// Bills of costs
	bills := v1.Group("/bills")
	bills.GET("/:id", billH.GetByID)
	bills.POST("/:id/lines", billH.AddLine)
	bills.DELETE("/:id/lines/:lineId", billH.RemoveLine)
	bills.GET("/:id/totals", billH.Totals)
	bills.POST("/:id/finalize", billH.Finalize)
	bills.GET("/:id/export", billH.Export)
	bills.POST("/:id/lines/:lineId/voucher", billH.UploadVoucher)
	bills.GET("/:id/lines/:lineId/voucher", billH.VoucherURL)

	// Tariff schedules
	tariffs := v1.Group("/tariffs")
	tariffs.GET("", tariffH.Schedules)
	tariffs.GET("/resolve", tariffH.Resolve)
	tariffs.POST("/reload", tariffH.Reload)

	// Deadlines and forum
	deadlines := v1.Group("/deadlines")
	deadlines.POST("/calculate", deadlineH.Calculate)
	deadlines.GET("/check", deadlineH.Check)

	v1.GET("/forum/detect", forumH.Detect)

	return r
}
