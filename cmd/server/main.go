package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"lexbill/internal/calc"
	"lexbill/internal/compliance"
	"lexbill/internal/config"
	"lexbill/internal/deadline"
	"lexbill/internal/email/noop"
	"lexbill/internal/email/ses"
	"lexbill/internal/handler"
	"lexbill/internal/port"
	"lexbill/internal/repository/postgres"
	"lexbill/internal/router"
	"lexbill/internal/service"
	s3storage "lexbill/internal/storage/s3"
	"lexbill/internal/tariff"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	matterRepo := postgres.NewMatterRepo(db)
	billRepo := postgres.NewBillRepo(db)
	tariffStore := postgres.NewTariffStore(db)

	// Initialize storage
	s3Client, err := s3storage.NewS3Client(&cfg.S3)
	if err != nil {
		return fmt.Errorf("failed to initialize S3 client: %w", err)
	}

	// Initialize notice sender
	var notices port.NoticeSender
	if cfg.Email.Provider == "ses" {
		notices, err = ses.NewSESSender(cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES sender: %w", err)
		}
	} else {
		notices = noop.NewNoopSender()
	}

	// Load the tariff snapshot
	tariffRepo := tariff.NewRepository(nil)
	tariffSvc := service.NewTariffService(tariffRepo, tariffStore)
	n, err := tariffSvc.Reload(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load tariff schedules: %w", err)
	}
	log.Printf("loaded %d tariff schedules", n)

	// Initialize the calculation stack
	engine := calc.NewEngine(calc.Config{
		VATRate:             decimal.NewFromFloat(cfg.Billing.VATRate),
		TimeRoundingMinutes: cfg.Billing.TimeRoundingMinutes,
		VATVendor:           cfg.Billing.VATVendor,
	})
	validator := compliance.NewValidator(compliance.DefaultConfig())

	year := time.Now().Year()
	deadlines := deadline.NewCalculator(year-1, year+5)

	// Initialize services
	matterSvc := service.NewMatterService(matterRepo)
	billSvc := service.NewBillService(billRepo, matterRepo, tariffRepo, engine, validator, deadlines, notices, s3Client, cfg.S3.Bucket, cfg.Taxation)
	voucherSvc := service.NewVoucherService(billRepo, s3Client, validator, &cfg.S3)

	// Initialize handlers
	matterH := handler.NewMatterHandler(matterSvc, billSvc)
	billH := handler.NewBillHandler(billSvc, matterSvc, voucherSvc)
	tariffH := handler.NewTariffHandler(tariffSvc)
	deadlineH := handler.NewDeadlineHandler(deadlines)
	forumH := handler.NewForumHandler()
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(matterH, billH, tariffH, deadlineH, forumH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
