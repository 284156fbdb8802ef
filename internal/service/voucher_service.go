package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"lexbill/internal/compliance"
	"lexbill/internal/config"
	"lexbill/internal/domain"
	"lexbill/internal/port"
)

// Voucher documents are scans or PDFs of supporting invoices/receipts.
var allowedVoucherTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/png":       true,
}

var allowedVoucherExtensions = map[string]bool{
	"pdf": true, "jpg": true, "jpeg": true, "png": true,
}

// VoucherUploadInput is the DTO for voucher upload requests.
type VoucherUploadInput struct {
	BillID uuid.UUID
	LineID uuid.UUID
	File   multipart.File
	Header *multipart.FileHeader
}

// VoucherService stores disbursement vouchers and links them to bill
// line items.
type VoucherService interface {
	Upload(ctx context.Context, input VoucherUploadInput) (string, error)
	GetDownloadURL(ctx context.Context, reference string) (string, error)
}

type voucherService struct {
	billRepo  port.BillRepository
	storage   port.ObjectStorage
	validator *compliance.Validator
	cfg       *config.S3Config
}

// NewVoucherService creates a new VoucherService implementation.
func NewVoucherService(billRepo port.BillRepository, storage port.ObjectStorage, validator *compliance.Validator, cfg *config.S3Config) VoucherService {
	return &voucherService{billRepo: billRepo, storage: storage, validator: validator, cfg: cfg}
}

func (s *voucherService) Upload(ctx context.Context, input VoucherUploadInput) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.Header.Filename), "."))
	if !allowedVoucherExtensions[ext] {
		return "", domain.ErrUnsupportedFileType
	}

	maxBytes := s.cfg.MaxFileSizeMB * 1024 * 1024
	if input.Header.Size > maxBytes {
		return "", domain.ErrFileTooLarge
	}

	// Magic-byte content type detection
	buf := make([]byte, 512)
	n, err := input.File.Read(buf)
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading voucher header: %w", err)
	}
	if !allowedVoucherTypes[http.DetectContentType(buf[:n])] {
		return "", domain.ErrUnsupportedFileType
	}
	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("seeking voucher file: %w", err)
	}

	key := fmt.Sprintf("vouchers/%s/%s/%s", input.BillID, input.LineID, input.Header.Filename)
	log.Printf("voucherService.Upload: storing voucher %s (%d bytes) for bill %s line %s",
		input.Header.Filename, input.Header.Size, input.BillID, input.LineID)

	if _, err := s.storage.Upload(ctx, port.UploadInput{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		Body:        input.File,
		ContentType: http.DetectContentType(buf[:n]),
		Size:        input.Header.Size,
	}); err != nil {
		log.Printf("voucherService.Upload: storage upload failed: %v", err)
		return "", domain.ErrUploadFailed
	}

	if err := s.billRepo.SetLineVoucher(ctx, input.BillID, input.LineID, key); err != nil {
		return "", fmt.Errorf("linking voucher to line: %w", err)
	}
	if err := s.refreshVerdict(ctx, input.BillID, input.LineID); err != nil {
		return "", fmt.Errorf("refreshing verdict after voucher upload: %w", err)
	}
	return key, nil
}

// refreshVerdict re-runs scope validation for the line now that it is
// vouched, replacing the verdict stored when the line was added.
func (s *voucherService) refreshVerdict(ctx context.Context, billID, lineID uuid.UUID) error {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return err
	}
	lines, results, err := s.billRepo.ListLines(ctx, billID)
	if err != nil {
		return err
	}
	for i := range lines {
		if lines[i].ID != lineID {
			continue
		}
		verdict, err := s.validator.Validate(compliance.LineContext{
			BillType:    bill.BillType,
			CostsOrder:  bill.CostsOrder,
			ItemCode:    results[i].ItemCode,
			Description: lines[i].Narrative,
			Category:    results[i].Category,
			Amount:      results[i].AmountExVAT,
			Necessary:   lines[i].Necessary,
			Reasonable:  lines[i].Reasonable,
			Vouched:     true,
			Justified:   lines[i].Justified,
		})
		if err != nil {
			return err
		}
		return s.billRepo.UpdateLineVerdict(ctx, billID, lineID, verdict)
	}
	return domain.ErrLineNotFound
}

func (s *voucherService) GetDownloadURL(ctx context.Context, reference string) (string, error) {
	return s.storage.GetPresignedURL(ctx, s.cfg.Bucket, reference, s.cfg.PresignExpiry)
}
