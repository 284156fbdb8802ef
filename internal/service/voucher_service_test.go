package service_test

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lexbill/internal/compliance"
	"lexbill/internal/config"
	"lexbill/internal/domain"
	"lexbill/internal/port"
	"lexbill/internal/service"
	"lexbill/mocks"
)

type fakeFile struct {
	*bytes.Reader
}

func (f *fakeFile) Close() error { return nil }

func newFakeFile(data []byte) multipart.File {
	return &fakeFile{Reader: bytes.NewReader(data)}
}

var pngBytes = []byte("\x89PNG\r\n\x1a\nrest-of-image")

func voucherInput(filename string, data []byte) service.VoucherUploadInput {
	return service.VoucherUploadInput{
		BillID: uuid.New(),
		LineID: uuid.New(),
		File:   newFakeFile(data),
		Header: &multipart.FileHeader{Filename: filename, Size: int64(len(data))},
	}
}

func s3Config() *config.S3Config {
	return &config.S3Config{Bucket: "lexbill-vouchers", MaxFileSizeMB: 1, PresignExpiry: 3600}
}

func newVoucherSvc(billRepo *mocks.MockBillRepo, storage *mocks.MockObjectStorage) service.VoucherService {
	return service.NewVoucherService(billRepo, storage, compliance.NewValidator(compliance.DefaultConfig()), s3Config())
}

func TestVoucherService_Upload(t *testing.T) {
	ctx := context.Background()

	t.Run("stores_and_links", func(t *testing.T) {
		billRepo := new(mocks.MockBillRepo)
		storage := new(mocks.MockObjectStorage)
		svc := newVoucherSvc(billRepo, storage)

		input := voucherInput("receipt.png", pngBytes)
		line := domain.BillLineItem{ID: input.LineID, Narrative: "Sheriff's fees", Necessary: true, Reasonable: true}
		result := domain.ComputedLineResult{LineID: input.LineID, ItemCode: "6.1", Category: domain.CategoryDisbursements, AmountExVAT: d("840.50")}

		storage.On("Upload", ctx, mock.AnythingOfType("port.UploadInput")).Return(&port.UploadOutput{}, nil)
		billRepo.On("SetLineVoucher", ctx, input.BillID, input.LineID, mock.AnythingOfType("string")).Return(nil)
		billRepo.On("GetByID", ctx, input.BillID).Return(&domain.Bill{
			ID: input.BillID, BillType: domain.BillPartyAndParty, CostsOrder: domain.CostsInTheCause,
		}, nil)
		billRepo.On("ListLines", ctx, input.BillID).Return([]domain.BillLineItem{line}, []domain.ComputedLineResult{result}, nil)
		billRepo.On("UpdateLineVerdict", ctx, input.BillID, input.LineID, mock.AnythingOfType("domain.ComplianceVerdict")).Return(nil)

		key, err := svc.Upload(ctx, input)
		require.NoError(t, err)
		assert.Contains(t, key, "vouchers/")
		assert.Contains(t, key, "receipt.png")
		storage.AssertExpectations(t)
		billRepo.AssertExpectations(t)
	})

	// Linking a voucher must replace the verdict stored when the line
	// was added, or the bill keeps reporting the line as disallowed.
	t.Run("upload_refreshes_stored_verdict", func(t *testing.T) {
		billRepo := new(mocks.MockBillRepo)
		storage := new(mocks.MockObjectStorage)
		svc := newVoucherSvc(billRepo, storage)

		input := voucherInput("receipt.png", pngBytes)
		line := domain.BillLineItem{
			ID:         input.LineID,
			ItemCode:   "5.1",
			Narrative:  "Travel to court for inspection in loco",
			Necessary:  true,
			Reasonable: true,
		}
		result := domain.ComputedLineResult{
			LineID:      input.LineID,
			ItemCode:    "5.1",
			Label:       "Travel",
			Category:    domain.CategoryDisbursements,
			AmountExVAT: d("540.00"),
			Compliance: domain.ComplianceVerdict{
				Allowed:         false,
				Reason:          "disbursement cannot be allowed on taxation without a supporting voucher",
				RequiresVoucher: true,
				Risk:            domain.RiskHigh,
			},
		}

		storage.On("Upload", ctx, mock.Anything).Return(&port.UploadOutput{}, nil)
		billRepo.On("SetLineVoucher", ctx, input.BillID, input.LineID, mock.Anything).Return(nil)
		billRepo.On("GetByID", ctx, input.BillID).Return(&domain.Bill{
			ID: input.BillID, BillType: domain.BillPartyAndParty, CostsOrder: domain.CostsInTheCause,
		}, nil)
		billRepo.On("ListLines", ctx, input.BillID).Return([]domain.BillLineItem{line}, []domain.ComputedLineResult{result}, nil)

		var refreshed domain.ComplianceVerdict
		billRepo.On("UpdateLineVerdict", ctx, input.BillID, input.LineID, mock.Anything).
			Run(func(args mock.Arguments) {
				refreshed = args.Get(3).(domain.ComplianceVerdict)
			}).Return(nil)

		_, err := svc.Upload(ctx, input)
		require.NoError(t, err)
		assert.True(t, refreshed.Allowed)
		assert.Empty(t, refreshed.Reason)
		billRepo.AssertExpectations(t)
	})

	t.Run("rejects_extension", func(t *testing.T) {
		svc := newVoucherSvc(new(mocks.MockBillRepo), new(mocks.MockObjectStorage))
		_, err := svc.Upload(ctx, voucherInput("receipt.exe", pngBytes))
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	})

	t.Run("rejects_mismatched_content", func(t *testing.T) {
		svc := newVoucherSvc(new(mocks.MockBillRepo), new(mocks.MockObjectStorage))
		_, err := svc.Upload(ctx, voucherInput("receipt.png", []byte("MZ\x90\x00not-an-image")))
		assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
	})

	t.Run("rejects_oversized_file", func(t *testing.T) {
		svc := newVoucherSvc(new(mocks.MockBillRepo), new(mocks.MockObjectStorage))
		input := voucherInput("receipt.png", pngBytes)
		input.Header.Size = 2 * 1024 * 1024
		_, err := svc.Upload(ctx, input)
		assert.ErrorIs(t, err, domain.ErrFileTooLarge)
	})

	t.Run("storage_failure", func(t *testing.T) {
		billRepo := new(mocks.MockBillRepo)
		storage := new(mocks.MockObjectStorage)
		svc := newVoucherSvc(billRepo, storage)

		storage.On("Upload", ctx, mock.Anything).Return(nil, errors.New("s3: connection reset"))
		_, err := svc.Upload(ctx, voucherInput("receipt.png", pngBytes))
		assert.ErrorIs(t, err, domain.ErrUploadFailed)
		billRepo.AssertNotCalled(t, "SetLineVoucher", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVoucherService_GetDownloadURL(t *testing.T) {
	ctx := context.Background()
	storage := new(mocks.MockObjectStorage)
	svc := newVoucherSvc(new(mocks.MockBillRepo), storage)

	storage.On("GetPresignedURL", ctx, "lexbill-vouchers", "vouchers/a/b/receipt.png", int64(3600)).
		Return("https://s3.example.com/signed", nil)

	url, err := svc.GetDownloadURL(ctx, "vouchers/a/b/receipt.png")
	require.NoError(t, err)
	assert.Equal(t, "https://s3.example.com/signed", url)
	storage.AssertExpectations(t)
}
