package domain

import "errors"

var (
	ErrScheduleNotFound   = errors.New("no tariff schedule for court and scale")
	ErrItemNotFound       = errors.New("tariff item not found in schedule")
	ErrNoTariffInForce    = errors.New("no tariff version in force on the work date")
	ErrInvalidQuantity    = errors.New("quantity must be greater than zero")
	ErrActualCostRequired = errors.New("actual-cost item requires an externally supplied amount")

	ErrMissingVoucherBlocked  = errors.New("party-and-party disbursement blocked: voucher missing")
	ErrEthicsViolationBlocked = errors.New("item blocked: prohibited fee arrangement detected")

	ErrMatterNotFound = errors.New("matter not found")
	ErrBillNotFound   = errors.New("bill not found")
	ErrLineNotFound   = errors.New("bill line item not found")
	ErrBillFinalized  = errors.New("bill is finalized and cannot be modified")
	ErrBillNotDraft   = errors.New("bill has already been finalized")

	ErrUnsupportedFileType = errors.New("unsupported voucher file type")
	ErrFileTooLarge        = errors.New("voucher file exceeds maximum allowed size")
	ErrUploadFailed        = errors.New("voucher upload to storage failed")
)
