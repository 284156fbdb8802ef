package port

import (
	"context"

	"lexbill/internal/domain"
)

// NoticeSender defines the contract for sending taxation notices to the
// instructing attorney when a bill is finalized.
type NoticeSender interface {
	SendTaxationNotice(ctx context.Context, toEmail, toName string, schedule domain.TaxationSchedule) error
}
