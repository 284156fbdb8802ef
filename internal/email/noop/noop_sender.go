package noop

import (
	"context"
	"log"

	"lexbill/internal/domain"
	"lexbill/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op NoticeSender that logs taxation notices
// to stdout. Used in development and tests.
func NewNoopSender() port.NoticeSender {
	return &noopSender{}
}

func (s *noopSender) SendTaxationNotice(_ context.Context, toEmail, toName string, schedule domain.TaxationSchedule) error {
	log.Printf("[NOOP EMAIL] Taxation notice for %s (%s): bill %s, inspection by %s, objection by %s, set down %s",
		toName, toEmail, schedule.BillID,
		schedule.InspectionDeadline.Format("2006-01-02"),
		schedule.ObjectionDeadline.Format("2006-01-02"),
		schedule.SetDownDate.Format("2006-01-02"))
	return nil
}
