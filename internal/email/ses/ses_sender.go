package ses

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"lexbill/internal/domain"
	"lexbill/internal/port"
)

const dateLayout = "Monday, 2 January 2006"

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed NoticeSender.
func NewSESSender(region, fromAddress, fromName string) (port.NoticeSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendTaxationNotice(ctx context.Context, toEmail, toName string, schedule domain.TaxationSchedule) error {
	subject := fmt.Sprintf("Notice of taxation: bill %s", schedule.BillID)
	htmlBody := buildNoticeHTML(toName, schedule)
	textBody := buildNoticeText(toName, schedule)

	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func buildNoticeText(name string, schedule domain.TaxationSchedule) string {
	body := fmt.Sprintf("Dear %s,\n\nThe bill of costs %s was finalized on %s. The taxation timetable is as follows:\n\n  Inspection deadline: %s\n  Objection deadline:  %s\n  Set-down date:       %s\n",
		name,
		schedule.BillID,
		schedule.FinalizedOn.Format(dateLayout),
		schedule.InspectionDeadline.Format(dateLayout),
		schedule.ObjectionDeadline.Format(dateLayout),
		schedule.SetDownDate.Format(dateLayout),
	)
	if schedule.Adjusted {
		body += fmt.Sprintf("\nNote: %s\n", schedule.AdjustmentReason)
	}
	body += "\nLexBill"
	return body
}

func buildNoticeHTML(name string, schedule domain.TaxationSchedule) string {
	adjusted := ""
	if schedule.Adjusted {
		adjusted = fmt.Sprintf(`<p style="color: #B45309;">Note: %s</p>`, schedule.AdjustmentReason)
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Notice of taxation</h2>
  <p>Dear %s,</p>
  <p>The bill of costs <strong>%s</strong> was finalized on %s. The taxation timetable is as follows:</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 6px 12px; border: 1px solid #ddd;">Inspection deadline</td><td style="padding: 6px 12px; border: 1px solid #ddd;">%s</td></tr>
    <tr><td style="padding: 6px 12px; border: 1px solid #ddd;">Objection deadline</td><td style="padding: 6px 12px; border: 1px solid #ddd;">%s</td></tr>
    <tr><td style="padding: 6px 12px; border: 1px solid #ddd;">Set-down date</td><td style="padding: 6px 12px; border: 1px solid #ddd;">%s</td></tr>
  </table>
  %s
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">LexBill - Legal Cost Billing</p>
</body>
</html>`,
		name,
		schedule.BillID,
		schedule.FinalizedOn.Format(dateLayout),
		schedule.InspectionDeadline.Format(dateLayout),
		schedule.ObjectionDeadline.Format(dateLayout),
		schedule.SetDownDate.Format(dateLayout),
		adjusted,
	)
}
