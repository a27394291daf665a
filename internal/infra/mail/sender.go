package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/leasing-crm/internal/usecase"
)

//go:embed templates/*.html
var templates embed.FS

var claimNotice = template.Must(template.ParseFS(templates, "templates/claim_notice.html"))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		From:   from,
		Dialer: gomail.NewDialer(host, port, user, password),
	}
}

// SendClaimNotice mails the claimant's manager. ctx is checked before
// dialing; gomail itself does not take a context.
func (s *EmailSender) SendClaimNotice(ctx context.Context, event usecase.LeadClaimedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data := ClaimNoticeData{
		LeadID:    event.LeadID,
		ClaimedBy: event.ClaimedBy,
		ManagedBy: event.ManagedBy,
		ClaimedOn: event.ClaimedOn.Format("02 Jan 2006 15:04"),
	}

	var body bytes.Buffer
	if err := claimNotice.Execute(&body, data); err != nil {
		return fmt.Errorf("render claim notice: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", event.ManagedBy)
	m.SetHeader("Subject", fmt.Sprintf("Lead %s claimed by %s", event.LeadID, event.ClaimedBy))
	m.SetBody("text/html", body.String())

	if err := s.Dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send claim notice via SMTP: %w", err)
	}
	return nil
}
