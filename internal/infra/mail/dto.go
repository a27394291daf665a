package mail

import "gopkg.in/gomail.v2"

type ClaimNoticeData struct {
	LeadID    string
	ClaimedBy string
	ManagedBy string
	ClaimedOn string
}

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type EmailSender struct {
	From   string
	Dialer Dialer
}
