package mailer

import (
	"fmt"
	"time"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendPurgeReport(toEmail string, purged int, activeUsers, deletedUsers int64, ranAt time.Time) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
}

func NewEmailService(host string, port int, username, password, senderEmail string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
	}
}

// SendPurgeReport mails the outcome of a retention purge run to ops.
// Best effort: callers treat a mail failure as a warning, never as a failed run.
func (s *emailService) SendPurgeReport(toEmail string, purged int, activeUsers, deletedUsers int64, ranAt time.Time) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Retention purge report: %d account(s) purged", purged))

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Retention Purge Completed</h2>
			<p>Run at: <strong>%s</strong></p>
			<ul>
				<li>Accounts purged: <strong>%d</strong></li>
				<li>Active users: %d</li>
				<li>Deleted (pending purge) users: %d</li>
			</ul>
			<p>Purged accounts have passed the 3-year retention floor and are now terminal.</p>
		</div>
	`, ranAt.Format(time.RFC3339), purged, activeUsers, deletedUsers)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send purge report to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Purge report sent to %s\n", toEmail)
	return nil
}
