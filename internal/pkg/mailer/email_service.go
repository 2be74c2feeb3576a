// FILE: internal/pkg/mailer/email_service.go
package mailer

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/rispar0529/De-Sign/internal/workflow"
)

// emailService delivers the meeting confirmation over SMTP. At-most-once:
// DialAndSend is attempted exactly once per call and the error is handed
// back to the engine as a workflow.DeliveryError.
type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderEmail, senderName string) workflow.NotificationGateway {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: senderEmail,
		senderName:  senderName,
	}
}

func (s *emailService) SendMeetingConfirmation(ctx context.Context, address string, session *workflow.Session, meeting *workflow.MeetingDetails) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.senderEmail, s.senderName))
	m.SetHeader("To", address)
	m.SetHeader("Subject", "Meeting Scheduled - Contract Processing Complete")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your contract has been processed</h2>
			<p><b>Contract:</b> %s</p>
			<p><b>Status:</b> Approved and signed</p>
			<h3>Meeting details</h3>
			<ul>
				<li>Date &amp; Time: %s</li>
				<li>Meeting ID: %s</li>
				<li>Confirmation Code: %s</li>
			</ul>
			<p><a href="%s" style="background-color: #007BFF; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px; display: inline-block;">Open Meeting</a></p>
			<p>Or copy this link:</p>
			<p>%s</p>
			<p>If you didn't request this, please contact support.</p>
		</div>
	`,
		session.Document.Filename,
		meeting.Timestamp.Format("2006-01-02 at 15:04 UTC"),
		meeting.MeetingID,
		meeting.ConfirmationCode,
		meeting.CalendarLink,
		meeting.CalendarLink,
	)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return &workflow.DeliveryError{Address: address, Err: err}
	}

	return nil
}
