package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendEnrollmentReceipt(toEmail, playerName, coachName string, amount int64) error
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

func (s *emailService) SendEnrollmentReceipt(toEmail, playerName, coachName string, amount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Your Booton Enrollment")

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Hi %s,</h2>
			<p>Your enrollment with coach <b>%s</b> has been created.</p>
			<p>Amount: <b>Rp %d</b></p>
			<p>Complete the payment through the checkout page to confirm your sessions.</p>
			<p>If you didn't request this, please ignore this email.</p>
		</div>
	`, playerName, coachName, amount)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		fmt.Printf("[MAILER ERROR] Failed to send receipt to %s: %v\n", toEmail, err)
		return err
	}

	fmt.Printf("[MAILER] Enrollment receipt sent to %s\n", toEmail)
	return nil
}
