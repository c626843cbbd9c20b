package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type IEmailService interface {
	SendBookingConfirmation(toEmail, className, startsAt string) error
	SendBookingCancellation(toEmail, className, startsAt string) error
	SendPurchaseConfirmation(toEmail, packageName string, classes int, expiresAt string) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
}

func NewEmailService(host string, port int, username, password, senderName string) IEmailService {
	d := gomail.NewDialer(host, port, username, password)

	return &emailService{
		dialer:      d,
		senderEmail: username,
		senderName:  senderName,
	}
}

func (s *emailService) send(toEmail, subject, body string) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send %q to %s: %w", subject, toEmail, err)
	}
	return nil
}

func (s *emailService) SendBookingConfirmation(toEmail, className, startsAt string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Your class is booked!</h2>
			<p>We look forward to seeing you at:</p>
			<h3>%s</h3>
			<p>%s</p>
			<p>If you can no longer make it, remember you can cancel up to 2 hours before class starts.</p>
		</div>
	`, className, startsAt)

	return s.send(toEmail, "Booking Confirmation", body)
}

func (s *emailService) SendBookingCancellation(toEmail, className, startsAt string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Booking cancelled</h2>
			<p>Your booking for <strong>%s</strong> on %s has been cancelled and the class credit returned to your account.</p>
		</div>
	`, className, startsAt)

	return s.send(toEmail, "Booking Cancelled", body)
}

func (s *emailService) SendPurchaseConfirmation(toEmail, packageName string, classes int, expiresAt string) error {
	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>Thank you for your purchase!</h2>
			<p>Your <strong>%s</strong> is ready to use.</p>
			<p>%d class credits, valid until %s.</p>
			<p>See you in the studio!</p>
		</div>
	`, packageName, classes, expiresAt)

	return s.send(toEmail, "Purchase Confirmation", body)
}
