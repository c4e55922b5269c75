package mailer

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"

	"portfolio-be/internal/pkg/logger"
)

var ErrNotConfigured = errors.New("mailer: SMTP is not configured")

// ContactMessage is a visitor's message from the contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type IEmailService interface {
	SendContact(msg ContactMessage) error
}

// Sender abstracts gomail's dialer so tests can capture messages.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	sender      Sender
	senderEmail string
	senderName  string
	recipient   string
	logger      logger.ILogger
}

// NewEmailService returns a service that fails with ErrNotConfigured when
// host or recipient is empty.
func NewEmailService(host string, port int, username, password, senderName, recipient string, log logger.ILogger) IEmailService {
	var sender Sender
	if host != "" {
		sender = gomail.NewDialer(host, port, username, password)
	}
	return NewEmailServiceWithSender(sender, username, senderName, recipient, log)
}

func NewEmailServiceWithSender(sender Sender, senderEmail, senderName, recipient string, log logger.ILogger) IEmailService {
	return &emailService{
		sender:      sender,
		senderEmail: senderEmail,
		senderName:  senderName,
		recipient:   recipient,
		logger:      log,
	}
}

func (s *emailService) SendContact(msg ContactMessage) error {
	if s.sender == nil || s.recipient == "" {
		return ErrNotConfigured
	}

	subject := strings.TrimSpace(msg.Subject)
	if subject == "" {
		subject = "New portfolio message from " + msg.Name
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", s.recipient)
	m.SetAddressHeader("Reply-To", msg.Email, msg.Name)
	m.SetHeader("Subject", subject)

	body := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2>New message from your portfolio</h2>
			<p><strong>Name:</strong> %s</p>
			<p><strong>Email:</strong> %s</p>
			<p style="white-space: pre-wrap;">%s</p>
		</div>
	`, html.EscapeString(msg.Name), html.EscapeString(msg.Email), html.EscapeString(msg.Message))

	m.SetBody("text/html", body)
	m.AddAlternative("text/plain", fmt.Sprintf("From: %s <%s>\n\n%s", msg.Name, msg.Email, msg.Message))

	if err := s.sender.DialAndSend(m); err != nil {
		s.logger.Error(logger.ModuleContact, "Failed to send contact message", map[string]interface{}{
			"from":  msg.Email,
			"error": err.Error(),
		})
		return err
	}

	s.logger.Info(logger.ModuleContact, "Contact message relayed", map[string]interface{}{"from": msg.Email})
	return nil
}
