package services

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"github.com/mailgun/mailgun-go/v4"

	"github.com/Silverrhd/AurumFinanceAI-sub001/src/config"
	"github.com/Silverrhd/AurumFinanceAI-sub001/src/logger"
)

// NotificationService delivers the post-run batch summary to the operations
// mailbox. Disabled (no-op) unless an email provider is configured.
type NotificationService interface {
	SendRunSummary(subject, body string) error
}

func NewNotificationService() NotificationService {
	provider := strings.ToLower(config.Cfg.EmailServiceProvider)
	if provider == "" || config.Cfg.NotifyEmail == "" {
		return &noopNotificationService{}
	}
	logger.L.Info("Initializing notification service", "provider", provider)

	switch provider {
	case "mailgun":
		mg := mailgun.NewMailgun(config.Cfg.MailgunDomain, config.Cfg.MailgunPrivateAPIKey)
		return &mailgunNotificationService{
			mg:          mg,
			senderEmail: config.Cfg.SenderEmail,
			senderName:  config.Cfg.SenderName,
			toEmail:     config.Cfg.NotifyEmail,
		}
	case "smtp":
		if config.Cfg.SMTPServer == "" || config.Cfg.SMTPUser == "" {
			logger.L.Warn("SMTP configuration incomplete. Notifications disabled.")
			return &noopNotificationService{}
		}
		return &smtpNotificationService{
			server:   config.Cfg.SMTPServer,
			port:     config.Cfg.SMTPPort,
			user:     config.Cfg.SMTPUser,
			password: config.Cfg.SMTPPassword,
			sender:   config.Cfg.SenderEmail,
			toEmail:  config.Cfg.NotifyEmail,
		}
	default:
		logger.L.Warn("Unknown email provider, notifications disabled", "provider", provider)
		return &noopNotificationService{}
	}
}

type noopNotificationService struct{}

func (s *noopNotificationService) SendRunSummary(subject, body string) error {
	logger.L.Debug("Notification service disabled, summary not sent", "subject", subject)
	return nil
}

type mailgunNotificationService struct {
	mg          *mailgun.MailgunImpl
	senderEmail string
	senderName  string
	toEmail     string
}

func (s *mailgunNotificationService) SendRunSummary(subject, body string) error {
	sender := fmt.Sprintf("%s <%s>", s.senderName, s.senderEmail)
	message := s.mg.NewMessage(sender, subject, body, s.toEmail)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, _, err := s.mg.Send(ctx, message)
	if err != nil {
		logger.L.Error("Failed to send run summary via Mailgun", "error", err, "to", s.toEmail)
		return fmt.Errorf("failed to send run summary via mailgun: %w", err)
	}
	logger.L.Info("Run summary sent via Mailgun", "to", s.toEmail)
	return nil
}

type smtpNotificationService struct {
	server   string
	port     int
	user     string
	password string
	sender   string
	toEmail  string
}

func (s *smtpNotificationService) SendRunSummary(subject, body string) error {
	header := map[string]string{
		"From":         s.sender,
		"To":           s.toEmail,
		"Subject":      subject,
		"MIME-version": "1.0",
		"Content-Type": `text/plain; charset="UTF-8"`,
	}
	var message strings.Builder
	for k, v := range header {
		fmt.Fprintf(&message, "%s: %s\r\n", k, v)
	}
	message.WriteString("\r\n" + body)

	auth := smtp.PlainAuth("", s.user, s.password, s.server)
	addr := fmt.Sprintf("%s:%d", s.server, s.port)
	if err := smtp.SendMail(addr, auth, s.sender, []string{s.toEmail}, []byte(message.String())); err != nil {
		logger.L.Error("Failed to send run summary via SMTP", "error", err, "to", s.toEmail)
		return fmt.Errorf("failed to send run summary via SMTP: %w", err)
	}
	logger.L.Info("Run summary sent via SMTP", "to", s.toEmail)
	return nil
}
