// Package sender реализует отправку писем рассылки через SMTP транспорт.
package sender

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/letterpost/newsletter-service/internal/lib/sl"
	"github.com/letterpost/newsletter-service/internal/lib/smtp"
	"github.com/letterpost/newsletter-service/internal/models"
)

const mimeBoundary = "=_newsletter_boundary"

// SenderService собирает письма и отправляет их через транспорт.
type SenderService struct {
	transport smtp.TransportInterface
	log       *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, transport smtp.TransportInterface) *SenderService {
	return &SenderService{transport: transport, log: log}
}

// SendIssue отправляет выпуск рассылки одному получателю.
// Письмо собирается как multipart/alternative: текстовая и HTML-версии.
func (s *SenderService) SendIssue(to string, issue models.Issue) error {
	body := strings.Join([]string{
		"--" + mimeBoundary,
		`Content-Type: text/plain; charset="UTF-8"`,
		"",
		issue.TextBody,
		"",
		"--" + mimeBoundary,
		`Content-Type: text/html; charset="UTF-8"`,
		"",
		issue.HTMLBody,
		"",
		"--" + mimeBoundary + "--",
	}, "\r\n")

	contentType := `multipart/alternative; boundary="` + mimeBoundary + `"`
	return s.sendEmail(to, issue.Title, contentType, body)
}

// SendConfirmation отправляет новое письмо со ссылкой подтверждения подписки.
func (s *SenderService) SendConfirmation(to, confirmationLink string) error {
	bodyText := fmt.Sprintf(
		"Welcome to our newsletter!\nVisit %s to confirm your subscription.",
		confirmationLink)

	return s.sendEmail(to, "Welcome!", `text/plain; charset="UTF-8"`, bodyText)
}

func (s *SenderService) sendEmail(to, subject, contentType, body string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: " + contentType,
		"",
		body,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}
	if err := client.Rcpt(to); err != nil {
		s.log.Error("failed to set RCPT TO", "recipient", to, sl.Err(err))
		return err
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get data writer", sl.Err(err))
		return err
	}
	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}
	if err = wc.Close(); err != nil {
		s.log.Error("failed to close data writer", sl.Err(err))
		return err
	}
	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
