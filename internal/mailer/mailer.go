// Package mailer sends operator notifications over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"

	"storefront/internal/models"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// Sender dispatches operator emails. Send failures are returned to the
// caller instead of being swallowed, so the caller decides whether to log
// or surface them.
type Sender interface {
	SendOrderNotification(to string, summary *models.OrderSummary) error
	SendTestMessage(to string) error
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	host   string
	port   string
	from   string
	logger *zap.Logger
}

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(host, port, from string) *SMTPMailer {
	return &SMTPMailer{
		host:   host,
		port:   port,
		from:   from,
		logger: util.GetLogger(),
	}
}

// SendOrderNotification emails an itemized order summary to the operator.
func (m *SMTPMailer) SendOrderNotification(to string, summary *models.OrderSummary) error {
	shortID := summary.CheckoutSessionID
	if len(shortID) > 12 {
		shortID = shortID[:12]
	}
	subject := fmt.Sprintf("New order %s", shortID)
	body := BuildOrderNotificationBody(summary)

	if err := m.send(to, subject, body); err != nil {
		return fmt.Errorf("failed to send order notification: %w", err)
	}

	m.logger.Info("Order notification sent",
		zap.String("to", to),
		zap.String("checkout_session_id", summary.CheckoutSessionID))
	return nil
}

// SendTestMessage sends a minimal message to verify SMTP connectivity.
func (m *SMTPMailer) SendTestMessage(to string) error {
	if err := m.send(to, "Storefront test email", "SMTP configuration is working.\r\n"); err != nil {
		return fmt.Errorf("failed to send test email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.host, m.port)
	return smtp.SendMail(addr, nil, m.from, []string{to}, []byte(msg))
}
