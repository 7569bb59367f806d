// Package mailer delivers confirmation codes out-of-band. Delivery is an
// external collaborator: callers only depend on the Sender interface.
package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"

	"golang.org/x/time/rate"
)

type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender sends mail through a plain SMTP relay.
type SMTPSender struct {
	addr string
	from string
	auth smtp.Auth
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPSender{
		addr: fmt.Sprintf("%s:%d", host, port),
		from: from,
		auth: auth,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	msg := strings.Join([]string{
		"From: " + s.from,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")
	if err := smtp.SendMail(s.addr, s.auth, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// LogSender writes mail to the log instead of sending it. Used in
// development when no SMTP relay is configured.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(to, subject, body string) error {
	s.Logger.Info("email delivery skipped (no SMTP configured)",
		"to", to, "subject", subject, "body", body)
	return nil
}

// AsyncSender dispatches mail on a goroutine so the signup request never
// blocks on SMTP, throttled so a signup burst cannot flood the relay.
// Send always returns nil; delivery failures are logged.
type AsyncSender struct {
	inner   Sender
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewAsyncSender(inner Sender, perSecond float64, logger *slog.Logger) *AsyncSender {
	if perSecond <= 0 {
		perSecond = 1
	}
	return &AsyncSender{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(perSecond), int(perSecond)+1),
		logger:  logger,
	}
}

func (s *AsyncSender) Send(to, subject, body string) error {
	go func() {
		if err := s.limiter.Wait(context.Background()); err != nil {
			return
		}
		if err := s.inner.Send(to, subject, body); err != nil {
			s.logger.Error("failed to deliver email", "to", to, "error", err)
		}
	}()
	return nil
}
