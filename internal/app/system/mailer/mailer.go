// internal/app/system/mailer/mailer.go

// Package mailer sends transactional email over SMTP.
package mailer

import (
	"context"
	"fmt"
	"math/rand"
	"mime"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Email is one outbound message. Both bodies should be set; clients that
// cannot render HTML fall back to the text part.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // e.g. "OrgDesk <no-reply@orgdesk.example>"
}

// Sender delivers email. A nil *Sender is a no-op that logs the message
// instead of sending it, which keeps development environments working
// without an SMTP server.
type Sender struct {
	cfg Config
	log *zap.Logger
}

// New creates a Sender. Returns nil when no SMTP host is configured.
func New(cfg Config, log *zap.Logger) *Sender {
	if cfg.Host == "" {
		return nil
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Sender{cfg: cfg, log: log}
}

// Send delivers the email, honoring ctx cancellation.
func (s *Sender) Send(ctx context.Context, msg Email) error {
	if s == nil {
		zap.L().Info("mail suppressed (no SMTP host configured)",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject))
		return nil
	}
	if msg.To == "" {
		return fmt.Errorf("send mail: empty recipient")
	}

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	body := buildMIME(s.cfg.From, msg)

	done := make(chan error, 1)
	go func() {
		done <- smtp.SendMail(addr, auth, envelopeFrom(s.cfg.From), []string{msg.To}, body)
	}()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail to %s: %w", msg.To, err)
		}
	}

	s.log.Info("mail sent", zap.String("to", msg.To), zap.String("subject", msg.Subject))
	return nil
}

// buildMIME assembles a multipart/alternative message with text and HTML
// parts.
func buildMIME(from string, msg Email) []byte {
	boundary := fmt.Sprintf("orgdesk-%d-%d", time.Now().UnixNano(), rand.Int63())

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(msg.TextBody)
	b.WriteString("\r\n")

	if msg.HTMLBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
		b.WriteString(msg.HTMLBody)
		b.WriteString("\r\n")
	}

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// envelopeFrom extracts the bare address from a "Name <addr>" header value.
func envelopeFrom(from string) string {
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.LastIndex(from, ">"); j > i {
			return from[i+1 : j]
		}
	}
	return from
}
