// Package mailer delivers transactional email over SMTP.
package mailer

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/domodwyer/mailyak/v3"
	"github.com/rs/zerolog/log"
)

// ErrDisabled is returned when SMTP is not configured
var ErrDisabled = errors.New("mailer disabled: SMTP not configured")

// Message is a rendered email ready to be delivered
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Config carries the SMTP settings
type Config struct {
	Host       string
	Port       string
	Username   string
	Password   string
	From       string
	AppBaseURL string
}

// Mailer renders templates and sends them through mailyak
type Mailer struct {
	cfg     Config
	enabled bool
	send    func(Message) error
}

func New(cfg Config) *Mailer {
	m := &Mailer{
		cfg:     cfg,
		enabled: cfg.Host != "" && cfg.Port != "" && cfg.From != "",
	}
	m.send = m.sendSMTP
	if !m.enabled {
		log.Warn().Msg("Mailer disabled: missing SMTP_HOST, SMTP_PORT or SMTP_FROM")
	}
	return m
}

func (m *Mailer) Enabled() bool {
	return m.enabled
}

func (m *Mailer) sendSMTP(msg Message) error {
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	mail := mailyak.New(m.cfg.Host+":"+m.cfg.Port, auth)
	mail.To(msg.To)
	mail.From(m.cfg.From)
	mail.FromName("LinkUp")
	mail.Subject(msg.Subject)
	mail.HTML().Set(msg.HTML)

	return mail.Send()
}

var verificationTmpl = template.Must(template.New("verify").Parse(`<!DOCTYPE html>
<html>
  <body style="font-family: sans-serif;">
    <p>Hi {{.DisplayName}},</p>
    <p>Confirm your email address to start using LinkUp.</p>
    <p><a href="{{.Link}}">Verify my email</a></p>
    <p>If you did not create an account you can ignore this message.</p>
  </body>
</html>`))

// VerificationLink is the URL a user follows to verify their address
func (m *Mailer) VerificationLink(token string) string {
	return strings.TrimRight(m.cfg.AppBaseURL, "/") + "/api/v1/auth/verify/" + token
}

// RenderVerification builds the verification message without sending it
func (m *Mailer) RenderVerification(to, displayName, token string) (Message, error) {
	var buf bytes.Buffer
	err := verificationTmpl.Execute(&buf, map[string]string{
		"DisplayName": displayName,
		"Link":        m.VerificationLink(token),
	})
	if err != nil {
		return Message{}, fmt.Errorf("render verification email: %w", err)
	}
	return Message{To: to, Subject: "Verify your LinkUp account", HTML: buf.String()}, nil
}

// SendVerification renders and delivers the verification email
func (m *Mailer) SendVerification(to, displayName, token string) error {
	if !m.enabled {
		return ErrDisabled
	}
	msg, err := m.RenderVerification(to, displayName, token)
	if err != nil {
		return err
	}
	if err := m.send(msg); err != nil {
		return fmt.Errorf("send verification email to %s: %w", to, err)
	}
	log.Info().Str("to", to).Msg("Verification email sent")
	return nil
}
