// Package mailer sends admin replies to contact-form senders. Delivery is
// best effort: when SMTP is not configured the send is skipped, and failures
// never fail the originating request.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

type Config struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.From) != ""
}

func SendReply(cfg Config, to, subject, body string) error {
	if !cfg.Enabled() {
		return fmt.Errorf("smtp not configured")
	}

	msg := strings.Join([]string{
		"From: " + cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	addr := cfg.Host + ":" + cfg.Port
	return smtp.SendMail(addr, auth, cfg.From, []string{to}, []byte(msg))
}
