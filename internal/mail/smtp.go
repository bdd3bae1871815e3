package mail

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/xxxsen/tutorhub/internal/config"
)

type smtpSender struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

func (s *smtpSender) Name() string {
	return "smtp"
}

func (s *smtpSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.dialer.DialAndSend(s.build(msg))
}

func (s *smtpSender) build(msg *Message) *gomail.Message {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.From, s.cfg.FromName)
	if msg.ToName != "" {
		m.SetAddressHeader("To", msg.To, msg.ToName)
	} else {
		m.SetHeader("To", msg.To)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	return m
}

func newSMTPSender(cfg config.MailConfig) (Sender, error) {
	if strings.TrimSpace(cfg.SMTP.Host) == "" || cfg.SMTP.Port == 0 {
		return nil, fmt.Errorf("smtp host and port are required")
	}
	dialer := gomail.NewDialer(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password)
	return &smtpSender{cfg: cfg, dialer: dialer}, nil
}

func init() {
	Register("smtp", newSMTPSender)
}
