package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/mailjet/mailjet-apiv3-go/v4"

	"github.com/xxxsen/tutorhub/internal/config"
)

type mailjetSender struct {
	cfg    config.MailConfig
	client *mailjet.Client
}

func (s *mailjetSender) Name() string {
	return "mailjet"
}

func (s *mailjetSender) Send(ctx context.Context, msg *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	messages := s.build(msg)
	res, err := s.client.SendMailV31(messages)
	if err != nil {
		return fmt.Errorf("mailjet send: %w", err)
	}
	for _, item := range res.ResultsV31 {
		if !strings.EqualFold(item.Status, "success") {
			return fmt.Errorf("mailjet send: status %s", item.Status)
		}
	}
	return nil
}

func (s *mailjetSender) build(msg *Message) *mailjet.MessagesV31 {
	info := mailjet.InfoMessagesV31{
		From: &mailjet.RecipientV31{
			Email: s.cfg.From,
			Name:  s.cfg.FromName,
		},
		To: &mailjet.RecipientsV31{
			mailjet.RecipientV31{
				Email: msg.To,
				Name:  msg.ToName,
			},
		},
		Subject:  msg.Subject,
		TextPart: msg.Text,
		HTMLPart: msg.HTML,
	}
	return &mailjet.MessagesV31{Info: []mailjet.InfoMessagesV31{info}}
}

func newMailjetSender(cfg config.MailConfig) (Sender, error) {
	if cfg.Mailjet.APIKey == "" || cfg.Mailjet.SecretKey == "" {
		return nil, fmt.Errorf("mailjet api key and secret key are required")
	}
	return &mailjetSender{
		cfg:    cfg,
		client: mailjet.NewMailjetClient(cfg.Mailjet.APIKey, cfg.Mailjet.SecretKey),
	}, nil
}

func init() {
	Register("mailjet", newMailjetSender)
}
