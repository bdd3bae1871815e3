package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/xxxsen/tutorhub/internal/config"
)

type Message struct {
	To      string
	ToName  string
	Subject string
	Text    string
	HTML    string
}

type Sender interface {
	Name() string
	Send(ctx context.Context, msg *Message) error
}

type SenderFactory func(cfg config.MailConfig) (Sender, error)

var registry = map[string]SenderFactory{}

func Register(name string, factory SenderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewSender(cfg config.MailConfig) (Sender, error) {
	key := strings.ToLower(strings.TrimSpace(cfg.Provider))
	if key == "" {
		return nil, fmt.Errorf("mail provider is required")
	}
	factory := registry[key]
	if factory == nil {
		return nil, fmt.Errorf("unsupported mail provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
