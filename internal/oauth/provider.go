package oauth

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrProviderRequired  = errors.New("oauth provider is required")
	ErrIncompleteProfile = errors.New("oauth profile is missing id or email")
)

// Profile is the identity an external provider vouches for.
type Profile struct {
	Provider       string
	ProviderUserID string
	Email          string
	GivenName      string
	FamilyName     string
}

func (p *Profile) Validate() error {
	if p == nil || strings.TrimSpace(p.ProviderUserID) == "" || strings.TrimSpace(p.Email) == "" {
		return ErrIncompleteProfile
	}
	return nil
}

// Names returns the first and last name to store for the profile, falling
// back to the local part of the email when the provider sent no given name.
func (p *Profile) Names() (string, string) {
	first := strings.TrimSpace(p.GivenName)
	if first == "" {
		first, _, _ = strings.Cut(p.Email, "@")
	}
	return first, strings.TrimSpace(p.FamilyName)
}

type Provider interface {
	Name() string
	AuthURL(state string) (string, error)
	ExchangeCode(ctx context.Context, code string) (*Profile, error)
}

type ProviderFactory func(args interface{}) (Provider, error)

var registry = map[string]ProviderFactory{}

func Register(name string, factory ProviderFactory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

func NewProvider(name string, args interface{}) (Provider, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil, ErrProviderRequired
	}
	factory, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("unsupported oauth provider: %s", name)
	}
	return factory(args)
}
