package service

import (
	"context"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/oauth"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
	"github.com/xxxsen/tutorhub/internal/pkg/timeutil"
)

type OAuthService struct {
	provider oauth.Provider
	parents  ParentStore
	sessions *Sessions
}

func NewOAuthService(provider oauth.Provider, parents ParentStore, sessions *Sessions) *OAuthService {
	return &OAuthService{provider: provider, parents: parents, sessions: sessions}
}

func (s *OAuthService) AuthURL(state string) (string, error) {
	return s.provider.AuthURL(state)
}

func (s *OAuthService) Exchange(ctx context.Context, code string) (*oauth.Profile, error) {
	return s.provider.ExchangeCode(ctx, code)
}

// LoginOrCreate resolves the external profile to a parent by email. Existing
// parents get the external id linked; unknown addresses get a password-less
// parent that is already verified.
func (s *OAuthService) LoginOrCreate(ctx context.Context, profile *oauth.Profile) (*AuthResult, error) {
	if err := profile.Validate(); err != nil {
		return nil, appErr.New(appErr.ErrInvalid, err.Error())
	}
	email := normalizeEmail(profile.Email)
	now := timeutil.NowUnix()
	parent, err := s.parents.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if parent.GoogleID == "" {
			if err := s.parents.LinkGoogle(ctx, parent.ID, profile.ProviderUserID, now); err != nil {
				return nil, err
			}
			parent.GoogleID = profile.ProviderUserID
			parent.EmailVerified = true
			parent.Mtime = now
		}
	case appErr.IsNotFound(err):
		firstName, lastName := profile.Names()
		parent = &model.Parent{
			ID:            newID(),
			Email:         email,
			FirstName:     firstName,
			LastName:      lastName,
			EmailVerified: true,
			GoogleID:      profile.ProviderUserID,
			Ctime:         now,
			Mtime:         now,
		}
		if err := s.parents.Create(ctx, parent); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return s.sessions.Start(ctx, model.ParentAccount(parent))
}
