package service

import (
	"context"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
	"github.com/xxxsen/tutorhub/internal/session"
)

type AuthResult struct {
	Account      *model.Account
	AccessToken  string
	RefreshToken string
}

// Sessions issues token pairs and records the refresh token as the single
// live session for the account.
type Sessions struct {
	issuer *jwt.Issuer
	store  session.Store
}

func NewSessions(issuer *jwt.Issuer, store session.Store) *Sessions {
	return &Sessions{issuer: issuer, store: store}
}

func (s *Sessions) Start(ctx context.Context, account *model.Account) (*AuthResult, error) {
	pair, err := s.issuer.IssuePair(account.ID(), string(account.Role), account.EmailVerified())
	if err != nil {
		return nil, err
	}
	if err := s.store.Store(ctx, account.ID(), pair.RefreshToken, s.issuer.RefreshTTL()); err != nil {
		return nil, err
	}
	return &AuthResult{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}
