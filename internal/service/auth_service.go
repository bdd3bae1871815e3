package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/mail"
	"github.com/xxxsen/tutorhub/internal/metrics"
	"github.com/xxxsen/tutorhub/internal/model"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
	"github.com/xxxsen/tutorhub/internal/pkg/password"
	"github.com/xxxsen/tutorhub/internal/pkg/timeutil"
	"github.com/xxxsen/tutorhub/internal/session"
)

var (
	errAccountNotFound     = appErr.New(appErr.ErrNotFound, "user not found")
	errInvalidCredentials  = appErr.New(appErr.ErrUnauthorized, "invalid credentials")
	errInvalidRefreshToken = appErr.New(appErr.ErrUnauthorized, "invalid refresh token")
	errRefreshNotFound     = appErr.New(appErr.ErrUnauthorized, "refresh token not found")
	errSessionUnavailable  = appErr.New(appErr.ErrUnauthorized, "session unavailable")
	errEmailRegistered     = appErr.New(appErr.ErrInvalid, "email already registered")
)

type RegisterParentInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

type AuthServiceOptions struct {
	ProjectName string
	FrontendURL string
}

type AuthService struct {
	teachers      TeacherStore
	parents       ParentStore
	sessions      *Sessions
	store         session.Store
	issuer        *jwt.Issuer
	verifications *EmailVerificationService
	mailer        MailQueue
	opts          AuthServiceOptions
}

func NewAuthService(teachers TeacherStore, parents ParentStore, issuer *jwt.Issuer, store session.Store,
	verifications *EmailVerificationService, mailer MailQueue, opts AuthServiceOptions) *AuthService {
	return &AuthService{
		teachers:      teachers,
		parents:       parents,
		sessions:      NewSessions(issuer, store),
		store:         store,
		issuer:        issuer,
		verifications: verifications,
		mailer:        mailer,
		opts:          opts,
	}
}

func (s *AuthService) Login(ctx context.Context, role model.Role, email, plainPassword string) (*AuthResult, error) {
	result, err := s.login(ctx, role, email, plainPassword)
	metrics.LoginTotal.WithLabelValues(string(role), metrics.Result(err)).Inc()
	return result, err
}

func (s *AuthService) login(ctx context.Context, role model.Role, email, plainPassword string) (*AuthResult, error) {
	account, err := s.lookup(ctx, role, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if !password.Match(account.PasswordHash(), plainPassword) {
		return nil, errInvalidCredentials
	}
	return s.sessions.Start(ctx, account)
}

// lookup only searches the relation for role, so an account registered under
// the other role is reported as not found.
func (s *AuthService) lookup(ctx context.Context, role model.Role, email string) (*model.Account, error) {
	switch role {
	case model.RoleTeacher:
		teacher, err := s.teachers.GetByEmail(ctx, email)
		if err != nil {
			if appErr.IsNotFound(err) {
				return nil, errAccountNotFound
			}
			return nil, err
		}
		return model.TeacherAccount(teacher), nil
	case model.RoleParent:
		parent, err := s.parents.GetByEmail(ctx, email)
		if err != nil {
			if appErr.IsNotFound(err) {
				return nil, errAccountNotFound
			}
			return nil, err
		}
		return model.ParentAccount(parent), nil
	}
	return nil, errAccountNotFound
}

// Refresh issues a new access token for a refresh token that is still the
// cached session of its account. The refresh token itself is not rotated.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.refresh(ctx, refreshToken)
	metrics.RefreshTotal.WithLabelValues(metrics.Result(err)).Inc()
	return token, err
}

func (s *AuthService) refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", errRefreshNotFound
	}
	claims, err := s.issuer.Parse(refreshToken)
	if err != nil {
		return "", errInvalidRefreshToken
	}
	cached, found, err := s.store.Get(ctx, claims.UserID)
	if err != nil {
		logutil.GetLogger(ctx).Error("read session failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return "", errSessionUnavailable
	}
	if !found || subtle.ConstantTimeCompare([]byte(cached), []byte(refreshToken)) != 1 {
		return "", errRefreshNotFound
	}
	return s.issuer.IssueAccess(claims.UserID, claims.Role, claims.EmailVerified)
}

// Logout revokes the session named by refreshToken. A missing, unreadable or
// superseded token means there is nothing to revoke, and the live session of
// the account is left alone.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	claims, err := s.issuer.Parse(refreshToken)
	if err != nil {
		return nil
	}
	revoked, err := s.store.Revoke(ctx, claims.UserID, refreshToken)
	if err != nil {
		logutil.GetLogger(ctx).Error("revoke session failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return errSessionUnavailable
	}
	if !revoked {
		logutil.GetLogger(ctx).Debug("logout with stale refresh token", zap.String("user_id", claims.UserID))
	}
	return nil
}

func (s *AuthService) RegisterParent(ctx context.Context, input RegisterParentInput) (*AuthResult, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.parents.GetByEmail(ctx, email); err == nil {
		return nil, errEmailRegistered
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	parent := &model.Parent{
		ID:            newID(),
		Email:         email,
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		PasswordHash:  hash,
		Phone:         strings.TrimSpace(input.Phone),
		EmailVerified: false,
		Ctime:         now,
		Mtime:         now,
	}
	if err := s.parents.Create(ctx, parent); err != nil {
		if appErr.IsConflict(err) {
			return nil, errEmailRegistered
		}
		return nil, err
	}
	result, err := s.sessions.Start(ctx, model.ParentAccount(parent))
	if err != nil {
		return nil, err
	}
	s.sendVerification(ctx, parent)
	return result, nil
}

// sendVerification never fails the registration; problems are logged.
func (s *AuthService) sendVerification(ctx context.Context, parent *model.Parent) {
	logger := logutil.GetLogger(ctx).With(zap.String("parent_id", parent.ID), zap.String("email", parent.Email))
	item, err := s.verifications.Create(ctx, parent)
	if err != nil {
		logger.Error("create email verification failed", zap.Error(err))
		return
	}
	link := fmt.Sprintf("%s/auth/verify-email?verificationID=%s", s.opts.FrontendURL, item.ID)
	name := strings.TrimSpace(parent.FirstName + " " + parent.LastName)
	msg, err := mail.RenderVerifyEmail(s.opts.ProjectName, parent.Email, name, link)
	if err != nil {
		logger.Error("render verification mail failed", zap.Error(err))
		return
	}
	if err := s.mailer.Enqueue(msg); err != nil {
		logger.Error("enqueue verification mail failed", zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
