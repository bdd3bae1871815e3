package service

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/model"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
)

const VerificationTTL = time.Hour

var (
	errInvalidVerification = appErr.New(appErr.ErrInvalid, "invalid verification id")
	errVerificationExpired = appErr.New(appErr.ErrInvalid, "link has expired")
)

type EmailVerificationService struct {
	verifications VerificationStore
	parents       ParentStore
	sessions      *Sessions
	now           func() time.Time
}

func NewEmailVerificationService(verifications VerificationStore, parents ParentStore, sessions *Sessions) *EmailVerificationService {
	return &EmailVerificationService{
		verifications: verifications,
		parents:       parents,
		sessions:      sessions,
		now:           time.Now,
	}
}

func (s *EmailVerificationService) Create(ctx context.Context, parent *model.Parent) (*model.EmailVerification, error) {
	now := s.now()
	item := &model.EmailVerification{
		ID:        newID(),
		ParentID:  parent.ID,
		Ctime:     now.Unix(),
		ExpiresAt: now.Add(VerificationTTL).Unix(),
	}
	if err := s.verifications.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Verify consumes the verification id, marks its parent verified and starts a
// session whose tokens carry the verified state.
func (s *EmailVerificationService) Verify(ctx context.Context, id string) (*AuthResult, error) {
	if id == "" {
		return nil, errInvalidVerification
	}
	item, err := s.verifications.GetByID(ctx, id)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, errInvalidVerification
		}
		return nil, err
	}
	now := s.now().Unix()
	if item.Expired(now) {
		if err := s.verifications.Delete(ctx, id); err != nil && !appErr.IsNotFound(err) {
			logutil.GetLogger(ctx).Warn("delete expired verification failed", zap.String("verification_id", id), zap.Error(err))
		}
		return nil, errVerificationExpired
	}
	parent, err := s.parents.GetByID(ctx, item.ParentID)
	if err != nil {
		if appErr.IsNotFound(err) {
			return nil, errInvalidVerification
		}
		return nil, err
	}
	// Marking first keeps the link usable when the update fails. The delete
	// is what makes the link single-use.
	if err := s.parents.MarkEmailVerified(ctx, parent.ID, now); err != nil {
		return nil, err
	}
	if err := s.verifications.Delete(ctx, id); err != nil {
		if appErr.IsNotFound(err) {
			return nil, errInvalidVerification
		}
		return nil, err
	}
	parent.EmailVerified = true
	parent.Mtime = now
	return s.sessions.Start(ctx, model.ParentAccount(parent))
}

func (s *EmailVerificationService) SweepExpired(ctx context.Context) (int64, error) {
	return s.verifications.DeleteExpired(ctx, s.now().Unix())
}
