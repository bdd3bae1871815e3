package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/tutorhub/internal/model"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
)

func seedParent(t *testing.T, env *testEnv, email string) *model.Parent {
	t.Helper()
	parent := &model.Parent{ID: newID(), Email: email, FirstName: "Pat", PasswordHash: "x"}
	require.NoError(t, env.parents.Create(context.Background(), parent))
	return parent
}

func TestVerifyConsumesOnce(t *testing.T) {
	env := newTestEnv(t)
	parent := seedParent(t, env, "p@example.com")
	other := seedParent(t, env, "q@example.com")

	item, err := env.verify.Create(context.Background(), parent)
	require.NoError(t, err)

	result, err := env.verify.Verify(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, parent.ID, result.Account.ID())
	claims, err := env.issuer.Parse(result.AccessToken)
	require.NoError(t, err)
	require.True(t, claims.EmailVerified)

	cached, found := env.cachedToken(t, parent.ID)
	require.True(t, found)
	require.Equal(t, result.RefreshToken, cached)

	_, err = env.verify.Verify(context.Background(), item.ID)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Equal(t, "invalid verification id", appErr.Message(err))

	// only the owning parent is marked verified
	untouched, err := env.parents.GetByID(context.Background(), other.ID)
	require.NoError(t, err)
	require.False(t, untouched.EmailVerified)
}

func TestVerifyKeepsLinkWhenUpdateFails(t *testing.T) {
	env := newTestEnv(t)
	parent := seedParent(t, env, "p@example.com")
	item, err := env.verify.Create(context.Background(), parent)
	require.NoError(t, err)

	env.parents.UpdateErr = errors.New("connection reset")
	_, err = env.verify.Verify(context.Background(), item.ID)
	require.Error(t, err)
	require.Equal(t, 1, env.verifications.Len())

	env.parents.UpdateErr = nil
	result, err := env.verify.Verify(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, parent.ID, result.Account.ID())
	require.Equal(t, 0, env.verifications.Len())

	stored, err := env.parents.GetByID(context.Background(), parent.ID)
	require.NoError(t, err)
	require.True(t, stored.EmailVerified)
}

func TestVerifyUnknownID(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.verify.Verify(context.Background(), "does-not-exist")
	require.ErrorIs(t, err, appErr.ErrInvalid)

	_, err = env.verify.Verify(context.Background(), "")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestVerifyExpired(t *testing.T) {
	env := newTestEnv(t)
	parent := seedParent(t, env, "p@example.com")
	base := time.Now()
	env.verify.now = func() time.Time { return base }
	item, err := env.verify.Create(context.Background(), parent)
	require.NoError(t, err)

	env.verify.now = func() time.Time { return base.Add(VerificationTTL + time.Second) }
	_, err = env.verify.Verify(context.Background(), item.ID)
	require.ErrorIs(t, err, appErr.ErrInvalid)
	require.Equal(t, "link has expired", appErr.Message(err))
	require.Equal(t, 0, env.verifications.Len())

	stored, err := env.parents.GetByID(context.Background(), parent.ID)
	require.NoError(t, err)
	require.False(t, stored.EmailVerified)
}

func TestVerifyMissingParent(t *testing.T) {
	env := newTestEnv(t)
	item, err := env.verify.Create(context.Background(), &model.Parent{ID: "gone"})
	require.NoError(t, err)
	_, err = env.verify.Verify(context.Background(), item.ID)
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestSweepExpired(t *testing.T) {
	env := newTestEnv(t)
	parent := seedParent(t, env, "p@example.com")
	base := time.Now()

	env.verify.now = func() time.Time { return base.Add(-2 * VerificationTTL) }
	_, err := env.verify.Create(context.Background(), parent)
	require.NoError(t, err)
	env.verify.now = func() time.Time { return base }
	fresh, err := env.verify.Create(context.Background(), parent)
	require.NoError(t, err)

	removed, err := env.verify.SweepExpired(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
	require.Equal(t, 1, env.verifications.Len())

	_, err = env.verifications.GetByID(context.Background(), fresh.ID)
	require.NoError(t, err)
}
