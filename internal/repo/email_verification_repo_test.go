package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/tutorhub/internal/model"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
	"github.com/xxxsen/tutorhub/internal/pkg/timeutil"
	"github.com/xxxsen/tutorhub/internal/repo"
	"github.com/xxxsen/tutorhub/internal/testutil"
)

func TestEmailVerificationRepoLifecycle(t *testing.T) {
	db, cleanup := testutil.OpenTestDB(t)
	defer cleanup()

	ctx := context.Background()
	now := timeutil.NowUnix()
	require.NoError(t, repo.NewParentRepo(db).Create(ctx, &model.Parent{
		ID: "parent-1", Email: "p@example.com", FirstName: "P", LastName: "Q", PasswordHash: "h", Ctime: now, Mtime: now,
	}))

	verifications := repo.NewEmailVerificationRepo(db)
	require.NoError(t, verifications.Create(ctx, &model.EmailVerification{ID: "live", ParentID: "parent-1", Ctime: now, ExpiresAt: now + 3600}))
	require.NoError(t, verifications.Create(ctx, &model.EmailVerification{ID: "stale", ParentID: "parent-1", Ctime: now - 7200, ExpiresAt: now - 3600}))

	got, err := verifications.GetByID(ctx, "live")
	require.NoError(t, err)
	require.Equal(t, "parent-1", got.ParentID)

	removed, err := verifications.DeleteExpired(ctx, now)
	require.NoError(t, err)
	require.Equal(t, int64(1), removed)
	_, err = verifications.GetByID(ctx, "stale")
	require.True(t, appErr.IsNotFound(err))

	require.NoError(t, verifications.Delete(ctx, "live"))
	err = verifications.Delete(ctx, "live")
	require.True(t, appErr.IsNotFound(err))
}
