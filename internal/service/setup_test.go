package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
	"github.com/xxxsen/tutorhub/internal/pkg/password"
	"github.com/xxxsen/tutorhub/internal/pkg/timeutil"
	"github.com/xxxsen/tutorhub/internal/session"
	"github.com/xxxsen/tutorhub/internal/testutil"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testEnv struct {
	mr            *miniredis.Miniredis
	store         *session.RedisStore
	issuer        *jwt.Issuer
	teachers      *testutil.TeacherStore
	parents       *testutil.ParentStore
	children      *testutil.ChildStore
	verifications *testutil.VerificationStore
	mailer        *testutil.Mailer
	sessions      *Sessions
	verify        *EmailVerificationService
	auth          *AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	issuer, err := jwt.NewIssuer(testSecret)
	require.NoError(t, err)

	env := &testEnv{
		mr:            mr,
		store:         session.NewRedisStore(client),
		issuer:        issuer,
		teachers:      testutil.NewTeacherStore(),
		parents:       testutil.NewParentStore(),
		children:      testutil.NewChildStore(),
		verifications: testutil.NewVerificationStore(),
		mailer:        &testutil.Mailer{},
	}
	env.sessions = NewSessions(issuer, env.store)
	env.verify = NewEmailVerificationService(env.verifications, env.parents, env.sessions)
	env.auth = NewAuthService(env.teachers, env.parents, issuer, env.store, env.verify, env.mailer, AuthServiceOptions{
		ProjectName: "TutorHub",
		FrontendURL: "https://app.example.com",
	})
	return env
}

func (e *testEnv) seedTeacher(t *testing.T, email, plain string) *model.Teacher {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	now := timeutil.NowUnix()
	teacher := &model.Teacher{
		ID:           newID(),
		Email:        email,
		FirstName:    gofakeit.FirstName(),
		LastName:     gofakeit.LastName(),
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	require.NoError(t, e.teachers.Create(context.Background(), teacher))
	return teacher
}

func (e *testEnv) cachedToken(t *testing.T, accountID string) (string, bool) {
	t.Helper()
	token, found, err := e.store.Get(context.Background(), accountID)
	require.NoError(t, err)
	return token, found
}
