package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/password"
	"github.com/xxxsen/tutorhub/internal/pkg/timeutil"
)

func seedTeacher(t *testing.T, ts *testServer, email, plain string) *model.Teacher {
	t.Helper()
	hash, err := password.Hash(plain)
	require.NoError(t, err)
	now := timeutil.NowUnix()
	teacher := &model.Teacher{ID: "teacher-" + email, Email: email, FirstName: "Tia", LastName: "Tutor", PasswordHash: hash, Ctime: now, Mtime: now}
	require.NoError(t, ts.teachers.Create(context.Background(), teacher))
	return teacher
}

func TestLoginSetsRefreshCookie(t *testing.T) {
	ts := setupRouter(t)
	teacher := seedTeacher(t, ts, "t@example.com", "secret1")

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/login?role=teacher", map[string]string{"email": "t@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotContains(t, resp.Body.String(), "password_hash")
	require.Contains(t, resp.Body.String(), "accessToken")

	cookie := findCookie(resp, "refresh_token")
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.False(t, cookie.Secure)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Equal(t, "/", cookie.Path)
	require.Equal(t, 7*24*60*60, cookie.MaxAge)

	cached, err := ts.mr.Get("refresh_token:" + teacher.ID)
	require.NoError(t, err)
	require.Equal(t, cookie.Value, cached)
}

func TestLoginFailures(t *testing.T) {
	ts := setupRouter(t)
	seedTeacher(t, ts, "t@example.com", "secret1")

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/login?role=teacher", map[string]string{"email": "t@example.com", "password": "wrong-pass"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/login?role=parent", map[string]string{"email": "t@example.com", "password": "secret1"})
	require.Equal(t, http.StatusNotFound, resp.Code)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/login?role=student", map[string]string{"email": "t@example.com", "password": "secret1"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/login?role=teacher", map[string]string{"email": "not-an-email", "password": "123"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), `"email":"email"`)
	require.Contains(t, resp.Body.String(), `"password":"min"`)
}

func TestRefreshAndLogout(t *testing.T) {
	ts := setupRouter(t)
	seedTeacher(t, ts, "t@example.com", "secret1")

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/login?role=teacher", map[string]string{"email": "t@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.Code)
	refresh := findCookie(resp, "refresh_token")
	require.NotNil(t, refresh)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, withCookie(refresh))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "accessToken")
	require.Nil(t, findCookie(resp, "refresh_token"))

	for i := 0; i < 2; i++ {
		resp = ts.do(t, http.MethodPost, "/api/v1/auth/logout", nil, withCookie(refresh))
		require.Equal(t, http.StatusOK, resp.Code)
		cleared := findCookie(resp, "refresh_token")
		require.NotNil(t, cleared)
		require.Empty(t, cleared.Value)
		require.NotNil(t, findCookie(resp, "access_token"))
	}
	require.Empty(t, ts.mr.Keys())

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/refresh", nil, withCookie(refresh))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogoutFailsClosedWhenCacheDown(t *testing.T) {
	ts := setupRouter(t)
	pair, err := ts.issuer.IssuePair("acc-1", "parent", false)
	require.NoError(t, err)
	ts.mr.Close()

	resp := ts.do(t, http.MethodPost, "/api/v1/auth/logout", nil, withCookie(&http.Cookie{Name: "refresh_token", Value: pair.RefreshToken}))
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestRegisterVerifyLogin(t *testing.T) {
	ts := setupRouter(t)
	body := map[string]string{
		"email":      "a@x.com",
		"password":   "secret1",
		"first_name": "Ann",
		"last_name":  "Example",
	}
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, findCookie(resp, "refresh_token"))
	require.Len(t, ts.mailer.Sent(), 1)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/register", body)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	require.Equal(t, 1, ts.parents.Count("a@x.com"))

	parent, err := ts.parents.GetByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	item, ok := ts.verifications.Latest(parent.ID)
	require.True(t, ok)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/verify-email?verificationID="+item.ID, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotNil(t, findCookie(resp, "refresh_token"))

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/verify-email?verificationID="+item.ID, nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/login?role=parent", map[string]string{"email": "a@x.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.Code)
	refresh := findCookie(resp, "refresh_token")
	require.NotNil(t, refresh)
	claims, err := ts.issuer.Parse(refresh.Value)
	require.NoError(t, err)
	require.True(t, claims.EmailVerified)
}

func TestRegisterValidation(t *testing.T) {
	ts := setupRouter(t)
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/register", map[string]string{"email": "a@x.com"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	require.Contains(t, resp.Body.String(), `"first_name":"required"`)
}

func TestVerifyEmailUnknownID(t *testing.T) {
	ts := setupRouter(t)
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/verify-email?verificationID=nope", nil)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}
