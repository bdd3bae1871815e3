package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/tutorhub/internal/model"
)

func adminLogin(t *testing.T, ts *testServer) *http.Cookie {
	t.Helper()
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/admin/login", map[string]string{"username": testAdminUser, "password": testAdminPassword})
	require.Equal(t, http.StatusOK, resp.Code)
	cookie := findCookie(resp, "admin_token")
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	require.Equal(t, 365*24*60*60, cookie.MaxAge)
	return cookie
}

func TestAdminLoginRateLimited(t *testing.T) {
	ts := setupRouter(t)
	wrong := map[string]string{"username": testAdminUser, "password": "not-the-password"}
	for i := 0; i < 3; i++ {
		resp := ts.do(t, http.MethodPost, "/api/v1/auth/admin/login", wrong)
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/admin/login", map[string]string{"username": testAdminUser, "password": testAdminPassword})
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestAdminLoginRateLimitIgnoresSpoofedForwardedFor(t *testing.T) {
	ts := setupRouter(t)
	wrong := map[string]string{"username": testAdminUser, "password": "not-the-password"}
	spoof := func(i int) func(*http.Request) {
		return func(r *http.Request) {
			r.RemoteAddr = "203.0.113.7:5000"
			r.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		}
	}
	for i := 0; i < 3; i++ {
		resp := ts.do(t, http.MethodPost, "/api/v1/auth/admin/login", wrong, spoof(i))
		require.Equal(t, http.StatusUnauthorized, resp.Code)
	}
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/admin/login", wrong, spoof(3))
	require.Equal(t, http.StatusTooManyRequests, resp.Code)
}

func TestCreateTeacherRequiresAdmin(t *testing.T) {
	ts := setupRouter(t)
	body := map[string]string{
		"email":      "new.teacher@example.com",
		"password":   "secret1",
		"first_name": "Nia",
		"last_name":  "Teach",
	}
	resp := ts.do(t, http.MethodPost, "/api/v1/auth/create-teacher", body)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	pair, err := ts.issuer.IssuePair("acc-1", "teacher", true)
	require.NoError(t, err)
	resp = ts.do(t, http.MethodPost, "/api/v1/auth/create-teacher", body, withCookie(&http.Cookie{Name: "admin_token", Value: pair.AccessToken}))
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	admin := adminLogin(t, ts)
	resp = ts.do(t, http.MethodPost, "/api/v1/auth/create-teacher", body, withCookie(admin))
	require.Equal(t, http.StatusOK, resp.Code)
	require.NotContains(t, resp.Body.String(), "password_hash")

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/create-teacher", body, withCookie(admin))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.do(t, http.MethodGet, "/api/v1/teachers", nil, withCookie(admin))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "new.teacher@example.com")

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/login?role=teacher", map[string]string{"email": "new.teacher@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestListStudents(t *testing.T) {
	ts := setupRouter(t)
	teacher := seedTeacher(t, ts, "t@example.com", "secret1")
	ts.children.Add(model.Child{ID: "c1", FirstName: "Kid", LastName: "Coder", PrimaryTeacherID: teacher.ID})
	ts.children.Add(model.Child{ID: "c2", FirstName: "Someone", PrimaryTeacherID: "other"})

	pair, err := ts.issuer.IssuePair(teacher.ID, string(model.RoleTeacher), true)
	require.NoError(t, err)

	resp := ts.do(t, http.MethodGet, "/api/v1/teachers/"+teacher.ID+"/students", nil)
	require.Equal(t, http.StatusUnauthorized, resp.Code)

	resp = ts.do(t, http.MethodGet, "/api/v1/teachers/"+teacher.ID+"/students", nil, withBearer(pair.AccessToken))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "Kid")

	resp = ts.do(t, http.MethodGet, "/api/v1/teachers/missing/students", nil, withBearer(pair.AccessToken))
	require.Equal(t, http.StatusNotFound, resp.Code)

	colleague := seedTeacher(t, ts, "colleague@example.com", "secret1")
	other, err := ts.issuer.IssuePair(colleague.ID, string(model.RoleTeacher), true)
	require.NoError(t, err)
	resp = ts.do(t, http.MethodGet, "/api/v1/teachers/"+teacher.ID+"/students", nil, withBearer(other.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)
	require.NotContains(t, resp.Body.String(), "Kid")

	parent, err := ts.issuer.IssuePair("parent-1", string(model.RoleParent), true)
	require.NoError(t, err)
	resp = ts.do(t, http.MethodGet, "/api/v1/teachers/"+teacher.ID+"/students", nil, withBearer(parent.AccessToken))
	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := setupRouter(t)
	resp := ts.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.do(t, http.MethodGet, "/api/v1/metrics", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "go_goroutines")
}
