package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/xxxsen/common/webapi"

	"github.com/xxxsen/tutorhub/internal/handler"
	"github.com/xxxsen/tutorhub/internal/middleware"
	"github.com/xxxsen/tutorhub/internal/oauth"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
	"github.com/xxxsen/tutorhub/internal/service"
	"github.com/xxxsen/tutorhub/internal/session"
	"github.com/xxxsen/tutorhub/internal/testutil"
)

const (
	testFrontendURL   = "https://app.example.com"
	testAdminUser     = "root"
	testAdminPassword = "hunter22"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type testServer struct {
	router        http.Handler
	mr            *miniredis.Miniredis
	issuer        *jwt.Issuer
	store         *session.RedisStore
	teachers      *testutil.TeacherStore
	parents       *testutil.ParentStore
	children      *testutil.ChildStore
	verifications *testutil.VerificationStore
	mailer        *testutil.Mailer
	google        *httptest.Server
}

func newFakeGoogle(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": "google-at"})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"sub":         "google-sub-1",
			"email":       "oauth.parent@example.com",
			"given_name":  "Olive",
			"family_name": "Auth",
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	issuer, err := jwt.NewIssuer(testSecret)
	require.NoError(t, err)

	ts := &testServer{
		mr:            mr,
		issuer:        issuer,
		store:         session.NewRedisStore(client),
		teachers:      testutil.NewTeacherStore(),
		parents:       testutil.NewParentStore(),
		children:      testutil.NewChildStore(),
		verifications: testutil.NewVerificationStore(),
		mailer:        &testutil.Mailer{},
		google:        newFakeGoogle(t),
	}

	provider, err := oauth.NewProvider("google", oauth.ProviderArgs{
		Config: oauth.ProviderConfig{
			ClientID:     "cid",
			ClientSecret: "csecret",
			RedirectURL:  "http://localhost:8080/api/v1/auth/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
		},
		Endpoints: oauth.Endpoints{
			AuthURL:     ts.google.URL + "/auth",
			TokenURL:    ts.google.URL + "/token",
			UserInfoURL: ts.google.URL + "/userinfo",
		},
		Client: ts.google.Client(),
	})
	require.NoError(t, err)

	sessions := service.NewSessions(issuer, ts.store)
	verifyService := service.NewEmailVerificationService(ts.verifications, ts.parents, sessions)
	authService := service.NewAuthService(ts.teachers, ts.parents, issuer, ts.store, verifyService, ts.mailer, service.AuthServiceOptions{
		ProjectName: "TutorHub",
		FrontendURL: testFrontendURL,
	})
	oauthService := service.NewOAuthService(provider, ts.parents, sessions)
	adminService := service.NewAdminService(testAdminUser, testAdminPassword, issuer)
	teacherService := service.NewTeacherService(ts.teachers, ts.children)

	deps := handler.RouterDeps{
		Auth:     handler.NewAuthHandler(authService, verifyService, false),
		OAuth:    handler.NewOAuthHandler(oauthService, testFrontendURL, false),
		Admin:    handler.NewAdminHandler(adminService, teacherService, false),
		Teachers: handler.NewTeacherHandler(teacherService),
		System: handler.NewSystemHandler(map[string]handler.HealthCheck{
			"redis": func(ctx context.Context) error { return client.Ping(ctx).Err() },
		}),
		Issuer: issuer,
	}

	engine, err := webapi.NewEngine(
		"/api/v1",
		"",
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS([]string{testFrontendURL}),
		),
	)
	require.NoError(t, err)
	ts.router = engine
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, opts ...func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, opt := range opts {
		opt(req)
	}
	resp := httptest.NewRecorder()
	ts.router.ServeHTTP(resp, req)
	return resp
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		r.AddCookie(c)
	}
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func findCookie(resp *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range resp.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
