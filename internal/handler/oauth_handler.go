package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/tutorhub/internal/pkg/errcode"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
	"github.com/xxxsen/tutorhub/internal/pkg/response"
	"github.com/xxxsen/tutorhub/internal/service"
)

const oauthStateTTL = 10 * time.Minute

var errStateUnavailable = appErr.New(appErr.ErrInternal, "oauth state unavailable")

type OAuthHandler struct {
	oauth       *service.OAuthService
	stateStore  *oauthStateStore
	frontendURL string
	cookies     cookieWriter
}

func NewOAuthHandler(oauth *service.OAuthService, frontendURL string, secureCookies bool) *OAuthHandler {
	return &OAuthHandler{
		oauth:       oauth,
		stateStore:  newOAuthStateStore(oauthStateTTL),
		frontendURL: frontendURL,
		cookies:     cookieWriter{secure: secureCookies},
	}
}

func (h *OAuthHandler) GoogleLogin(c *gin.Context) {
	state := h.stateStore.Create()
	if state == "" {
		handleError(c, errStateUnavailable)
		return
	}
	authURL, err := h.oauth.AuthURL(state)
	if err != nil {
		handleError(c, err)
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback finishes the authorization-code flow. Every failure is
// reported to the browser with the same generic body.
func (h *OAuthHandler) GoogleCallback(c *gin.Context) {
	logger := logutil.GetLogger(c.Request.Context()).With(zap.String("provider", "google"))
	if providerErr := c.Query("error"); providerErr != "" {
		logger.Warn("oauth callback rejected by provider", zap.String("error", providerErr))
		h.fail(c)
		return
	}
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		logger.Warn("oauth callback missing code or state")
		h.fail(c)
		return
	}
	if !h.stateStore.Consume(state) {
		logger.Warn("oauth callback state mismatch")
		h.fail(c)
		return
	}
	profile, err := h.oauth.Exchange(c.Request.Context(), code)
	if err != nil {
		logger.Error("oauth code exchange failed", zap.Error(err))
		h.fail(c)
		return
	}
	result, err := h.oauth.LoginOrCreate(c.Request.Context(), profile)
	if err != nil {
		logger.Error("oauth account resolution failed", zap.String("email", profile.Email), zap.Error(err))
		h.fail(c)
		return
	}
	h.cookies.setRefresh(c, result.RefreshToken, refreshCookieTTL)
	c.Redirect(http.StatusFound, h.frontendURL+"/auth/callback?accessToken="+url.QueryEscape(result.AccessToken))
}

func (h *OAuthHandler) fail(c *gin.Context) {
	response.Error(c, http.StatusBadRequest, errcode.ErrOAuthFailed, "authentication failed")
	c.Abort()
}

type oauthStateStore struct {
	mu    sync.Mutex
	items *cache.Cache
}

func newOAuthStateStore(ttl time.Duration) *oauthStateStore {
	return &oauthStateStore{items: cache.New(ttl, 2*ttl)}
}

func (s *oauthStateStore) Create() string {
	state := randomState()
	if state == "" {
		return ""
	}
	s.items.Set(state, struct{}{}, cache.DefaultExpiration)
	return state
}

// Consume reports whether state was issued and not yet used.
func (s *oauthStateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items.Get(state); !ok {
		return false
	}
	s.items.Delete(state)
	return true
}

func randomState() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	return hex.EncodeToString(buf)
}
