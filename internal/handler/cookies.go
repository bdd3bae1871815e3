package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/tutorhub/internal/middleware"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
)

const (
	RefreshCookieName = "refresh_token"
	AccessCookieName  = "access_token"

	refreshCookieTTL = jwt.RefreshTokenTTL
	adminCookieTTL   = jwt.AdminTokenTTL
)

type cookieWriter struct {
	secure bool
}

func (w cookieWriter) set(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, value, int(ttl.Seconds()), "/", "", w.secure, true)
}

func (w cookieWriter) clear(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", w.secure, true)
}

func (w cookieWriter) setRefresh(c *gin.Context, token string, ttl time.Duration) {
	w.set(c, RefreshCookieName, token, ttl)
}

func (w cookieWriter) setAdmin(c *gin.Context, token string, ttl time.Duration) {
	w.set(c, middleware.AdminCookieName, token, ttl)
}
