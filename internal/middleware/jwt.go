package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/tutorhub/internal/pkg/errcode"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
	"github.com/xxxsen/tutorhub/internal/pkg/response"
)

const (
	ContextUserIDKey        = "user_id"
	ContextRoleKey          = "role"
	ContextEmailVerifiedKey = "email_verified"

	AdminCookieName = "admin_token"
)

// JWTAuth requires a Bearer access token.
func JWTAuth(issuer *jwt.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "authorization header is missing or invalid")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "authorization header is missing or invalid")
			c.Abort()
			return
		}
		claims, err := issuer.Parse(strings.TrimSpace(parts[1]))
		if err != nil || claims.Role == jwt.RoleAdmin {
			response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "invalid token")
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Set(ContextEmailVerifiedKey, claims.EmailVerified)
		c.Next()
	}
}

// AdminAuth requires a valid admin token in the admin_token cookie.
func AdminAuth(issuer *jwt.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookieName)
		if err != nil || token == "" {
			response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "admin token is missing")
			c.Abort()
			return
		}
		claims, err := issuer.Parse(token)
		if err != nil || claims.Role != jwt.RoleAdmin {
			response.Error(c, http.StatusUnauthorized, errcode.ErrUnauthorized, "invalid admin token")
			c.Abort()
			return
		}
		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)
		c.Next()
	}
}
