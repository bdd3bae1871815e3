package handler

import (
	"net/netip"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/tutorhub/internal/middleware"
	"github.com/xxxsen/tutorhub/internal/pkg/jwt"
)

const (
	adminLoginLimit  = 3
	adminLoginWindow = time.Hour
)

type RouterDeps struct {
	Auth     *AuthHandler
	OAuth    *OAuthHandler
	Admin    *AdminHandler
	Teachers *TeacherHandler
	System   *SystemHandler
	Issuer   *jwt.Issuer
	// TrustedProxies are the peers whose X-Forwarded-For is believed.
	TrustedProxies []netip.Prefix
}

func RegisterRoutes(api *gin.RouterGroup, deps RouterDeps) {
	api.GET("/health", deps.System.Health)
	api.GET("/metrics", deps.System.Metrics)

	auth := api.Group("/auth")
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/logout", deps.Auth.Logout)
	auth.POST("/refresh", deps.Auth.Refresh)
	auth.POST("/register", deps.Auth.Register)
	auth.POST("/verify-email", deps.Auth.VerifyEmail)
	auth.GET("/google/login", deps.OAuth.GoogleLogin)
	auth.GET("/google/callback", deps.OAuth.GoogleCallback)
	auth.POST("/admin/login", middleware.RateLimit(adminLoginLimit, adminLoginWindow, deps.TrustedProxies), deps.Admin.Login)
	auth.POST("/create-teacher", middleware.AdminAuth(deps.Issuer), deps.Admin.CreateTeacher)

	api.GET("/teachers", middleware.AdminAuth(deps.Issuer), deps.Teachers.List)
	api.GET("/teachers/:teacherID/students", middleware.JWTAuth(deps.Issuer), deps.Teachers.ListStudents)
}
