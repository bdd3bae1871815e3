package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/errcode"
	"github.com/xxxsen/tutorhub/internal/pkg/response"
	"github.com/xxxsen/tutorhub/internal/service"
)

type AuthHandler struct {
	auth    *service.AuthService
	verify  *service.EmailVerificationService
	cookies cookieWriter
}

func NewAuthHandler(auth *service.AuthService, verify *service.EmailVerificationService, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, verify: verify, cookies: cookieWriter{secure: secureCookies}}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

type registerRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
	Phone     string `json:"phone" binding:"omitempty,max=32"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	role, err := model.ParseRole(c.Query("role"))
	if err != nil {
		response.Validation(c, http.StatusUnprocessableEntity, errcode.ErrValidation, map[string]string{"role": "oneof"})
		return
	}
	var req loginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.auth.Login(c.Request.Context(), role, req.Email, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	h.respondSession(c, result)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(RefreshCookieName)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		handleError(c, err)
		return
	}
	h.cookies.clear(c, RefreshCookieName)
	h.cookies.clear(c, AccessCookieName)
	response.Success(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(RefreshCookieName)
	accessToken, err := h.auth.Refresh(c.Request.Context(), token)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"accessToken": accessToken})
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.auth.RegisterParent(c.Request.Context(), service.RegisterParentInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	h.respondSession(c, result)
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	result, err := h.verify.Verify(c.Request.Context(), c.Query("verificationID"))
	if err != nil {
		handleError(c, err)
		return
	}
	h.respondSession(c, result)
}

func (h *AuthHandler) respondSession(c *gin.Context, result *service.AuthResult) {
	h.cookies.setRefresh(c, result.RefreshToken, refreshCookieTTL)
	response.Success(c, gin.H{
		"user":        result.Account.Public(),
		"accessToken": result.AccessToken,
	})
}
