package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/tutorhub/internal/pkg/response"
	"github.com/xxxsen/tutorhub/internal/service"
)

type AdminHandler struct {
	admin    *service.AdminService
	teachers *service.TeacherService
	cookies  cookieWriter
}

func NewAdminHandler(admin *service.AdminService, teachers *service.TeacherService, secureCookies bool) *AdminHandler {
	return &AdminHandler{admin: admin, teachers: teachers, cookies: cookieWriter{secure: secureCookies}}
}

type adminLoginRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
}

type createTeacherRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=6,max=72"`
	FirstName       string `json:"first_name" binding:"required,max=100"`
	LastName        string `json:"last_name" binding:"required,max=100"`
	Phone           string `json:"phone" binding:"omitempty,max=32"`
	Bio             string `json:"bio" binding:"omitempty,max=2000"`
	Specializations string `json:"specializations" binding:"omitempty,max=500"`
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req adminLoginRequest
	if !bindJSON(c, &req) {
		return
	}
	token, err := h.admin.Login(req.Username, req.Password)
	if err != nil {
		handleError(c, err)
		return
	}
	h.cookies.setAdmin(c, token, adminCookieTTL)
	response.Success(c, gin.H{"message": "admin logged in"})
}

func (h *AdminHandler) CreateTeacher(c *gin.Context) {
	var req createTeacherRequest
	if !bindJSON(c, &req) {
		return
	}
	teacher, err := h.teachers.Create(c.Request.Context(), service.CreateTeacherInput{
		Email:           req.Email,
		Password:        req.Password,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Phone:           req.Phone,
		Bio:             req.Bio,
		Specializations: req.Specializations,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"teacher": teacher})
}
