package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/xxxsen/tutorhub/internal/middleware"
	"github.com/xxxsen/tutorhub/internal/model"
	"github.com/xxxsen/tutorhub/internal/pkg/response"
	"github.com/xxxsen/tutorhub/internal/service"
)

type TeacherHandler struct {
	teachers *service.TeacherService
}

func NewTeacherHandler(teachers *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teachers: teachers}
}

func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.teachers.List(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, teachers)
}

func (h *TeacherHandler) ListStudents(c *gin.Context) {
	viewer := service.Viewer{
		ID:   getUserID(c),
		Role: model.Role(c.GetString(middleware.ContextRoleKey)),
	}
	students, err := h.teachers.ListStudents(c.Request.Context(), viewer, c.Param("teacherID"))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, students)
}
