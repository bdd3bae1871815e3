package service

import (
	"context"
	"strings"

	"github.com/xxxsen/tutorhub/internal/model"
	appErr "github.com/xxxsen/tutorhub/internal/pkg/errors"
	"github.com/xxxsen/tutorhub/internal/pkg/password"
	"github.com/xxxsen/tutorhub/internal/pkg/timeutil"
)

var (
	errTeacherNotFound = appErr.New(appErr.ErrNotFound, "teacher not found")
	errStudentsHidden  = appErr.New(appErr.ErrForbidden, "not allowed to view these students")
)

// Viewer is the authenticated caller of a read.
type Viewer struct {
	ID   string
	Role model.Role
}

type CreateTeacherInput struct {
	Email           string
	Password        string
	FirstName       string
	LastName        string
	Phone           string
	Bio             string
	Specializations string
}

type TeacherService struct {
	teachers TeacherStore
	children ChildStore
}

func NewTeacherService(teachers TeacherStore, children ChildStore) *TeacherService {
	return &TeacherService{teachers: teachers, children: children}
}

func (s *TeacherService) Create(ctx context.Context, input CreateTeacherInput) (*model.Teacher, error) {
	email := normalizeEmail(input.Email)
	if _, err := s.teachers.GetByEmail(ctx, email); err == nil {
		return nil, errEmailRegistered
	} else if !appErr.IsNotFound(err) {
		return nil, err
	}
	hash, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	teacher := &model.Teacher{
		ID:              newID(),
		Email:           email,
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		PasswordHash:    hash,
		Phone:           strings.TrimSpace(input.Phone),
		Bio:             strings.TrimSpace(input.Bio),
		Specializations: strings.TrimSpace(input.Specializations),
		Ctime:           now,
		Mtime:           now,
	}
	if err := s.teachers.Create(ctx, teacher); err != nil {
		if appErr.IsConflict(err) {
			return nil, errEmailRegistered
		}
		return nil, err
	}
	return teacher, nil
}

func (s *TeacherService) List(ctx context.Context) ([]model.Teacher, error) {
	return s.teachers.List(ctx)
}

// ListStudents returns the children taught by teacherID. Only that teacher
// may read the list.
func (s *TeacherService) ListStudents(ctx context.Context, viewer Viewer, teacherID string) ([]model.Child, error) {
	if _, err := s.teachers.GetByID(ctx, teacherID); err != nil {
		if appErr.IsNotFound(err) {
			return nil, errTeacherNotFound
		}
		return nil, err
	}
	if viewer.Role != model.RoleTeacher || viewer.ID != teacherID {
		return nil, errStudentsHidden
	}
	return s.children.ListByPrimaryTeacher(ctx, teacherID)
}
